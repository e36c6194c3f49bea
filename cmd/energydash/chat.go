package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energydash/internal/dashboard"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question...]",
	Short: "Ask the energy assistant a question",
	Long: `Sends a question to the energy assistant and prints the answer.
Without arguments, starts an interactive session; type 'quit' or 'exit' to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	s, err := newSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	view := newConsoleView(os.Stdout)
	ctrl := s.controller(view)
	ctx := cmd.Context()

	if len(args) > 0 {
		return ctrl.Chat.Send(ctx, strings.Join(args, " "))
	}

	view.echoUser = false
	fmt.Println("Energy assistant ready. Type 'quit' or 'exit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if isQuit(line) {
			fmt.Println("Goodbye!")
			return nil
		}
		// failures are already shown as a bot message; keep the session going
		if err := ctrl.Chat.Send(ctx, line); err != nil && !dashboard.IsAlerted(err) {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "quit", "exit":
		return true
	}
	return false
}

package main

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jgoulah/energydash/internal/charts"
	"github.com/jgoulah/energydash/internal/dashboard"
	"github.com/jgoulah/energydash/pkg/models"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	breakPattern = regexp.MustCompile(`(?i)</(h\d|p|li|ul|div)>`)
	blankLines   = regexp.MustCompile(`\n{2,}`)
)

// consoleView renders controller output as plain terminal text
type consoleView struct {
	out io.Writer
	// echoUser prints the user's own chat messages; off in the interactive loop
	echoUser bool
}

func newConsoleView(out io.Writer) *consoleView {
	return &consoleView{out: out, echoUser: true}
}

func (v *consoleView) Alert(msg string) {
	fmt.Fprintf(v.out, "⚠ %s\n", msg)
}

func (v *consoleView) Notify(msg string) {
	fmt.Fprintf(v.out, "✓ %s\n", msg)
}

func (v *consoleView) SetText(_, text string) {
	if text != "" {
		fmt.Fprintln(v.out, text)
	}
}

func (v *consoleView) SetHTML(_, fragment string) {
	// inline errors are always followed by an alert with the same text
	if strings.HasPrefix(fragment, `<p class="error">`) {
		return
	}
	if text := htmlToText(fragment); text != "" {
		fmt.Fprintln(v.out, text)
	}
}

func (v *consoleView) SetValue(string, string) {}

func (v *consoleView) SetList(_ string, items []dashboard.ListItem) {
	if len(items) == 0 {
		fmt.Fprintln(v.out, "No appliances configured")
		return
	}
	for _, item := range items {
		fmt.Fprintf(v.out, "  %s\n", item.Label)
	}
}

func (v *consoleView) AppendMessage(msg models.ChatMessage) {
	switch {
	case msg.Sender == models.SenderUser:
		if v.echoUser {
			fmt.Fprintf(v.out, "You: %s\n", msg.Text)
		}
	case msg.Error:
		fmt.Fprintf(v.out, "Bot: ⚠ %s\n", msg.Text)
	default:
		fmt.Fprintf(v.out, "Bot: %s\n", msg.Text)
	}
}

func (v *consoleView) ShowSection(string) {}

// htmlToText flattens a summary fragment into lines of text
func htmlToText(fragment string) string {
	s := strings.ReplaceAll(fragment, "<li>• ", "<li>")
	s = strings.ReplaceAll(s, "<li>", "  - ")
	s = breakPattern.ReplaceAllString(s, "$0\n")
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = blankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// writeCharts saves every live chart on the board as <dir>/<canvas>.png
func writeCharts(board *charts.Board, dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating charts directory: %w", err)
	}

	for _, canvas := range board.Canvases() {
		c, ok := board.Get(canvas)
		if !ok {
			continue
		}
		path := filepath.Join(dir, canvas+".png")
		if err := writeChart(path, c); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", path)
	}
	return nil
}

func writeChart(path string, c *charts.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := charts.RenderPNG(f, c, 0, 0); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return f.Close()
}

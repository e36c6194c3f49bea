package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energydash/internal/snapshot"
)

var (
	snapshotURL     string
	snapshotPage    string
	snapshotOut     string
	snapshotVisible bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save a screenshot of a running dashboard",
	Long: `Opens the dashboard served by 'energydash serve' in a headless browser and
saves a full-page PNG. Use --page to open a section first, which also loads its data.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "dashboard URL (default derived from server.addr)")
	snapshotCmd.Flags().StringVar(&snapshotPage, "page", "", "section to open, e.g. predict or report")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "dashboard.png", "output file")
	snapshotCmd.Flags().BoolVar(&snapshotVisible, "visible", false, "show the browser window")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	base := snapshotURL
	if base == "" {
		base = localURL(cfg.GetServerAddr())
	}
	pageURL, err := snapshot.PageURL(base, snapshotPage)
	if err != nil {
		return err
	}

	width, height := cfg.GetSnapshotSize()
	fmt.Printf("Capturing %s (%dx%d)...\n", pageURL, width, height)

	png, err := snapshot.Capture(cmd.Context(), pageURL, snapshot.Options{
		Width:   width,
		Height:  height,
		Visible: snapshotVisible,
		Timeout: time.Minute,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(snapshotOut, png, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", snapshotOut, err)
	}
	fmt.Printf("✓ Saved %s\n", snapshotOut)
	return nil
}

// localURL turns a listen address like ":8080" into a URL a browser can open
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

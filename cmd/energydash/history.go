package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored predictions",
	Long:  `Displays predictions saved by 'predict' and 'serve' when history is enabled, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of predictions to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	records, err := db.ListPredictions(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing predictions: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No predictions stored")
		return nil
	}

	fmt.Println("----------------------------------------------------------------------------")
	fmt.Printf("%-4s  %-16s  %-26s  %12s  %10s  %s\n", "ID", "When", "Bills (₹)", "Predicted", "Units", "Pub")
	fmt.Println("----------------------------------------------------------------------------")
	for _, r := range records {
		bills := ""
		for i, b := range r.Bills {
			if i > 0 {
				bills += " / "
			}
			bills += humanize.FormatFloat("#,###.", b)
		}
		published := ""
		if r.Published {
			published = "✓"
		}
		fmt.Printf("%-4d  %-16s  %-26s  %12s  %10s  %s\n",
			r.ID,
			humanize.Time(r.CreatedAt),
			bills,
			"₹"+humanize.FormatFloat("#,###.##", r.PredictedBill),
			humanize.FormatFloat("#,###.#", r.PredictedUnits),
			published,
		)
	}
	fmt.Println("----------------------------------------------------------------------------")
	fmt.Printf("%d predictions\n", len(records))

	return nil
}

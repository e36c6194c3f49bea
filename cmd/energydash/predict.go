package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energydash/internal/charts"
	"github.com/jgoulah/energydash/internal/dashboard"
)

var predictChartsDir string

var predictCmd = &cobra.Command{
	Use:   "predict BILL1 BILL2 BILL3",
	Short: "Predict next month's bill from the last three bills",
	Long: `Sends the last three monthly bills (oldest first) to the prediction model and
prints the predicted bill, units and the month by month trend.

When history is enabled in the config, the prediction is stored in the local
database so it can be listed with 'history' and sent out with 'publish'.`,
	Args: cobra.ExactArgs(dashboard.BillCount),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictChartsDir, "charts-dir", "", "write the units and bills charts as PNG files to this directory")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	return withController(true, func(s *session, ctrl *dashboard.Controller) error {
		if err := ctrl.Predictor.Predict(cmd.Context(), args); err != nil {
			return err
		}
		if s.db != nil {
			fmt.Println("✓ Saved to history")
		}

		printTrend(s.board)
		return writeCharts(s.board, predictChartsDir)
	})
}

// printTrend prints the units and bills charts as a table
func printTrend(board *charts.Board) {
	units, ok := board.Get(dashboard.CanvasUnits)
	if !ok || len(units.Datasets) == 0 {
		return
	}
	bills, ok := board.Get(dashboard.CanvasBills)
	if !ok || len(bills.Datasets) == 0 {
		return
	}
	u, b := units.Datasets[0].Data, bills.Datasets[0].Data

	fmt.Println("----------------------------------------")
	fmt.Printf("%-12s  %10s  %12s\n", "Month", "Units", "Bill (₹)")
	fmt.Println("----------------------------------------")
	for i := range u {
		month := fmt.Sprintf("#%d", i+1)
		if i < len(units.Labels) {
			month = units.Labels[i]
		}
		marker := ""
		if i == len(u)-1 {
			marker = "  (predicted)"
		}
		bill := "-"
		if i < len(b) {
			bill = fmt.Sprintf("%.2f", b[i])
		}
		fmt.Printf("%-12s  %10.2f  %12s%s\n", month, u[i], bill, marker)
	}
	fmt.Println("----------------------------------------")
}

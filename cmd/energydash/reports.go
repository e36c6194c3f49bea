package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energydash/internal/dashboard"
)

var reportChartsDir string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show daily usage per appliance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), func(ctrl *dashboard.Controller) func(context.Context) error {
			return ctrl.Report.Load
		})
	},
}

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Show daily cost per appliance and the cost trend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), func(ctrl *dashboard.Controller) func(context.Context) error {
			return ctrl.Analysis.Load
		})
	},
}

var mlreportCmd = &cobra.Command{
	Use:   "mlreport",
	Short: "Show usage patterns, suggested cuts and their savings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), func(ctrl *dashboard.Controller) func(context.Context) error {
			return ctrl.MLReport.Load
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{reportCmd, analysisCmd, mlreportCmd} {
		cmd.Flags().StringVar(&reportChartsDir, "charts-dir", "", "write the report charts as PNG files to this directory")
		rootCmd.AddCommand(cmd)
	}
}

func runReport(ctx context.Context, load func(*dashboard.Controller) func(context.Context) error) error {
	return withController(false, func(s *session, ctrl *dashboard.Controller) error {
		if err := load(ctrl)(ctx); err != nil {
			return err
		}
		return writeCharts(s.board, reportChartsDir)
	})
}

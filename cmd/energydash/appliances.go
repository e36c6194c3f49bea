package main

import (
	"github.com/spf13/cobra"

	"github.com/jgoulah/energydash/internal/dashboard"
)

var appliancesCmd = &cobra.Command{
	Use:     "appliances",
	Aliases: []string{"app"},
	Short:   "Manage tracked appliances",
}

var appliancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appliances and their daily hours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(false, func(_ *session, ctrl *dashboard.Controller) error {
			return ctrl.Appliances.Load(cmd.Context())
		})
	},
}

var appliancesAddCmd = &cobra.Command{
	Use:   "add NAME HOURS",
	Short: "Add an appliance or update its daily hours (0-24)",
	Long: `Adds an appliance with the number of hours it runs each day.
Adding an appliance that already exists replaces its hours.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(false, func(_ *session, ctrl *dashboard.Controller) error {
			return ctrl.Appliances.Add(cmd.Context(), args[0], args[1])
		})
	},
}

var appliancesRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove an appliance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(false, func(_ *session, ctrl *dashboard.Controller) error {
			return ctrl.Appliances.Remove(cmd.Context(), args[0])
		})
	},
}

func init() {
	// HOURS may look like a flag, e.g. -1, and must reach validation
	appliancesAddCmd.Flags().SetInterspersed(false)
	appliancesCmd.AddCommand(appliancesListCmd, appliancesAddCmd, appliancesRemoveCmd)
	rootCmd.AddCommand(appliancesCmd)
}

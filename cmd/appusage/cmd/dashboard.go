package cmd

import (
	"github.com/spf13/cobra"

	"github.com/appusage/appusage/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Browse recorded usage in an interactive terminal view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := databasePath()
		if err != nil {
			return err
		}

		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		return dashboard.Run(cmd.Context(), repo, dbPath)
	},
}

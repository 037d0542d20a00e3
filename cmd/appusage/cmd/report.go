package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appusage/appusage/internal/reporter"
)

var (
	reportJSON  bool
	reportChart bool
)

var reportCmd = &cobra.Command{
	Use:       "report [day|week|month|all]",
	Short:     "Print focus time per application",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"day", "week", "month", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		period := ""
		if len(args) > 0 {
			period = args[0]
		}

		repo, closeDB, err := openRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		rep := reporter.New(cfg, repo)
		report, err := rep.GenerateReport(period)
		if err != nil {
			return err
		}

		if reportJSON {
			out, err := rep.FormatReportJSON(report)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		fmt.Print(rep.FormatReportText(report))

		if reportChart {
			days, err := rep.DailyTotals(7)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Print(rep.FormatDailyChart(days))
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
	reportCmd.Flags().BoolVar(&reportChart, "chart", false, "append a past-week bar chart")
}

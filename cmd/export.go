package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/keeper/internal/report"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

var (
	exportFormat string
	exportWeek   bool
	exportMonth  bool
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export bookings to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", report.FormatCSV, "Output format: csv, json, md")
	exportCmd.Flags().BoolVarP(&exportWeek, "week", "w", false, "Export the last 7 days (default)")
	exportCmd.Flags().BoolVarP(&exportMonth, "month", "m", false, "Export the last 30 days")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Export the last n days")
}

func runExport(cmd *cobra.Command, args []string) error {
	k, _, err := openKeeper()
	if err != nil {
		return err
	}

	keys := timecalc.DayKeys(k.Now(), periodDays(exportMonth, exportDays))
	return report.Export(deps.Stdout, exportFormat, report.Records(keys, k.Bookings()))
}

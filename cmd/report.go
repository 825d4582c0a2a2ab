package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/keeper/internal/report"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

var (
	reportWeek  bool
	reportMonth bool
	reportDays  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show category counts and the balance against contracted hours",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVarP(&reportWeek, "week", "w", false, "Report the last 7 days (default)")
	reportCmd.Flags().BoolVarP(&reportMonth, "month", "m", false, "Report the last 30 days")
	reportCmd.Flags().IntVar(&reportDays, "days", 0, "Report the last n days")
}

// periodDays picks the number of days for report and export; an explicit
// day count wins over --month, which wins over the default week.
func periodDays(month bool, days int) int {
	switch {
	case days > 0:
		return days
	case month:
		return 30
	default:
		return 7
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	k, cfg, err := openKeeper()
	if err != nil {
		return err
	}

	keys := timecalc.DayKeys(k.Now(), periodDays(reportMonth, reportDays))
	summary := report.Summarize(keys, k.Bookings(), cfg.ContractedWorkingHours)
	return report.WriteSummary(deps.Stdout, summary)
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/keeper/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's check-in status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	k, cfg, err := openKeeper()
	if err != nil {
		return err
	}

	s := k.Status()
	if !s.CheckedIn {
		fmt.Fprintf(deps.Stdout, "Not checked in today (%s).\n", s.Key)
		return nil
	}

	if s.CheckedOut {
		fmt.Fprintf(deps.Stdout, "Checked out (%s):\n", s.Key)
		fmt.Fprintf(deps.Stdout, "  In: %s  Out: %s\n", s.Since.Format("15:04"), s.Until.Format("15:04"))
		fmt.Fprintf(deps.Stdout, "  Present: %s\n", timecalc.FormatDuration(int64(s.Elapsed.Seconds())))
		fmt.Fprintf(deps.Stdout, "  Productive: %s h\n", timecalc.FormatHours(s.Productive))
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Checked in (%s):\n", s.Key)
	fmt.Fprintf(deps.Stdout, "  Since: %s\n", s.Since.Format("15:04"))
	fmt.Fprintf(deps.Stdout, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(int64(s.Elapsed.Seconds())))
	fmt.Fprintf(deps.Stdout, "  Productive (estimate): %s h\n", timecalc.FormatHours(s.Productive))

	target := time.Duration((cfg.ContractedWorkingHours + cfg.DefaultPauseLength) * float64(time.Hour))
	if remaining := target - s.Elapsed; remaining > 0 {
		fmt.Fprintf(deps.Stdout, "  Remaining: %s until %s\n",
			timecalc.FormatDuration(int64(remaining.Seconds())), s.Since.Add(target).Format("15:04"))
	}
	return nil
}

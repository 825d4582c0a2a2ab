package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Tiliavir/keeper/internal/config"
	"github.com/Tiliavir/keeper/internal/keeper"
	"github.com/Tiliavir/keeper/internal/logger"
	"github.com/Tiliavir/keeper/internal/model"
	"github.com/Tiliavir/keeper/internal/storage"
)

const noParameterNotice = "No parameter set. Please use '--help' for more information."

type rootOptions struct {
	date       string
	checkin    bool
	checkinAt  string
	checkout   bool
	checkoutAt string
	today      bool
	week       bool
	month      bool
	category   string
}

var (
	rootOpts     rootOptions
	settingsPath = config.DefaultPath
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:   "keeper",
	Short: "keeper – check in, check out and report daily working time",
	Long: `keeper records when you start and stop working, subtracts a pause
allowance rounded to the quarter hour and prints day, week and month tables.

Bookings are stored in keeper.json, settings in keeper_settings.json; both
are created in the working directory on first run.

Examples:
  keeper -i                      Check in now
  keeper -ia 08:30 -d 2024-01-10 Check in at 08:30 on 2024-01-10
  keeper -o                      Check out now
  keeper -w                      Show the last seven days`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute is the entry point called from main.
func Execute() {
	rootCmd.SetArgs(expandShortFlags(os.Args[1:]))
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&rootOpts.date, "date", "d", "", "Day to book on; format: yyyy-mm-dd")
	f.BoolVarP(&rootOpts.checkin, "checkin", "i", false, "Check in now")
	f.StringVar(&rootOpts.checkinAt, "checkin_at", "", "Check in at given time (short: -ia); format: hh:mm")
	f.BoolVarP(&rootOpts.checkout, "checkout", "o", false, "Check out now")
	f.StringVar(&rootOpts.checkoutAt, "checkout_at", "", "Check out at given time (short: -oa); format: hh:mm")
	f.BoolVarP(&rootOpts.today, "today", "t", false, "Print current day")
	f.BoolVarP(&rootOpts.week, "week", "w", false, "Print current week")
	f.BoolVarP(&rootOpts.month, "month", "m", false, "Print current month")
	f.StringVarP(&rootOpts.category, "category", "c", "",
		"Categorize day; possible values: "+model.CategoryNames())
	f.SetNormalizeFunc(underscoreFlags)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsPath, "settings", config.DefaultPath, "Path of the settings file")
	pf.BoolVar(&debug, "debug", false, "Mirror diagnostic logs to stderr")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

// twoLetterFlags maps the two-letter short forms, which pflag cannot
// express, to their long names.
var twoLetterFlags = map[string]string{
	"-ia": "--checkin_at",
	"-oa": "--checkout_at",
}

// expandShortFlags rewrites -ia/-oa (also -ia=09:00) to the long forms.
// Arguments after "--" are left alone.
func expandShortFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(out, args[i:]...)
		}
		name, value, hasValue := strings.Cut(a, "=")
		if long, ok := twoLetterFlags[name]; ok {
			if hasValue {
				a = long + "=" + value
			} else {
				a = long
			}
		}
		out = append(out, a)
	}
	return out
}

// underscoreFlags lets --checkin-at stand for --checkin_at.
func underscoreFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func newLogger() *log.Logger {
	return logger.New(logger.Config{Debug: debug, Dir: deps.LogDir, Stderr: deps.Stderr})
}

// openKeeper loads settings and bookings. Settings are read first so a
// broken settings file stops the run before the keeper file is touched.
func openKeeper() (*keeper.Keeper, config.Config, error) {
	l := newLogger()

	cfg, err := config.Load(settingsPath)
	if err != nil {
		l.Error("loading settings failed", "path", settingsPath, "err", err)
		return nil, cfg, err
	}
	l.Debug("settings loaded", "path", settingsPath, "keeper_file", cfg.KeeperFile,
		"default_pause_length", cfg.DefaultPauseLength)

	bookings, err := storage.Load(cfg.KeeperFile)
	if err != nil {
		l.Error("loading bookings failed", "path", cfg.KeeperFile, "err", err)
		return nil, cfg, err
	}
	l.Debug("bookings loaded", "count", len(bookings))

	k := keeper.New(cfg, bookings,
		keeper.WithClock(deps.Now),
		keeper.WithOutput(deps.Stdout),
		keeper.WithLogger(l),
	)
	return k, cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	k, _, err := openKeeper()
	if err != nil {
		return err
	}
	if _, err := k.ResolveDay(rootOpts.date); err != nil {
		return err
	}

	acted := false
	checks := []struct {
		set     bool
		checkin bool
		at      string
	}{
		{rootOpts.checkin, true, ""},
		{rootOpts.checkinAt != "", true, rootOpts.checkinAt},
		{rootOpts.checkout, false, ""},
		{rootOpts.checkoutAt != "", false, rootOpts.checkoutAt},
	}
	for _, c := range checks {
		if !c.set {
			continue
		}
		acted = true
		if _, err := k.Check(c.checkin, c.at); err != nil {
			return err
		}
	}

	views := []struct {
		set  bool
		days int
	}{
		{rootOpts.today, 1},
		{rootOpts.week, 7},
		{rootOpts.month, 30},
	}
	for _, v := range views {
		if !v.set {
			continue
		}
		acted = true
		if err := k.RenderDays(v.days); err != nil {
			return err
		}
	}

	if rootOpts.category != "" {
		acted = true
		var unknown *model.UnknownCategoryError
		if _, err := k.Category(rootOpts.category); err != nil && !errors.As(err, &unknown) {
			return err
		}
	}

	if !acted {
		fmt.Fprintln(deps.Stdout, noParameterNotice)
	}
	return nil
}

// Package keeper records check-ins and check-outs against the booking of
// a single day and renders reports of the loaded bookings.
package keeper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Tiliavir/keeper/internal/config"
	"github.com/Tiliavir/keeper/internal/logger"
	"github.com/Tiliavir/keeper/internal/model"
	"github.com/Tiliavir/keeper/internal/report"
	"github.com/Tiliavir/keeper/internal/storage"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

// DateParseError reports a malformed --date, --checkin_at or --checkout_at value.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// Keeper is the state of one invocation: configuration, loaded bookings
// and the day being worked on.
type Keeper struct {
	cfg      config.Config
	bookings model.Bookings
	now      time.Time
	day      time.Time
	clock    func() time.Time
	out      io.Writer
	log      *log.Logger
}

// Option configures a Keeper.
type Option func(*Keeper)

// WithClock replaces time.Now. The clock is read once, when the Keeper is
// created.
func WithClock(clock func() time.Time) Option {
	return func(k *Keeper) { k.clock = clock }
}

// WithOutput sets where tables and notices are written.
func WithOutput(w io.Writer) Option {
	return func(k *Keeper) { k.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(k *Keeper) { k.log = l }
}

// New returns a Keeper working on today.
func New(cfg config.Config, bookings model.Bookings, opts ...Option) *Keeper {
	k := &Keeper{
		cfg:      cfg,
		bookings: bookings,
		clock:    time.Now,
		out:      os.Stdout,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.bookings == nil {
		k.bookings = model.Bookings{}
	}
	k.now = k.clock()
	k.day = timecalc.StartOfDay(k.now)
	return k
}

// ResolveDay sets the day to work on. An empty value selects today,
// otherwise an ISO date is expected; a date-time is accepted and its date
// part used.
func (k *Keeper) ResolveDay(explicit string) (time.Time, error) {
	if explicit == "" {
		k.day = timecalc.StartOfDay(k.now)
		return k.day, nil
	}
	day, err := timecalc.ParseDayKey(explicit)
	if err != nil {
		ts, tsErr := model.ParseTimestamp(explicit)
		if tsErr != nil {
			return time.Time{}, &DateParseError{Value: explicit, Err: errors.New("expected a date like 2024-01-10")}
		}
		day = timecalc.StartOfDay(ts)
	}
	k.day = day
	k.log.Debug("resolved day", "key", k.DayKey())
	return k.day, nil
}

// DayKey returns the key of the day being worked on.
func (k *Keeper) DayKey() string {
	return timecalc.DayKey(k.day)
}

// Bookings returns the bookings held by k.
func (k *Keeper) Bookings() model.Bookings {
	return k.bookings
}

// Now returns the instant the run started.
func (k *Keeper) Now() time.Time {
	return k.now
}

// Check records a check-in or check-out on the current day, saves the
// keeper file and prints the day's table. at is a wall-clock time
// ("HH:MM"); when empty the start of the run is used as is, even if the
// day being worked on is not today.
func (k *Keeper) Check(checkin bool, at string) (model.Booking, error) {
	key := k.DayKey()

	var stamp time.Time
	if at != "" {
		t, err := timecalc.AtClock(k.day, at)
		if err != nil {
			return model.Booking{}, &DateParseError{Value: at, Err: err}
		}
		stamp = t
	} else {
		stamp = k.now
		if !timecalc.SameDay(stamp, k.day) {
			k.log.Warn("timestamp falls on another day than the booking", "key", key, "timestamp", stamp)
		}
	}

	booking, ok := k.bookings[key]
	if !ok {
		booking = model.NewBooking()
	}

	if checkin {
		booking.CheckinTimestamp = model.NewTimestamp(stamp)
	} else {
		booking.CheckoutTimestamp = model.NewTimestamp(stamp)
	}

	if booking.CheckedIn() && booking.CheckedOut() {
		// The configured default pause applies here, not booking.Pause.
		hours := timecalc.ElapsedHours(booking.CheckinTimestamp.Time, booking.CheckoutTimestamp.Time)
		booking.ProductiveTime = timecalc.QuarterRound(hours) - k.cfg.DefaultPauseLength
	}

	k.bookings[key] = booking
	if err := storage.Save(k.cfg.KeeperFile, k.bookings); err != nil {
		return booking, err
	}
	k.log.Info("booking saved", "key", key, "checkin", checkin, "timestamp", stamp.Format(model.TimestampLayout),
		"productive_time", booking.ProductiveTime)

	return booking, k.Render([]string{key})
}

// Render prints the day table for keys.
func (k *Keeper) Render(keys []string) error {
	return report.Table(k.out, keys, k.bookings, k.now)
}

// RenderDays prints the table for the last n days, today first.
func (k *Keeper) RenderDays(n int) error {
	return k.Render(timecalc.DayKeys(k.now, n))
}

// Category validates name and echoes it. Categories are not stored on
// bookings yet.
func (k *Keeper) Category(name string) (model.Category, error) {
	c, err := model.ParseCategory(name)
	if err != nil {
		fmt.Fprintf(k.out, "Unknown value: %s\n", name)
		k.log.Warn("unknown category", "value", name)
		return "", err
	}
	fmt.Fprintln(k.out, c)
	return c, nil
}

// Status describes today's booking.
type Status struct {
	Key        string
	CheckedIn  bool
	CheckedOut bool
	Since      time.Time
	Until      time.Time
	// Elapsed is the presence time so far, or until check-out.
	Elapsed time.Duration
	// Productive is the stored value after check-out, else the live estimate.
	Productive float64
}

// Status reports the state of today's booking.
func (k *Keeper) Status() Status {
	key := timecalc.DayKey(k.now)
	s := Status{Key: key}

	b, ok := k.bookings[key]
	if !ok || !b.CheckedIn() {
		return s
	}
	s.CheckedIn = true
	s.Since = b.CheckinTimestamp.Time

	end := k.now
	if b.CheckedOut() {
		s.CheckedOut = true
		s.Until = b.CheckoutTimestamp.Time
		end = s.Until
	}
	s.Elapsed = timecalc.Elapsed(s.Since, end)

	if b.ProductiveTime != 0 {
		s.Productive = b.ProductiveTime
	} else {
		s.Productive = report.LiveEstimate(b, k.now)
	}
	return s
}

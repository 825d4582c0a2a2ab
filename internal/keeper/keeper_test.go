package keeper_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/keeper/internal/config"
	"github.com/Tiliavir/keeper/internal/keeper"
	"github.com/Tiliavir/keeper/internal/model"
	"github.com/Tiliavir/keeper/internal/storage"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

type fixture struct {
	cfg  config.Config
	out  *bytes.Buffer
	now  time.Time
	path string
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.KeeperFile = filepath.Join(t.TempDir(), "keeper.json")
	return &fixture{cfg: cfg, out: &bytes.Buffer{}, now: now, path: cfg.KeeperFile}
}

// run simulates one invocation: load the store, build a Keeper, resolve the day.
func (f *fixture) run(t *testing.T, date string) *keeper.Keeper {
	t.Helper()
	bookings, err := storage.Load(f.path)
	require.NoError(t, err)
	k := keeper.New(f.cfg, bookings,
		keeper.WithClock(func() time.Time { return f.now }),
		keeper.WithOutput(f.out),
	)
	_, err = k.ResolveDay(date)
	require.NoError(t, err)
	return k
}

func (f *fixture) load(t *testing.T) model.Bookings {
	t.Helper()
	bookings, err := storage.Load(f.path)
	require.NoError(t, err)
	return bookings
}

func TestCheckinCheckoutScenario(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 20, 12, 0, 0, 0, time.Local))

	_, err := f.run(t, "2024-01-10").Check(true, "09:00")
	require.NoError(t, err)

	b := f.load(t)["2024-01-10"]
	assert.Equal(t, 0.0, b.ProductiveTime, "check-in alone leaves productive time at zero")
	assert.False(t, b.CheckedOut())

	_, err = f.run(t, "2024-01-10").Check(false, "17:30")
	require.NoError(t, err)

	b = f.load(t)["2024-01-10"]
	assert.Equal(t, 8.0, b.ProductiveTime)
	assert.Equal(t, 0.5, b.Pause)
	assert.Equal(t, model.CategoryMobile, b.Category)
	assert.True(t, b.CheckinTimestamp.Equal(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)))
	assert.True(t, b.CheckoutTimestamp.Equal(time.Date(2024, 1, 10, 17, 30, 0, 0, time.Local)))

	// Every check prints the day's table.
	assert.Equal(t, 2, strings.Count(f.out.String(), "PROD TIME"))
	assert.Contains(t, f.out.String(), "8.0")
}

func TestCheckRoundsToQuarterHour(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.Local))
	k := f.run(t, "")

	_, err := k.Check(true, "08:55")
	require.NoError(t, err)
	b, err := k.Check(false, "17:01")
	require.NoError(t, err)

	// 8h06m rounds to 8.0.
	assert.Equal(t, timecalc.QuarterRound(8+6.0/60)-0.5, b.ProductiveTime)
	assert.Equal(t, 7.5, b.ProductiveTime)
}

func TestRecheckinOverwritesOnlyCheckin(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.Local))
	k := f.run(t, "")

	_, err := k.Check(true, "09:00")
	require.NoError(t, err)
	_, err = k.Check(false, "17:00")
	require.NoError(t, err)
	_, err = k.Check(true, "10:00")
	require.NoError(t, err)

	b := f.load(t)["2024-01-10"]
	assert.Equal(t, 10, b.CheckinTimestamp.Hour())
	assert.Equal(t, 17, b.CheckoutTimestamp.Hour())
	assert.Equal(t, 6.5, b.ProductiveTime, "productive time is recomputed")
}

func TestCheckUsesConfiguredPauseNotBookingPause(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.Local))
	f.cfg.DefaultPauseLength = 1

	existing := model.NewBooking()
	existing.Pause = 0.25
	require.NoError(t, storage.Save(f.path, model.Bookings{"2024-01-10": existing}))

	k := f.run(t, "")
	_, err := k.Check(true, "09:00")
	require.NoError(t, err)
	b, err := k.Check(false, "17:00")
	require.NoError(t, err)

	assert.Equal(t, 7.0, b.ProductiveTime, "stored value subtracts the configured default pause")
	assert.Equal(t, 0.25, b.Pause, "the booking keeps its own pause")
}

func TestCheckNowOnExplicitDayUsesWallClock(t *testing.T) {
	now := time.Date(2024, 1, 12, 8, 45, 0, 0, time.Local)
	f := newFixture(t, now)

	_, err := f.run(t, "2024-01-10").Check(true, "")
	require.NoError(t, err)

	b, ok := f.load(t)["2024-01-10"]
	require.True(t, ok, "booking is stored under the explicit day")
	assert.True(t, b.CheckinTimestamp.Equal(now), "timestamp is the current moment, not anchored to the day")
}

func TestCheckOvernight(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 11, 3, 0, 0, 0, time.Local))
	k := f.run(t, "2024-01-10")

	_, err := k.Check(true, "22:00")
	require.NoError(t, err)
	b, err := k.Check(false, "02:00")
	require.NoError(t, err)

	assert.Equal(t, 3.5, b.ProductiveTime)
}

func TestCheckInvalidTime(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.Local))
	k := f.run(t, "")

	_, err := k.Check(true, "9 o'clock")
	var perr *keeper.DateParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, "9 o'clock", perr.Value)

	assert.Empty(t, f.load(t), "nothing is saved after a parse error")
	assert.Empty(t, f.out.String())
}

func TestResolveDay(t *testing.T) {
	now := time.Date(2024, 1, 10, 18, 30, 0, 0, time.Local)
	k := keeper.New(config.Default(), nil, keeper.WithClock(func() time.Time { return now }))

	assert.Equal(t, "2024-01-10", k.DayKey())

	day, err := k.ResolveDay("2023-12-24")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-24", k.DayKey())
	assert.Equal(t, 0, day.Hour())

	_, err = k.ResolveDay("2023-12-31T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", k.DayKey())

	_, err = k.ResolveDay("")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", k.DayKey())

	_, err = k.ResolveDay("24.12.2023")
	var perr *keeper.DateParseError
	assert.True(t, errors.As(err, &perr))
}

func TestRenderDaysWeek(t *testing.T) {
	now := time.Date(2024, 1, 10, 18, 0, 0, 0, time.Local)
	f := newFixture(t, now)
	k := f.run(t, "")
	_, err := k.Check(true, "09:00")
	require.NoError(t, err)
	f.out.Reset()

	require.NoError(t, k.RenderDays(7))
	out := f.out.String()

	assert.Equal(t, 36, strings.Count(out, "---"), "six placeholder rows")
	for _, key := range timecalc.DayKeys(now, 7) {
		assert.Contains(t, out, key)
	}
	assert.Less(t, strings.Index(out, "2024-01-10"), strings.Index(out, "2024-01-04"))
	// 9h live presence rounds to 9.0, minus the booking pause.
	assert.Contains(t, out, "8.5")
}

func TestCategory(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.Local))
	k := f.run(t, "")

	c, err := k.Category("VACATION")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryVacation, c)
	assert.Equal(t, "VACATION\n", f.out.String())
	assert.Empty(t, f.load(t), "the category is not persisted")

	f.out.Reset()
	_, err = k.Category("BEACH")
	var unknown *model.UnknownCategoryError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Unknown value: BEACH\n", f.out.String())
}

func TestStatus(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 10, 0, 0, time.Local)
	f := newFixture(t, now)

	s := f.run(t, "").Status()
	assert.False(t, s.CheckedIn)
	assert.Equal(t, "2024-01-10", s.Key)

	_, err := f.run(t, "").Check(true, "09:00")
	require.NoError(t, err)

	s = f.run(t, "").Status()
	assert.True(t, s.CheckedIn)
	assert.False(t, s.CheckedOut)
	assert.Equal(t, 4*time.Hour+10*time.Minute, s.Elapsed)
	assert.Equal(t, 3.75, s.Productive)

	_, err = f.run(t, "").Check(false, "12:00")
	require.NoError(t, err)

	s = f.run(t, "").Status()
	assert.True(t, s.CheckedOut)
	assert.Equal(t, 3*time.Hour, s.Elapsed)
	assert.Equal(t, 2.5, s.Productive)
}

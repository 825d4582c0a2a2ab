// Package report renders bookings as tables, summaries and exports.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Tiliavir/keeper/internal/model"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

// Placeholder fills every cell of a day without booking except DAY and DATE.
const Placeholder = "---"

// Headers is the header row of the day table.
var Headers = []string{"DAY", "DATE", "IN", "OUT", "PROD TIME", "PAUSE", "CATEGORY", "DESCRIPTION"}

// Rows builds one table row per key, in the order given.
func Rows(keys []string, bookings model.Bookings, now time.Time) ([][]string, error) {
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		b, ok := bookings[key]
		if !ok {
			day, err := timecalc.ParseDayKey(key)
			if err != nil {
				return nil, fmt.Errorf("invalid day key %q: %w", key, err)
			}
			rows = append(rows, []string{
				day.Format("Mon"), key,
				Placeholder, Placeholder, Placeholder, Placeholder, Placeholder, Placeholder,
			})
			continue
		}
		row, err := bookingRow(key, b, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func bookingRow(key string, b model.Booking, now time.Time) ([]string, error) {
	var weekday, in, out, prod string

	if b.CheckedIn() {
		weekday = b.CheckinTimestamp.Format("Mon")
		in = b.CheckinTimestamp.Format("15:04")
	} else {
		day, err := timecalc.ParseDayKey(key)
		if err != nil {
			return nil, fmt.Errorf("invalid day key %q: %w", key, err)
		}
		weekday = day.Format("Mon")
	}
	if b.CheckedOut() {
		out = b.CheckoutTimestamp.Format("15:04")
	}

	switch {
	case b.ProductiveTime != 0:
		prod = timecalc.FormatHours(b.ProductiveTime)
	case b.CheckedIn():
		prod = timecalc.FormatHours(LiveEstimate(b, now))
	}

	desc := ""
	if b.Description != nil {
		desc = *b.Description
	}

	return []string{
		weekday, key, in, out, prod,
		timecalc.FormatHours(b.Pause), string(b.Category), desc,
	}, nil
}

// LiveEstimate is the productive time of a day that is still in progress.
// Unlike the value stored at check-out it subtracts the booking's own pause.
func LiveEstimate(b model.Booking, now time.Time) float64 {
	if !b.CheckedIn() {
		return 0
	}
	return timecalc.QuarterRound(timecalc.ElapsedHours(b.CheckinTimestamp.Time, now)) - b.Pause
}

// Table writes the day table for keys to w.
func Table(w io.Writer, keys []string, bookings model.Bookings, now time.Time) error {
	rows, err := Rows(keys, bookings, now)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, newTable(w, Headers, rows).BorderRow(true).Render())
	return err
}

func newTable(w io.Writer, headers []string, rows [][]string) *table.Table {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...)
}

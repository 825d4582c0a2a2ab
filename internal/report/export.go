package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/Tiliavir/keeper/internal/model"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

// Export formats accepted by Export.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "md"
)

// ExportRecord is one exported booking.
type ExportRecord struct {
	Date           string         `json:"date"`
	Checkin        string         `json:"checkin"`
	Checkout       string         `json:"checkout"`
	Pause          float64        `json:"pause"`
	ProductiveTime float64        `json:"productive_time"`
	Category       model.Category `json:"category"`
	Description    string         `json:"description"`
}

// Records returns the bookings among keys, oldest first. Keys without a
// booking are skipped.
func Records(keys []string, bookings model.Bookings) []ExportRecord {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	records := make([]ExportRecord, 0, len(sorted))
	for _, key := range sorted {
		b, ok := bookings[key]
		if !ok {
			continue
		}
		r := ExportRecord{
			Date:           key,
			Pause:          b.Pause,
			ProductiveTime: b.ProductiveTime,
			Category:       b.Category,
		}
		if b.CheckedIn() {
			r.Checkin = b.CheckinTimestamp.Format(model.TimestampLayout)
		}
		if b.CheckedOut() {
			r.Checkout = b.CheckoutTimestamp.Format(model.TimestampLayout)
		}
		if b.Description != nil {
			r.Description = *b.Description
		}
		records = append(records, r)
	}
	return records
}

// Export writes records to w in the given format.
func Export(w io.Writer, format string, records []ExportRecord) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatMarkdown:
		return writeMarkdown(w, records)
	default:
		return fmt.Errorf("unknown export format %q (valid: csv, json, md)", format)
	}
}

func writeCSV(w io.Writer, records []ExportRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "checkin", "checkout", "pause", "productive_time", "category", "description"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date, r.Checkin, r.Checkout,
			timecalc.FormatHours(r.Pause),
			timecalc.FormatHours(r.ProductiveTime),
			string(r.Category), r.Description,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeMarkdown(w io.Writer, records []ExportRecord) error {
	if _, err := fmt.Fprintln(w, "| Date | In | Out | Prod time | Pause | Category | Description |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "|---|---|---|---|---|---|---|"); err != nil {
		return err
	}
	for _, r := range records {
		_, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
			r.Date, clock(r.Checkin), clock(r.Checkout),
			timecalc.FormatHours(r.ProductiveTime), timecalc.FormatHours(r.Pause),
			r.Category, r.Description)
		if err != nil {
			return err
		}
	}
	return nil
}

// clock extracts HH:MM from an exported timestamp.
func clock(ts string) string {
	if len(ts) < len("2006-01-02T15:04") {
		return ""
	}
	return ts[11:16]
}

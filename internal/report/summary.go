package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Tiliavir/keeper/internal/model"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

// Summary aggregates the bookings of a period.
type Summary struct {
	From, To string
	// Days counts booked days per category.
	Days map[model.Category]int
	// Worked is the number of checked-out MOBILE and OFFICE days.
	Worked int
	// Productive is the sum of stored productive time.
	Productive float64
	// Expected is the contracted time for the worked days.
	Expected float64
}

// Balance is productive minus expected hours.
func (s Summary) Balance() float64 {
	return s.Productive - s.Expected
}

// Summarize aggregates the bookings for keys. Days without check-out do
// not count towards productive or expected time.
func Summarize(keys []string, bookings model.Bookings, contractedHours float64) Summary {
	s := Summary{Days: map[model.Category]int{}}
	if len(keys) > 0 {
		s.From, s.To = keys[len(keys)-1], keys[0]
		if s.From > s.To {
			s.From, s.To = s.To, s.From
		}
	}

	for _, key := range keys {
		b, ok := bookings[key]
		if !ok {
			continue
		}
		s.Days[b.Category]++
		if !b.CheckedIn() || !b.CheckedOut() {
			continue
		}
		s.Productive += b.ProductiveTime
		if b.Category == model.CategoryMobile || b.Category == model.CategoryOffice {
			s.Worked++
			s.Expected += contractedHours
		}
	}
	return s
}

// WriteSummary writes s as a two-column table.
func WriteSummary(w io.Writer, s Summary) error {
	rows := make([][]string, 0, len(model.Categories)+4)
	for _, c := range model.Categories {
		rows = append(rows, []string{string(c), strconv.Itoa(s.Days[c])})
	}
	rows = append(rows,
		[]string{"WORKED DAYS", strconv.Itoa(s.Worked)},
		[]string{"PROD TIME", timecalc.FormatHours(s.Productive)},
		[]string{"EXPECTED", timecalc.FormatHours(s.Expected)},
		[]string{"BALANCE", timecalc.FormatHours(s.Balance())},
	)

	title := "PERIOD"
	if s.From != "" {
		title = fmt.Sprintf("%s – %s", s.From, s.To)
	}
	_, err := fmt.Fprintln(w, newTable(w, []string{title, "VALUE"}, rows).Render())
	return err
}

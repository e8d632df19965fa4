package report

import (
	"fmt"
	"strings"

	"saletrack/internal/core"
)

// Mode selects how a report's date range is derived.
type Mode string

const (
	ModeTwoWeek Mode = "two-week"
	ModeMonthly Mode = "monthly"
	ModeCustom  Mode = "custom"
)

// TwoWeekDays is how many days before today the two-week window starts.
const TwoWeekDays = 14

// ParseMode accepts the mode names plus the "2-week" spelling.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "two-week", "2-week", "twoweek":
		return ModeTwoWeek, nil
	case "monthly", "month":
		return ModeMonthly, nil
	case "custom":
		return ModeCustom, nil
	}
	return "", fmt.Errorf("unknown report mode %q: %w", s, core.ErrInvalidRange)
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
}

// Label renders the range as "January 2, 2006 - January 16, 2006".
func (r DateRange) Label() string {
	return longDate(r.Start) + " - " + longDate(r.End)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// ResolveRange turns a mode and, for custom ranges, caller-supplied bounds into a range.
func ResolveRange(mode Mode, today, start, end core.Date) (DateRange, error) {
	switch mode {
	case ModeTwoWeek:
		return DateRange{Start: today.AddDays(-TwoWeekDays), End: today}, nil
	case ModeMonthly:
		return DateRange{Start: today.FirstOfMonth(), End: today.LastOfMonth()}, nil
	case ModeCustom:
		if start.IsZero() || end.IsZero() {
			return DateRange{}, fmt.Errorf("custom range needs both start and end dates: %w", core.ErrInvalidRange)
		}
		if start.Compare(end) > 0 {
			return DateRange{}, fmt.Errorf("start date %s is after end date %s: %w", start, end, core.ErrInvalidRange)
		}
		return DateRange{Start: start, End: end}, nil
	}
	return DateRange{}, fmt.Errorf("unknown report mode %q: %w", mode, core.ErrInvalidRange)
}

func longDate(d core.Date) string {
	return d.Format("January 2, 2006")
}

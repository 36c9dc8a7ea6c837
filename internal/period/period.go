// Package period computes calendar-aligned day, week, month and year
// boundaries for a first-day-of-week convention and a time zone.
package period

import (
	"fmt"
	"time"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/models"
)

// Kind names an aggregation period.
type Kind string

const (
	KindWeek  Kind = "week"
	KindMonth Kind = "month"
	KindYear  Kind = "year"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindWeek, KindMonth, KindYear:
		return Kind(s), nil
	}
	return "", fmt.Errorf("invalid period %q (expected week, month or year)", s)
}

// Range is a time interval. End is exclusive unless Inclusive is set.
type Range struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Inclusive bool      `json:"inclusive"`
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	if r.Inclusive {
		return !t.After(r.End)
	}
	return t.Before(r.End)
}

// Calendar holds the week convention and location used for every boundary.
// The zero value is a Sunday-first calendar in the local zone; use New.
type Calendar struct {
	FirstDay time.Weekday
	Location *time.Location
}

// New builds a calendar for a week-start convention. A nil location means local time.
func New(ws models.WeekStart, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{FirstDay: ws.Weekday(), Location: loc}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StartOfDay returns midnight of t's calendar day.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc())
}

// SameDay reports whether a and b share a calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.StartOfDay(a).Equal(c.StartOfDay(b))
}

// Day returns [midnight, next midnight).
func (c Calendar) Day(ref time.Time) Range {
	start := c.StartOfDay(ref)
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekStart returns the most recent boundary day at or before ref.
// A ref that falls on the boundary day belongs to that week.
func (c Calendar) WeekStart(ref time.Time) time.Time {
	day := c.StartOfDay(ref)
	offset := (int(day.Weekday()) - int(c.FirstDay) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekEnd returns the last day of the week, at midnight. The week is the
// closed day interval [WeekStart, WeekEnd].
func (c Calendar) WeekEnd(ref time.Time) time.Time {
	return c.WeekStart(ref).AddDate(0, 0, 6)
}

// Week returns [WeekStart, WeekStart+7d), which covers every instant of the
// seven days including all of WeekEnd.
func (c Calendar) Week(ref time.Time) Range {
	start := c.WeekStart(ref)
	return Range{Start: start, End: start.AddDate(0, 0, 7)}
}

// PreviousWeek returns the week before ref's week.
func (c Calendar) PreviousWeek(ref time.Time) Range {
	return c.Week(c.WeekStart(ref).AddDate(0, 0, -1))
}

// Month returns [first of month, first of next month).
func (c Calendar) Month(ref time.Time) Range {
	ref = ref.In(c.loc())
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, c.loc())
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// Year returns [Jan 1, now] while ref's year is in progress and the full
// calendar year otherwise.
func (c Calendar) Year(ref, now time.Time) Range {
	ref = ref.In(c.loc())
	start := time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, c.loc())
	next := start.AddDate(1, 0, 0)
	if now.Before(next) && !now.Before(start) {
		return Range{Start: start, End: now, Inclusive: true}
	}
	return Range{Start: start, End: next}
}

// Period dispatches on kind. now only matters for KindYear.
func (c Calendar) Period(kind Kind, ref, now time.Time) Range {
	switch kind {
	case KindMonth:
		return c.Month(ref)
	case KindYear:
		return c.Year(ref, now)
	default:
		return c.Week(ref)
	}
}

// Trailing returns the rolling window [now-days, now]. It ignores calendar
// boundaries entirely.
func Trailing(now time.Time, days int) Range {
	return Range{Start: now.AddDate(0, 0, -days), End: now, Inclusive: true}
}

// Buckets returns the series bucket ranges for kind: one per day for week
// and month, one per month for year.
func (c Calendar) Buckets(kind Kind, ref time.Time) []Range {
	switch kind {
	case KindYear:
		ref = ref.In(c.loc())
		jan := time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, c.loc())
		out := make([]Range, 12)
		for i := range out {
			start := jan.AddDate(0, i, 0)
			out[i] = Range{Start: start, End: start.AddDate(0, 1, 0)}
		}
		return out
	case KindMonth:
		return c.days(c.Month(ref))
	default:
		return c.days(c.Week(ref))
	}
}

func (c Calendar) days(r Range) []Range {
	var out []Range
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, Range{Start: d, End: d.AddDate(0, 0, 1)})
	}
	return out
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseDateTime accepts YYYY-MM-DD or YYYY-MM-DD HH:MM in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, s, loc); err == nil {
		return t, nil
	}
	return ParseDate(s, loc)
}

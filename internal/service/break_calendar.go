package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/acadops/campus-admin-api/internal/dto"
)

// RawBreak is a loosely-typed break row as read from storage or the shared
// cache. Dates travel as YYYY-MM-DD strings; either EndDate or
// DurationWeeks may be set.
type RawBreak struct {
	Name          string `json:"name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	DurationWeeks int    `json:"duration_weeks,omitempty"`
}

// BreakInterval is one closed range of non-instructional days. Both ends
// are inclusive, at UTC midnight.
type BreakInterval struct {
	Start time.Time
	End   time.Time
}

// BreakCalendar answers overlap and adjustment queries against a set of
// break intervals. Overlapping and adjacent intervals are merged on
// construction so overlap days are never counted twice.
type BreakCalendar struct {
	intervals    []BreakInterval
	snapToMonday bool
}

// ParseBreaks converts raw break rows into intervals. Rows with a missing
// or malformed start date, or with neither a valid end date nor a positive
// duration, are skipped with a warning rather than failing the whole parse.
func ParseBreaks(raws []RawBreak) ([]BreakInterval, []string) {
	intervals := make([]BreakInterval, 0, len(raws))
	var warnings []string

	for i, raw := range raws {
		label := raw.Name
		if label == "" {
			label = fmt.Sprintf("break #%d", i+1)
		}

		start, err := dto.ParseDate(raw.StartDate)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped %s: invalid start date %q", label, raw.StartDate))
			continue
		}

		var end time.Time
		switch {
		case raw.EndDate != "":
			end, err = dto.ParseDate(raw.EndDate)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("skipped %s: invalid end date %q", label, raw.EndDate))
				continue
			}
		case raw.DurationWeeks >= 1:
			end = start.AddDate(0, 0, raw.DurationWeeks*7-1)
		default:
			warnings = append(warnings, fmt.Sprintf("skipped %s: no end date or duration", label))
			continue
		}

		if end.Before(start) {
			warnings = append(warnings, fmt.Sprintf("skipped %s: end date before start date", label))
			continue
		}

		intervals = append(intervals, BreakInterval{Start: start, End: end})
	}

	return intervals, warnings
}

// NewBreakCalendar builds a calendar from intervals, merging any that
// overlap or touch. When snapToMonday is set, NextInstructionalDay also
// advances non-Monday results to the following Monday.
func NewBreakCalendar(intervals []BreakInterval, snapToMonday bool) *BreakCalendar {
	merged := mergeIntervals(intervals)
	return &BreakCalendar{intervals: merged, snapToMonday: snapToMonday}
}

// Intervals returns the merged break intervals in ascending order.
func (c *BreakCalendar) Intervals() []BreakInterval {
	return c.intervals
}

// IsBreakDay reports whether the date falls inside any break interval.
func (c *BreakCalendar) IsBreakDay(d time.Time) bool {
	_, ok := c.containing(d)
	return ok
}

// NextInstructionalDay returns the first instructional day at or after d.
// A date inside a break moves to the day after that break ends. With the
// Monday snap enabled the result additionally advances to the next Monday,
// and then clears any break it may have landed in.
func (c *BreakCalendar) NextInstructionalDay(d time.Time) time.Time {
	d = normalizeDate(d)
	for {
		if iv, ok := c.containing(d); ok {
			d = iv.End.AddDate(0, 0, 1)
			continue
		}
		if c.snapToMonday && d.Weekday() != time.Monday {
			d = nextMonday(d)
			continue
		}
		return d
	}
}

// PrevInstructionalDay returns the last instructional day at or before d.
// A date inside a break moves to the day before that break starts. No
// Monday snapping applies in this direction.
func (c *BreakCalendar) PrevInstructionalDay(d time.Time) time.Time {
	d = normalizeDate(d)
	for {
		iv, ok := c.containing(d)
		if !ok {
			return d
		}
		d = iv.Start.AddDate(0, 0, -1)
	}
}

// OverlapDays counts the inclusive days of [start, end] that fall inside
// break intervals. Intervals are merged, so shared days count once.
func (c *BreakCalendar) OverlapDays(start, end time.Time) int {
	start = normalizeDate(start)
	end = normalizeDate(end)
	if end.Before(start) {
		return 0
	}

	total := 0
	for _, iv := range c.intervals {
		if iv.Start.After(end) {
			break
		}
		if iv.End.Before(start) {
			continue
		}
		lo := iv.Start
		if start.After(lo) {
			lo = start
		}
		hi := iv.End
		if end.Before(hi) {
			hi = end
		}
		total += daysBetween(lo, hi) + 1
	}

	return total
}

func (c *BreakCalendar) containing(d time.Time) (BreakInterval, bool) {
	for _, iv := range c.intervals {
		if iv.Start.After(d) {
			break
		}
		if !iv.End.Before(d) {
			return iv, true
		}
	}
	return BreakInterval{}, false
}

func mergeIntervals(intervals []BreakInterval) []BreakInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]BreakInterval, len(intervals))
	copy(sorted, intervals)
	for i := range sorted {
		sorted[i].Start = normalizeDate(sorted[i].Start)
		sorted[i].End = normalizeDate(sorted[i].End)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []BreakInterval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End.AddDate(0, 0, 1)) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}

	return merged
}

func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nextMonday(d time.Time) time.Time {
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return d.AddDate(0, 0, offset)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

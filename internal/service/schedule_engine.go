package service

import (
	"fmt"
	"sort"
	"time"

	appErrors "github.com/acadops/campus-admin-api/pkg/errors"

	"github.com/acadops/campus-admin-api/internal/models"
)

// ScheduleEngine computes start and end dates for a course's module
// sequence against a break calendar. It performs no I/O; callers load the
// modules and breaks and persist whatever the engine returns.
type ScheduleEngine struct {
	calendar *BreakCalendar
	today    time.Time
}

// NewScheduleEngine constructs an engine anchored at the given day.
func NewScheduleEngine(calendar *BreakCalendar, today time.Time) *ScheduleEngine {
	if calendar == nil {
		calendar = NewBreakCalendar(nil, false)
	}
	return &ScheduleEngine{calendar: calendar, today: normalizeDate(today)}
}

// Recompute assigns dates to every schedulable module walking the sequence
// in the given direction from the pivot. Modules missing a duration or
// order are left untouched and reported as warnings. The pivot's own start
// date is never altered; in the backward direction the first module of the
// sequence is never altered either.
func (e *ScheduleEngine) Recompute(modules []models.CourseModule, direction models.ScheduleDirection) (*models.ScheduleResult, error) {
	if direction != models.DirectionForward && direction != models.DirectionBackward {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown schedule direction %q", direction))
	}

	result := &models.ScheduleResult{Status: models.ScheduleStatusSuccess}

	schedulable := make([]models.CourseModule, 0, len(modules))
	for _, m := range modules {
		if m.DurationWeeks < 1 || m.OrderNum < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("module %q not recalculated: missing duration or order", m.Name))
			continue
		}
		schedulable = append(schedulable, m)
	}
	if len(schedulable) == 0 {
		return result, nil
	}

	sort.Slice(schedulable, func(i, j int) bool {
		return schedulable[i].OrderNum < schedulable[j].OrderNum
	})

	pivotIdx, pivotStart, synthetic := e.findPivot(schedulable)
	result.PivotModule = schedulable[pivotIdx].ID
	result.SyntheticRun = synthetic

	if direction == models.DirectionForward {
		e.walkForward(schedulable, pivotIdx, pivotStart, result)
	} else {
		e.walkBackward(schedulable, pivotIdx, pivotStart, result)
	}

	if len(result.Warnings) > 0 {
		result.Status = models.ScheduleStatusPartial
	}

	return result, nil
}

// findPivot locates the module whose stored span contains today. When none
// does, the lowest-order module becomes a synthetic pivot starting on the
// next instructional day.
func (e *ScheduleEngine) findPivot(sorted []models.CourseModule) (idx int, start time.Time, synthetic bool) {
	for i, m := range sorted {
		if m.StartDate == nil || m.EndDate == nil {
			continue
		}
		s := normalizeDate(*m.StartDate)
		en := normalizeDate(*m.EndDate)
		if !e.today.Before(s) && !e.today.After(en) {
			return i, s, false
		}
	}
	return 0, e.calendar.NextInstructionalDay(e.today), true
}

func (e *ScheduleEngine) walkForward(sorted []models.CourseModule, pivotIdx int, pivotStart time.Time, result *models.ScheduleResult) {
	anchor := pivotStart
	for step := 0; step < len(sorted); step++ {
		i := (pivotIdx + step) % len(sorted)
		m := sorted[i]

		var start time.Time
		if step == 0 {
			start = anchor
		} else {
			start = e.calendar.NextInstructionalDay(anchor.AddDate(0, 0, 1))
		}

		end := e.stretchForward(start, m.DurationWeeks)
		result.Entries = append(result.Entries, models.ScheduleEntry{
			ModuleID:  m.ID,
			OrderNum:  m.OrderNum,
			StartDate: start,
			EndDate:   end,
		})
		anchor = end
	}
}

func (e *ScheduleEngine) walkBackward(sorted []models.CourseModule, pivotIdx int, pivotStart time.Time, result *models.ScheduleResult) {
	anchor := pivotStart
	for step := 1; step < len(sorted); step++ {
		i := ((pivotIdx-step)%len(sorted) + len(sorted)) % len(sorted)
		m := sorted[i]

		end := e.calendar.PrevInstructionalDay(anchor.AddDate(0, 0, -1))
		start := e.stretchBackward(end, m.DurationWeeks)
		anchor = start

		// The order-1 module anchors the curriculum and keeps its stored
		// dates in this direction.
		if m.OrderNum == 1 {
			continue
		}

		result.Entries = append(result.Entries, models.ScheduleEntry{
			ModuleID:  m.ID,
			OrderNum:  m.OrderNum,
			StartDate: start,
			EndDate:   end,
		})
	}
}

// stretchForward grows the window past its nominal span until it holds
// exactly durationWeeks*7 non-break days.
func (e *ScheduleEngine) stretchForward(start time.Time, durationWeeks int) time.Time {
	end := start.AddDate(0, 0, durationWeeks*7-1)
	absorbed := 0
	for {
		overlap := e.calendar.OverlapDays(start, end)
		if overlap == absorbed {
			return end
		}
		end = end.AddDate(0, 0, overlap-absorbed)
		absorbed = overlap
	}
}

// stretchBackward is the mirror of stretchForward, growing the window
// toward earlier dates from a fixed end.
func (e *ScheduleEngine) stretchBackward(end time.Time, durationWeeks int) time.Time {
	start := end.AddDate(0, 0, -(durationWeeks*7 - 1))
	absorbed := 0
	for {
		overlap := e.calendar.OverlapDays(start, end)
		if overlap == absorbed {
			return start
		}
		start = start.AddDate(0, 0, -(overlap - absorbed))
		absorbed = overlap
	}
}

// DiffSchedule compares computed entries against the stored modules and
// returns only the ones whose dates actually change.
func DiffSchedule(modules []models.CourseModule, entries []models.ScheduleEntry) []models.ScheduleChange {
	byID := make(map[string]models.CourseModule, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	var changes []models.ScheduleChange
	for _, entry := range entries {
		stored, ok := byID[entry.ModuleID]
		if !ok {
			continue
		}
		if sameDate(stored.StartDate, entry.StartDate) && sameDate(stored.EndDate, entry.EndDate) {
			continue
		}
		changes = append(changes, models.ScheduleChange{
			ModuleID:     entry.ModuleID,
			OrderNum:     entry.OrderNum,
			OldStartDate: stored.StartDate,
			OldEndDate:   stored.EndDate,
			NewStartDate: entry.StartDate,
			NewEndDate:   entry.EndDate,
		})
	}

	return changes
}

func sameDate(stored *time.Time, computed time.Time) bool {
	if stored == nil {
		return false
	}
	return normalizeDate(*stored).Equal(normalizeDate(computed))
}

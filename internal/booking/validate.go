package booking

import (
	"fmt"
	"strings"
	"time"
)

// SlotInput is a raw schedule entry as submitted over HTTP.
type SlotInput struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Submission is a raw booking request body before validation.
type Submission struct {
	RoomID      uint64      `json:"roomId"`
	Category    string      `json:"category"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Description string      `json:"description"`
	Schedules   []SlotInput `json:"schedules"`
}

// FieldError describes one invalid input field.  The shape matches the
// 400 response body: {"errors":[{"field":...,"message":...}]}.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidSubmission is the outcome of successful validation: parsed dates,
// a normalized category and concrete slots ready for the conflict check.
type ValidSubmission struct {
	RoomID      uint64
	Category    Category
	StartDate   time.Time
	EndDate     time.Time
	Description string
	Slots       []Slot
}

// dateLayouts accepted for startDate/endDate.  Clients historically send
// either a bare date or a full RFC3339 timestamp.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses a booking date in either accepted layout, normalized to
// UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Validate checks every constraint on a submission and collects all field
// errors instead of stopping at the first, so the caller gets one complete
// list.  No persistence is touched here; room existence and slot conflicts
// are checked later against the store.
func (s Submission) Validate() (ValidSubmission, []FieldError) {
	var errs []FieldError
	out := ValidSubmission{RoomID: s.RoomID, Description: strings.TrimSpace(s.Description)}

	if s.RoomID == 0 {
		errs = append(errs, FieldError{"roomId", "Room ID must be a positive integer"})
	}
	cat, ok := ParseCategory(s.Category)
	if !ok {
		errs = append(errs, FieldError{"category", "Category must be one of EVENT, REGULAR, EXTRA, LABS"})
	}
	out.Category = cat

	start, okStart := ParseDate(s.StartDate)
	if !okStart {
		errs = append(errs, FieldError{"startDate", "Start date must be a valid ISO-8601 date"})
	}
	end, okEnd := ParseDate(s.EndDate)
	if !okEnd {
		errs = append(errs, FieldError{"endDate", "End date must be a valid ISO-8601 date"})
	}
	// endDate == startDate is allowed: a single-day booking spans one day.
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, FieldError{"endDate", "End date must not be before start date"})
	}
	out.StartDate, out.EndDate = start, end

	if len(s.Schedules) == 0 {
		errs = append(errs, FieldError{"schedules", "At least one schedule entry is required"})
	}
	for i, in := range s.Schedules {
		field := func(name string) string { return fmt.Sprintf("schedules[%d].%s", i, name) }
		day, ok := ParseWeekday(in.Day)
		if !ok {
			errs = append(errs, FieldError{field("day"), "Day must be a weekday name (MONDAY..SUNDAY)"})
		}
		startT, errStart := ParseClock(in.StartTime)
		if errStart != nil {
			errs = append(errs, FieldError{field("startTime"), "Start time must be HH:MM"})
		}
		endT, errEnd := ParseClock(in.EndTime)
		if errEnd != nil {
			errs = append(errs, FieldError{field("endTime"), "End time must be HH:MM"})
		}
		if errStart == nil && errEnd == nil && endT <= startT {
			errs = append(errs, FieldError{field("endTime"), "End time must be after start time"})
		}
		if ok && errStart == nil && errEnd == nil && endT > startT {
			out.Slots = append(out.Slots, Slot{Day: day, Start: startT, End: endT})
		}
	}
	// Only run the pairwise check once every entry parsed, so the slot
	// indices line up with the submitted schedules.
	if len(out.Slots) == len(s.Schedules) {
		if i, j, clash := FindSelfOverlap(out.Slots); clash {
			errs = append(errs, FieldError{
				fmt.Sprintf("schedules[%d]", j),
				fmt.Sprintf("Schedule overlaps schedules[%d] on the same day", i),
			})
		}
	}
	if len(errs) > 0 {
		return ValidSubmission{}, errs
	}
	return out, nil
}

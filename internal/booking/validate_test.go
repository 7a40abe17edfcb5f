package booking

import (
	"testing"
	"time"
)

func validInput() Submission {
	return Submission{
		RoomID:      3,
		Category:    "REGULAR",
		StartDate:   "2026-09-01",
		EndDate:     "2026-12-20",
		Description: "Weekly algorithms lecture",
		Schedules: []SlotInput{
			{Day: "MONDAY", StartTime: "09:00", EndTime: "10:30"},
			{Day: "THURSDAY", StartTime: "14:00", EndTime: "15:30"},
		},
	}
}

func TestSubmissionValidate(t *testing.T) {
	t.Run("valid submission parses fully", func(t *testing.T) {
		out, errs := validInput().Validate()
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %+v", errs)
		}
		if out.RoomID != 3 || out.Category != CategoryRegular {
			t.Fatalf("unexpected output: %+v", out)
		}
		if len(out.Slots) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(out.Slots))
		}
		if out.Slots[0].Day != Monday || out.Slots[0].Start != 9*60 || out.Slots[0].End != 10*60+30 {
			t.Fatalf("unexpected first slot: %+v", out.Slots[0])
		}
		want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		if !out.StartDate.Equal(want) {
			t.Fatalf("unexpected start date: %v", out.StartDate)
		}
	})

	t.Run("accepts RFC3339 timestamps for the dates", func(t *testing.T) {
		in := validInput()
		in.StartDate = "2026-09-01T00:00:00Z"
		in.EndDate = "2026-12-20T00:00:00+03:00"
		if _, errs := in.Validate(); len(errs) != 0 {
			t.Fatalf("unexpected errors: %+v", errs)
		}
	})

	t.Run("single-day bookings are allowed", func(t *testing.T) {
		in := validInput()
		in.EndDate = in.StartDate
		if _, errs := in.Validate(); len(errs) != 0 {
			t.Fatalf("unexpected errors: %+v", errs)
		}
	})

	t.Run("collects every field error in one pass", func(t *testing.T) {
		in := Submission{
			RoomID:    0,
			Category:  "MEETING",
			StartDate: "not-a-date",
			EndDate:   "2026-12-20",
			Schedules: []SlotInput{
				{Day: "SOMEDAY", StartTime: "25:00", EndTime: "10:00"},
			},
		}
		_, errs := in.Validate()
		want := map[string]bool{
			"roomId":                 true,
			"category":               true,
			"startDate":              true,
			"schedules[0].day":       true,
			"schedules[0].startTime": true,
		}
		got := map[string]bool{}
		for _, e := range errs {
			got[e.Field] = true
		}
		for f := range want {
			if !got[f] {
				t.Fatalf("missing error for field %q in %+v", f, errs)
			}
		}
	})

	t.Run("end date before start date", func(t *testing.T) {
		in := validInput()
		in.StartDate = "2026-12-20"
		in.EndDate = "2026-09-01"
		_, errs := in.Validate()
		if len(errs) != 1 || errs[0].Field != "endDate" {
			t.Fatalf("expected a single endDate error, got %+v", errs)
		}
	})

	t.Run("empty schedule list is rejected", func(t *testing.T) {
		in := validInput()
		in.Schedules = nil
		_, errs := in.Validate()
		if len(errs) != 1 || errs[0].Field != "schedules" {
			t.Fatalf("expected a single schedules error, got %+v", errs)
		}
	})

	t.Run("overlapping slots within one submission are rejected", func(t *testing.T) {
		in := validInput()
		in.Schedules = []SlotInput{
			{Day: "MONDAY", StartTime: "09:00", EndTime: "10:00"},
			{Day: "MONDAY", StartTime: "09:30", EndTime: "10:30"},
		}
		_, errs := in.Validate()
		if len(errs) != 1 || errs[0].Field != "schedules[1]" {
			t.Fatalf("expected a single schedules[1] error, got %+v", errs)
		}
	})

	t.Run("back-to-back slots within one submission are allowed", func(t *testing.T) {
		in := validInput()
		in.Schedules = []SlotInput{
			{Day: "MONDAY", StartTime: "09:00", EndTime: "10:00"},
			{Day: "MONDAY", StartTime: "10:00", EndTime: "11:00"},
		}
		if _, errs := in.Validate(); len(errs) != 0 {
			t.Fatalf("unexpected errors: %+v", errs)
		}
	})

	t.Run("zero-length slot is rejected", func(t *testing.T) {
		in := validInput()
		in.Schedules = []SlotInput{{Day: "MONDAY", StartTime: "10:00", EndTime: "10:00"}}
		_, errs := in.Validate()
		if len(errs) != 1 || errs[0].Field != "schedules[0].endTime" {
			t.Fatalf("expected a single endTime error, got %+v", errs)
		}
	})
}

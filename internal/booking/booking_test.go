package booking

import (
	"errors"
	"testing"
)

func TestSlotOverlaps(t *testing.T) {
	mk := func(day Weekday, start, end string) Slot {
		s, err := ParseClock(start)
		if err != nil {
			t.Fatalf("parse %q: %v", start, err)
		}
		e, err := ParseClock(end)
		if err != nil {
			t.Fatalf("parse %q: %v", end, err)
		}
		return Slot{Day: day, Start: s, End: e}
	}

	t.Run("back-to-back slots do not overlap", func(t *testing.T) {
		a := mk(Monday, "09:00", "10:00")
		b := mk(Monday, "10:00", "11:00")
		if a.Overlaps(b) || b.Overlaps(a) {
			t.Fatalf("expected [09:00,10:00) and [10:00,11:00) not to overlap")
		}
	})

	t.Run("partial overlap is detected", func(t *testing.T) {
		a := mk(Monday, "09:00", "10:30")
		b := mk(Monday, "10:00", "11:00")
		if !a.Overlaps(b) || !b.Overlaps(a) {
			t.Fatalf("expected [09:00,10:30) and [10:00,11:00) to overlap")
		}
	})

	t.Run("containment is an overlap", func(t *testing.T) {
		outer := mk(Friday, "08:00", "18:00")
		inner := mk(Friday, "12:00", "13:00")
		if !outer.Overlaps(inner) || !inner.Overlaps(outer) {
			t.Fatalf("expected containment to count as overlap")
		}
	})

	t.Run("identical slots overlap", func(t *testing.T) {
		a := mk(Tuesday, "14:00", "15:00")
		if !a.Overlaps(a) {
			t.Fatalf("expected a slot to overlap itself")
		}
	})

	t.Run("different weekdays never overlap", func(t *testing.T) {
		a := mk(Monday, "09:00", "17:00")
		b := mk(Tuesday, "09:00", "17:00")
		if a.Overlaps(b) {
			t.Fatalf("expected slots on different days not to overlap")
		}
	})
}

func TestFindConflict(t *testing.T) {
	mkSlot := func(day Weekday, start, end Clock) Slot {
		return Slot{Day: day, Start: start, End: end}
	}
	taken := []TakenSlot{
		{ScheduleID: 11, RequestID: 1, RoomID: 7, Slot: mkSlot(Monday, 9*60, 10*60)},
		{ScheduleID: 12, RequestID: 1, RoomID: 7, Slot: mkSlot(Wednesday, 13*60, 15*60)},
	}

	t.Run("returns the blocking slot", func(t *testing.T) {
		cands := []Slot{
			mkSlot(Tuesday, 9*60, 10*60),
			mkSlot(Wednesday, 14*60, 16*60),
		}
		blocking, clash := FindConflict(taken, cands)
		if !clash {
			t.Fatalf("expected a conflict")
		}
		if blocking.ScheduleID != 12 {
			t.Fatalf("expected schedule 12 to block, got %d", blocking.ScheduleID)
		}
	})

	t.Run("no conflict when all candidates are free", func(t *testing.T) {
		cands := []Slot{
			mkSlot(Monday, 10*60, 11*60), // starts exactly when taken ends
			mkSlot(Sunday, 9*60, 17*60),
		}
		if _, clash := FindConflict(taken, cands); clash {
			t.Fatalf("unexpected conflict")
		}
	})

	t.Run("empty taken set never conflicts", func(t *testing.T) {
		if _, clash := FindConflict(nil, []Slot{mkSlot(Monday, 0, 24*60-1)}); clash {
			t.Fatalf("unexpected conflict against empty calendar")
		}
	})
}

func TestFindSelfOverlap(t *testing.T) {
	mkSlot := func(day Weekday, start, end Clock) Slot {
		return Slot{Day: day, Start: start, End: end}
	}

	t.Run("reports the first overlapping pair", func(t *testing.T) {
		slots := []Slot{
			mkSlot(Monday, 9*60, 10*60),
			mkSlot(Thursday, 14*60, 15*60),
			mkSlot(Monday, 9*60+30, 10*60+30),
		}
		i, j, clash := FindSelfOverlap(slots)
		if !clash {
			t.Fatalf("expected an overlap")
		}
		if i != 0 || j != 2 {
			t.Fatalf("expected pair (0,2), got (%d,%d)", i, j)
		}
	})

	t.Run("back-to-back slots do not overlap", func(t *testing.T) {
		slots := []Slot{
			mkSlot(Monday, 9*60, 10*60),
			mkSlot(Monday, 10*60, 11*60),
		}
		if _, _, clash := FindSelfOverlap(slots); clash {
			t.Fatalf("unexpected overlap for back-to-back slots")
		}
	})

	t.Run("same interval on different days is fine", func(t *testing.T) {
		slots := []Slot{
			mkSlot(Monday, 9*60, 10*60),
			mkSlot(Tuesday, 9*60, 10*60),
		}
		if _, _, clash := FindSelfOverlap(slots); clash {
			t.Fatalf("unexpected overlap across days")
		}
	})

	t.Run("single slot or empty list", func(t *testing.T) {
		if _, _, clash := FindSelfOverlap([]Slot{mkSlot(Monday, 9*60, 10*60)}); clash {
			t.Fatalf("single slot cannot overlap itself")
		}
		if _, _, clash := FindSelfOverlap(nil); clash {
			t.Fatalf("empty list cannot overlap")
		}
	})
}

func TestTransition(t *testing.T) {
	t.Run("pending can be approved or rejected", func(t *testing.T) {
		if err := Transition(StatusPending, StatusApproved); err != nil {
			t.Fatalf("approve: %v", err)
		}
		if err := Transition(StatusPending, StatusRejected); err != nil {
			t.Fatalf("reject: %v", err)
		}
	})

	t.Run("decided bookings are immutable", func(t *testing.T) {
		for _, from := range []Status{StatusApproved, StatusRejected} {
			for _, to := range []Status{StatusApproved, StatusRejected, StatusPending} {
				err := Transition(from, to)
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition for %s -> %s, got %v", from, to, err)
				}
			}
		}
	})

	t.Run("pending cannot be re-entered", func(t *testing.T) {
		if err := Transition(StatusPending, StatusPending); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestParseDecision(t *testing.T) {
	if s, ok := ParseDecision(" approved "); !ok || s != StatusApproved {
		t.Fatalf("expected APPROVED, got %q ok=%v", s, ok)
	}
	if s, ok := ParseDecision("REJECTED"); !ok || s != StatusRejected {
		t.Fatalf("expected REJECTED, got %q ok=%v", s, ok)
	}
	for _, bad := range []string{"PENDING", "", "cancelled"} {
		if _, ok := ParseDecision(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, good := range []string{"EVENT", "regular", " Extra ", "labs"} {
		if _, ok := ParseCategory(good); !ok {
			t.Fatalf("expected %q to parse", good)
		}
	}
	if _, ok := ParseCategory("MEETING"); ok {
		t.Fatalf("expected unknown category to fail")
	}
}

func TestParseWeekday(t *testing.T) {
	if d, ok := ParseWeekday("monday"); !ok || d != Monday {
		t.Fatalf("expected MONDAY, got %q ok=%v", d, ok)
	}
	if _, ok := ParseWeekday("FUNDAY"); ok {
		t.Fatalf("expected unknown weekday to fail")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want Clock
	}{
		{"00:00", 0},
		{"09:30", 9*60 + 30},
		{"23:59", 23*60 + 59},
		{"14:05:00", 14*60 + 5}, // MySQL TIME comes back with seconds
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "12-30"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected ParseClock(%q) to fail", bad)
		}
	}
}

func TestClockString(t *testing.T) {
	if got := Clock(9*60 + 5).String(); got != "09:05" {
		t.Fatalf("expected 09:05, got %q", got)
	}
	if got := Clock(0).String(); got != "00:00" {
		t.Fatalf("expected 00:00, got %q", got)
	}
}

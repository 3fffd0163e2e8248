package model

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"06:00", 6, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 24, 0, false},
		{"9:00", 0, 0, true},
		{"24:30", 0, 0, true},
		{"12:60", 0, 0, true},
		{"ab:cd", 0, 0, true},
		{"+9:30", 0, 0, true},
		{"-0:00", 0, 0, true},
		{"+1:+5", 0, 0, true},
		{"0a:00", 0, 0, true},
		{"09:-5", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tc := range cases {
		h, m, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil || !errors.Is(err, ErrInvalidClock) {
				t.Fatalf("ParseClock(%q) expected ErrInvalidClock, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseClock(%q) failed: %v", tc.in, err)
		}
		if h != tc.hour || m != tc.minute {
			t.Fatalf("ParseClock(%q) = %d:%d, want %d:%d", tc.in, h, m, tc.hour, tc.minute)
		}
	}
}

func TestTaskDraftValidate(t *testing.T) {
	ok := TaskDraft{Title: "Write report", StartTime: "14:00", EndTime: "15:00"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}

	// end before start is allowed
	backwards := TaskDraft{Title: "Odd", StartTime: "15:00", EndTime: "14:00"}
	if err := backwards.Validate(); err != nil {
		t.Fatalf("expected end-before-start to validate, got %v", err)
	}

	for _, bad := range []TaskDraft{
		{Title: "  ", StartTime: "09:00", EndTime: "10:00"},
		{Title: "x", StartTime: "9am", EndTime: "10:00"},
		{Title: "x", StartTime: "09:00", EndTime: ""},
		{Title: "x", StartTime: "+9:30", EndTime: "10:00"},
		{Title: "x", StartTime: "09:30", EndTime: "-0:00"},
		{Title: "x", StartTime: "0a:00", EndTime: "10:00"},
	} {
		if err := bad.Validate(); err == nil || !errors.Is(err, ErrInvalidTask) {
			t.Fatalf("expected ErrInvalidTask for %+v, got %v", bad, err)
		}
	}
}

func TestStateValidate(t *testing.T) {
	valid := State{
		Schedules:         []Schedule{{ID: "s1", Name: "Day"}},
		CurrentScheduleID: "s1",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid state, got %v", err)
	}

	for _, bad := range []State{
		{},
		{Schedules: []Schedule{{ID: "s1"}}},
		{Schedules: []Schedule{{ID: "s1"}}, CurrentScheduleID: "missing"},
	} {
		if err := bad.Validate(); err == nil || !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState for %+v, got %v", bad, err)
		}
	}
}

func TestStateCloneDoesNotAliasTasks(t *testing.T) {
	orig := State{
		Schedules:         []Schedule{{ID: "s1", Tasks: []Task{{ID: "t1", Title: "A"}}}},
		CurrentScheduleID: "s1",
	}
	cp := orig.Clone()
	cp.Schedules[0].Tasks[0].Title = "changed"
	if orig.Schedules[0].Tasks[0].Title != "A" {
		t.Fatalf("clone aliased task slice: %+v", orig)
	}
}

package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidState = errors.New("model: invalid planner state")
	ErrInvalidClock = errors.New("model: invalid clock time")
	ErrInvalidTask  = errors.New("model: invalid task")
)

// Task is a titled, time-boxed activity. StartTime and EndTime are zero-padded
// "HH:MM" wall-clock strings; lexicographic order equals chronological order.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Completed bool   `json:"completed"`
}

// TaskDraft is the user input for a new task, before an id is assigned.
type TaskDraft struct {
	Title     string
	StartTime string
	EndTime   string
}

func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if _, _, err := ParseClock(d.StartTime); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidTask, err)
	}
	if _, _, err := ParseClock(d.EndTime); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidTask, err)
	}
	return nil
}

// ParseClock splits an "HH:MM" string into hour and minute.
func ParseClock(clock string) (int, int, error) {
	raw := strings.TrimSpace(clock)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 || !twoDigits(parts[0]) || !twoDigits(parts[1]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 24 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	if hour == 24 && minute != 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return hour, minute, nil
}

// twoDigits rejects signs and other characters strconv.Atoi would accept, so
// stored times stay zero-padded and sort chronologically as strings.
func twoDigits(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ClockMinutes returns minutes since midnight for an "HH:MM" string.
func ClockMinutes(clock string) (int, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

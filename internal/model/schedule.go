package model

import (
	"fmt"
	"strings"
)

// DefaultScheduleName names the schedule seeded on first run.
const DefaultScheduleName = "My Day"

// Schedule is a named, ordered collection of tasks for one day. Task order is
// significant: it drives both the list display and reordering.
type Schedule struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

type ScheduleSummary struct {
	ID   string
	Name string
}

// State is everything the planner persists: schedules in insertion order plus
// the id of the active one.
type State struct {
	Schedules         []Schedule `json:"schedules"`
	CurrentScheduleID string     `json:"currentScheduleId"`
}

// Validate checks the load invariant: at least one schedule and an active id
// that references one of them.
func (s State) Validate() error {
	if len(s.Schedules) == 0 {
		return fmt.Errorf("%w: no schedules", ErrInvalidState)
	}
	if strings.TrimSpace(s.CurrentScheduleID) == "" {
		return fmt.Errorf("%w: current schedule id is empty", ErrInvalidState)
	}
	if s.IndexOf(s.CurrentScheduleID) < 0 {
		return fmt.Errorf("%w: current schedule %q not found", ErrInvalidState, s.CurrentScheduleID)
	}
	return nil
}

func (s State) IndexOf(scheduleID string) int {
	for i, sc := range s.Schedules {
		if sc.ID == scheduleID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers cannot alias task slices.
func (s State) Clone() State {
	out := State{
		CurrentScheduleID: s.CurrentScheduleID,
		Schedules:         make([]Schedule, len(s.Schedules)),
	}
	for i, sc := range s.Schedules {
		out.Schedules[i] = sc.Clone()
	}
	return out
}

func (s Schedule) Clone() Schedule {
	tasks := make([]Task, len(s.Tasks))
	copy(tasks, s.Tasks)
	return Schedule{ID: s.ID, Name: s.Name, Tasks: tasks}
}

func (s Schedule) TaskIndex(taskID string) int {
	for i, t := range s.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

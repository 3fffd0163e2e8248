// Package planner holds the in-memory source of truth for schedules and tasks.
//
// Every mutation is applied in memory first and then written through to the
// Saver. A failed write is reported through the Notifier and never rolls the
// in-memory state back.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/sandeepkv93/chronos/internal/ids"
	"github.com/sandeepkv93/chronos/internal/model"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a transient, user-facing notification.
type Notice struct {
	Title string
	Body  string
	Level Level
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type Saver interface {
	Save(ctx context.Context, state model.State) error
}

type Options struct {
	IDs      ids.Generator
	Saver    Saver
	Notifier Notifier
}

type Manager struct {
	state    model.State
	ids      ids.Generator
	saver    Saver
	notifier Notifier
}

func New(initial model.State, opts Options) *Manager {
	m := &Manager{
		state:    initial.Clone(),
		ids:      opts.IDs,
		saver:    opts.Saver,
		notifier: opts.Notifier,
	}
	if m.ids == nil {
		m.ids = ids.UUID{}
	}
	return m
}

// State returns a deep copy of the current state.
func (m *Manager) State() model.State {
	return m.state.Clone()
}

func (m *Manager) CurrentScheduleID() string {
	return m.state.CurrentScheduleID
}

func (m *Manager) CurrentSchedule() (model.Schedule, bool) {
	idx := m.state.IndexOf(m.state.CurrentScheduleID)
	if idx < 0 {
		return model.Schedule{}, false
	}
	return m.state.Schedules[idx].Clone(), true
}

func (m *Manager) Schedules() []model.ScheduleSummary {
	out := make([]model.ScheduleSummary, 0, len(m.state.Schedules))
	for _, sc := range m.state.Schedules {
		out = append(out, model.ScheduleSummary{ID: sc.ID, Name: sc.Name})
	}
	return out
}

// AddTask appends a new task to the active schedule and re-sorts it by start
// time. The returned error is only ever a validation error.
func (m *Manager) AddTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	if err := draft.Validate(); err != nil {
		return model.Task{}, err
	}
	sc := m.current()
	if sc == nil {
		return model.Task{}, nil
	}
	task := model.Task{
		ID:        m.ids.NewID(),
		Title:     strings.TrimSpace(draft.Title),
		StartTime: strings.TrimSpace(draft.StartTime),
		EndTime:   strings.TrimSpace(draft.EndTime),
	}
	sc.Tasks = append(sc.Tasks, task)
	sort.SliceStable(sc.Tasks, func(i, j int) bool {
		return sc.Tasks[i].StartTime < sc.Tasks[j].StartTime
	})
	m.persist(ctx)
	m.notify(Notice{Title: "Task Added", Body: fmt.Sprintf("%q has been added.", task.Title), Level: LevelInfo})
	return task, nil
}

func (m *Manager) ToggleTask(ctx context.Context, taskID string) {
	sc := m.current()
	if sc == nil {
		return
	}
	idx := sc.TaskIndex(taskID)
	if idx < 0 {
		return
	}
	sc.Tasks[idx].Completed = !sc.Tasks[idx].Completed
	m.persist(ctx)
}

func (m *Manager) DeleteTask(ctx context.Context, taskID string) {
	sc := m.current()
	if sc == nil {
		return
	}
	if idx := sc.TaskIndex(taskID); idx >= 0 {
		sc.Tasks = append(sc.Tasks[:idx], sc.Tasks[idx+1:]...)
		m.persist(ctx)
	}
	m.notify(Notice{Title: "Task Removed", Level: LevelError})
}

// ReorderTasks moves the dragged task to the target's position, shifting the
// tasks in between by one. The result is not re-sorted by start time, so a
// manual order can diverge from chronological order until the next AddTask.
func (m *Manager) ReorderTasks(ctx context.Context, draggedID, targetID string) {
	if draggedID == targetID {
		return
	}
	sc := m.current()
	if sc == nil {
		return
	}
	from := sc.TaskIndex(draggedID)
	to := sc.TaskIndex(targetID)
	if from < 0 || to < 0 {
		return
	}
	moved := sc.Tasks[from]
	tasks := append(sc.Tasks[:from:from], sc.Tasks[from+1:]...)
	tasks = append(tasks[:to], append([]model.Task{moved}, tasks[to:]...)...)
	sc.Tasks = tasks
	m.persist(ctx)
}

func (m *Manager) AddNewSchedule(ctx context.Context, name string) model.Schedule {
	sc := model.Schedule{
		ID:    m.ids.NewID(),
		Name:  name,
		Tasks: []model.Task{},
	}
	m.state.Schedules = append(m.state.Schedules, sc)
	m.state.CurrentScheduleID = sc.ID
	m.persist(ctx)
	m.notify(Notice{Title: "Schedule Created", Body: fmt.Sprintf("New schedule %q is ready.", name), Level: LevelInfo})
	return sc.Clone()
}

// SetCurrentScheduleID switches the active schedule. Callers only pass known ids.
func (m *Manager) SetCurrentScheduleID(ctx context.Context, scheduleID string) {
	m.state.CurrentScheduleID = scheduleID
	m.persist(ctx)
}

// TasksForAI serializes the active schedule's tasks as a JSON array.
func (m *Manager) TasksForAI() string {
	tasks := []model.Task{}
	if sc := m.current(); sc != nil && len(sc.Tasks) > 0 {
		tasks = sc.Tasks
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func (m *Manager) current() *model.Schedule {
	idx := m.state.IndexOf(m.state.CurrentScheduleID)
	if idx < 0 {
		return nil
	}
	return &m.state.Schedules[idx]
}

func (m *Manager) persist(ctx context.Context) {
	if m.saver == nil {
		return
	}
	if err := m.saver.Save(ctx, m.state.Clone()); err != nil {
		log.Printf("planner: save state: %v", err)
		m.notify(Notice{Title: "Error", Body: "Could not save your schedule.", Level: LevelError})
	}
}

func (m *Manager) notify(n Notice) {
	if m.notifier != nil {
		m.notifier.Notify(n)
	}
}

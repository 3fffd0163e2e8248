package update

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/chronos/internal/model"
	"github.com/sandeepkv93/chronos/internal/planner"
)

func (m Model) ctx() context.Context {
	return context.Background()
}

func (m Model) currentTasks() []model.Task {
	sc, ok := m.planner.CurrentSchedule()
	if !ok {
		return nil
	}
	return sc.Tasks
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.currentTasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.Cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.currentTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) selectTask(taskID string) {
	for i, task := range m.currentTasks() {
		if task.ID == taskID {
			m.Cursor = i
			return
		}
	}
}

// moveSelected swaps the selected task with its neighbour, the keyboard
// counterpart of dragging it onto that neighbour.
func (m Model) moveSelected(delta int) Model {
	tasks := m.currentTasks()
	target := m.Cursor + delta
	if m.Cursor < 0 || m.Cursor >= len(tasks) || target < 0 || target >= len(tasks) {
		return m
	}
	m.planner.ReorderTasks(m.ctx(), tasks[m.Cursor].ID, tasks[target].ID)
	m.Cursor = target
	m.afterMutation()
	return m
}

func (m Model) cycleSchedule(delta int) Model {
	schedules := m.planner.Schedules()
	if len(schedules) < 2 {
		return m
	}
	idx := 0
	for i, sc := range schedules {
		if sc.ID == m.planner.CurrentScheduleID() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(schedules)) % len(schedules)
	m = m.switchSchedule(schedules[idx].ID)
	m.Status = StatusBar{Text: fmt.Sprintf("schedule: %s", schedules[idx].Name)}
	return m
}

func (m Model) switchSchedule(scheduleID string) Model {
	m.planner.SetCurrentScheduleID(m.ctx(), scheduleID)
	m.Cursor = 0
	m.afterMutation()
	return m
}

// afterMutation folds planner notices into the notification log and keeps
// the cursor and start alerts in line with the new state.
func (m *Model) afterMutation() {
	for _, n := range m.notices.drain() {
		m.notify(n.Title, n.Body, string(n.Level))
		m.Status = StatusBar{Text: noticeText(n.Title, n.Body), IsError: n.Level == planner.LevelError}
	}
	m.clampCursor()
	m.rearmAlerts()
}

func noticeText(title, body string) string {
	if body == "" {
		return title
	}
	return title + ": " + body
}

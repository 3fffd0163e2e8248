package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chronos/internal/model"
)

const addTaskFields = 3

func (m Model) openAddTaskForm() Model {
	m.Mode = ModeAddTask
	m.AddForm = AddTaskFormState{}
	m.titleInput.SetValue("")
	m.startInput.SetValue("")
	m.endInput.SetValue("")
	m.focusAddField()
	return m
}

func (m *Model) focusAddField() {
	inputs := []*textinput.Model{&m.titleInput, &m.startInput, &m.endInput}
	for i, in := range inputs {
		if i == m.AddForm.Focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m Model) closeAddTaskForm() Model {
	m.Mode = ModeBrowse
	m.AddForm = AddTaskFormState{}
	m.titleInput.Blur()
	m.startInput.Blur()
	m.endInput.Blur()
	return m
}

func (m Model) handleAddTaskKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		return m.closeAddTaskForm()
	case "tab", "down":
		m.AddForm.Focus = (m.AddForm.Focus + 1) % addTaskFields
		m.focusAddField()
		return m
	case "shift+tab", "up":
		m.AddForm.Focus = (m.AddForm.Focus + addTaskFields - 1) % addTaskFields
		m.focusAddField()
		return m
	case "enter":
		return m.submitAddTask()
	}
	switch m.AddForm.Focus {
	case 0:
		m.titleInput = typeInto(m.titleInput, msg)
	case 1:
		m.startInput = typeInto(m.startInput, msg)
	default:
		m.endInput = typeInto(m.endInput, msg)
	}
	return m
}

func (m Model) submitAddTask() Model {
	draft := model.TaskDraft{
		Title:     m.titleInput.Value(),
		StartTime: m.startInput.Value(),
		EndTime:   m.endInput.Value(),
	}
	task, err := m.planner.AddTask(m.ctx(), draft)
	if err != nil {
		m.AddForm.Error = formError(draft)
		return m
	}
	m = m.closeAddTaskForm()
	m.afterMutation()
	m.selectTask(task.ID)
	return m
}

// formError names the first field that failed validation.
func formError(d model.TaskDraft) string {
	if strings.TrimSpace(d.Title) == "" {
		return "Title is required."
	}
	if _, _, err := model.ParseClock(d.StartTime); err != nil {
		return "Start time must be HH:MM."
	}
	return "End time must be HH:MM."
}

func (m Model) openNewSchedulePrompt() Model {
	m.Mode = ModeNewSchedule
	m.scheduleInput.SetValue("")
	m.scheduleInput.Focus()
	return m
}

// handleNewScheduleKey creates a schedule on enter. An empty name cancels.
func (m Model) handleNewScheduleKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Mode = ModeBrowse
		m.scheduleInput.Blur()
		return m
	case "enter":
		name := strings.TrimSpace(m.scheduleInput.Value())
		m.Mode = ModeBrowse
		m.scheduleInput.Blur()
		if name == "" {
			return m
		}
		m.planner.AddNewSchedule(m.ctx(), name)
		m.Cursor = 0
		m.afterMutation()
		return m
	}
	m.scheduleInput = typeInto(m.scheduleInput, msg)
	return m
}

func typeInto(in textinput.Model, msg tea.KeyMsg) textinput.Model {
	switch msg.Type {
	case tea.KeyRunes:
		in.SetValue(in.Value() + string(msg.Runes))
		return in
	case tea.KeySpace:
		in.SetValue(in.Value() + " ")
		return in
	}
	in, _ = in.Update(msg)
	return in
}

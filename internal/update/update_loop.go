package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chronos/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForStartCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		switch m.Mode {
		case ModeAddTask:
			return m.handleAddTaskKey(typed), nil
		case ModeNewSchedule:
			return m.handleNewScheduleKey(typed), nil
		case ModeSmart:
			return m.handleSmartKey(typed)
		}
		return m.handleBrowseKey(typed)
	case tea.WindowSizeMsg:
		m.applyWindowSize(typed.Width, typed.Height)
		return m, nil
	case spinner.TickMsg:
		if m.Smart.Loading {
			var cmd tea.Cmd
			m.smartSpinner, cmd = m.smartSpinner.Update(typed)
			return m, cmd
		}
	case SuggestionResultMsg:
		return m.applySuggestionResult(typed), nil
	case TaskStartMsg:
		m.applyTaskStart(typed.Event)
		if m.Scheduler != nil {
			return m, waitForStartCmd(m.Scheduler.C())
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Palette:
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case m.Keys.SwitchView:
		if m.CurrentView == ViewPlan {
			m.CurrentView = ViewTimeline
		} else {
			m.CurrentView = ViewPlan
		}
	case m.Keys.Add:
		m = m.openAddTaskForm()
	case m.Keys.NewSchedule:
		m = m.openNewSchedulePrompt()
	case m.Keys.Smart:
		m = m.openSmartDialog("")
	case m.Keys.PrevSchedule:
		m = m.cycleSchedule(-1)
	case m.Keys.NextSchedule:
		m = m.cycleSchedule(1)
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case m.Keys.Toggle, " ":
		if task, ok := m.selectedTask(); ok {
			m.planner.ToggleTask(m.ctx(), task.ID)
			m.afterMutation()
		}
	case m.Keys.Delete:
		if task, ok := m.selectedTask(); ok {
			m.planner.DeleteTask(m.ctx(), task.ID)
			m.afterMutation()
		}
	case m.Keys.MoveDown:
		m = m.moveSelected(1)
	case m.Keys.MoveUp:
		m = m.moveSelected(-1)
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewTimeline:
		leftPane = m.renderTimelineView()
	default:
		leftPane = m.renderPlanView()
	}
	rightPane := strings.TrimSpace(strings.Join([]string{
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
	}, "\n"))

	scheduleName := "(none)"
	if sc, ok := m.planner.CurrentSchedule(); ok {
		scheduleName = sc.Name
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("Chronos Flow | schedule: %s | view: %s", scheduleName, m.CurrentView),
		Schedules:    m.renderScheduleBar(),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		Overlay:      m.renderOverlay(),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s add | x toggle | %s delete | %s/%s move | %s new | %s%s switch | %s smart | tab view | / cmd | %s help | %s quit",
			m.Keys.Add, m.Keys.Delete, m.Keys.MoveUp, m.Keys.MoveDown, m.Keys.NewSchedule,
			m.Keys.PrevSchedule, m.Keys.NextSchedule, m.Keys.Smart, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewPlan, ViewTimeline:
		return true
	default:
		return false
	}
}

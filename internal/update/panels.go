package update

import (
	"strings"

	"github.com/sandeepkv93/chronos/internal/views"
)

func (m Model) renderPlanView() string {
	tasks := m.currentTasks()
	rows := make([]views.TaskRowData, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, views.TaskRowData{
			Title:     task.Title,
			StartTime: task.StartTime,
			EndTime:   task.EndTime,
			Completed: task.Completed,
		})
	}
	return views.RenderPlanPanel(views.PlanPanelData{Tasks: rows, Cursor: m.Cursor})
}

func (m Model) renderTimelineView() string {
	blocks := m.window.Layout(m.currentTasks())
	data := views.TimelinePanelData{Hours: m.window.Hours(), RowsPerHour: 2}
	for _, b := range blocks {
		data.Blocks = append(data.Blocks, views.TimelineBlockData{
			Title:      b.Task.Title,
			StartTime:  b.Task.StartTime,
			EndTime:    b.Task.EndTime,
			Top:        b.Top,
			Height:     b.Height,
			ColorIndex: b.ColorIndex,
			Completed:  b.Task.Completed,
		})
	}
	return views.RenderTimelinePanel(data)
}

func (m Model) renderScheduleBar() string {
	schedules := m.planner.Schedules()
	names := make([]string, 0, len(schedules))
	current := -1
	for i, sc := range schedules {
		names = append(names, sc.Name)
		if sc.ID == m.planner.CurrentScheduleID() {
			current = i
		}
	}
	return views.RenderScheduleBar(names, current)
}

func (m Model) renderOverlay() string {
	switch m.Mode {
	case ModeAddTask:
		return views.RenderAddTaskForm(views.AddTaskFormData{
			TitleView: m.titleInput.View(),
			StartView: m.startInput.View(),
			EndView:   m.endInput.View(),
			Focus:     m.AddForm.Focus,
			Error:     m.AddForm.Error,
		})
	case ModeNewSchedule:
		return views.RenderNamePrompt(m.scheduleInput.View())
	case ModeSmart:
		data := views.SmartDialogData{
			ActivityView: m.activityInput.View(),
			PatternsView: m.patternsArea.View(),
			Focus:        m.Smart.Focus,
			Loading:      m.Smart.Loading,
			SpinnerView:  m.smartSpinner.View(),
			Problems:     m.Smart.Problems,
		}
		if m.Smart.Result != nil {
			data.HasResult = true
			data.Times = m.Smart.Result.Times
			data.ReasoningView = m.reasoningView.View()
		}
		return views.RenderSmartDialog(data)
	default:
		return ""
	}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, "/"+m.commandInput.Value())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Title, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}

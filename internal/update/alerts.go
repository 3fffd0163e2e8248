package update

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chronos/internal/scheduler"
)

func waitForStartCmd(ch <-chan scheduler.StartEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TaskStartMsg{Event: ev}
	}
}

// rearmAlerts replaces the pending start alerts with those of the active
// schedule.
func (m *Model) rearmAlerts() {
	if m.Scheduler == nil || !m.AlertsEnabled {
		return
	}
	events := scheduler.StartEvents(m.currentTasks(), m.now())
	if err := m.Scheduler.Replace(events); err != nil {
		log.Printf("update: arm start alerts: %v", err)
	}
}

func (m *Model) applyTaskStart(ev scheduler.StartEvent) {
	m.AlertLog = append(m.AlertLog, ev)
	if len(m.AlertLog) > maxAlertLog {
		m.AlertLog = m.AlertLog[len(m.AlertLog)-maxAlertLog:]
	}
	text := fmt.Sprintf("Starting now: %s", ev.Title)
	m.Status = StatusBar{Text: text}
	m.notify("Task Starting", text, "info")
}

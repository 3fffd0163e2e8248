package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chronos/internal/commands"
	"github.com/sandeepkv93/chronos/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	m.commandInput = typeInto(m.commandInput, msg)
	m.Palette.Input = m.commandInput.Value()
	return m, nil
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.planner.AddTask(m.ctx(), a.Draft)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.afterMutation()
			m.selectTask(task.ID)
			return commands.Result{Message: fmt.Sprintf("added %s %s-%s", task.Title, task.StartTime, task.EndTime)}, nil
		},
		Done: func(p commands.PositionArgs) (commands.Result, error) {
			task, err := m.taskAt(p.Position)
			if err != nil {
				return commands.Result{}, err
			}
			m.planner.ToggleTask(m.ctx(), task.ID)
			m.afterMutation()
			return commands.Result{Message: fmt.Sprintf("toggled %s", task.Title)}, nil
		},
		Remove: func(p commands.PositionArgs) (commands.Result, error) {
			task, err := m.taskAt(p.Position)
			if err != nil {
				return commands.Result{}, err
			}
			m.planner.DeleteTask(m.ctx(), task.ID)
			m.afterMutation()
			return commands.Result{Message: fmt.Sprintf("removed %s", task.Title)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			from, err := m.taskAt(a.From)
			if err != nil {
				return commands.Result{}, err
			}
			to, err := m.taskAt(a.To)
			if err != nil {
				return commands.Result{}, err
			}
			m.planner.ReorderTasks(m.ctx(), from.ID, to.ID)
			m.afterMutation()
			m.selectTask(from.ID)
			return commands.Result{Message: fmt.Sprintf("moved %s to #%d", from.Title, a.To)}, nil
		},
		New: func(a commands.NameArgs) (commands.Result, error) {
			sc := m.planner.AddNewSchedule(m.ctx(), a.Name)
			m.Cursor = 0
			m.afterMutation()
			return commands.Result{Message: fmt.Sprintf("created schedule %s", sc.Name)}, nil
		},
		Switch: func(a commands.NameArgs) (commands.Result, error) {
			for _, sc := range m.planner.Schedules() {
				if strings.EqualFold(sc.Name, a.Name) {
					m = m.switchSchedule(sc.ID)
					return commands.Result{Message: fmt.Sprintf("schedule: %s", sc.Name)}, nil
				}
			}
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeNotFound, Message: fmt.Sprintf("no schedule named %q", a.Name)}
		},
		Suggest: func(a commands.SuggestArgs) (commands.Result, error) {
			m = m.openSmartDialog(a.Activity)
			next, cmd := m.submitSmart()
			m = next.(Model)
			follow = cmd
			if len(m.Smart.Problems) > 0 {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: strings.Join(m.Smart.Problems, " ")}
			}
			return commands.Result{Message: "getting suggestions"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, follow
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}

func (m Model) taskAt(position int) (model.Task, error) {
	tasks := m.currentTasks()
	if position < 1 || position > len(tasks) {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeNotFound, Message: fmt.Sprintf("no task #%d", position)}
	}
	return tasks[position-1], nil
}

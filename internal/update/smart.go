package update

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chronos/internal/suggest"
	"github.com/sandeepkv93/chronos/internal/views"
)

const suggestionErrorText = "Could not get AI suggestions. Please try again."

func (m Model) openSmartDialog(activity string) Model {
	m.Mode = ModeSmart
	m.Smart.Focus = 0
	m.Smart.Problems = nil
	m.Smart.Result = nil
	m.activityInput.SetValue(activity)
	m.focusSmartField()
	return m
}

// closeSmartDialog dismisses the dialog and resets the form to its defaults.
// A request still in flight is orphaned by bumping Seq.
func (m Model) closeSmartDialog() Model {
	m.Mode = ModeBrowse
	m.Smart = SmartDialogState{Seq: m.Smart.Seq + 1}
	m.activityInput.SetValue("")
	m.activityInput.Blur()
	m.patternsArea.SetValue(suggest.DefaultProductivityPatterns)
	m.patternsArea.Blur()
	m.reasoningView.SetContent("")
	return m
}

func (m *Model) focusSmartField() {
	if m.Smart.Focus == 0 {
		m.activityInput.Focus()
		m.patternsArea.Blur()
		return
	}
	m.activityInput.Blur()
	m.patternsArea.Focus()
}

func (m Model) handleSmartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m.closeSmartDialog(), nil
	}
	if m.Smart.Result != nil {
		var cmd tea.Cmd
		m.reasoningView, cmd = m.reasoningView.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "tab", "shift+tab":
		m.Smart.Focus = 1 - m.Smart.Focus
		m.focusSmartField()
		return m, nil
	case "enter":
		return m.submitSmart()
	}
	if m.Smart.Loading {
		return m, nil
	}
	if m.Smart.Focus == 0 {
		m.activityInput = typeInto(m.activityInput, msg)
		return m, nil
	}
	switch msg.Type {
	case tea.KeyRunes:
		m.patternsArea.InsertString(string(msg.Runes))
	case tea.KeySpace:
		m.patternsArea.InsertString(" ")
	default:
		var cmd tea.Cmd
		m.patternsArea, cmd = m.patternsArea.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submitSmart validates the form and starts one request. Submitting again
// while a request is outstanding does nothing.
func (m Model) submitSmart() (tea.Model, tea.Cmd) {
	if m.Smart.Loading {
		return m, nil
	}
	req := suggest.Request{
		ActivityDescription:      m.activityInput.Value(),
		ExistingSchedule:         m.planner.TasksForAI(),
		UserProductivityPatterns: m.patternsArea.Value(),
	}
	m.Smart.Problems = req.Problems()
	if len(m.Smart.Problems) > 0 {
		return m, nil
	}
	m.Smart.Loading = true
	m.Smart.Seq++
	return m, tea.Batch(m.smartSpinner.Tick, suggestCmd(m.suggester, m.Smart.Seq, req))
}

func suggestCmd(s Suggester, seq int, req suggest.Request) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return SuggestionResultMsg{Seq: seq, Err: suggest.ErrSuggestionFailed}
		}
		out, err := s.Suggest(context.Background(), req)
		return SuggestionResultMsg{Seq: seq, Output: out, Err: err}
	}
}

func (m Model) applySuggestionResult(msg SuggestionResultMsg) Model {
	if m.Mode != ModeSmart || msg.Seq != m.Smart.Seq {
		return m
	}
	m.Smart.Loading = false
	if msg.Err != nil {
		log.Printf("update: suggestion request: %v", msg.Err)
		m.Status = StatusBar{Text: suggestionErrorText, IsError: true}
		m.notify("Error", suggestionErrorText, "error")
		return m
	}
	res := suggest.DecodeTimes(msg.Output)
	m.Smart.Result = &res
	m.reasoningView.SetContent(views.RenderMarkdown(res.Reasoning, m.reasoningView.Width))
	m.reasoningView.GotoTop()
	return m
}

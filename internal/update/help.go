package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/chronos/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range append(m.globalBindings(), m.viewBindings()...) {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Add, Action: "add task"},
		{Key: m.Keys.NewSchedule, Action: "new schedule"},
		{Key: m.Keys.PrevSchedule + "/" + m.Keys.NextSchedule, Action: "previous/next schedule"},
		{Key: m.Keys.Smart, Action: "smart schedule assistant"},
		{Key: m.Keys.SwitchView, Action: "toggle plan/timeline"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewPlan:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space/" + m.Keys.Toggle, Action: "toggle completed"},
			{Key: m.Keys.Delete, Action: "delete task"},
			{Key: m.Keys.MoveUp + "/" + m.Keys.MoveDown, Action: "move task up/down"},
		}
	case ViewTimeline:
		return []KeyBinding{
			{Key: m.Keys.SwitchView, Action: "back to plan"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	all := append(m.globalBindings(), m.viewBindings()...)
	out := make([]key.Binding, 0, len(all))
	for _, kb := range all {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

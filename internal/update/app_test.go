package update

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chronos/internal/config"
	"github.com/sandeepkv93/chronos/internal/ids"
	"github.com/sandeepkv93/chronos/internal/model"
	"github.com/sandeepkv93/chronos/internal/scheduler"
	"github.com/sandeepkv93/chronos/internal/storage"
	"github.com/sandeepkv93/chronos/internal/suggest"
)

type fakeSaver struct {
	saves []model.State
	err   error
}

func (f *fakeSaver) Save(_ context.Context, state model.State) error {
	f.saves = append(f.saves, state)
	return f.err
}

type fakeSuggester struct {
	mu    sync.Mutex
	out   suggest.Output
	err   error
	calls []suggest.Request
}

func (f *fakeSuggester) Suggest(_ context.Context, req suggest.Request) (suggest.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.out, f.err
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T) (Model, *fakeSaver, *fakeSuggester) {
	t.Helper()
	gen := ids.NewSequence("id")
	saver := &fakeSaver{}
	sugg := &fakeSuggester{out: suggest.Output{SuggestedTimes: `["14:00-15:00"]`, Reasoning: "Your afternoon is free."}}
	m := NewModel(Options{
		State:     storage.SeedState(gen),
		Saver:     saver,
		IDs:       gen,
		Suggester: sugg,
		Now:       fixedNow,
	})
	return m, saver, sugg
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func titles(m Model) []string {
	var out []string
	for _, task := range m.currentTasks() {
		out = append(out, task.Title)
	}
	return out
}

func lastNotification(t *testing.T, m Model) Notification {
	t.Helper()
	if len(m.Notifications) == 0 {
		t.Fatal("expected a notification")
	}
	return m.Notifications[len(m.Notifications)-1]
}

// collect runs cmd and any batched children, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.CurrentView != ViewPlan || m.Mode != ModeBrowse {
		t.Fatalf("unexpected defaults: view=%q mode=%q", m.CurrentView, m.Mode)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	want := []string{"Morning Stand-up", "Focus Work: Project A", "Lunch Break"}
	if got := titles(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected seeded tasks: %v", got)
	}
}

func TestNewModelWithoutStateSeeds(t *testing.T) {
	m := NewModel(Options{IDs: ids.NewSequence("x")})
	if len(titles(m)) != 3 {
		t.Fatalf("expected seeded schedule, got %v", titles(m))
	}
}

func TestToggleAndDeleteKeys(t *testing.T) {
	m, saver, _ := newTestModel(t)

	m = press(t, m, "j", "space")
	if !m.currentTasks()[1].Completed {
		t.Fatalf("expected second task completed")
	}
	m = press(t, m, "x")
	if m.currentTasks()[1].Completed {
		t.Fatalf("expected second task toggled back")
	}

	m = press(t, m, "d")
	if got := titles(m); !reflect.DeepEqual(got, []string{"Morning Stand-up", "Lunch Break"}) {
		t.Fatalf("unexpected tasks after delete: %v", got)
	}
	if n := lastNotification(t, m); n.Title != "Task Removed" || n.Level != "error" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if len(saver.saves) != 3 {
		t.Fatalf("expected 3 saves, got %d", len(saver.saves))
	}
}

func TestCursorStaysInRangeAfterDeletingLastTask(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "j", "j", "j", "j")
	if m.Cursor != 2 {
		t.Fatalf("cursor should clamp to 2, got %d", m.Cursor)
	}
	m = press(t, m, "d")
	if m.Cursor != 1 {
		t.Fatalf("cursor should follow the shrinking list, got %d", m.Cursor)
	}
}

func TestMoveKeysReorder(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "J")
	want := []string{"Focus Work: Project A", "Morning Stand-up", "Lunch Break"}
	if got := titles(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order after J: %v", got)
	}
	if m.Cursor != 1 {
		t.Fatalf("cursor should follow the moved task, got %d", m.Cursor)
	}

	m = press(t, m, "K")
	want = []string{"Morning Stand-up", "Focus Work: Project A", "Lunch Break"}
	if got := titles(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order after K: %v", got)
	}

	// moving past either end is ignored
	m = press(t, m, "K")
	if got := titles(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("move above the top changed order: %v", got)
	}
}

func TestAddTaskForm(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "a")
	if m.Mode != ModeAddTask {
		t.Fatalf("expected add task mode, got %q", m.Mode)
	}
	m = press(t, m, "Write", "space", "report", "tab", "10:00", "tab", "11:00", "enter")
	if m.Mode != ModeBrowse {
		t.Fatalf("expected form closed, got %q", m.Mode)
	}
	want := []string{"Morning Stand-up", "Focus Work: Project A", "Write report", "Lunch Break"}
	if got := titles(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected chronological insert, got %v", got)
	}
	if m.Cursor != 2 {
		t.Fatalf("expected new task selected, got cursor %d", m.Cursor)
	}
	n := lastNotification(t, m)
	if n.Title != "Task Added" || n.Body != `"Write report" has been added.` {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestAddTaskFormValidation(t *testing.T) {
	m, saver, _ := newTestModel(t)
	m = press(t, m, "a", "tab", "10:00", "tab", "11:00", "enter")
	if m.Mode != ModeAddTask || m.AddForm.Error != "Title is required." {
		t.Fatalf("expected form to stay open with error, got mode=%q err=%q", m.Mode, m.AddForm.Error)
	}
	m = press(t, m, "esc", "a", "Gym", "tab", "9am", "tab", "10:00", "enter")
	if m.AddForm.Error != "Start time must be HH:MM." {
		t.Fatalf("unexpected error: %q", m.AddForm.Error)
	}
	m = press(t, m, "esc")
	if m.Mode != ModeBrowse || len(saver.saves) != 0 {
		t.Fatalf("cancel should not save: mode=%q saves=%d", m.Mode, len(saver.saves))
	}
}

func TestNewScheduleAndSwitching(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "n", "Weekend", "enter")
	sc, ok := m.planner.CurrentSchedule()
	if !ok || sc.Name != "Weekend" || len(sc.Tasks) != 0 {
		t.Fatalf("expected empty active Weekend schedule, got %+v", sc)
	}
	if n := lastNotification(t, m); n.Body != `New schedule "Weekend" is ready.` {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if out := m.View(); !strings.Contains(out, "No tasks yet") {
		t.Fatalf("expected empty plan in view: %q", out)
	}

	m = press(t, m, "]")
	if sc, _ := m.planner.CurrentSchedule(); sc.Name != "My Day" {
		t.Fatalf("expected wrap-around to My Day, got %q", sc.Name)
	}
	m = press(t, m, "[")
	if sc, _ := m.planner.CurrentSchedule(); sc.Name != "Weekend" {
		t.Fatalf("expected Weekend, got %q", sc.Name)
	}

	// empty name cancels
	before := len(m.planner.Schedules())
	m = press(t, m, "n", "enter")
	if len(m.planner.Schedules()) != before {
		t.Fatalf("empty name should not create a schedule")
	}
}

func TestPaletteCommands(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "/", "add Gym 07:00-08:00", "enter")
	if m.Palette.Active {
		t.Fatal("palette should close after execute")
	}
	if got := titles(m); got[0] != "Gym" {
		t.Fatalf("expected Gym first, got %v", got)
	}

	m = press(t, m, "/", "done 1", "enter")
	if !m.currentTasks()[0].Completed {
		t.Fatal("expected Gym completed")
	}

	m = press(t, m, "/", "move 1 4", "enter")
	if got := titles(m); got[3] != "Gym" {
		t.Fatalf("expected Gym last, got %v", got)
	}

	m = press(t, m, "/", "rm 4", "enter")
	if len(titles(m)) != 3 {
		t.Fatalf("expected 3 tasks, got %v", titles(m))
	}

	m = press(t, m, "/", "new Weekend", "enter", "/", "switch my day", "enter")
	if sc, _ := m.planner.CurrentSchedule(); sc.Name != "My Day" {
		t.Fatalf("expected switch back to My Day, got %q", sc.Name)
	}

	m = press(t, m, "/", "switch Holiday", "enter")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "not_found") {
		t.Fatalf("expected not found status, got %+v", m.Status)
	}

	m = press(t, m, "/", "rm 9", "enter")
	if !m.Status.IsError {
		t.Fatalf("expected error for missing task, got %+v", m.Status)
	}
}

func TestSmartDialogSuccess(t *testing.T) {
	m, _, sugg := newTestModel(t)

	m = press(t, m, "s")
	if m.Mode != ModeSmart {
		t.Fatalf("expected smart mode, got %q", m.Mode)
	}
	m = press(t, m, "Write", "space", "the", "space", "report")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.Smart.Loading || cmd == nil {
		t.Fatalf("expected loading with a command, loading=%v", m.Smart.Loading)
	}

	// a second submit while loading is ignored
	updated, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if again != nil {
		t.Fatal("expected no command while a request is in flight")
	}

	for _, msg := range collect(cmd) {
		if res, ok := msg.(SuggestionResultMsg); ok {
			updated, _ = m.Update(res)
			m = updated.(Model)
		}
	}
	if len(sugg.calls) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(sugg.calls))
	}
	req := sugg.calls[0]
	if req.ActivityDescription != "Write the report" || req.UserProductivityPatterns != suggest.DefaultProductivityPatterns {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.ExistingSchedule, `"title":"Lunch Break"`) {
		t.Fatalf("existing schedule not serialized: %s", req.ExistingSchedule)
	}
	if m.Smart.Loading || m.Smart.Result == nil {
		t.Fatalf("expected a result, got %+v", m.Smart)
	}
	if !reflect.DeepEqual(m.Smart.Result.Times, []string{"14:00-15:00"}) {
		t.Fatalf("unexpected times: %v", m.Smart.Result.Times)
	}
	if out := m.View(); !strings.Contains(out, "14:00-15:00") || !strings.Contains(out, "AI Suggestions") {
		t.Fatalf("expected suggestions in view: %q", out)
	}

	m = press(t, m, "esc")
	if m.Mode != ModeBrowse || m.Smart.Result != nil || m.activityInput.Value() != "" {
		t.Fatalf("esc should dismiss and reset the dialog: %+v", m.Smart)
	}
	if m.patternsArea.Value() != suggest.DefaultProductivityPatterns {
		t.Fatalf("patterns should reset to default, got %q", m.patternsArea.Value())
	}
}

func TestSmartDialogValidationAndFailure(t *testing.T) {
	m, _, sugg := newTestModel(t)

	m = press(t, m, "s", "Gym", "enter")
	if len(m.Smart.Problems) != 1 || m.Smart.Loading {
		t.Fatalf("expected validation problem, got %+v", m.Smart)
	}

	sugg.err = suggest.ErrSuggestionFailed
	m = press(t, m, "space", "class")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	for _, msg := range collect(cmd) {
		if res, ok := msg.(SuggestionResultMsg); ok {
			updated, _ = m.Update(res)
			m = updated.(Model)
		}
	}
	if m.Smart.Loading || m.Smart.Result != nil {
		t.Fatalf("failure should leave no result: %+v", m.Smart)
	}
	n := lastNotification(t, m)
	if n.Level != "error" || n.Body != "Could not get AI suggestions. Please try again." {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestStaleSuggestionIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "s", "Go for a run")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	seq := m.Smart.Seq
	m = press(t, m, "esc")

	updated, _ = m.Update(SuggestionResultMsg{Seq: seq, Output: suggest.Output{SuggestedTimes: `["07:00"]`, Reasoning: "x"}})
	m = updated.(Model)
	if m.Smart.Result != nil || m.Mode != ModeBrowse {
		t.Fatalf("reply to a dismissed dialog must be dropped: %+v", m.Smart)
	}
}

func TestSaveFailureNotifies(t *testing.T) {
	m, saver, _ := newTestModel(t)
	saver.err = errors.New("disk full")

	m = press(t, m, "x")
	// the seeded stand-up starts completed
	if m.currentTasks()[0].Completed {
		t.Fatal("expected in-memory toggle to survive the failed save")
	}
	n := lastNotification(t, m)
	if n.Title != "Error" || n.Body != "Could not save your schedule." {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestTaskStartMsg(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(TaskStartMsg{Event: scheduler.StartEvent{TaskID: "t", Title: "Lunch Break", At: fixedNow()}})
	m = updated.(Model)
	if len(m.AlertLog) != 1 {
		t.Fatalf("expected alert logged, got %d", len(m.AlertLog))
	}
	if n := lastNotification(t, m); n.Body != "Starting now: Lunch Break" {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestAlertsArmedForActiveSchedule(t *testing.T) {
	engine := scheduler.NewEngine(4)
	gen := ids.NewSequence("id")
	m := NewModel(Options{State: storage.SeedState(gen), IDs: gen, Scheduler: engine, Now: fixedNow})
	// at 08:00 all three seeded tasks lie ahead, but one is already completed
	if got := engine.Pending(); got != 2 {
		t.Fatalf("expected 2 armed alerts, got %d", got)
	}
	m = press(t, m, "x")
	if got := engine.Pending(); got != 3 {
		t.Fatalf("expected 3 armed alerts after un-completing, got %d", got)
	}

	cfg := config.DefaultRuntimeConfig()
	cfg.AlertsEnabled = false
	NewModelWithConfig(Options{State: storage.SeedState(gen), IDs: gen, Scheduler: engine, Now: fixedNow}, cfg)
	if got := engine.Pending(); got != 0 {
		t.Fatalf("disabled alerts should clear the engine, got %d", got)
	}
}

func TestTimelineView(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "tab")
	if m.CurrentView != ViewTimeline {
		t.Fatalf("expected timeline view, got %q", m.CurrentView)
	}
	out := m.View()
	for _, want := range []string{"Daily Timeline", "06:00", "Lunch Break 12:00 - 13:00", "view: Timeline"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in timeline view: %q", want, out)
		}
	}
}

func TestNewModelWithConfigWindow(t *testing.T) {
	cfg := config.DefaultRuntimeConfig()
	cfg.TimelineStartHour = 9
	cfg.TimelineEndHour = 17
	cfg.DesktopNotifications = true
	m := NewModelWithConfig(Options{IDs: ids.NewSequence("id"), Now: fixedNow}, cfg)
	if !m.DesktopEnabled {
		t.Fatal("expected desktop notifications enabled")
	}
	if m.window.StartHour != 9 || m.window.EndHour != 17 {
		t.Fatalf("unexpected window: %+v", m.window)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error state: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", next.Status)
	}
}

func TestSwitchViewMsg(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(SwitchViewMsg{View: ViewTimeline})
	next := updated.(Model)
	if next.CurrentView != ViewTimeline {
		t.Fatalf("expected timeline view, got %q", next.CurrentView)
	}
	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewTimeline {
		t.Fatalf("unknown view should be ignored, got %q", next.CurrentView)
	}
}

func TestNotificationLogIsBounded(t *testing.T) {
	m, _, _ := newTestModel(t)
	for i := 0; i < 50; i++ {
		m.notify("n", "body", "info")
	}
	if len(m.Notifications) != maxNotifications {
		t.Fatalf("expected %d notifications, got %d", maxNotifications, len(m.Notifications))
	}
}

func TestHelpAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "?")
	if !m.HelpVisible || !strings.Contains(m.View(), "toggle completed") {
		t.Fatal("expected help panel with plan bindings")
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"Chronos Flow", "schedule: My Day", "view: Plan", "status: all good", "Focus Work: Project A"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestClearingAlertsOnStoppedEngineIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	engine := scheduler.NewEngine(4)
	engine.Start()
	engine.Stop()

	cfg := config.DefaultRuntimeConfig()
	cfg.AlertsEnabled = false
	NewModelWithConfig(Options{IDs: ids.NewSequence("id"), Scheduler: engine, Now: fixedNow}, cfg)
	if !strings.Contains(buf.String(), "update: clear start alerts: ") {
		t.Fatalf("expected the clear failure to be logged, got %q", buf.String())
	}
}

func TestWindowSizeResizesDialog(t *testing.T) {
	m, _, _ := newTestModel(t)
	cases := []struct {
		width int
		want  int
	}{
		{120, 100},
		{70, 64},
		{20, 32},
	}
	for _, tc := range cases {
		updated, _ := m.Update(tea.WindowSizeMsg{Width: tc.width, Height: 30})
		m = updated.(Model)
		if m.Width != tc.width || m.Height != 30 {
			t.Fatalf("size not tracked: %dx%d", m.Width, m.Height)
		}
		if m.reasoningView.Width != tc.want || m.activityInput.Width != tc.want-2 {
			t.Fatalf("width %d: reasoning=%d activity=%d, want %d", tc.width, m.reasoningView.Width, m.activityInput.Width, tc.want)
		}
	}
}

func TestWindowSizeRerendersShownSuggestion(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "s", "Write the report")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	for _, msg := range collect(cmd) {
		if res, ok := msg.(SuggestionResultMsg); ok {
			updated, _ = m.Update(res)
			m = updated.(Model)
		}
	}
	if m.Smart.Result == nil {
		t.Fatal("expected a suggestion on screen")
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 46, Height: 24})
	m = updated.(Model)
	if m.reasoningView.Width != 40 {
		t.Fatalf("expected reasoning width 40, got %d", m.reasoningView.Width)
	}
	if !strings.Contains(m.reasoningView.View(), "afternoon") {
		t.Fatalf("expected reasoning kept after resize: %q", m.reasoningView.View())
	}
}

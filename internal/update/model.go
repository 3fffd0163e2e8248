package update

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/chronos/internal/config"
	"github.com/sandeepkv93/chronos/internal/ids"
	"github.com/sandeepkv93/chronos/internal/model"
	"github.com/sandeepkv93/chronos/internal/planner"
	"github.com/sandeepkv93/chronos/internal/scheduler"
	"github.com/sandeepkv93/chronos/internal/storage"
	"github.com/sandeepkv93/chronos/internal/suggest"
	"github.com/sandeepkv93/chronos/internal/timeline"
	"github.com/sandeepkv93/chronos/internal/views"
)

type View string

const (
	ViewPlan     View = "Plan"
	ViewTimeline View = "Timeline"
)

// Mode is the modal overlay currently capturing keys.
type Mode string

const (
	ModeBrowse      Mode = "browse"
	ModeAddTask     Mode = "add_task"
	ModeNewSchedule Mode = "new_schedule"
	ModeSmart       Mode = "smart"
)

const (
	maxNotifications = 40
	maxAlertLog      = 20
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add          string
	Toggle       string
	Delete       string
	MoveDown     string
	MoveUp       string
	NewSchedule  string
	PrevSchedule string
	NextSchedule string
	Smart        string
	SwitchView   string
	Palette      string
	Help         string
	Quit         string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type AddTaskFormState struct {
	Focus int
	Error string
}

type SmartDialogState struct {
	Focus    int
	Loading  bool
	Seq      int
	Problems []string
	Result   *suggest.Result
}

// Suggester is the part of suggest.Client the dialog needs.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (suggest.Output, error)
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// Options wires the model to its collaborators. Zero values fall back to
// in-memory defaults, which is what tests rely on.
type Options struct {
	State     model.State
	Saver     planner.Saver
	IDs       ids.Generator
	Suggester Suggester
	Scheduler *scheduler.Engine
	Notifier  DesktopNotifier
	Now       func() time.Time
}

type Model struct {
	CurrentView    View
	Mode           Mode
	Cursor         int
	Palette        CommandPaletteState
	AddForm        AddTaskFormState
	Smart          SmartDialogState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	AlertsEnabled  bool
	Scheduler      *scheduler.Engine
	AlertLog       []scheduler.StartEvent
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	Width          int
	Height         int

	planner   *planner.Manager
	notices   *noticeInbox
	suggester Suggester
	notifier  DesktopNotifier
	window    timeline.Window
	now       func() time.Time

	titleInput    textinput.Model
	startInput    textinput.Model
	endInput      textinput.Model
	scheduleInput textinput.Model
	commandInput  textinput.Model
	activityInput textinput.Model
	patternsArea  textarea.Model
	smartSpinner  spinner.Model
	helpModel     help.Model
	reasoningView viewport.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// SuggestionResultMsg carries the outcome of one suggestion request. Seq
// identifies the request so a reply to a dismissed dialog is dropped.
type SuggestionResultMsg struct {
	Seq    int
	Output suggest.Output
	Err    error
}

type TaskStartMsg struct {
	Event scheduler.StartEvent
}

// noticeInbox buffers planner notices until the model folds them into its
// notification log.
type noticeInbox struct {
	pending []planner.Notice
}

func (n *noticeInbox) Notify(notice planner.Notice) {
	n.pending = append(n.pending, notice)
}

func (n *noticeInbox) drain() []planner.Notice {
	out := n.pending
	n.pending = nil
	return out
}

func NewModel(opts Options) Model {
	inbox := &noticeInbox{}
	if opts.IDs == nil {
		opts.IDs = ids.UUID{}
	}
	state := opts.State
	if len(state.Schedules) == 0 {
		state = storage.SeedState(opts.IDs)
	}
	m := Model{
		CurrentView:   ViewPlan,
		Mode:          ModeBrowse,
		AlertsEnabled: true,
		Scheduler:     opts.Scheduler,
		planner: planner.New(state, planner.Options{
			IDs:      opts.IDs,
			Saver:    opts.Saver,
			Notifier: inbox,
		}),
		notices:   inbox,
		suggester: opts.Suggester,
		notifier:  NoopDesktopNotifier{},
		window:    timeline.DefaultWindow,
		now:       opts.Now,
		Keys: GlobalKeyMap{
			Add:          "a",
			Toggle:       "x",
			Delete:       "d",
			MoveDown:     "J",
			MoveUp:       "K",
			NewSchedule:  "n",
			PrevSchedule: "[",
			NextSchedule: "]",
			Smart:        "s",
			SwitchView:   "tab",
			Palette:      "/",
			Help:         "?",
			Quit:         "q",
		},
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.initBubbleComponents()
	m.rearmAlerts()
	return m
}

func NewModelWithConfig(opts Options, cfg config.RuntimeConfig) Model {
	m := NewModel(opts)
	m.DesktopEnabled = cfg.DesktopNotifications
	m.AlertsEnabled = cfg.AlertsEnabled
	window := timeline.Window{StartHour: cfg.TimelineStartHour, EndHour: cfg.TimelineEndHour}
	if window.Valid() {
		m.window = window
	}
	if !m.AlertsEnabled && m.Scheduler != nil {
		if err := m.Scheduler.Replace(nil); err != nil {
			log.Printf("update: clear start alerts: %v", err)
		}
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.titleInput = newInput("", "e.g. Team meeting", 40)
	m.startInput = newInput("", "HH:MM", 5)
	m.endInput = newInput("", "HH:MM", 5)
	m.scheduleInput = newInput("", "Weekend", 40)
	m.activityInput = newInput("", "e.g. Study for exam for 2 hours", 60)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.patternsArea = textarea.New()
	m.patternsArea.ShowLineNumbers = false
	m.patternsArea.SetWidth(defaultDialogWidth)
	m.patternsArea.SetHeight(4)
	m.patternsArea.CharLimit = 0
	m.patternsArea.SetValue(suggest.DefaultProductivityPatterns)

	m.smartSpinner = spinner.New()
	m.smartSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.reasoningView = viewport.New(defaultDialogWidth, 8)
}

const (
	defaultDialogWidth = 64
	minDialogWidth     = 32
	maxDialogWidth     = 100
	// border and padding of the overlay frame
	dialogChrome = 6
)

// applyWindowSize fits the dialog components to the terminal. A suggestion
// already on screen is re-rendered at the new width.
func (m *Model) applyWindowSize(width, height int) {
	m.Width = width
	m.Height = height
	w := dialogWidth(width)
	m.activityInput.Width = w - 2
	m.patternsArea.SetWidth(w)
	m.reasoningView.Width = w
	m.reasoningView.Height = reasoningHeight(height)
	m.helpModel.Width = width
	if m.Smart.Result != nil {
		m.reasoningView.SetContent(views.RenderMarkdown(m.Smart.Result.Reasoning, w))
	}
}

func dialogWidth(termWidth int) int {
	if termWidth <= 0 {
		return defaultDialogWidth
	}
	w := termWidth - dialogChrome
	if w < minDialogWidth {
		w = minDialogWidth
	}
	if w > maxDialogWidth {
		w = maxDialogWidth
	}
	return w
}

func reasoningHeight(termHeight int) int {
	h := termHeight / 3
	if h < 4 {
		return 4
	}
	return h
}

func newInput(prompt, placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = width
	return in
}

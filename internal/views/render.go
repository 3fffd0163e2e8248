package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Schedules    string
	LeftPane     string
	RightPane    string
	Overlay      string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	overlayStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("13")).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

// chartColors mirrors the five chart slots picked by timeline.ColorIndex.
var chartColors = map[int]lipgloss.Color{
	1: lipgloss.Color("39"),
	2: lipgloss.Color("170"),
	3: lipgloss.Color("214"),
	4: lipgloss.Color("42"),
	5: lipgloss.Color("203"),
}

func RenderApp(data AppData) string {
	var body string
	if data.RightPane == "" {
		body = panelStyle.Width(100).Render(data.LeftPane)
	} else {
		left := panelStyle.Width(48).Render(data.LeftPane)
		right := panelStyle.Width(58).Render(data.RightPane)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if data.Schedules != "" {
		lines = append(lines, data.Schedules)
	}
	lines = append(lines, body)
	if data.Overlay != "" {
		lines = append(lines, overlayStyle.Render(data.Overlay))
	}
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Notification != "" {
		lines = append(lines, data.Notification)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md for a terminal of the given width and falls back
// to the raw text when glamour fails.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Title     string
	StartTime string
	EndTime   string
	Completed bool
}

type PlanPanelData struct {
	Tasks  []TaskRowData
	Cursor int
}

type TimelineBlockData struct {
	Title      string
	StartTime  string
	EndTime    string
	Top        float64
	Height     float64
	ColorIndex int
	Completed  bool
}

type TimelinePanelData struct {
	Hours       []int
	Blocks      []TimelineBlockData
	RowsPerHour int
}

type AddTaskFormData struct {
	TitleView string
	StartView string
	EndView   string
	Focus     int
	Error     string
}

type SmartDialogData struct {
	ActivityView  string
	PatternsView  string
	Focus         int
	Loading       bool
	SpinnerView   string
	Problems      []string
	HasResult     bool
	Times         []string
	ReasoningView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderScheduleBar(names []string, current int) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(names))
	for i, name := range names {
		if i == current {
			parts = append(parts, cursorStyle.Render("["+name+"]"))
			continue
		}
		parts = append(parts, mutedStyle.Render(name))
	}
	return "schedules: " + strings.Join(parts, "  ")
}

func RenderPlanPanel(data PlanPanelData) string {
	var b strings.Builder
	b.WriteString("Today's Plan\n\n")
	if len(data.Tasks) == 0 {
		b.WriteString("No tasks yet\n")
		b.WriteString(mutedStyle.Render("Add a task to get started."))
		return b.String()
	}
	for i, task := range data.Tasks {
		cursor := " "
		if i == data.Cursor {
			cursor = cursorStyle.Render(">")
		}
		check := "[ ]"
		title := task.Title
		if task.Completed {
			check = "[x]"
			title = doneStyle.Render(task.Title)
		}
		b.WriteString(fmt.Sprintf("%s %s %d. %s\n", cursor, check, i+1, title))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("        %s - %s", task.StartTime, task.EndTime)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderTimelinePanel draws hour rows and fills every row a block overlaps.
// A block's label goes on the first row it covers.
func RenderTimelinePanel(data TimelinePanelData) string {
	var b strings.Builder
	b.WriteString("Daily Timeline\n\n")
	if len(data.Hours) == 0 {
		b.WriteString("(no visible hours)")
		return b.String()
	}
	perHour := data.RowsPerHour
	if perHour <= 0 {
		perHour = 2
	}
	rows := len(data.Hours) * perHour
	labelled := make([]bool, len(data.Blocks))

	for r := 0; r < rows; r++ {
		rowStart := float64(r) / float64(rows) * 100
		rowEnd := float64(r+1) / float64(rows) * 100

		gutter := "      "
		if r%perHour == 0 {
			gutter = fmt.Sprintf("%02d:00 ", data.Hours[r/perHour])
		}

		var cells []string
		for i, block := range data.Blocks {
			if !overlaps(block, rowStart, rowEnd) {
				continue
			}
			style := lipgloss.NewStyle().Foreground(chartColors[block.ColorIndex])
			if block.Completed {
				style = style.Faint(true)
			}
			if !labelled[i] {
				labelled[i] = true
				cells = append(cells, style.Render(fmt.Sprintf("█ %s %s - %s", block.Title, block.StartTime, block.EndTime)))
				continue
			}
			cells = append(cells, style.Render("█"))
		}
		line := gutter + mutedStyle.Render("┊")
		if len(cells) > 0 {
			line += " " + strings.Join(cells, "  ")
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func overlaps(block TimelineBlockData, rowStart, rowEnd float64) bool {
	return block.Top < rowEnd && block.Top+block.Height > rowStart
}

func RenderAddTaskForm(data AddTaskFormData) string {
	var b strings.Builder
	b.WriteString("Add Task\n")
	b.WriteString(mutedStyle.Render("[tab] next field  [enter] add  [esc] cancel") + "\n\n")
	fields := []struct {
		label string
		view  string
	}{
		{"Title", data.TitleView},
		{"Start", data.StartView},
		{"End", data.EndView},
	}
	for i, f := range fields {
		marker := " "
		if i == data.Focus {
			marker = cursorStyle.Render(">")
		}
		b.WriteString(fmt.Sprintf("%s %-5s %s\n", marker, f.label, f.view))
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render(data.Error) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderNamePrompt(inputView string) string {
	return "New Schedule\n" +
		mutedStyle.Render("[enter] create  [esc] cancel") + "\n\n" +
		"Enter new schedule name: " + inputView
}

func RenderSmartDialog(data SmartDialogData) string {
	var b strings.Builder
	b.WriteString("Smart Schedule Assistant\n")
	b.WriteString(mutedStyle.Render("Let AI find the perfect time for your new activity.") + "\n\n")

	if data.HasResult {
		b.WriteString("AI Suggestions\n\n")
		b.WriteString("Reasoning:\n")
		b.WriteString(data.ReasoningView + "\n\n")
		b.WriteString("Suggested Times:\n")
		if len(data.Times) == 0 {
			b.WriteString(mutedStyle.Render("No specific times suggested.") + "\n")
		}
		for _, t := range data.Times {
			b.WriteString("  • " + t + "\n")
		}
		b.WriteString("\n" + mutedStyle.Render("[esc] close"))
		return b.String()
	}

	marker := func(i int) string {
		if i == data.Focus {
			return cursorStyle.Render(">")
		}
		return " "
	}
	b.WriteString(marker(0) + " New Activity\n")
	b.WriteString("  " + data.ActivityView + "\n")
	b.WriteString(marker(1) + " Your Productivity Patterns\n")
	b.WriteString(data.PatternsView + "\n")
	for _, p := range data.Problems {
		b.WriteString(errorStyle.Render(p) + "\n")
	}
	if data.Loading {
		b.WriteString("\n" + data.SpinnerView + " Getting suggestions...")
	} else {
		b.WriteString("\n" + mutedStyle.Render("[tab] next field  [enter] Get Suggestions  [esc] close"))
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, title string, body string) string {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
		return ""
	}
	text := fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), title)
	if body != "" {
		text += ": " + body
	}
	if level == "error" {
		return errorStyle.Render(text)
	}
	return text
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s view):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

// Package timeline maps wall-clock task times onto a fixed visible window.
package timeline

import (
	"github.com/sandeepkv93/chronos/internal/model"
)

// Window is the visible part of the day, StartHour through EndHour inclusive.
type Window struct {
	StartHour int
	EndHour   int
}

var DefaultWindow = Window{StartHour: 6, EndHour: 23}

// Block is a task positioned on the timeline. Top and Height are percentages
// of the window height.
type Block struct {
	Task       model.Task
	Top        float64
	Height     float64
	ColorIndex int
}

func (w Window) Valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 23 && w.StartHour <= w.EndHour
}

// DurationMinutes counts the whole last hour, so EndHour+1:00 maps to 100.
func (w Window) DurationMinutes() int {
	return (w.EndHour - w.StartHour + 1) * 60
}

// Percentage returns the position of clock inside the window. Values outside
// 0..100 are returned as is. ok is false when clock does not parse.
func (w Window) Percentage(clock string) (float64, bool) {
	minutes, err := model.ClockMinutes(clock)
	if err != nil {
		return 0, false
	}
	total := w.DurationMinutes()
	if total <= 0 {
		return 0, false
	}
	elapsed := minutes - w.StartHour*60
	return float64(elapsed) / float64(total) * 100, true
}

func (w Window) TimeToPercentage(clock string) float64 {
	pct, _ := w.Percentage(clock)
	return pct
}

// Layout positions tasks in their given order. Tasks with unparsable times or
// no visible extent inside the window are left out.
func (w Window) Layout(tasks []model.Task) []Block {
	blocks := make([]Block, 0, len(tasks))
	for _, task := range tasks {
		top, ok := w.Percentage(task.StartTime)
		if !ok {
			continue
		}
		bottom, ok := w.Percentage(task.EndTime)
		if !ok {
			continue
		}
		top = clamp(top)
		bottom = clamp(bottom)
		height := bottom - top
		if height <= 0 {
			continue
		}
		blocks = append(blocks, Block{
			Task:       task,
			Top:        top,
			Height:     height,
			ColorIndex: ColorIndex(task.Title),
		})
	}
	return blocks
}

// Hours lists the hour markers drawn along the timeline.
func (w Window) Hours() []int {
	if !w.Valid() {
		return nil
	}
	out := make([]int, 0, w.EndHour-w.StartHour+1)
	for h := w.StartHour; h <= w.EndHour; h++ {
		out = append(out, h)
	}
	return out
}

// ColorIndex picks one of five palette slots (1..5) from the title.
func ColorIndex(title string) int {
	sum := 0
	for _, r := range title {
		sum += int(r)
	}
	return sum%5 + 1
}

func clamp(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

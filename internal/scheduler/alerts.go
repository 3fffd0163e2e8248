package scheduler

import (
	"time"

	"github.com/sandeepkv93/chronos/internal/model"
)

// StartEvents arms one event per incomplete task whose start time on now's
// calendar day is still ahead of now. Unparsable start times are skipped.
func StartEvents(tasks []model.Task, now time.Time) []StartEvent {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	var out []StartEvent
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		minutes, err := model.ClockMinutes(task.StartTime)
		if err != nil {
			continue
		}
		at := midnight.Add(time.Duration(minutes) * time.Minute)
		if !at.After(now) {
			continue
		}
		out = append(out, StartEvent{TaskID: task.ID, Title: task.Title, At: at})
	}
	return out
}

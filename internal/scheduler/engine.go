// Package scheduler fires task-start alerts at wall-clock times.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrEngineStopped      = errors.New("scheduler: engine stopped")
)

// StartEvent is emitted when a task reaches its start time.
type StartEvent struct {
	TaskID string
	Title  string
	At     time.Time
}

type startQueue []StartEvent

func (q startQueue) Len() int           { return len(q) }
func (q startQueue) Less(i, j int) bool { return q[i].At.Before(q[j].At) }
func (q startQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *startQueue) Push(x any) {
	*q = append(*q, x.(StartEvent))
}

func (q *startQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}

// Engine holds pending events in a min-heap and emits each one on C when it
// falls due. Emission never blocks: if the consumer lags and the buffer is
// full the event is counted as dropped.
type Engine struct {
	mu      sync.Mutex
	queue   startQueue
	out     chan StartEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
	now     func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(startQueue, 0),
		out:    make(chan StartEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

func (e *Engine) C() <-chan StartEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

// Stop ends the loop and closes C. It is safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev StartEvent) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	heap.Push(&e.queue, ev)
	e.signalWakeup()
	return nil
}

// Replace discards every pending event and arms events instead. Events with a
// zero time are skipped.
func (e *Engine) Replace(events []StartEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	queue := make(startQueue, 0, len(events))
	for _, ev := range events {
		if !ev.At.IsZero() {
			queue = append(queue, ev)
		}
	}
	heap.Init(&queue)
	e.queue = queue
	e.signalWakeup()
	return nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.At.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(e.now()) {
				select {
				case e.out <- ev:
				default:
					e.dropped.Add(1)
				}
			}
		case <-e.wakeup:
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (StartEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return StartEvent{}, false
	}
	return e.queue[0], true
}

func (e *Engine) popDue(now time.Time) []StartEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []StartEvent
	for len(e.queue) > 0 && !e.queue[0].At.After(now) {
		out = append(out, heap.Pop(&e.queue).(StartEvent))
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

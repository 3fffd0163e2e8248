package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/sandeepkv93/chronos/internal/ids"
	"github.com/sandeepkv93/chronos/internal/model"
)

// StateKey is the single key under which the whole planner state is stored.
const StateKey = "taskpilot-schedules"

// StateStore persists model.State as one JSON blob.
type StateStore struct {
	blobs BlobStore
	ids   ids.Generator
}

func NewStateStore(blobs BlobStore, gen ids.Generator) *StateStore {
	if gen == nil {
		gen = ids.UUID{}
	}
	return &StateStore{blobs: blobs, ids: gen}
}

// Load returns the stored state. A missing, unreadable, malformed or
// inconsistent blob is replaced by a freshly seeded default; Load never fails.
func (s *StateStore) Load(ctx context.Context) model.State {
	raw, err := s.blobs.Get(ctx, StateKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("storage: read state: %v; using default schedule", err)
		}
		return SeedState(s.ids)
	}
	var state model.State
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Printf("storage: decode state: %v; using default schedule", err)
		return SeedState(s.ids)
	}
	if err := state.Validate(); err != nil {
		log.Printf("storage: %v; using default schedule", err)
		return SeedState(s.ids)
	}
	for i := range state.Schedules {
		if state.Schedules[i].Tasks == nil {
			state.Schedules[i].Tasks = []model.Task{}
		}
	}
	return state
}

func (s *StateStore) Save(ctx context.Context, state model.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.blobs.Put(ctx, StateKey, payload); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// SeedState builds the first-run state: one "My Day" schedule with three
// example tasks, made active.
func SeedState(gen ids.Generator) model.State {
	if gen == nil {
		gen = ids.UUID{}
	}
	schedule := model.Schedule{
		ID:   gen.NewID(),
		Name: model.DefaultScheduleName,
		Tasks: []model.Task{
			{ID: gen.NewID(), Title: "Morning Stand-up", StartTime: "09:00", EndTime: "09:15", Completed: true},
			{ID: gen.NewID(), Title: "Focus Work: Project A", StartTime: "09:30", EndTime: "11:30"},
			{ID: gen.NewID(), Title: "Lunch Break", StartTime: "12:00", EndTime: "13:00"},
		},
	}
	return model.State{
		Schedules:         []model.Schedule{schedule},
		CurrentScheduleID: schedule.ID,
	}
}

// internal/store/memory.go
//
// In-memory round history.
//
// Characteristics:
//   - Stores finished game.Result values keyed by round ID.
//   - Concurrency-safe via RWMutex (HTTP readers, actor writer).
//   - Keeps at most a fixed number of rounds; the oldest is evicted first.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/fallingwords/internal/game"
)

// DefaultCapacity is how many rounds NewMemoryStore keeps.
const DefaultCapacity = 100

// ErrNotFound is returned by Get for an unknown round ID.
var ErrNotFound = errors.New("store: round not found")

// Store defines the persistence interface for finished rounds.
type Store interface {
	// Save records a finished round. Saving an existing ID replaces it.
	Save(ctx context.Context, r game.Result) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (game.Result, error)

	// List returns rounds newest first.
	List(ctx context.Context) ([]game.Result, error)
}

// memory is an in-memory Store bounded by capacity.
type memory struct {
	mu       sync.RWMutex
	rounds   map[string]game.Result // keyed by Result.ID
	order    []string               // oldest first
	capacity int
}

// NewMemoryStore constructs an in-memory Store keeping DefaultCapacity rounds.
func NewMemoryStore() Store {
	return NewMemoryStoreSize(DefaultCapacity)
}

// NewMemoryStoreSize is NewMemoryStore with an explicit capacity (min 1).
func NewMemoryStoreSize(capacity int) Store {
	if capacity < 1 {
		capacity = 1
	}
	return &memory{rounds: make(map[string]game.Result), capacity: capacity}
}

func (m *memory) Save(ctx context.Context, r game.Result) error {
	if r.ID == "" {
		return errors.New("store: result without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rounds[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.rounds[r.ID] = r
	for len(m.order) > m.capacity {
		delete(m.rounds, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (game.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return game.Result{}, ErrNotFound
}

func (m *memory) List(ctx context.Context) ([]game.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]game.Result, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.rounds[m.order[i]])
	}
	return out, nil
}

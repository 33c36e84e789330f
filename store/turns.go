package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/spindlehq/spindle"
)

// TurnStore manages an ordered conversation history with persistence
// support. Turns are appended in strict causal order; the store never
// reorders them.
type TurnStore struct {
	mu      sync.RWMutex
	turns   []spindle.Message
	adapter Adapter
}

// NewTurnStore creates a TurnStore with the given adapter.
// If adapter is nil, a default in-memory adapter is used.
func NewTurnStore(adapter Adapter) *TurnStore {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	return &TurnStore{
		turns:   make([]spindle.Message, 0),
		adapter: adapter,
	}
}

// NewTurnStoreFrom creates a TurnStore initialized with existing turns.
func NewTurnStoreFrom(turns []spindle.Message, adapter Adapter) *TurnStore {
	ts := NewTurnStore(adapter)
	if len(turns) > 0 {
		ts.turns = make([]spindle.Message, len(turns))
		copy(ts.turns, turns)
	}
	return ts
}

// Turns returns a copy of all turns.
func (t *TurnStore) Turns() []spindle.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]spindle.Message, len(t.turns))
	copy(result, t.turns)
	return result
}

// Append adds turns to the store.
func (t *TurnStore) Append(msgs ...spindle.Message) {
	if len(msgs) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, msgs...)
}

// Len returns the number of turns.
func (t *TurnStore) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Clear removes all turns.
func (t *TurnStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = make([]spindle.Message, 0)
}

// Last returns the last n turns. If n exceeds Len, returns all turns.
func (t *TurnStore) Last(n int) []spindle.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	start := len(t.turns) - n
	if start < 0 {
		start = 0
	}
	result := make([]spindle.Message, len(t.turns)-start)
	copy(result, t.turns[start:])
	return result
}

// Sync persists the turns to the adapter under the given key.
func (t *TurnStore) Sync(ctx context.Context, key string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	raw, err := json.Marshal(t.turns)
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return t.adapter.Set(ctx, key, raw)
}

// Reload loads turns from the adapter using the given key.
func (t *TurnStore) Reload(ctx context.Context, key string) error {
	raw, ok, err := t.adapter.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyNotFound
	}

	var turns []spindle.Message
	if err := json.Unmarshal(raw, &turns); err != nil {
		return &SerializationError{Key: key, Err: err}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = turns
	return nil
}

// Adapter returns the underlying adapter.
func (t *TurnStore) Adapter() Adapter {
	return t.adapter
}

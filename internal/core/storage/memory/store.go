// Package memory is an in-process event store for tests and ephemeral runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
)

// Store is an in-memory implementation of storage.EventStore.
// Records are kept in commit order, which is also (created_at, id) order.
type Store struct {
	mu      sync.RWMutex
	records []event.Record
	heads   map[uuid.UUID]int64
	nowFn   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		heads: make(map[uuid.UUID]int64),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Append(ctx context.Context, evt storage.PendingEvent) (int64, error) {
	if err := evt.Validate(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, storage.Wrap("append", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	head := s.heads[evt.AggregateID]
	if evt.ExpectedVersion != storage.AnyVersion && evt.ExpectedVersion != head {
		return 0, fmt.Errorf("%w: %s %s expected version %d, head is %d",
			storage.ErrVersionConflict, evt.Kind, evt.AggregateID, evt.ExpectedVersion, head)
	}

	// Store a copy to prevent external modification
	payload := make([]byte, len(evt.Payload))
	copy(payload, evt.Payload)

	rec := event.Record{
		ID:          int64(len(s.records) + 1),
		AggregateID: evt.AggregateID,
		Kind:        evt.Kind,
		Type:        evt.Type,
		Version:     head + 1,
		Payload:     payload,
		CreatedAt:   s.nowFn(),
	}
	s.records = append(s.records, rec)
	s.heads[evt.AggregateID] = rec.Version

	return rec.ID, nil
}

func (s *Store) Query(ctx context.Context, aggregateID uuid.UUID, kind event.AggregateKind, types []event.Type) (event.Stream, error) {
	if err := ctx.Err(); err != nil {
		return event.Stream{}, storage.Wrap("query", err)
	}

	wanted := make(map[event.Type]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stream event.Stream
	for _, rec := range s.records {
		if rec.AggregateID != aggregateID || rec.Kind != kind {
			continue
		}
		stream.Version = rec.Version
		if _, ok := wanted[rec.Type]; !ok {
			continue
		}
		stream.Records = append(stream.Records, cloneRecord(rec))
	}
	return stream, nil
}

func (s *Store) FindLatest(ctx context.Context, m storage.PayloadMatch) (event.Record, error) {
	if err := storage.ValidateMatch(m); err != nil {
		return event.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return event.Record{}, storage.Wrap("find latest", err)
	}

	wanted := make(map[event.Type]struct{}, len(m.Types))
	for _, t := range m.Types {
		wanted[t] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if rec.Kind != m.Kind {
			continue
		}
		if _, ok := wanted[rec.Type]; !ok {
			continue
		}
		value, err := dataField(rec.Payload, m.Field)
		if err != nil {
			return event.Record{}, storage.Wrap("find latest", err)
		}
		if value == m.Value {
			return cloneRecord(rec), nil
		}
	}
	return event.Record{}, storage.ErrNotFound
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of committed events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneRecord(rec event.Record) event.Record {
	payload := make([]byte, len(rec.Payload))
	copy(payload, rec.Payload)
	rec.Payload = payload
	return rec
}

// dataField extracts a top-level string from the envelope's data object.
func dataField(payload []byte, field string) (string, error) {
	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", fmt.Errorf("failed to decode payload: %w", err)
	}
	raw, ok := env.Data[field]
	if !ok {
		return "", nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", nil
	}
	return value, nil
}

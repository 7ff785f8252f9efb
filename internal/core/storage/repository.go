package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
)

// Expected-version sentinels for PendingEvent.ExpectedVersion.
const (
	// AnyVersion appends at whatever the aggregate head is at commit time.
	AnyVersion int64 = -1
	// NoStream requires the aggregate to have no events yet.
	NoStream int64 = 0
)

var (
	// ErrVersionConflict is returned when the aggregate head moved past the
	// version the caller replayed.
	ErrVersionConflict = errors.New("aggregate version conflict")

	// ErrInvalidEvent is returned for events whose type code does not belong
	// to the aggregate kind they are addressed to.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrNotFound is returned by lookups that match no event.
	ErrNotFound = errors.New("not found")
)

// StoreError wraps a connectivity or serialization failure of the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("event store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap returns err wrapped as a StoreError for op, or nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// PendingEvent is an event that has not been committed yet.
type PendingEvent struct {
	AggregateID     uuid.UUID
	Kind            event.AggregateKind
	Type            event.Type
	Payload         []byte
	ExpectedVersion int64
}

// Validate checks the event is addressable before it reaches the store.
func (p PendingEvent) Validate() error {
	if p.AggregateID == uuid.Nil {
		return fmt.Errorf("%w: aggregate id is required", ErrInvalidEvent)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: unknown aggregate kind %d", ErrInvalidEvent, p.Kind)
	}
	if p.Type.Kind() != p.Kind {
		return fmt.Errorf("%w: %s cannot be appended to a %s aggregate", ErrInvalidEvent, p.Type, p.Kind)
	}
	if len(p.Payload) == 0 {
		return fmt.Errorf("%w: payload is required", ErrInvalidEvent)
	}
	if p.ExpectedVersion < AnyVersion {
		return fmt.Errorf("%w: expected version %d", ErrInvalidEvent, p.ExpectedVersion)
	}
	return nil
}

// PayloadMatch selects the newest event of the given types whose payload
// field equals Value. Field names a top-level key of the envelope's data.
type PayloadMatch struct {
	Kind  event.AggregateKind
	Types []event.Type
	Field string
	Value string
}

// EventStore is the append-only event log.
type EventStore interface {
	// Append commits one event and returns its store-assigned id.
	Append(ctx context.Context, evt PendingEvent) (int64, error)

	// Query returns the aggregate's events whose type is in types, ordered by
	// (created_at, id), together with the aggregate head version. The head is
	// read before the records.
	Query(ctx context.Context, aggregateID uuid.UUID, kind event.AggregateKind, types []event.Type) (event.Stream, error)

	// FindLatest returns the newest record matching m, or ErrNotFound.
	FindLatest(ctx context.Context, m PayloadMatch) (event.Record, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// payloadFields lists the data keys FindLatest may match on.
var payloadFields = map[string]struct{}{
	"username":   {},
	"session_id": {},
}

// ValidateMatch rejects lookups on fields that are not indexed by any backend.
func ValidateMatch(m PayloadMatch) error {
	if _, ok := payloadFields[m.Field]; !ok {
		return fmt.Errorf("%w: payload field %q is not searchable", ErrInvalidEvent, m.Field)
	}
	if len(m.Types) == 0 {
		return fmt.Errorf("%w: at least one event type is required", ErrInvalidEvent)
	}
	for _, t := range m.Types {
		if t.Kind() != m.Kind {
			return fmt.Errorf("%w: %s is not a %s event", ErrInvalidEvent, t, m.Kind)
		}
	}
	return nil
}

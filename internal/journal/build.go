package journal

import (
	"context"
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
)

var (
	headerTypes = []event.Type{
		event.TypeJournalCreated,
		event.TypeJournalRenamed,
		event.TypeJournalDeleted,
	}
	ledgerTypes = []event.Type{
		event.TypeJournalCreated,
		event.TypeJournalAccountCreated,
		event.TypeJournalAccountDeleted,
		event.TypeJournalAddedEntry,
		event.TypeJournalDeleted,
	}
)

// HeaderTypes selects name, owner and lifecycle events.
func HeaderTypes() []event.Type { return append([]event.Type(nil), headerTypes...) }

// LedgerTypes selects the events that shape accounts and balances.
func LedgerTypes() []event.Type { return append([]event.Type(nil), ledgerTypes...) }

// Build loads the journal's events of the given types and folds them.
func Build(ctx context.Context, store storage.EventStore, id uuid.UUID, types []event.Type) (State, error) {
	stream, err := store.Query(ctx, id, event.KindJournal, types)
	if err != nil {
		return State{}, fmt.Errorf("failed to load journal %s: %w", id, err)
	}

	s := New(id)
	s.Version = stream.Version
	for _, rec := range stream.Records {
		de, err := rec.Decode()
		if err != nil {
			return State{}, fmt.Errorf("journal %s event %d: %w", id, rec.ID, err)
		}
		je, err := de.AsJournalEvent()
		if err != nil {
			return State{}, fmt.Errorf("journal %s event %d: %w", id, rec.ID, err)
		}
		s.Apply(je, rec.CreatedAt)
	}
	return s, nil
}

// Load is Build followed by an existence check.
func Load(ctx context.Context, store storage.EventStore, id uuid.UUID, types []event.Type) (State, error) {
	s, err := Build(ctx, store, id, types)
	if err != nil {
		return State{}, err
	}
	if !s.Exists() {
		return State{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Append encodes e and appends it to the journal's stream at expected.
func Append(ctx context.Context, store storage.EventStore, id uuid.UUID, e event.JournalEvent, expected int64) (int64, error) {
	payload, err := event.FromJournal(e).MarshalJSON()
	if err != nil {
		return 0, storage.Wrap("encode", err)
	}
	return store.Append(ctx, storage.PendingEvent{
		AggregateID:     id,
		Kind:            event.KindJournal,
		Type:            e.EventType(),
		Payload:         payload,
		ExpectedVersion: expected,
	})
}

package user

import (
	"context"
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
)

// Narrow projections of the user stream. Each includes TypeUserCreated and
// TypeUserDeleted so Exists is meaningful on every one of them.
var (
	profileTypes = []event.Type{
		event.TypeUserCreated,
		event.TypeUsernameUpdated,
		event.TypeUserPasswordUpdated,
		event.TypeUserDeleted,
	}
	sessionTypes = []event.Type{
		event.TypeUserCreated,
		event.TypeUserLoggedIn,
		event.TypeUserLoggedOut,
		event.TypeUserDeleted,
	}
	membershipTypes = []event.Type{
		event.TypeUserCreated,
		event.TypeUserCreatedJournal,
		event.TypeUserInvitedToJournal,
		event.TypeUserAcceptedJournalInvite,
		event.TypeUserDeclinedJournalInvite,
		event.TypeUserRemovedFromJournal,
		event.TypeUserDeleted,
	}
)

// ProfileTypes selects username, credential and lifecycle events.
func ProfileTypes() []event.Type { return append([]event.Type(nil), profileTypes...) }

// SessionTypes selects login and logout events.
func SessionTypes() []event.Type { return append([]event.Type(nil), sessionTypes...) }

// MembershipTypes selects journal ownership and invitation events.
func MembershipTypes() []event.Type { return append([]event.Type(nil), membershipTypes...) }

// Build loads the user's events of the given types and folds them.
// Every record is narrowed to a user event before it is applied.
func Build(ctx context.Context, store storage.EventStore, id uuid.UUID, types []event.Type) (State, error) {
	stream, err := store.Query(ctx, id, event.KindUser, types)
	if err != nil {
		return State{}, fmt.Errorf("failed to load user %s: %w", id, err)
	}

	s := New(id)
	s.Version = stream.Version
	for _, rec := range stream.Records {
		de, err := rec.Decode()
		if err != nil {
			return State{}, fmt.Errorf("user %s event %d: %w", id, rec.ID, err)
		}
		ue, err := de.AsUserEvent()
		if err != nil {
			return State{}, fmt.Errorf("user %s event %d: %w", id, rec.ID, err)
		}
		s.Apply(ue)
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

// Package user rebuilds user aggregates from their event history and answers
// the identity, session and membership questions commands ask about a user.
package user

import (
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a user id or username does not resolve.
var ErrNotFound = fmt.Errorf("user %w", storage.ErrNotFound)

// TenantInfo describes a user's standing on someone else's journal.
type TenantInfo struct {
	Permissions  event.Permissions
	InvitingUser uuid.UUID
	Owner        uuid.UUID
}

// State is a user aggregate folded from its events. Version is the aggregate
// head at load time and is the expected version for the next append.
type State struct {
	ID             uuid.UUID
	Version        int64
	Created        bool
	Username       string
	CredentialHash string
	Sessions       map[string]struct{}
	PendingInvites map[uuid.UUID]TenantInfo
	Accepted       map[uuid.UUID]TenantInfo
	OwnedJournals  map[uuid.UUID]struct{}
	Deleted        bool
}

// New returns the empty state for id.
func New(id uuid.UUID) State {
	return State{
		ID:             id,
		Sessions:       make(map[string]struct{}),
		PendingInvites: make(map[uuid.UUID]TenantInfo),
		Accepted:       make(map[uuid.UUID]TenantInfo),
		OwnedJournals:  make(map[uuid.UUID]struct{}),
	}
}

// FromEvents folds events, in order, into a fresh state for id.
func FromEvents(id uuid.UUID, events []event.UserEvent) State {
	s := New(id)
	for _, e := range events {
		s.Apply(e)
	}
	return s
}

// Apply folds a single event into s. Every variant is handled.
func (s *State) Apply(e event.UserEvent) {
	switch e := e.(type) {
	case event.UserCreated:
		s.Created = true
		s.Username = e.Username
		s.CredentialHash = e.HashedPassword
	case event.UsernameUpdated:
		s.Username = e.Username
	case event.UserPasswordUpdated:
		s.CredentialHash = e.HashedPassword
	case event.UserLoggedIn:
		s.Sessions[e.SessionID] = struct{}{}
	case event.UserLoggedOut:
		delete(s.Sessions, e.SessionID)
	case event.UserCreatedJournal:
		s.OwnedJournals[e.ID] = struct{}{}
	case event.UserInvitedToJournal:
		s.PendingInvites[e.ID] = TenantInfo{
			Permissions:  e.Permissions,
			InvitingUser: e.InvitingUser,
			Owner:        e.Owner,
		}
	case event.UserAcceptedJournalInvite:
		// Move, never copy: a journal is pending or accepted, not both.
		if info, ok := s.PendingInvites[e.ID]; ok {
			delete(s.PendingInvites, e.ID)
			s.Accepted[e.ID] = info
		}
	case event.UserDeclinedJournalInvite:
		delete(s.PendingInvites, e.ID)
	case event.UserRemovedFromJournal:
		delete(s.Accepted, e.ID)
	case event.UserDeleted:
		s.Deleted = true
	}
}

// Exists reports whether the user was created and not deleted.
func (s State) Exists() bool {
	return s.Created && !s.Deleted
}

// IsAuthenticated reports whether session is currently logged in.
func (s State) IsAuthenticated(session string) bool {
	_, ok := s.Sessions[session]
	return ok
}

// Owns reports whether the user created journal.
func (s State) Owns(journal uuid.UUID) bool {
	_, ok := s.OwnedJournals[journal]
	return ok
}

// Tenancy returns the accepted invite for journal, if any.
func (s State) Tenancy(journal uuid.UUID) (TenantInfo, bool) {
	info, ok := s.Accepted[journal]
	return info, ok
}

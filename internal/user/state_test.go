package user

import (
	"testing"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestApply_Transitions(t *testing.T) {
	id := uuid.New()
	journal := uuid.New()
	inviter := uuid.New()
	owner := uuid.New()
	invite := event.UserInvitedToJournal{
		ID:           journal,
		Permissions:  event.PermRead | event.PermAppendTransaction,
		InvitingUser: inviter,
		Owner:        owner,
	}
	info := TenantInfo{Permissions: invite.Permissions, InvitingUser: inviter, Owner: owner}

	tests := []struct {
		name   string
		events []event.UserEvent
		check  func(t *testing.T, s State)
	}{
		{
			name:   "created sets identity",
			events: []event.UserEvent{event.UserCreated{Username: "alice", HashedPassword: "h1"}},
			check: func(t *testing.T, s State) {
				require.True(t, s.Exists())
				require.Equal(t, "alice", s.Username)
				require.Equal(t, "h1", s.CredentialHash)
			},
		},
		{
			name: "updates overwrite",
			events: []event.UserEvent{
				event.UserCreated{Username: "alice", HashedPassword: "h1"},
				event.UsernameUpdated{Username: "alicia"},
				event.UserPasswordUpdated{HashedPassword: "h2"},
			},
			check: func(t *testing.T, s State) {
				require.Equal(t, "alicia", s.Username)
				require.Equal(t, "h2", s.CredentialHash)
			},
		},
		{
			name: "login and logout",
			events: []event.UserEvent{
				event.UserLoggedIn{SessionID: "s1"},
				event.UserLoggedIn{SessionID: "s2"},
				event.UserLoggedOut{SessionID: "s1"},
			},
			check: func(t *testing.T, s State) {
				require.False(t, s.IsAuthenticated("s1"))
				require.True(t, s.IsAuthenticated("s2"))
			},
		},
		{
			name:   "created journal",
			events: []event.UserEvent{event.UserCreatedJournal{ID: journal}},
			check: func(t *testing.T, s State) {
				require.True(t, s.Owns(journal))
			},
		},
		{
			name:   "invite is pending",
			events: []event.UserEvent{invite},
			check: func(t *testing.T, s State) {
				require.Equal(t, info, s.PendingInvites[journal])
				require.Empty(t, s.Accepted)
			},
		},
		{
			name:   "accept moves invite",
			events: []event.UserEvent{invite, event.UserAcceptedJournalInvite{ID: journal}},
			check: func(t *testing.T, s State) {
				require.Empty(t, s.PendingInvites)
				got, ok := s.Tenancy(journal)
				require.True(t, ok)
				require.Equal(t, info, got)
			},
		},
		{
			name:   "accept without invite is a no-op",
			events: []event.UserEvent{event.UserAcceptedJournalInvite{ID: journal}},
			check: func(t *testing.T, s State) {
				require.Empty(t, s.PendingInvites)
				require.Empty(t, s.Accepted)
			},
		},
		{
			name:   "decline drops invite",
			events: []event.UserEvent{invite, event.UserDeclinedJournalInvite{ID: journal}},
			check: func(t *testing.T, s State) {
				require.Empty(t, s.PendingInvites)
				require.Empty(t, s.Accepted)
			},
		},
		{
			name: "removed from journal",
			events: []event.UserEvent{
				invite,
				event.UserAcceptedJournalInvite{ID: journal},
				event.UserRemovedFromJournal{ID: journal},
			},
			check: func(t *testing.T, s State) {
				_, ok := s.Tenancy(journal)
				require.False(t, ok)
			},
		},
		{
			name: "deleted sets tombstone",
			events: []event.UserEvent{
				event.UserCreated{Username: "alice", HashedPassword: "h"},
				event.UserDeleted{},
			},
			check: func(t *testing.T, s State) {
				require.True(t, s.Deleted)
				require.False(t, s.Exists())
				require.Equal(t, "alice", s.Username)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromEvents(id, tt.events)
			require.Equal(t, id, s.ID)
			tt.check(t, s)
		})
	}
}

func TestFromEvents_NeverPendingAndAccepted(t *testing.T) {
	id := uuid.New()
	journals := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	var events []event.UserEvent
	for _, j := range journals {
		events = append(events, event.UserInvitedToJournal{ID: j, Permissions: event.PermRead})
	}
	events = append(events,
		event.UserAcceptedJournalInvite{ID: journals[0]},
		event.UserAcceptedJournalInvite{ID: journals[0]},
		event.UserDeclinedJournalInvite{ID: journals[1]},
		event.UserAcceptedJournalInvite{ID: journals[1]},
	)

	s := FromEvents(id, events)
	for _, j := range journals {
		_, pending := s.PendingInvites[j]
		_, accepted := s.Accepted[j]
		require.False(t, pending && accepted, "journal %s is both pending and accepted", j)
	}
	require.Contains(t, s.Accepted, journals[0])
	require.NotContains(t, s.Accepted, journals[1])
	require.Contains(t, s.PendingInvites, journals[2])
}

func TestFromEvents_Deterministic(t *testing.T) {
	id := uuid.New()
	journal := uuid.New()
	events := []event.UserEvent{
		event.UserCreated{Username: "bob", HashedPassword: "h"},
		event.UserLoggedIn{SessionID: "s"},
		event.UserCreatedJournal{ID: uuid.New()},
		event.UserInvitedToJournal{ID: journal, Permissions: event.PermAll},
		event.UserAcceptedJournalInvite{ID: journal},
		event.UsernameUpdated{Username: "robert"},
	}

	require.Equal(t, FromEvents(id, events), FromEvents(id, events))
}

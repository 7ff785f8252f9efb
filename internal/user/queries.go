package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/credential"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
)

// Append encodes e and appends it to the user's stream at expected.
func Append(ctx context.Context, store storage.EventStore, id uuid.UUID, e event.UserEvent, expected int64) (int64, error) {
	payload, err := event.FromUser(e).MarshalJSON()
	if err != nil {
		return 0, storage.Wrap("encode", err)
	}
	return store.Append(ctx, storage.PendingEvent{
		AggregateID:     id,
		Kind:            event.KindUser,
		Type:            e.EventType(),
		Payload:         payload,
		ExpectedVersion: expected,
	})
}

// ResolveID returns the id of the live user currently named username.
// The newest Created or UsernameUpdated carrying the name is a candidate
// only while that user still holds the name.
func ResolveID(ctx context.Context, store storage.EventStore, username string) (uuid.UUID, error) {
	rec, err := store.FindLatest(ctx, storage.PayloadMatch{
		Kind:  event.KindUser,
		Types: []event.Type{event.TypeUserCreated, event.TypeUsernameUpdated},
		Field: "username",
		Value: username,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	if err != nil {
		return uuid.Nil, err
	}

	s, err := Build(ctx, store, rec.AggregateID, profileTypes)
	if err != nil {
		return uuid.Nil, err
	}
	if !s.Exists() || s.Username != username {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	return s.ID, nil
}

// Username returns the user's current username.
func Username(ctx context.Context, store storage.EventStore, id uuid.UUID) (string, error) {
	s, err := Load(ctx, store, id, profileTypes)
	if err != nil {
		return "", err
	}
	return s.Username, nil
}

// CredentialHash returns the user's current password hash.
func CredentialHash(ctx context.Context, store storage.EventStore, id uuid.UUID) (string, error) {
	s, err := Load(ctx, store, id, profileTypes)
	if err != nil {
		return "", err
	}
	return s.CredentialHash, nil
}

// IsAuthenticated reports whether session is logged in as id.
func IsAuthenticated(ctx context.Context, store storage.EventStore, id uuid.UUID, session string) (bool, error) {
	s, err := Build(ctx, store, id, sessionTypes)
	if err != nil {
		return false, err
	}
	return s.Exists() && s.IsAuthenticated(session), nil
}

// FromSession returns the user session is logged in as.
func FromSession(ctx context.Context, store storage.EventStore, session string) (uuid.UUID, error) {
	if session == "" {
		return uuid.Nil, ErrNotFound
	}

	rec, err := store.FindLatest(ctx, storage.PayloadMatch{
		Kind:  event.KindUser,
		Types: []event.Type{event.TypeUserLoggedIn},
		Field: "session_id",
		Value: session,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	ok, err := IsAuthenticated(ctx, store, rec.AggregateID, session)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return rec.AggregateID, nil
}

// Authenticate checks password against the user's credential hash and, on a
// match, logs session in. A wrong password returns false and appends nothing.
func Authenticate(ctx context.Context, store storage.EventStore, hasher credential.Hasher, session string, id uuid.UUID, password string) (bool, error) {
	s, err := Load(ctx, store, id, profileTypes)
	if err != nil {
		return false, err
	}

	err = hasher.Verify(s.CredentialHash, password)
	if errors.Is(err, credential.ErrMismatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := Append(ctx, store, id, event.UserLoggedIn{SessionID: session}, s.Version); err != nil {
		return false, err
	}
	return true, nil
}

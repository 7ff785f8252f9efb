package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/aevon-lab/ledgerbook/internal/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	a, err := NewAdapter(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, migrations.RunMigrations(a.DB(), migrations.DialectSQLite, true))
	require.NoError(t, a.Prepare())

	// Monotonic fake clock so ordering never depends on wall-clock resolution.
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a.nowFn = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
	return a
}

func mustPayload(t *testing.T, e event.DomainEvent) []byte {
	t.Helper()
	b, err := e.MarshalJSON()
	require.NoError(t, err)
	return b
}

func userEvent(t *testing.T, id uuid.UUID, e event.UserEvent, expected int64) storage.PendingEvent {
	return storage.PendingEvent{
		AggregateID:     id,
		Kind:            event.KindUser,
		Type:            e.EventType(),
		Payload:         mustPayload(t, event.FromUser(e)),
		ExpectedVersion: expected,
	}
}

func TestAdapter_AppendAndQuery(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := a.Append(ctx, userEvent(t, id, event.UserCreated{Username: "alice", HashedPassword: "h"}, storage.NoStream))
	require.NoError(t, err)
	_, err = a.Append(ctx, userEvent(t, id, event.UserLoggedIn{SessionID: uuid.New().String()}, 1))
	require.NoError(t, err)
	_, err = a.Append(ctx, userEvent(t, id, event.UsernameUpdated{Username: "alicia"}, storage.AnyVersion))
	require.NoError(t, err)

	stream, err := a.Query(ctx, id, event.KindUser, []event.Type{event.TypeUserCreated, event.TypeUsernameUpdated})
	require.NoError(t, err)
	require.Equal(t, int64(3), stream.Version)
	require.Len(t, stream.Records, 2)
	require.Equal(t, event.TypeUserCreated, stream.Records[0].Type)
	require.Equal(t, int64(1), stream.Records[0].Version)
	require.Equal(t, event.TypeUsernameUpdated, stream.Records[1].Type)
	require.Equal(t, int64(3), stream.Records[1].Version)
	require.Equal(t, id, stream.Records[1].AggregateID)

	decoded, err := stream.Records[1].Decode()
	require.NoError(t, err)
	ue, err := decoded.AsUserEvent()
	require.NoError(t, err)
	require.Equal(t, event.UsernameUpdated{Username: "alicia"}, ue)
}

func TestAdapter_AppendRejectsStaleVersion(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := a.Append(ctx, userEvent(t, id, event.UserCreated{Username: "bob", HashedPassword: "h"}, storage.NoStream))
	require.NoError(t, err)

	_, err = a.Append(ctx, userEvent(t, id, event.UserCreated{Username: "bob", HashedPassword: "h"}, storage.NoStream))
	require.True(t, errors.Is(err, storage.ErrVersionConflict))

	stream, err := a.Query(ctx, id, event.KindUser, event.UserTypes())
	require.NoError(t, err)
	require.Len(t, stream.Records, 1)
}

func TestAdapter_QueryUnknownAggregate(t *testing.T) {
	a := newTestAdapter(t)

	stream, err := a.Query(context.Background(), uuid.New(), event.KindJournal, event.JournalTypes())
	require.NoError(t, err)
	require.Empty(t, stream.Records)
	require.Equal(t, int64(0), stream.Version)
}

func TestAdapter_FindLatest(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	_, err := a.Append(ctx, userEvent(t, first, event.UserCreated{Username: "carol", HashedPassword: "h"}, storage.NoStream))
	require.NoError(t, err)
	_, err = a.Append(ctx, userEvent(t, first, event.UsernameUpdated{Username: "caroline"}, 1))
	require.NoError(t, err)
	_, err = a.Append(ctx, userEvent(t, second, event.UserCreated{Username: "carol", HashedPassword: "h"}, storage.NoStream))
	require.NoError(t, err)

	match := storage.PayloadMatch{
		Kind:  event.KindUser,
		Types: []event.Type{event.TypeUserCreated, event.TypeUsernameUpdated},
		Field: "username",
		Value: "carol",
	}
	rec, err := a.FindLatest(ctx, match)
	require.NoError(t, err)
	require.Equal(t, second, rec.AggregateID)

	match.Value = "nobody"
	_, err = a.FindLatest(ctx, match)
	require.ErrorIs(t, err, storage.ErrNotFound)

	match.Field = "hashed_password"
	_, err = a.FindLatest(ctx, match)
	require.ErrorIs(t, err, storage.ErrInvalidEvent)
}

func TestAdapter_ConcurrentAppendsAtSameVersion(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := a.Append(ctx, userEvent(t, id, event.UserCreated{Username: "dave", HashedPassword: "h"}, storage.NoStream))
	require.NoError(t, err)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Append(ctx, userEvent(t, id, event.UserLoggedIn{SessionID: uuid.New().String()}, 1))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, storage.ErrVersionConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	stream, err := a.Query(ctx, id, event.KindUser, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), stream.Version)
}

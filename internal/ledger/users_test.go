package ledger

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignUp(f.ctx, "s", "alice", "pw", "other")
	require.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = f.svc.SignUp(f.ctx, "s", "   ", "pw", "pw")
	require.ErrorIs(t, err, ErrInvalidInput)

	id, err := f.svc.SignUp(f.ctx, "s", "alice", "pw", "pw")
	require.NoError(t, err)

	got, err := f.svc.UserFromSession(f.ctx, "s")
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = f.svc.SignUp(f.ctx, "s2", "alice", "pw", "pw")
	require.ErrorIs(t, err, ErrUserExists)
}

func TestSignUp_ConcurrentSameUsername(t *testing.T) {
	f := newFixture(t)

	const attempts = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []uuid.UUID
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := f.svc.SignUp(f.ctx, "", "popular", "pw", "pw")
			if err != nil {
				assert.ErrorIs(t, err, ErrUserExists)
				return
			}
			mu.Lock()
			created = append(created, id)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, created, 1)
}

func TestLogInAndOut(t *testing.T) {
	f := newFixture(t)
	id := f.signUp(t, "alice")

	_, err := f.svc.LogIn(f.ctx, "laptop", "alice", "wrong")
	require.ErrorIs(t, err, ErrLoginFailed)

	_, err = f.svc.LogIn(f.ctx, "laptop", "nobody", "pw")
	require.ErrorIs(t, err, ErrNotFound)

	got, err := f.svc.LogIn(f.ctx, "laptop", "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, id, got)

	require.NoError(t, f.svc.LogOut(f.ctx, "laptop"))
	_, err = f.svc.UserFromSession(f.ctx, "laptop")
	require.ErrorIs(t, err, ErrNotLoggedIn)

	// Other sessions are untouched and repeated logouts are harmless.
	_, err = f.svc.UserFromSession(f.ctx, "session-alice")
	require.NoError(t, err)
	require.NoError(t, f.svc.LogOut(f.ctx, "laptop"))
	require.NoError(t, f.svc.LogOut(f.ctx, "never-seen"))
}

func TestChangeUsername(t *testing.T) {
	f := newFixture(t)
	alice := f.signUp(t, "alice")
	f.signUp(t, "bob")

	require.ErrorIs(t, f.svc.ChangeUsername(f.ctx, alice, "bob"), ErrUserExists)
	require.NoError(t, f.svc.ChangeUsername(f.ctx, alice, "alice"))
	require.NoError(t, f.svc.ChangeUsername(f.ctx, alice, "alicia"))

	name, err := f.svc.Username(f.ctx, alice)
	require.NoError(t, err)
	require.Equal(t, "alicia", name)

	_, err = f.svc.LogIn(f.ctx, "s", "alice", "pw")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.LogIn(f.ctx, "s", "alicia", "pw")
	require.NoError(t, err)

	// The old name is free again.
	f.signUp(t, "alice")
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	alice := f.signUp(t, "alice")

	require.ErrorIs(t, f.svc.ChangePassword(f.ctx, alice, "wrong", "new"), ErrLoginFailed)
	require.ErrorIs(t, f.svc.ChangePassword(f.ctx, alice, "pw", ""), ErrInvalidInput)
	require.NoError(t, f.svc.ChangePassword(f.ctx, alice, "pw", "new"))

	_, err := f.svc.LogIn(f.ctx, "s", "alice", "pw")
	require.ErrorIs(t, err, ErrLoginFailed)
	_, err = f.svc.LogIn(f.ctx, "s", "alice", "new")
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	alice := f.signUp(t, "alice")

	require.NoError(t, f.svc.DeleteUser(f.ctx, alice))
	require.ErrorIs(t, f.svc.DeleteUser(f.ctx, alice), ErrNotFound)

	_, err := f.svc.UserFromSession(f.ctx, "session-alice")
	require.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = f.svc.CreateJournal(f.ctx, alice, "Books")
	require.ErrorIs(t, err, ErrNotFound)

	f.signUp(t, "alice")
}

func TestPasswordTooLong(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("p", 73)

	_, err := f.svc.SignUp(f.ctx, "s", "alice", long, long)
	require.ErrorIs(t, err, ErrInvalidInput)

	bob := f.signUp(t, "bob")
	require.ErrorIs(t, f.svc.ChangePassword(f.ctx, bob, "pw", long), ErrInvalidInput)
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/credential"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/aevon-lab/ledgerbook/internal/user"
	"github.com/google/uuid"
)

// SignUp creates a user and logs session in as them. The two appends are
// separate commits; if the login fails the user still exists, logged out.
func (s *Service) SignUp(ctx context.Context, session, username, password, confirm string) (uuid.UUID, error) {
	username, ok := cleanName(username)
	if !ok || password == "" {
		return uuid.Nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if password != confirm {
		return uuid.Nil, ErrPasswordMismatch
	}

	unlock := s.locks.Lock(usernameLock(username))
	defer unlock()

	if err := s.usernameFree(ctx, username, uuid.Nil); err != nil {
		return uuid.Nil, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	if _, err := user.Append(ctx, s.store, id, event.UserCreated{Username: username, HashedPassword: hash}, storage.NoStream); err != nil {
		return uuid.Nil, err
	}
	slog.Info("[Ledger] User created", "user_id", id)

	if session != "" {
		if _, err := user.Append(ctx, s.store, id, event.UserLoggedIn{SessionID: session}, 1); err != nil {
			return id, err
		}
	}
	return id, nil
}

// LogIn authenticates username and logs session in.
func (s *Service) LogIn(ctx context.Context, session, username, password string) (uuid.UUID, error) {
	if session == "" {
		return uuid.Nil, fmt.Errorf("%w: session is required", ErrInvalidInput)
	}

	id, err := user.ResolveID(ctx, s.store, username)
	if err != nil {
		return uuid.Nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	ok, err := user.Authenticate(ctx, s.store, s.hasher, session, id, password)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		slog.Warn("[Ledger] Login rejected", "user_id", id)
		return uuid.Nil, ErrLoginFailed
	}
	return id, nil
}

// LogOut ends session. Unknown or already ended sessions are not an error.
func (s *Service) LogOut(ctx context.Context, session string) error {
	id, err := user.FromSession(ctx, s.store, session)
	if errors.Is(err, user.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	u, err := user.Build(ctx, s.store, id, user.SessionTypes())
	if err != nil {
		return err
	}
	if !u.IsAuthenticated(session) {
		return nil
	}
	_, err = user.Append(ctx, s.store, id, event.UserLoggedOut{SessionID: session}, u.Version)
	return err
}

// UserFromSession returns the user session is logged in as.
func (s *Service) UserFromSession(ctx context.Context, session string) (uuid.UUID, error) {
	id, err := user.FromSession(ctx, s.store, session)
	if errors.Is(err, user.ErrNotFound) {
		return uuid.Nil, ErrNotLoggedIn
	}
	return id, err
}

// Username returns the caller's current username.
func (s *Service) Username(ctx context.Context, caller uuid.UUID) (string, error) {
	return user.Username(ctx, s.store, caller)
}

// ChangeUsername renames caller. Renaming to the current name is a no-op.
func (s *Service) ChangeUsername(ctx context.Context, caller uuid.UUID, username string) error {
	username, ok := cleanName(username)
	if !ok {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	unlock := s.locks.LockAll(caller, usernameLock(username))
	defer unlock()

	u, err := user.Load(ctx, s.store, caller, user.ProfileTypes())
	if err != nil {
		return err
	}
	if u.Username == username {
		return nil
	}
	if err := s.usernameFree(ctx, username, caller); err != nil {
		return err
	}

	_, err = user.Append(ctx, s.store, caller, event.UsernameUpdated{Username: username}, u.Version)
	return err
}

// ChangePassword replaces caller's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, caller uuid.UUID, current, next string) error {
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(caller)
	defer unlock()

	u, err := user.Load(ctx, s.store, caller, user.ProfileTypes())
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(u.CredentialHash, current); err != nil {
		if errors.Is(err, credential.ErrMismatch) {
			return ErrLoginFailed
		}
		return err
	}

	hash, err := s.hashPassword(next)
	if err != nil {
		return err
	}
	_, err = user.Append(ctx, s.store, caller, event.UserPasswordUpdated{HashedPassword: hash}, u.Version)
	return err
}

// DeleteUser tombstones caller. The username becomes free again.
func (s *Service) DeleteUser(ctx context.Context, caller uuid.UUID) error {
	unlock := s.locks.Lock(caller)
	defer unlock()

	u, err := user.Load(ctx, s.store, caller, user.ProfileTypes())
	if err != nil {
		return err
	}
	if _, err := user.Append(ctx, s.store, caller, event.UserDeleted{}, u.Version); err != nil {
		return err
	}
	slog.Info("[Ledger] User deleted", "user_id", caller)
	return nil
}

// usernameFree fails with ErrUserExists if username belongs to anyone but self.
func (s *Service) usernameFree(ctx context.Context, username string, self uuid.UUID) error {
	owner, err := user.ResolveID(ctx, s.store, username)
	if errors.Is(err, user.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != self {
		return fmt.Errorf("%w: %q", ErrUserExists, username)
	}
	return nil
}

package ledger

import (
	"errors"
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
)

var (
	// ErrNotFound covers unknown users, usernames and journals, and deleted
	// journals. It matches user.ErrNotFound and journal.ErrNotFound.
	ErrNotFound = storage.ErrNotFound

	// ErrTypeMismatch is returned when a stored payload narrows to the wrong
	// aggregate kind during replay.
	ErrTypeMismatch = event.ErrTypeMismatch

	// ErrVersionConflict is returned when another writer appended to the
	// aggregate between replay and commit. Callers may retry the command.
	ErrVersionConflict = storage.ErrVersionConflict

	ErrInvalidInput     = errors.New("invalid input")
	ErrNoInvitation     = errors.New("no pending invitation for journal")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrLoginFailed      = errors.New("login failed")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrUserExists       = errors.New("username already taken")
	ErrNotOwner         = errors.New("only the journal owner may do this")
	ErrAccountExists    = errors.New("account already exists")
	ErrUnknownAccount   = errors.New("unknown account")
	ErrAlreadyMember    = errors.New("user already belongs to journal")
)

// PermissionError is returned when a caller lacks capabilities on a journal.
// Required holds the bits that were missing.
type PermissionError struct {
	Required event.Permissions
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: requires %s", e.Required)
}

// BalanceMismatchError is returned for entries whose updates do not sum to zero.
type BalanceMismatchError struct {
	Attempted []event.BalanceUpdate
}

func (e *BalanceMismatchError) Error() string {
	var total int64
	for _, u := range e.Attempted {
		total += u.ChangedBy
	}
	return fmt.Sprintf("balance mismatch: %d updates net to %d cents", len(e.Attempted), total)
}

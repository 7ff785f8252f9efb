// Package ledger runs commands against users and journals: it replays the
// aggregates a command needs, checks journal permissions and the double-entry
// rule, and appends at most one event per aggregate touched.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aevon-lab/ledgerbook/internal/core/partition"
	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/credential"
	"github.com/google/uuid"
)

// usernameSpace namespaces the lock ids derived from usernames.
var usernameSpace = uuid.MustParse("3b0f6a52-9a4e-4f4c-8d0e-7a61c2b5e7d4")

// Service executes ledger commands.
//
// Every command that appends holds the lock stripes of the aggregates it
// appends to, and appends at the version it replayed. Within one process
// the locks serialize commands; across processes the expected version turns
// a lost update into ErrVersionConflict.
type Service struct {
	store  storage.EventStore
	hasher credential.Hasher
	locks  *partition.Locks
}

// NewService creates a ledger service. A nil locks uses the default stripe count.
func NewService(store storage.EventStore, hasher credential.Hasher, locks *partition.Locks) *Service {
	if locks == nil {
		locks = partition.NewLocks(partition.DefaultCount)
	}
	return &Service{
		store:  store,
		hasher: hasher,
		locks:  locks,
	}
}

// Ping reports whether the event store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// usernameLock derives a stable lock id for a username so concurrent signups
// and renames claiming the same name serialize.
func usernameLock(username string) uuid.UUID {
	return uuid.NewSHA1(usernameSpace, []byte(username))
}

func cleanName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	return name, name != ""
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, credential.ErrTooLong) {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return hash, err
}

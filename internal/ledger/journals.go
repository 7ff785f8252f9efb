package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/aevon-lab/ledgerbook/internal/journal"
	"github.com/aevon-lab/ledgerbook/internal/user"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds the journal replays AssociatedJournals runs at once.
const maxConcurrentLoads = 8

// AssociatedJournal is a journal the caller owns or has joined.
type AssociatedJournal struct {
	ID          uuid.UUID
	Name        string
	Owner       uuid.UUID
	Owned       bool
	Permissions event.Permissions
}

// RecordedTransaction is a committed entry with its commit time.
type RecordedTransaction struct {
	Transaction event.Transaction
	Timestamp   time.Time
}

// access loads the caller's memberships and the journal, then runs the
// permission gate for required. Commands that append hold both the
// journal's and the caller's lock stripes around it.
func (s *Service) access(ctx context.Context, caller, journalID uuid.UUID, types []event.Type, required event.Permissions) (user.State, journal.State, error) {
	u, err := user.Load(ctx, s.store, caller, user.MembershipTypes())
	if err != nil {
		return user.State{}, journal.State{}, err
	}
	j, err := journal.Load(ctx, s.store, journalID, types)
	if err != nil {
		return user.State{}, journal.State{}, err
	}
	if err := Authorize(u, j, required); err != nil {
		return user.State{}, journal.State{}, err
	}
	return u, j, nil
}

// CreateJournal creates a journal owned by caller. The journal's first event
// is committed before the caller's ownership event.
func (s *Service) CreateJournal(ctx context.Context, caller uuid.UUID, name string) (uuid.UUID, error) {
	name, ok := cleanName(name)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: journal name is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(caller)
	defer unlock()

	u, err := user.Load(ctx, s.store, caller, user.MembershipTypes())
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	if _, err := journal.Append(ctx, s.store, id, event.JournalCreated{Name: name, Owner: caller}, storage.NoStream); err != nil {
		return uuid.Nil, err
	}
	if _, err := user.Append(ctx, s.store, caller, event.UserCreatedJournal{ID: id}, u.Version); err != nil {
		slog.Error("[Ledger] Journal created without owner link", "journal_id", id, "user_id", caller, "error", err)
		return uuid.Nil, err
	}

	slog.Info("[Ledger] Journal created", "journal_id", id, "user_id", caller)
	return id, nil
}

// RenameJournal renames a journal. Only the owner may rename.
func (s *Service) RenameJournal(ctx context.Context, caller, journalID uuid.UUID, name string) error {
	name, ok := cleanName(name)
	if !ok {
		return fmt.Errorf("%w: journal name is required", ErrInvalidInput)
	}

	unlock := s.locks.LockAll(journalID, caller)
	defer unlock()

	j, err := journal.Load(ctx, s.store, journalID, journal.HeaderTypes())
	if err != nil {
		return err
	}
	if j.Owner != caller {
		return ErrNotOwner
	}
	_, err = journal.Append(ctx, s.store, journalID, event.JournalRenamed{Name: name}, j.Version)
	return err
}

// DeleteJournal tombstones a journal. Requires DELETE.
func (s *Service) DeleteJournal(ctx context.Context, caller, journalID uuid.UUID) error {
	unlock := s.locks.LockAll(journalID, caller)
	defer unlock()

	_, j, err := s.access(ctx, caller, journalID, journal.HeaderTypes(), event.PermDelete)
	if err != nil {
		return err
	}
	if _, err := journal.Append(ctx, s.store, journalID, event.JournalDeleted{}, j.Version); err != nil {
		return err
	}
	slog.Info("[Ledger] Journal deleted", "journal_id", journalID, "user_id", caller)
	return nil
}

// AddAccount opens an account at a zero balance. Requires ADDACCOUNT.
// Existing names are rejected rather than reset.
func (s *Service) AddAccount(ctx context.Context, caller, journalID uuid.UUID, name string) error {
	name, ok := cleanName(name)
	if !ok {
		return fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}

	unlock := s.locks.LockAll(journalID, caller)
	defer unlock()

	_, j, err := s.access(ctx, caller, journalID, journal.LedgerTypes(), event.PermAddAccount)
	if err != nil {
		return err
	}
	if j.HasAccount(name) {
		return fmt.Errorf("%w: %q", ErrAccountExists, name)
	}
	_, err = journal.Append(ctx, s.store, journalID, event.JournalAccountCreated{AccountName: name}, j.Version)
	return err
}

// DeleteAccount closes an account whatever its balance. Requires ADDACCOUNT.
func (s *Service) DeleteAccount(ctx context.Context, caller, journalID uuid.UUID, name string) error {
	unlock := s.locks.LockAll(journalID, caller)
	defer unlock()

	_, j, err := s.access(ctx, caller, journalID, journal.LedgerTypes(), event.PermAddAccount)
	if err != nil {
		return err
	}
	if !j.HasAccount(name) {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, name)
	}
	_, err = journal.Append(ctx, s.store, journalID, event.JournalAccountDeleted{AccountName: name}, j.Version)
	return err
}

// Transact records one balanced entry. Requires APPENDTRANSACTION.
// names, added and removed are parallel; amounts are whole cents.
func (s *Service) Transact(ctx context.Context, caller, journalID uuid.UUID, names, added, removed []string) error {
	unlock := s.locks.LockAll(journalID, caller)
	defer unlock()

	_, j, err := s.access(ctx, caller, journalID, journal.LedgerTypes(), event.PermAppendTransaction)
	if err != nil {
		return err
	}

	tx, err := BuildTransaction(caller, names, added, removed)
	if err != nil {
		var mismatch *BalanceMismatchError
		if errors.As(err, &mismatch) {
			slog.Warn("[Ledger] Unbalanced entry rejected",
				"journal_id", journalID,
				"user_id", caller,
				"updates", len(mismatch.Attempted))
		}
		return err
	}
	for _, u := range tx.Updates {
		if !j.HasAccount(u.AccountName) {
			return fmt.Errorf("%w: %q", ErrUnknownAccount, u.AccountName)
		}
	}
	if err := CheckBalances(j.Accounts, tx); err != nil {
		return err
	}

	if _, err := journal.Append(ctx, s.store, journalID, event.JournalAddedEntry{Transaction: tx}, j.Version); err != nil {
		return err
	}
	slog.Info("[Ledger] Entry recorded", "journal_id", journalID, "user_id", caller, "updates", len(tx.Updates))
	return nil
}

// Accounts returns the chart of accounts by name. Requires READ.
func (s *Service) Accounts(ctx context.Context, caller, journalID uuid.UUID) ([]journal.Account, error) {
	_, j, err := s.access(ctx, caller, journalID, journal.LedgerTypes(), event.PermRead)
	if err != nil {
		return nil, err
	}
	return j.SortedAccounts(), nil
}

// Transactions returns the journal's entries in commit order. Requires READ.
func (s *Service) Transactions(ctx context.Context, caller, journalID uuid.UUID) ([]RecordedTransaction, error) {
	_, j, err := s.access(ctx, caller, journalID, journal.LedgerTypes(), event.PermRead)
	if err != nil {
		return nil, err
	}
	out := make([]RecordedTransaction, len(j.Transactions))
	for i, e := range j.Transactions {
		out[i] = RecordedTransaction{Transaction: e.Transaction, Timestamp: e.RecordedAt}
	}
	return out, nil
}

// AssociatedJournals lists the live journals caller owns or has joined,
// ordered by name.
func (s *Service) AssociatedJournals(ctx context.Context, caller uuid.UUID) ([]AssociatedJournal, error) {
	u, err := user.Load(ctx, s.store, caller, user.MembershipTypes())
	if err != nil {
		return nil, err
	}

	var candidates []AssociatedJournal
	for id := range u.OwnedJournals {
		candidates = append(candidates, AssociatedJournal{ID: id, Owner: caller, Owned: true, Permissions: event.PermAll})
	}
	for id, info := range u.Accepted {
		candidates = append(candidates, AssociatedJournal{ID: id, Owner: info.Owner, Permissions: info.Permissions})
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	headers, err := s.loadHeaders(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]AssociatedJournal, 0, len(candidates))
	for i, c := range candidates {
		if headers[i].Exists() {
			c.Name = headers[i].Name
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// loadHeaders replays the header projection of each journal concurrently.
// The result is index-aligned with ids.
func (s *Service) loadHeaders(ctx context.Context, ids []uuid.UUID) ([]journal.State, error) {
	headers := make([]journal.State, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			j, err := journal.Build(gctx, s.store, id, journal.HeaderTypes())
			if err != nil {
				return err
			}
			headers[i] = j
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return headers, nil
}

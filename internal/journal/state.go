// Package journal rebuilds journal aggregates: the chart of accounts, the
// running balances and the transaction history.
package journal

import (
	"fmt"
	"sort"
	"time"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
)

// ErrNotFound is returned for journals that were never created or are deleted.
var ErrNotFound = fmt.Errorf("journal %w", storage.ErrNotFound)

// Entry is a recorded transaction and the time it was committed.
type Entry struct {
	Transaction event.Transaction
	RecordedAt  time.Time
}

// Account is one line of the chart of accounts.
type Account struct {
	Name    string
	Balance int64
}

// State is a journal aggregate folded from its events.
type State struct {
	ID           uuid.UUID
	Version      int64
	Created      bool
	Name         string
	Owner        uuid.UUID
	Accounts     map[string]int64
	Transactions []Entry
	Deleted      bool
}

// New returns the empty state for id.
func New(id uuid.UUID) State {
	return State{
		ID:       id,
		Accounts: make(map[string]int64),
	}
}

// FromEvents folds events, in order, into a fresh state for id.
func FromEvents(id uuid.UUID, events []event.JournalEvent) State {
	s := New(id)
	for _, e := range events {
		s.Apply(e, time.Time{})
	}
	return s
}

// Apply folds a single event committed at at into s. Every variant is handled.
//
// The fold records history as written: re-creating an account resets it to
// zero, an entry naming an unknown account creates that account, and the
// tombstone does not stop later events from applying. Commands guard against
// producing such histories.
func (s *State) Apply(e event.JournalEvent, at time.Time) {
	switch e := e.(type) {
	case event.JournalCreated:
		s.Created = true
		s.Name = e.Name
		s.Owner = e.Owner
	case event.JournalRenamed:
		s.Name = e.Name
	case event.JournalAccountCreated:
		s.Accounts[e.AccountName] = 0
	case event.JournalAccountDeleted:
		delete(s.Accounts, e.AccountName)
	case event.JournalAddedEntry:
		for _, u := range e.Transaction.Updates {
			s.Accounts[u.AccountName] += u.ChangedBy
		}
		s.Transactions = append(s.Transactions, Entry{Transaction: e.Transaction, RecordedAt: at})
	case event.JournalDeleted:
		s.Deleted = true
	}
}

// Exists reports whether the journal was created and not deleted.
func (s State) Exists() bool {
	return s.Created && !s.Deleted
}

// HasAccount reports whether name is in the chart of accounts.
func (s State) HasAccount(name string) bool {
	_, ok := s.Accounts[name]
	return ok
}

// SortedAccounts returns the chart of accounts ordered by name.
func (s State) SortedAccounts() []Account {
	out := make([]Account, 0, len(s.Accounts))
	for name, balance := range s.Accounts {
		out = append(out, Account{Name: name, Balance: balance})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

package event

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// BalanceUpdate is one signed line of a transaction, in cents.
type BalanceUpdate struct {
	AccountName string `json:"account_name"`
	ChangedBy   int64  `json:"changed_by"`
}

// Transaction is a balanced multi-account entry. Sum of ChangedBy is zero
// for every transaction that reaches the log.
type Transaction struct {
	Author  uuid.UUID       `json:"author"`
	Updates []BalanceUpdate `json:"updates"`
}

// Net returns the signed sum of all updates.
func (t Transaction) Net() int64 {
	var total int64
	for _, u := range t.Updates {
		total += u.ChangedBy
	}
	return total
}

// JournalEvent is the closed set of payloads recorded against a journal.
//
//sumtype:decl
type JournalEvent interface {
	EventType() Type
	isJournalEvent()
}

type JournalCreated struct {
	Name  string    `json:"name"`
	Owner uuid.UUID `json:"owner"`
}

type JournalRenamed struct {
	Name string `json:"name"`
}

type JournalAccountCreated struct {
	AccountName string `json:"account_name"`
}

type JournalAccountDeleted struct {
	AccountName string `json:"account_name"`
}

type JournalAddedEntry struct {
	Transaction Transaction `json:"transaction"`
}

type JournalDeleted struct{}

func (JournalCreated) EventType() Type        { return TypeJournalCreated }
func (JournalRenamed) EventType() Type        { return TypeJournalRenamed }
func (JournalAccountCreated) EventType() Type { return TypeJournalAccountCreated }
func (JournalAccountDeleted) EventType() Type { return TypeJournalAccountDeleted }
func (JournalAddedEntry) EventType() Type     { return TypeJournalAddedEntry }
func (JournalDeleted) EventType() Type        { return TypeJournalDeleted }

func (JournalCreated) isJournalEvent()        {}
func (JournalRenamed) isJournalEvent()        {}
func (JournalAccountCreated) isJournalEvent() {}
func (JournalAccountDeleted) isJournalEvent() {}
func (JournalAddedEntry) isJournalEvent()     {}
func (JournalDeleted) isJournalEvent()        {}

func decodeJournalEvent(t Type, data json.RawMessage) (JournalEvent, error) {
	switch t {
	case TypeJournalCreated:
		return decodeAs[JournalCreated](data)
	case TypeJournalRenamed:
		return decodeAs[JournalRenamed](data)
	case TypeJournalAccountCreated:
		return decodeAs[JournalAccountCreated](data)
	case TypeJournalAccountDeleted:
		return decodeAs[JournalAccountDeleted](data)
	case TypeJournalAddedEntry:
		return decodeAs[JournalAddedEntry](data)
	case TypeJournalDeleted:
		return JournalDeleted{}, nil
	}
	return nil, fmt.Errorf("%w: unknown journal event %s", ErrTypeMismatch, t)
}

package event

import "fmt"

// AggregateKind identifies which aggregate a stored event belongs to.
type AggregateKind int16

const (
	KindUser    AggregateKind = 1
	KindJournal AggregateKind = 2
)

func (k AggregateKind) String() string {
	switch k {
	case KindUser:
		return "User"
	case KindJournal:
		return "Journal"
	default:
		return fmt.Sprintf("AggregateKind(%d)", int16(k))
	}
}

// Valid reports whether k is one of the known aggregate kinds.
func (k AggregateKind) Valid() bool {
	return k == KindUser || k == KindJournal
}

// Type is the numeric event type code persisted alongside every event.
// Codes are partitioned by range so one log can hold every aggregate kind:
// 1-99 are user events, 100-199 are journal events.
type Type int16

// User events (1-99).
const (
	TypeUserCreated               Type = 1
	TypeUsernameUpdated           Type = 2
	TypeUserPasswordUpdated       Type = 3
	TypeUserLoggedIn              Type = 4
	TypeUserLoggedOut             Type = 5
	TypeUserCreatedJournal        Type = 6
	TypeUserInvitedToJournal      Type = 7
	TypeUserAcceptedJournalInvite Type = 8
	TypeUserDeclinedJournalInvite Type = 9
	TypeUserRemovedFromJournal    Type = 10
	TypeUserDeleted               Type = 11
)

// Journal events (100-199).
const (
	TypeJournalCreated        Type = 100
	TypeJournalRenamed        Type = 101
	TypeJournalAccountCreated Type = 102
	TypeJournalAccountDeleted Type = 103
	TypeJournalAddedEntry     Type = 104
	TypeJournalDeleted        Type = 105
)

const (
	userRangeStart    Type = 1
	userRangeEnd      Type = 99
	journalRangeStart Type = 100
	journalRangeEnd   Type = 199
)

// Kind returns the aggregate kind that owns the code's range, or zero when
// the code falls outside every reserved range.
func (t Type) Kind() AggregateKind {
	switch {
	case t >= userRangeStart && t <= userRangeEnd:
		return KindUser
	case t >= journalRangeStart && t <= journalRangeEnd:
		return KindJournal
	default:
		return 0
	}
}

var typeNames = map[Type]string{
	TypeUserCreated:               "Created",
	TypeUsernameUpdated:           "UsernameUpdated",
	TypeUserPasswordUpdated:       "PasswordUpdated",
	TypeUserLoggedIn:              "LoggedIn",
	TypeUserLoggedOut:             "LoggedOut",
	TypeUserCreatedJournal:        "CreatedJournal",
	TypeUserInvitedToJournal:      "InvitedToJournal",
	TypeUserAcceptedJournalInvite: "AcceptedJournalInvite",
	TypeUserDeclinedJournalInvite: "DeclinedJournalInvite",
	TypeUserRemovedFromJournal:    "RemovedFromJournal",
	TypeUserDeleted:               "Deleted",

	TypeJournalCreated:        "Created",
	TypeJournalRenamed:        "Renamed",
	TypeJournalAccountCreated: "CreatedAccount",
	TypeJournalAccountDeleted: "DeletedAccount",
	TypeJournalAddedEntry:     "AddedEntry",
	TypeJournalDeleted:        "Deleted",
}

// Name is the variant name used in the JSON envelope. Names are only unique
// within one aggregate kind.
func (t Type) Name() string {
	return typeNames[t]
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return fmt.Sprintf("%s.%s", t.Kind(), name)
	}
	return fmt.Sprintf("Type(%d)", int16(t))
}

// UserTypes lists every user event type in code order.
func UserTypes() []Type {
	return []Type{
		TypeUserCreated, TypeUsernameUpdated, TypeUserPasswordUpdated, TypeUserLoggedIn, TypeUserLoggedOut,
		TypeUserCreatedJournal, TypeUserInvitedToJournal, TypeUserAcceptedJournalInvite,
		TypeUserDeclinedJournalInvite, TypeUserRemovedFromJournal, TypeUserDeleted,
	}
}

// JournalTypes lists every journal event type in code order.
func JournalTypes() []Type {
	return []Type{
		TypeJournalCreated, TypeJournalRenamed, TypeJournalAccountCreated,
		TypeJournalAccountDeleted, TypeJournalAddedEntry, TypeJournalDeleted,
	}
}

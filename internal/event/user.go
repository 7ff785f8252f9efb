package event

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UserEvent is the closed set of payloads recorded against a user aggregate.
// The unexported marker keeps the set sealed to this package.
//
//sumtype:decl
type UserEvent interface {
	EventType() Type
	isUserEvent()
}

type UserCreated struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
}

type UsernameUpdated struct {
	Username string `json:"username"`
}

type UserPasswordUpdated struct {
	HashedPassword string `json:"hashed_password"`
}

type UserLoggedIn struct {
	SessionID string `json:"session_id"`
}

type UserLoggedOut struct {
	SessionID string `json:"session_id"`
}

type UserCreatedJournal struct {
	ID uuid.UUID `json:"id"`
}

// UserInvitedToJournal records a pending invitation together with the
// capabilities it will grant once accepted.
type UserInvitedToJournal struct {
	ID           uuid.UUID   `json:"id"`
	Permissions  Permissions `json:"permissions"`
	InvitingUser uuid.UUID   `json:"inviting_user"`
	Owner        uuid.UUID   `json:"owner"`
}

type UserAcceptedJournalInvite struct {
	ID uuid.UUID `json:"id"`
}

type UserDeclinedJournalInvite struct {
	ID uuid.UUID `json:"id"`
}

type UserRemovedFromJournal struct {
	ID uuid.UUID `json:"id"`
}

type UserDeleted struct{}

func (UserCreated) EventType() Type               { return TypeUserCreated }
func (UsernameUpdated) EventType() Type           { return TypeUsernameUpdated }
func (UserPasswordUpdated) EventType() Type       { return TypeUserPasswordUpdated }
func (UserLoggedIn) EventType() Type              { return TypeUserLoggedIn }
func (UserLoggedOut) EventType() Type             { return TypeUserLoggedOut }
func (UserCreatedJournal) EventType() Type        { return TypeUserCreatedJournal }
func (UserInvitedToJournal) EventType() Type      { return TypeUserInvitedToJournal }
func (UserAcceptedJournalInvite) EventType() Type { return TypeUserAcceptedJournalInvite }
func (UserDeclinedJournalInvite) EventType() Type { return TypeUserDeclinedJournalInvite }
func (UserRemovedFromJournal) EventType() Type    { return TypeUserRemovedFromJournal }
func (UserDeleted) EventType() Type               { return TypeUserDeleted }

func (UserCreated) isUserEvent()               {}
func (UsernameUpdated) isUserEvent()           {}
func (UserPasswordUpdated) isUserEvent()       {}
func (UserLoggedIn) isUserEvent()              {}
func (UserLoggedOut) isUserEvent()             {}
func (UserCreatedJournal) isUserEvent()        {}
func (UserInvitedToJournal) isUserEvent()      {}
func (UserAcceptedJournalInvite) isUserEvent() {}
func (UserDeclinedJournalInvite) isUserEvent() {}
func (UserRemovedFromJournal) isUserEvent()    {}
func (UserDeleted) isUserEvent()               {}

// decodeUserEvent unmarshals data into the variant registered for t.
func decodeUserEvent(t Type, data json.RawMessage) (UserEvent, error) {
	switch t {
	case TypeUserCreated:
		return decodeAs[UserCreated](data)
	case TypeUsernameUpdated:
		return decodeAs[UsernameUpdated](data)
	case TypeUserPasswordUpdated:
		return decodeAs[UserPasswordUpdated](data)
	case TypeUserLoggedIn:
		return decodeAs[UserLoggedIn](data)
	case TypeUserLoggedOut:
		return decodeAs[UserLoggedOut](data)
	case TypeUserCreatedJournal:
		return decodeAs[UserCreatedJournal](data)
	case TypeUserInvitedToJournal:
		return decodeAs[UserInvitedToJournal](data)
	case TypeUserAcceptedJournalInvite:
		return decodeAs[UserAcceptedJournalInvite](data)
	case TypeUserDeclinedJournalInvite:
		return decodeAs[UserDeclinedJournalInvite](data)
	case TypeUserRemovedFromJournal:
		return decodeAs[UserRemovedFromJournal](data)
	case TypeUserDeleted:
		return UserDeleted{}, nil
	}
	return nil, fmt.Errorf("%w: unknown user event %s", ErrTypeMismatch, t)
}

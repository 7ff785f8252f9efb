package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrTypeMismatch is returned when a payload is narrowed to the wrong
// aggregate kind or carries a variant this build does not know.
var ErrTypeMismatch = errors.New("event type mismatch")

// DomainEvent is the tagged union wrapping every stored payload. Exactly one
// of the user or journal variants is set, selected by kind.
type DomainEvent struct {
	kind    AggregateKind
	user    UserEvent
	journal JournalEvent
}

// FromUser wraps a user event.
func FromUser(e UserEvent) DomainEvent {
	return DomainEvent{kind: KindUser, user: e}
}

// FromJournal wraps a journal event.
func FromJournal(e JournalEvent) DomainEvent {
	return DomainEvent{kind: KindJournal, journal: e}
}

func (d DomainEvent) Kind() AggregateKind { return d.kind }

// Type returns the event type code of the wrapped variant.
func (d DomainEvent) Type() Type {
	switch d.kind {
	case KindUser:
		return d.user.EventType()
	case KindJournal:
		return d.journal.EventType()
	}
	return 0
}

// AsUserEvent narrows the envelope to a user event.
func (d DomainEvent) AsUserEvent() (UserEvent, error) {
	if d.kind != KindUser || d.user == nil {
		return nil, fmt.Errorf("%w: expected User event, got %s", ErrTypeMismatch, d.kind)
	}
	return d.user, nil
}

// AsJournalEvent narrows the envelope to a journal event.
func (d DomainEvent) AsJournalEvent() (JournalEvent, error) {
	if d.kind != KindJournal || d.journal == nil {
		return nil, fmt.Errorf("%w: expected Journal event, got %s", ErrTypeMismatch, d.kind)
	}
	return d.journal, nil
}

type wireEnvelope struct {
	Payload string          `json:"payload"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (d DomainEvent) MarshalJSON() ([]byte, error) {
	var inner any
	switch d.kind {
	case KindUser:
		inner = d.user
	case KindJournal:
		inner = d.journal
	}
	if inner == nil {
		return nil, fmt.Errorf("%w: empty envelope", ErrTypeMismatch)
	}

	data, err := json.Marshal(inner)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", d.Type(), err)
	}
	if string(data) == "{}" {
		data = nil
	}

	return json.Marshal(wireEnvelope{
		Payload: d.kind.String(),
		Type:    d.Type().Name(),
		Data:    data,
	})
}

func (d *DomainEvent) UnmarshalJSON(b []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	switch w.Payload {
	case KindUser.String():
		t, ok := typeByName(KindUser, w.Type)
		if !ok {
			return fmt.Errorf("%w: unknown user event %q", ErrTypeMismatch, w.Type)
		}
		e, err := decodeUserEvent(t, w.Data)
		if err != nil {
			return err
		}
		*d = FromUser(e)
	case KindJournal.String():
		t, ok := typeByName(KindJournal, w.Type)
		if !ok {
			return fmt.Errorf("%w: unknown journal event %q", ErrTypeMismatch, w.Type)
		}
		e, err := decodeJournalEvent(t, w.Data)
		if err != nil {
			return err
		}
		*d = FromJournal(e)
	default:
		return fmt.Errorf("%w: unknown payload tag %q", ErrTypeMismatch, w.Payload)
	}
	return nil
}

func typeByName(kind AggregateKind, name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name && t.Kind() == kind {
			return t, true
		}
	}
	return 0, false
}

func decodeAs[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return v, nil
}

// Record is one committed row of the event log.
type Record struct {
	ID          int64
	AggregateID uuid.UUID
	Kind        AggregateKind
	Type        Type
	Version     int64
	Payload     []byte
	CreatedAt   time.Time
}

// Decode parses the payload and checks it agrees with the row's kind and type.
func (r Record) Decode() (DomainEvent, error) {
	var d DomainEvent
	if err := json.Unmarshal(r.Payload, &d); err != nil {
		return DomainEvent{}, err
	}
	if d.Kind() != r.Kind || d.Type() != r.Type {
		return DomainEvent{}, fmt.Errorf("%w: event %d stored as %s but payload is %s",
			ErrTypeMismatch, r.ID, r.Type, d.Type())
	}
	return d, nil
}

// Stream is the filtered, ordered slice of one aggregate's history plus the
// aggregate's head version at read time.
type Stream struct {
	Records []Record
	Version int64
}

// Package event defines the closed event taxonomy shared by every aggregate:
// aggregate kinds, the range-partitioned event type codes, the typed payload
// variants for users and journals, and the DomainEvent envelope that every
// stored payload is narrowed through before it is folded.
package event

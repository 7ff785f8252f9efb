package event

import (
	"math/bits"
	"strings"
)

// Permissions is the capability bitset granted to a journal tenant.
type Permissions uint16

const (
	PermRead Permissions = 1 << iota
	PermAddAccount
	PermAppendTransaction
	PermInvite
	PermDelete
)

// PermAll is every defined capability. Owners implicitly hold it.
const PermAll = PermRead | PermAddAccount | PermAppendTransaction | PermInvite | PermDelete

var permissionNames = []struct {
	bit  Permissions
	name string
}{
	{PermRead, "READ"},
	{PermAddAccount, "ADDACCOUNT"},
	{PermAppendTransaction, "APPENDTRANSACTION"},
	{PermInvite, "INVITE"},
	{PermDelete, "DELETE"},
}

// Contains reports whether p holds every bit in required.
func (p Permissions) Contains(required Permissions) bool {
	return p&required == required
}

// Missing returns the bits of required that p does not hold.
func (p Permissions) Missing(required Permissions) Permissions {
	return required &^ p
}

// Valid reports whether p only uses defined bits.
func (p Permissions) Valid() bool {
	return p&^PermAll == 0
}

// Count returns the number of capabilities set.
func (p Permissions) Count() int {
	return bits.OnesCount16(uint16(p))
}

// Names lists the defined capabilities in p, lowest bit first.
func (p Permissions) Names() []string {
	names := []string{}
	for _, pn := range permissionNames {
		if p&pn.bit != 0 {
			names = append(names, pn.name)
		}
	}
	return names
}

func (p Permissions) String() string {
	if p == 0 {
		return "NONE"
	}
	names := p.Names()
	if rest := p &^ PermAll; rest != 0 {
		names = append(names, "UNKNOWN")
	}
	return strings.Join(names, "|")
}

// ParsePermissions converts capability names (case-insensitive) into a bitset.
// ok is false when any name is unknown.
func ParsePermissions(names []string) (p Permissions, ok bool) {
	for _, name := range names {
		found := false
		for _, pn := range permissionNames {
			if strings.EqualFold(strings.TrimSpace(name), pn.name) {
				p |= pn.bit
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return p, true
}

package ledger

import (
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/aevon-lab/ledgerbook/internal/journal"
	"github.com/aevon-lab/ledgerbook/internal/user"
)

// Authorize lets the journal owner do anything; anyone else needs an accepted
// invite granting every bit of required.
func Authorize(caller user.State, j journal.State, required event.Permissions) error {
	if j.Owner == caller.ID {
		return nil
	}
	info, ok := caller.Tenancy(j.ID)
	if !ok {
		return &PermissionError{Required: required}
	}
	if missing := info.Permissions.Missing(required); missing != 0 {
		return &PermissionError{Required: missing}
	}
	return nil
}

// AuthorizeDelegation checks that caller may invite someone with requested.
// Owners may grant any valid set. Tenants need INVITE and may only grant bits
// they hold themselves.
func AuthorizeDelegation(caller user.State, j journal.State, requested event.Permissions) error {
	if !requested.Valid() {
		return fmt.Errorf("%w: unknown permission bits in %d", ErrInvalidInput, uint16(requested))
	}
	if j.Owner == caller.ID {
		return nil
	}
	if err := Authorize(caller, j, event.PermInvite); err != nil {
		return err
	}
	info, _ := caller.Tenancy(j.ID)
	if missing := info.Permissions.Missing(requested); missing != 0 {
		return &PermissionError{Required: missing}
	}
	return nil
}

package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/aevon-lab/ledgerbook/internal/journal"
	"github.com/aevon-lab/ledgerbook/internal/user"
	"github.com/google/uuid"
)

// Invitation is a pending invite as seen by the invitee.
type Invitation struct {
	JournalID    uuid.UUID
	JournalName  string
	Permissions  event.Permissions
	InvitingUser uuid.UUID
	Owner        uuid.UUID
}

// Invite offers inviteeUsername access to a journal with perms. Owners may
// grant anything; tenants need INVITE and can only pass on bits they hold.
func (s *Service) Invite(ctx context.Context, caller, journalID uuid.UUID, inviteeUsername string, perms event.Permissions) error {
	invitee, err := user.ResolveID(ctx, s.store, inviteeUsername)
	if err != nil {
		return err
	}

	unlock := s.locks.LockAll(invitee, caller)
	defer unlock()

	u, err := user.Load(ctx, s.store, caller, user.MembershipTypes())
	if err != nil {
		return err
	}
	j, err := journal.Load(ctx, s.store, journalID, journal.HeaderTypes())
	if err != nil {
		return err
	}
	if err := AuthorizeDelegation(u, j, perms); err != nil {
		return err
	}

	target, err := user.Load(ctx, s.store, invitee, user.MembershipTypes())
	if err != nil {
		return err
	}
	_, pending := target.PendingInvites[journalID]
	_, accepted := target.Accepted[journalID]
	if invitee == j.Owner || pending || accepted {
		return fmt.Errorf("%w: %q", ErrAlreadyMember, inviteeUsername)
	}

	_, err = user.Append(ctx, s.store, invitee, event.UserInvitedToJournal{
		ID:           journalID,
		Permissions:  perms,
		InvitingUser: caller,
		Owner:        j.Owner,
	}, target.Version)
	if err != nil {
		return err
	}

	slog.Info("[Ledger] Invitation sent",
		"journal_id", journalID,
		"user_id", caller,
		"invitee_id", invitee,
		"permissions", perms.String())
	return nil
}

// AcceptInvite joins a journal caller has a pending invite for.
func (s *Service) AcceptInvite(ctx context.Context, caller, journalID uuid.UUID) error {
	return s.answerInvite(ctx, caller, journalID, event.UserAcceptedJournalInvite{ID: journalID})
}

// DeclineInvite discards a pending invite.
func (s *Service) DeclineInvite(ctx context.Context, caller, journalID uuid.UUID) error {
	return s.answerInvite(ctx, caller, journalID, event.UserDeclinedJournalInvite{ID: journalID})
}

func (s *Service) answerInvite(ctx context.Context, caller, journalID uuid.UUID, answer event.UserEvent) error {
	unlock := s.locks.Lock(caller)
	defer unlock()

	u, err := user.Load(ctx, s.store, caller, user.MembershipTypes())
	if err != nil {
		return err
	}
	if _, ok := u.PendingInvites[journalID]; !ok {
		return fmt.Errorf("%w: %s", ErrNoInvitation, journalID)
	}
	_, err = user.Append(ctx, s.store, caller, answer, u.Version)
	return err
}

// PendingInvites lists caller's open invitations for live journals.
func (s *Service) PendingInvites(ctx context.Context, caller uuid.UUID) ([]Invitation, error) {
	u, err := user.Load(ctx, s.store, caller, user.MembershipTypes())
	if err != nil {
		return nil, err
	}

	var (
		ids   []uuid.UUID
		infos []user.TenantInfo
	)
	for id, info := range u.PendingInvites {
		ids = append(ids, id)
		infos = append(infos, info)
	}
	headers, err := s.loadHeaders(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Invitation, 0, len(ids))
	for i, id := range ids {
		if !headers[i].Exists() {
			continue
		}
		out = append(out, Invitation{
			JournalID:    id,
			JournalName:  headers[i].Name,
			Permissions:  infos[i].Permissions,
			InvitingUser: infos[i].InvitingUser,
			Owner:        infos[i].Owner,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JournalName < out[j].JournalName })
	return out, nil
}

// RemoveFromJournal revokes a tenant's access. Only the owner may remove.
func (s *Service) RemoveFromJournal(ctx context.Context, caller, journalID uuid.UUID, tenantUsername string) error {
	tenant, err := user.ResolveID(ctx, s.store, tenantUsername)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(tenant)
	defer unlock()

	j, err := journal.Load(ctx, s.store, journalID, journal.HeaderTypes())
	if err != nil {
		return err
	}
	if j.Owner != caller {
		return ErrNotOwner
	}

	t, err := user.Load(ctx, s.store, tenant, user.MembershipTypes())
	if err != nil {
		return err
	}
	if _, ok := t.Tenancy(journalID); !ok {
		return fmt.Errorf("%w: %q is not a member of %s", ErrNoInvitation, tenantUsername, journalID)
	}

	_, err = user.Append(ctx, s.store, tenant, event.UserRemovedFromJournal{ID: journalID}, t.Version)
	return err
}

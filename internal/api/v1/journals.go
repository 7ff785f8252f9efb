package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type JournalRequest struct {
	Name string `json:"name"`
}

func (r *JournalRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

type JournalResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Owner       uuid.UUID `json:"owner"`
	Owned       bool      `json:"owned"`
	Permissions []string  `json:"permissions"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type AccountRequest struct {
	Name string `json:"name"`
}

func (r *AccountRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// AccountResponse renders a balance both as integer cents and as a
// two-decimal amount.
type AccountResponse struct {
	Name         string `json:"name"`
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
}

func NewAccountResponse(name string, cents int64) AccountResponse {
	return AccountResponse{Name: name, BalanceCents: cents, Balance: FormatCents(cents)}
}

// TransactionLine is one account line of a proposed entry. Amounts are
// whole cents, sent as strings.
type TransactionLine struct {
	Account string `json:"account"`
	Added   string `json:"added"`
	Removed string `json:"removed"`
}

type TransactionRequest struct {
	Lines []TransactionLine `json:"lines"`
}

func (r *TransactionRequest) Validate() error {
	if len(r.Lines) == 0 {
		return fmt.Errorf("at least one line is required")
	}
	for i, l := range r.Lines {
		if strings.TrimSpace(l.Account) == "" {
			return fmt.Errorf("lines[%d].account is required", i)
		}
	}
	return nil
}

// Columns splits the lines into parallel account, added and removed lists.
// Blank amounts count as zero.
func (r *TransactionRequest) Columns() (names, added, removed []string) {
	for _, l := range r.Lines {
		names = append(names, strings.TrimSpace(l.Account))
		added = append(added, zeroIfBlank(l.Added))
		removed = append(removed, zeroIfBlank(l.Removed))
	}
	return names, added, removed
}

func zeroIfBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return s
}

type BalanceUpdateResponse struct {
	Account      string `json:"account"`
	ChangedCents int64  `json:"changed_cents"`
	Changed      string `json:"changed"`
}

func NewBalanceUpdates(updates []event.BalanceUpdate) []BalanceUpdateResponse {
	out := make([]BalanceUpdateResponse, len(updates))
	for i, u := range updates {
		out[i] = BalanceUpdateResponse{Account: u.AccountName, ChangedCents: u.ChangedBy, Changed: FormatCents(u.ChangedBy)}
	}
	return out
}

type TransactionResponse struct {
	Author    uuid.UUID               `json:"author"`
	Timestamp time.Time               `json:"timestamp"`
	Updates   []BalanceUpdateResponse `json:"updates"`
}

type InviteRequest struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
}

// Validate checks the invitee and converts permission names to a bitset.
func (r *InviteRequest) Validate() (event.Permissions, error) {
	if strings.TrimSpace(r.Username) == "" {
		return 0, fmt.Errorf("username is required")
	}
	if len(r.Permissions) == 0 {
		return 0, fmt.Errorf("at least one permission is required")
	}
	perms, ok := event.ParsePermissions(r.Permissions)
	if !ok {
		return 0, fmt.Errorf("unknown permission in %v", r.Permissions)
	}
	return perms, nil
}

type InvitationResponse struct {
	JournalID    uuid.UUID `json:"journal_id"`
	JournalName  string    `json:"journal_name"`
	Permissions  []string  `json:"permissions"`
	InvitingUser uuid.UUID `json:"inviting_user"`
	Owner        uuid.UUID `json:"owner"`
}

// FormatCents renders cents as a fixed two-decimal string.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Package httpapi exposes the ledger commands as a JSON API over gin.
package httpapi

import (
	"context"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/aevon-lab/ledgerbook/internal/journal"
	"github.com/aevon-lab/ledgerbook/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Ledger is the command surface the API drives. *ledger.Service implements it.
type Ledger interface {
	SignUp(ctx context.Context, session, username, password, confirm string) (uuid.UUID, error)
	LogIn(ctx context.Context, session, username, password string) (uuid.UUID, error)
	LogOut(ctx context.Context, session string) error
	UserFromSession(ctx context.Context, session string) (uuid.UUID, error)
	Username(ctx context.Context, caller uuid.UUID) (string, error)
	ChangeUsername(ctx context.Context, caller uuid.UUID, username string) error
	ChangePassword(ctx context.Context, caller uuid.UUID, current, next string) error
	DeleteUser(ctx context.Context, caller uuid.UUID) error

	CreateJournal(ctx context.Context, caller uuid.UUID, name string) (uuid.UUID, error)
	RenameJournal(ctx context.Context, caller, journalID uuid.UUID, name string) error
	DeleteJournal(ctx context.Context, caller, journalID uuid.UUID) error
	AddAccount(ctx context.Context, caller, journalID uuid.UUID, name string) error
	DeleteAccount(ctx context.Context, caller, journalID uuid.UUID, name string) error
	Transact(ctx context.Context, caller, journalID uuid.UUID, names, added, removed []string) error
	Accounts(ctx context.Context, caller, journalID uuid.UUID) ([]journal.Account, error)
	Transactions(ctx context.Context, caller, journalID uuid.UUID) ([]ledger.RecordedTransaction, error)
	AssociatedJournals(ctx context.Context, caller uuid.UUID) ([]ledger.AssociatedJournal, error)

	Invite(ctx context.Context, caller, journalID uuid.UUID, inviteeUsername string, perms event.Permissions) error
	AcceptInvite(ctx context.Context, caller, journalID uuid.UUID) error
	DeclineInvite(ctx context.Context, caller, journalID uuid.UUID) error
	PendingInvites(ctx context.Context, caller uuid.UUID) ([]ledger.Invitation, error)
	RemoveFromJournal(ctx context.Context, caller, journalID uuid.UUID, tenantUsername string) error
}

type Service struct {
	ledger           Ledger
	sessionHeader    string
	maxBodySizeBytes int
	newSession       func() string
}

func NewService(l Ledger, sessionHeader string, maxBodySizeMB int) *Service {
	if l == nil {
		panic("httpapi: ledger must not be nil")
	}
	if sessionHeader == "" {
		sessionHeader = "X-Session-Token"
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		ledger:           l,
		sessionHeader:    sessionHeader,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		newSession:       func() string { return uuid.NewString() },
	}
}

// RegisterRoutes registers the v1 API routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")

	v1.POST("/users", s.SignUpHandler)
	v1.POST("/sessions", s.LogInHandler)
	v1.DELETE("/sessions", s.LogOutHandler)

	authed := v1.Group("", s.requireSession)

	authed.GET("/me", s.ProfileHandler)
	authed.PATCH("/me", s.ChangeUsernameHandler)
	authed.PUT("/me/password", s.ChangePasswordHandler)
	authed.DELETE("/me", s.DeleteUserHandler)

	authed.GET("/journals", s.ListJournalsHandler)
	authed.POST("/journals", s.CreateJournalHandler)
	authed.PATCH("/journals/:id", s.RenameJournalHandler)
	authed.DELETE("/journals/:id", s.DeleteJournalHandler)

	authed.GET("/journals/:id/accounts", s.ListAccountsHandler)
	authed.POST("/journals/:id/accounts", s.AddAccountHandler)
	authed.DELETE("/journals/:id/accounts/:name", s.DeleteAccountHandler)

	authed.GET("/journals/:id/transactions", s.ListTransactionsHandler)
	authed.POST("/journals/:id/transactions", s.TransactHandler)

	authed.POST("/journals/:id/invites", s.InviteHandler)
	authed.DELETE("/journals/:id/members/:username", s.RemoveMemberHandler)

	authed.GET("/invites", s.ListInvitesHandler)
	authed.POST("/invites/:id/accept", s.AcceptInviteHandler)
	authed.POST("/invites/:id/decline", s.DeclineInviteHandler)
}

package httpapi

import (
	"net/http"

	v1 "github.com/aevon-lab/ledgerbook/internal/api/v1"
	httperr "github.com/aevon-lab/ledgerbook/internal/core/errors"
	"github.com/gin-gonic/gin"
)

func (s *Service) ListJournalsHandler(c *gin.Context) {
	journals, err := s.ledger.AssociatedJournals(c.Request.Context(), caller(c))
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}

	resp := make([]v1.JournalResponse, len(journals))
	for i, j := range journals {
		resp[i] = v1.JournalResponse{
			ID:          j.ID,
			Name:        j.Name,
			Owner:       j.Owner,
			Owned:       j.Owned,
			Permissions: j.Permissions.Names(),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) CreateJournalHandler(c *gin.Context) {
	var req v1.JournalRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	id, err := s.ledger.CreateJournal(c.Request.Context(), caller(c), req.Name)
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.JSON(http.StatusCreated, v1.CreatedResponse{ID: id})
}

func (s *Service) RenameJournalHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	var req v1.JournalRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.RenameJournal(c.Request.Context(), caller(c), id, req.Name); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) DeleteJournalHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.DeleteJournal(c.Request.Context(), caller(c), id); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) ListAccountsHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	accounts, err := s.ledger.Accounts(c.Request.Context(), caller(c), id)
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}

	resp := make([]v1.AccountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = v1.NewAccountResponse(a.Name, a.Balance)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) AddAccountHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	var req v1.AccountRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.AddAccount(c.Request.Context(), caller(c), id, req.Name); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.JSON(http.StatusCreated, v1.NewAccountResponse(req.Name, 0))
}

func (s *Service) DeleteAccountHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.DeleteAccount(c.Request.Context(), caller(c), id, c.Param("name")); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) ListTransactionsHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	txs, err := s.ledger.Transactions(c.Request.Context(), caller(c), id)
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}

	resp := make([]v1.TransactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = v1.TransactionResponse{
			Author:    t.Transaction.Author,
			Timestamp: t.Timestamp,
			Updates:   v1.NewBalanceUpdates(t.Transaction.Updates),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// TransactHandler appends a balanced entry. Unbalanced entries get 422.
func (s *Service) TransactHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	var req v1.TransactionRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	names, added, removed := req.Columns()
	if err := s.ledger.Transact(c.Request.Context(), caller(c), id, names, added, removed); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Service) InviteHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	var req v1.InviteRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	perms, err := req.Validate()
	if err != nil {
		writeError(c, badRequest(httperr.HttpInvalidInputError, err.Error()))
		return
	}
	if err := s.ledger.Invite(c.Request.Context(), caller(c), id, req.Username, perms); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Service) RemoveMemberHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.RemoveFromJournal(c.Request.Context(), caller(c), id, c.Param("username")); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) ListInvitesHandler(c *gin.Context) {
	invites, err := s.ledger.PendingInvites(c.Request.Context(), caller(c))
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}

	resp := make([]v1.InvitationResponse, len(invites))
	for i, inv := range invites {
		resp[i] = v1.InvitationResponse{
			JournalID:    inv.JournalID,
			JournalName:  inv.JournalName,
			Permissions:  inv.Permissions.Names(),
			InvitingUser: inv.InvitingUser,
			Owner:        inv.Owner,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) AcceptInviteHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.AcceptInvite(c.Request.Context(), caller(c), id); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) DeclineInviteHandler(c *gin.Context) {
	id, apiErr := journalID(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.DeclineInvite(c.Request.Context(), caller(c), id); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

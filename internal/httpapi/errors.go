package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/ledgerbook/internal/api/v1"
	httperr "github.com/aevon-lab/ledgerbook/internal/core/errors"
	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/aevon-lab/ledgerbook/internal/ledger"
	"github.com/gin-gonic/gin"
)

// apiError carries the structured HTTP error shape from a helper back to the handler.
type apiError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *apiError) Error() string {
	return e.message
}

func badRequest(errorType, message string) *apiError {
	return &apiError{statusCode: http.StatusBadRequest, errorType: errorType, message: message}
}

// fromLedgerError maps ledger errors onto HTTP statuses and error types.
func fromLedgerError(err error) *apiError {
	var (
		permErr     *ledger.PermissionError
		mismatchErr *ledger.BalanceMismatchError
		storeErr    *storage.StoreError
	)

	switch {
	case errors.As(err, &permErr):
		return &apiError{
			statusCode: http.StatusForbidden,
			errorType:  httperr.HttpPermissionError,
			message:    err.Error(),
			details:    map[string]interface{}{"required_permissions": permErr.Required.Names()},
		}
	case errors.As(err, &mismatchErr):
		net := event.Transaction{Updates: mismatchErr.Attempted}.Net()
		return &apiError{
			statusCode: http.StatusUnprocessableEntity,
			errorType:  httperr.HttpBalanceMismatchError,
			message:    err.Error(),
			details: map[string]interface{}{
				"attempted_updates": v1.NewBalanceUpdates(mismatchErr.Attempted),
				"net":               v1.FormatCents(net),
			},
		}
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, ledger.ErrUnknownAccount):
		return &apiError{statusCode: http.StatusBadRequest, errorType: httperr.HttpInvalidInputError, message: err.Error()}
	case errors.Is(err, ledger.ErrPasswordMismatch):
		return &apiError{statusCode: http.StatusBadRequest, errorType: httperr.HttpPasswordMismatch, message: err.Error()}
	case errors.Is(err, ledger.ErrNotLoggedIn):
		return &apiError{statusCode: http.StatusUnauthorized, errorType: httperr.HttpNotLoggedInError, message: err.Error()}
	case errors.Is(err, ledger.ErrLoginFailed):
		return &apiError{statusCode: http.StatusUnauthorized, errorType: httperr.HttpLoginFailedError, message: err.Error()}
	case errors.Is(err, ledger.ErrNotOwner):
		return &apiError{statusCode: http.StatusForbidden, errorType: httperr.HttpPermissionError, message: err.Error()}
	case errors.Is(err, ledger.ErrNoInvitation):
		return &apiError{statusCode: http.StatusNotFound, errorType: httperr.HttpNoInvitationError, message: err.Error()}
	case errors.Is(err, ledger.ErrNotFound):
		return &apiError{statusCode: http.StatusNotFound, errorType: httperr.HttpNotFoundError, message: err.Error()}
	case errors.Is(err, ledger.ErrUserExists):
		return &apiError{statusCode: http.StatusConflict, errorType: httperr.HttpUserExistsError, message: err.Error()}
	case errors.Is(err, ledger.ErrAccountExists), errors.Is(err, ledger.ErrAlreadyMember), errors.Is(err, ledger.ErrVersionConflict):
		return &apiError{statusCode: http.StatusConflict, errorType: httperr.HttpConflictError, message: err.Error()}
	case errors.As(err, &storeErr):
		slog.Error("[API] Event store failure", "op", storeErr.Op, "error", err)
		return &apiError{statusCode: http.StatusServiceUnavailable, errorType: httperr.HttpStoreUnavailable, message: "Event store unavailable"}
	}

	slog.Error("[API] Unhandled error", "error", err)
	return &apiError{statusCode: http.StatusInternalServerError, errorType: httperr.HttpInternalError, message: "Internal error"}
}

// writeError serializes an apiError as the JSON HTTP response.
func writeError(c *gin.Context, err *apiError) {
	c.AbortWithStatusJSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}

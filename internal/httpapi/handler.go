package httpapi

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/ledgerbook/internal/api/v1"
	httperr "github.com/aevon-lab/ledgerbook/internal/core/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID = "ledgerbook.user_id"

	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgInvalidID      = "Invalid journal id"
)

type validator interface {
	Validate() error
}

// bindJSON reads at most maxBodySizeBytes of body into dst and validates it.
func (s *Service) bindJSON(c *gin.Context, dst interface{}) *apiError {
	maxBytes := int64(s.maxBodySizeBytes)
	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1)) // +1 to detect oversized requests
	if err != nil {
		slog.Error("[API] Failed to read request body", "error", err)
		return &apiError{statusCode: http.StatusInternalServerError, errorType: httperr.HttpInternalError, message: msgReadBodyFailed}
	}
	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[API] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return &apiError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details:    map[string]interface{}{"max_size_mb": maxBytes / (1024 * 1024)},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err := c.ShouldBindJSON(dst); err != nil {
		slog.Warn("[API] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return badRequest(httperr.HttpInvalidJsonError, msgInvalidJSON)
	}
	if v, ok := dst.(validator); ok {
		if err := v.Validate(); err != nil {
			return badRequest(httperr.HttpInvalidInputError, err.Error())
		}
	}
	return nil
}

// requireSession resolves the session header to a user or aborts with 401.
func (s *Service) requireSession(c *gin.Context) {
	session := c.GetHeader(s.sessionHeader)
	if session == "" {
		writeError(c, &apiError{statusCode: http.StatusUnauthorized, errorType: httperr.HttpNotLoggedInError, message: "Missing session token"})
		return
	}
	id, err := s.ledger.UserFromSession(c.Request.Context(), session)
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Set(ctxUserID, id)
	c.Next()
}

func caller(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxUserID).(uuid.UUID)
}

func journalID(c *gin.Context) (uuid.UUID, *apiError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest(httperr.HttpInvalidInputError, msgInvalidID)
	}
	return id, nil
}

// SignUpHandler creates a user and returns a logged-in session.
func (s *Service) SignUpHandler(c *gin.Context) {
	var req v1.SignUpRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}

	session := s.newSession()
	id, err := s.ledger.SignUp(c.Request.Context(), session, req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.JSON(http.StatusCreated, v1.SessionResponse{UserID: id, SessionToken: session})
}

func (s *Service) LogInHandler(c *gin.Context) {
	var req v1.LoginRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}

	session := s.newSession()
	id, err := s.ledger.LogIn(c.Request.Context(), session, req.Username, req.Password)
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.JSON(http.StatusCreated, v1.SessionResponse{UserID: id, SessionToken: session})
}

func (s *Service) LogOutHandler(c *gin.Context) {
	if err := s.ledger.LogOut(c.Request.Context(), c.GetHeader(s.sessionHeader)); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) ProfileHandler(c *gin.Context) {
	id := caller(c)
	name, err := s.ledger.Username(c.Request.Context(), id)
	if err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.JSON(http.StatusOK, v1.ProfileResponse{UserID: id, Username: name})
}

func (s *Service) ChangeUsernameHandler(c *gin.Context) {
	var req v1.ChangeUsernameRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.ChangeUsername(c.Request.Context(), caller(c), req.Username); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) ChangePasswordHandler(c *gin.Context) {
	var req v1.ChangePasswordRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if err := s.ledger.ChangePassword(c.Request.Context(), caller(c), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) DeleteUserHandler(c *gin.Context) {
	if err := s.ledger.DeleteUser(c.Request.Context(), caller(c)); err != nil {
		writeError(c, fromLedgerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidJsonError     = "invalid_json"
	HttpInvalidInputError    = "invalid_input"
	HttpNotFoundError        = "not_found"
	HttpNotLoggedInError     = "not_logged_in"
	HttpLoginFailedError     = "login_failed"
	HttpPasswordMismatch     = "signup_password_mismatch"
	HttpUserExistsError      = "user_exists"
	HttpPermissionError      = "permission_error"
	HttpBalanceMismatchError = "balance_mismatch"
	HttpNoInvitationError    = "no_invitation"
	HttpConflictError        = "conflict"
	HttpStoreUnavailable     = "store_unavailable"
)

// ErrorResponse is the error response body for API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

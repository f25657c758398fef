package errs

import (
	"net/http"
	"strings"
)

// AppError is what handlers pass to c.Error. Messages are shown to the
// client as is, Err stays server side and ends up in the logs.
type AppError struct {
	Code     int
	Messages []string
	Err      error
}

func (e *AppError) Error() string {
	msg := strings.Join(e.Messages, ", ")
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal reports whether the error hides a server side cause.
func (e *AppError) Internal() bool {
	return e.Err != nil
}

func InternalError(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Messages: []string{"The admin site could not complete this request. The error has been logged."},
		Err:      err,
	}
}

func UserError(message string, code int) *AppError {
	return UserErrors([]string{message}, code)
}

func UserErrors(messages []string, code int) *AppError {
	return &AppError{Code: code, Messages: messages}
}

// shared by the admin views and their middlewares
var (
	NoAccess            = UserError("You don't have access to this resource", http.StatusForbidden)
	InvalidCredentials  = UserError("Please enter the correct username and password for a staff account.", http.StatusUnauthorized)
	Maintenance         = UserError("The admin site is read-only during maintenance. Please try again later.", http.StatusServiceUnavailable)
	NotAcceptable       = UserError("Dashboards are available as text/html or application/json only", http.StatusNotAcceptable)
	TooManyRequests     = UserError("Too many requests to the admin site, slow down.", http.StatusTooManyRequests)
	TooManyPathRequests = UserError("Too many attempts on this page, wait a few minutes before trying again.", http.StatusTooManyRequests)
)

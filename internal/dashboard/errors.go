package dashboard

import (
	"errors"

	"go.uber.org/zap"

	"github.com/jgoulah/energydash/internal/backend"
)

// Messages shown when the backend could not be reached
const (
	msgNetworkError = "Network error. Please check that the server is running and try again."
	msgChatError    = "Sorry, I encountered an error. Please try again."
)

// AlertError is an error that has already been shown to the user
type AlertError struct {
	Message string
	Err     error
}

func (e *AlertError) Error() string {
	return e.Message
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

// IsAlerted reports whether err was already shown to the user
func IsAlerted(err error) bool {
	var a *AlertError
	return errors.As(err, &a)
}

// alerter shows failures to the user and logs transport errors
type alerter struct {
	view   View
	logger *zap.Logger
}

// invalid alerts a validation failure; no request was made
func (a alerter) invalid(msg string) error {
	a.view.Alert(msg)
	return &AlertError{Message: msg}
}

// fail alerts a failed request. Application errors are shown verbatim; anything
// else is logged and replaced by fallback.
func (a alerter) fail(action string, err error, fallback string) error {
	msg := failureMessage(err, fallback)
	if !isAPIError(err) {
		a.logger.Error(action+" failed", zap.Error(err))
	}
	a.view.Alert(msg)
	return &AlertError{Message: msg, Err: err}
}

// failureMessage picks the text to show for a failed request
func failureMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func isAPIError(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr)
}

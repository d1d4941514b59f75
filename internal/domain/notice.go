package domain

import (
	"errors"
	"strings"
)

// NoticeKind styles a transient user-visible message.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is the single message shown after an action.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Notice texts.
const (
	GenericFailureMessage = "Could not reach the prediction server."
	NoModelsMessage       = "No prediction models are available. Check the prediction server and reload."
	PredictionFailedTitle = "Prediction failed"
	NoModelsTitle         = "Models unavailable"
	InvalidInputTitle     = "Invalid input"
	PredictionDoneTitle   = "Prediction complete"
	ResetTitle            = "Form reset"
	ResetMessage          = "All fields are back to their default values."
)

// MessageFor maps an error onto the one string the user sees. A server-provided
// message wins; anything else collapses into the generic failure text.
func MessageFor(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoModels) {
		return NoModelsMessage
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) && strings.TrimSpace(serverErr.Message) != "" {
		return serverErr.Message
	}
	if errors.Is(err, ErrInvalidFieldValue) || errors.Is(err, ErrUnknownField) || errors.Is(err, ErrUnknownModel) {
		return err.Error()
	}
	return GenericFailureMessage
}

// NoticeFor builds the error notice for err.
func NoticeFor(err error) Notice {
	title := PredictionFailedTitle
	switch {
	case errors.Is(err, ErrNoModels):
		title = NoModelsTitle
	case errors.Is(err, ErrInvalidFieldValue), errors.Is(err, ErrUnknownField), errors.Is(err, ErrUnknownModel):
		title = InvalidInputTitle
	}
	return Notice{Kind: NoticeError, Title: title, Message: MessageFor(err)}
}

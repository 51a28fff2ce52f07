package handlers

import (
	"context"
	"errors"

	"github.com/futig/code-companion/internal/entity"
	"github.com/futig/code-companion/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError pairs the user message with a log message and severity.
// User mistakes are warnings, everything else is an error.
func classifyHandlerError(err error, lang entity.SourceLanguage) *HandlerError {
	he := &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err, lang),
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}

	switch {
	case err == nil:
		he.LogMessage = "unknown error"
		he.Severity = SeverityWarning
	case errors.Is(err, entity.ErrServiceError):
		he.LogMessage = "completion service error"
	case errors.Is(err, entity.ErrSessionNotFound):
		he.LogMessage = "session not found"
		he.Severity = SeverityWarning
	case errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrEmptyFile),
		errors.Is(err, entity.ErrInvalidEncoding),
		errors.Is(err, entity.ErrMissingField):
		he.LogMessage = "invalid upload"
		he.Severity = SeverityWarning
	}

	return he
}

// HandleError logs the error with its severity and sends a user-friendly message
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err, h.language)

	switch handlerErr.Severity {
	case SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.sendMessage(chatID, handlerErr.UserMessage, nil)
}

package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a command-level fault detected by the engine.
//
// Gameplay precondition failures (unaffordable purchase, locked talent,
// prestige below threshold) are never RuntimeErrors; they are inert no-ops
// reported through a false ok. RuntimeErrors cover:
//   - Unknown command: a command kind the loop has no handler for
//   - Invalid command: a command missing the payload its kind needs
//   - Engine stopped: a command submitted after Stop or cancellation
//   - Persistence: the save or journal write after a mutation failed
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// SessionID identifies the affected session.
	SessionID string

	// Command names the command or operation being processed.
	Command string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownCommand indicates a command kind with no handler.
	ErrCodeUnknownCommand RuntimeErrorCode = "UNKNOWN_COMMAND"

	// ErrCodeInvalidCommand indicates a command missing required payload.
	ErrCodeInvalidCommand RuntimeErrorCode = "INVALID_COMMAND"

	// ErrCodeEngineStopped indicates the engine no longer accepts commands.
	ErrCodeEngineStopped RuntimeErrorCode = "ENGINE_STOPPED"

	// ErrCodePersistence indicates the write-through save or journal failed.
	ErrCodePersistence RuntimeErrorCode = "PERSISTENCE_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Command != "" && e.SessionID != "" {
		msg = fmt.Sprintf("%s (session=%s, command=%s)", msg, e.SessionID, e.Command)
	} else if e.Command != "" {
		msg = fmt.Sprintf("%s (command=%s)", msg, e.Command)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsStoppedError returns true if the command was rejected because the
// engine stopped. Uses errors.As to handle wrapped errors.
func IsStoppedError(err error) bool {
	return hasCode(err, ErrCodeEngineStopped)
}

// IsUnknownCommandError returns true for a command kind with no handler.
func IsUnknownCommandError(err error) bool {
	return hasCode(err, ErrCodeUnknownCommand)
}

// IsInvalidCommandError returns true for a command missing its payload.
func IsInvalidCommandError(err error) bool {
	return hasCode(err, ErrCodeInvalidCommand)
}

// IsPersistenceError returns true if a write-through save or journal
// append failed.
func IsPersistenceError(err error) bool {
	return hasCode(err, ErrCodePersistence)
}

// NewStoppedError creates a RuntimeError for a command the engine refused.
func NewStoppedError(command string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeEngineStopped,
		Message: "engine is not accepting commands",
		Command: command,
	}
}

// NewUnknownCommandError creates a RuntimeError for an unhandled kind.
func NewUnknownCommandError(sessionID string, kind CommandKind) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeUnknownCommand,
		Message:   fmt.Sprintf("no handler for command kind %d", int(kind)),
		SessionID: sessionID,
		Command:   kind.String(),
	}
}

// NewInvalidCommandError creates a RuntimeError for a malformed command.
func NewInvalidCommandError(sessionID string, kind CommandKind, reason string) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeInvalidCommand,
		Message:   reason,
		SessionID: sessionID,
		Command:   kind.String(),
	}
}

// NewPersistenceError wraps a failed save or journal append.
func NewPersistenceError(sessionID, operation string, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodePersistence,
		Message:   "write-through failed",
		SessionID: sessionID,
		Command:   operation,
		Err:       err,
	}
}

package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *RuntimeError
		want string
	}{
		{
			name: "stopped",
			err:  NewStoppedError("click"),
			want: "ENGINE_STOPPED: engine is not accepting commands (command=click)",
		},
		{
			name: "unknown",
			err:  NewUnknownCommandError("s-1", CommandKind(42)),
			want: "UNKNOWN_COMMAND: no handler for command kind 42 (session=s-1, command=unknown)",
		},
		{
			name: "persistence",
			err:  NewPersistenceError("s-1", "buy", errors.New("disk full")),
			want: "PERSISTENCE_FAILED: write-through failed (session=s-1, command=buy): disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestRuntimeError_Helpers(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("outer: %w", NewPersistenceError("s", "tick", cause))

	assert.True(t, IsPersistenceError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, IsStoppedError(wrapped))

	assert.True(t, IsStoppedError(NewStoppedError("click")))
	assert.True(t, IsUnknownCommandError(NewUnknownCommandError("s", 0)))
	assert.True(t, IsInvalidCommandError(NewInvalidCommandError("s", CommandPlay, "missing game")))
	assert.False(t, IsInvalidCommandError(cause))
	assert.False(t, IsStoppedError(nil))
}

package models

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKapselErrorFormat(t *testing.T) {
	err := NewError(ErrorCodeLaunch, "failed to start").
		WithContext("executable", "/usr/bin/java").
		WithContext("attempt", 1).
		WithCause(os.ErrPermission).
		WithSuggestion("check permissions")

	assert.Equal(t,
		"[LAUNCH] failed to start; Context: attempt=1, executable=/usr/bin/java; Cause: permission denied; Suggestion: check permissions",
		err.Error())
}

func TestKapselErrorMinimal(t *testing.T) {
	err := &KapselError{Code: ErrorCodeConfiguration, Message: "bad"}
	assert.Equal(t, "[CONFIGURATION] bad", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestKapselErrorUnwrap(t *testing.T) {
	err := ErrPayloadMissing("lib/a.jar", os.ErrNotExist)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	wrapped := fmt.Errorf("launch: %w", err)
	assert.True(t, IsErrorCode(wrapped, ErrorCodeMaterialization))
	assert.Equal(t, ErrorCodeMaterialization, GetErrorCode(wrapped))
}

func TestGetErrorCodeForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
	assert.False(t, IsErrorCode(errors.New("plain"), ErrorCodeLaunch))
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *KapselError
		code ErrorCode
		text string
	}{
		{"missing attribute", ErrMissingAttribute("Kapsel-Main-Class"), ErrorCodeConfiguration, "Kapsel-Main-Class"},
		{"invalid manifest", ErrInvalidManifest("line 3: missing ':'", nil), ErrorCodeConfiguration, "line 3"},
		{"invalid settings", ErrInvalidSettings("KAPSEL_REFRESH", "x", "unknown policy"), ErrorCodeConfiguration, "KAPSEL_REFRESH"},
		{"payload missing", ErrPayloadMissing("a.dat", nil), ErrorCodeMaterialization, "a.dat"},
		{"payload write", ErrPayloadWrite("/c/app1/a.dat", nil), ErrorCodeMaterialization, "/c/app1/a.dat"},
		{"runtime not found", ErrRuntimeNotFound("java", nil), ErrorCodeLaunch, "java"},
		{"spawn failed", ErrSpawnFailed("/usr/bin/java", nil), ErrorCodeLaunch, "/usr/bin/java"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Contains(t, tt.err.Error(), tt.text)
		})
	}
}

func TestLaunchCommand(t *testing.T) {
	cmd := LaunchCommand{"/usr/bin/java", "-cp", "a.jar", "Main"}
	assert.Equal(t, "/usr/bin/java", cmd.Executable())
	assert.Equal(t, []string{"-cp", "a.jar", "Main"}, cmd.Args())
	assert.Equal(t, "/usr/bin/java -cp a.jar Main", cmd.String())

	var empty LaunchCommand
	assert.Empty(t, empty.Executable())
	assert.Nil(t, empty.Args())
}

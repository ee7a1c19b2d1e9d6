// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "resolution_error",
			code:    errors.ErrResolution,
			message: "no plugins directory",
			wantStr: "[RESOLUTION_FAILED] no plugins directory",
		},
		{
			name:    "conflict_error",
			code:    errors.ErrConflictBlocked,
			message: "not a symlink",
			wantStr: "[CONFLICT_BLOCKED] not a symlink",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details, "details should be initialized")
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("permission denied")
	err := errors.Wrapf(base, errors.ErrSymlinkCreate, "failed to link %s", "/plugins/demo")

	assert.Equal(t, "[SYMLINK_CREATE] failed to link /plugins/demo: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, base), "wrapped error should be reachable")
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing"))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New(errors.ErrValidation, "bad version"))

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrValidation, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrResolution, "bad version")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
	assert.Equal(t, errors.ErrValidation, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrManifestNotFound, "plugin.json not found").
		WithDetail("path", "/proj/plugin.json")

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "/proj/plugin.json", details["path"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	inner := errors.Wrap(stderrors.New("exit status 128"), errors.ErrExternalTool, "git push failed")
	outer := errors.Wrap(inner, errors.ErrExternalTool, "publish aborted")

	assert.Equal(t, "publish aborted: git push failed: exit status 128", errors.UserMessage(outer))
	assert.Equal(t, "plain", errors.UserMessage(stderrors.New("plain")))
}

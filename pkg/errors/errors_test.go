package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", Clone(ErrNotFound, "student not found"))

	appErr := FromError(wrapped)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "student not found", appErr.Message)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	appErr := FromError(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
	assert.Nil(t, FromError(nil))
}

func TestClonedSentinelMatchesWithIs(t *testing.T) {
	err := Wrap(stderrors.New("dial tcp"), ErrSyncFailed.Code, ErrSyncFailed.Status, "fetch failed")
	assert.True(t, stderrors.Is(err, ErrSyncFailed))
	assert.False(t, stderrors.Is(err, ErrNotFound))
}

func TestFromErrorMapsDeadlines(t *testing.T) {
	appErr := FromError(fmt.Errorf("fetch users: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, appErr.Status)
	assert.Equal(t, ErrTimeout.Code, appErr.Code)
}

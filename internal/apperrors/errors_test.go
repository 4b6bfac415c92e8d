// internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfWrappedError(t *testing.T) {
	inner := Conflict("already exists")
	wrapped := fmt.Errorf("saving shop: %w", inner)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "missing", NotFound("missing").Error())

	cause := errors.New("connection refused")
	err := Wrap(KindUnavailable, "storage unavailable", cause)
	assert.Equal(t, "storage unavailable: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(Unavailable(errors.New("timeout"))))
	assert.False(t, Retryable(NotFound("missing")))
	assert.False(t, Retryable(errors.New("plain")))
}

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestExecute_Success(t *testing.T) {
	b := New("chat", time.Minute, 3)
	assert.NoError(t, b.Execute(func() error { return nil }))
}

func TestExecute_FailureIsWrapped(t *testing.T) {
	b := New("chat", time.Minute, 3)
	cause := errors.New("webhook 500")

	err := b.Execute(func() error { return cause })

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "chat")
}

func TestExecute_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New("email", time.Minute, 2)
	calls := 0
	failing := func() error {
		calls++
		return errors.New("boom")
	}

	_ = b.Execute(failing)
	_ = b.Execute(failing)
	err := b.Execute(failing)

	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

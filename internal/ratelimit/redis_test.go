package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_FirstHitSetsWindow(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(client, "newsletter", 5, time.Minute)

	mock.ExpectIncr("ratelimit:newsletter:198.51.100.1").SetVal(1)
	mock.ExpectPExpire("ratelimit:newsletter:198.51.100.1", time.Minute).SetVal(true)

	d, err := limiter.Allow(context.Background(), "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_WithinLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(client, "newsletter", 5, time.Minute)

	mock.ExpectIncr("ratelimit:newsletter:unknown").SetVal(5)

	d, err := limiter.Allow(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_OverLimitReportsRemainingWindow(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(client, "newsletter", 5, time.Minute)

	mock.ExpectIncr("ratelimit:newsletter:c").SetVal(6)
	mock.ExpectPTTL("ratelimit:newsletter:c").SetVal(42 * time.Second)

	d, err := limiter.Allow(context.Background(), "c")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 6, d.Count)
	assert.Equal(t, 42*time.Second, d.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_RepairsMissingExpiry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(client, "newsletter", 5, time.Minute)

	mock.ExpectIncr("ratelimit:newsletter:c").SetVal(9)
	mock.ExpectPTTL("ratelimit:newsletter:c").SetVal(-1)
	mock.ExpectPExpire("ratelimit:newsletter:c", time.Minute).SetVal(true)

	d, err := limiter.Allow(context.Background(), "c")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_IncrError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(client, "newsletter", 5, time.Minute)

	mock.ExpectIncr("ratelimit:newsletter:c").SetErr(errors.New("connection refused"))

	_, err := limiter.Allow(context.Background(), "c")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

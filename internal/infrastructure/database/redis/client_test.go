package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func TestNewClient_RequiresAddr(t *testing.T) {
	_, err := NewClient(&RedisConfig{}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	client, err := NewClient(&RedisConfig{Addr: "localhost:1", DialTimeout: 100 * time.Millisecond}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.CodeUnavailable))
	assert.Nil(t, client)
}

func TestClient_Operations(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewClientFromUniversal(db, logging.NewNopLogger())
	ctx := context.Background()

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectSet("foo", "bar", time.Minute).SetVal("OK")
	mock.ExpectGet("foo").SetVal("bar")
	mock.ExpectDel("foo").SetVal(1)

	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.Set(ctx, "foo", "bar", time.Minute).Err())
	val, err := client.Get(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, "bar", val)
	n, err := client.Del(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Close(t *testing.T) {
	db, _ := redismock.NewClientMock()
	client := NewClientFromUniversal(db, logging.NewNopLogger())

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	ctx := context.Background()
	assert.ErrorIs(t, client.Ping(ctx), ErrClientClosed)
	assert.ErrorIs(t, client.Get(ctx, "foo").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Set(ctx, "foo", 1, 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Del(ctx, "foo").Err(), ErrClientClosed)
}

//Personal.AI order the ending

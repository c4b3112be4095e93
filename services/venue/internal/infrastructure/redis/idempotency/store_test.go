package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/dset/Cloud-Market/pkg/errors"
	redisMock "github.com/dset/Cloud-Market/pkg/redis/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestStore_Lookup(t *testing.T) {
	ctx := context.Background()
	redisErr := errors.NewErrorDetails("Failed to get value from Redis", string(errors.RedisGetError), "get")

	testCases := []struct {
		name     string
		mockFn   func(client *redisMock.MockClient)
		assertFn func(t *testing.T, orderID string, err error)
	}{
		{
			name: "completed",
			mockFn: func(client *redisMock.MockClient) {
				client.EXPECT().Get(ctx, "idempotency:alice:k1").Return("01HX", nil)
			},
			assertFn: func(t *testing.T, orderID string, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "01HX", orderID)
			},
		},
		{
			name: "still pending",
			mockFn: func(client *redisMock.MockClient) {
				client.EXPECT().Get(ctx, "idempotency:alice:k1").Return("pending", nil)
			},
			assertFn: func(t *testing.T, orderID string, err error) {
				assert.NoError(t, err)
				assert.Empty(t, orderID)
			},
		},
		{
			name: "unknown",
			mockFn: func(client *redisMock.MockClient) {
				client.EXPECT().Get(ctx, "idempotency:alice:k1").Return("", nil)
			},
			assertFn: func(t *testing.T, orderID string, err error) {
				assert.NoError(t, err)
				assert.Empty(t, orderID)
			},
		},
		{
			name: "error",
			mockFn: func(client *redisMock.MockClient) {
				client.EXPECT().Get(ctx, "idempotency:alice:k1").Return("", redisErr)
			},
			assertFn: func(t *testing.T, orderID string, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, errors.RedisGetError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := redisMock.NewMockClient(ctrl)
			tc.mockFn(client)

			orderID, err := NewStore(client, time.Hour).Lookup(ctx, "alice", "k1")
			tc.assertFn(t, orderID, err)
		})
	}
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := redisMock.NewMockClient(ctrl)
	store := NewStore(client, time.Hour)

	gomock.InOrder(
		client.EXPECT().SetNX(ctx, "idempotency:alice:k1", "pending", DefaultReservationTTL).Return(true, nil),
		client.EXPECT().SetNX(ctx, "idempotency:alice:k1", "pending", DefaultReservationTTL).Return(false, nil),
		client.EXPECT().Set(ctx, "idempotency:alice:k1", "01HX", time.Hour).Return(nil),
		client.EXPECT().Del(ctx, "idempotency:alice:k2").Return(int64(1), nil),
	)

	ok, err := store.Reserve(ctx, "alice", "k1")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "alice", "k1")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Complete(ctx, "alice", "k1", "01HX"))
	assert.NoError(t, store.Release(ctx, "alice", "k2"))
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := redisMock.NewMockClient(ctrl)
	store := NewStore(client, time.Hour)

	client.EXPECT().SetNX(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, errors.NewErrorDetails("setnx failed", string(errors.RedisSetNXError), "setnx"))
	client.EXPECT().Set(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.NewErrorDetails("set failed", string(errors.RedisSetError), "set"))
	client.EXPECT().Del(ctx, gomock.Any()).
		Return(int64(0), errors.NewErrorDetails("del failed", string(errors.RedisDelError), "del"))

	_, err := store.Reserve(ctx, "alice", "k1")
	assert.True(t, errors.ErrorCodeEquals(err, errors.RedisSetNXError))
	assert.True(t, errors.ErrorCodeEquals(store.Complete(ctx, "alice", "k1", "01HX"), errors.RedisSetError))
	assert.True(t, errors.ErrorCodeEquals(store.Release(ctx, "alice", "k1"), errors.RedisDelError))
}

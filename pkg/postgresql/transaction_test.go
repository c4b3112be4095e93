package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dset/Cloud-Market/pkg/postgresql"
	"github.com/dset/Cloud-Market/pkg/postgresql/mock"
	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type txCtxKey struct{}

func TestRunInTx(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txCtxKey{}, "tx")
	opts := postgresql.SerializableTxOptions()
	errFn := errors.New("fn failed")
	errSerialization := &pgconn.PgError{Code: postgresql.SerializationFailure}

	testCases := []struct {
		name     string
		fn       func(ctx context.Context) error
		mockFn   func(tx *mock.MockTransaction)
		assertFn func(err error)
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context) error {
				assert.Equal(t, "tx", ctx.Value(txCtxKey{}))
				return nil
			},
			mockFn: func(tx *mock.MockTransaction) {
				tx.EXPECT().BeginTx(ctx, opts).Return(txCtx, nil)
				tx.EXPECT().Commit(txCtx).Return(nil)
			},
			assertFn: func(err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "rolls back when fn fails",
			fn: func(ctx context.Context) error {
				return errFn
			},
			mockFn: func(tx *mock.MockTransaction) {
				tx.EXPECT().BeginTx(ctx, opts).Return(txCtx, nil)
				tx.EXPECT().Rollback(txCtx).Return(nil)
			},
			assertFn: func(err error) {
				assert.ErrorIs(t, err, errFn)
			},
		},
		{
			name: "keeps fn error when rollback fails",
			fn: func(ctx context.Context) error {
				return errSerialization
			},
			mockFn: func(tx *mock.MockTransaction) {
				tx.EXPECT().BeginTx(ctx, opts).Return(txCtx, nil)
				tx.EXPECT().Rollback(txCtx).Return(errors.New("conn closed"))
			},
			assertFn: func(err error) {
				assert.True(t, postgresql.IsSerializationFailure(err))
				assert.Contains(t, err.Error(), "rollback failed")
			},
		},
		{
			name: "returns commit error",
			fn: func(ctx context.Context) error {
				return nil
			},
			mockFn: func(tx *mock.MockTransaction) {
				tx.EXPECT().BeginTx(ctx, opts).Return(txCtx, nil)
				tx.EXPECT().Commit(txCtx).Return(errSerialization)
			},
			assertFn: func(err error) {
				assert.True(t, postgresql.IsSerializationFailure(err))
			},
		},
		{
			name: "begin failure skips fn",
			fn: func(ctx context.Context) error {
				t.Fatal("fn must not run")
				return nil
			},
			mockFn: func(tx *mock.MockTransaction) {
				tx.EXPECT().BeginTx(ctx, opts).Return(nil, errors.New("pool exhausted"))
			},
			assertFn: func(err error) {
				assert.EqualError(t, err, "pool exhausted")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tx := mock.NewMockTransaction(ctrl)
			tc.mockFn(tx)

			tc.assertFn(postgresql.RunInTx(ctx, tx, opts, tc.fn))
		})
	}
}

func TestRunInTx_RollsBackOnPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	tx := mock.NewMockTransaction(ctrl)
	tx.EXPECT().BeginTx(ctx, pgx.TxOptions{}).Return(ctx, nil)
	tx.EXPECT().Rollback(ctx).Return(nil)

	assert.Panics(t, func() {
		_ = postgresql.RunInTx(ctx, tx, pgx.TxOptions{}, func(context.Context) error {
			panic("boom")
		})
	})
}

func TestTX_CommitWithoutTransaction(t *testing.T) {
	tx := postgresql.NewTransaction(nil)

	assert.ErrorIs(t, tx.Commit(context.Background()), postgresql.ErrNoTransaction)
	assert.ErrorIs(t, tx.Rollback(context.Background()), postgresql.ErrNoTransaction)
}

package order

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	pkgErrors "github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	helper *postgresql.TestHelper
	repo   OrderRepository
	ctx    context.Context
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../../migrations")
	require.NoError(suite.T(), err)

	config := postgresql.DefaultTestContainerConfig()
	config.Database = "order_test_db"
	config.MigrationsPath = migrationsPath
	config.StartupTimeout = 3 * time.Minute

	suite.helper = postgresql.NewTestHelperWithConfig(suite.T(), config)
	suite.repo = NewRepository(suite.helper.GetClient(), logger.NewNopLogger())
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.helper.CleanupTables()
}

func (suite *RepositoryTestSuite) newOrder(id, owner string, side matchingv1.Side, price, volume string) *Order {
	return &Order{
		ID:            id,
		Owner:         owner,
		Instrument:    "BTC-USD",
		Side:          side,
		Price:         decimal.RequireFromString(price),
		TotalVolume:   decimal.RequireFromString(volume),
		ActiveVolume:  decimal.RequireFromString(volume),
		FilledVolume:  decimal.Zero,
		RelatedTrades: []string{},
	}
}

func (suite *RepositoryTestSuite) store(orders ...*Order) {
	for _, o := range orders {
		require.NoError(suite.T(), suite.repo.Store(suite.ctx, o))
	}
}

func (suite *RepositoryTestSuite) TestStore() {
	tests := []struct {
		name        string
		order       *Order
		expectError bool
	}{
		{
			name:  "valid order",
			order: suite.newOrder("order-1", "alice", matchingv1.Buy, "10.25", "1000.5"),
		},
		{
			name:        "duplicate order ID",
			order:       suite.newOrder("order-1", "bob", matchingv1.Sell, "11", "1"),
			expectError: true,
		},
		{
			name: "unbalanced volumes",
			order: &Order{
				ID:            "order-2",
				Owner:         "alice",
				Instrument:    "BTC-USD",
				Side:          matchingv1.Buy,
				Price:         decimal.NewFromInt(10),
				TotalVolume:   decimal.NewFromInt(10),
				ActiveVolume:  decimal.NewFromInt(10),
				FilledVolume:  decimal.NewFromInt(1),
				RelatedTrades: []string{},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := suite.repo.Store(suite.ctx, tt.order)

			if tt.expectError {
				assert.Error(suite.T(), err)
				return
			}

			require.NoError(suite.T(), err)
			assert.False(suite.T(), tt.order.CreateTime.IsZero())

			stored, err := suite.repo.GetByID(suite.ctx, tt.order.ID)
			require.NoError(suite.T(), err)

			assert.Equal(suite.T(), tt.order.Owner, stored.Owner)
			assert.Equal(suite.T(), tt.order.Side, stored.Side)
			assert.True(suite.T(), tt.order.Price.Equal(stored.Price))
			assert.True(suite.T(), tt.order.TotalVolume.Equal(stored.TotalVolume))
			assert.True(suite.T(), tt.order.ActiveVolume.Equal(stored.ActiveVolume))
			assert.True(suite.T(), stored.FilledVolume.IsZero())
			assert.True(suite.T(), stored.CancelledVolume.IsZero())
			assert.Equal(suite.T(), []string{}, stored.RelatedTrades)
		})
	}
}

func (suite *RepositoryTestSuite) TestGetByID_NotFound() {
	order, err := suite.repo.GetByID(suite.ctx, "missing")

	assert.Nil(suite.T(), order)
	assert.True(suite.T(), pkgErrors.ErrorCodeEquals(err, pkgErrors.GeneralNotFoundError))
}

func (suite *RepositoryTestSuite) TestListCandidates() {
	suite.store(
		suite.newOrder("ask-12", "alice", matchingv1.Sell, "12", "1"),
		suite.newOrder("ask-10-old", "alice", matchingv1.Sell, "10", "1"),
		suite.newOrder("ask-10-new", "bob", matchingv1.Sell, "10", "1"),
		suite.newOrder("ask-15", "bob", matchingv1.Sell, "15", "1"),
		suite.newOrder("bid-11", "carol", matchingv1.Buy, "11", "1"),
		suite.newOrder("bid-9", "carol", matchingv1.Buy, "9", "1"),
	)

	asks, err := suite.repo.ListCandidates(suite.ctx, CandidateFilter{
		Instrument: "BTC-USD",
		TakerSide:  matchingv1.Buy,
		LimitPrice: decimal.NewFromInt(12),
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"ask-10-old", "ask-10-new", "ask-12"}, ids(asks))

	bids, err := suite.repo.ListCandidates(suite.ctx, CandidateFilter{
		Instrument: "BTC-USD",
		TakerSide:  matchingv1.Sell,
		LimitPrice: decimal.NewFromInt(9),
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"bid-11", "bid-9"}, ids(bids))

	other, err := suite.repo.ListCandidates(suite.ctx, CandidateFilter{
		Instrument: "ETH-USD",
		TakerSide:  matchingv1.Buy,
		LimitPrice: decimal.NewFromInt(100),
	})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), other)
}

func (suite *RepositoryTestSuite) TestApplyFill() {
	suite.store(suite.newOrder("bid", "alice", matchingv1.Buy, "10", "5"))

	err := suite.repo.ApplyFill(suite.ctx, matchingv1.OrderUpdate{OrderID: "bid", Fill: decimal.NewFromInt(3), TradeID: "t1"})
	require.NoError(suite.T(), err)

	stored, err := suite.repo.GetByID(suite.ctx, "bid")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(2).Equal(stored.ActiveVolume))
	assert.True(suite.T(), decimal.NewFromInt(3).Equal(stored.FilledVolume))
	assert.Equal(suite.T(), []string{"t1"}, stored.RelatedTrades)

	err = suite.repo.ApplyFill(suite.ctx, matchingv1.OrderUpdate{OrderID: "bid", Fill: decimal.NewFromInt(3), TradeID: "t2"})
	assert.True(suite.T(), pkgErrors.ErrorCodeEquals(err, pkgErrors.TransactionConflictError))

	stored, err = suite.repo.GetByID(suite.ctx, "bid")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"t1"}, stored.RelatedTrades)
}

func (suite *RepositoryTestSuite) TestCancel() {
	suite.store(suite.newOrder("bid", "alice", matchingv1.Buy, "10", "5"))
	require.NoError(suite.T(), suite.repo.ApplyFill(suite.ctx, matchingv1.OrderUpdate{OrderID: "bid", Fill: decimal.NewFromInt(2), TradeID: "t1"}))

	require.NoError(suite.T(), suite.repo.Cancel(suite.ctx, "bid"))

	stored, err := suite.repo.GetByID(suite.ctx, "bid")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), stored.ActiveVolume.IsZero())
	assert.True(suite.T(), decimal.NewFromInt(2).Equal(stored.FilledVolume))
	assert.True(suite.T(), decimal.NewFromInt(3).Equal(stored.CancelledVolume))
	assert.False(suite.T(), stored.IsActive())

	// a second cancel withdraws nothing more
	require.NoError(suite.T(), suite.repo.Cancel(suite.ctx, "bid"))
	stored, err = suite.repo.GetByID(suite.ctx, "bid")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(3).Equal(stored.CancelledVolume))

	err = suite.repo.Cancel(suite.ctx, "missing")
	assert.True(suite.T(), pkgErrors.ErrorCodeEquals(err, pkgErrors.GeneralNotFoundError))
}

func (suite *RepositoryTestSuite) TestListActiveAndByOwner() {
	suite.store(
		suite.newOrder("a1", "alice", matchingv1.Buy, "10", "5"),
		suite.newOrder("b1", "bob", matchingv1.Sell, "12", "5"),
		suite.newOrder("a2", "alice", matchingv1.Sell, "13", "5"),
	)
	require.NoError(suite.T(), suite.repo.Cancel(suite.ctx, "a2"))

	active, err := suite.repo.ListActive(suite.ctx, "BTC-USD")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"a1", "b1"}, ids(active))

	owned, err := suite.repo.ListByOwner(suite.ctx, "alice")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"a1", "a2"}, ids(owned))

	none, err := suite.repo.ListByOwner(suite.ctx, "nobody")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), none)
}

func (suite *RepositoryTestSuite) TestForUpdateInsideTransaction() {
	suite.store(suite.newOrder("bid", "alice", matchingv1.Buy, "10", "5"))

	client := suite.helper.GetClient()
	err := postgresql.WithTxOptions(suite.ctx, client, postgresql.SerializableTxOptions(), func(ctx context.Context) error {
		order, err := suite.repo.GetByIDForUpdate(ctx, "bid")
		if err != nil {
			return err
		}
		assert.Equal(suite.T(), "alice", order.Owner)
		return suite.repo.Cancel(ctx, "bid")
	})
	require.NoError(suite.T(), err)

	stored, err := suite.repo.GetByID(suite.ctx, "bid")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), stored.ActiveVolume.IsZero())
}

func ids(orders []*Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

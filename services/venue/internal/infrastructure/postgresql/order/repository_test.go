package order

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgErrors "github.com/dset/Cloud-Market/pkg/errors"
	mockLogger "github.com/dset/Cloud-Market/pkg/logger/mock"
	mockPg "github.com/dset/Cloud-Market/pkg/postgresql/mock"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectColumns = "id, owner, instrument, side, price, total_volume, active_volume, filled_volume, cancelled_volume, related_trades, create_time"

type stubRow struct {
	scanFn func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scanFn(dest...)
}

func rowOf(order Order) pgx.Row {
	return stubRow{scanFn: func(dest ...any) error {
		*dest[0].(*string) = order.ID
		*dest[1].(*string) = order.Owner
		*dest[2].(*string) = order.Instrument
		*dest[3].(*matchingv1.Side) = order.Side
		*dest[4].(*decimal.Decimal) = order.Price
		*dest[5].(*decimal.Decimal) = order.TotalVolume
		*dest[6].(*decimal.Decimal) = order.ActiveVolume
		*dest[7].(*decimal.Decimal) = order.FilledVolume
		*dest[8].(*decimal.Decimal) = order.CancelledVolume
		*dest[9].(*[]string) = order.RelatedTrades
		*dest[10].(*time.Time) = order.CreateTime
		return nil
	}}
}

func errRow(err error) pgx.Row {
	return stubRow{scanFn: func(...any) error { return err }}
}

func TestOrder_Store(t *testing.T) {
	ctx := context.Background()
	query := "INSERT INTO orders (id, owner, instrument, side, price, total_volume, active_volume, filled_volume, related_trades) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING create_time"
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order)
		testData *Order
		assertFn func(t *testing.T, order *Order, err error)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order) {
				mockpg.EXPECT().
					QueryRow(ctx, query,
						tc.ID,
						tc.Owner,
						tc.Instrument,
						"BUY",
						tc.Price,
						tc.TotalVolume,
						tc.ActiveVolume,
						tc.FilledVolume,
						tc.RelatedTrades,
					).
					Return(stubRow{scanFn: func(dest ...any) error {
						*dest[0].(*time.Time) = created
						return nil
					}})

				mockLogger.EXPECT().DebugContext(ctx, "Inserted order", gomock.Any())
			},
			testData: &Order{
				ID:            "o1",
				Owner:         "alice",
				Instrument:    "BTC-USD",
				Side:          matchingv1.Buy,
				Price:         decimal.NewFromInt(10),
				TotalVolume:   decimal.NewFromInt(1000),
				ActiveVolume:  decimal.NewFromInt(1000),
				FilledVolume:  decimal.Zero,
				RelatedTrades: []string{},
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				assert.NoError(t, err)
				assert.Equal(t, created, order.CreateTime)
			},
		},
		{
			name: "error",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order) {
				mockpg.EXPECT().
					QueryRow(ctx, query, gomock.Any()).
					Return(errRow(errors.New("error")))
			},
			testData: &Order{ID: "o1", Side: matchingv1.Sell},
			assertFn: func(t *testing.T, order *Order, err error) {
				assert.Error(t, err)
				assert.True(t, order.CreateTime.IsZero())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			log := mockLogger.NewMockInterface(ctrl)

			repo := NewRepository(pg, log)

			tc.mockFn(pg, log, tc.testData)

			err := repo.Store(ctx, tc.testData)
			tc.assertFn(t, tc.testData, err)
		})
	}
}

func TestOrder_GetByID(t *testing.T) {
	ctx := context.Background()
	stored := Order{
		ID:              "o1",
		Owner:           "alice",
		Instrument:      "BTC-USD",
		Side:            matchingv1.Sell,
		Price:           decimal.NewFromInt(12),
		TotalVolume:     decimal.NewFromInt(5),
		ActiveVolume:    decimal.NewFromInt(2),
		FilledVolume:    decimal.NewFromInt(3),
		CancelledVolume: decimal.Zero,
		RelatedTrades:   []string{"t1"},
		CreateTime:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	testCases := []struct {
		name      string
		forUpdate bool
		mockFn    func(mockpg *mockPg.MockPostgreSQLClient)
		assertFn  func(t *testing.T, order *Order, err error)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient) {
				mockpg.EXPECT().
					QueryRow(ctx, "SELECT "+selectColumns+" FROM orders WHERE id = $1", "o1").
					Return(rowOf(stored))
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				require.NoError(t, err)
				assert.Equal(t, &stored, order)
			},
		},
		{
			name:      "success with row lock",
			forUpdate: true,
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient) {
				mockpg.EXPECT().
					QueryRow(ctx, "SELECT "+selectColumns+" FROM orders WHERE id = $1 FOR UPDATE", "o1").
					Return(rowOf(stored))
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				require.NoError(t, err)
				assert.Equal(t, "o1", order.ID)
			},
		},
		{
			name: "not found",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient) {
				mockpg.EXPECT().
					QueryRow(ctx, gomock.Any(), "o1").
					Return(errRow(pgx.ErrNoRows))
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				assert.Nil(t, order)
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.GeneralNotFoundError))
			},
		},
		{
			name: "store error",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient) {
				mockpg.EXPECT().
					QueryRow(ctx, gomock.Any(), "o1").
					Return(errRow(errors.New("connection reset")))
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				assert.Nil(t, order)
				assert.EqualError(t, err, "connection reset")
				assert.False(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.GeneralNotFoundError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			repo := NewRepository(pg, mockLogger.NewMockInterface(ctrl))

			tc.mockFn(pg)

			var (
				order *Order
				err   error
			)
			if tc.forUpdate {
				order, err = repo.GetByIDForUpdate(ctx, "o1")
			} else {
				order, err = repo.GetByID(ctx, "o1")
			}
			tc.assertFn(t, order, err)
		})
	}
}

func TestOrder_ListCandidates(t *testing.T) {
	ctx := context.Background()
	limit := decimal.NewFromInt(10)

	testCases := []struct {
		name     string
		filter   CandidateFilter
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, rows *mockPg.MockRowsInterface)
		assertFn func(t *testing.T, orders []*Order, err error)
	}{
		{
			name:   "buyer reads asks up to the limit, cheapest first",
			filter: CandidateFilter{Instrument: "X", TakerSide: matchingv1.Buy, LimitPrice: limit},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, rows *mockPg.MockRowsInterface) {
				mockpg.EXPECT().
					Query(ctx,
						"SELECT "+selectColumns+" FROM orders WHERE instrument = $1 AND side = $2 AND active_volume > 0 AND price <= $3 "+
							"ORDER BY price ASC, create_time ASC, id ASC",
						"X", "SELL", limit).
					Return(rows, nil)

				gomock.InOrder(
					rows.EXPECT().Next().Return(true),
					rows.EXPECT().Scan(gomock.Any()).DoAndReturn(rowOf(Order{ID: "o1", Side: matchingv1.Sell}).Scan),
					rows.EXPECT().Next().Return(false),
					rows.EXPECT().Err().Return(nil),
					rows.EXPECT().Close(),
				)
			},
			assertFn: func(t *testing.T, orders []*Order, err error) {
				require.NoError(t, err)
				require.Len(t, orders, 1)
				assert.Equal(t, "o1", orders[0].ID)
			},
		},
		{
			name:   "seller reads bids down to the limit, highest first",
			filter: CandidateFilter{Instrument: "X", TakerSide: matchingv1.Sell, LimitPrice: limit},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, rows *mockPg.MockRowsInterface) {
				mockpg.EXPECT().
					Query(ctx,
						"SELECT "+selectColumns+" FROM orders WHERE instrument = $1 AND side = $2 AND active_volume > 0 AND price >= $3 "+
							"ORDER BY price DESC, create_time ASC, id ASC",
						"X", "BUY", limit).
					Return(rows, nil)

				rows.EXPECT().Next().Return(false)
				rows.EXPECT().Err().Return(nil)
				rows.EXPECT().Close()
			},
			assertFn: func(t *testing.T, orders []*Order, err error) {
				require.NoError(t, err)
				assert.Empty(t, orders)
				assert.NotNil(t, orders)
			},
		},
		{
			name:   "query error",
			filter: CandidateFilter{Instrument: "X", TakerSide: matchingv1.Sell, LimitPrice: limit},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, rows *mockPg.MockRowsInterface) {
				mockpg.EXPECT().
					Query(ctx, gomock.Any(), gomock.Any()).
					Return(nil, errors.New("error"))
			},
			assertFn: func(t *testing.T, orders []*Order, err error) {
				assert.Error(t, err)
				assert.Nil(t, orders)
			},
		},
		{
			name:   "scan error",
			filter: CandidateFilter{Instrument: "X", TakerSide: matchingv1.Sell, LimitPrice: limit},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, rows *mockPg.MockRowsInterface) {
				mockpg.EXPECT().
					Query(ctx, gomock.Any(), gomock.Any()).
					Return(rows, nil)

				rows.EXPECT().Next().Return(true)
				rows.EXPECT().Scan(gomock.Any()).Return(errors.New("bad numeric"))
				rows.EXPECT().Close()
			},
			assertFn: func(t *testing.T, orders []*Order, err error) {
				assert.EqualError(t, err, "bad numeric")
				assert.Nil(t, orders)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			rows := mockPg.NewMockRowsInterface(ctrl)
			repo := NewRepository(pg, mockLogger.NewMockInterface(ctrl))

			tc.mockFn(pg, rows)

			orders, err := repo.ListCandidates(ctx, tc.filter)
			tc.assertFn(t, orders, err)
		})
	}
}

func TestOrder_ApplyFill(t *testing.T) {
	ctx := context.Background()
	query := "UPDATE orders SET active_volume = active_volume - $1, filled_volume = filled_volume + $2, " +
		"related_trades = array_append(related_trades, $3) WHERE id = $4 AND active_volume >= $5"
	update := matchingv1.OrderUpdate{OrderID: "o1", Fill: decimal.NewFromInt(3), TradeID: "t1"}

	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient) {
				mockpg.EXPECT().
					Exec(ctx, query, update.Fill, update.Fill, "t1", "o1", update.Fill).
					Return(pgconn.NewCommandTag("UPDATE 1"), nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "volume already consumed",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient) {
				mockpg.EXPECT().
					Exec(ctx, query, update.Fill, update.Fill, "t1", "o1", update.Fill).
					Return(pgconn.NewCommandTag("UPDATE 0"), nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.TransactionConflictError))
			},
		},
		{
			name: "store error",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient) {
				mockpg.EXPECT().
					Exec(ctx, query, gomock.Any()).
					Return(pgconn.CommandTag{}, &pgconn.PgError{Code: "40001"})
			},
			assertFn: func(t *testing.T, err error) {
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(err, &pgErr))
				assert.Equal(t, "40001", pgErr.Code)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			repo := NewRepository(pg, mockLogger.NewMockInterface(ctrl))

			tc.mockFn(pg)

			tc.assertFn(t, repo.ApplyFill(ctx, update))
		})
	}
}

func TestOrder_Cancel(t *testing.T) {
	ctx := context.Background()
	query := "UPDATE orders SET cancelled_volume = cancelled_volume + active_volume, active_volume = $1 WHERE id = $2"

	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface) {
				mockpg.EXPECT().
					Exec(ctx, query, 0, "o1").
					Return(pgconn.NewCommandTag("UPDATE 1"), nil)

				mockLogger.EXPECT().InfoContext(ctx, "Cancelled order", gomock.Any())
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "not found",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface) {
				mockpg.EXPECT().
					Exec(ctx, query, 0, "o1").
					Return(pgconn.NewCommandTag("UPDATE 0"), nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.GeneralNotFoundError))
			},
		},
		{
			name: "error",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface) {
				mockpg.EXPECT().
					Exec(ctx, query, 0, "o1").
					Return(pgconn.CommandTag{}, errors.New("error"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			log := mockLogger.NewMockInterface(ctrl)
			repo := NewRepository(pg, log)

			tc.mockFn(pg, log)

			tc.assertFn(t, repo.Cancel(ctx, "o1"))
		})
	}
}

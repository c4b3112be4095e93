package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBuilder_Build(t *testing.T) {
	testCases := []struct {
		name         string
		build        func() SelectBuilder
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name: "select all",
			build: func() SelectBuilder {
				return NewSelectBuilder().From("orders")
			},
			expectedSQL:  "SELECT * FROM orders",
			expectedArgs: nil,
		},
		{
			name: "numbered placeholders across where clauses and limit",
			build: func() SelectBuilder {
				return NewSelectBuilder().
					Select("id", "price").
					From("orders").
					Where("instrument = ?", "BTC-USD").
					Where("side = ?", "SELL").
					Where("active_volume > 0").
					Where("price <= ?", "10").
					OrderBy("price").
					OrderBy("create_time").
					Limit(100).
					Offset(20)
			},
			expectedSQL: "SELECT id, price FROM orders WHERE instrument = $1 AND side = $2 AND active_volume > 0 AND price <= $3 " +
				"ORDER BY price ASC, create_time ASC LIMIT $4 OFFSET $5",
			expectedArgs: []any{"BTC-USD", "SELL", "10", 100, 20},
		},
		{
			name: "row lock",
			build: func() SelectBuilder {
				return NewSelectBuilder().
					Select("id").
					From("orders").
					Where("id = ?", "01J").
					OrderBy("create_time", true).
					ForUpdate()
			},
			expectedSQL:  "SELECT id FROM orders WHERE id = $1 ORDER BY create_time DESC FOR UPDATE",
			expectedArgs: []any{"01J"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := tc.build().Build()
			assert.Equal(t, tc.expectedSQL, sql)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestInsertBuilder_Build(t *testing.T) {
	sql, args := NewInsertBuilder().
		Into("trades").
		Columns("id", "volume").
		Values("t1", 5).
		Values("t2", 7).
		OnConflictDoNothing("id").
		Returning("id").
		Build()

	assert.Equal(t, "INSERT INTO trades (id, volume) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO NOTHING RETURNING id", sql)
	assert.Equal(t, []any{"t1", 5, "t2", 7}, args)
}

func TestUpdateBuilder_Build(t *testing.T) {
	sql, args := NewUpdateBuilder().
		Table("orders").
		SetExpr("active_volume = active_volume - ?", 3).
		SetExpr("filled_volume = filled_volume + ?", 3).
		Set("updated_by", "engine").
		Where("id = ?", "o1").
		Where("active_volume >= ?", 3).
		Returning("active_volume").
		Build()

	assert.Equal(t, "UPDATE orders SET active_volume = active_volume - $1, filled_volume = filled_volume + $2, updated_by = $3 "+
		"WHERE id = $4 AND active_volume >= $5 RETURNING active_volume", sql)
	assert.Equal(t, []any{3, 3, "engine", "o1", 3}, args)
}

func TestSplitSQLStatements(t *testing.T) {
	script := `
-- orders
CREATE TABLE a (id TEXT);
CREATE INDEX a_idx ON a (id);

CREATE OR REPLACE FUNCTION touch() RETURNS trigger AS $$
BEGIN
  NEW.id := NEW.id;
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;
`
	statements := SplitSQLStatements(script)

	if assert.Len(t, statements, 3) {
		assert.Equal(t, "CREATE TABLE a (id TEXT);", statements[0])
		assert.Contains(t, statements[2], "RETURN NEW;")
		assert.Contains(t, statements[2], "LANGUAGE plpgsql;")
	}
}

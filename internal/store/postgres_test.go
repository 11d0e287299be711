package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/backoffice/internal/domain"
)

func TestNumericConversion(t *testing.T) {
	for _, s := range []string{"0", "1.25", "-40.5", "1250000.0001", "0.000001"} {
		d := decimal.RequireFromString(s)
		n := toNumeric(d)
		require.True(t, n.Valid, s)
		assert.True(t, d.Equal(fromNumeric(n)), "%s came back as %s", s, fromNumeric(n))
	}

	assert.False(t, toNullNumeric(nil).Valid)
	limit := decimal.RequireFromString("75")
	assert.True(t, limit.Equal(fromNumeric(toNullNumeric(&limit))))
	assert.True(t, decimal.Zero.Equal(fromNumeric(toNullNumeric(nil))))
}

func TestValueCoercion(t *testing.T) {
	_, err := asDecimal("rate", "1.5")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = asString("name", 3)
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.Nil(t, optional(""))
	assert.Equal(t, "a@b.io", deref(optional("a@b.io")))
	assert.Equal(t, "", deref(nil))
}

// testPostgres connects to BACKOFFICE_TEST_DATABASE_URL. The database is
// truncated, so it must be a throwaway one.
func testPostgres(t *testing.T) *Postgres {
	t.Helper()
	url := os.Getenv("BACKOFFICE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BACKOFFICE_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	pg := NewPostgres(pool)
	require.NoError(t, pg.Ping(ctx))
	require.NoError(t, pg.Migrate(ctx))
	require.NoError(t, pg.Clear(ctx))
	return pg
}

func TestPostgresLoadAndList(t *testing.T) {
	pg := testPostgres(t)
	ctx := context.Background()
	ds := MockDataset(3, anchor)

	require.NoError(t, pg.Load(ctx, ds))

	banks, err := pg.Banks(ctx)
	require.NoError(t, err)
	assert.Len(t, banks, len(ds.Banks))

	fees, err := pg.FeeStructures(ctx)
	require.NoError(t, err)
	require.Len(t, fees, len(ds.FeeStructures))
	for i, want := range ds.FeeStructures {
		got := fees[i]
		assert.True(t, want.Rate.Equal(got.Rate), "rate %s != %s", want.Rate, got.Rate)
		assert.True(t, want.FlatFee.Equal(got.FlatFee), "flat fee %s != %s", want.FlatFee, got.FlatFee)
		if want.Maximum == nil {
			assert.Nil(t, got.Maximum)
		} else {
			require.NotNil(t, got.Maximum)
			assert.True(t, want.Maximum.Equal(*got.Maximum))
		}
	}

	batches, err := pg.WithdrawalBatches(ctx)
	require.NoError(t, err)
	assert.Len(t, batches, len(ds.WithdrawalBatches))

	seeded, err := pg.Seed(ctx, ds)
	require.NoError(t, err)
	assert.False(t, seeded, "Seed skips a populated database")
}

func TestPostgresUpdateField(t *testing.T) {
	pg := testPostgres(t)
	ctx := context.Background()
	ds := MockDataset(3, anchor)
	require.NoError(t, pg.Load(ctx, ds))

	fee := ds.FeeStructures[0]
	rate := decimal.RequireFromString("2.75")
	old, err := pg.UpdateField(ctx, domain.EntityFeeStructure, fee.ID, "rate", rate)
	require.NoError(t, err)
	assert.True(t, fee.Rate.Equal(decimal.RequireFromString(old)), "old rate %q, want %s", old, fee.Rate)

	fees, err := pg.FeeStructures(ctx)
	require.NoError(t, err)
	assert.True(t, rate.Equal(fees[0].Rate))

	bank := ds.Banks[0]
	old, err = pg.UpdateField(ctx, domain.EntityBank, bank.ID, "name", "Harbour Bank")
	require.NoError(t, err)
	assert.Equal(t, bank.Name, old)

	_, err = pg.UpdateField(ctx, domain.EntityBank, bank.ID, "active", "false")
	assert.ErrorIs(t, err, ErrUnknownField)
	_, err = pg.UpdateField(ctx, domain.EntityBank, 99999, "name", "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = pg.UpdateField(ctx, domain.EntityFeeStructure, fee.ID, "rate", "2.75")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestPostgresClear(t *testing.T) {
	pg := testPostgres(t)
	ctx := context.Background()
	require.NoError(t, pg.Load(ctx, MockDataset(3, anchor)))

	require.NoError(t, pg.Clear(ctx))
	banks, err := pg.Banks(ctx)
	require.NoError(t, err)
	assert.Empty(t, banks)
}

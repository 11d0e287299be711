package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/backoffice/internal/domain"
	"github.com/JonMunkholm/backoffice/internal/store"
)

var anchor = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory(store.MockDataset(42, anchor))
	_, err := mem.SetStatus(ctx, domain.EntityWithdrawalBatch, 1, string(domain.BatchFailed))
	require.NoError(t, err)

	ds := store.MockDataset(42, anchor)
	require.NoError(t, ResetAll(ctx, mem, ds))

	batches, err := mem.WithdrawalBatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.WithdrawalBatches, batches)
}

type failingResetter struct {
	clearErr error
	loaded   bool
}

func (f *failingResetter) Clear(context.Context) error { return f.clearErr }

func (f *failingResetter) Load(context.Context, store.Dataset) error {
	f.loaded = true
	return nil
}

func TestResetAllStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	r := &failingResetter{clearErr: boom}

	err := ResetAll(context.Background(), r, store.Dataset{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, r.loaded, "load must not run after a failed clear")
}

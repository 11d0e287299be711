// Package admin provides administrative operations on the console's data.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/backoffice/internal/store"
)

// ResetTimeout is the maximum duration for a reset.
const ResetTimeout = 30 * time.Second

// Resetter is a store whose records can be replaced wholesale.
// Both store.Memory and store.Postgres implement it.
type Resetter interface {
	Clear(ctx context.Context) error
	Load(ctx context.Context, ds store.Dataset) error
}

type resetFn func(ctx context.Context) error

// ResetAll deletes every record and loads ds in its place.
// This is a destructive operation - use with caution.
func ResetAll(ctx context.Context, r Resetter, ds store.Dataset) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	if err := runResets(ctx, []resetFn{
		r.Clear,
		func(ctx context.Context) error { return r.Load(ctx, ds) },
	}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	slog.Info("data reset",
		"banks", len(ds.Banks),
		"transactions", len(ds.Transactions),
		"deposits", len(ds.Deposits),
	)
	return nil
}

func runResets(ctx context.Context, resets []resetFn) error {
	for _, reset := range resets {
		if err := reset(ctx); err != nil {
			return err
		}
	}
	return nil
}

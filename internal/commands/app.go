package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/backoffice/internal/admin"
	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/core"
	_ "github.com/JonMunkholm/backoffice/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// app is the table service plus the store it runs on.
type app struct {
	service *core.Service
	ping    func(context.Context) error
	reset   func(context.Context) error
	close   func()
}

// newApp opens the configured store and builds the service on it.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	opts, err := serviceOptions(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{close: func() {}}
	var st store.Store
	if cfg.Database.Enabled() {
		pg, pool, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st, a.ping, a.close = pg, pg.Ping, pool.Close
		a.reset = resetTo(pg, cfg)
	} else {
		mem := store.NewMemory(mockDataset(cfg))
		st, a.reset = mem, resetTo(mem, cfg)
		slog.Info("using in-memory mock store", "seed", cfg.Table.MockSeed)
	}

	a.service = core.NewService(st, core.NewAuditLog(cfg.Audit.MaxEntries), opts)

	slog.Info("tables registered",
		"count", core.TableCount(),
		"groups", len(core.Groups()),
	)
	for _, group := range core.Groups() {
		slog.Debug("table group", "group", group, "tables", len(core.ByGroup(group)))
	}
	return a, nil
}

func mockDataset(cfg *config.Config) store.Dataset {
	return store.MockDataset(uint64(cfg.Table.MockSeed), time.Now())
}

func resetTo(r admin.Resetter, cfg *config.Config) func(context.Context) error {
	return func(ctx context.Context) error {
		return admin.ResetAll(ctx, r, mockDataset(cfg))
	}
}

// serviceOptions translates table configuration into engine options.
func serviceOptions(cfg *config.Config) (core.Options, error) {
	sw, err := tableview.ParseEditSwitch(cfg.Table.EditSwitch)
	if err != nil {
		return core.Options{}, err
	}
	tag, err := language.Parse(cfg.Table.Locale)
	if err != nil {
		return core.Options{}, fmt.Errorf("table locale %q: %w", cfg.Table.Locale, err)
	}
	return core.Options{
		PageSize:        cfg.Table.DefaultPageSize,
		PageSizes:       cfg.Table.PageSizes,
		ResetPageOnSort: cfg.Table.ResetPageOnSort,
		EditSwitch:      sw,
		Locale:          tag,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*store.Postgres, *pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	pg := store.NewPostgres(pool)
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if cfg.Database.Seed {
		seeded, err := pg.Seed(ctx, mockDataset(cfg))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if seeded {
			slog.Info("seeded empty database with mock data")
		}
	}
	return pg, pool, nil
}

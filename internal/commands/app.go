package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/simaogato/bookkeeper-backend/internal/adapter/archive"
	"github.com/simaogato/bookkeeper-backend/internal/adapter/repository/sqldb"
	"github.com/simaogato/bookkeeper-backend/internal/config"
	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/logger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/forecast"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/ledger"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/reconciliation"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/seeder"
)

// app holds the wired services for one command invocation
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	db    *sqldb.DB
	store *sqldb.Store

	forecasts *forecast.ForecastService
	imports   *reconciliation.ImportService
	reports   *report.ReportService
	ledger    *ledger.LedgerService
	seeder    *seeder.CategorySeeder

	closers []func() error
}

// newApp loads configuration, opens the store and builds the services.
// The schema is created when migrate is set.
func newApp(ctx context.Context, opts *rootOptions, stderr io.Writer, migrate bool) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Out: stderr})

	dialect, err := sqldb.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sqldb.NewDB(ctx, dialect, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, db: db, closers: []func() error{db.Close}}

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	statementArchive, err := a.openArchive(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	clock := domain.SystemClock{}
	a.store = sqldb.NewStore(db)
	a.forecasts = forecast.NewForecastService(a.store, clock, cfg.Forecast.FixedHorizonMonths)
	a.imports = reconciliation.NewImportService(a.store, clock, statementArchive)
	a.reports = report.NewReportService(a.store, nil)
	a.ledger = ledger.NewLedgerService(a.store, clock)
	a.seeder = seeder.NewCategorySeeder(a.store.Categories())
	return a, nil
}

// openArchive returns nil when no archive is configured
func (a *app) openArchive(ctx context.Context) (reconciliation.Archive, error) {
	switch {
	case a.cfg.Archive.Bucket != "":
		gcs, err := archive.NewGCS(ctx, a.cfg.Archive.Bucket, a.cfg.Archive.Prefix, a.cfg.Archive.Endpoint)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, gcs.Close)
		return gcs, nil
	case a.cfg.Archive.Dir != "":
		return archive.NewLocal(a.cfg.Archive.Dir)
	default:
		return nil, nil
	}
}

// Close releases everything opened by newApp, most recent first
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// context returns ctx carrying the app logger
func (a *app) context(ctx context.Context) context.Context {
	return logger.WithContext(ctx, a.log)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

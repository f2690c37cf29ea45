// Package bootstrap brings a fresh or restarted process to a usable state:
// schema present, default accounts seeded, bulk records imported. Every step
// is idempotent and safe to run on each start.
package bootstrap

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/config"
	"github.com/spec-kit/query-service/internal/domain"
	"github.com/spec-kit/query-service/internal/events"
	"github.com/spec-kit/query-service/internal/ingest"
	"github.com/spec-kit/query-service/internal/repository"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

// ImportReport summarizes one bulk import run.
type ImportReport struct {
	RunID    string
	Inserted int
	Skipped  int
	Failed   int
	Err      error
}

// Bootstrap seeds accounts and imports bulk records.
type Bootstrap struct {
	users      repository.UserRepository
	queries    repository.QueryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.BootstrapConfig
}

// New constructs the bootstrap runner.
func New(users repository.UserRepository, queries repository.QueryRepository, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.BootstrapConfig) *Bootstrap {
	return &Bootstrap{
		users:      users,
		queries:    queries,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// EnsureDefaultAccounts inserts the two default accounts, silently skipping
// any username that already exists. Default passwords are stored in the
// legacy digest format regardless of the configured registration scheme so
// that seeded stores stay byte-identical across deployments.
func (b *Bootstrap) EnsureDefaultAccounts(ctx context.Context) error {
	defaults := []domain.User{
		{Username: b.cfg.DefaultSupportUser, PasswordHash: auth.LegacyDigest(b.cfg.DefaultSupportPass), Role: domain.RoleSupport},
		{Username: b.cfg.DefaultClientUser, PasswordHash: auth.LegacyDigest(b.cfg.DefaultClientPass), Role: domain.RoleClient},
	}
	for i := range defaults {
		inserted, err := b.users.CreateIfAbsent(ctx, &defaults[i])
		if err != nil {
			return err
		}
		if inserted {
			b.logger.Info("seeded default account",
				zap.String("username", defaults[i].Username),
				zap.String("role", string(defaults[i].Role)))
		}
	}
	return nil
}

// ImportBulk reads the source and inserts each record, skipping identity
// collisions. The run is best-effort: a failing source yields a report with
// the error attached, never a fatal condition for the process.
func (b *Bootstrap) ImportBulk(ctx context.Context, source ingest.Source) ImportReport {
	report := ImportReport{RunID: uuid.NewString()}

	records, err := source.Fetch(ctx)
	if err != nil {
		report.Err = apperrors.NewIngestionError(err)
		b.logger.Warn("bulk import source failed", zap.String("run_id", report.RunID), zap.Error(err))
		return report
	}

	hadExplicitID := false
	for _, rec := range records {
		if rec.ID > 0 {
			hadExplicitID = true
		}
		q := rec.ToQuery()
		inserted, err := b.queries.ImportInsert(ctx, &q)
		switch {
		case err != nil:
			report.Failed++
			b.logger.Warn("bulk import row failed",
				zap.String("run_id", report.RunID),
				zap.Int64("query_id", rec.ID),
				zap.Error(err))
		case inserted:
			report.Inserted++
		default:
			report.Skipped++
		}
	}

	// Explicit-id inserts bypass the serial sequence; realign it so client
	// submissions after the import do not draw an already-taken id.
	if hadExplicitID {
		if err := b.queries.SyncIDSequence(ctx); err != nil {
			report.Err = err
			b.logger.Warn("identity sequence sync failed",
				zap.String("run_id", report.RunID),
				zap.Error(err))
		}
	}

	b.logger.Info("bulk import complete",
		zap.String("run_id", report.RunID),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	if b.dispatcher != nil {
		_ = b.dispatcher.Publish(ctx, events.Event{
			ID:   uuid.NewString(),
			Type: events.EventImportCompleted,
			Payload: events.ImportCompletedPayload{
				RunID:    report.RunID,
				Inserted: report.Inserted,
				Skipped:  report.Skipped,
				Failed:   report.Failed,
			},
		})
	}
	return report
}

// Run executes the full startup sequence after schema migration: default
// accounts, then the optional bulk import. Ingestion failure is recovered
// here; the process continues with whatever rows exist.
func (b *Bootstrap) Run(ctx context.Context) error {
	if err := b.EnsureDefaultAccounts(ctx); err != nil {
		return err
	}

	if !b.cfg.ImportEnabled || b.cfg.ImportURL == "" {
		b.logger.Info("bulk import disabled")
		b.logStoreTotals(ctx)
		return nil
	}

	source := &ingest.HTTPCSVSource{URL: b.cfg.ImportURL}
	report := b.ImportBulk(ctx, source)
	if report.Err != nil {
		b.logger.Warn("continuing without imported rows", zap.String("run_id", report.RunID))
	}
	b.logStoreTotals(ctx)
	return nil
}

// logStoreTotals records the row counts the process starts with. Best-effort;
// a count failure never blocks startup.
func (b *Bootstrap) logStoreTotals(ctx context.Context) {
	users, err := b.users.CountAll(ctx)
	if err != nil {
		b.logger.Warn("user count unavailable", zap.Error(err))
		return
	}
	queries, err := b.queries.CountAll(ctx)
	if err != nil {
		b.logger.Warn("query count unavailable", zap.Error(err))
		return
	}
	b.logger.Info("store totals", zap.Int64("users", users), zap.Int64("queries", queries))
}

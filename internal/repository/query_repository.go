package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-service/internal/domain"
)

// QueryRepository encapsulates query persistence. It is the sole writer of
// query rows; only Create and Transition mutate, and Transition is a single
// UPDATE keyed by id, so concurrent transitions on the same row serialize at
// the store with last-writer-wins semantics.
type QueryRepository interface {
	Create(ctx context.Context, q *domain.Query) error
	ImportInsert(ctx context.Context, q *domain.Query) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Query, error)
	ListAll(ctx context.Context) ([]domain.Query, error)
	ListByClient(ctx context.Context, username string) ([]domain.Query, error)
	Transition(ctx context.Context, id int64, status domain.QueryStatus, assignedTo *string, resolvedOn, resolvedTime *time.Time) error
	SyncIDSequence(ctx context.Context) error
	CountAll(ctx context.Context) (int64, error)
}

type queryRepository struct {
	pool *pgxpool.Pool
}

// NewQueryRepository instantiates the repository.
func NewQueryRepository(pool *pgxpool.Pool) QueryRepository {
	return &queryRepository{pool: pool}
}

const queryColumns = `query_id, client_name, email_id, mobile_number, query_heading, query_text,
               status, priority, submitted_on, submitted_time, resolved_on, resolved_time, assigned_to`

func (r *queryRepository) Create(ctx context.Context, q *domain.Query) error {
	const query = `
        INSERT INTO queries (client_name, email_id, mobile_number, query_heading, query_text,
                             status, priority, submitted_on, submitted_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING query_id`
	return r.pool.QueryRow(ctx, query,
		q.ClientName,
		q.Email,
		q.Mobile,
		q.Heading,
		q.Text,
		q.Status,
		q.Priority,
		q.SubmittedOn,
		clockToPg(q.SubmittedTime),
	).Scan(&q.ID)
}

// ImportInsert writes a fully populated row for bulk import and reports
// whether a row was written. Rows carrying an explicit identity insert with
// ON CONFLICT DO NOTHING, which is what makes re-imports idempotent; rows
// without one take the next serial identity.
func (r *queryRepository) ImportInsert(ctx context.Context, q *domain.Query) (bool, error) {
	if q.ID > 0 {
		const query = `
            INSERT INTO queries (query_id, client_name, email_id, mobile_number, query_heading, query_text,
                                 status, priority, submitted_on, submitted_time, resolved_on, resolved_time, assigned_to)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
            ON CONFLICT (query_id) DO NOTHING`
		cmd, err := r.pool.Exec(ctx, query,
			q.ID,
			q.ClientName,
			q.Email,
			q.Mobile,
			q.Heading,
			q.Text,
			q.Status,
			q.Priority,
			q.SubmittedOn,
			clockToPg(q.SubmittedTime),
			q.ResolvedOn,
			optionalClockToPg(q.ResolvedTime),
			q.AssignedTo,
		)
		if err != nil {
			return false, err
		}
		return cmd.RowsAffected() > 0, nil
	}

	const query = `
        INSERT INTO queries (client_name, email_id, mobile_number, query_heading, query_text,
                             status, priority, submitted_on, submitted_time, resolved_on, resolved_time, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING query_id`
	err := r.pool.QueryRow(ctx, query,
		q.ClientName,
		q.Email,
		q.Mobile,
		q.Heading,
		q.Text,
		q.Status,
		q.Priority,
		q.SubmittedOn,
		clockToPg(q.SubmittedTime),
		q.ResolvedOn,
		optionalClockToPg(q.ResolvedTime),
		q.AssignedTo,
	).Scan(&q.ID)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *queryRepository) GetByID(ctx context.Context, id int64) (*domain.Query, error) {
	query := `SELECT ` + queryColumns + ` FROM queries WHERE query_id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	q, err := scanQuery(row)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *queryRepository) ListAll(ctx context.Context) ([]domain.Query, error) {
	query := `SELECT ` + queryColumns + ` FROM queries ORDER BY query_id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQueries(rows)
}

func (r *queryRepository) ListByClient(ctx context.Context, username string) ([]domain.Query, error) {
	query := `SELECT ` + queryColumns + ` FROM queries WHERE client_name=$1 ORDER BY query_id ASC`
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQueries(rows)
}

func (r *queryRepository) Transition(ctx context.Context, id int64, status domain.QueryStatus, assignedTo *string, resolvedOn, resolvedTime *time.Time) error {
	const query = `
        UPDATE queries SET status=$1, assigned_to=$2, resolved_on=$3, resolved_time=$4
        WHERE query_id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		status,
		assignedTo,
		resolvedOn,
		optionalClockToPg(resolvedTime),
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SyncIDSequence advances the identity sequence past the highest stored id.
// Explicit-id inserts bypass the sequence, so without this call the next
// serial insert draws an already-taken id and fails its unique constraint.
func (r *queryRepository) SyncIDSequence(ctx context.Context) error {
	const query = `
        SELECT setval(pg_get_serial_sequence('queries', 'query_id'),
                      (SELECT COALESCE(MAX(query_id), 1) FROM queries))`
	_, err := r.pool.Exec(ctx, query)
	return err
}

func (r *queryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM queries`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuery(row rowScanner) (*domain.Query, error) {
	var (
		q            domain.Query
		submitted    pgtype.Time
		resolved     pgtype.Time
		resolvedDate *time.Time
	)
	if err := row.Scan(
		&q.ID,
		&q.ClientName,
		&q.Email,
		&q.Mobile,
		&q.Heading,
		&q.Text,
		&q.Status,
		&q.Priority,
		&q.SubmittedOn,
		&submitted,
		&resolvedDate,
		&resolved,
		&q.AssignedTo,
	); err != nil {
		return nil, err
	}
	q.SubmittedTime = pgToClock(submitted)
	q.ResolvedOn = resolvedDate
	if resolved.Valid {
		t := pgToClock(resolved)
		q.ResolvedTime = &t
	}
	return &q, nil
}

func scanQueries(rows pgx.Rows) ([]domain.Query, error) {
	var result []domain.Query
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *q)
	}
	return result, rows.Err()
}

// clockToPg maps a clock-only time.Time onto the TIME column codec.
func clockToPg(t time.Time) pgtype.Time {
	micros := int64(t.Hour())*int64(time.Hour/time.Microsecond) +
		int64(t.Minute())*int64(time.Minute/time.Microsecond) +
		int64(t.Second())*int64(time.Second/time.Microsecond) +
		int64(t.Nanosecond()/1000)
	return pgtype.Time{Microseconds: micros, Valid: true}
}

func optionalClockToPg(t *time.Time) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return clockToPg(*t)
}

func pgToClock(pt pgtype.Time) time.Time {
	micros := pt.Microseconds
	hours := micros / int64(time.Hour/time.Microsecond)
	micros -= hours * int64(time.Hour/time.Microsecond)
	minutes := micros / int64(time.Minute/time.Microsecond)
	micros -= minutes * int64(time.Minute/time.Microsecond)
	seconds := micros / int64(time.Second/time.Microsecond)
	micros -= seconds * int64(time.Second/time.Microsecond)
	return time.Date(0, time.January, 1, int(hours), int(minutes), int(seconds), int(micros)*1000, time.UTC)
}

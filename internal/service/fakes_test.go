package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/query-service/internal/domain"
	"github.com/spec-kit/query-service/internal/repository"
)

// fakeUserRepo is an in-memory stand-in mirroring the store's uniqueness
// semantics.
type fakeUserRepo struct {
	users  map[string]domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, exists := f.users[user.Username]; exists {
		return repository.ErrDuplicateUsername
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Username] = *user
	return nil
}

func (f *fakeUserRepo) CreateIfAbsent(_ context.Context, user *domain.User) (bool, error) {
	if _, exists := f.users[user.Username]; exists {
		return false, nil
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Username] = *user
	return true, nil
}

func (f *fakeUserRepo) GetByUsernameAndRole(_ context.Context, username string, role domain.Role) (*domain.User, error) {
	user, exists := f.users[username]
	if !exists || user.Role != role {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

// fakeQueryRepo is an in-memory stand-in mirroring the store's identity
// assignment and single-statement transition.
type fakeQueryRepo struct {
	rows   map[int64]domain.Query
	nextID int64
}

func newFakeQueryRepo() *fakeQueryRepo {
	return &fakeQueryRepo{rows: make(map[int64]domain.Query)}
}

func (f *fakeQueryRepo) Create(_ context.Context, q *domain.Query) error {
	f.nextID++
	q.ID = f.nextID
	f.rows[q.ID] = *q
	return nil
}

func (f *fakeQueryRepo) ImportInsert(_ context.Context, q *domain.Query) (bool, error) {
	if q.ID > 0 {
		if _, exists := f.rows[q.ID]; exists {
			return false, nil
		}
		f.rows[q.ID] = *q
		return true, nil
	}
	f.nextID++
	q.ID = f.nextID
	f.rows[q.ID] = *q
	return true, nil
}

func (f *fakeQueryRepo) SyncIDSequence(_ context.Context) error {
	for id := range f.rows {
		if id > f.nextID {
			f.nextID = id
		}
	}
	return nil
}

func (f *fakeQueryRepo) GetByID(_ context.Context, id int64) (*domain.Query, error) {
	q, exists := f.rows[id]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return &q, nil
}

func (f *fakeQueryRepo) ListAll(_ context.Context) ([]domain.Query, error) {
	ids := make([]int64, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.Query, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.rows[id])
	}
	return out, nil
}

func (f *fakeQueryRepo) ListByClient(ctx context.Context, username string) ([]domain.Query, error) {
	all, _ := f.ListAll(ctx)
	var out []domain.Query
	for _, q := range all {
		if q.ClientName == username {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQueryRepo) Transition(_ context.Context, id int64, status domain.QueryStatus, assignedTo *string, resolvedOn, resolvedTime *time.Time) error {
	q, exists := f.rows[id]
	if !exists {
		return pgx.ErrNoRows
	}
	q.Status = status
	q.AssignedTo = assignedTo
	q.ResolvedOn = resolvedOn
	q.ResolvedTime = resolvedTime
	f.rows[id] = q
	return nil
}

func (f *fakeQueryRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/domain"
	"github.com/spec-kit/query-service/internal/events"
	"github.com/spec-kit/query-service/internal/repository"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

// QueryService coordinates the query lifecycle. Every operation takes the
// caller's identity and consults the gate before touching the repository.
type QueryService struct {
	queries    repository.QueryRepository
	dispatcher events.Dispatcher
	cache      *ReportCache
	now        func() time.Time
}

// QueryDependencies bundles requirements for the query service.
type QueryDependencies struct {
	QueryRepo  repository.QueryRepository
	Dispatcher events.Dispatcher
	Cache      *ReportCache
}

// QueryCreateInput describes a client submission.
type QueryCreateInput struct {
	Email    string
	Mobile   string
	Heading  string
	Text     string
	Priority domain.QueryPriority
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	return &QueryService{
		queries:    deps.QueryRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		now:        time.Now,
	}
}

// Create submits a new query for the caller. The row is always stamped with
// the caller's own username; status starts Open with the submitted stamp set
// to the current moment and the resolved stamp unset.
func (s *QueryService) Create(ctx context.Context, identity domain.Identity, input QueryCreateInput) (*domain.Query, error) {
	if err := auth.Authorize(identity, auth.ActionCreateQuery, identity.Username); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	heading := strings.TrimSpace(input.Heading)
	text := strings.TrimSpace(input.Text)
	if email == "" || heading == "" || text == "" {
		return nil, apperrors.NewValidationError("email, heading, and query text are required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.QueryPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	now := s.now()
	q := &domain.Query{
		ClientName:    identity.Username,
		Email:         &email,
		Text:          text,
		Heading:       &heading,
		Status:        domain.QueryStatusOpen,
		Priority:      input.Priority,
		SubmittedOn:   now,
		SubmittedTime: now,
	}
	if mobile := strings.TrimSpace(input.Mobile); mobile != "" {
		q.Mobile = &mobile
	}

	if err := s.queries.Create(ctx, q); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventQueryCreated,
		QueryID: q.ID,
		Actor:   identity,
		Payload: events.QueryCreatedPayload{
			ClientName: q.ClientName,
			Priority:   q.Priority,
			Heading:    q.Heading,
		},
	})
	return q, nil
}

// ListOwn returns the caller's queries, ordered by identity ascending.
func (s *QueryService) ListOwn(ctx context.Context, identity domain.Identity) ([]domain.Query, error) {
	if err := auth.Authorize(identity, auth.ActionListOwnQueries, identity.Username); err != nil {
		return nil, err
	}
	return s.queries.ListByClient(ctx, identity.Username)
}

// ListAll returns every query, support only.
func (s *QueryService) ListAll(ctx context.Context, identity domain.Identity) ([]domain.Query, error) {
	if err := auth.Authorize(identity, auth.ActionListAllQueries, ""); err != nil {
		return nil, err
	}
	return s.queries.ListAll(ctx)
}

// Transition moves a query to newStatus and records the assigned agent. The
// resolved stamp is set exactly when newStatus is Resolved and cleared on any
// other status, so reverting a resolved query stays consistent. The update is
// a single statement keyed by id: racing transitions on one query resolve
// last-writer-wins at the store.
func (s *QueryService) Transition(ctx context.Context, identity domain.Identity, id int64, newStatus domain.QueryStatus, assignedTo string) (*domain.Query, error) {
	if err := auth.Authorize(identity, auth.ActionTransitionQuery, ""); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	prior, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, err
	}

	var (
		resolvedOn   *time.Time
		resolvedTime *time.Time
	)
	if newStatus == domain.QueryStatusResolved {
		now := s.now()
		resolvedOn = &now
		resolvedTime = &now
	}

	var agent *string
	if trimmed := strings.TrimSpace(assignedTo); trimmed != "" {
		agent = &trimmed
	}

	if err := s.queries.Transition(ctx, id, newStatus, agent, resolvedOn, resolvedTime); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, err
	}
	s.invalidateReports(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventQueryTransitioned,
		QueryID: id,
		Actor:   identity,
		Payload: events.QueryTransitionedPayload{
			OldStatus:  prior.Status,
			NewStatus:  newStatus,
			AssignedTo: agent,
		},
	})

	updated, err := s.queries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *QueryService) invalidateReports(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *QueryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/query-service/internal/domain"
	"github.com/spec-kit/query-service/internal/events"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

var (
	clientAlice  = domain.Identity{Username: "alice", Role: domain.RoleClient}
	clientBob    = domain.Identity{Username: "bob", Role: domain.RoleClient}
	supportAgent = domain.Identity{Username: "agent", Role: domain.RoleSupport}
)

func newQueryService(repo *fakeQueryRepo) *QueryService {
	svc := NewQueryService(QueryDependencies{QueryRepo: repo})
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	}
	return svc
}

func validInput() QueryCreateInput {
	return QueryCreateInput{
		Email:    "alice@example.com",
		Heading:  "Login broken",
		Text:     "Cannot log in since yesterday",
		Priority: domain.QueryPriorityHigh,
	}
}

func TestCreateStampsNewQuery(t *testing.T) {
	repo := newFakeQueryRepo()
	svc := newQueryService(repo)

	q, err := svc.Create(context.Background(), clientAlice, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if q.ID == 0 {
		t.Fatalf("expected assigned identity")
	}
	if q.ClientName != "alice" {
		t.Fatalf("query must be stamped with the caller's username, got %q", q.ClientName)
	}
	if q.Status != domain.QueryStatusOpen {
		t.Fatalf("new query must start Open, got %q", q.Status)
	}
	if q.SubmittedOn.IsZero() || q.SubmittedTime.IsZero() {
		t.Fatalf("submitted stamp must be set")
	}
	if q.ResolvedOn != nil || q.ResolvedTime != nil {
		t.Fatalf("resolved stamp must be unset at creation")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newQueryService(newFakeQueryRepo())
	ctx := context.Background()

	for _, mutate := range []func(*QueryCreateInput){
		func(in *QueryCreateInput) { in.Email = "" },
		func(in *QueryCreateInput) { in.Heading = "  " },
		func(in *QueryCreateInput) { in.Text = "" },
	} {
		in := validInput()
		mutate(&in)
		if _, err := svc.Create(ctx, clientAlice, in); !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	}

	in := validInput()
	in.Priority = "Critical"
	if _, err := svc.Create(ctx, clientAlice, in); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED for unknown priority")
	}
}

func TestCreateDefaultsPriority(t *testing.T) {
	svc := newQueryService(newFakeQueryRepo())

	in := validInput()
	in.Priority = ""
	q, err := svc.Create(context.Background(), clientAlice, in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if q.Priority != domain.QueryPriorityMedium {
		t.Fatalf("expected Medium default, got %q", q.Priority)
	}
}

func TestCreateDeniedForSupport(t *testing.T) {
	svc := newQueryService(newFakeQueryRepo())
	if _, err := svc.Create(context.Background(), supportAgent, validInput()); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("support must not create queries, got %v", err)
	}
}

func TestListOwnFiltersByCaller(t *testing.T) {
	repo := newFakeQueryRepo()
	svc := newQueryService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, clientAlice, validInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	bobInput := validInput()
	bobInput.Email = "bob@example.com"
	if _, err := svc.Create(ctx, clientBob, bobInput); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	own, err := svc.ListOwn(ctx, clientAlice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(own) != 1 || own[0].ClientName != "alice" {
		t.Fatalf("expected exactly alice's row, got %+v", own)
	}
	if own[0].Status != domain.QueryStatusOpen || own[0].Priority != domain.QueryPriorityHigh {
		t.Fatalf("unexpected row %+v", own[0])
	}
}

func TestListAllSupportOnly(t *testing.T) {
	repo := newFakeQueryRepo()
	svc := newQueryService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, clientAlice, validInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.ListAll(ctx, clientAlice); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("clients must not list all queries, got %v", err)
	}
	all, err := svc.ListAll(ctx, supportAgent)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 row, got %d", len(all))
	}
}

func TestTransitionResolvedRoundTrip(t *testing.T) {
	repo := newFakeQueryRepo()
	svc := newQueryService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, clientAlice, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	resolved, err := svc.Transition(ctx, supportAgent, created.ID, domain.QueryStatusResolved, "bob")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if resolved.Status != domain.QueryStatusResolved {
		t.Fatalf("expected Resolved, got %q", resolved.Status)
	}
	if resolved.ResolvedOn == nil || resolved.ResolvedTime == nil {
		t.Fatalf("resolving must set the resolved stamp")
	}
	if resolved.AssignedTo == nil || *resolved.AssignedTo != "bob" {
		t.Fatalf("expected assigned agent bob, got %v", resolved.AssignedTo)
	}

	reopened, err := svc.Transition(ctx, supportAgent, created.ID, domain.QueryStatusOpen, "bob")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if reopened.ResolvedOn != nil || reopened.ResolvedTime != nil {
		t.Fatalf("reverting from Resolved must clear the resolved stamp")
	}
	if reopened.Status != domain.QueryStatusOpen {
		t.Fatalf("expected Open, got %q", reopened.Status)
	}
}

func TestTransitionNotFound(t *testing.T) {
	repo := newFakeQueryRepo()
	svc := newQueryService(repo)
	ctx := context.Background()

	_, err := svc.Transition(ctx, supportAgent, 99, domain.QueryStatusResolved, "bob")
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if count, _ := repo.CountAll(ctx); count != 0 {
		t.Fatalf("failed transition must not mutate rows")
	}
}

func TestTransitionValidation(t *testing.T) {
	svc := newQueryService(newFakeQueryRepo())
	_, err := svc.Transition(context.Background(), supportAgent, 1, domain.QueryStatus("Closed"), "")
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED for unknown status, got %v", err)
	}
}

func TestTransitionDeniedForClient(t *testing.T) {
	repo := newFakeQueryRepo()
	svc := newQueryService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, clientAlice, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Transition(ctx, clientAlice, created.ID, domain.QueryStatusResolved, "alice"); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("clients must not transition queries, got %v", err)
	}
}

func TestLifecycleEventsPublished(t *testing.T) {
	repo := newFakeQueryRepo()
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.EventType
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventQueryCreated, record)
	dispatcher.Subscribe(events.EventQueryTransitioned, record)

	svc := NewQueryService(QueryDependencies{QueryRepo: repo, Dispatcher: dispatcher})
	ctx := context.Background()

	created, err := svc.Create(ctx, clientAlice, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Transition(ctx, supportAgent, created.ID, domain.QueryStatusInProgress, "bob"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if len(seen) != 2 || seen[0] != events.EventQueryCreated || seen[1] != events.EventQueryTransitioned {
		t.Fatalf("unexpected event sequence %v", seen)
	}
}

package service

import (
	"context"
	"testing"

	"github.com/spec-kit/query-service/internal/domain"
	apperrors "github.com/spec-kit/query-service/pkg/util"
)

func TestReportStatusCounts(t *testing.T) {
	repo := newFakeQueryRepo()
	queries := newQueryService(repo)
	reports := NewReportService(repo, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := queries.Create(ctx, clientAlice, validInput()); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	third, err := queries.Create(ctx, clientBob, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := queries.Transition(ctx, supportAgent, third.ID, domain.QueryStatusResolved, "agent"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	counts, err := reports.StatusCounts(ctx, supportAgent)
	if err != nil {
		t.Fatalf("status counts failed: %v", err)
	}
	if counts[domain.QueryStatusOpen] != 2 || counts[domain.QueryStatusResolved] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if _, present := counts[domain.QueryStatusInProgress]; present {
		t.Fatalf("absent statuses must be omitted")
	}
}

func TestReportsDeniedForClients(t *testing.T) {
	reports := NewReportService(newFakeQueryRepo(), nil)
	ctx := context.Background()

	if _, err := reports.StatusCounts(ctx, clientAlice); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if _, err := reports.SubmissionSeries(ctx, clientAlice); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestSubmissionSeriesThroughService(t *testing.T) {
	repo := newFakeQueryRepo()
	queries := newQueryService(repo)
	reports := NewReportService(repo, nil)
	ctx := context.Background()

	if _, err := queries.Create(ctx, clientAlice, validInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	series, err := reports.SubmissionSeries(ctx, supportAgent)
	if err != nil {
		t.Fatalf("series failed: %v", err)
	}
	if len(series) != 1 || series[0].Count != 1 {
		t.Fatalf("unexpected series %+v", series)
	}
}

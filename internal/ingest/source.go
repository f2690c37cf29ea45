// Package ingest supplies bulk query records to bootstrap. Sources are
// pluggable so tests can feed a fixed record set instead of a live fetch.
package ingest

import (
	"context"
	"time"

	"github.com/spec-kit/query-service/internal/domain"
)

// Record is one external bulk row: all Query attributes, plus an optional
// explicit identity used for collision detection on re-import. Nil fields
// map to the corresponding unset optional attribute.
type Record struct {
	ID            int64
	ClientName    string
	Email         *string
	Mobile        *string
	Heading       *string
	Text          string
	Status        domain.QueryStatus
	Priority      domain.QueryPriority
	SubmittedOn   time.Time
	SubmittedTime time.Time
	ResolvedOn    *time.Time
	ResolvedTime  *time.Time
	AssignedTo    *string
}

// Source yields the ordered record sequence to import.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// StaticSource serves a fixed in-memory record set.
type StaticSource struct {
	Records []Record
	Err     error
}

// Fetch returns the stored records or the configured error.
func (s *StaticSource) Fetch(_ context.Context) ([]Record, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}

// ToQuery maps a record onto the domain aggregate.
func (r Record) ToQuery() domain.Query {
	return domain.Query{
		ID:            r.ID,
		ClientName:    r.ClientName,
		Email:         r.Email,
		Mobile:        r.Mobile,
		Heading:       r.Heading,
		Text:          r.Text,
		Status:        r.Status,
		Priority:      r.Priority,
		SubmittedOn:   r.SubmittedOn,
		SubmittedTime: r.SubmittedTime,
		ResolvedOn:    r.ResolvedOn,
		ResolvedTime:  r.ResolvedTime,
		AssignedTo:    r.AssignedTo,
	}
}

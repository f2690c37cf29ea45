package events

import (
	"time"

	"github.com/spec-kit/query-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQueryCreated      EventType = "query_created"
	EventQueryTransitioned EventType = "query_transitioned"
	EventImportCompleted   EventType = "import_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	QueryID   int64           `json:"query_id,omitempty"`
	Actor     domain.Identity `json:"actor"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   interface{}     `json:"payload"`
}

// QueryCreatedPayload payload.
type QueryCreatedPayload struct {
	ClientName string               `json:"client_name"`
	Priority   domain.QueryPriority `json:"priority"`
	Heading    *string              `json:"heading,omitempty"`
}

// QueryTransitionedPayload payload.
type QueryTransitionedPayload struct {
	OldStatus  domain.QueryStatus `json:"old_status"`
	NewStatus  domain.QueryStatus `json:"new_status"`
	AssignedTo *string            `json:"assigned_to,omitempty"`
}

// ImportCompletedPayload payload.
type ImportCompletedPayload struct {
	RunID    string `json:"run_id"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

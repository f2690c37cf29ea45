package domain

import "time"

// QueryStatus enumerates lifecycle states for client queries.
type QueryStatus string

const (
	QueryStatusOpen       QueryStatus = "Open"
	QueryStatusInProgress QueryStatus = "In Progress"
	QueryStatusResolved   QueryStatus = "Resolved"
)

// ValidStatus reports whether s is one of the three known statuses.
// Transitions among them are unrestricted, so membership is the only check.
func ValidStatus(s QueryStatus) bool {
	switch s {
	case QueryStatusOpen, QueryStatusInProgress, QueryStatusResolved:
		return true
	}
	return false
}

// QueryPriority enumerates urgency levels.
type QueryPriority string

const (
	QueryPriorityLow    QueryPriority = "Low"
	QueryPriorityMedium QueryPriority = "Medium"
	QueryPriorityHigh   QueryPriority = "High"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p QueryPriority) bool {
	switch p {
	case QueryPriorityLow, QueryPriorityMedium, QueryPriorityHigh:
		return true
	}
	return false
}

// Query is the aggregate for client support queries. The store keeps the
// submitted and resolved stamps as separate date and time-of-day columns;
// both halves are carried here so round-trips preserve the stored layout.
// ResolvedOn/ResolvedTime are set if and only if Status is Resolved.
type Query struct {
	ID            int64
	ClientName    string
	Email         *string
	Mobile        *string
	Heading       *string
	Text          string
	Status        QueryStatus
	Priority      QueryPriority
	SubmittedOn   time.Time
	SubmittedTime time.Time
	ResolvedOn    *time.Time
	ResolvedTime  *time.Time
	AssignedTo    *string
}

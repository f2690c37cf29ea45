package dto

import (
	"time"

	"github.com/spec-kit/query-service/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// QueryCreateRequest payload for client submissions.
type QueryCreateRequest struct {
	Email    string               `json:"email"`
	Mobile   string               `json:"mobile"`
	Heading  string               `json:"heading"`
	Text     string               `json:"text"`
	Priority domain.QueryPriority `json:"priority"`
}

// TransitionRequest payload for support status updates.
type TransitionRequest struct {
	Status     domain.QueryStatus `json:"status"`
	AssignedTo string             `json:"assigned_to"`
}

// QueryResponse mirrors the stored row, with the date and time-of-day halves
// of each stamp rendered separately.
type QueryResponse struct {
	ID            int64   `json:"query_id"`
	ClientName    string  `json:"client_name"`
	Email         *string `json:"email,omitempty"`
	Mobile        *string `json:"mobile,omitempty"`
	Heading       *string `json:"heading,omitempty"`
	Text          string  `json:"text"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	SubmittedOn   string  `json:"submitted_on"`
	SubmittedTime string  `json:"submitted_time"`
	ResolvedOn    *string `json:"resolved_on,omitempty"`
	ResolvedTime  *string `json:"resolved_time,omitempty"`
	AssignedTo    *string `json:"assigned_to,omitempty"`
}

// FromQuery maps the domain aggregate to its response shape.
func FromQuery(q domain.Query) QueryResponse {
	resp := QueryResponse{
		ID:            q.ID,
		ClientName:    q.ClientName,
		Email:         q.Email,
		Mobile:        q.Mobile,
		Heading:       q.Heading,
		Text:          q.Text,
		Status:        string(q.Status),
		Priority:      string(q.Priority),
		SubmittedOn:   q.SubmittedOn.Format(dateLayout),
		SubmittedTime: q.SubmittedTime.Format(timeLayout),
		AssignedTo:    q.AssignedTo,
	}
	if q.ResolvedOn != nil {
		s := q.ResolvedOn.Format(dateLayout)
		resp.ResolvedOn = &s
	}
	if q.ResolvedTime != nil {
		s := q.ResolvedTime.Format(timeLayout)
		resp.ResolvedTime = &s
	}
	return resp
}

// FromQueries maps a snapshot preserving order.
func FromQueries(queries []domain.Query) []QueryResponse {
	out := make([]QueryResponse, 0, len(queries))
	for _, q := range queries {
		out = append(out, FromQuery(q))
	}
	return out
}

// SeriesPoint is one submission-series entry with its date rendered as the
// stored DATE column.
type SeriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// FormatSeriesDate renders a series date.
func FormatSeriesDate(t time.Time) string {
	return t.Format(dateLayout)
}

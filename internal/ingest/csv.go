package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/query-service/internal/domain"
)

// HTTPCSVSource fetches a CSV record set over HTTP. The first row must be a
// header naming the query columns; cells left empty map to unset attributes.
type HTTPCSVSource struct {
	URL    string
	Client *http.Client
}

// Fetch downloads and decodes the CSV document.
func (s *HTTPCSVSource) Fetch(ctx context.Context) ([]Record, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch csv: unexpected status %d", resp.StatusCode)
	}
	return DecodeCSV(resp.Body)
}

// DecodeCSV reads a header-led CSV stream into bulk records.
func DecodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"client_name", "query_text", "status", "priority", "submitted_on", "submitted_time"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", required)
		}
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		rec, err := decodeRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRow(cols map[string]int, row []string) (Record, error) {
	rec := Record{
		ClientName: cell(cols, row, "client_name"),
		Email:      optionalCell(cols, row, "email_id"),
		Mobile:     optionalCell(cols, row, "mobile_number"),
		Heading:    optionalCell(cols, row, "query_heading"),
		Text:       cell(cols, row, "query_text"),
		AssignedTo: optionalCell(cols, row, "assigned_to"),
	}

	if rec.ClientName == "" || rec.Text == "" {
		return Record{}, fmt.Errorf("client_name and query_text are required")
	}

	if raw := cell(cols, row, "query_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("invalid query_id %q", raw)
		}
		rec.ID = id
	}

	rec.Status = domain.QueryStatus(cell(cols, row, "status"))
	if !domain.ValidStatus(rec.Status) {
		return Record{}, fmt.Errorf("unknown status %q", rec.Status)
	}
	rec.Priority = domain.QueryPriority(cell(cols, row, "priority"))
	if !domain.ValidPriority(rec.Priority) {
		return Record{}, fmt.Errorf("unknown priority %q", rec.Priority)
	}

	submittedOn, err := time.Parse("2006-01-02", cell(cols, row, "submitted_on"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid submitted_on: %w", err)
	}
	rec.SubmittedOn = submittedOn

	submittedTime, err := parseClock(cell(cols, row, "submitted_time"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid submitted_time: %w", err)
	}
	rec.SubmittedTime = submittedTime

	if raw := cell(cols, row, "resolved_on"); raw != "" {
		resolvedOn, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Record{}, fmt.Errorf("invalid resolved_on: %w", err)
		}
		rec.ResolvedOn = &resolvedOn
	}
	if raw := cell(cols, row, "resolved_time"); raw != "" {
		resolvedTime, err := parseClock(raw)
		if err != nil {
			return Record{}, fmt.Errorf("invalid resolved_time: %w", err)
		}
		rec.ResolvedTime = &resolvedTime
	}

	return rec, nil
}

func parseClock(raw string) (time.Time, error) {
	for _, layout := range []string{"15:04:05.999999", "15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}

func cell(cols map[string]int, row []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(cols map[string]int, row []string, name string) *string {
	val := cell(cols, row, name)
	if val == "" {
		return nil
	}
	return &val
}

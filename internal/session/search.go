package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

// SearchRecorder mirrors audit events into an Elasticsearch index so a
// journey's history can be looked up by application id.
type SearchRecorder struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchRecorder(client *elasticsearch.Client, index string) *SearchRecorder {
	return &SearchRecorder{client: client, index: index}
}

func (r *SearchRecorder) Record(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, e := range events {
		meta := map[string]interface{}{"index": map[string]string{"_id": uuid.NewString()}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode audit event: %w", err)
		}
	}

	res, err := r.client.Bulk(&body,
		r.client.Bulk.WithContext(ctx),
		r.client.Bulk.WithIndex(r.index),
	)
	if err != nil {
		return fmt.Errorf("index audit events: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index audit events: %s", res.Status())
	}

	var bulk struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if bulk.Errors {
		return errors.New("index audit events: some documents were rejected")
	}
	return nil
}

const historyQuery = `{
	"size": %d,
	"query": {"term": {"applicationId": %q}},
	"sort": [{"at": {"order": "asc"}}]
}`

// History returns up to limit events of applicationID, oldest first.
func (r *SearchRecorder) History(ctx context.Context, applicationID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(strings.NewReader(fmt.Sprintf(historyQuery, limit, applicationID))),
	)
	if err != nil {
		return nil, fmt.Errorf("search audit events: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search audit events: %s: %s", res.Status(), raw)
	}

	var found struct {
		Hits struct {
			Hits []struct {
				Source Event `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&found); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	events := make([]Event, 0, len(found.Hits.Hits))
	for _, h := range found.Hits.Hits {
		events = append(events, h.Source)
	}
	return events, nil
}

// Recorders writes to every recorder in turn and joins their errors.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, events []Event) error {
	var errs []error
	for _, r := range rs {
		if err := r.Record(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package session

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-journey-workers/internal/journey"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSearchServer fakes an Elasticsearch node. The product header is
// required by the client before it accepts any response.
func newSearchServer(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestSearchRecorder_Record(t *testing.T) {
	var lines []string
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/journey-events/_bulk", r.URL.Path)
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		_, _ = io.WriteString(w, `{"took":3,"errors":false,"items":[]}`)
	})

	at := time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC)
	events := []Event{
		eventFromChange("app-1", journey.Change{Kind: journey.ChangeStep, From: journey.StepWelcome, To: journey.StepPreQualification}, at),
		eventFromChange("app-1", journey.Change{Kind: journey.ChangeDocument, From: journey.StepKYCProcess, To: journey.StepKYCProcess, Document: journey.DocumentIDFront, Uploaded: true}, at),
	}

	require.NoError(t, NewSearchRecorder(client, "journey-events").Record(context.Background(), events))
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	assert.NotEmpty(t, action["index"]["_id"])

	var doc Event
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &doc))
	assert.Equal(t, EventDocumentProgress, doc.Type)
	assert.Equal(t, "idFront", doc.Details["document"])
}

func TestSearchRecorder_RecordRejected(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"took":1,"errors":true,"items":[]}`)
	})

	err := NewSearchRecorder(client, "journey-events").Record(context.Background(), []Event{{ApplicationID: "a", Type: EventStepChanged}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestSearchRecorder_History(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/journey-events/_search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"app-7"`)
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_source":{"applicationId":"app-7","type":"step_changed","from":"welcome","to":"pre-qualification","at":"2024-07-10T09:00:00Z"}},
			{"_source":{"applicationId":"app-7","type":"step_changed","from":"pre-qualification","to":"pan-verification","at":"2024-07-10T09:00:02Z"}}
		]}}`)
	})

	events, err := NewSearchRecorder(client, "journey-events").History(context.Background(), "app-7", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, journey.StepPanVerification, events[1].To)
}

func TestSearchRecorder_HistoryMissingIndex(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
	})

	events, err := NewSearchRecorder(client, "journey-events").History(context.Background(), "app-7", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

type failingRecorder struct{ err error }

func (f failingRecorder) Record(context.Context, []Event) error { return f.err }

func TestRecorders(t *testing.T) {
	boom := errors.New("es down")
	err := Recorders{NopRecorder{}, failingRecorder{boom}}.Record(context.Background(), []Event{{ApplicationID: "a"}})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, Recorders{NopRecorder{}}.Record(context.Background(), nil))
}

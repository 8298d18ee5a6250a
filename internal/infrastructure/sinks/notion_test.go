package sinks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotionClient(baseURL string) *NotionClient {
	return &NotionClient{
		apiKey:  "secret-token",
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func TestNotionSink_CreatesOnePagePerRecord(t *testing.T) {
	var pages []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pages", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, notionVersion, r.Header.Get("Notion-Version"))

		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &payload))
		pages = append(pages, payload)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	sink := &NotionSink{Client: testNotionClient(server.URL), DatabaseID: "db-123"}
	batch := sampleBatch()
	require.NoError(t, sink.Export(context.Background(), batch))
	require.Len(t, pages, len(batch.Records))

	parent := pages[0]["parent"].(map[string]interface{})
	assert.Equal(t, "db-123", parent["database_id"])

	props := pages[0]["properties"].(map[string]interface{})
	require.Contains(t, props, "Name", "the title property is mandatory")
	assert.Contains(t, props, "Score")
}

func TestNotionSink_RecordFailureDoesNotStopOthers(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	sink := &NotionSink{Client: testNotionClient(server.URL), DatabaseID: "db-123"}
	err := sink.Export(context.Background(), sampleBatch())
	assert.Error(t, err, "the failed record surfaces")
	assert.Equal(t, 2, calls, "remaining records still push")
}

func TestAttachExternalFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/blocks/block-9/children", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Children []map[string]interface{} `json:"children"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Len(t, payload.Children, 2)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testNotionClient(server.URL)
	err := client.AttachExternalFiles(context.Background(), "block-9", map[string]string{
		"evidence.csv": "https://example.com/raw/evidence.csv",
		"evidence.md":  "https://example.com/raw/evidence.md",
	})
	assert.NoError(t, err)

	err = client.AttachExternalFiles(context.Background(), "block-9", nil)
	assert.Error(t, err, "nothing to attach is an error the caller warns about")
}

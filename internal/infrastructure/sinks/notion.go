package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

const (
	notionAPIBase = "https://api.notion.com"
	notionVersion = "2022-06-28"

	notionTitleMax = 200
	notionTextMax  = 1900
)

// NotionClient wraps the two Notion operations this tool needs: pushing
// records into a database and attaching published file links to a
// block.
type NotionClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewNotionClient(apiKey string) *NotionClient {
	return &NotionClient{
		apiKey:  apiKey,
		baseURL: notionAPIBase,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NotionSink creates one database page per scored record. Notion
// requires a title property, synthesized as "subreddit – author".
type NotionSink struct {
	Client     *NotionClient
	DatabaseID string
}

func (s *NotionSink) Name() string { return "notion" }

func (s *NotionSink) Export(ctx context.Context, b Batch) error {
	var errs []error
	for _, rec := range b.Records {
		if err := s.Client.createPage(ctx, s.DatabaseID, rec); err != nil {
			log.Warn().Err(err).Str("comment", rec.CommentURL).Msg("Notion push failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *NotionClient) createPage(ctx context.Context, databaseID string, rec domain.ScoredRecord) error {
	payload := map[string]interface{}{
		"parent": map[string]string{"database_id": databaseID},
		"properties": map[string]interface{}{
			"Name":        titleProp(truncate(fmt.Sprintf("%s – %s", rec.Subreddit, rec.Author), notionTitleMax)),
			"Subreddit":   richTextProp("r/" + rec.Subreddit),
			"Thread URL":  map[string]string{"url": rec.ThreadURL},
			"Comment URL": map[string]string{"url": rec.CommentURL},
			"Author":      richTextProp(rec.Author),
			"Score":       map[string]int{"number": rec.Score},
			"Post":        richTextProp(truncate(rec.Body, notionTextMax)),
		},
	}
	return c.post(ctx, "/v1/pages", payload)
}

// AttachExternalFiles appends one external-file block per published URL
// to the given block, captioned by filename.
func (c *NotionClient) AttachExternalFiles(ctx context.Context, blockID string, urlsByName map[string]string) error {
	if len(urlsByName) == 0 {
		return fmt.Errorf("no public URLs to attach")
	}

	var children []map[string]interface{}
	for name, publicURL := range urlsByName {
		children = append(children, map[string]interface{}{
			"object": "block",
			"type":   "file",
			"file": map[string]interface{}{
				"type":     "external",
				"external": map[string]string{"url": publicURL},
				"caption": []map[string]interface{}{
					{"type": "text", "text": map[string]string{"content": name}},
				},
			},
		})
	}

	return c.patch(ctx, fmt.Sprintf("/v1/blocks/%s/children", blockID), map[string]interface{}{
		"children": children,
	})
}

func (c *NotionClient) post(ctx context.Context, path string, payload interface{}) error {
	return c.send(ctx, http.MethodPost, path, payload)
}

func (c *NotionClient) patch(ctx context.Context, path string, payload interface{}) error {
	return c.send(ctx, http.MethodPatch, path, payload)
}

func (c *NotionClient) send(ctx context.Context, method, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, detail)
	}
	return nil
}

func titleProp(s string) map[string]interface{} {
	return map[string]interface{}{
		"title": []map[string]interface{}{
			{"text": map[string]string{"content": s}},
		},
	}
}

func richTextProp(s string) map[string]interface{} {
	return map[string]interface{}{
		"rich_text": []map[string]interface{}{
			{"text": map[string]string{"content": s}},
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

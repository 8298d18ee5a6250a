package sinks

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const githubAPIBase = "https://api.github.com"

// GitHubPublisher uploads exported files somewhere publicly reachable
// (a gist or a repository branch) and returns one stable raw URL per
// file. The Notion file-attachment step consumes those URLs.
type GitHubPublisher struct {
	Token       string
	Repo        string // owner/repo, for the repo target
	Branch      string
	PathPrefix  string
	Description string

	baseURL string
	http    *http.Client
}

func NewGitHubPublisher(token string) *GitHubPublisher {
	return &GitHubPublisher{
		Token:   token,
		Branch:  "main",
		baseURL: githubAPIBase,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// PublishGist uploads all files into a single public gist and returns
// filename → raw URL.
func (p *GitHubPublisher) PublishGist(ctx context.Context, paths []string) (map[string]string, error) {
	files := map[string]map[string]string{}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files[filepath.Base(path)] = map[string]string{"content": string(content)}
	}

	desc := p.Description
	if desc == "" {
		desc = "Reddit scraping exports"
	}
	payload := map[string]interface{}{
		"description": desc,
		"public":      true,
		"files":       files,
	}

	var result struct {
		Files map[string]struct {
			RawURL string `json:"raw_url"`
		} `json:"files"`
	}
	if err := p.send(ctx, http.MethodPost, "/gists", payload, &result); err != nil {
		return nil, fmt.Errorf("create gist: %w", err)
	}

	urls := make(map[string]string, len(result.Files))
	for name, meta := range result.Files {
		if meta.RawURL != "" {
			urls[name] = meta.RawURL
		}
	}
	return urls, nil
}

// PublishRepo creates or updates each file on the configured branch via
// the contents API and returns filename → raw.githubusercontent URL.
func (p *GitHubPublisher) PublishRepo(ctx context.Context, paths []string) (map[string]string, error) {
	if p.Repo == "" {
		return nil, fmt.Errorf("repo target requires owner/repo")
	}

	urls := make(map[string]string, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		name := filepath.Base(path)
		relPath := name
		if p.PathPrefix != "" {
			relPath = p.PathPrefix + "/" + name
		}

		rawURL, err := p.putContents(ctx, relPath, content)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}
		urls[name] = rawURL
	}
	return urls, nil
}

func (p *GitHubPublisher) putContents(ctx context.Context, relPath string, content []byte) (string, error) {
	apiPath := fmt.Sprintf("/repos/%s/contents/%s", p.Repo, relPath)

	// An existing file needs its blob SHA to be replaced.
	var existing struct {
		SHA string `json:"sha"`
	}
	_ = p.send(ctx, http.MethodGet, apiPath+"?ref="+p.Branch, nil, &existing)

	payload := map[string]interface{}{
		"message": fmt.Sprintf("Upload %s from scraper", filepath.Base(relPath)),
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  p.Branch,
	}
	if existing.SHA != "" {
		payload["sha"] = existing.SHA
	}

	if err := p.send(ctx, http.MethodPut, apiPath, payload, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", p.Repo, p.Branch, relPath), nil
}

func (p *GitHubPublisher) send(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+p.Token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, detail)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

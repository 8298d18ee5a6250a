package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Subreddits)
	assert.NotEmpty(t, cfg.Queries)
	assert.Equal(t, 15, cfg.MaxThreadsPerQuery)
	assert.Equal(t, 100, cfg.MaxCommentsPerThread)
	assert.True(t, cfg.Sinks.CSV.Enabled)
	assert.True(t, cfg.Sinks.Markdown.Enabled)
	assert.False(t, cfg.Sinks.Postgres.Enabled)

	timeout, err := cfg.RedditTimeout()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, timeout)

	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, ttl)
}

func TestLoad_PartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfig(t, `
subreddits: [AI_Agents]
min_score: 40
reddit:
  timeout: 5s
  requests_per_second: 2
sinks:
  csv:
    enabled: true
    path: out/custom.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"AI_Agents"}, cfg.Subreddits)
	assert.Equal(t, 40, cfg.MinScore)
	assert.Equal(t, "out/custom.csv", cfg.Sinks.CSV.Path)

	timeout, err := cfg.RedditTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)

	// Untouched sections keep their defaults.
	assert.Equal(t, 15, cfg.MaxThreadsPerQuery)
	assert.NotEmpty(t, cfg.Queries)
	assert.Equal(t, "main", cfg.Sinks.GitHub.Branch)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"min score above range", "min_score: 101"},
		{"negative min score", "min_score: -1"},
		{"zero threads per query", "max_threads_per_query: 0"},
		{"bad timeout", "reddit:\n  timeout: soon"},
		{"bad cache ttl", "cache:\n  ttl: forever"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_PostgresEnabledWithoutDSNStillLoads(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	// A missing DSN downgrades the sink at build time; it never blocks
	// the file exports from running.
	cfg, err := Load(writeConfig(t, "sinks:\n  postgres:\n    enabled: true"))
	require.NoError(t, err)
	assert.True(t, cfg.Sinks.Postgres.Enabled)
	assert.Empty(t, cfg.Sinks.Postgres.DSN)
}

func TestLoad_EnvOverlaysCredentials(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "notion-secret")
	t.Setenv("GITHUB_TOKEN", "gh-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "notion-secret", cfg.Sinks.Notion.APIKey)
	assert.Equal(t, "gh-secret", cfg.Sinks.GitHub.Token)
}

func TestLoad_FileWinsOverEnv(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "env-secret")

	path := writeConfig(t, `
sinks:
  notion:
    api_key: file-secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.Sinks.Notion.APIKey)
}

func TestEffectiveLexicon_MergesOverrides(t *testing.T) {
	path := writeConfig(t, `
lexicon:
  tools: [customtool]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	lex := cfg.EffectiveLexicon()
	assert.Equal(t, []string{"customtool"}, lex.Tools)
	// Lists not overridden come from the defaults.
	assert.NotEmpty(t, lex.FailureCues)
	assert.NotEmpty(t, lex.Recurrence[domain.RecurrenceMonth])
}

func TestEffectiveWeights(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWeights(), cfg.EffectiveWeights())

	path := writeConfig(t, `
weights:
  revenue_base: 30
  revenue_cap: 60
`)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.EffectiveWeights().RevenueBase)
	assert.Equal(t, 60, cfg.EffectiveWeights().RevenueCap)
}

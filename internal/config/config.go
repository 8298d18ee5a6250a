// Package config loads the scanner configuration from YAML, fills
// defaults for anything missing and overlays secrets from the
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DFATPUNK/scraping-reddit/internal/domain"
)

const DefaultPath = "config/scraper.yaml"

type Config struct {
	Subreddits []string `yaml:"subreddits"`
	Queries    []string `yaml:"queries"`

	MaxThreadsPerQuery   int `yaml:"max_threads_per_query"`
	MaxCommentsPerThread int `yaml:"max_comments_per_thread"`

	MinScore       int  `yaml:"min_score"`
	AllowNoNumbers bool `yaml:"allow_no_numbers"`
	Workers        int  `yaml:"workers"`

	Reddit RedditConfig `yaml:"reddit"`
	Cache  CacheConfig  `yaml:"cache"`
	Sinks  SinksConfig  `yaml:"sinks"`

	// Lexicon entries overlay the built-in keyword lists; Weights, when
	// present, replace the default scoring table wholesale.
	Lexicon domain.Lexicon  `yaml:"lexicon"`
	Weights *domain.Weights `yaml:"weights"`
}

type RedditConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	Timeout           string  `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

type SinksConfig struct {
	CSV      FileSinkConfig `yaml:"csv"`
	Markdown FileSinkConfig `yaml:"markdown"`
	Postgres PostgresConfig `yaml:"postgres"`
	Notion   NotionConfig   `yaml:"notion"`
	GitHub   GitHubConfig   `yaml:"github"`
}

type FileSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type PostgresConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type NotionConfig struct {
	APIKey     string `yaml:"api_key"`
	DatabaseID string `yaml:"database_id"`
	BlockID    string `yaml:"block_id"`
}

type GitHubConfig struct {
	Token      string `yaml:"token"`
	Repo       string `yaml:"repo"`
	Branch     string `yaml:"branch"`
	PathPrefix string `yaml:"path_prefix"`
}

// Load reads path (DefaultPath when empty). A missing file is not an
// error: defaults cover a credential-free CSV/Markdown run.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}

	overlayEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Subreddits: []string{
			"AI_Agents", "Entrepreneur", "SaaS", "startups",
			"ArtificialIntelligence", "nocode", "automation",
		},
		Queries: []string{
			"making money AI agents",
			"selling AI agents",
			"AI agent revenue",
			"agent as a service",
			"monetize AI agent",
			"clients AI agent niche",
		},
		MaxThreadsPerQuery:   15,
		MaxCommentsPerThread: 100,
		Reddit: RedditConfig{
			UserAgent:         "ai-agents-scraper/1.0",
			RequestsPerSecond: 1,
			Burst:             2,
			Timeout:           "20s",
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  "15m",
		},
		Sinks: SinksConfig{
			CSV:      FileSinkConfig{Enabled: true, Path: "reddit_ai_agents.csv"},
			Markdown: FileSinkConfig{Enabled: true, Path: "reddit_ai_agents.md"},
			GitHub:   GitHubConfig{Branch: "main", PathPrefix: "scraping"},
		},
	}
}

// overlayEnv fills credentials that should not live in the YAML file.
func overlayEnv(cfg *Config) {
	setIfEmpty(&cfg.Sinks.Notion.APIKey, "NOTION_API_KEY")
	setIfEmpty(&cfg.Sinks.Notion.DatabaseID, "NOTION_DATABASE_ID")
	setIfEmpty(&cfg.Sinks.Notion.BlockID, "NOTION_BLOCK_ID")
	setIfEmpty(&cfg.Sinks.GitHub.Token, "GITHUB_TOKEN")
	setIfEmpty(&cfg.Sinks.GitHub.Repo, "GITHUB_REPO")
	setIfEmpty(&cfg.Sinks.Postgres.DSN, "POSTGRES_DSN")
}

func setIfEmpty(dst *string, env string) {
	if *dst == "" {
		*dst = os.Getenv(env)
	}
}

func validate(cfg *Config) error {
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		return fmt.Errorf("min_score must be within [0,100], got %d", cfg.MinScore)
	}
	if cfg.MaxThreadsPerQuery <= 0 {
		return fmt.Errorf("max_threads_per_query must be positive")
	}
	if cfg.MaxCommentsPerThread < 0 {
		return fmt.Errorf("max_comments_per_thread must be non-negative")
	}
	if cfg.Reddit.RequestsPerSecond <= 0 {
		return fmt.Errorf("reddit.requests_per_second must be positive")
	}
	if _, err := cfg.RedditTimeout(); err != nil {
		return fmt.Errorf("reddit.timeout: %w", err)
	}
	if _, err := cfg.CacheTTL(); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	return nil
}

func (c *Config) RedditTimeout() (time.Duration, error) {
	if c.Reddit.Timeout == "" {
		return 20 * time.Second, nil
	}
	return time.ParseDuration(c.Reddit.Timeout)
}

func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 15 * time.Minute, nil
	}
	return time.ParseDuration(c.Cache.TTL)
}

// EffectiveLexicon merges configured keyword overrides onto defaults.
func (c *Config) EffectiveLexicon() domain.Lexicon {
	return domain.DefaultLexicon().Merge(c.Lexicon)
}

// EffectiveWeights returns the configured scoring table or the default.
func (c *Config) EffectiveWeights() domain.Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return domain.DefaultWeights()
}

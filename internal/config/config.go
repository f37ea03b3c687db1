package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docsite/internal/toc"
)

type Config struct {
	Port string

	// Site content
	SourceDir string
	OutputDir string

	// Auth
	DocsiteAPIKey string

	// Static-host publishing (optional)
	PublishURL    string
	PublishAPIKey string

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentRender int

	// Job state
	JobTTL time.Duration

	// Render stats window
	StatsWindow time.Duration

	// ToC shape
	TocIncludePages   bool
	TocIncludeHeaders bool
	TocOrdered        bool
	TocMaxDepth       int
	TocAutoExpand     bool
	TocMaxExpandDepth int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		SourceDir: envOr("SOURCE_DIR", "docs"),
		OutputDir: envOr("OUTPUT_DIR", "public"),

		DocsiteAPIKey: os.Getenv("DOCSITE_API_KEY"),

		PublishURL:    os.Getenv("PUBLISH_URL"),
		PublishAPIKey: os.Getenv("PUBLISH_API_KEY"),

		WorkerCount:         envInt("WORKER_COUNT", 2),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 16),
		MaxConcurrentRender: envInt("MAX_CONCURRENT_RENDER", 8),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		TocIncludePages:   envBool("TOC_INCLUDE_PAGES", true),
		TocIncludeHeaders: envBool("TOC_INCLUDE_HEADERS", true),
		TocOrdered:        envBool("TOC_ORDERED", true),
		TocMaxDepth:       envInt("TOC_MAX_DEPTH", 6),
		TocAutoExpand:     envBool("TOC_AUTO_EXPAND", false),
		TocMaxExpandDepth: envInt("TOC_MAX_EXPAND_DEPTH", 1),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 16
	}
	if cfg.MaxConcurrentRender <= 0 {
		cfg.MaxConcurrentRender = 8
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}
	if cfg.TocMaxDepth < 0 {
		cfg.TocMaxDepth = 0
	}
	if cfg.TocMaxExpandDepth < 0 {
		cfg.TocMaxExpandDepth = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DocsiteAPIKey == "" {
		return fmt.Errorf("DOCSITE_API_KEY is required")
	}
	if c.SourceDir == "" {
		return fmt.Errorf("SOURCE_DIR is required")
	}
	if c.PublishURL != "" && c.PublishAPIKey == "" {
		return fmt.Errorf("PUBLISH_API_KEY is required when PUBLISH_URL is set")
	}
	return nil
}

// TocConfig maps the environment settings onto the ToC builder options.
func (c Config) TocConfig() toc.Config {
	return toc.Config{
		IncludePages:   c.TocIncludePages,
		IncludeHeaders: c.TocIncludeHeaders,
		Ordered:        c.TocOrdered,
		MaxDepth:       c.TocMaxDepth,
		AutoExpand:     c.TocAutoExpand,
		MaxExpandDepth: c.TocMaxExpandDepth,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

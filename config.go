package inkwell

import (
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
)

// SiteConfig holds all configuration for an inkwell site.
type SiteConfig struct {
	Name        string `env:"INKWELL_SITE_NAME"`        // Site name (default "Blog")
	URL         string `env:"INKWELL_SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `env:"INKWELL_SITE_DESCRIPTION"` // Site description for RSS and meta tags
	Author      string `env:"INKWELL_SITE_AUTHOR"`      // Author name for JSON-LD

	Addr       string `env:"INKWELL_ADDR"`        // Listen address (default ":3000")
	ContentDir string `env:"INKWELL_CONTENT_DIR"` // Markdown content directory (default "content")

	// Environment selects draft visibility: "production" hides drafts
	// everywhere, "development" shows them. Preview sessions override
	// this per-visitor in production.
	Environment string `env:"INKWELL_ENV"`

	PageSize int `env:"INKWELL_PAGE_SIZE"` // Posts per listing page (default 10)

	AnalyticsEnabled      bool   `env:"INKWELL_ANALYTICS_ENABLED" envDefault:"true"`
	AnalyticsDatabasePath string `env:"INKWELL_ANALYTICS_DB_PATH"` // SQLite path (default "data/pageviews.db")

	PreviewPassword string `env:"INKWELL_PREVIEW_PASSWORD"` // Required: preview login password
	SessionSecret   string `env:"INKWELL_SESSION_SECRET"`   // Required: session encryption secret
	CookieSecure    bool   `env:"INKWELL_COOKIE_SECURE"`    // Set true for HTTPS

	ContentCacheTTL time.Duration `env:"INKWELL_CONTENT_CACHE_TTL"` // Content cache TTL (default 5min)
}

// ConfigFromEnv builds a SiteConfig from INKWELL_* environment variables.
func ConfigFromEnv() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/pageviews.db"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
}

// Development reports whether the site runs with drafts visible to everyone.
func (c SiteConfig) Development() bool {
	return c.Environment == "development"
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContentFS overrides the content filesystem, which otherwise is the
// ContentDir on disk. Useful for embedding content or for tests.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

package newsdesk

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SiteConfig holds all configuration for a newsdesk site.
type SiteConfig struct {
	Name        string // Site name (default "Newsdesk")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr            string // Listen address (default ":3000")
	DatabasePath    string // SQLite path (default "data/newsdesk.db")
	ContentPath     string // Content document (default "data/content.json")
	CredentialsPath string // Admin credentials file (default "admin.credentials.json")

	SessionSecret string        // Required: session cookie and token signing secret
	TokenTTL      time.Duration // Admin token lifetime (default 12h)
	CookieSecure  bool          // Set true for HTTPS

	CacheTTL time.Duration // Article cache TTL (default 5min)
	Debug    bool          // Debug logging
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Newsdesk"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/newsdesk.db"
	}
	if c.ContentPath == "" {
		c.ContentPath = "data/content.json"
	}
	if c.CredentialsPath == "" {
		c.CredentialsPath = "admin.credentials.json"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 12 * time.Hour
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
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

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default JSON logger.
func WithLogger(log *logrus.Logger) Option {
	return func(a *App) {
		a.Log = log
	}
}

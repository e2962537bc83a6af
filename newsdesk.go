// Package newsdesk is a news website engine built with Go, Echo, and templ.
// It serves a public article feed with a hero carousel, category sections,
// search and a breaking-news ticker, plus an admin surface backed by SQLite
// and a flat-file content document.
//
// Callers provide templ components through ViewFuncs; newsdesk owns the
// handlers, middleware, storage and JSON APIs.
package newsdesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eringen/newsdesk/auth"
	"github.com/eringen/newsdesk/content"
	"github.com/eringen/newsdesk/upload"
)

// ViewFuncs holds the templ components the handlers render. Any nil field
// falls back to a bare built-in page.
type ViewFuncs struct {
	Home           func(page HomePage, cfg SiteConfig) templ.Component
	Category       func(page CategoryPage, cfg SiteConfig) templ.Component
	Article        func(page ArticlePage, cfg SiteConfig) templ.Component
	Search         func(page SearchPage, cfg SiteConfig) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(d Dashboard, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central newsdesk application. It wires together the stores,
// cache, upload service, token manager, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *ArticleCache
	Content *content.Store
	Uploads *upload.Service
	Tokens  *auth.TokenManager
	Log     *logrus.Logger
	Views   ViewFuncs

	metrics      *metrics
	loginLimiter *AttemptLimiter
	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates a newsdesk App with the given configuration and view functions.
// Nothing is opened until Init or Start.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		Views:     views.withFallbacks(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		a.Log = NewLogger(cfg.Debug)
	}

	return a
}

// Init opens the stores and registers middleware and routes. Start calls it;
// tests call it directly and drive a.Echo through httptest.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return errors.New("newsdesk: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("newsdesk: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewArticleCache(a.Store, a.Config.CacheTTL)
	a.Content = content.NewStore(a.Config.ContentPath, a.Log)
	a.Uploads = upload.NewService(filepath.Join(a.staticDir, "uploads"), "/uploads")
	a.Tokens = auth.NewTokenManager(a.Config.SessionSecret, a.Config.TokenTTL)
	a.loginLimiter = NewAttemptLimiter(5, time.Minute)
	a.metrics = newMetrics()

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the app and serves until the server is closed.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Log.WithFields(logrus.Fields{
		"addr": a.Config.Addr,
		"url":  a.Config.URL,
	}).Info("newsdesk listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.Static("/uploads", a.Uploads.Dir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", a.metrics.handler())

	// Public pages
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/category/:slug/", a.handleCategory)
	e.GET("/article/:slug/", a.handleArticle)
	e.GET("/search/", a.handleSearch)

	// Admin pages
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	// JSON API
	api := e.Group("/api")
	api.GET("/content", a.handleGetContent)
	api.POST("/content", a.handlePostContent, requireAdmin)
	api.POST("/upload", a.handleUpload, requireAdmin)
	api.POST("/auth/token", a.handleIssueToken)
	api.GET("/articles", a.handleListArticles)
	api.GET("/articles/:slug", a.handleGetArticle)
	api.GET("/categories", a.handleListCategories)
	api.GET("/tags", a.handleListTags)

	admin := api.Group("/admin", requireAdmin)
	admin.POST("/articles", a.handleSaveArticle)
	admin.DELETE("/articles/:id", a.handleDeleteArticle)
	admin.POST("/categories", a.handleSaveCategory)
	admin.DELETE("/categories/:slug", a.handleDeleteCategory)
	admin.GET("/settings", a.handleGetSettings)
	admin.POST("/settings", a.handleSaveSettings)
}

// Shutdown stops the server gracefully, then releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Echo.Shutdown(ctx); err != nil {
		return err
	}
	return a.Close()
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (v ViewFuncs) withFallbacks() ViewFuncs {
	if v.Home == nil {
		v.Home = func(p HomePage, cfg SiteConfig) templ.Component {
			return fallbackPage(cfg.Name, p.Latest)
		}
	}
	if v.Category == nil {
		v.Category = func(p CategoryPage, cfg SiteConfig) templ.Component {
			return fallbackPage(p.Category.Name, p.Articles)
		}
	}
	if v.Article == nil {
		v.Article = func(p ArticlePage, cfg SiteConfig) templ.Component {
			return fallbackPage(p.Article.Title, p.Related)
		}
	}
	if v.Search == nil {
		v.Search = func(p SearchPage, cfg SiteConfig) templ.Component {
			return fallbackPage("Search: "+p.Query, p.Results)
		}
	}
	if v.AdminLogin == nil {
		v.AdminLogin = func(showError bool, csrfToken string) templ.Component {
			if showError {
				return fallbackPage("Invalid credentials", nil)
			}
			return fallbackPage("Admin login", nil)
		}
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = func(d Dashboard, csrfToken string) templ.Component {
			return fallbackPage("Dashboard", d.Articles)
		}
	}
	if v.NotFound == nil {
		v.NotFound = func() templ.Component { return fallbackPage("Not found", nil) }
	}
	if v.ServerError == nil {
		v.ServerError = func() templ.Component { return fallbackPage("Server error", nil) }
	}
	return v
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logrus.Fatalf("newsdesk: required environment variable %s is not set", key)
	}
	return v
}

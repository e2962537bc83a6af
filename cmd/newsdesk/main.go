package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/eringen/newsdesk"
	"github.com/eringen/newsdesk/auth"
	"github.com/eringen/newsdesk/content"
	"github.com/eringen/newsdesk/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "init":
		if err := runInit(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("newsdesk %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`newsdesk - A news website built with Go, Echo, and templ

Usage:
  newsdesk [command]

Commands:
  serve     Start the web server (default)
  init      Create admin credentials, seed sample articles and the content document
  version   Print the newsdesk version
  help      Show this help message

Environment:
  SESSION_SECRET     Required. Signs session cookies and admin tokens
  SITE_NAME          Site name (default "Newsdesk")
  SITE_URL           Canonical URL (default "http://localhost:3000")
  SITE_DESCRIPTION   Description for RSS and meta tags
  ADDR               Listen address (default ":3000")
  DATABASE_PATH      SQLite database (default "data/newsdesk.db")
  CONTENT_PATH       Content document (default "data/content.json")
  CREDENTIALS_PATH   Admin credentials file (default "admin.credentials.json")
  STATIC_DIR         Static files and uploads (default "public")
  TOKEN_TTL          Admin session lifetime (default "12h")
  COOKIE_SECURE      Set to true behind HTTPS
  DEBUG              Set to true for debug logging`)
}

func configFromEnv() newsdesk.SiteConfig {
	cfg := newsdesk.SiteConfig{
		Name:            os.Getenv("SITE_NAME"),
		URL:             os.Getenv("SITE_URL"),
		Description:     newsdesk.EnvOr("SITE_DESCRIPTION", "The latest news, as it happens."),
		Addr:            os.Getenv("ADDR"),
		DatabasePath:    os.Getenv("DATABASE_PATH"),
		ContentPath:     os.Getenv("CONTENT_PATH"),
		CredentialsPath: os.Getenv("CREDENTIALS_PATH"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		CookieSecure:    envBool("COOKIE_SECURE"),
		Debug:           envBool("DEBUG"),
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		} else {
			logrus.Warnf("ignoring invalid TOKEN_TTL %q", v)
		}
	}
	return cfg
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func runServe() error {
	cfg := configFromEnv()
	cfg.SessionSecret = newsdesk.MustEnv("SESSION_SECRET")

	app := newsdesk.New(cfg, newsdesk.ViewFuncs{}, newsdesk.WithStaticDir(newsdesk.EnvOr("STATIC_DIR", "public")))
	// Views need the config after defaults are applied.
	app.Views = views.Funcs(app.Config)

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-quit:
	}

	app.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.Shutdown(ctx)
}

func runInit() error {
	app := newsdesk.New(configFromEnv(), newsdesk.ViewFuncs{})
	cfg := app.Config

	if err := writeCredentials(cfg.CredentialsPath); err != nil {
		return err
	}

	store, err := newsdesk.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	n, err := newsdesk.SeedSample(store)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d sample articles into %s\n", n, cfg.DatabasePath)

	doc := content.NewStore(cfg.ContentPath, app.Log).Read()
	fmt.Printf("Content document ready at %s (%d ticker items)\n", cfg.ContentPath, len(doc.BreakingNews))
	return nil
}

// writeCredentials creates the admin credentials file with a random password
// unless one already exists.
func writeCredentials(path string) error {
	if _, err := auth.LoadCredentials(path); err == nil {
		fmt.Printf("Keeping existing credentials in %s\n", path)
		return nil
	} else if !errors.Is(err, auth.ErrNoCredentials) {
		return err
	}
	secret := make([]byte, 12)
	if _, err := rand.Read(secret); err != nil {
		return err
	}
	creds := auth.Credentials{
		Username: newsdesk.EnvOr("ADMIN_USERNAME", "admin"),
		Password: newsdesk.EnvOr("ADMIN_PASSWORD", hex.EncodeToString(secret)),
	}
	b, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	fmt.Printf("Created %s\n  username: %s\n  password: %s\n", path, creds.Username, creds.Password)
	return nil
}

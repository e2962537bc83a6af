package newsdesk

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrSlugTaken is returned when another article already uses the slug.
var ErrSlugTaken = errors.New("slug already in use")

// Store wraps a SQLite database holding articles, categories and settings.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the public site read while an editor writes; writers wait on
	// the busy timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS categories (
    slug TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS articles (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',',
    published_at TEXT NOT NULL,
    views INTEGER NOT NULL DEFAULT 0,
    featured INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at);
CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

const articleColumns = `id, slug, title, excerpt, content, image_url, category, author, tags, published_at, views, featured, published`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var tags string
	var featured, published int
	err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Excerpt, &a.Content, &a.ImageURL,
		&a.Category, &a.Author, &tags, &a.PublishedAt, &a.Views, &featured, &published)
	if err != nil {
		return Article{}, err
	}
	a.Tags = ParseTags(tags)
	a.Featured = featured == 1
	a.Published = published == 1
	a.Link = "/article/" + a.Slug + "/"
	return a, nil
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	defer rows.Close()
	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleFilter narrows ListArticles. Zero values match everything.
type ArticleFilter struct {
	Category string
	Tag      string
	Limit    int
}

// ListArticles returns published articles, newest first.
func (s *Store) ListArticles(f ArticleFilter) ([]Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE published = 1`
	var args []any
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Tag != "" {
		query += ` AND instr(tags, ',' || ? || ',') > 0`
		args = append(args, normalizeTag(f.Tag))
	}
	query += ` ORDER BY published_at DESC, title`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// ListAllArticles returns every article (published and drafts), newest first.
func (s *Store) ListAllArticles() ([]Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleColumns + ` FROM articles ORDER BY published_at DESC, title`)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// GetArticle returns an article by id regardless of published status.
func (s *Store) GetArticle(id string) (Article, error) {
	return scanArticle(s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id))
}

// GetArticleBySlug returns a published article by slug.
func (s *Store) GetArticleBySlug(slug string) (Article, error) {
	return scanArticle(s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND published = 1`, slug))
}

// SaveArticle upserts a, assigning an id, slug and publish time when they are
// empty. Tags are normalized to lowercase. It returns the stored article.
func (s *Store) SaveArticle(a Article) (Article, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Slug == "" {
		return Article{}, errors.New("article slug is required")
	}
	if a.PublishedAt == "" {
		a.PublishedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
INSERT INTO articles (id, slug, title, excerpt, content, image_url, category, author, tags, published_at, featured, published)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    slug = excluded.slug,
    title = excluded.title,
    excerpt = excluded.excerpt,
    content = excluded.content,
    image_url = excluded.image_url,
    category = excluded.category,
    author = excluded.author,
    tags = excluded.tags,
    published_at = excluded.published_at,
    featured = excluded.featured,
    published = excluded.published`,
		a.ID, a.Slug, a.Title, a.Excerpt, a.Content, a.ImageURL, a.Category, a.Author,
		joinTagColumn(a.Tags), a.PublishedAt, boolInt(a.Featured), boolInt(a.Published))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return Article{}, ErrSlugTaken
		}
		return Article{}, err
	}
	return s.GetArticle(a.ID)
}

// DeleteArticle removes an article by id.
func (s *Store) DeleteArticle(id string) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE id = ?`, id)
	return err
}

// IncrementViews bumps the view counter of the article with id.
func (s *Store) IncrementViews(id string) error {
	_, err := s.db.Exec(`UPDATE articles SET views = views + 1 WHERE id = ?`, id)
	return err
}

// ListTags returns a sorted, deduplicated slice of all tags from published articles.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM articles WHERE published = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// ListCategories returns categories by sort order, then name.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT slug, name, description, sort_order FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Slug, &c.Name, &c.Description, &c.SortOrder); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetCategory returns one category by slug.
func (s *Store) GetCategory(slug string) (Category, error) {
	var c Category
	err := s.db.QueryRow(`SELECT slug, name, description, sort_order FROM categories WHERE slug = ?`, slug).
		Scan(&c.Slug, &c.Name, &c.Description, &c.SortOrder)
	return c, err
}

// SaveCategory upserts a category, deriving the slug from the name when empty.
func (s *Store) SaveCategory(c Category) (Category, error) {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.Slug == "" || strings.TrimSpace(c.Name) == "" {
		return Category{}, errors.New("category name is required")
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO categories (slug, name, description, sort_order) VALUES (?, ?, ?, ?)`,
		c.Slug, c.Name, c.Description, c.SortOrder)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a category. Articles keep their category slug, so
// they drop out of home page sections but stay reachable.
func (s *Store) DeleteCategory(slug string) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE slug = ?`, slug)
	return err
}

// GetSetting returns the value for key, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// SetSetting stores value under key.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// ListSettings returns every stored setting.
func (s *Store) ListSettings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func joinTagColumn(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

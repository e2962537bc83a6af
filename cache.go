package newsdesk

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested article or category does not exist.
var ErrNotFound = sql.ErrNoRows

// ArticleCache is an in-memory cache of published articles and categories with TTL.
type ArticleCache struct {
	mu         sync.RWMutex
	articles   []Article
	categories []Category
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewArticleCache creates an ArticleCache backed by the given Store.
func NewArticleCache(s *Store, ttl time.Duration) *ArticleCache {
	return &ArticleCache{store: s, ttl: ttl}
}

func (c *ArticleCache) valid() bool {
	return c.articles != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *ArticleCache) load() error {
	if c.valid() {
		return nil
	}
	articles, err := c.store.ListArticles(ArticleFilter{})
	if err != nil {
		return err
	}
	categories, err := c.store.ListCategories()
	if err != nil {
		return err
	}
	// A non-nil empty slice marks an empty site as loaded.
	if articles == nil {
		articles = []Article{}
	}
	c.articles = articles
	c.categories = categories
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached articles and categories after ensuring the
// cache is fresh. It tries a read lock first; only takes a write lock if a
// reload is needed.
func (c *ArticleCache) ensureLoaded() ([]Article, []Category, error) {
	c.mu.RLock()
	if c.valid() {
		articles, categories := c.articles, c.categories
		c.mu.RUnlock()
		return articles, categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.articles, c.categories, nil
}

// Articles returns published articles, newest first. The slice is shared;
// callers must copy before modifying elements.
func (c *ArticleCache) Articles() ([]Article, error) {
	articles, _, err := c.ensureLoaded()
	return articles, err
}

// Categories returns all categories in display order.
func (c *ArticleCache) Categories() ([]Category, error) {
	_, categories, err := c.ensureLoaded()
	return categories, err
}

// Category returns one category by slug.
func (c *ArticleCache) Category(slug string) (Category, error) {
	categories, err := c.Categories()
	if err != nil {
		return Category{}, err
	}
	for _, cat := range categories {
		if cat.Slug == slug {
			return cat, nil
		}
	}
	return Category{}, ErrNotFound
}

// Article returns a single published article by slug, falling back to the
// store on a cache miss.
func (c *ArticleCache) Article(slug string) (Article, error) {
	articles, err := c.Articles()
	if err != nil {
		return Article{}, err
	}
	for _, a := range articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	// Published after the last load.
	return c.store.GetArticleBySlug(slug)
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

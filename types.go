package newsdesk

import "github.com/eringen/newsdesk/content"

// Article is the core content type stored in SQLite and rendered by templates.
type Article struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"publishedAt"` // RFC 3339
	Views       int      `json:"views"`
	Featured    bool     `json:"featured"`
	Published   bool     `json:"published"`
	Link        string   `json:"link"`
}

// Category groups articles into a home page section.
type Category struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

// Section is one category block on the home page.
type Section struct {
	Category Category
	Articles []Article
}

// HomePage is everything the home template needs.
type HomePage struct {
	Tagline  string
	Slides   []content.HeroSlide
	Ticker   []string
	Latest   []Article
	Sections []Section
}

// CategoryPage lists the articles of one category.
type CategoryPage struct {
	Category Category
	Articles []Article
	Ticker   []string
}

// ArticlePage renders a single article with related stories.
type ArticlePage struct {
	Article Article
	Related []Article
	Ticker  []string
}

// SearchPage holds a query and its results.
type SearchPage struct {
	Query   string
	Results []Article
	Ticker  []string
}

// Dashboard is the admin overview.
type Dashboard struct {
	Articles   []Article
	Categories []Category
	Content    content.Data
	Settings   map[string]string
	Message    string
	Username   string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// Package content manages the small JSON document holding the editable,
// non-relational parts of the site: ticker items, available tags, per-article
// overrides and hero slides.
package content

// Data is the content document persisted as a single JSON file.
type Data struct {
	BreakingNews     []string                   `json:"breakingNews"`
	AvailableTags    []string                   `json:"availableTags"`
	ArticleOverrides map[string]ArticleOverride `json:"articleOverrides"`
	HeroSlides       []HeroSlide                `json:"heroSlides"`
}

// ArticleOverride is a partial patch layered over an article's displayed
// fields. A nil field is absent and leaves the article untouched.
type ArticleOverride struct {
	Title    *string   `json:"title,omitempty"`
	Excerpt  *string   `json:"excerpt,omitempty"`
	Content  *string   `json:"content,omitempty"`
	ImageURL *string   `json:"imageUrl,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// Merge returns o with every non-nil field of patch applied on top.
func (o ArticleOverride) Merge(patch ArticleOverride) ArticleOverride {
	if patch.Title != nil {
		o.Title = patch.Title
	}
	if patch.Excerpt != nil {
		o.Excerpt = patch.Excerpt
	}
	if patch.Content != nil {
		o.Content = patch.Content
	}
	if patch.ImageURL != nil {
		o.ImageURL = patch.ImageURL
	}
	if patch.Tags != nil {
		o.Tags = patch.Tags
	}
	return o
}

// IsZero reports whether the override carries no fields.
func (o ArticleOverride) IsZero() bool {
	return o.Title == nil && o.Excerpt == nil && o.Content == nil && o.ImageURL == nil && o.Tags == nil
}

// HeroSlide is one entry in the home page carousel.
type HeroSlide struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	PublishedAt string `json:"publishedAt"`
	Views       int    `json:"views"`
	Slug        string `json:"slug"`
	Source      string `json:"source,omitempty"`
}

// String returns a pointer to s, for building overrides.
func String(s string) *string {
	return &s
}

// Tags returns a pointer to a tag slice, for building overrides. Tags() with
// no arguments sets the tags to an empty list.
func Tags(tags ...string) *[]string {
	t := append([]string{}, tags...)
	return &t
}

// DefaultBreakingNews seeds the ticker of a fresh document.
var DefaultBreakingNews = []string{
	"Welcome to the newsroom: breaking stories appear here as they happen",
	"Markets open higher as investors weigh the latest economic data",
	"Weather service issues advisory for the coming weekend",
}

// DefaultAvailableTags seeds the tag picker of a fresh document.
var DefaultAvailableTags = []string{
	"politics",
	"business",
	"technology",
	"sports",
	"entertainment",
	"health",
	"science",
	"world",
}

// Defaults returns a freshly allocated default document.
func Defaults() Data {
	return Data{
		BreakingNews:     append([]string{}, DefaultBreakingNews...),
		AvailableTags:    append([]string{}, DefaultAvailableTags...),
		ArticleOverrides: map[string]ArticleOverride{},
		HeroSlides:       []HeroSlide{},
	}
}

// normalize replaces nil collections with empty ones so the document
// serializes as [] and {} rather than null.
func (d Data) normalize() Data {
	if d.BreakingNews == nil {
		d.BreakingNews = []string{}
	}
	if d.AvailableTags == nil {
		d.AvailableTags = []string{}
	}
	if d.ArticleOverrides == nil {
		d.ArticleOverrides = map[string]ArticleOverride{}
	}
	if d.HeroSlides == nil {
		d.HeroSlides = []HeroSlide{}
	}
	return d
}

package newsdesk

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/eringen/newsdesk/content"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Science & Health  ", "science-health"},
		{"Already-a-slug", "already-a-slug"},
		{"2024: Year in review!", "2024-year-in-review"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://news.example.com", []string{"article", "budget-vote"}, "https://news.example.com/article/budget-vote/"},
		{"https://news.example.com/", []string{"category", "world"}, "https://news.example.com/category/world/"},
		{"https://news.example.com", nil, "https://news.example.com"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestApplyOverride(t *testing.T) {
	a := Article{ID: "a1", Title: "Original", Excerpt: "Keep", Tags: []string{"old"}}

	got := ApplyOverride(a, content.ArticleOverride{})
	if !reflect.DeepEqual(got, a) {
		t.Fatalf("empty override changed article: %+v", got)
	}

	got = ApplyOverride(a, content.ArticleOverride{
		Title: content.String("New"),
		Tags:  content.Tags(),
	})
	if got.Title != "New" || got.Excerpt != "Keep" {
		t.Errorf("ApplyOverride = %+v", got)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("expected empty tags, got %#v", got.Tags)
	}
	if a.Title != "Original" {
		t.Error("ApplyOverride modified its input")
	}
}

func TestApplyOverridesCopies(t *testing.T) {
	articles := []Article{{ID: "a1", Title: "One"}, {ID: "a2", Title: "Two"}}
	out := ApplyOverrides(articles, map[string]content.ArticleOverride{
		"a2":      {Title: content.String("Second")},
		"missing": {Title: content.String("Ghost")},
	})
	if out[0].Title != "One" || out[1].Title != "Second" {
		t.Errorf("ApplyOverrides = %+v", out)
	}
	if articles[1].Title != "Two" {
		t.Error("ApplyOverrides modified the cached slice")
	}
}

func TestSearchArticles(t *testing.T) {
	articles := []Article{
		{ID: "1", Title: "City council passes budget"},
		{ID: "2", Title: "Match report", Tags: []string{"football"}},
		{ID: "3", Title: "Budget airlines", Excerpt: "Cheap flights"},
	}
	tests := []struct {
		query string
		want  []string
	}{
		{"budget", []string{"1", "3"}},
		{"BUDGET council", []string{"1"}},
		{"football", []string{"2"}},
		{"   ", nil},
		{"nothing", nil},
	}
	for _, tt := range tests {
		var ids []string
		for _, a := range SearchArticles(articles, tt.query) {
			ids = append(ids, a.ID)
		}
		if !reflect.DeepEqual(ids, tt.want) {
			t.Errorf("SearchArticles(%q) = %v, want %v", tt.query, ids, tt.want)
		}
	}
}

func TestRelatedArticles(t *testing.T) {
	current := Article{ID: "1", Category: "sports", Tags: []string{"Football"}}
	articles := []Article{
		current,
		{ID: "2", Category: "sports"},
		{ID: "3", Category: "business", Tags: []string{"football"}},
		{ID: "4", Category: "business", Tags: []string{"stocks"}},
		{ID: "5", Category: "sports"},
	}
	var ids []string
	for _, a := range RelatedArticles(current, articles, 2) {
		ids = append(ids, a.ID)
	}
	if !reflect.DeepEqual(ids, []string{"2", "3"}) {
		t.Errorf("RelatedArticles = %v", ids)
	}
}

func TestLimit(t *testing.T) {
	articles := []Article{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	if got := Limit(articles, 2); len(got) != 2 {
		t.Errorf("Limit 2 = %d", len(got))
	}
	if got := Limit(articles, 0); len(got) != 3 {
		t.Errorf("Limit 0 = %d", len(got))
	}
	if got := Limit(articles, 10); len(got) != 3 {
		t.Errorf("Limit 10 = %d", len(got))
	}
}

func TestFeaturedSlides(t *testing.T) {
	articles := []Article{
		{ID: "1", Title: "Plain"},
		{ID: "2", Title: "Lead", Slug: "lead", Featured: true},
		{ID: "3", Title: "Second", Featured: true},
		{ID: "4", Title: "Third", Featured: true},
	}
	slides := featuredSlides(articles, 2)
	if len(slides) != 2 {
		t.Fatalf("got %d slides", len(slides))
	}
	if slides[0].ID != "2" || slides[0].Slug != "lead" || slides[0].Source != "article" {
		t.Errorf("first slide = %+v", slides[0])
	}
}

func TestArticleCache(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	c := NewArticleCache(s, time.Hour)

	if _, err := s.SaveArticle(Article{Title: "First", Published: true}); err != nil {
		t.Fatal(err)
	}
	articles, err := c.Articles()
	if err != nil || len(articles) != 1 {
		t.Fatalf("Articles = %v, %v", articles, err)
	}

	if _, err := s.SaveArticle(Article{Title: "Second", Published: true}); err != nil {
		t.Fatal(err)
	}
	if articles, _ := c.Articles(); len(articles) != 1 {
		t.Errorf("expected cached list, got %d articles", len(articles))
	}
	// Lookups by slug still see articles published after the last load.
	if a, err := c.Article("second"); err != nil || a.Title != "Second" {
		t.Errorf("Article(second) = %+v, %v", a, err)
	}

	c.Invalidate()
	if articles, _ := c.Articles(); len(articles) != 2 {
		t.Errorf("expected 2 articles after invalidate, got %d", len(articles))
	}
	if _, err := c.Article("missing"); err != ErrNotFound {
		t.Errorf("Article(missing) err = %v", err)
	}
	if _, err := c.Category("none"); err != ErrNotFound {
		t.Errorf("Category(none) err = %v", err)
	}
}

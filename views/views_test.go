package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
	"github.com/eringen/newsdesk/content"
)

var testConfig = newsdesk.SiteConfig{Name: "Daily", URL: "https://news.example.com", Description: "All the news"}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestHomeRendersSlidesTickerAndSections(t *testing.T) {
	article := newsdesk.Article{Title: "Rates <hold>", Slug: "rates", Link: "/article/rates/", PublishedAt: "2024-03-01T10:00:00Z"}
	out := render(t, Home(newsdesk.HomePage{
		Slides:   []content.HeroSlide{{ID: "1", Title: "Storm warning", Slug: "storm"}},
		Ticker:   []string{"Markets open higher"},
		Latest:   []newsdesk.Article{article},
		Sections: []newsdesk.Section{{Category: newsdesk.Category{Slug: "business", Name: "Business"}, Articles: []newsdesk.Article{article}}},
	}, testConfig))

	for _, want := range []string{
		"Storm warning",
		`href="/article/storm/"`,
		"Markets open higher",
		"Rates &lt;hold&gt;",
		`href="/category/business/"`,
		"Mar 1, 2024",
		`"@type":"WebSite"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "<hold>") {
		t.Fatalf("expected title to be escaped")
	}
}

func TestArticleRendersParagraphsAndTags(t *testing.T) {
	out := render(t, Article(newsdesk.ArticlePage{
		Article: newsdesk.Article{
			Title:   "Election night",
			Slug:    "election-night",
			Content: "First paragraph.\n\nSecond <b>paragraph</b>.",
			Tags:    []string{"politics", "world news"},
			Views:   7,
		},
	}, testConfig))

	for _, want := range []string{
		"<p>First paragraph.</p>",
		"<p>Second &lt;b&gt;paragraph&lt;/b&gt;.</p>",
		`href="/search/?q=world+news"`,
		"7 views",
		`"@type":"NewsArticle"`,
		`<link rel="canonical" href="https://news.example.com/article/election-night/">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestSearchStates(t *testing.T) {
	empty := render(t, Search(newsdesk.SearchPage{}, testConfig))
	if strings.Contains(empty, "No results") {
		t.Fatalf("expected no result message for empty query")
	}
	none := render(t, Search(newsdesk.SearchPage{Query: "zebra"}, testConfig))
	if !strings.Contains(none, "No results for &ldquo;zebra&rdquo;") {
		t.Fatalf("expected no results message, got %s", none)
	}
}

func TestAdminLoginShowsError(t *testing.T) {
	login := AdminLogin(testConfig)
	if out := render(t, login(false, "tok")); strings.Contains(out, "Invalid username") {
		t.Fatalf("expected no error message")
	}
	out := render(t, login(true, "tok"))
	if !strings.Contains(out, "Invalid username or password.") || !strings.Contains(out, `name="_csrf" value="tok"`) {
		t.Fatalf("unexpected login output: %s", out)
	}
}

func TestDashboardMarksOverrides(t *testing.T) {
	dash := AdminDashboard(testConfig)
	out := render(t, dash(newsdesk.Dashboard{
		Articles: []newsdesk.Article{{ID: "a1", Title: "Original", Published: true}},
		Content: content.Data{
			BreakingNews:     []string{"one", "two"},
			ArticleOverrides: map[string]content.ArticleOverride{"a1": {Title: content.String("Edited")}},
		},
		Username: "editor",
	}, "tok"))
	for _, want := range []string{"Edited (overridden)", "one\ntwo", "Signed in as editor", `data-delete="/api/admin/articles/a1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected dashboard to contain %q", want)
		}
	}
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("a\r\n\r\nb\n\n\n  \nc")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected paragraphs: %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-12-25T08:00:00Z"); got != "Dec 25, 2024" {
		t.Fatalf("unexpected date: %s", got)
	}
	if got := FormatDate("yesterday"); got != "yesterday" {
		t.Fatalf("expected unparseable value unchanged, got %s", got)
	}
}

package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// Home renders the front page: hero carousel, latest stories and one block
// per category.
func Home(p newsdesk.HomePage, cfg newsdesk.SiteConfig) templ.Component {
	return component(func(h *htmlWriter) {
		meta := newsdesk.PageMeta{URL: newsdesk.BuildURL(cfg.URL)}
		layout(h, cfg, meta, p.Ticker, func() {
			h.raw(`<script type="application/ld+json">`, WebsiteJsonLD(cfg), `</script>`)
			if p.Tagline != "" {
				h.raw(`<p class="tagline">`)
				h.text(p.Tagline)
				h.raw("</p>")
			}
			if len(p.Slides) > 0 {
				h.raw(`<section class="hero" aria-label="Top stories">`)
				for i, s := range p.Slides {
					h.raw(`<figure class="slide"`)
					h.attr("data-index", strconv.Itoa(i))
					h.raw(">")
					if s.ImageURL != "" {
						h.raw("<img")
						h.attr("src", s.ImageURL)
						h.attr("alt", s.Title)
						if i == 0 {
							h.raw(` fetchpriority="high"`)
						}
						h.raw(">")
					}
					h.raw("<figcaption><h2><a")
					h.attr("href", newsdesk.BuildURL("/", "article", s.Slug))
					h.raw(">")
					h.text(s.Title)
					h.raw("</a></h2><p>")
					h.text(s.Excerpt)
					h.raw("</p></figcaption></figure>")
				}
				h.raw("</section>")
			}
			h.raw(`<section class="latest"><h2>Latest</h2>`)
			articleList(h, p.Latest)
			h.raw("</section>")
			for _, sec := range p.Sections {
				h.raw(`<section class="category"><h2><a`)
				h.attr("href", newsdesk.BuildURL("/", "category", sec.Category.Slug))
				h.raw(">")
				h.text(sec.Category.Name)
				h.raw("</a></h2>")
				articleList(h, sec.Articles)
				h.raw("</section>")
			}
		})
	})
}

// Category renders every article in one category.
func Category(p newsdesk.CategoryPage, cfg newsdesk.SiteConfig) templ.Component {
	return component(func(h *htmlWriter) {
		meta := newsdesk.PageMeta{
			Title:       p.Category.Name,
			Description: p.Category.Description,
			URL:         newsdesk.BuildURL(cfg.URL, "category", p.Category.Slug),
		}
		layout(h, cfg, meta, p.Ticker, func() {
			h.raw("<h1>")
			h.text(p.Category.Name)
			h.raw("</h1>")
			if p.Category.Description != "" {
				h.raw(`<p class="lede">`)
				h.text(p.Category.Description)
				h.raw("</p>")
			}
			if len(p.Articles) == 0 {
				h.raw("<p>No stories yet.</p>")
				return
			}
			articleList(h, p.Articles)
		})
	})
}

// Article renders one story with its related articles.
func Article(p newsdesk.ArticlePage, cfg newsdesk.SiteConfig) templ.Component {
	return component(func(h *htmlWriter) {
		a := p.Article
		meta := newsdesk.PageMeta{
			Title:       a.Title,
			Description: a.Excerpt,
			URL:         newsdesk.BuildURL(cfg.URL, "article", a.Slug),
			OGType:      "article",
			Image:       a.ImageURL,
		}
		layout(h, cfg, meta, p.Ticker, func() {
			h.raw(`<script type="application/ld+json">`, newsdesk.NewsArticleJsonLD(a, cfg), `</script>`)
			h.raw(`<article class="story"><h1>`)
			h.text(a.Title)
			h.raw(`</h1><p class="byline">`)
			if a.Author != "" {
				h.raw("By ")
				h.text(a.Author)
				h.raw(" &middot; ")
			}
			h.raw("<time")
			h.attr("datetime", a.PublishedAt)
			h.raw(">")
			h.text(FormatDate(a.PublishedAt))
			h.raw("</time> &middot; ")
			h.text(strconv.Itoa(a.Views))
			h.raw(" views</p>")
			if a.ImageURL != "" {
				h.raw("<img")
				h.attr("src", a.ImageURL)
				h.attr("alt", a.Title)
				h.raw(` fetchpriority="high">`)
			}
			for _, para := range Paragraphs(a.Content) {
				h.raw("<p>")
				h.text(para)
				h.raw("</p>")
			}
			if len(a.Tags) > 0 {
				h.raw(`<ul class="tags">`)
				for _, t := range a.Tags {
					h.raw("<li><a")
					h.attr("href", "/search/?q="+QueryEscape(t))
					h.raw(">")
					h.text(t)
					h.raw("</a></li>")
				}
				h.raw("</ul>")
			}
			h.raw("</article>")
			if len(p.Related) > 0 {
				h.raw(`<aside class="related"><h2>Related</h2>`)
				articleList(h, p.Related)
				h.raw("</aside>")
			}
		})
	})
}

// Search renders the results of a site search.
func Search(p newsdesk.SearchPage, cfg newsdesk.SiteConfig) templ.Component {
	return component(func(h *htmlWriter) {
		meta := newsdesk.PageMeta{Title: "Search"}
		layout(h, cfg, meta, p.Ticker, func() {
			h.raw(`<h1>Search</h1><form action="/search/" method="get"><input type="search" name="q"`)
			h.attr("value", p.Query)
			h.raw(`><button type="submit">Search</button></form>`)
			switch {
			case p.Query == "":
			case len(p.Results) == 0:
				h.raw("<p>No results for &ldquo;")
				h.text(p.Query)
				h.raw("&rdquo;.</p>")
			default:
				h.raw("<p>")
				h.text(strconv.Itoa(len(p.Results)))
				h.raw(" results</p>")
				articleList(h, p.Results)
			}
		})
	})
}

// NotFound renders the 404 page.
func NotFound(cfg newsdesk.SiteConfig) templ.Component {
	return component(func(h *htmlWriter) {
		layout(h, cfg, newsdesk.PageMeta{Title: "Not found"}, nil, func() {
			h.raw(`<h1>Page not found</h1><p><a href="/">Back to the front page</a></p>`)
		})
	})
}

// ServerError renders the 500 page.
func ServerError(cfg newsdesk.SiteConfig) templ.Component {
	return component(func(h *htmlWriter) {
		layout(h, cfg, newsdesk.PageMeta{Title: "Error"}, nil, func() {
			h.raw(`<h1>Something went wrong</h1><p>Please try again in a moment.</p>`)
		})
	})
}

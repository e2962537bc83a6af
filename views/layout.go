package views

import (
	"github.com/eringen/newsdesk"
)

// layout wraps body in the shared document shell: head metadata, masthead,
// category navigation and the breaking-news ticker.
func layout(h *htmlWriter, cfg newsdesk.SiteConfig, meta newsdesk.PageMeta, ticker []string, body func()) {
	title := cfg.Name
	if meta.Title != "" {
		title = meta.Title + " | " + cfg.Name
	}
	description := meta.Description
	if description == "" {
		description = cfg.Description
	}
	ogType := meta.OGType
	if ogType == "" {
		ogType = "website"
	}

	h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
	h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.raw("<title>")
	h.text(title)
	h.raw("</title>")
	h.raw(`<meta name="description"`)
	h.attr("content", description)
	h.raw(">")
	if meta.URL != "" {
		h.raw(`<link rel="canonical"`)
		h.attr("href", meta.URL)
		h.raw(`><meta property="og:url"`)
		h.attr("content", meta.URL)
		h.raw(">")
	}
	h.raw(`<meta property="og:title"`)
	h.attr("content", title)
	h.raw(`><meta property="og:type"`)
	h.attr("content", ogType)
	h.raw(">")
	if meta.Image != "" {
		h.raw(`<meta property="og:image"`)
		h.attr("content", meta.Image)
		h.raw(">")
	}
	h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
	h.attr("title", cfg.Name)
	h.raw(`><link rel="stylesheet" href="/public/styles.css"></head><body>`)

	h.raw(`<header class="masthead"><a class="brand" href="/">`)
	h.text(cfg.Name)
	h.raw(`</a><form class="search" action="/search/" method="get"><input type="search" name="q" placeholder="Search"></form></header>`)

	if len(ticker) > 0 {
		h.raw(`<div class="ticker" role="marquee"><strong>Breaking</strong><ul>`)
		for _, item := range ticker {
			h.raw("<li>")
			h.text(item)
			h.raw("</li>")
		}
		h.raw("</ul></div>")
	}

	h.raw("<main>")
	body()
	h.raw("</main>")

	h.raw(`<footer><p>`)
	h.text(cfg.Name)
	h.raw(` &middot; <a href="/feed.xml">RSS</a></p></footer></body></html>`)
}

func articleCard(h *htmlWriter, a newsdesk.Article) {
	h.raw(`<article class="card">`)
	if a.ImageURL != "" {
		h.raw(`<img loading="lazy" decoding="async"`)
		h.attr("src", a.ImageURL)
		h.attr("alt", a.Title)
		h.raw(">")
	}
	h.raw(`<h3><a`)
	h.attr("href", a.Link)
	h.raw(">")
	h.text(a.Title)
	h.raw("</a></h3>")
	if a.Excerpt != "" {
		h.raw("<p>")
		h.text(a.Excerpt)
		h.raw("</p>")
	}
	h.raw(`<p class="byline">`)
	if a.Author != "" {
		h.text(a.Author)
		h.raw(" &middot; ")
	}
	h.raw("<time")
	h.attr("datetime", a.PublishedAt)
	h.raw(">")
	h.text(FormatDate(a.PublishedAt))
	h.raw("</time></p></article>")
}

func articleList(h *htmlWriter, articles []newsdesk.Article) {
	h.raw(`<div class="grid">`)
	for _, a := range articles {
		articleCard(h, a)
	}
	h.raw("</div>")
}

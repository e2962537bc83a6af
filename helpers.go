package newsdesk

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/newsdesk/content"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty trims every value and drops the empty ones.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitTags parses a comma-separated form value into trimmed, non-empty tags.
func SplitTags(v string) []string {
	return FilterEmpty(strings.Split(v, ","))
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ApplyOverride returns a with every field present in o layered on top.
func ApplyOverride(a Article, o content.ArticleOverride) Article {
	if o.Title != nil {
		a.Title = *o.Title
	}
	if o.Excerpt != nil {
		a.Excerpt = *o.Excerpt
	}
	if o.Content != nil {
		a.Content = *o.Content
	}
	if o.ImageURL != nil {
		a.ImageURL = *o.ImageURL
	}
	if o.Tags != nil {
		a.Tags = append([]string{}, (*o.Tags)...)
	}
	return a
}

// ApplyOverrides returns a copy of articles with each one's override, if
// any, applied.
func ApplyOverrides(articles []Article, overrides map[string]content.ArticleOverride) []Article {
	out := make([]Article, len(articles))
	for i, a := range articles {
		if o, ok := overrides[a.ID]; ok {
			a = ApplyOverride(a, o)
		}
		out[i] = a
	}
	return out
}

// SearchArticles returns the articles whose title, excerpt, content or tags
// contain every word of query, case-insensitively. An empty query matches
// nothing.
func SearchArticles(articles []Article, query string) []Article {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	var out []Article
	for _, a := range articles {
		haystack := strings.ToLower(strings.Join([]string{a.Title, a.Excerpt, a.Content, strings.Join(a.Tags, " ")}, " "))
		match := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, a)
		}
	}
	return out
}

// FilterByCategory returns the articles in category slug.
func FilterByCategory(articles []Article, slug string) []Article {
	var out []Article
	for _, a := range articles {
		if a.Category == slug {
			out = append(out, a)
		}
	}
	return out
}

// FilterByTag returns the articles carrying tag (case-insensitive).
func FilterByTag(articles []Article, tag string) []Article {
	tag = normalizeTag(tag)
	var out []Article
	for _, a := range articles {
		for _, t := range a.Tags {
			if normalizeTag(t) == tag {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// RelatedArticles finds up to limit articles sharing at least one tag or the
// category with current.
func RelatedArticles(current Article, articles []Article, limit int) []Article {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Article
	for _, a := range articles {
		if a.ID == current.ID {
			continue
		}
		if limit > 0 && len(related) >= limit {
			break
		}
		if current.Category != "" && a.Category == current.Category {
			related = append(related, a)
			continue
		}
		for _, t := range a.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, a)
				break
			}
		}
	}
	return related
}

// Limit truncates articles to at most n entries; n <= 0 means no limit.
func Limit(articles []Article, n int) []Article {
	if n > 0 && len(articles) > n {
		return articles[:n]
	}
	return articles
}

// NewsArticleJsonLD returns a schema.org NewsArticle JSON-LD string.
func NewsArticleJsonLD(a Article, cfg SiteConfig) string {
	articleURL := BuildURL(cfg.URL, "article", a.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "NewsArticle",
		"headline":      a.Title,
		"description":   a.Excerpt,
		"datePublished": a.PublishedAt,
		"url":           articleURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if a.ImageURL != "" {
		data["image"] = a.ImageURL
	}
	if a.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  a.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(a.Tags) > 0 {
		data["keywords"] = strings.Join(a.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

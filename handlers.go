package newsdesk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eringen/newsdesk/content"
)

const (
	latestCount   = 10
	sectionCount  = 4
	relatedCount  = 4
	heroFallbacks = 5
)

func (a *App) handleHome(c echo.Context) error {
	articles, err := a.displayedArticles()
	if err != nil {
		return err
	}
	categories, err := a.Cache.Categories()
	if err != nil {
		return err
	}
	doc := a.Content.Read()

	slides := doc.HeroSlides
	if len(slides) == 0 {
		slides = featuredSlides(articles, heroFallbacks)
	}
	tagline, err := a.Store.GetSetting("tagline")
	if err != nil {
		return err
	}
	page := HomePage{
		Tagline: tagline,
		Slides:  slides,
		Ticker:  doc.BreakingNews,
		Latest:  Limit(articles, latestCount),
	}
	for _, cat := range categories {
		if in := FilterByCategory(articles, cat.Slug); len(in) > 0 {
			page.Sections = append(page.Sections, Section{Category: cat, Articles: Limit(in, sectionCount)})
		}
	}
	return Render(c, a.Views.Home(page, a.Config))
}

// featuredSlides builds hero slides from featured articles when no slides
// have been configured.
func featuredSlides(articles []Article, n int) []content.HeroSlide {
	var slides []content.HeroSlide
	for _, a := range articles {
		if !a.Featured {
			continue
		}
		slides = append(slides, content.HeroSlide{
			ID:          a.ID,
			Title:       a.Title,
			Excerpt:     a.Excerpt,
			ImageURL:    a.ImageURL,
			Category:    a.Category,
			Author:      a.Author,
			PublishedAt: a.PublishedAt,
			Views:       a.Views,
			Slug:        a.Slug,
			Source:      "article",
		})
		if len(slides) == n {
			break
		}
	}
	return slides
}

func (a *App) handleCategory(c echo.Context) error {
	cat, err := a.Cache.Category(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	articles, err := a.displayedArticles()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Category(CategoryPage{
		Category: cat,
		Articles: FilterByCategory(articles, cat.Slug),
		Ticker:   a.Content.Read().BreakingNews,
	}, a.Config))
}

func (a *App) handleArticle(c echo.Context) error {
	article, err := a.Cache.Article(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	if err := a.Store.IncrementViews(article.ID); err != nil {
		a.Log.WithError(err).WithField("article", article.ID).Warn("increment views")
	}

	doc := a.Content.Read()
	if o, ok := doc.ArticleOverrides[article.ID]; ok {
		article = ApplyOverride(article, o)
	}
	articles, err := a.Cache.Articles()
	if err != nil {
		return err
	}
	related := RelatedArticles(article, ApplyOverrides(articles, doc.ArticleOverrides), relatedCount)
	return Render(c, a.Views.Article(ArticlePage{
		Article: article,
		Related: related,
		Ticker:  doc.BreakingNews,
	}, a.Config))
}

func (a *App) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	articles, err := a.displayedArticles()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Search(SearchPage{
		Query:   query,
		Results: SearchArticles(articles, query),
		Ticker:  a.Content.Read().BreakingNews,
	}, a.Config))
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Cache.Articles()
	if err != nil {
		return err
	}
	categories, err := a.Cache.Categories()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, articles, categories)
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.displayedArticles()
	if err != nil {
		return err
	}
	return a.renderRSS(c, Limit(articles, 50))
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nDisallow: /admin/\nDisallow: /api/\n\nSitemap: %s\n",
		strings.TrimSuffix(a.Config.URL, "/")+"/sitemap.xml")
	return c.String(http.StatusOK, body)
}

func (a *App) handleHealth(c echo.Context) error {
	if err := a.Store.Ping(); err != nil {
		a.Log.WithError(err).Error("health check failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		a.Log.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
		}).WithError(err).Error("server error")
		msg = "Internal server error"
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = jsonError(c, code, msg)
		return
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, a.Views.NotFound())
	case code >= 500:
		_ = RenderStatus(c, code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}

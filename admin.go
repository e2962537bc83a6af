package newsdesk

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/newsdesk/auth"
)

func (a *App) handleAdmin(c echo.Context) error {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, claims, c.QueryParam("msg"))
}

// checkCredentials reloads the credentials file on every attempt so edits
// take effect without a restart.
func (a *App) checkCredentials(username, password string) bool {
	creds, err := auth.LoadCredentials(a.Config.CredentialsPath)
	if err != nil {
		a.Log.WithError(err).Error("load admin credentials")
		return false
	}
	return creds.Match(username, password)
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username := strings.TrimSpace(c.FormValue("username"))
	if !a.checkCredentials(username, c.FormValue("password")) {
		a.loginLimiter.Record(ip)
		a.Log.WithField("ip", ip).Warn("failed admin login")
		return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
	}
	a.loginLimiter.Reset(ip)
	token, err := a.Tokens.Issue(username)
	if err != nil {
		return err
	}
	if err := setAdminSession(c, token); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, claims *auth.Claims, msg string) error {
	articles, err := a.Store.ListAllArticles()
	if err != nil {
		return err
	}
	categories, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	settings, err := a.Store.ListSettings()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(Dashboard{
		Articles:   articles,
		Categories: categories,
		Content:    a.Content.Read(),
		Settings:   settings,
		Message:    msg,
		Username:   claims.Subject,
	}, CsrfToken(c)))
}

func (a *App) handleSaveArticle(c echo.Context) error {
	var article Article
	if err := decodeJSON(c, &article); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	article.Title = strings.TrimSpace(article.Title)
	article.Slug = strings.TrimSpace(article.Slug)
	if article.Title == "" {
		return jsonError(c, http.StatusBadRequest, "Title is required")
	}
	if article.Slug != "" && Slugify(article.Slug) != article.Slug {
		return jsonError(c, http.StatusBadRequest, "Slug may only contain lowercase letters, digits and dashes")
	}
	article.Tags = FilterEmpty(article.Tags)
	saved, err := a.Store.SaveArticle(article)
	if errors.Is(err, ErrSlugTaken) {
		return jsonError(c, http.StatusConflict, "Slug already in use")
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Log.WithField("article", saved.ID).Info("article saved")
	return jsonData(c, saved)
}

func (a *App) handleDeleteArticle(c echo.Context) error {
	id := c.Param("id")
	if _, err := a.Store.GetArticle(id); errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "Article not found")
	} else if err != nil {
		return err
	}
	if err := a.Store.DeleteArticle(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Log.WithField("article", id).Info("article deleted")
	return c.JSON(http.StatusOK, apiResponse{Success: true})
}

func (a *App) handleSaveCategory(c echo.Context) error {
	var cat Category
	if err := decodeJSON(c, &cat); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	cat.Name = strings.TrimSpace(cat.Name)
	cat.Slug = strings.TrimSpace(cat.Slug)
	if cat.Name == "" {
		return jsonError(c, http.StatusBadRequest, "Name is required")
	}
	if cat.Slug == "" {
		cat.Slug = Slugify(cat.Name)
	}
	if cat.Slug == "" || Slugify(cat.Slug) != cat.Slug {
		return jsonError(c, http.StatusBadRequest, "Invalid slug")
	}
	saved, err := a.Store.SaveCategory(cat)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return jsonData(c, saved)
}

func (a *App) handleDeleteCategory(c echo.Context) error {
	if err := a.Store.DeleteCategory(c.Param("slug")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, apiResponse{Success: true})
}

func (a *App) handleGetSettings(c echo.Context) error {
	settings, err := a.Store.ListSettings()
	if err != nil {
		return err
	}
	return jsonData(c, settings)
}

func (a *App) handleSaveSettings(c echo.Context) error {
	var settings map[string]string
	if err := decodeJSON(c, &settings); err != nil || len(settings) == 0 {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	for k := range settings {
		if strings.TrimSpace(k) == "" {
			return jsonError(c, http.StatusBadRequest, "Setting keys must not be empty")
		}
	}
	for k, v := range settings {
		if err := a.Store.SetSetting(k, v); err != nil {
			return err
		}
	}
	all, err := a.Store.ListSettings()
	if err != nil {
		return err
	}
	return jsonData(c, all)
}

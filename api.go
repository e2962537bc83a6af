package newsdesk

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eringen/newsdesk/content"
	"github.com/eringen/newsdesk/upload"
)

const maxJSONBody = 1 << 20

// contentRequest is the body of POST /api/content. Pointer fields tell a
// missing or null payload apart from an empty one.
type contentRequest struct {
	Op        string                   `json:"op"`
	Items     *[]string                `json:"items"`
	Tags      *[]string                `json:"tags"`
	ArticleID string                   `json:"articleId"`
	Patch     *content.ArticleOverride `json:"patch"`
	Slides    *[]content.HeroSlide     `json:"slides"`
}

var errBadContentRequest = errors.New("invalid content request")

func (a *App) handleGetContent(c echo.Context) error {
	return jsonData(c, a.Content.Read())
}

func (a *App) handlePostContent(c echo.Context) error {
	var req contentRequest
	if err := decodeJSON(c, &req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	data, err := a.applyContentOp(req)
	if errors.Is(err, errBadContentRequest) {
		return jsonError(c, http.StatusBadRequest, "Invalid operation")
	}
	if err != nil {
		return err
	}
	a.metrics.contentMutation(req.Op)
	a.Log.WithField("op", req.Op).Info("content updated")
	return jsonData(c, data)
}

func (a *App) applyContentOp(req contentRequest) (content.Data, error) {
	switch req.Op {
	case "setBreakingNews":
		if req.Items == nil {
			return content.Data{}, errBadContentRequest
		}
		return a.Content.UpdateBreakingNews(*req.Items)
	case "setAvailableTags":
		if req.Tags == nil {
			return content.Data{}, errBadContentRequest
		}
		return a.Content.SetAvailableTags(*req.Tags)
	case "setArticleOverride":
		id := strings.TrimSpace(req.ArticleID)
		if id == "" || req.Patch == nil {
			return content.Data{}, errBadContentRequest
		}
		return a.Content.UpdateArticleOverride(id, *req.Patch)
	case "setHeroSlides":
		if req.Slides == nil {
			return content.Data{}, errBadContentRequest
		}
		slides := append([]content.HeroSlide{}, (*req.Slides)...)
		for i := range slides {
			if slides[i].ID == "" {
				slides[i].ID = uuid.NewString()
			}
		}
		return a.Content.SetHeroSlides(slides)
	default:
		return content.Data{}, errBadContentRequest
	}
}

func (a *App) handleUpload(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, a.Uploads.MaxSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			a.metrics.upload("too_large")
			return jsonError(c, http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, http.ErrMissingFile):
			fh = nil
		default:
			a.metrics.upload("invalid")
			return jsonError(c, http.StatusBadRequest, "Invalid upload")
		}
	}

	res, err := a.Uploads.Save(fh)
	switch {
	case errors.Is(err, upload.ErrNoFile):
		a.metrics.upload("no_file")
		return jsonError(c, http.StatusBadRequest, "No file provided")
	case errors.Is(err, upload.ErrUnsupportedType):
		a.metrics.upload("unsupported_type")
		return jsonError(c, http.StatusUnsupportedMediaType, "Unsupported file type")
	case errors.Is(err, upload.ErrTooLarge):
		a.metrics.upload("too_large")
		return jsonError(c, http.StatusRequestEntityTooLarge, "File too large")
	case err != nil:
		a.metrics.upload("error")
		a.Log.WithError(err).Error("upload failed")
		return jsonError(c, http.StatusInternalServerError, "Upload failed")
	}

	a.metrics.upload("ok")
	a.Log.WithFields(logrus.Fields{
		"file": res.Filename,
		"size": res.Size,
	}).Info("file uploaded")
	return c.JSON(http.StatusOK, apiResponse{Success: true, URL: res.URL, Data: res})
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *App) handleIssueToken(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return jsonError(c, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	var req tokenRequest
	if err := decodeJSON(c, &req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if !a.checkCredentials(req.Username, req.Password) {
		a.loginLimiter.Record(ip)
		return jsonError(c, http.StatusUnauthorized, "Invalid credentials")
	}
	a.loginLimiter.Reset(ip)
	token, err := a.Tokens.Issue(req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apiResponse{Success: true, Token: token})
}

// displayedArticles returns published articles with content overrides applied.
func (a *App) displayedArticles() ([]Article, error) {
	articles, err := a.Cache.Articles()
	if err != nil {
		return nil, err
	}
	return ApplyOverrides(articles, a.Content.Read().ArticleOverrides), nil
}

func (a *App) handleListArticles(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return jsonError(c, http.StatusBadRequest, "Invalid limit")
		}
		limit = n
	}
	articles, err := a.displayedArticles()
	if err != nil {
		return err
	}
	if cat := c.QueryParam("category"); cat != "" {
		articles = FilterByCategory(articles, cat)
	}
	if tag := c.QueryParam("tag"); tag != "" {
		articles = FilterByTag(articles, tag)
	}
	if q := c.QueryParam("q"); q != "" {
		articles = SearchArticles(articles, q)
	}
	articles = Limit(articles, limit)
	if articles == nil {
		articles = []Article{}
	}
	return jsonData(c, articles)
}

func (a *App) handleGetArticle(c echo.Context) error {
	article, err := a.Cache.Article(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "Article not found")
	}
	if err != nil {
		return err
	}
	if o, ok := a.Content.Override(article.ID); ok {
		article = ApplyOverride(article, o)
	}
	return jsonData(c, article)
}

func (a *App) handleListCategories(c echo.Context) error {
	categories, err := a.Cache.Categories()
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []Category{}
	}
	return jsonData(c, categories)
}

type tagsResponse struct {
	Available []string `json:"available"`
	Used      []string `json:"used"`
}

func (a *App) handleListTags(c echo.Context) error {
	used, err := a.Store.ListTags()
	if err != nil {
		return err
	}
	return jsonData(c, tagsResponse{Available: a.Content.Read().AvailableTags, Used: used})
}

func decodeJSON(c echo.Context, v any) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxJSONBody)
	return json.NewDecoder(body).Decode(v)
}

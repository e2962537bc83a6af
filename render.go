package newsdesk

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// apiResponse is the envelope of every /api response.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	URL     string `json:"url,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

func jsonData(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, apiResponse{Success: false, Error: msg})
}

// fallbackPage renders a heading and a list of article links.
func fallbackPage(title string, articles []Article) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%[1]s</title></head><body><h1>%[1]s</h1>", templ.EscapeString(title)); err != nil {
			return err
		}
		if len(articles) > 0 {
			io.WriteString(w, "<ul>")
			for _, a := range articles {
				fmt.Fprintf(w, "<li><a href=\"%s\">%s</a></li>", templ.EscapeString(a.Link), templ.EscapeString(a.Title))
			}
			io.WriteString(w, "</ul>")
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

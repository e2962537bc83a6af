// Package views holds the site's templ components.
package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// Funcs returns the ViewFuncs that render the built-in pages for cfg.
func Funcs(cfg newsdesk.SiteConfig) newsdesk.ViewFuncs {
	return newsdesk.ViewFuncs{
		Home:           Home,
		Category:       Category,
		Article:        Article,
		Search:         Search,
		AdminLogin:     AdminLogin(cfg),
		AdminDashboard: AdminDashboard(cfg),
		NotFound:       func() templ.Component { return NotFound(cfg) },
		ServerError:    func() templ.Component { return ServerError(cfg) },
	}
}

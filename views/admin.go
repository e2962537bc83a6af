package views

import (
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// dashboardScript posts the dashboard forms to the JSON API.
const dashboardScript = `<script>
(function () {
  var csrf = document.querySelector('meta[name="csrf-token"]').content;
  function send(url, method, body, isForm) {
    var headers = {'X-CSRF-Token': csrf};
    if (!isForm) { headers['Content-Type'] = 'application/json'; body = JSON.stringify(body); }
    return fetch(url, {method: method, headers: headers, body: body, credentials: 'same-origin'})
      .then(function (r) { return r.json(); })
      .then(function (res) { document.getElementById('status').textContent = res.success ? 'Saved' : res.error; return res; });
  }
  function lines(v) { return v.split('\n').map(function (s) { return s.trim(); }).filter(Boolean); }
  document.getElementById('ticker-form').addEventListener('submit', function (e) {
    e.preventDefault();
    send('/api/content', 'POST', {op: 'setBreakingNews', items: lines(e.target.items.value)});
  });
  document.getElementById('tags-form').addEventListener('submit', function (e) {
    e.preventDefault();
    send('/api/content', 'POST', {op: 'setAvailableTags', tags: lines(e.target.tags.value)});
  });
  document.getElementById('upload-form').addEventListener('submit', function (e) {
    e.preventDefault();
    send('/api/upload', 'POST', new FormData(e.target), true).then(function (res) {
      if (res.success) { document.getElementById('upload-url').textContent = res.url; }
    });
  });
  document.querySelectorAll('[data-delete]').forEach(function (btn) {
    btn.addEventListener('click', function () {
      if (confirm('Delete?')) { send(btn.dataset.delete, 'DELETE').then(function () { location.reload(); }); }
    });
  });
})();
</script>`

// AdminLogin renders the login form.
func AdminLogin(cfg newsdesk.SiteConfig) func(showError bool, csrfToken string) templ.Component {
	return func(showError bool, csrfToken string) templ.Component {
		return component(func(h *htmlWriter) {
			layout(h, cfg, newsdesk.PageMeta{Title: "Admin"}, nil, func() {
				h.raw(`<h1>Admin login</h1>`)
				if showError {
					h.raw(`<p class="error" role="alert">Invalid username or password.</p>`)
				}
				h.raw(`<form method="post" action="/admin/login/"><input type="hidden" name="_csrf"`)
				h.attr("value", csrfToken)
				h.raw(`><label>Username <input name="username" autocomplete="username" required></label>`)
				h.raw(`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`)
				h.raw(`<button type="submit">Sign in</button></form>`)
			})
		})
	}
}

// AdminDashboard renders the admin overview with the content editors.
func AdminDashboard(cfg newsdesk.SiteConfig) func(d newsdesk.Dashboard, csrfToken string) templ.Component {
	return func(d newsdesk.Dashboard, csrfToken string) templ.Component {
		return component(func(h *htmlWriter) {
			layout(h, cfg, newsdesk.PageMeta{Title: "Dashboard"}, nil, func() {
				h.raw(`<meta name="csrf-token"`)
				h.attr("content", csrfToken)
				h.raw(`><h1>Dashboard</h1><p>Signed in as `)
				h.text(d.Username)
				h.raw(`</p><form method="post" action="/admin/logout/"><input type="hidden" name="_csrf"`)
				h.attr("value", csrfToken)
				h.raw(`><button type="submit">Sign out</button></form><p id="status" role="status">`)
				h.text(d.Message)
				h.raw("</p>")

				h.raw(`<section><h2>Articles (`, strconv.Itoa(len(d.Articles)), `)</h2><table><thead><tr><th>Title</th><th>Category</th><th>Published</th><th>Views</th><th></th></tr></thead><tbody>`)
				for _, a := range d.Articles {
					title := a.Title
					if o, ok := d.Content.ArticleOverrides[a.ID]; ok && o.Title != nil {
						title = *o.Title + " (overridden)"
					}
					h.raw("<tr><td><a")
					h.attr("href", a.Link)
					h.raw(">")
					h.text(title)
					h.raw("</a></td><td>")
					h.text(a.Category)
					h.raw("</td><td>")
					if a.Published {
						h.text(FormatDate(a.PublishedAt))
					} else {
						h.raw("draft")
					}
					h.raw("</td><td>", strconv.Itoa(a.Views), "</td><td><button type=\"button\"")
					h.attr("data-delete", "/api/admin/articles/"+QueryEscape(a.ID))
					h.raw(">Delete</button></td></tr>")
				}
				h.raw("</tbody></table></section>")

				h.raw(`<section><h2>Categories</h2><ul>`)
				for _, c := range d.Categories {
					h.raw("<li>")
					h.text(c.Name)
					h.raw(" <code>")
					h.text(c.Slug)
					h.raw("</code> <button type=\"button\"")
					h.attr("data-delete", "/api/admin/categories/"+QueryEscape(c.Slug))
					h.raw(">Delete</button></li>")
				}
				h.raw("</ul></section>")

				h.raw(`<section><h2>Breaking news</h2><form id="ticker-form"><textarea name="items" rows="5">`)
				h.text(strings.Join(d.Content.BreakingNews, "\n"))
				h.raw(`</textarea><button type="submit">Save ticker</button></form></section>`)

				h.raw(`<section><h2>Available tags</h2><form id="tags-form"><textarea name="tags" rows="5">`)
				h.text(strings.Join(d.Content.AvailableTags, "\n"))
				h.raw(`</textarea><button type="submit">Save tags</button></form></section>`)

				h.raw(`<section><h2>Hero slides</h2><p>`, strconv.Itoa(len(d.Content.HeroSlides)), ` configured</p><ol>`)
				for _, s := range d.Content.HeroSlides {
					h.raw("<li>")
					h.text(s.Title)
					h.raw("</li>")
				}
				h.raw("</ol></section>")

				h.raw(`<section><h2>Upload image</h2><form id="upload-form" enctype="multipart/form-data"><input type="file" name="file" accept="image/*" required><button type="submit">Upload</button></form><p><code id="upload-url"></code></p></section>`)

				if len(d.Settings) > 0 {
					h.raw(`<section><h2>Settings</h2><dl>`)
					keys := make([]string, 0, len(d.Settings))
					for k := range d.Settings {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						h.raw("<dt>")
						h.text(k)
						h.raw("</dt><dd>")
						h.text(d.Settings[k])
						h.raw("</dd>")
					}
					h.raw("</dl></section>")
				}
				h.raw(dashboardScript)
			})
		})
	}
}

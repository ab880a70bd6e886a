package handlers

import (
	"html/template"
	"net/http"

	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
)

var blockedPageTmpl = template.Must(template.New("blocked").Parse(`<!DOCTYPE html>
<html>
<head><title>Site Blocked</title></head>
<body>
<h1>This site is blocked</h1>
{{if .From}}<p>You tried to visit <code>{{.From}}</code>, which is on your blocklist.</p>{{end}}
<p>Take a breath and get back to what matters.</p>
</body>
</html>
`))

// Blocked serves the page blocked navigations are redirected to, echoing
// the original URL from the query string.
func Blocked(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = blockedPageTmpl.Execute(w, struct{ From string }{
			From: r.URL.Query().Get("from"),
		})
	}
}

package server

import (
	"bytes"
	"fmt"
	"net/http"
)

// IndexURL is where every successful action redirects.
const IndexURL = "/?route=index"

// Result is either a rendered document or a redirect.
type Result struct {
	Status   int
	Location string
	Body     []byte
}

func (res *Result) IsRedirect() bool {
	return res.Location != ""
}

func redirectIndex() *Result {
	return &Result{Status: http.StatusFound, Location: IndexURL}
}

func notFound() *Result {
	return &Result{Status: http.StatusNotFound, Body: []byte("Error 404")}
}

// render merges the request scratch data, extra, the current user and the
// pending alert into the namespace of the view. The listing is always present.
func (d *Dispatcher) render(req *Request, view string, extra map[string]any) (*Result, error) {
	if _, ok := req.data["posts"]; !ok {
		posts, err := d.posts.GetAllPosts(req.ctx)
		if err != nil {
			return nil, err
		}
		req.data["posts"] = posts
	}

	ns := make(map[string]any, len(req.data)+len(extra)+2)
	for k, v := range req.data {
		ns[k] = v
	}
	for k, v := range extra {
		ns[k] = v
	}
	ns["user"] = req.ident.CurrentUser()
	ns["alert"] = req.alert

	var buf bytes.Buffer
	if err := d.views.Render(&buf, view, ns); err != nil {
		return nil, fmt.Errorf("render %s: %w", view, err)
	}
	return &Result{Status: http.StatusOK, Body: buf.Bytes()}, nil
}

// write sends the result. htmx requests get HX-Redirect instead of a 302.
func (res *Result) write(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")

	if res.IsRedirect() {
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", res.Location)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Location", res.Location)
		w.WriteHeader(res.Status)
		return
	}

	if res.Status == http.StatusNotFound {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}

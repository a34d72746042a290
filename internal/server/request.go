package server

import (
	"context"
	"net/http"
	"net/url"

	"microblog/internal/db"
	"microblog/pkg/utils"
)

type AlertType string

// AlertDanger is the only severity handlers raise.
const AlertDanger AlertType = "danger"

// Alert is a one-shot message attached to the rendered page.
type Alert struct {
	Type AlertType
	Text string
}

// Identity is the session of the current request.
type Identity interface {
	IsAuthorized() bool
	CurrentUser() *db.User
	CurrentUserID() int64
	AuthorizeUser(login, password string) (bool, error)
	RegisterUser(login, password string) (bool, error)
	Logout()
}

// Form exposes submitted free-text fields. Values are always HTML-escaped and
// a missing field reads as "".
type Form struct {
	values url.Values
}

func (f Form) Text(name string) string {
	return utils.EscapeText(f.values.Get(name))
}

// Request is the per-request state shared by a handler and the render step.
type Request struct {
	ctx   context.Context
	query url.Values
	form  Form
	ident Identity
	alert *Alert
	data  map[string]any
}

func newRequest(r *http.Request, ident Identity) *Request {
	return &Request{
		ctx:   r.Context(),
		query: r.URL.Query(),
		form:  Form{values: r.PostForm},
		ident: ident,
		data:  map[string]any{},
	}
}

// SetAlert replaces any pending alert.
func (r *Request) SetAlert(text string, typ AlertType) {
	r.alert = &Alert{Type: typ, Text: text}
}

func (r *Request) Alert() *Alert {
	return r.alert
}

// postID reads the post_id query parameter through the numeric guard.
func (r *Request) postID() (int64, bool) {
	return utils.ParseID(r.query.Get("post_id"))
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"microblog/internal/db"
	"microblog/internal/types"
)

type (
	Route      string
	Action     string
	ActionType string
)

const (
	RouteIndex Route = "index"

	ActionRegister Action = "register"
	ActionLogin    Action = "login"
	ActionLogout   Action = "logout"
	ActionPost     Action = "post"

	TypeAdd    ActionType = "add"
	TypeEdit   ActionType = "edit"
	TypeDelete ActionType = "delete"
)

type handlerFunc func(*Dispatcher, *Request) (*Result, error)

type actionKey struct {
	action Action
	typ    ActionType
}

var routes = map[Route]handlerFunc{
	RouteIndex: (*Dispatcher).index,
}

var indexActions = map[actionKey]handlerFunc{
	{ActionRegister, ""}:     (*Dispatcher).register,
	{ActionLogin, ""}:        (*Dispatcher).login,
	{ActionLogout, ""}:       (*Dispatcher).logout,
	{ActionPost, TypeAdd}:    (*Dispatcher).addPost,
	{ActionPost, TypeEdit}:   (*Dispatcher).editPost,
	{ActionPost, TypeDelete}: (*Dispatcher).deletePost,
}

// PostStore is the storage the dispatcher mutates.
type PostStore interface {
	GetAllPosts(ctx context.Context) ([]*db.Post, error)
	GetPost(ctx context.Context, id int64) (*db.Post, error)
	CreatePost(ctx context.Context, userID int64, title, text string) (int64, error)
	EditPost(ctx context.Context, id int64, title, text string) error
	DeletePost(ctx context.Context, id int64) error
}

// Renderer executes a named view with a flat namespace.
type Renderer interface {
	Render(w io.Writer, view string, data map[string]any) error
}

// IdentifyFunc resolves the session of a request.
type IdentifyFunc func(w http.ResponseWriter, r *http.Request) (Identity, error)

// Dispatcher maps route/action/actionType query parameters to one handler.
type Dispatcher struct {
	posts    PostStore
	identify IdentifyFunc
	views    Renderer
	log      *slog.Logger
}

func NewDispatcher(posts PostStore, identify IdentifyFunc, views Renderer, log *slog.Logger) *Dispatcher {
	return &Dispatcher{posts: posts, identify: identify, views: views, log: log}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := d.Dispatch(w, r)
	if err != nil {
		d.serverError(w, r, err)
		return
	}
	res.write(w, r)
}

// Dispatch runs the handler selected by the request. Cookies set by the
// identity are written to w; everything else is returned in the Result.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) (*Result, error) {
	route := Route(strings.ToLower(r.URL.Query().Get("route")))
	if route == "" {
		route = RouteIndex
	}

	handle, ok := routes[route]
	if !ok {
		return notFound(), nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, types.NewStatusError(fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
	}

	ident, err := d.identify(w, r)
	if err != nil {
		return nil, err
	}

	return handle(d, newRequest(r, ident))
}

func (d *Dispatcher) index(req *Request) (*Result, error) {
	req.data["post"] = &db.Post{}

	if handle, ok := lookupAction(req); ok {
		return handle(d, req)
	}
	return d.render(req, "index", nil)
}

// lookupAction falls back to the listing for a missing or unknown action.
func lookupAction(req *Request) (handlerFunc, bool) {
	action := Action(req.query.Get("action"))
	if action == "" {
		return nil, false
	}

	key := actionKey{action: action}
	if action == ActionPost {
		// only a missing actionType means add; an empty one matches nothing
		key.typ = TypeAdd
		if req.query.Has("actionType") {
			key.typ = ActionType(req.query.Get("actionType"))
		}
	}

	handle, ok := indexActions[key]
	return handle, ok
}

func (d *Dispatcher) serverError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var se types.StatusError
	if errors.As(err, &se) {
		status = se.HTTPStatus()
	}

	d.log.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", status),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	http.Error(w, http.StatusText(status), status)
}

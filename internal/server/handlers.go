package server

import (
	"errors"
	"log/slog"

	"microblog/internal/auth"
	"microblog/internal/db"
)

const (
	msgAlreadyAuthorized = "You are already logged in"
	msgNotAuthorized     = "You are not logged in"
	msgFillAllFields     = "Fill in all fields"
	msgLoginTaken        = "A user with this login already exists"
	msgPasswordTooLong   = "The password is too long"
	msgWrongCredentials  = "Wrong login or password"
	msgFillPost          = "Fill in the post title and text"
	msgPostNotFound      = "This post does not exist"
)

// Outcome names how an ownership-checked operation ended. NotOwner and
// NotFound are answered exactly like Success.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalid
	OutcomeNotFound
	OutcomeNotOwner
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeNotOwner:
		return "not_owner"
	default:
		return "unknown"
	}
}

func (d *Dispatcher) register(req *Request) (*Result, error) {
	if req.ident.IsAuthorized() {
		return d.fail(req, msgAlreadyAuthorized)
	}

	login, password := req.form.Text("login"), req.form.Text("password")
	if login == "" || password == "" {
		return d.fail(req, msgFillAllFields)
	}

	ok, err := req.ident.RegisterUser(login, password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return d.fail(req, msgPasswordTooLong)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return d.fail(req, msgLoginTaken)
	}
	return redirectIndex(), nil
}

func (d *Dispatcher) login(req *Request) (*Result, error) {
	if req.ident.IsAuthorized() {
		return d.fail(req, msgAlreadyAuthorized)
	}

	login, password := req.form.Text("login"), req.form.Text("password")
	ok, err := req.ident.AuthorizeUser(login, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return d.fail(req, msgWrongCredentials)
	}
	return redirectIndex(), nil
}

func (d *Dispatcher) logout(req *Request) (*Result, error) {
	if !req.ident.IsAuthorized() {
		return d.fail(req, msgNotAuthorized)
	}

	req.ident.Logout()
	return redirectIndex(), nil
}

func (d *Dispatcher) addPost(req *Request) (*Result, error) {
	if !req.ident.IsAuthorized() {
		return d.fail(req, msgNotAuthorized)
	}

	title, text := req.form.Text("title"), req.form.Text("text")
	if title == "" || text == "" {
		return d.fail(req, msgFillPost)
	}

	id, err := d.posts.CreatePost(req.ctx, req.ident.CurrentUserID(), title, text)
	if err != nil {
		return nil, err
	}
	d.log.InfoContext(req.ctx, "post created",
		slog.Int64("post_id", id),
		slog.Int64("user_id", req.ident.CurrentUserID()),
	)
	return redirectIndex(), nil
}

// editPost without title and text renders the listing with the stored post
// loaded into the form.
func (d *Dispatcher) editPost(req *Request) (*Result, error) {
	if !req.ident.IsAuthorized() {
		return d.fail(req, msgNotAuthorized)
	}

	id, ok := req.postID()
	if !ok {
		d.logOutcome(req, "edit", 0, OutcomeInvalid)
		return redirectIndex(), nil
	}

	post, outcome, err := d.ownedPost(req, id)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case OutcomeNotFound:
		return d.fail(req, msgPostNotFound)
	case OutcomeNotOwner:
		d.logOutcome(req, "edit", id, outcome)
		return redirectIndex(), nil
	}
	req.data["post"] = post

	title, text := req.form.Text("title"), req.form.Text("text")
	if title == "" || text == "" {
		return d.render(req, "index", map[string]any{"editing": true})
	}

	if err := d.posts.EditPost(req.ctx, id, title, text); err != nil {
		return nil, err
	}
	d.logOutcome(req, "edit", id, OutcomeSuccess)
	return redirectIndex(), nil
}

func (d *Dispatcher) deletePost(req *Request) (*Result, error) {
	if !req.ident.IsAuthorized() {
		return d.fail(req, msgNotAuthorized)
	}

	id, ok := req.postID()
	if !ok {
		d.logOutcome(req, "delete", 0, OutcomeInvalid)
		return redirectIndex(), nil
	}

	_, outcome, err := d.ownedPost(req, id)
	if err != nil {
		return nil, err
	}
	if outcome == OutcomeSuccess {
		if err := d.posts.DeletePost(req.ctx, id); err != nil {
			return nil, err
		}
	}
	d.logOutcome(req, "delete", id, outcome)
	return redirectIndex(), nil
}

// ownedPost loads the post and checks it belongs to the current user.
func (d *Dispatcher) ownedPost(req *Request, id int64) (*db.Post, Outcome, error) {
	post, err := d.posts.GetPost(req.ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, OutcomeNotFound, nil
	}
	if err != nil {
		return nil, OutcomeInvalid, err
	}
	if post.UserId != req.ident.CurrentUserID() {
		return post, OutcomeNotOwner, nil
	}
	return post, OutcomeSuccess, nil
}

// fail shows the alert on the re-rendered listing.
func (d *Dispatcher) fail(req *Request, text string) (*Result, error) {
	req.SetAlert(text, AlertDanger)
	return d.render(req, "index", nil)
}

func (d *Dispatcher) logOutcome(req *Request, op string, id int64, outcome Outcome) {
	d.log.DebugContext(req.ctx, "post "+op,
		slog.Int64("post_id", id),
		slog.Int64("user_id", req.ident.CurrentUserID()),
		slog.String("outcome", outcome.String()),
	)
}

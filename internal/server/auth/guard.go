package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
)

// Redirect is the outcome of a guard check that must end the request with
// a 302. Cookie, when set, has to be written before redirecting.
type Redirect struct {
	Location string
	Cookie   *http.Cookie
}

type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Guard resolves the current user from the session cookie.
type Guard struct {
	store       *Store
	users       UserFinder
	rememberFor time.Duration
}

func NewGuard(store *Store, users UserFinder, rememberFor time.Duration) *Guard {
	return &Guard{store: store, users: users, rememberFor: rememberFor}
}

func (g *Guard) Store() *Store {
	return g.store
}

// GetUserID returns the user id held by the session, or "".
func (g *Guard) GetUserID(r *http.Request) string {
	return g.store.Get(r).Get(common.UserSessionKey)
}

// GetUser loads the session user. An anonymous request yields (nil, nil, nil);
// a session pointing at a deleted user yields a logout redirect.
func (g *Guard) GetUser(ctx context.Context, r *http.Request) (*models.User, *Redirect, error) {
	id := g.GetUserID(r)
	if id == "" {
		return nil, nil, nil
	}
	return g.loadUser(ctx, id)
}

// RequireUserID returns the session user id or a redirect to the login page
// that brings the visitor back to redirectTo (the request path when empty).
func (g *Guard) RequireUserID(r *http.Request, redirectTo string) (string, *Redirect) {
	if id := g.GetUserID(r); id != "" {
		return id, nil
	}
	if redirectTo == "" {
		redirectTo = r.URL.Path
	}
	q := url.Values{"redirectTo": {redirectTo}}
	return "", &Redirect{Location: "/login?" + q.Encode()}
}

// RequireUser is RequireUserID plus a lookup of the user record.
func (g *Guard) RequireUser(ctx context.Context, r *http.Request) (*models.User, *Redirect, error) {
	id, redirect := g.RequireUserID(r, "")
	if redirect != nil {
		return nil, redirect, nil
	}
	return g.loadUser(ctx, id)
}

func (g *Guard) loadUser(ctx context.Context, id string) (*models.User, *Redirect, error) {
	user, err := g.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, g.Logout(), nil
		}
		return nil, nil, err
	}
	return user, nil, nil
}

// CreateUserSession logs userID in. With remember set the cookie outlives
// the browser session. redirectTo must already be sanitized.
func (g *Guard) CreateUserSession(r *http.Request, userID string, remember bool, redirectTo string) (*Redirect, error) {
	sess := g.store.Get(r)
	sess.Set(common.UserSessionKey, userID)

	var maxAge time.Duration
	if remember {
		maxAge = g.rememberFor
	} else {
		sess.expiresAt = time.Time{}
	}

	cookie, err := g.store.Commit(sess, maxAge)
	if err != nil {
		return nil, err
	}
	return &Redirect{Location: redirectTo, Cookie: cookie}, nil
}

// Logout destroys the session and sends the visitor home.
func (g *Guard) Logout() *Redirect {
	return &Redirect{Location: DefaultRedirect, Cookie: g.store.Destroy()}
}

package auth

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
)

// Store reads and writes sessions as signed HS256 cookies.
type Store struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewStore(secret string, secure bool) *Store {
	return &Store{secret: []byte(secret), secure: secure, now: time.Now}
}

// Get decodes the session cookie of r. A missing, expired or tampered
// cookie yields an empty session.
func (s *Store) Get(r *http.Request) *Session {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return NewSession()
	}
	return s.Decode(c.Value)
}

func (s *Store) Decode(value string) *Session {
	if value == "" {
		return NewSession()
	}
	sess, err := decodeSession(value, s.secret, s.now())
	if err != nil {
		return NewSession()
	}
	return sess
}

// Commit serializes sess into a cookie. A positive maxAge makes the cookie
// persistent; zero keeps whatever lifetime the session already had, which
// is a browser-session cookie for sessions never committed with a max-age.
func (s *Store) Commit(sess *Session, maxAge time.Duration) (*http.Cookie, error) {
	now := s.now()
	if maxAge > 0 {
		sess.expiresAt = now.Add(maxAge)
	}

	value, err := encodeSession(sess, s.secret, now)
	if err != nil {
		return nil, err
	}

	c := s.cookie(value)
	if sess.Persistent() {
		remaining := sess.expiresAt.Sub(now)
		if remaining < time.Second {
			remaining = time.Second
		}
		c.MaxAge = int(remaining / time.Second)
		c.Expires = sess.expiresAt.UTC()
	}
	return c, nil
}

// Destroy returns a cookie that clears the session in the browser.
func (s *Store) Destroy() *http.Cookie {
	c := s.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	return c
}

func (s *Store) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	}
}

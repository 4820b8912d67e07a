package tokenstore

import (
	"net/http"
	"time"
)

const DefaultCookieName = "auth_token"

// CookieOptions describes the session cookie written by CookieStore
type CookieOptions struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// DefaultCookieOptions returns the auth_token cookie settings. Secure should be false only in development.
func DefaultCookieOptions(secure bool) CookieOptions {
	return CookieOptions{
		Name:     DefaultCookieName,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieStore is a Store scoped to a single HTTP exchange. It reads the token from the
// request and writes Set-Cookie headers on the response. Script in the page cannot read
// the cookie.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	written bool
	token   string
}

var _ Store = (*CookieStore)(nil)

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	if opts.Name == "" {
		opts.Name = DefaultCookieName
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &CookieStore{w: w, r: r, opts: opts}
}

func (s *CookieStore) Set(token string, ttl time.Duration) error {
	if token == "" {
		return ErrEmptyToken
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	http.SetCookie(s.w, s.cookie(token, int(ttl.Seconds())))
	s.written = true
	s.token = token
	return nil
}

func (s *CookieStore) Get() (string, bool) {
	if s.written {
		return s.token, s.token != ""
	}
	cookie, err := s.r.Cookie(s.opts.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *CookieStore) Clear() error {
	c := s.cookie("", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(s.w, c)
	s.written = true
	s.token = ""
	return nil
}

func (s *CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.Name,
		Value:    value,
		Path:     s.opts.Path,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
		MaxAge:   maxAge,
	}
}

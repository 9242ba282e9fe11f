// Package cookies adapts a gin request's cookies to session.Store.
package cookies

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Secure bool
	MaxAge time.Duration
	Path   string
	Domain string
}

// Store reads request cookies and writes Set-Cookie headers. Writes made
// during the request are visible to later reads in the same request.
type Store struct {
	c       *gin.Context
	opts    Options
	pending map[string]*string
}

func New(c *gin.Context, opts Options) *Store {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Store{c: c, opts: opts, pending: map[string]*string{}}
}

func (s *Store) Get(key string) (string, bool) {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	v, err := s.c.Cookie(key)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s *Store) Set(key, value string) {
	s.pending[key] = &value
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, int(s.opts.MaxAge.Seconds()), s.opts.Path, s.opts.Domain, s.opts.Secure, true)
}

func (s *Store) Delete(key string) {
	s.pending[key] = nil
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, "", -1, s.opts.Path, s.opts.Domain, s.opts.Secure, true)
}

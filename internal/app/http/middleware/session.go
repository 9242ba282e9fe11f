package middleware

import (
	"github.com/gin-gonic/gin"

	"paywall-app/internal/domain/session"
	"paywall-app/internal/infra/cookies"
)

const (
	ContextKeyIdentity = "identity"
	ContextKeyUserID   = "user_id"
	contextKeyStore    = "session_store"
)

type SessionMiddleware struct {
	resolver *session.Resolver
	cookies  cookies.Options
}

func NewSessionMiddleware(resolver *session.Resolver, opts cookies.Options) *SessionMiddleware {
	return &SessionMiddleware{resolver: resolver, cookies: opts}
}

// Resolve never rejects a request. Anonymous visitors continue with no
// identity in the context.
func (m *SessionMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := cookies.New(c, m.cookies)
		c.Set(contextKeyStore, store)

		res := m.resolver.Resolve(c.Request.Context(), store)
		if res.Identity != nil {
			c.Set(ContextKeyIdentity, res.Identity)
			c.Set(ContextKeyUserID, res.Identity.UserID)
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) *session.Identity {
	v, ok := c.Get(ContextKeyIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*session.Identity)
	return id
}

// CurrentUserID returns "" for anonymous visitors.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// SessionStore returns the cookie store the request was resolved against.
func SessionStore(c *gin.Context) session.Store {
	if v, ok := c.Get(contextKeyStore); ok {
		if s, ok := v.(session.Store); ok {
			return s
		}
	}
	return cookies.New(c, cookies.Options{})
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paywall-app/internal/api/response"
	"paywall-app/internal/app/http/middleware"
	"paywall-app/internal/domain/session"
	"paywall-app/internal/domain/subscriptions"
	"paywall-app/internal/domain/users"
	apperrors "paywall-app/internal/shared/errors"
	"paywall-app/internal/shared/logger"
)

type UserService interface {
	SignUp(ctx context.Context, email, password, name string) (*users.User, error)
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
	FindOrCreateGoogle(ctx context.Context, gp users.GoogleProfile) (*users.User, error)
}

type SubscriptionReader interface {
	Get(ctx context.Context, userID string, now time.Time) (*subscriptions.Subscription, subscriptions.Standing)
}

type Handler struct {
	users    UserService
	sessions *session.Resolver
	subs     SubscriptionReader
	google   *Google
	log      logger.Interface
	now      func() time.Time
}

// NewHandler wires the auth endpoints. google may be nil when Google
// sign-in is not configured.
func NewHandler(svc UserService, sessions *session.Resolver, subs SubscriptionReader, google *Google, log logger.Interface) *Handler {
	return &Handler{
		users:    svc,
		sessions: sessions,
		subs:     subs,
		google:   google,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignUp handles POST /api/auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" || req.Name == "" {
		response.Error(c, h.log, apperrors.NewValidationError("Email, password, and name are required"))
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		response.Error(c, h.log, apperrors.NewConflictError(err.Error(), err))
		return
	case errors.Is(err, users.ErrInvalidEmail), errors.Is(err, users.ErrWeakPassword):
		response.Error(c, h.log, apperrors.NewValidationError(err.Error(), err))
		return
	case err != nil:
		response.Error(c, h.log, err)
		return
	}

	// The account exists either way; the visitor can still sign in manually.
	if err := h.sessions.Establish(c.Request.Context(), middleware.SessionStore(c), identityOf(user)); err != nil {
		h.log.Errorw("failed to sign in after signup", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /api/auth/signin.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		response.Error(c, h.log, apperrors.NewValidationError("Email and password are required"))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		response.Error(c, h.log, apperrors.NewUnauthorizedError(err.Error(), err))
		return
	}
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if err := h.sessions.Establish(c.Request.Context(), middleware.SessionStore(c), identityOf(user)); err != nil {
		response.Error(c, h.log, apperrors.NewInternalError("Authentication failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}

// SignOut handles POST /api/auth/signout. It succeeds for anonymous visitors too.
func (h *Handler) SignOut(c *gin.Context) {
	h.sessions.End(c.Request.Context(), middleware.SessionStore(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session handles GET /api/auth/session.
func (h *Handler) Session(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil, "subscription": nil})
		return
	}

	var sub *subscriptions.Subscription
	if s, _ := h.subs.Get(c.Request.Context(), id.UserID, h.now()); s != nil {
		sub = s
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         userResponse{ID: id.UserID, Email: id.Email},
		"subscription": sub,
	})
}

func identityOf(u *users.User) session.Identity {
	return session.Identity{UserID: u.ID, Email: u.Email}
}

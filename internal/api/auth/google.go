package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"paywall-app/internal/api/response"
	"paywall-app/internal/app/http/middleware"
	"paywall-app/internal/domain/users"
	apperrors "paywall-app/internal/shared/errors"
)

const (
	googleIssuer   = "https://accounts.google.com"
	googleJWKSURL  = "https://www.googleapis.com/oauth2/v3/certs"
	stateCookie    = "oauth_state"
	stateCookieAge = 300
)

// Exchanger turns an authorization code into a verified Google profile.
type Exchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (users.GoogleProfile, error)
}

type GoogleConfig struct {
	ClientID         string
	ClientSecret     string
	RedirectURL      string
	FrontendRedirect string
	SecureCookies    bool
}

type Google struct {
	exchanger        Exchanger
	frontendRedirect string
	secure           bool
}

func NewGoogle(exchanger Exchanger, cfg GoogleConfig) *Google {
	return &Google{exchanger: exchanger, frontendRedirect: cfg.FrontendRedirect, secure: cfg.SecureCookies}
}

type oidcExchanger struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewOIDCExchanger verifies id tokens against Google's published keys. The
// key set is fetched on first use.
func NewOIDCExchanger(ctx context.Context, cfg GoogleConfig) Exchanger {
	keys := oidc.NewRemoteKeySet(ctx, googleJWKSURL)
	return &oidcExchanger{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		verifier: oidc.NewVerifier(googleIssuer, keys, &oidc.Config{ClientID: cfg.ClientID}),
	}
}

func (e *oidcExchanger) AuthCodeURL(state string) string {
	return e.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleIDClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (e *oidcExchanger) Exchange(ctx context.Context, code string) (users.GoogleProfile, error) {
	tok, err := e.oauth.Exchange(ctx, code)
	if err != nil {
		return users.GoogleProfile{}, err
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return users.GoogleProfile{}, errors.New("missing id_token")
	}
	idToken, err := e.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return users.GoogleProfile{}, err
	}
	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return users.GoogleProfile{}, err
	}
	if claims.Email == "" || claims.Sub == "" {
		return users.GoogleProfile{}, errors.New("token missing required claims")
	}
	return users.GoogleProfile{Sub: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GoogleStart handles GET /api/auth/google.
func (h *Handler) GoogleStart(c *gin.Context) {
	if h.google == nil {
		response.Error(c, h.log, apperrors.NewNotFoundError("Google sign-in is not enabled"))
		return
	}
	state, err := randomState()
	if err != nil {
		response.Error(c, h.log, apperrors.NewInternalError("failed to generate state", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieAge, "/", "", h.google.secure, true)
	c.Redirect(http.StatusFound, h.google.exchanger.AuthCodeURL(state))
}

// GoogleCallback handles GET /api/auth/google/callback.
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		response.Error(c, h.log, apperrors.NewNotFoundError("Google sign-in is not enabled"))
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		response.Error(c, h.log, apperrors.NewValidationError("missing code/state"))
		return
	}
	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		response.Error(c, h.log, apperrors.NewValidationError("invalid oauth state"))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/", "", h.google.secure, true)

	profile, err := h.google.exchanger.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warnw("google code exchange failed", "error", err)
		response.Error(c, h.log, apperrors.NewUnauthorizedError("failed to exchange code", err))
		return
	}

	user, err := h.users.FindOrCreateGoogle(c.Request.Context(), profile)
	if err != nil {
		response.Error(c, h.log, apperrors.NewInternalError("failed to create user", err))
		return
	}

	if err := h.sessions.Establish(c.Request.Context(), middleware.SessionStore(c), identityOf(user)); err != nil {
		response.Error(c, h.log, apperrors.NewInternalError("could not create session", err))
		return
	}

	if h.google.frontendRedirect == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
		return
	}
	c.Redirect(http.StatusFound, h.google.frontendRedirect)
}

// Package app assembles the paywall server from its collaborators.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"paywall-app/config"
	authapi "paywall-app/internal/api/auth"
	postsapi "paywall-app/internal/api/posts"
	routes "paywall-app/internal/app/http"
	"paywall-app/internal/app/http/middleware"
	"paywall-app/internal/domain/access"
	"paywall-app/internal/domain/audit"
	"paywall-app/internal/domain/content"
	"paywall-app/internal/domain/session"
	"paywall-app/internal/domain/subscriptions"
	"paywall-app/internal/domain/users"
	"paywall-app/internal/infra/cookies"
	"paywall-app/internal/infra/metrics"
	"paywall-app/internal/infra/persistence"
	"paywall-app/internal/infra/redisstore"
	"paywall-app/internal/infra/token"
	"paywall-app/internal/shared/logger"
)

type Deps struct {
	Config  *config.Config
	Log     logger.Interface
	DB      *gorm.DB
	Redis   *redis.Client
	Content content.Catalog
	// Google is nil when Google sign-in is disabled.
	Google authapi.Exchanger
	// Metrics defaults to a fresh registry.
	Metrics *metrics.Metrics
}

func NewServer(d Deps) *gin.Engine {
	cfg := d.Config
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}

	userRepo := persistence.NewUserRepository(d.DB)
	subRepo := persistence.NewSubscriptionRepository(d.DB)
	logRepo := persistence.NewAccessLogRepository(d.DB)

	lookup := subscriptions.NewLookup(subRepo, d.Log)
	engine := access.NewEngine(lookup)
	sink := audit.NewSink(logRepo, d.Log, audit.WithAsync(cfg.AuditAsync), audit.WithObserver(m))

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.SessionMaxAge,
		redisstore.NewSessionRegistry(d.Redis, cfg.SessionMaxAge))
	resolver := session.NewResolver(tokens, d.Log)

	userSvc := users.NewService(userRepo, userRepo, subRepo, d.Log)

	var google *authapi.Google
	if d.Google != nil {
		google = authapi.NewGoogle(d.Google, authapi.GoogleConfig{
			FrontendRedirect: cfg.GoogleFrontendRedirect,
			SecureCookies:    cfg.IsProduction(),
		})
	}

	return routes.NewRouter(routes.Options{CORSOrigin: cfg.CORSOrigin}, d.Log, routes.Handlers{
		Auth:    authapi.NewHandler(userSvc, resolver, lookup, google, d.Log),
		Posts:   postsapi.NewHandler(d.Content, engine, sink, d.Log),
		Catalog: postsapi.NewCatalogHandler(d.Content, d.Log),
		Session: middleware.NewSessionMiddleware(resolver, cookies.Options{
			Secure: cfg.IsProduction(),
			MaxAge: cfg.SessionMaxAge,
		}),
		Metrics: m,
	})
}

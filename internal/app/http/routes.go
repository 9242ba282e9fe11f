package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authapi "paywall-app/internal/api/auth"
	postsapi "paywall-app/internal/api/posts"
	"paywall-app/internal/app/http/middleware"
	"paywall-app/internal/infra/metrics"
	"paywall-app/internal/shared/logger"
)

type Handlers struct {
	Auth    *authapi.Handler
	Posts   *postsapi.Handler
	Catalog *postsapi.CatalogHandler
	Session *middleware.SessionMiddleware
	Metrics *metrics.Metrics
}

type Options struct {
	CORSOrigin string
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(opts Options, log logger.Interface, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log.Named("http")))
	r.Use(h.Metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	api := r.Group("/api")
	api.Use(h.Session.Resolve())

	authGroup := api.Group("/auth")
	authGroup.GET("/session", h.Auth.Session)
	authGroup.POST("/signout", h.Auth.SignOut)
	authGroup.GET("/google", h.Auth.GoogleStart)
	authGroup.GET("/google/callback", h.Auth.GoogleCallback)

	public := authGroup.Group("/")
	public.Use(middleware.SanitizeJSON())
	public.POST("/signup", h.Auth.SignUp)
	public.POST("/signin", h.Auth.SignIn)

	api.GET("/posts", h.Posts.List)
	api.GET("/posts/featured", h.Catalog.Featured)
	api.GET("/posts/:slug", h.Posts.Get)
	api.GET("/access/:slug", h.Posts.Access)
	api.GET("/sitemap", h.Catalog.Sitemap)

	api.GET("/tags", h.Catalog.Tags)
	api.GET("/tags/:slug", h.Catalog.Tag)
	api.GET("/tags/:slug/posts", h.Catalog.TagPosts)
	api.GET("/authors", h.Catalog.Authors)
	api.GET("/authors/:slug", h.Catalog.Author)
	api.GET("/authors/:slug/posts", h.Catalog.AuthorPosts)
}

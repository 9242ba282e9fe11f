package posts

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paywall-app/internal/api/response"
	"paywall-app/internal/app/http/middleware"
	"paywall-app/internal/domain/access"
	"paywall-app/internal/domain/content"
	apperrors "paywall-app/internal/shared/errors"
	"paywall-app/internal/shared/logger"
)

const (
	defaultLimit = 15
	maxLimit     = 100
)

type Decider interface {
	Decide(ctx context.Context, userID string, post *content.Post) access.Decision
}

type Recorder interface {
	Record(ctx context.Context, userID string, postSlug string, d access.Decision)
}

type Handler struct {
	source  content.Source
	engine  Decider
	auditor Recorder
	log     logger.Interface
}

func NewHandler(source content.Source, engine Decider, auditor Recorder, log logger.Interface) *Handler {
	return &Handler{source: source, engine: engine, auditor: auditor, log: log.Named("posts")}
}

type postSummary struct {
	content.Post
	HTML string `json:"html,omitempty"`
	Paid bool   `json:"paid"`
}

type postDetail struct {
	content.Post
	HTML   *string         `json:"html"`
	Paid   bool            `json:"paid"`
	Access access.Decision `json:"access"`
}

// List handles GET /api/posts. Body HTML is never included in listings.
func (h *Handler) List(c *gin.Context) {
	res, err := h.source.GetPosts(c.Request.Context(), listOptions(c))
	if err != nil {
		response.Error(c, h.log, apperrors.NewBadGatewayError("Failed to load posts", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": summaries(res.Posts), "pagination": res.Pagination})
}

func summaries(posts []content.Post) []postSummary {
	items := make([]postSummary, 0, len(posts))
	for i := range posts {
		items = append(items, postSummary{Post: posts[i], Paid: content.IsPaid(&posts[i])})
	}
	return items
}

func listOptions(c *gin.Context) content.ListOptions {
	limit := queryInt(c, "limit", defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	return content.ListOptions{Page: queryInt(c, "page", 1), Limit: limit}
}

// Get handles GET /api/posts/:slug. Denied readers get the teaser only.
func (h *Handler) Get(c *gin.Context) {
	post, d, ok := h.decide(c)
	if !ok {
		return
	}

	out := postDetail{Post: *post, Paid: content.IsPaid(post), Access: d}
	if d.Granted {
		html := post.HTML
		out.HTML = &html
	} else {
		out.Excerpt = post.Teaser()
	}
	c.JSON(http.StatusOK, out)
}

// Access handles GET /api/access/:slug.
func (h *Handler) Access(c *gin.Context) {
	_, d, ok := h.decide(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": d})
}

func (h *Handler) decide(c *gin.Context) (*content.Post, access.Decision, bool) {
	ctx := c.Request.Context()
	post, err := h.source.GetPostBySlug(ctx, c.Param("slug"))
	switch {
	case errors.Is(err, content.ErrNotFound):
		response.Error(c, h.log, apperrors.NewNotFoundError("Post not found", err))
		return nil, access.Decision{}, false
	case err != nil:
		response.Error(c, h.log, apperrors.NewBadGatewayError("Failed to load post", err))
		return nil, access.Decision{}, false
	case post.Slug == "":
		response.Error(c, h.log, apperrors.NewInternalError("post has no slug"))
		return nil, access.Decision{}, false
	}

	userID := middleware.CurrentUserID(c)
	d := h.engine.Decide(ctx, userID, post)
	h.auditor.Record(ctx, userID, post.Slug, d)
	return post, d, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

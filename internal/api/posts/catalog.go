package posts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paywall-app/internal/api/response"
	"paywall-app/internal/domain/content"
	apperrors "paywall-app/internal/shared/errors"
	"paywall-app/internal/shared/logger"
)

// CatalogHandler serves the browse endpoints. Nothing here returns post
// bodies, so no access decision is made.
type CatalogHandler struct {
	catalog content.Catalog
	log     logger.Interface
}

func NewCatalogHandler(catalog content.Catalog, log logger.Interface) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log.Named("catalog")}
}

type sitemapEntry struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	Paid        bool       `json:"paid"`
}

// Featured handles GET /api/posts/featured. The post is null when none is featured.
func (h *CatalogHandler) Featured(c *gin.Context) {
	post, err := h.catalog.GetFeaturedPost(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, apperrors.NewBadGatewayError("Failed to load featured post", err))
		return
	}
	if post == nil {
		c.JSON(http.StatusOK, gin.H{"post": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": postSummary{Post: *post, Paid: content.IsPaid(post)}})
}

// Sitemap handles GET /api/sitemap.
func (h *CatalogHandler) Sitemap(c *gin.Context) {
	posts, err := h.catalog.GetAllPosts(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, apperrors.NewBadGatewayError("Failed to load posts", err))
		return
	}

	entries := make([]sitemapEntry, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		entries = append(entries, sitemapEntry{
			Slug:        p.Slug,
			Title:       p.Title,
			PublishedAt: p.PublishedAt,
			UpdatedAt:   p.UpdatedAt,
			Paid:        content.IsPaid(p),
		})
	}
	c.JSON(http.StatusOK, gin.H{"posts": entries})
}

func (h *CatalogHandler) Tags(c *gin.Context) {
	tags, err := h.catalog.GetTags(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, apperrors.NewBadGatewayError("Failed to load tags", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *CatalogHandler) Tag(c *gin.Context) {
	tag, ok := h.tag(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// TagPosts handles GET /api/tags/:slug/posts. Unknown tags are 404 rather
// than an empty listing.
func (h *CatalogHandler) TagPosts(c *gin.Context) {
	tag, ok := h.tag(c)
	if !ok {
		return
	}
	page, ok := h.page(c, h.catalog.GetPostsByTag)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag, "posts": summaries(page.Posts), "pagination": page.Pagination})
}

func (h *CatalogHandler) Authors(c *gin.Context) {
	authors, err := h.catalog.GetAuthors(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, apperrors.NewBadGatewayError("Failed to load authors", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors})
}

func (h *CatalogHandler) Author(c *gin.Context) {
	author, ok := h.author(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": author})
}

func (h *CatalogHandler) AuthorPosts(c *gin.Context) {
	author, ok := h.author(c)
	if !ok {
		return
	}
	page, ok := h.page(c, h.catalog.GetPostsByAuthor)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": author, "posts": summaries(page.Posts), "pagination": page.Pagination})
}

func (h *CatalogHandler) tag(c *gin.Context) (*content.Tag, bool) {
	tag, err := h.catalog.GetTagBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.lookupError(c, "Tag not found", err)
		return nil, false
	}
	return tag, true
}

func (h *CatalogHandler) author(c *gin.Context) (*content.Author, bool) {
	author, err := h.catalog.GetAuthorBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.lookupError(c, "Author not found", err)
		return nil, false
	}
	return author, true
}

type filteredList func(ctx context.Context, slug string, opts content.ListOptions) (*content.PostPage, error)

func (h *CatalogHandler) page(c *gin.Context, list filteredList) (*content.PostPage, bool) {
	page, err := list(c.Request.Context(), c.Param("slug"), listOptions(c))
	if err != nil {
		h.lookupError(c, "Not found", err)
		return nil, false
	}
	return page, true
}

func (h *CatalogHandler) lookupError(c *gin.Context, notFound string, err error) {
	if errors.Is(err, content.ErrNotFound) {
		response.Error(c, h.log, apperrors.NewNotFoundError(notFound, err))
		return
	}
	response.Error(c, h.log, apperrors.NewBadGatewayError("Failed to load content", err))
}

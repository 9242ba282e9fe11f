package content

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown post, tag or author slugs.
var ErrNotFound = errors.New("content not found")

type Tag struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	FeatureImage *string `json:"feature_image,omitempty"`
}

type Author struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	ProfileImage *string `json:"profile_image"`
	Bio          *string `json:"bio,omitempty"`
	Website      *string `json:"website,omitempty"`
	Location     *string `json:"location,omitempty"`
}

// Post is a content item as served by the CMS. It is read-only here.
type Post struct {
	ID            string     `json:"id"`
	UUID          string     `json:"uuid"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	HTML          string     `json:"html"`
	Excerpt       string     `json:"excerpt"`
	CustomExcerpt *string    `json:"custom_excerpt"`
	FeatureImage  *string    `json:"feature_image"`
	Featured      bool       `json:"featured"`
	Visibility    string     `json:"visibility"`
	ReadingTime   int        `json:"reading_time"`
	PublishedAt   *time.Time `json:"published_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	PrimaryAuthor *Author    `json:"primary_author,omitempty"`
	Authors       []Author   `json:"authors,omitempty"`
	PrimaryTag    *Tag       `json:"primary_tag,omitempty"`
	Tags          []Tag      `json:"tags,omitempty"`
}

// Teaser is what anonymous or unsubscribed readers get instead of HTML.
func (p *Post) Teaser() string {
	if p.CustomExcerpt != nil && *p.CustomExcerpt != "" {
		return *p.CustomExcerpt
	}
	return p.Excerpt
}

type Pagination struct {
	Page  int  `json:"page"`
	Limit int  `json:"limit"`
	Pages int  `json:"pages"`
	Total int  `json:"total"`
	Next  *int `json:"next"`
	Prev  *int `json:"prev"`
}

type PostPage struct {
	Posts      []Post
	Pagination Pagination
}

type ListOptions struct {
	Limit   int
	Page    int
	Filter  string
	Include string
}

// Source is the read-only CMS collaborator.
type Source interface {
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	GetPosts(ctx context.Context, opts ListOptions) (*PostPage, error)
}

// Catalog adds the browse queries used by the listing pages. Post listings
// filtered by tag or author use the CMS filter syntax.
type Catalog interface {
	Source
	// GetFeaturedPost returns nil, nil when no post is featured.
	GetFeaturedPost(ctx context.Context) (*Post, error)
	GetAllPosts(ctx context.Context) ([]Post, error)
	GetTags(ctx context.Context) ([]Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*Tag, error)
	GetPostsByTag(ctx context.Context, tagSlug string, opts ListOptions) (*PostPage, error)
	GetAuthors(ctx context.Context) ([]Author, error)
	GetAuthorBySlug(ctx context.Context, slug string) (*Author, error)
	GetPostsByAuthor(ctx context.Context, authorSlug string, opts ListOptions) (*PostPage, error)
}

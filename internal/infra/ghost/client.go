// Package ghost reads posts from the Ghost Content API.
package ghost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"paywall-app/internal/domain/content"
)

const (
	defaultInclude = "authors,tags"
	defaultLimit   = 15
	allPostsLimit  = 100
)

type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewClient(baseURL, key string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, key: key, http: httpClient}
}

type meta struct {
	Pagination content.Pagination `json:"pagination"`
}

type postsResponse struct {
	Posts []content.Post `json:"posts"`
	Meta  meta           `json:"meta"`
}

type tagsResponse struct {
	Tags []content.Tag `json:"tags"`
}

type authorsResponse struct {
	Authors []content.Author `json:"authors"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ghost api error: %s", e.Status)
}

func (c *Client) fetch(ctx context.Context, resource string, params url.Values, out any) error {
	u, err := url.Parse(c.baseURL + "/ghost/api/content/" + resource + "/")
	if err != nil {
		return fmt.Errorf("build ghost url: %w", err)
	}
	params.Set("key", c.key)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ghost request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{StatusCode: res.StatusCode, Status: res.Status}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ghost response: %w", err)
	}
	return nil
}

// fetchBySlug reads a single-resource endpoint. A 404 or an unusable slug
// becomes content.ErrNotFound.
func (c *Client) fetchBySlug(ctx context.Context, resource, slug string, params url.Values, out any) error {
	if !validSlug(slug) {
		return content.ErrNotFound
	}
	err := c.fetch(ctx, resource+"/slug/"+url.PathEscape(slug), params, out)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return content.ErrNotFound
	}
	return err
}

// validSlug keeps slugs out of the filter expression grammar.
func validSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// GetPostBySlug returns content.ErrNotFound when Ghost has no such post.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*content.Post, error) {
	params := url.Values{}
	params.Set("include", defaultInclude)

	var body postsResponse
	if err := c.fetchBySlug(ctx, "posts", slug, params, &body); err != nil {
		return nil, err
	}
	if len(body.Posts) == 0 {
		return nil, content.ErrNotFound
	}
	return &body.Posts[0], nil
}

func (c *Client) GetPosts(ctx context.Context, opts content.ListOptions) (*content.PostPage, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Include == "" {
		opts.Include = defaultInclude
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(opts.Limit))
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("include", opts.Include)
	if opts.Filter != "" {
		params.Set("filter", opts.Filter)
	}

	var body postsResponse
	if err := c.fetch(ctx, "posts", params, &body); err != nil {
		return nil, err
	}
	posts := body.Posts
	if posts == nil {
		posts = []content.Post{}
	}
	return &content.PostPage{Posts: posts, Pagination: body.Meta.Pagination}, nil
}

// GetFeaturedPost returns nil when no post is featured.
func (c *Client) GetFeaturedPost(ctx context.Context) (*content.Post, error) {
	page, err := c.GetPosts(ctx, content.ListOptions{Limit: 1, Filter: "featured:true"})
	if err != nil {
		return nil, err
	}
	if len(page.Posts) == 0 {
		return nil, nil
	}
	return &page.Posts[0], nil
}

// GetAllPosts follows pagination until Ghost reports no next page.
func (c *Client) GetAllPosts(ctx context.Context) ([]content.Post, error) {
	var all []content.Post
	for page := 1; ; page++ {
		res, err := c.GetPosts(ctx, content.ListOptions{Page: page, Limit: allPostsLimit})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Posts...)
		if res.Pagination.Next == nil {
			return all, nil
		}
	}
}

func (c *Client) GetPostsByTag(ctx context.Context, tagSlug string, opts content.ListOptions) (*content.PostPage, error) {
	if !validSlug(tagSlug) {
		return nil, content.ErrNotFound
	}
	opts.Filter = "tag:" + tagSlug
	return c.GetPosts(ctx, opts)
}

func (c *Client) GetPostsByAuthor(ctx context.Context, authorSlug string, opts content.ListOptions) (*content.PostPage, error) {
	if !validSlug(authorSlug) {
		return nil, content.ErrNotFound
	}
	opts.Filter = "author:" + authorSlug
	return c.GetPosts(ctx, opts)
}

func (c *Client) GetTags(ctx context.Context) ([]content.Tag, error) {
	var body tagsResponse
	if err := c.fetch(ctx, "tags", url.Values{"limit": {"all"}}, &body); err != nil {
		return nil, err
	}
	if body.Tags == nil {
		return []content.Tag{}, nil
	}
	return body.Tags, nil
}

func (c *Client) GetTagBySlug(ctx context.Context, slug string) (*content.Tag, error) {
	var body tagsResponse
	if err := c.fetchBySlug(ctx, "tags", slug, url.Values{}, &body); err != nil {
		return nil, err
	}
	if len(body.Tags) == 0 {
		return nil, content.ErrNotFound
	}
	return &body.Tags[0], nil
}

func (c *Client) GetAuthors(ctx context.Context) ([]content.Author, error) {
	var body authorsResponse
	if err := c.fetch(ctx, "authors", url.Values{"limit": {"all"}}, &body); err != nil {
		return nil, err
	}
	if body.Authors == nil {
		return []content.Author{}, nil
	}
	return body.Authors, nil
}

func (c *Client) GetAuthorBySlug(ctx context.Context, slug string) (*content.Author, error) {
	var body authorsResponse
	if err := c.fetchBySlug(ctx, "authors", slug, url.Values{}, &body); err != nil {
		return nil, err
	}
	if len(body.Authors) == 0 {
		return nil, content.ErrNotFound
	}
	return &body.Authors[0], nil
}

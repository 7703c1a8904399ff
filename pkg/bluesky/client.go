// Package bluesky implements the content source client. It pages through
// the source's feed endpoints and resolves record references to full post
// views. Transport failures are returned to the caller as-is, never
// retried here.
package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/umputun/feedscope/pkg/timeline"
)

// maxResolveConcurrency bounds concurrent by-identity post lookups
const maxResolveConcurrency = 8

// Client talks to an AT-proto style content source over HTTP
type Client struct {
	baseURL   string
	searchURL string
	userAgent string
	client    *http.Client
}

// Config holds the content source endpoints and HTTP options
type Config struct {
	BaseURL   string
	SearchURL string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a content source client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		searchURL: cfg.SearchURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// FetchPage requests one page of the feed identified by params. The cursor
// is the opaque continuation token from the previous page, empty for the
// first page.
func (c *Client) FetchPage(ctx context.Context, params FeedParams, limit int, cursor string) (Page, error) {
	switch params.Kind {
	case KindHome:
		return c.fetchFeed(ctx, "app.bsky.feed.getTimeline", url.Values{"algorithm": {params.Algorithm}}, limit, cursor)
	case KindFeed:
		return c.fetchFeed(ctx, "app.bsky.feed.getFeed", url.Values{"feed": {params.URI}}, limit, cursor)
	case KindList:
		return c.fetchFeed(ctx, "app.bsky.feed.getListFeed", url.Values{"list": {params.URI}}, limit, cursor)
	case KindProfile:
		if params.Tab == TabLikes {
			return c.fetchLikes(ctx, params.Actor, limit, cursor)
		}
		return c.fetchAuthorFeed(ctx, params, limit, cursor)
	case KindSearch:
		return c.fetchSearch(ctx, params.Query, limit, cursor)
	default:
		return Page{}, fmt.Errorf("unknown feed kind %q", params.Kind)
	}
}

// fetchFeed handles the plain paged feed endpoints
func (c *Client) fetchFeed(ctx context.Context, method string, params url.Values, limit int, cursor string) (Page, error) {
	params.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp feedResponse
	if err := c.get(ctx, c.baseURL+"/xrpc/"+method+"?"+params.Encode(), &resp); err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", method, err)
	}

	return Page{Items: toRawItems(resp.Feed), Cursor: resp.Cursor}, nil
}

func (c *Client) fetchAuthorFeed(ctx context.Context, params FeedParams, limit int, cursor string) (Page, error) {
	filter := "posts_no_replies"
	switch params.Tab {
	case TabReplies:
		filter = "posts_with_replies"
	case TabMedia:
		filter = "posts_with_media"
	}

	return c.fetchFeed(ctx, "app.bsky.feed.getAuthorFeed",
		url.Values{"actor": {params.Actor}, "filter": {filter}}, limit, cursor)
}

// fetchLikes lists the actor's like records and resolves their subjects to
// posts with a concurrent, partial-failure tolerant batch lookup
func (c *Client) fetchLikes(ctx context.Context, actor string, limit int, cursor string) (Page, error) {
	params := url.Values{
		"repo":       {actor},
		"collection": {"app.bsky.feed.like"},
		"limit":      {strconv.Itoa(limit)},
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp listRecordsResponse
	if err := c.get(ctx, c.baseURL+"/xrpc/com.atproto.repo.listRecords?"+params.Encode(), &resp); err != nil {
		return Page{}, fmt.Errorf("list like records: %w", err)
	}

	uris := make([]string, 0, len(resp.Records))
	for _, rec := range resp.Records {
		uris = append(uris, rec.Value.Subject.URI)
	}

	return Page{Items: c.resolvePosts(ctx, uris), Cursor: resp.Cursor}, nil
}

// fetchSearch queries the search endpoint and resolves the result views to
// posts. The search cursor is a numeric offset into the result stream.
func (c *Client) fetchSearch(ctx context.Context, query string, limit int, cursor string) (Page, error) {
	offset := 0
	if cursor != "" {
		var err error
		if offset, err = strconv.Atoi(cursor); err != nil {
			return Page{}, fmt.Errorf("invalid search cursor %q: %w", cursor, err)
		}
	}

	searchURL := fmt.Sprintf("%s/search/posts?count=%d&offset=%d&q=%s",
		c.searchURL, limit, offset, url.QueryEscape(query))

	var results []searchView
	if err := c.get(ctx, searchURL, &results); err != nil {
		return Page{}, fmt.Errorf("search posts: %w", err)
	}

	uris := make([]string, 0, len(results))
	for _, view := range results {
		uris = append(uris, fmt.Sprintf("at://%s/%s", view.User.DID, view.TID))
	}

	return Page{
		Items:  c.resolvePosts(ctx, uris),
		Cursor: strconv.Itoa(offset + len(results)),
	}, nil
}

// resolvePosts looks up posts by URI concurrently. Each lookup's outcome is
// collected independently; failed lookups are dropped and the rest of the
// batch still succeeds.
func (c *Client) resolvePosts(ctx context.Context, uris []string) []timeline.RawItem {
	resolved := make([]*timeline.Post, len(uris))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxResolveConcurrency)
	for i, uri := range uris {
		g.Go(func() error {
			post, err := c.getPost(gctx, uri)
			if err != nil {
				log.Printf("[WARN] failed to resolve post %s: %v", uri, err)
				return nil // partial failures don't fail the batch
			}
			resolved[i] = post
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors

	items := make([]timeline.RawItem, 0, len(resolved))
	for _, post := range resolved {
		if post != nil {
			items = append(items, timeline.RawItem{Post: post})
		}
	}
	return items
}

// getPost fetches a single post view by URI
func (c *Client) getPost(ctx context.Context, uri string) (*timeline.Post, error) {
	var resp getPostsResponse
	reqURL := c.baseURL + "/xrpc/app.bsky.feed.getPosts?" + url.Values{"uris": {uri}}.Encode()
	if err := c.get(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	if len(resp.Posts) == 0 {
		return nil, fmt.Errorf("post %s not found", uri)
	}
	return resp.Posts[0].toPost(), nil
}

// get performs a GET request and decodes the JSON response
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

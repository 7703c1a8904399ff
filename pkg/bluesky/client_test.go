package bluesky

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchPage_Timeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/xrpc/app.bsky.feed.getTimeline", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "reverse-chronological", r.URL.Query().Get("algorithm"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"cursor": "next-token",
			"feed": [
				{
					"post": {
						"uri": "at://did:plc:a/app.bsky.feed.post/1",
						"cid": "cid-1",
						"author": {"did": "did:plc:a", "handle": "a.test", "displayName": "A", "viewer": {"following": true}},
						"record": {"text": "hello", "createdAt": "2025-06-01T12:00:00Z", "langs": ["en"]},
						"labels": [{"val": "spam"}]
					},
					"reason": {"by": {"did": "did:plc:b", "handle": "b.test"}}
				},
				{
					"post": {
						"uri": "at://did:plc:c/app.bsky.feed.post/2",
						"cid": "cid-2",
						"author": {"did": "did:plc:c", "handle": "c.test"},
						"record": {"text": "reply text", "createdAt": "2025-06-01T11:00:00Z", "reply": {}}
					},
					"reply": {
						"root": {"uri": "at://did:plc:a/app.bsky.feed.post/1", "cid": "cid-1",
							"author": {"did": "did:plc:a", "handle": "a.test"},
							"record": {"text": "hello", "createdAt": "2025-06-01T10:00:00Z"}},
						"parent": {"notFound": true}
					}
				}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, UserAgent: "test-agent"})
	page, err := client.FetchPage(context.Background(), FeedParams{Kind: KindHome, Algorithm: "reverse-chronological"}, 25, "")
	require.NoError(t, err)

	assert.Equal(t, "next-token", page.Cursor)
	require.Len(t, page.Items, 2)

	first := page.Items[0]
	assert.Equal(t, "at://did:plc:a/app.bsky.feed.post/1", first.Post.URI)
	assert.True(t, first.Post.Author.Following)
	assert.Equal(t, []string{"spam"}, first.Post.Labels)
	require.NotNil(t, first.Reason)
	assert.Equal(t, "did:plc:b", first.Reason.By.DID)

	second := page.Items[1]
	assert.True(t, second.Post.IsReply)
	require.NotNil(t, second.Reply)
	assert.True(t, second.Reply.Root.Resolved())
	assert.False(t, second.Reply.Parent.Resolved())
	assert.True(t, second.Reply.Parent.NotFound)
}

func TestClient_FetchPage_CursorPassed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "prev-token", r.URL.Query().Get("cursor"))
		fmt.Fprint(w, `{"feed": []}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	page, err := client.FetchPage(context.Background(), FeedParams{Kind: KindFeed, URI: "at://feed"}, 10, "prev-token")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.Cursor, "exhausted stream yields empty cursor")
}

func TestClient_FetchPage_AuthorFeedFilters(t *testing.T) {
	tests := []struct {
		name   string
		tab    ProfileTab
		filter string
	}{
		{"posts tab", TabPosts, "posts_no_replies"},
		{"replies tab", TabReplies, "posts_with_replies"},
		{"media tab", TabMedia, "posts_with_media"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/xrpc/app.bsky.feed.getAuthorFeed", r.URL.Path)
				assert.Equal(t, "did:plc:actor", r.URL.Query().Get("actor"))
				assert.Equal(t, tt.filter, r.URL.Query().Get("filter"))
				fmt.Fprint(w, `{"feed": []}`)
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL})
			_, err := client.FetchPage(context.Background(), FeedParams{Kind: KindProfile, Actor: "did:plc:actor", Tab: tt.tab}, 10, "")
			require.NoError(t, err)
		})
	}
}

func TestClient_FetchPage_Likes(t *testing.T) {
	var resolveCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/xrpc/com.atproto.repo.listRecords", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "did:plc:actor", r.URL.Query().Get("repo"))
		assert.Equal(t, "app.bsky.feed.like", r.URL.Query().Get("collection"))
		fmt.Fprint(w, `{
			"cursor": "likes-cursor",
			"records": [
				{"uri": "at://did:plc:actor/app.bsky.feed.like/1", "value": {"subject": {"uri": "at://did:plc:x/app.bsky.feed.post/ok", "cid": "cid-ok"}}},
				{"uri": "at://did:plc:actor/app.bsky.feed.like/2", "value": {"subject": {"uri": "at://did:plc:x/app.bsky.feed.post/gone", "cid": "cid-gone"}}}
			]
		}`)
	})
	mux.HandleFunc("/xrpc/app.bsky.feed.getPosts", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&resolveCalls, 1)
		uri := r.URL.Query().Get("uris")
		if uri == "at://did:plc:x/app.bsky.feed.post/gone" {
			fmt.Fprint(w, `{"posts": []}`) // deleted post
			return
		}
		fmt.Fprintf(w, `{"posts": [{"uri": %q, "cid": "cid-ok",
			"author": {"did": "did:plc:x", "handle": "x.test"},
			"record": {"text": "liked post", "createdAt": "2025-06-01T12:00:00Z"}}]}`, uri)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	page, err := client.FetchPage(context.Background(), FeedParams{Kind: KindProfile, Actor: "did:plc:actor", Tab: TabLikes}, 10, "")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&resolveCalls))
	assert.Equal(t, "likes-cursor", page.Cursor)
	require.Len(t, page.Items, 1, "unresolvable like dropped, batch still succeeds")
	assert.Equal(t, "at://did:plc:x/app.bsky.feed.post/ok", page.Items[0].Post.URI)
}

func TestClient_FetchPage_Search(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		assert.Equal(t, "3", r.URL.Query().Get("offset"))
		assert.Equal(t, "cute cats", r.URL.Query().Get("q"))
		fmt.Fprint(w, `[
			{"tid": "app.bsky.feed.post/s1", "cid": "cid-s1", "user": {"did": "did:plc:s", "handle": "s.test"}},
			{"tid": "app.bsky.feed.post/s2", "cid": "cid-s2", "user": {"did": "did:plc:s", "handle": "s.test"}}
		]`)
	})
	mux.HandleFunc("/xrpc/app.bsky.feed.getPosts", func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.Query().Get("uris")
		fmt.Fprintf(w, `{"posts": [{"uri": %q, "cid": "cid",
			"author": {"did": "did:plc:s", "handle": "s.test"},
			"record": {"text": "search hit", "createdAt": "2025-06-01T12:00:00Z"}}]}`, uri)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, SearchURL: server.URL})
	page, err := client.FetchPage(context.Background(), FeedParams{Kind: KindSearch, Query: "cute cats"}, 5, "3")
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "at://did:plc:s/app.bsky.feed.post/s1", page.Items[0].Post.URI)
	assert.Equal(t, "5", page.Cursor, "search cursor advances by result count")
}

func TestClient_FetchPage_Errors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		client := NewClient(Config{})
		_, err := client.FetchPage(context.Background(), FeedParams{Kind: "bogus"}, 10, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown feed kind")
	})

	t.Run("invalid search cursor", func(t *testing.T) {
		client := NewClient(Config{})
		_, err := client.FetchPage(context.Background(), FeedParams{Kind: KindSearch, Query: "q"}, 10, "not-a-number")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid search cursor")
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.FetchPage(context.Background(), FeedParams{Kind: KindHome}, 10, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 502")
	})

	t.Run("malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json")
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.FetchPage(context.Background(), FeedParams{Kind: KindHome}, 10, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})
}

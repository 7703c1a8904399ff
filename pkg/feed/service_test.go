package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedscope/pkg/bluesky"
	"github.com/umputun/feedscope/pkg/curation"
	"github.com/umputun/feedscope/pkg/feed/mocks"
	"github.com/umputun/feedscope/pkg/prefs"
	"github.com/umputun/feedscope/pkg/timeline"
)

const testUID = "did:plc:viewer"

func makeItem(id string) timeline.RawItem {
	return timeline.RawItem{Post: &timeline.Post{
		URI:    "at://did:plc:author/app.bsky.feed.post/" + id,
		CID:    "cid-" + id,
		Author: timeline.Author{DID: "did:plc:author", Handle: "author.test"},
		Text:   "post " + id,
	}}
}

func makeItems(prefix string, n int) []timeline.RawItem {
	items := make([]timeline.RawItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, makeItem(fmt.Sprintf("%s%d", prefix, i)))
	}
	return items
}

func emptyPrefs() *mocks.PrefStoreMock {
	return &mocks.PrefStoreMock{
		GetFunc: func(ctx context.Context, did string) (prefs.Account, error) {
			return prefs.Account{DID: did, AllowUnspecified: true, UseSystemLanguages: true}, nil
		},
	}
}

func passCurator() *mocks.CuratorMock {
	return &mocks.CuratorMock{
		ClassifyPendingFunc: func(ctx context.Context, ses *curation.Session) error { return nil },
		FetchExtensionFunc:  func(ses *curation.Session) int { return 0 },
		CurateFunc: func(ctx context.Context, ses *curation.Session, batch []timeline.Slice, limit int) ([]timeline.Slice, error) {
			return batch, nil
		},
	}
}

func TestService_GetPage_SinglePage(t *testing.T) {
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			assert.Empty(t, cursor)
			return bluesky.Page{Items: makeItems("a", 10)}, nil // no cursor, stream ends
		},
	}

	svc := NewService(source, emptyPrefs(), passCurator(), Config{PageSize: 10})
	page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, timeline.CountPosts(page.Slices))
	assert.Equal(t, "cid-a0", page.CID, "newest post identity captured")
	assert.Nil(t, page.Cursor, "exhausted stream with nothing remaining")
	assert.Len(t, source.FetchPageCalls(), 1)
}

func TestService_GetPage_RefetchesUntilFull(t *testing.T) {
	calls := 0
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			calls++
			switch calls {
			case 1:
				return bluesky.Page{Items: makeItems("a", 4), Cursor: "c1"}, nil
			case 2:
				return bluesky.Page{Items: makeItems("b", 4), Cursor: "c2"}, nil
			default:
				return bluesky.Page{Items: makeItems("c", 4), Cursor: "c3"}, nil
			}
		},
	}

	svc := NewService(source, emptyPrefs(), passCurator(), Config{PageSize: 10})
	page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, calls, "fetches until the post count reaches the limit")
	require.NotNil(t, page.Cursor)
	assert.Equal(t, "c3", page.Cursor.Key)

	// 12 posts assembled, limit 10: the crossing slice stays on the page
	emitted := timeline.CountPosts(page.Slices)
	carried := timeline.CountPosts(page.Cursor.Remaining)
	assert.Equal(t, 10, emitted)
	assert.Equal(t, 2, carried)
}

func TestService_GetPage_ResumesFromCursor(t *testing.T) {
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			assert.Equal(t, "resume-here", cursor)
			return bluesky.Page{Items: makeItems("n", 8)}, nil
		},
	}

	remaining := []timeline.Slice{
		{Items: []timeline.Item{{Post: makeItem("r0").Post}, {Post: makeItem("r1").Post}}},
	}
	prior := &Cursor{Key: "resume-here", Remaining: remaining}

	svc := NewService(source, emptyPrefs(), passCurator(), Config{PageSize: 10})
	page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, prior)
	require.NoError(t, err)

	assert.Equal(t, 10, timeline.CountPosts(page.Slices))
	// carried-over slice leads the page
	assert.Equal(t, remaining[0].Items[0].Post.URI, page.Slices[0].Items[0].Post.URI)
}

func TestService_GetPage_CarriedSliceNotRefetched(t *testing.T) {
	// the backend re-serves a post that is already carried in the cursor
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			items := append([]timeline.RawItem{makeItem("r0")}, makeItems("n", 9)...)
			return bluesky.Page{Items: items}, nil
		},
	}

	prior := &Cursor{Key: "k", Remaining: []timeline.Slice{
		{Items: []timeline.Item{{Post: makeItem("r0").Post}}},
	}}

	svc := NewService(source, emptyPrefs(), passCurator(), Config{PageSize: 10})
	page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, prior)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, slice := range page.Slices {
		for _, item := range slice.Items {
			seen[item.Post.URI]++
		}
	}
	for _, slice := range func() []timeline.Slice {
		if page.Cursor == nil {
			return nil
		}
		return page.Cursor.Remaining
	}() {
		for _, item := range slice.Items {
			seen[item.Post.URI]++
		}
	}
	for uri, n := range seen {
		assert.Equal(t, 1, n, "post %s duplicated", uri)
	}
}

func TestService_GetPage_TempMuteExpiry(t *testing.T) {
	muteUntil := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			return bluesky.Page{Items: makeItems("a", 3)}, nil // no cursor, stream ends
		},
	}
	prefStore := &mocks.PrefStoreMock{
		GetFunc: func(ctx context.Context, did string) (prefs.Account, error) {
			return prefs.Account{
				DID:              did,
				AllowUnspecified: true,
				TempMutes:        map[string]time.Time{"did:plc:author": muteUntil},
			}, nil
		},
	}

	defer func() { timeNow = time.Now }()

	t.Run("active mute drops the author", func(t *testing.T) {
		timeNow = func() time.Time { return muteUntil.Add(-time.Hour) }

		svc := NewService(source, prefStore, passCurator(), Config{PageSize: 10})
		page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
		require.NoError(t, err)
		assert.Empty(t, page.Slices)
	})

	t.Run("expired mute lets the author back in", func(t *testing.T) {
		timeNow = func() time.Time { return muteUntil.Add(time.Hour) }

		svc := NewService(source, prefStore, passCurator(), Config{PageSize: 10})
		page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, timeline.CountPosts(page.Slices))
	})
}

func TestService_GetPage_EmptyPageBackoff(t *testing.T) {
	calls := 0
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			calls++
			// labeled posts, every page fully filtered
			items := makeItems("x", 5)
			for i := range items {
				items[i].Post.Labels = []string{"!hide"}
			}
			return bluesky.Page{Items: items, Cursor: fmt.Sprintf("c%d", calls)}, nil
		},
	}

	svc := NewService(source, emptyPrefs(), passCurator(), Config{PageSize: 10, MaxEmptyPages: 3})
	page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, calls, "gives up after the configured number of empty pages")
	assert.Empty(t, page.Slices)
	require.NotNil(t, page.Cursor, "resumable, the stream is not exhausted")
	assert.Equal(t, "c3", page.Cursor.Key)
}

func TestService_GetPage_EmptyCounterResets(t *testing.T) {
	calls := 0
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			calls++
			if calls%2 == 1 { // odd pages fully filtered
				items := makeItems(fmt.Sprintf("x%d", calls), 5)
				for i := range items {
					items[i].Post.Labels = []string{"!hide"}
				}
				return bluesky.Page{Items: items, Cursor: fmt.Sprintf("c%d", calls)}, nil
			}
			return bluesky.Page{Items: makeItems(fmt.Sprintf("p%d", calls), 3), Cursor: fmt.Sprintf("c%d", calls)}, nil
		},
	}

	svc := NewService(source, emptyPrefs(), passCurator(), Config{PageSize: 9, MaxEmptyPages: 2})
	page, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 9, nil)
	require.NoError(t, err)

	// pages alternate empty/productive so the counter never reaches the cap
	assert.Equal(t, 9, timeline.CountPosts(page.Slices))
	assert.Greater(t, calls, 3)
}

func TestService_GetPage_CurationApplied(t *testing.T) {
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			assert.Equal(t, 15, limit, "fetch limit extended for expected removals")
			return bluesky.Page{Items: makeItems("a", 15)}, nil
		},
	}

	curator := &mocks.CuratorMock{
		ClassifyPendingFunc: func(ctx context.Context, ses *curation.Session) error { return nil },
		FetchExtensionFunc:  func(ses *curation.Session) int { return 5 },
		CurateFunc: func(ctx context.Context, ses *curation.Session, batch []timeline.Slice, limit int) ([]timeline.Slice, error) {
			assert.Equal(t, 10, limit, "curation budget is the original page limit")
			return batch[:4], nil
		},
	}

	svc := NewService(source, emptyPrefs(), curator, Config{PageSize: 10})
	ses := curation.NewStore(0).Create()

	page, err := svc.GetPage(context.Background(), ses, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
	require.NoError(t, err)

	assert.Len(t, curator.ClassifyPendingCalls(), 1)
	assert.Len(t, curator.CurateCalls(), 1)
	assert.Equal(t, 4, timeline.CountPosts(page.Slices))
}

func TestService_GetPage_CurationHomeOnly(t *testing.T) {
	source := &mocks.SourceMock{
		FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
			return bluesky.Page{Items: makeItems("a", 10)}, nil
		},
	}
	curator := passCurator()

	svc := NewService(source, emptyPrefs(), curator, Config{PageSize: 10})
	ses := curation.NewStore(0).Create()

	_, err := svc.GetPage(context.Background(), ses, testUID, bluesky.FeedParams{Kind: bluesky.KindSearch, Query: "q"}, 10, nil)
	require.NoError(t, err)

	assert.Empty(t, curator.ClassifyPendingCalls())
	assert.Empty(t, curator.CurateCalls())
}

func TestService_GetPage_Errors(t *testing.T) {
	t.Run("prefs load failure", func(t *testing.T) {
		prefStore := &mocks.PrefStoreMock{
			GetFunc: func(ctx context.Context, did string) (prefs.Account, error) {
				return prefs.Account{}, fmt.Errorf("db down")
			},
		}
		svc := NewService(&mocks.SourceMock{}, prefStore, passCurator(), Config{})
		_, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load preferences")
	})

	t.Run("fetch failure", func(t *testing.T) {
		source := &mocks.SourceMock{
			FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
				return bluesky.Page{}, fmt.Errorf("network down")
			},
		}
		svc := NewService(source, emptyPrefs(), passCurator(), Config{})
		_, err := svc.GetPage(context.Background(), nil, testUID, bluesky.FeedParams{Kind: bluesky.KindHome}, 10, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch page")
	})
}

func TestService_GetLatest(t *testing.T) {
	t.Run("returns newest cid", func(t *testing.T) {
		source := &mocks.SourceMock{
			FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
				assert.Equal(t, 1, limit)
				return bluesky.Page{Items: makeItems("a", 1)}, nil
			},
		}
		svc := NewService(source, emptyPrefs(), passCurator(), Config{})
		cid, err := svc.GetLatest(context.Background(), bluesky.FeedParams{Kind: bluesky.KindHome})
		require.NoError(t, err)
		assert.Equal(t, "cid-a0", cid)
	})

	t.Run("empty stream", func(t *testing.T) {
		source := &mocks.SourceMock{
			FetchPageFunc: func(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error) {
				return bluesky.Page{}, nil
			},
		}
		svc := NewService(source, emptyPrefs(), passCurator(), Config{})
		cid, err := svc.GetLatest(context.Background(), bluesky.FeedParams{Kind: bluesky.KindHome})
		require.NoError(t, err)
		assert.Empty(t, cid)
	})
}

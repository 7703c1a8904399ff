// Package feed drives feed assembly: it pages through the content source,
// slices and filters each page, runs the curation engine over the result
// and splits it into the emitted page plus carried-over slices.
package feed

import (
	"context"
	"fmt"
	"log"

	"github.com/umputun/feedscope/pkg/bluesky"
	"github.com/umputun/feedscope/pkg/curation"
	"github.com/umputun/feedscope/pkg/moderation"
	"github.com/umputun/feedscope/pkg/prefs"
	"github.com/umputun/feedscope/pkg/timeline"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source
//go:generate moq -out mocks/prefstore.go -pkg mocks -skip-ensure -fmt goimports . PrefStore
//go:generate moq -out mocks/curator.go -pkg mocks -skip-ensure -fmt goimports . Curator

// Source pages through a remote feed stream
type Source interface {
	FetchPage(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error)
}

// PrefStore supplies per-account preferences for filter construction
type PrefStore interface {
	Get(ctx context.Context, did string) (prefs.Account, error)
}

// Curator applies session feedback to assembled slices
type Curator interface {
	ClassifyPending(ctx context.Context, ses *curation.Session) error
	FetchExtension(ses *curation.Session) int
	Curate(ctx context.Context, ses *curation.Session, batch []timeline.Slice, limit int) ([]timeline.Slice, error)
}

// Cursor carries the continuation state between page requests: the
// backend's opaque token plus assembled slices not yet emitted, so a
// thread is never split across two pages
type Cursor struct {
	Key       string           `json:"key,omitempty"`
	End       bool             `json:"end,omitempty"` // backend stream exhausted
	Remaining []timeline.Slice `json:"remaining,omitempty"`
}

// Page is one assembled feed page. CID marks the newest post seen, used
// for new-content detection. Cursor is nil when nothing remains.
type Page struct {
	Slices []timeline.Slice `json:"slices"`
	CID    string           `json:"cid,omitempty"`
	Cursor *Cursor          `json:"cursor,omitempty"`
}

// Config holds feed assembly settings
type Config struct {
	PageSize        int
	MaxEmptyPages   int
	SystemLanguages []string
}

// Service assembles curated feed pages
type Service struct {
	source   Source
	prefs    PrefStore
	curator  Curator
	pageSize int
	maxEmpty int
	sysLangs []string
}

// NewService creates the feed service
func NewService(source Source, prefStore PrefStore, curator Curator, cfg Config) *Service {
	if cfg.PageSize == 0 {
		cfg.PageSize = 10
	}
	if cfg.MaxEmptyPages == 0 {
		cfg.MaxEmptyPages = 3
	}
	return &Service{
		source:   source,
		prefs:    prefStore,
		curator:  curator,
		pageSize: cfg.PageSize,
		maxEmpty: cfg.MaxEmptyPages,
		sysLangs: cfg.SystemLanguages,
	}
}

// GetPage assembles one feed page for the viewer. The prior cursor, if
// any, seeds the accumulated slices and the backend continuation token.
// The curation session applies to the home timeline only and may be nil.
func (s *Service) GetPage(ctx context.Context, ses *curation.Session, uid string, params bluesky.FeedParams, limit int, prior *Cursor) (Page, error) {
	if limit <= 0 {
		limit = s.pageSize
	}

	account, err := s.prefs.Get(ctx, uid)
	if err != nil {
		return Page{}, fmt.Errorf("load preferences for %s: %w", uid, err)
	}

	var items []timeline.Slice
	cursor, end := "", false
	if prior != nil {
		cursor, end = prior.Key, prior.End
		items = prior.Remaining
	}
	count := timeline.CountPosts(items)

	sliceFilter, postFilter, unjoined := s.buildFilters(uid, params, account, items)

	// curation applies to the home timeline only
	curated := ses != nil && params.Kind == bluesky.KindHome

	variableLimit := limit
	if curated {
		if err := s.curator.ClassifyPending(ctx, ses); err != nil {
			return Page{}, err
		}
		// pre-compensate for expected removals
		variableLimit += s.curator.FetchExtension(ses)
	}

	empty := 0
	cid := ""
	for !end && count < variableLimit {
		page, err := s.source.FetchPage(ctx, params, variableLimit, cursor)
		if err != nil {
			return Page{}, fmt.Errorf("fetch page: %w", err)
		}

		var result []timeline.Slice
		if unjoined {
			result = timeline.AssembleUnjoined(page.Items, postFilter)
		} else {
			result = timeline.Assemble(page.Items, sliceFilter, postFilter)
		}

		cursor = page.Cursor
		end = cursor == ""

		if len(result) > 0 {
			empty = 0
		} else {
			empty++
		}

		items = append(items, result...)
		count += timeline.CountPosts(result)

		if cid == "" && len(page.Items) > 0 {
			cid = page.Items[0].Post.CID
		}

		if empty >= s.maxEmpty {
			log.Printf("[WARN] giving up after %d consecutive empty pages for %s/%s", empty, uid, params.Kind)
			break
		}
	}

	if curated {
		if items, err = s.curator.Curate(ctx, ses, items, limit); err != nil {
			return Page{}, err
		}
	}

	// split by post count, the crossing slice stays on the emitted page
	spliced := timeline.CutIndex(items, limit) + 1
	if spliced > len(items) {
		spliced = len(items)
	}
	slices, remaining := items[:spliced], items[spliced:]

	page := Page{Slices: slices, CID: cid}
	if !end || len(remaining) > 0 {
		page.Cursor = &Cursor{Key: cursor, End: end, Remaining: remaining}
	}
	return page, nil
}

// GetLatest returns the identity of the newest item in the stream without
// assembling or curating a page, for new-content detection
func (s *Service) GetLatest(ctx context.Context, params bluesky.FeedParams) (string, error) {
	page, err := s.source.FetchPage(ctx, params, 1, "")
	if err != nil {
		return "", fmt.Errorf("fetch latest: %w", err)
	}

	if len(page.Items) == 0 {
		return "", nil
	}
	return page.Items[0].Post.CID, nil
}

// buildFilters constructs the per-kind filter set once per top-level call;
// several filters close over a snapshot of accumulated state
func (s *Service) buildFilters(uid string, params bluesky.FeedParams, account prefs.Account, accumulated []timeline.Slice) (timeline.SliceFilter, timeline.PostFilter, bool) {
	decider := moderation.NewDecider(account.ModerationOpts())
	labelFilter := timeline.NewLabelFilter(decider.Filter)

	switch params.Kind {
	case bluesky.KindHome:
		return timeline.NewHomeSliceFilter(uid), timeline.Combine(
			timeline.NewHiddenRepostFilter(account.HiddenReposts),
			timeline.NewDuplicateFilter(accumulated),
			labelFilter,
			timeline.NewTempMuteFilter(account.TempMutes, timeNow()),
		), false

	case bluesky.KindFeed, bluesky.KindList:
		return timeline.NewFeedSliceFilter(), timeline.Combine(
			timeline.NewDuplicateFilter(accumulated),
			timeline.NewLanguageFilter(account.LanguagePrefs(), s.sysLangs),
			labelFilter,
			timeline.NewTempMuteFilter(account.TempMutes, timeNow()),
		), false

	case bluesky.KindProfile:
		unjoined := params.Tab == bluesky.TabLikes || params.Tab == bluesky.TabMedia
		return nil, labelFilter, unjoined

	default: // search
		return nil, labelFilter, false
	}
}

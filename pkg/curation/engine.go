package curation

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/umputun/feedscope/pkg/bluesky"
	"github.com/umputun/feedscope/pkg/llm"
	"github.com/umputun/feedscope/pkg/timeline"
)

//go:generate moq -out mocks/advisor.go -pkg mocks -skip-ensure -fmt goimports . Advisor
//go:generate moq -out mocks/searcher.go -pkg mocks -skip-ensure -fmt goimports . Searcher

// Advisor classifies feedback, decides removals and generates search terms
type Advisor interface {
	Categorize(ctx context.Context, text string) (llm.Categorization, error)
	DecideRemovals(ctx context.Context, batch []timeline.Slice, preference string) ([]int, error)
	GenerateQueries(ctx context.Context, preference string) ([]string, error)
}

// Searcher fetches supplementary retrieval pages from the content source
type Searcher interface {
	FetchPage(ctx context.Context, params bluesky.FeedParams, limit int, cursor string) (bluesky.Page, error)
}

// Engine applies a session's classified feedback to an assembled batch of
// slices: subtractive removal first, then additive retrieval and merge,
// then budgeting. Steps are strictly sequential, each depends on the
// previous one's output.
type Engine struct {
	advisor        Advisor
	source         Searcher
	fetchExtension int
	intn           func(n int) int // injectable for deterministic merge tests
}

// NewEngine creates a curation engine. fetchExtension is the amount added
// to the requested fetch limit when subtractive feedback is active.
func NewEngine(advisor Advisor, source Searcher, fetchExtension int) *Engine {
	return &Engine{
		advisor:        advisor,
		source:         source,
		fetchExtension: fetchExtension,
		intn:           rand.Intn, //nolint:gosec // merge positions don't need crypto randomness
	}
}

// ClassifyPending sends the newest unclassified feedback fragment to the
// categorization collaborator and updates the session's phrase lists. At
// most one fragment is classified per invocation.
func (e *Engine) ClassifyPending(ctx context.Context, ses *Session) error {
	fragment, ok := ses.pendingFeedback()
	if !ok {
		return nil
	}

	cat, err := e.advisor.Categorize(ctx, fragment)
	if err != nil {
		return fmt.Errorf("categorize feedback: %w", err)
	}

	ses.recordCategorization(cat)
	log.Printf("[DEBUG] classified feedback round %d: additive=%q subtractive=%q", ses.Round(), cat.Additive, cat.Subtractive)
	return nil
}

// FetchExtension returns the extra amount to add to the fetch limit when
// the session carries subtractive feedback, pre-compensating for expected
// removals
func (e *Engine) FetchExtension(ses *Session) int {
	if ses == nil || !ses.HasSubtractive() {
		return 0
	}
	return e.fetchExtension
}

// Curate runs the subtractive and additive passes over the batch and
// returns the merged result, at most limit items of which are supplementary.
// The combined size never exceeds limit once both passes ran.
func (e *Engine) Curate(ctx context.Context, ses *Session, batch []timeline.Slice, limit int) ([]timeline.Slice, error) {
	survivors := batch

	if sub := ses.SubtractivePrompt(); sub != "" && len(batch) > 0 {
		positions, err := e.advisor.DecideRemovals(ctx, batch, sub)
		if err != nil {
			return nil, fmt.Errorf("decide removals: %w", err)
		}
		survivors = removePositions(batch, positions)
		log.Printf("[DEBUG] subtractive pass removed %d of %d slices", len(batch)-len(survivors), len(batch))
	}

	var added []timeline.Slice
	if add := ses.AdditivePrompt(); add != "" {
		budget := limit - len(survivors)
		if budget < 0 {
			budget = 0
		}

		if budget > 0 {
			var err error
			if added, err = e.retrieve(ctx, ses, add, budget); err != nil {
				return nil, err
			}
			log.Printf("[DEBUG] additive pass found %d slices to inject", len(added))
		}
	}

	// budget: additive items are never truncated once selected, survivors
	// give way from the end
	if len(survivors)+len(added) > limit {
		keep := limit - len(added)
		if keep < 0 {
			keep = 0
		}
		survivors = survivors[:keep]
	}

	merged := e.mergeRandom(survivors, added)
	ses.markApplied()
	return merged, nil
}

// retrieve generates search terms from the additive preference and takes a
// rolling-offset window of results for each term. The budget is shared
// across queries, each window is charged against it and retrieval stops
// once it runs out.
func (e *Engine) retrieve(ctx context.Context, ses *Session, preference string, budget int) ([]timeline.Slice, error) {
	queries, err := e.advisor.GenerateQueries(ctx, preference)
	if err != nil {
		return nil, fmt.Errorf("generate queries: %w", err)
	}

	var added []timeline.Slice
	remaining := budget
	for _, query := range queries {
		if remaining <= 0 {
			break
		}
		offset := ses.offset(query)

		// fetch enough to cover the window past the rolling offset
		page, err := e.source.FetchPage(ctx, bluesky.FeedParams{Kind: bluesky.KindSearch, Query: query}, offset+remaining, "")
		if err != nil {
			return nil, fmt.Errorf("supplementary fetch %q: %w", query, err)
		}

		slices := timeline.AssembleUnjoined(page.Items, nil)

		if offset > len(slices) {
			offset = len(slices)
		}
		end := offset + remaining
		if end > len(slices) {
			end = len(slices)
		}

		window := slices[offset:end]
		added = append(added, window...)
		remaining -= len(window)
		ses.advanceOffset(query, len(window))
	}
	return added, nil
}

// removePositions drops the slices at the given zero-based positions.
// Out-of-range positions are discarded, not errors.
func removePositions(batch []timeline.Slice, positions []int) []timeline.Slice {
	if len(positions) == 0 {
		return batch
	}

	remove := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos >= 0 && pos < len(batch) {
			remove[pos] = true
		}
	}

	result := make([]timeline.Slice, 0, len(batch))
	for i, slice := range batch {
		if !remove[i] {
			result = append(result, slice)
		}
	}
	return result
}

// mergeRandom inserts every additive slice at an independently drawn
// uniform-random position so injected content isn't distinguishable as a
// block
func (e *Engine) mergeRandom(survivors, added []timeline.Slice) []timeline.Slice {
	merged := make([]timeline.Slice, len(survivors), len(survivors)+len(added))
	copy(merged, survivors)

	origLen := len(survivors)
	for _, slice := range added {
		at := 0
		if origLen > 0 {
			at = e.intn(origLen)
		}
		merged = append(merged, timeline.Slice{})
		copy(merged[at+1:], merged[at:])
		merged[at] = slice
	}
	return merged
}

package timeline

import (
	"time"
)

// Combine merges post filters with short-circuit AND evaluation. Nil
// entries are skipped; with nothing left it returns nil so callers can
// avoid the indirection of an always-true filter.
func Combine(filters ...PostFilter) PostFilter {
	active := make([]PostFilter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}

	if len(active) == 0 {
		return nil
	}

	return func(item Item) bool {
		for _, f := range active {
			if !f(item) {
				return false
			}
		}
		return true
	}
}

// NewDuplicateFilter drops repeated occurrences of the same post URI.
// The seen set is primed with all items of already-accumulated slices so
// deduplication holds across repeated pagination calls within one fetch.
func NewDuplicateFilter(accumulated []Slice) PostFilter {
	seen := make(map[string]bool)
	for _, slice := range accumulated {
		for _, item := range slice.Items {
			seen[item.Post.URI] = true
		}
	}

	return func(item Item) bool {
		uri := item.Post.URI
		if seen[uri] {
			return false
		}
		seen[uri] = true
		return true
	}
}

// NewLabelFilter delegates to a moderation verdict; decide returns true
// when the post should be filtered out
func NewLabelFilter(decide func(post *Post) bool) PostFilter {
	if decide == nil {
		return nil
	}
	return func(item Item) bool {
		return !decide(item.Post)
	}
}

// LanguagePrefs holds the user's feed language preferences
type LanguagePrefs struct {
	Languages          []string
	AllowUnspecified   bool
	UseSystemLanguages bool
}

// NewLanguageFilter drops posts whose declared languages don't intersect
// the configured set. Posts with empty body text are never filtered, and
// posts declaring no language pass only when AllowUnspecified is set.
// Returns nil when no languages are configured.
func NewLanguageFilter(prefs LanguagePrefs, systemLanguages []string) PostFilter {
	languages := prefs.Languages
	if prefs.UseSystemLanguages {
		languages = append(append([]string{}, systemLanguages...), languages...)
	}

	if len(languages) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(languages))
	for _, lang := range languages {
		allowed[lang] = true
	}

	return func(item Item) bool {
		post := item.Post

		if post.Text == "" {
			return true
		}
		if len(post.Langs) == 0 {
			return prefs.AllowUnspecified
		}
		for _, lang := range post.Langs {
			if allowed[lang] {
				return true
			}
		}
		return false
	}
}

// NewHiddenRepostFilter drops occurrences reposted by a hidden actor.
// Returns nil when the hide list is empty.
func NewHiddenRepostFilter(hidden []string) PostFilter {
	if len(hidden) == 0 {
		return nil
	}

	hiddenSet := make(map[string]bool, len(hidden))
	for _, did := range hidden {
		hiddenSet[did] = true
	}

	return func(item Item) bool {
		return item.Reason == nil || !hiddenSet[item.Reason.By.DID]
	}
}

// NewTempMuteFilter drops items authored or reposted by a temporarily
// muted actor. Expired entries are pruned from the map once at
// construction time. Returns nil when no active mutes remain.
func NewTempMuteFilter(mutes map[string]time.Time, now time.Time) PostFilter {
	hasMutes := false
	for did, until := range mutes {
		if !now.Before(until) {
			delete(mutes, did)
			continue
		}
		hasMutes = true
	}

	if !hasMutes {
		return nil
	}

	return func(item Item) bool {
		if item.Reason != nil {
			if until, ok := mutes[item.Reason.By.DID]; ok && now.Before(until) {
				return false
			}
		}
		if until, ok := mutes[item.Post.Author.DID]; ok && now.Before(until) {
			return false
		}
		return true
	}
}

// NewHomeSliceFilter suppresses slices leading with a reply to someone the
// viewer doesn't follow (or has muted), yanking any trailing reposts into
// their own slices
func NewHomeSliceFilter(uid string) SliceFilter {
	return func(slice Slice) SliceResult {
		first := slice.Items[0]

		if first.Reply != nil && first.Reason == nil {
			rAuthor := first.Reply.Root.Author
			pAuthor := first.Reply.Parent.Author

			if (rAuthor.DID != uid && (!rAuthor.Following || rAuthor.Muted)) ||
				(pAuthor.DID != uid && (!pAuthor.Following || pAuthor.Muted)) {
				return yankReposts(slice.Items)
			}
		} else if first.Post.IsReply {
			// the record is a reply but its references never resolved
			return yankReposts(slice.Items)
		}

		return Keep()
	}
}

// NewFeedSliceFilter suppresses slices leading with a reply involving a
// muted account, yanking any trailing reposts into their own slices
func NewFeedSliceFilter() SliceFilter {
	return func(slice Slice) SliceResult {
		first := slice.Items[0]

		if first.Reply != nil {
			if first.Reply.Root.Author.Muted || first.Reply.Parent.Author.Muted {
				return yankReposts(slice.Items)
			}
		}

		return Keep()
	}
}

// yankReposts rescues the trailing contiguous run of repost occurrences
// from a suppressed slice, each repost becoming its own single-item slice.
// With no trailing repost run the whole slice is dropped.
func yankReposts(items []Item) SliceResult {
	tail := len(items)
	for tail > 0 && items[tail-1].Reason != nil {
		tail--
	}

	if tail == len(items) {
		return Drop()
	}

	rescued := make([]Slice, 0, len(items)-tail)
	for _, item := range items[tail:] {
		rescued = append(rescued, Slice{Items: []Item{item}})
	}
	return ReplaceWith(rescued...)
}

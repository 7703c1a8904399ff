// Package moderation decides whether posts should be filtered from feeds
// based on their labels and the viewer's muted keywords. The verdict is the
// only thing the feed pipeline consumes; label taxonomy stays here.
package moderation

import (
	"strings"

	"github.com/umputun/feedscope/pkg/timeline"
)

// Visibility is the viewer's policy for a label
type Visibility string

// label visibility policies
const (
	VisibilityShow Visibility = "show"
	VisibilityWarn Visibility = "warn"
	VisibilityHide Visibility = "hide"
)

// labelHide is a system label that always filters, regardless of overrides
const labelHide = "!hide"

// Opts holds the viewer's moderation preferences
type Opts struct {
	Labels     map[string]Visibility // per-label overrides, defaults to warn
	MutedWords []string
}

// Decider evaluates posts against the viewer's moderation preferences
type Decider struct {
	opts  Opts
	muted []string // lowercased muted words
}

// NewDecider creates a decider for a single viewer's preferences
func NewDecider(opts Opts) *Decider {
	muted := make([]string, 0, len(opts.MutedWords))
	for _, w := range opts.MutedWords {
		if w = strings.TrimSpace(strings.ToLower(w)); w != "" {
			muted = append(muted, w)
		}
	}
	return &Decider{opts: opts, muted: muted}
}

// Filter reports whether the post should be dropped from the feed
func (d *Decider) Filter(post *timeline.Post) bool {
	for _, label := range post.Labels {
		if label == labelHide {
			return true
		}
		if d.opts.Labels[label] == VisibilityHide {
			return true
		}
	}

	if len(d.muted) > 0 && post.Text != "" {
		text := strings.ToLower(post.Text)
		for _, w := range d.muted {
			if strings.Contains(text, w) {
				return true
			}
		}
	}

	return false
}

package timeline

import "time"

// Author represents a post author with the viewer's relationship flags
type Author struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	Following   bool   `json:"following,omitempty"`
	Muted       bool   `json:"muted,omitempty"`
}

// Post is an immutable content unit owned by the remote source
type Post struct {
	URI       string    `json:"uri"`
	CID       string    `json:"cid"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Langs     []string  `json:"langs,omitempty"`
	Labels    []string  `json:"labels,omitempty"`
	IsReply   bool      `json:"is_reply,omitempty"` // record declares a reply even if the refs didn't resolve
}

// Reason tags a feed occurrence, currently only "repost by actor".
// A nil *Reason means the occurrence is organic.
type Reason struct {
	By Author `json:"by"`
}

// RefView is a reference to a post that may be a tombstone for
// deleted or blocked content instead of a materialized view
type RefView struct {
	Post     *Post `json:"post,omitempty"`
	NotFound bool  `json:"not_found,omitempty"`
	Blocked  bool  `json:"blocked,omitempty"`
}

// Resolved reports whether the reference points at a fully materialized post
func (r RefView) Resolved() bool {
	return r.Post != nil && !r.NotFound && !r.Blocked
}

// RawReplyRef is the reply context as delivered by the source,
// before normalization
type RawReplyRef struct {
	Root   RefView `json:"root"`
	Parent RefView `json:"parent"`
}

// RawItem is one occurrence in the raw feed stream
type RawItem struct {
	Post   *Post        `json:"post"`
	Reply  *RawReplyRef `json:"reply,omitempty"`
	Reason *Reason      `json:"reason,omitempty"`
}

// ReplyRef is a resolved reply context, both posts materialized
type ReplyRef struct {
	Root   *Post `json:"root"`
	Parent *Post `json:"parent"`
}

// Item is a normalized occurrence, reply context present only when resolved
type Item struct {
	Post   *Post     `json:"post"`
	Reply  *ReplyRef `json:"reply,omitempty"`
	Reason *Reason   `json:"reason,omitempty"`
}

// Slice is an ordered run of items rendered as one unit. Every item after
// the first either replies to the previous item's post or is part of a
// repost run split out by the slice filters. Never empty.
type Slice struct {
	Items []Item `json:"items"`
}

// CountPosts sums the item counts of all slices
func CountPosts(slices []Slice) int {
	count := 0
	for _, s := range slices {
		count += len(s.Items)
	}
	return count
}

// CutIndex walks slices summing item counts and returns the index of the
// slice on which the running count reaches limit. Returns len(slices) when
// the limit is never reached.
func CutIndex(slices []Slice, limit int) int {
	count := 0
	for idx, s := range slices {
		count += len(s.Items)
		if count >= limit {
			return idx
		}
	}
	return len(slices)
}

// EnsureReplyRef resolves a raw reply reference only if both root and
// parent are fully materialized. Unresolved references must never be
// treated as thread links.
func EnsureReplyRef(reply *RawReplyRef) *ReplyRef {
	if reply == nil {
		return nil
	}
	if !reply.Root.Resolved() || !reply.Parent.Resolved() {
		return nil
	}
	return &ReplyRef{Root: reply.Root.Post, Parent: reply.Parent.Post}
}

// EnsureItem normalizes a raw feed item, degrading an unresolved reply
// reference to no reply context
func EnsureItem(item RawItem) Item {
	return Item{
		Post:   item.Post,
		Reply:  EnsureReplyRef(item.Reply),
		Reason: item.Reason,
	}
}

package bluesky

import (
	"time"

	"github.com/umputun/feedscope/pkg/timeline"
)

// FeedKind selects which backend feed endpoint to page through
type FeedKind string

// supported feed kinds
const (
	KindHome    FeedKind = "home"
	KindFeed    FeedKind = "feed"
	KindList    FeedKind = "list"
	KindProfile FeedKind = "profile"
	KindSearch  FeedKind = "search"
)

// ProfileTab selects the section of a profile feed
type ProfileTab string

// profile feed tabs
const (
	TabPosts   ProfileTab = "posts"
	TabReplies ProfileTab = "replies"
	TabMedia   ProfileTab = "media"
	TabLikes   ProfileTab = "likes"
)

// FeedParams identifies one feed stream; only the fields for the given
// kind are consulted
type FeedParams struct {
	Kind      FeedKind   `json:"kind"`
	Algorithm string     `json:"algorithm,omitempty"` // home
	URI       string     `json:"uri,omitempty"`       // feed, list
	Actor     string     `json:"actor,omitempty"`     // profile
	Tab       ProfileTab `json:"tab,omitempty"`       // profile
	Query     string     `json:"query,omitempty"`     // search
}

// Page is one raw page from the content source. An empty cursor means the
// stream is exhausted.
type Page struct {
	Items  []timeline.RawItem
	Cursor string
}

// wire views, decoded from the source's JSON responses

type viewerState struct {
	Following bool `json:"following"`
	Muted     bool `json:"muted"`
}

type authorView struct {
	DID         string      `json:"did"`
	Handle      string      `json:"handle"`
	DisplayName string      `json:"displayName"`
	Viewer      viewerState `json:"viewer"`
}

type postRecord struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Langs     []string  `json:"langs"`
	Reply     *struct{} `json:"reply,omitempty"`
}

type labelView struct {
	Val string `json:"val"`
}

type postView struct {
	URI    string      `json:"uri"`
	CID    string      `json:"cid"`
	Author authorView  `json:"author"`
	Record postRecord  `json:"record"`
	Labels []labelView `json:"labels"`
}

// refView is either a materialized post or a tombstone for deleted or
// blocked content
type refView struct {
	postView
	NotFound bool `json:"notFound"`
	Blocked  bool `json:"blocked"`
}

type replyRefView struct {
	Root   refView `json:"root"`
	Parent refView `json:"parent"`
}

type reasonView struct {
	By authorView `json:"by"`
}

type feedViewPost struct {
	Post   postView      `json:"post"`
	Reply  *replyRefView `json:"reply"`
	Reason *reasonView   `json:"reason"`
}

type feedResponse struct {
	Cursor string         `json:"cursor"`
	Feed   []feedViewPost `json:"feed"`
}

type listRecordsResponse struct {
	Cursor  string `json:"cursor"`
	Records []struct {
		URI   string `json:"uri"`
		Value struct {
			Subject struct {
				URI string `json:"uri"`
				CID string `json:"cid"`
			} `json:"subject"`
		} `json:"value"`
	} `json:"records"`
}

type getPostsResponse struct {
	Posts []postView `json:"posts"`
}

type searchView struct {
	TID  string `json:"tid"`
	CID  string `json:"cid"`
	User struct {
		DID    string `json:"did"`
		Handle string `json:"handle"`
	} `json:"user"`
}

func (a authorView) toAuthor() timeline.Author {
	return timeline.Author{
		DID:         a.DID,
		Handle:      a.Handle,
		DisplayName: a.DisplayName,
		Following:   a.Viewer.Following,
		Muted:       a.Viewer.Muted,
	}
}

func (p postView) toPost() *timeline.Post {
	labels := make([]string, 0, len(p.Labels))
	for _, l := range p.Labels {
		labels = append(labels, l.Val)
	}

	return &timeline.Post{
		URI:       p.URI,
		CID:       p.CID,
		Author:    p.Author.toAuthor(),
		Text:      p.Record.Text,
		CreatedAt: p.Record.CreatedAt,
		Langs:     p.Record.Langs,
		Labels:    labels,
		IsReply:   p.Record.Reply != nil,
	}
}

func (r refView) toRef() timeline.RefView {
	if r.NotFound || r.Blocked || r.CID == "" {
		return timeline.RefView{NotFound: r.NotFound || r.CID == "", Blocked: r.Blocked}
	}
	return timeline.RefView{Post: r.postView.toPost()}
}

func (f feedViewPost) toRawItem() timeline.RawItem {
	item := timeline.RawItem{Post: f.Post.toPost()}

	if f.Reply != nil {
		item.Reply = &timeline.RawReplyRef{
			Root:   f.Reply.Root.toRef(),
			Parent: f.Reply.Parent.toRef(),
		}
	}
	if f.Reason != nil && f.Reason.By.DID != "" {
		item.Reason = &timeline.Reason{By: f.Reason.By.toAuthor()}
	}
	return item
}

func toRawItems(feed []feedViewPost) []timeline.RawItem {
	items := make([]timeline.RawItem, 0, len(feed))
	for _, f := range feed {
		items = append(items, f.toRawItem())
	}
	return items
}

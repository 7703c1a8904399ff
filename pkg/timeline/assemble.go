package timeline

// PostFilter decides whether a normalized item survives. Items failing it
// are dropped entirely, not just hidden.
type PostFilter func(item Item) bool

// SliceAction is the outcome of a slice filter
type SliceAction int

// slice filter outcomes
const (
	SliceKeep SliceAction = iota
	SliceDrop
	SliceReplace
)

// SliceResult is a tagged slice-filter verdict: keep the slice as is, drop
// it, or substitute zero or more replacement slices in its place
type SliceResult struct {
	Action SliceAction
	Slices []Slice
}

// Keep leaves the slice unchanged
func Keep() SliceResult { return SliceResult{Action: SliceKeep} }

// Drop discards the slice with no replacement
func Drop() SliceResult { return SliceResult{Action: SliceDrop} }

// ReplaceWith substitutes the given slices in place of the original
func ReplaceWith(slices ...Slice) SliceResult {
	return SliceResult{Action: SliceReplace, Slices: slices}
}

// SliceFilter evaluates an assembled slice once, front-to-back
type SliceFilter func(slice Slice) SliceResult

// isFirstInThread reports whether item is the reply-parent of the slice's
// first item
func isFirstInThread(slice *Slice, item Item) bool {
	first := slice.Items[0]
	return first.Reply != nil && first.Reply.Parent.CID == item.Post.CID
}

// isNextInThread reports whether item's resolved reply-parent is the
// slice's last item
func isNextInThread(slice *Slice, item Item) bool {
	last := slice.Items[len(slice.Items)-1]
	return item.Reply != nil && item.Reply.Parent.CID == last.Post.CID
}

// Assemble groups a page of raw items into thread-connected slices.
//
// Items arrive newest-first in API order and are processed in reverse, i.e.
// oldest first. A working list of open slices is kept ordered by recency of
// update. Each item is matched front-to-back against the open slices, first
// match wins: if the item is the reply-parent of a slice's first item it is
// prepended, if its own reply-parent is a slice's last item it is appended.
// A matched slice not already at the front is moved there so that a thread
// which just grew isn't buried under unrelated interleaved slices. Items
// matching nothing start a new slice at the front.
func Assemble(items []RawItem, sliceFilter SliceFilter, postFilter PostFilter) []Slice {
	open := make([]*Slice, 0, len(items))

	for i := len(items) - 1; i >= 0; i-- {
		item := EnsureItem(items[i])

		if postFilter != nil && !postFilter(item) {
			continue
		}

		matched := false
		for j, slice := range open {
			if isFirstInThread(slice, item) {
				slice.Items = append([]Item{item}, slice.Items...)
			} else if isNextInThread(slice, item) {
				slice.Items = append(slice.Items, item)
			} else {
				continue
			}

			if j != 0 { // recency bump
				copy(open[1:j+1], open[:j])
				open[0] = slice
			}
			matched = true
			break
		}

		if !matched {
			open = append(open, nil)
			copy(open[1:], open)
			open[0] = &Slice{Items: []Item{item}}
		}
	}

	result := make([]Slice, 0, len(open))
	for _, slice := range open {
		if sliceFilter == nil {
			result = append(result, *slice)
			continue
		}
		switch verdict := sliceFilter(*slice); verdict.Action {
		case SliceKeep:
			result = append(result, *slice)
		case SliceDrop:
		case SliceReplace:
			result = append(result, verdict.Slices...)
		}
	}
	return result
}

// AssembleUnjoined skips thread-stitching and emits one single-item slice
// per surviving item, preserving the original order. Used for retrieval
// results where thread context is not meaningful.
func AssembleUnjoined(items []RawItem, postFilter PostFilter) []Slice {
	slices := make([]Slice, 0, len(items))
	for _, raw := range items {
		item := EnsureItem(raw)

		if postFilter != nil && !postFilter(item) {
			continue
		}
		slices = append(slices, Slice{Items: []Item{item}})
	}
	return slices
}

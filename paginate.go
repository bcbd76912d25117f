package inkwell

import (
	"fmt"
	"sort"
)

// Page is an ordered, fixed-size slice of the sorted post sequence plus
// navigation metadata. Pages are recomputed on every load, never persisted.
type Page struct {
	Number     int // 1-based
	TotalPages int
	Posts      []Post
}

// HasPrev reports whether an earlier listing page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later listing page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// PrevURL returns the URL of the previous listing page. Page 1 is always
// addressed as "/" so the front page has exactly one URL.
func (p Page) PrevURL() string {
	if p.Number <= 2 {
		return "/"
	}
	return fmt.Sprintf("/page/%d/", p.Number-1)
}

// NextURL returns the URL of the next listing page.
func (p Page) NextURL() string {
	return fmt.Sprintf("/page/%d/", p.Number+1)
}

// SortPosts orders posts by effective date descending. Ties are broken by
// slug ascending so the ordering is deterministic across runs even when
// dates collide.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		di, dj := posts[i].EffectiveDate(), posts[j].EffectiveDate()
		if di.Equal(dj) {
			return posts[i].Slug < posts[j].Slug
		}
		return di.After(dj)
	})
}

// Paginate partitions sorted posts into contiguous pages of pageSize.
// Page N (1-indexed) holds posts at offsets (N-1)*pageSize through
// N*pageSize-1; the last page may be shorter. An empty input produces zero
// pages — callers that want a non-empty front page for an empty site handle
// that themselves. pageSize < 1 is an error, not silently clamped.
func Paginate(posts []Post, pageSize int) ([]Page, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("paginate: page size %d must be positive", pageSize)
	}
	total := (len(posts) + pageSize - 1) / pageSize
	pages := make([]Page, 0, total)
	for n := 1; n <= total; n++ {
		start := (n - 1) * pageSize
		end := start + pageSize
		if end > len(posts) {
			end = len(posts)
		}
		pages = append(pages, Page{
			Number:     n,
			TotalPages: total,
			Posts:      posts[start:end],
		})
	}
	return pages, nil
}

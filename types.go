package inkwell

import "time"

// Post is the core content type loaded from a markdown document and rendered
// by templates. Posts are immutable after load; the store hands out copies.
type Post struct {
	Slug        string
	Title       string
	Description string
	PublishDate time.Time
	UpdatedDate time.Time // zero when the post was never revised
	Tags        []string
	Draft       bool
	OGImage     string // externally supplied social image; disables card generation
	Content     string // markdown body, rendered by the views layer
	Link        string
}

// EffectiveDate returns the date a post is ordered and displayed by:
// the update date when present, otherwise the publish date.
func (p Post) EffectiveDate() time.Time {
	if !p.UpdatedDate.IsZero() {
		return p.UpdatedDate
	}
	return p.PublishDate
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

package inkwell

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a requested post or page does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a post whose front-matter is missing or malformed.
// Any single ValidationError fails the entire load: a listing silently
// missing a post is worse than a failed startup.
type ValidationError struct {
	Slug  string
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("post %q: invalid %s: %v", e.Slug, e.Field, e.Err)
	}
	return fmt.Sprintf("post %q: missing %s", e.Slug, e.Field)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// frontMatter mirrors the YAML block at the top of each content document.
// Optional fields map to documented defaults in toPost.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	PublishDate string   `yaml:"publishDate"`
	UpdatedDate string   `yaml:"updatedDate"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	OGImage     string   `yaml:"ogImage"`
}

// Store reads blog posts from a filesystem of markdown documents with YAML
// front-matter. The filesystem is the single owner of post data; Load hands
// out fresh slices on every call and never mutates what it returned before.
type Store struct {
	fsys fs.FS
}

// NewStore creates a Store over fsys. Every *.md file directly under the
// root is a post; its slug is the filename without extension.
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// dateLayouts are accepted front-matter date formats, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Load reads, validates, and sorts all posts. Drafts are excluded unless
// includeDrafts is set. A post with a missing title or a missing or
// unparsable publishDate fails the whole load with a *ValidationError
// naming the offending post.
func (s *Store) Load(includeDrafts bool) ([]Post, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var posts []Post
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		// Slug uniqueness falls out of filename uniqueness in a flat dir.
		slug := strings.TrimSuffix(entry.Name(), ".md")

		raw, err := fs.ReadFile(s.fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read post %q: %w", slug, err)
		}
		post, err := parsePost(slug, raw)
		if err != nil {
			return nil, err
		}
		if post.Draft && !includeDrafts {
			continue
		}
		posts = append(posts, post)
	}

	SortPosts(posts)
	return posts, nil
}

// Get returns a single post by slug. Draft posts are reported as ErrNotFound
// unless includeDrafts is set, so production visitors cannot reach them even
// with a direct link.
func (s *Store) Get(slug string, includeDrafts bool) (Post, error) {
	if !fs.ValidPath(slug) || strings.Contains(slug, "/") {
		return Post{}, ErrNotFound
	}
	raw, err := fs.ReadFile(s.fsys, slug+".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("read post %q: %w", slug, err)
	}
	post, err := parsePost(slug, raw)
	if err != nil {
		return Post{}, err
	}
	if post.Draft && !includeDrafts {
		return Post{}, ErrNotFound
	}
	return post, nil
}

var frontMatterFence = []byte("---")

// parsePost splits the front-matter fence from the body, decodes the YAML
// block, and normalizes optional fields to their defaults.
func parsePost(slug string, raw []byte) (Post, error) {
	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return Post{}, &ValidationError{Slug: slug, Field: "front-matter", Err: err}
	}

	var meta frontMatter
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return Post{}, &ValidationError{Slug: slug, Field: "front-matter", Err: err}
	}

	return toPost(slug, meta, string(body))
}

// splitFrontMatter extracts the YAML block between the leading "---" fences.
func splitFrontMatter(raw []byte) (fm, body []byte, err error) {
	trimmed := bytes.TrimLeft(raw, "\r\n")
	if !bytes.HasPrefix(trimmed, frontMatterFence) {
		return nil, nil, errors.New("missing opening fence")
	}
	rest := trimmed[len(frontMatterFence):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	rest = bytes.TrimPrefix(rest, []byte("\n"))

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, errors.New("missing closing fence")
	}
	fm = rest[:end]
	body = rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return fm, body, nil
}

func toPost(slug string, meta frontMatter, body string) (Post, error) {
	if strings.TrimSpace(meta.Title) == "" {
		return Post{}, &ValidationError{Slug: slug, Field: "title"}
	}
	if strings.TrimSpace(meta.PublishDate) == "" {
		return Post{}, &ValidationError{Slug: slug, Field: "publishDate"}
	}
	published, err := parseDate(meta.PublishDate)
	if err != nil {
		return Post{}, &ValidationError{Slug: slug, Field: "publishDate", Err: err}
	}
	var updated time.Time
	if strings.TrimSpace(meta.UpdatedDate) != "" {
		updated, err = parseDate(meta.UpdatedDate)
		if err != nil {
			return Post{}, &ValidationError{Slug: slug, Field: "updatedDate", Err: err}
		}
	}

	return Post{
		Slug:        slug,
		Title:       strings.TrimSpace(meta.Title),
		Description: strings.TrimSpace(meta.Description),
		PublishDate: published,
		UpdatedDate: updated,
		Tags:        FilterEmpty(meta.Tags),
		Draft:       meta.Draft,
		OGImage:     strings.TrimSpace(meta.OGImage),
		Content:     body,
		Link:        path.Join("/blog", slug) + "/",
	}, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", v)
}

package inkwell

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"
)

func contentFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

const minimalPost = `---
title: Hello World
publishDate: 2024-01-15
---
Body text.
`

func TestLoadParsesFrontMatter(t *testing.T) {
	fsys := contentFS(map[string]string{
		"hello-world.md": `---
title: Hello World
description: A greeting.
publishDate: 2024-01-15
updatedDate: 2024-02-01
tags:
  - go
  - blog
ogImage: /public/custom.png
---
Body text.
`,
	})

	posts, err := NewStore(fsys).Load(false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}

	p := posts[0]
	if p.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", p.Slug, "hello-world")
	}
	if p.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", p.Title, "Hello World")
	}
	if p.Description != "A greeting." {
		t.Errorf("Description = %q, want %q", p.Description, "A greeting.")
	}
	if got := p.PublishDate.Format("2006-01-02"); got != "2024-01-15" {
		t.Errorf("PublishDate = %s, want 2024-01-15", got)
	}
	if got := p.EffectiveDate().Format("2006-01-02"); got != "2024-02-01" {
		t.Errorf("EffectiveDate = %s, want updatedDate 2024-02-01", got)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" || p.Tags[1] != "blog" {
		t.Errorf("Tags = %v, want [go blog]", p.Tags)
	}
	if p.OGImage != "/public/custom.png" {
		t.Errorf("OGImage = %q", p.OGImage)
	}
	if p.Content != "Body text.\n" {
		t.Errorf("Content = %q, want body after closing fence", p.Content)
	}
	if p.Link != "/blog/hello-world/" {
		t.Errorf("Link = %q", p.Link)
	}
}

func TestLoadDefaultsOptionalFields(t *testing.T) {
	fsys := contentFS(map[string]string{"minimal.md": minimalPost})

	posts, err := NewStore(fsys).Load(false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p := posts[0]
	if p.Description != "" {
		t.Errorf("Description = %q, want empty default", p.Description)
	}
	if !p.UpdatedDate.IsZero() {
		t.Errorf("UpdatedDate = %v, want zero", p.UpdatedDate)
	}
	if !p.EffectiveDate().Equal(p.PublishDate) {
		t.Error("EffectiveDate should fall back to PublishDate")
	}
	if p.Draft {
		t.Error("Draft should default to false")
	}
	if len(p.Tags) != 0 {
		t.Errorf("Tags = %v, want none", p.Tags)
	}
}

func TestLoadExcludesDrafts(t *testing.T) {
	fsys := contentFS(map[string]string{
		"a.md": "---\ntitle: A\npublishDate: 2024-01-01\ndraft: true\n---\n",
		"b.md": "---\ntitle: B\npublishDate: 2024-01-02\n---\n",
	})
	store := NewStore(fsys)

	posts, err := store.Load(false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "b" {
		t.Fatalf("production listing = %v, want only b", slugs(posts))
	}

	posts, err = store.Load(true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("preview listing = %v, want both posts", slugs(posts))
	}
}

func TestLoadFailsOnBadPublishDate(t *testing.T) {
	fsys := contentFS(map[string]string{
		"good.md": minimalPost,
		"bad.md":  "---\ntitle: Bad\npublishDate: not-a-date\n---\n",
	})

	_, err := NewStore(fsys).Load(false)
	if err == nil {
		t.Fatal("expected load to fail, got nil error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Slug != "bad" {
		t.Errorf("ValidationError.Slug = %q, want %q", verr.Slug, "bad")
	}
	if verr.Field != "publishDate" {
		t.Errorf("ValidationError.Field = %q, want %q", verr.Field, "publishDate")
	}
}

func TestLoadFailsOnMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no title", "---\npublishDate: 2024-01-01\n---\n", "title"},
		{"no publish date", "---\ntitle: T\n---\n", "publishDate"},
		{"no front matter", "just a body\n", "front-matter"},
		{"unclosed fence", "---\ntitle: T\npublishDate: 2024-01-01\n", "front-matter"},
		{"bad updated date", "---\ntitle: T\npublishDate: 2024-01-01\nupdatedDate: someday\n---\n", "updatedDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := contentFS(map[string]string{"post.md": tt.body})
			_, err := NewStore(fsys).Load(false)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if verr.Slug != "post" {
				t.Errorf("Slug = %q, want %q", verr.Slug, "post")
			}
		})
	}
}

func TestLoadSortsByEffectiveDate(t *testing.T) {
	fsys := contentFS(map[string]string{
		"jan.md": "---\ntitle: Jan\npublishDate: 2024-01-01\n---\n",
		"jun.md": "---\ntitle: Jun\npublishDate: 2024-06-01\n---\n",
		// Published in March but updated after June — must sort first.
		"mar.md": "---\ntitle: Mar\npublishDate: 2024-03-01\nupdatedDate: 2024-07-01\n---\n",
	})

	posts, err := NewStore(fsys).Load(false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"mar", "jun", "jan"}
	got := slugs(posts)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestGetDraftIsNotFound(t *testing.T) {
	fsys := contentFS(map[string]string{
		"secret.md": "---\ntitle: Secret\npublishDate: 2024-01-01\ndraft: true\n---\n",
	})
	store := NewStore(fsys)

	if _, err := store.Get("secret", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get draft in production = %v, want ErrNotFound", err)
	}
	if _, err := store.Get("secret", true); err != nil {
		t.Errorf("Get draft in preview = %v, want nil", err)
	}
	if _, err := store.Get("missing", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
	if _, err := store.Get("../secret", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get with path traversal = %v, want ErrNotFound", err)
	}
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15T00:00:00Z"},
		{"2024-01-15T09:30:00Z", "2024-01-15T09:30:00Z"},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if err != nil {
			t.Fatalf("parseDate(%q) failed: %v", tt.in, err)
		}
		if got.Format(time.RFC3339) != tt.want {
			t.Errorf("parseDate(%q) = %s, want %s", tt.in, got.Format(time.RFC3339), tt.want)
		}
	}
	if _, err := parseDate("15/01/2024"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func slugs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

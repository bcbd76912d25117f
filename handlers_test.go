package inkwell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// stubViews render just enough structure to assert on listings and status
// pages without dragging template packages into engine tests.
func stubViews() ViewFuncs {
	return ViewFuncs{
		Listing: func(page Page, cfg SiteConfig) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				fmt.Fprintf(w, "page %d/%d:", page.Number, page.TotalPages)
				for _, p := range page.Posts {
					fmt.Fprintf(w, " %s", p.Slug)
				}
				return nil
			})
		},
		Post: func(post Post, cfg SiteConfig) templ.Component {
			return textComponent("post " + post.Slug)
		},
		PreviewLogin: func(showError bool, csrfToken string) templ.Component {
			return textComponent(fmt.Sprintf("login error=%v", showError))
		},
		NotFound:    func() templ.Component { return textComponent("not found") },
		ServerError: func() templ.Component { return textComponent("server error") },
	}
}

func textComponent(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func testApp(t *testing.T, files map[string]string) *App {
	t.Helper()
	cfg := SiteConfig{Name: "Test Site", PageSize: 2}
	cfg.setDefaults()
	cfg.PageSize = 2

	a := New(cfg, stubViews())
	a.Store = NewStore(contentFS(files))
	a.Cache = newContentCache(a.Store, time.Minute)
	return a
}

func get(a *App, target string, paramNames []string, paramValues []string, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	return rec, handler(c)
}

var listingFixture = map[string]string{
	"a.md":     "---\ntitle: A\npublishDate: 2024-01-01\n---\n",
	"b.md":     "---\ntitle: B\npublishDate: 2024-02-01\n---\n",
	"c.md":     "---\ntitle: C\npublishDate: 2024-03-01\n---\n",
	"draft.md": "---\ntitle: D\npublishDate: 2024-04-01\ndraft: true\n---\n",
}

func TestHandleHomeListsPublishedOnly(t *testing.T) {
	a := testApp(t, listingFixture)

	rec, err := get(a, "/", nil, nil, a.handleHome)
	if err != nil {
		t.Fatalf("handleHome failed: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "page 1/2: c b") {
		t.Errorf("home body = %q, want newest two published posts", body)
	}
	if strings.Contains(body, "draft") {
		t.Errorf("home body %q leaks a draft", body)
	}
}

func TestHandleHomeEmptySite(t *testing.T) {
	a := testApp(t, nil)

	rec, err := get(a, "/", nil, nil, a.handleHome)
	if err != nil {
		t.Fatalf("handleHome on empty site failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "page 1/0:") {
		t.Errorf("body = %q, want empty page 1", rec.Body.String())
	}
}

func TestHandleListingPage(t *testing.T) {
	a := testApp(t, listingFixture)

	rec, err := get(a, "/page/2/", []string{"n"}, []string{"2"}, a.handleListingPage)
	if err != nil {
		t.Fatalf("handleListingPage failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "page 2/2: a") {
		t.Errorf("page 2 body = %q", rec.Body.String())
	}

	// Page 1 canonicalizes to /.
	rec, err = get(a, "/page/1/", []string{"n"}, []string{"1"}, a.handleListingPage)
	if err != nil {
		t.Fatalf("handleListingPage failed: %v", err)
	}
	if rec.Code != http.StatusMovedPermanently {
		t.Errorf("page 1 status = %d, want 301", rec.Code)
	}

	for _, n := range []string{"3", "0", "nope"} {
		_, err := get(a, "/page/"+n+"/", []string{"n"}, []string{n}, a.handleListingPage)
		if err != echo.ErrNotFound {
			t.Errorf("page %q error = %v, want echo.ErrNotFound", n, err)
		}
	}
}

func TestHandlePost(t *testing.T) {
	a := testApp(t, listingFixture)

	rec, err := get(a, "/blog/b/", []string{"slug"}, []string{"b"}, a.handlePost)
	if err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "post b") {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec, err = get(a, "/blog/draft/", []string{"slug"}, []string{"draft"}, a.handlePost)
	if err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("draft status = %d, want 404", rec.Code)
	}
}

func TestDevelopmentModeShowsDrafts(t *testing.T) {
	a := testApp(t, listingFixture)
	a.Config.Environment = "development"

	rec, err := get(a, "/", nil, nil, a.handleHome)
	if err != nil {
		t.Fatalf("handleHome failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "draft") {
		t.Errorf("development home %q should include drafts", rec.Body.String())
	}

	rec, err = get(a, "/blog/draft/", []string{"slug"}, []string{"draft"}, a.handlePost)
	if err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("draft detail status = %d, want 200 in development", rec.Code)
	}
}

func TestHandleCard(t *testing.T) {
	files := map[string]string{
		"plain.md":    "---\ntitle: Plain\npublishDate: 2024-01-01\n---\n",
		"external.md": "---\ntitle: External\npublishDate: 2024-01-01\nogImage: /public/x.png\n---\n",
	}
	a := testApp(t, files)

	rec, err := get(a, "/og/plain.png", []string{"slug"}, []string{"plain.png"}, a.handleCard)
	if err != nil {
		t.Fatalf("handleCard failed: %v", err)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("card body is empty")
	}

	// Reserved index card.
	rec, err = get(a, "/og/index.png", []string{"slug"}, []string{"index.png"}, a.handleCard)
	if err != nil {
		t.Fatalf("handleCard index failed: %v", err)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("index Content-Type = %q", ct)
	}

	// Externally supplied image: excluded from the enumeration entirely.
	if _, err := get(a, "/og/external.png", []string{"slug"}, []string{"external.png"}, a.handleCard); err != echo.ErrNotFound {
		t.Errorf("external card error = %v, want echo.ErrNotFound", err)
	}
	if _, err := get(a, "/og/missing.png", []string{"slug"}, []string{"missing.png"}, a.handleCard); err != echo.ErrNotFound {
		t.Errorf("missing card error = %v, want echo.ErrNotFound", err)
	}
}

package inkwell

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	page, err := a.listingPage(c, 1)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// An empty site still has a front page, just with nothing on it.
			page = Page{Number: 1, TotalPages: 0}
		} else {
			return err
		}
	}
	return Render(c, a.Views.Listing(page, a.Config))
}

func (a *App) handleListingPage(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return echo.ErrNotFound
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	page, err := a.listingPage(c, n)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, a.Views.Listing(page, a.Config))
}

// listingPage paginates the cached posts and returns page n, or ErrNotFound
// when n is past the end.
func (a *App) listingPage(c echo.Context, n int) (Page, error) {
	posts, err := a.Cache.ListPosts(a.includeDrafts(c))
	if err != nil {
		return Page{}, err
	}
	pages, err := Paginate(posts, a.Config.PageSize)
	if err != nil {
		return Page{}, err
	}
	if n > len(pages) {
		return Page{}, ErrNotFound
	}
	return pages[n-1], nil
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug, a.includeDrafts(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.Post(post, a.Config))
}

// handleCard serves the PNG social card for a post, or for the home page
// under the reserved "index" slug. Posts that declare an external ogImage
// are excluded from the enumeration entirely, so requesting their card is a
// not-found, not an empty image. A rasterization failure is a server error
// for this one card and never touches sibling requests.
func (a *App) handleCard(c echo.Context) error {
	slug := strings.TrimSuffix(c.Param("slug"), ".png")

	var entry CardEntry
	if slug == IndexCardSlug {
		entry = CardEntry{Slug: IndexCardSlug, Title: a.Config.Name}
	} else {
		post, err := a.Cache.GetPost(slug, a.includeDrafts(c))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.ErrNotFound
			}
			return err
		}
		if post.OGImage != "" {
			return echo.ErrNotFound
		}
		d := post.EffectiveDate()
		entry = CardEntry{Slug: post.Slug, Title: post.Title, Date: &d}
	}

	png, err := GenerateCard(a.Config.Name, entry.Title, entry.Date)
	if err != nil {
		return fmt.Errorf("render card %q: %w", entry.Slug, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(false)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(false)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /preview/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

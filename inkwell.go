// Package inkwell is a file-backed blog engine built with Go, Echo, and templ.
// Posts are markdown documents with YAML front-matter; inkwell loads and
// validates them, serves paginated listings, detail pages, RSS, and a
// sitemap, and renders a deterministic PNG social card per post.
//
// Users provide their own templ components via the ViewFuncs struct,
// and inkwell handles the handler logic, middleware, and content pipeline.
package inkwell

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eastshore/inkwell/analytics"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Listing      func(page Page, cfg SiteConfig) templ.Component
	Post         func(post Post, cfg SiteConfig) templ.Component
	PreviewLogin func(showError bool, csrfToken string) templ.Component
	NotFound     func() templ.Component
	ServerError  func() templ.Component
}

// App is the central inkwell application. It wires together the content
// store, cache, card generator, handlers, middleware, and user templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *contentCache
	Views  ViewFuncs

	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	staticDir      string
	contentFS      fs.FS
}

// New creates a new inkwell App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start validates configuration, loads the content store, and starts the
// server. A post with invalid front-matter fails startup with a descriptive
// error rather than serving a partial listing.
func (a *App) Start() error {
	if a.Config.PreviewPassword == "" {
		return fmt.Errorf("inkwell: PreviewPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("inkwell: SessionSecret is required")
	}
	if err := a.requireViews(); err != nil {
		return err
	}

	if a.contentFS == nil {
		a.contentFS = os.DirFS(a.Config.ContentDir)
	}
	a.Store = NewStore(a.contentFS)
	a.Cache = newContentCache(a.Store, a.Config.ContentCacheTTL)

	// Fail fast on bad content before accepting traffic.
	if _, err := a.Store.Load(true); err != nil {
		return fmt.Errorf("inkwell: load content: %w", err)
	}

	a.loginLimiter = NewLoginLimiter(5, loginWindow)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("inkwell: init analytics: %w", err)
		}
		a.analyticsStore = store
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) requireViews() error {
	switch {
	case a.Views.Listing == nil:
		return fmt.Errorf("inkwell: Views.Listing is required")
	case a.Views.Post == nil:
		return fmt.Errorf("inkwell: Views.Post is required")
	case a.Views.PreviewLogin == nil:
		return fmt.Errorf("inkwell: Views.PreviewLogin is required")
	case a.Views.NotFound == nil:
		return fmt.Errorf("inkwell: Views.NotFound is required")
	case a.Views.ServerError == nil:
		return fmt.Errorf("inkwell: Views.ServerError is required")
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/page/:n/", a.handleListingPage)
	e.GET("/blog/:slug/", a.handlePost)

	// Social card endpoint — one PNG per post plus the reserved index card.
	e.GET("/og/:slug", a.handleCard)

	// Preview routes — password-protected draft visibility.
	e.GET("/preview/", a.handlePreview)
	e.POST("/preview/login/", a.handlePreviewLogin)
	e.POST("/preview/logout/", handlePreviewLogout)
	if a.analyticsStore != nil {
		e.GET("/preview/stats/", a.handleStats)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}

// includeDrafts reports whether this request may see draft posts: either the
// whole site runs in development mode, or the visitor holds a preview session.
func (a *App) includeDrafts(c echo.Context) bool {
	return a.Config.Development() || IsPreview(c)
}

// Package views provides default templ components for an inkwell site.
// Components are written as templ.ComponentFunc so sites work out of the
// box; most sites will replace these with their own generated templates.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eastshore/inkwell"
	"github.com/eastshore/inkwell/markdown"
)

// Funcs returns a fully populated ViewFuncs using the default components.
func Funcs() inkwell.ViewFuncs {
	return inkwell.ViewFuncs{
		Listing:      Listing,
		Post:         Post,
		PreviewLogin: PreviewLogin,
		NotFound:     NotFound,
		ServerError:  ServerError,
	}
}

// Listing renders one page of post previews with prev/next navigation.
// Previews expose only the title, effective date, and description.
func Listing(page inkwell.Page, cfg inkwell.SiteConfig) templ.Component {
	meta := inkwell.PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         inkwell.BuildURL(cfg.URL),
		OGType:      "website",
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writeHead(w, meta, cardURL(cfg, inkwell.IndexCardSlug), inkwell.WebsiteJsonLD(cfg))
		fmt.Fprintf(w, "<h1>%s</h1>\n", html.EscapeString(cfg.Name))
		if len(page.Posts) == 0 {
			io.WriteString(w, "<p>Nothing published yet.</p>\n")
		}
		io.WriteString(w, "<ul class=\"post-list\">\n")
		for _, p := range page.Posts {
			fmt.Fprintf(w, "<li><a href=%q>%s</a> <time datetime=%q>%s</time>",
				p.Link,
				html.EscapeString(p.Title),
				p.EffectiveDate().Format("2006-01-02"),
				inkwell.FormatDate(p.EffectiveDate()))
			if p.Description != "" {
				fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(p.Description))
			}
			io.WriteString(w, "</li>\n")
		}
		io.WriteString(w, "</ul>\n<nav class=\"pagination\">")
		if page.HasPrev() {
			fmt.Fprintf(w, "<a rel=\"prev\" href=%q>Newer</a> ", page.PrevURL())
		}
		if page.TotalPages > 1 {
			fmt.Fprintf(w, "<span>Page %d of %d</span>", page.Number, page.TotalPages)
		}
		if page.HasNext() {
			fmt.Fprintf(w, " <a rel=\"next\" href=%q>Older</a>", page.NextURL())
		}
		io.WriteString(w, "</nav>\n")
		writeFoot(w)
		return nil
	})
}

// Post renders a post detail page, including the markdown body.
func Post(post inkwell.Post, cfg inkwell.SiteConfig) templ.Component {
	meta := inkwell.PageMeta{
		Title:       post.Title + " — " + cfg.Name,
		Description: post.Description,
		URL:         inkwell.BuildURL(cfg.URL, "blog", post.Slug),
		OGType:      "article",
	}
	image := cardURL(cfg, post.Slug)
	if post.OGImage != "" {
		image = post.OGImage
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writeHead(w, meta, image, inkwell.BlogPostingJsonLD(post, cfg))
		fmt.Fprintf(w, "<article>\n<h1>%s</h1>\n<time datetime=%q>%s</time>\n",
			html.EscapeString(post.Title),
			post.EffectiveDate().Format("2006-01-02"),
			inkwell.FormatDate(post.EffectiveDate()))
		if len(post.Tags) > 0 {
			fmt.Fprintf(w, "<p class=\"tags\">%s</p>\n", html.EscapeString(inkwell.JoinTags(post.Tags)))
		}
		if err := markdown.Markdown(post.Content).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, "</article>\n")
		writeFoot(w)
		return nil
	})
}

// PreviewLogin renders the preview-mode password form.
func PreviewLogin(showError bool, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, "<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\"><title>Preview</title></head><body>\n")
		io.WriteString(w, "<h1>Preview login</h1>\n")
		if showError {
			io.WriteString(w, "<p class=\"error\">Wrong password.</p>\n")
		}
		fmt.Fprintf(w, "<form method=\"post\" action=\"/preview/login/\">"+
			"<input type=\"hidden\" name=\"_csrf\" value=%q>"+
			"<input type=\"password\" name=\"password\" autofocus>"+
			"<button type=\"submit\">Enter</button></form>\n", csrfToken)
		io.WriteString(w, "</body></html>\n")
		return nil
	})
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return statusPage("404", "Page not found.")
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return statusPage("500", "Something went wrong.")
}

func statusPage(code, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, "<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\"><title>%s</title></head><body><h1>%s</h1><p>%s</p><p><a href=\"/\">Back home</a></p></body></html>\n",
			code, code, html.EscapeString(msg))
		return nil
	})
}

// cardURL points at the social card endpoint; cards are served without a
// trailing slash so the path is built by hand rather than with BuildURL.
func cardURL(cfg inkwell.SiteConfig, slug string) string {
	return strings.TrimRight(cfg.URL, "/") + "/og/" + slug + ".png"
}

func writeHead(w io.Writer, meta inkwell.PageMeta, imageURL, jsonLD string) {
	title := html.EscapeString(meta.Title)
	desc := html.EscapeString(meta.Description)
	fmt.Fprintf(w, "<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>%s</title>\n", title)
	if desc != "" {
		fmt.Fprintf(w, "<meta name=\"description\" content=%q>\n", desc)
	}
	fmt.Fprintf(w, "<link rel=\"canonical\" href=%q>\n", meta.URL)
	fmt.Fprintf(w, "<meta property=\"og:title\" content=%q>\n", title)
	fmt.Fprintf(w, "<meta property=\"og:type\" content=%q>\n", meta.OGType)
	fmt.Fprintf(w, "<meta property=\"og:url\" content=%q>\n", meta.URL)
	fmt.Fprintf(w, "<meta property=\"og:image\" content=%q>\n", imageURL)
	fmt.Fprintf(w, "<meta name=\"twitter:card\" content=\"summary_large_image\">\n")
	fmt.Fprintf(w, "<link rel=\"alternate\" type=\"application/rss+xml\" href=\"/feed.xml\">\n")
	fmt.Fprintf(w, "<script type=\"application/ld+json\">%s</script>\n", jsonLD)
	io.WriteString(w, "</head>\n<body>\n")
}

func writeFoot(w io.Writer) {
	io.WriteString(w, "</body>\n</html>\n")
}

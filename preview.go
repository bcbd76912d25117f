package inkwell

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Preview mode lets an authenticated visitor see draft posts through the
// normal listing and detail routes. It reuses the session machinery and
// login limiter; there is no content mutation behind it.

func (a *App) handlePreview(c echo.Context) error {
	if !IsPreview(c) {
		return Render(c, a.Views.PreviewLogin(false, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handlePreviewLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.PreviewPassword)) == 1 {
		if err := setPreviewSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.PreviewLogin(true, CsrfToken(c)))
}

func handlePreviewLogout(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleStats returns page-view totals as JSON for a preview session.
func (a *App) handleStats(c echo.Context) error {
	if !IsPreview(c) {
		return c.Redirect(http.StatusSeeOther, "/preview/")
	}
	days := 30
	top, err := a.analyticsStore.TopPaths(days, 25)
	if err != nil {
		return err
	}
	total, err := a.analyticsStore.Total(days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"days":  days,
		"total": total,
		"paths": top,
	})
}

package handler

import (
	"carlton/internal/middleware"
	"carlton/internal/service"
	"net/http"
)

// AdminHandler serves the shell pages of the admin app. Data flows through
// the JSON API; these pages only carry the markup and script.
type AdminHandler struct {
	site       *service.SiteService
	view       middleware.Renderer
	ssoEnabled bool
	degraded   bool
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(site *service.SiteService, v middleware.Renderer, ssoEnabled, degraded bool) *AdminHandler {
	return &AdminHandler{site: site, view: v, ssoEnabled: ssoEnabled, degraded: degraded}
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, name string) *middleware.AppError {
	w.Header().Set("X-Robots-Tag", "noindex")
	err := h.view.Render(w, r, name, map[string]interface{}{
		"Site":       h.site.Site(),
		"SSOEnabled": h.ssoEnabled,
		"Degraded":   h.degraded,
	})
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

func (h *AdminHandler) dashboardHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, "admin.html")
}

func (h *AdminHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, "admin_login.html")
}

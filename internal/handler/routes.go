package handler

import (
	"carlton/internal/logger"
	appmw "carlton/internal/middleware"
	"carlton/internal/session"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Site  *SiteHandler
	API   *APIHandler
	Auth  *AuthHandler
	SEO   *SeoHandler
	Admin *AdminHandler

	Tokens   appmw.TokenParser
	Accounts appmw.Accounts // nil trusts the role in the token
	Enforcer appmw.Enforcer
	Sessions session.Manager
	Errors   func(appmw.AppHandler) http.Handler

	Static  fs.FS        // rooted at the static directory
	Metrics http.Handler // nil disables /metrics

	FormLimiter *appmw.IPLimiter
	AuthLimiter *appmw.IPLimiter

	Proxies  *appmw.TrustedProxies
	Log      logger.Logger
	Degraded bool // no database: the API answers 503
}

// NewRouter creates and configures a new chi router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cfg.Proxies.RealIP)
	r.Use(appmw.RequestLogger(cfg.Log))
	r.Use(middleware.Recoverer)
	r.Use(appmw.SettingsMiddleware)

	r.Handle("/static/*", http.StripPrefix("/static/", staticFiles(cfg.Static)))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "database": !cfg.Degraded})
	})
	r.Get("/robots.txt", cfg.SEO.robotsHandler)
	r.Get("/sitemap.xml", cfg.SEO.sitemapHandler)

	// HTML pages share the session so flash toasts survive the redirect.
	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)

		site := cfg.Site
		r.Method(http.MethodGet, "/", cfg.Errors(site.staticPage("home", "home.html")))
		r.Method(http.MethodGet, "/rooms", cfg.Errors(site.staticPage("rooms", "rooms.html")))
		r.Method(http.MethodGet, "/rooms/{slug}", cfg.Errors(site.roomHandler))
		r.Method(http.MethodGet, "/restaurants", cfg.Errors(site.staticPage("restaurants", "listing.html")))
		r.Method(http.MethodGet, "/events", cfg.Errors(site.staticPage("events", "listing.html")))
		r.Method(http.MethodGet, "/wellness", cfg.Errors(site.staticPage("wellness", "listing.html")))
		r.Method(http.MethodGet, "/gallery", cfg.Errors(site.galleryHandler))
		r.Method(http.MethodGet, "/contact", cfg.Errors(site.staticPage("contact", "contact.html")))
		r.Method(http.MethodGet, "/p/{slug}", cfg.Errors(site.cmsPageHandler))

		r.Group(func(r chi.Router) {
			r.Use(cfg.FormLimiter.Limit(site.rateLimited))
			r.Post("/rooms/{slug}/book", site.bookHandler)
			r.Post("/contact", site.contactHandler)
		})

		r.Method(http.MethodGet, "/admin", cfg.Errors(cfg.Admin.dashboardHandler))
		r.Method(http.MethodGet, "/admin/login", cfg.Errors(cfg.Admin.loginHandler))
	})

	r.NotFound(cfg.Sessions.LoadAndSave(cfg.Errors(cfg.Site.notFoundHandler)).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		if cfg.Degraded {
			r.HandleFunc("/*", appmw.Unavailable)
			return
		}
		r.Use(appmw.Authenticate(cfg.Tokens, cfg.Accounts))
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			appmw.WriteProblem(w, http.StatusNotFound, "Not found", "No such API endpoint.")
		})

		// Public authentication endpoints.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthLimiter.Limit(nil))
			r.Post("/auth/login", cfg.Auth.loginHandler)
			r.Post("/auth/register", cfg.Auth.registerHandler)
		})
		r.Get("/auth/oidc/login", cfg.Auth.oidcLoginHandler)
		r.Get("/auth/oidc/callback", cfg.Auth.oidcCallbackHandler)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appmw.Authorizer(cfg.Enforcer, cfg.Log))
			api := cfg.API

			r.Get("/auth/me", cfg.Auth.meHandler)

			r.Get("/pages", api.listPages)
			r.Post("/pages", api.createPage)
			r.Get("/pages/{id}", api.getPage)
			r.Put("/pages/{id}", api.updatePage)
			r.Delete("/pages/{id}", api.deletePage)
			r.Get("/pages/{id}/sections", api.listSections)
			r.Post("/pages/{id}/sections", api.createSection)
			r.Put("/sections/{id}", api.updateSection)
			r.Delete("/sections/{id}", api.deleteSection)

			r.Get("/gallery", api.listImages)
			r.Post("/gallery", api.createImage)
			r.Get("/gallery/{id}", api.getImage)
			r.Put("/gallery/{id}", api.updateImage)
			r.Delete("/gallery/{id}", api.deleteImage)

			r.Get("/rooms", api.listRooms)
			r.Post("/rooms", api.createRoom)
			r.Get("/rooms/{id}", api.getRoom)
			r.Put("/rooms/{id}", api.updateRoom)
			r.Delete("/rooms/{id}", api.deleteRoom)

			r.Get("/bookings", api.listBookings)
			r.Get("/bookings/export.xlsx", api.exportBookings)
			r.Get("/bookings/ref/{reference}", api.getBookingByReference)
			r.Get("/bookings/{id}", api.getBooking)
			r.Put("/bookings/{id}", api.updateBooking)
			r.Delete("/bookings/{id}", api.deleteBooking)

			r.Get("/messages", api.listMessages)
			r.Delete("/messages/{id}", api.deleteMessage)
		})
	})

	return r
}

func staticFiles(static fs.FS) http.Handler {
	files := http.FileServer(http.FS(static))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

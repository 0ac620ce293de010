package main

import (
	"carlton/internal/auth"
	"carlton/internal/cache"
	"carlton/internal/config"
	"carlton/internal/content"
	"carlton/internal/data"
	"carlton/internal/handler"
	"carlton/internal/logger"
	"carlton/internal/metrics"
	"carlton/internal/middleware"
	"carlton/internal/service"
	"carlton/internal/session"
	"carlton/internal/view"
	"carlton/web"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepPeriod     = time.Minute
)

func runServe(cmd *cobra.Command, args []string) error {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Site Content ---
	siteContent, err := content.Load(web.ContentFS, web.ContentFile)
	if err != nil {
		log.Fatal(err, "Failed to load site content")
	}

	// --- Database Initialization and Migration ---
	db := openOptionalDB(cfg, log)
	if db != nil {
		defer db.Close()
	}
	degraded := db == nil

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	enforcer, err := auth.NewEnforcer(db)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)

	tokens, err := auth.NewTokenIssuer(jwtSecret(cfg, log), cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal(err, "Failed to initialize token issuer")
	}

	var authenticator *auth.Authenticator
	if cfg.OIDC.IssuerURL != "" {
		authenticator, err = auth.NewAuthenticator(ctx, cfg.OIDC)
		if err != nil {
			log.Warn("Single sign-on disabled: " + err.Error())
			authenticator = nil
		}
	}
	log.Info("Auth components initialized and policies seeded.")

	// --- Session Management Setup ---
	sessionManager := session.New(db, cfg.DB.Driver, cfg.Session)

	// --- Cache Initialization ---
	store, err := cache.New(cfg.Cache)
	if err != nil {
		log.Warn("Page cache disabled: " + err.Error())
		store = cache.Nop{}
	}
	defer store.Close()

	// --- View Template Initialization ---
	viewService, err := view.New(web.TemplateFS, sessionManager)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Dependency Injection ---
	repos := newRepositories(db)
	renderer := service.NewRenderer()
	site := service.NewSiteService(siteContent, service.SiteRepositories{
		Pages:    repos.pages,
		Sections: repos.sections,
		Rooms:    repos.rooms,
		Gallery:  repos.gallery,
	}, renderer, store, cfg.Cache.TTL, log)

	pages := service.NewPageService(repos.pages, site)
	rooms := service.NewRoomService(repos.rooms, site)
	bookings := service.NewBookingService(repos.bookings, repos.rooms)
	contact := service.NewContactService(repos.contact)
	users := service.NewUserService(repos.users, cfg.Auth.AllowRegistration)

	if !degraded {
		if n, err := rooms.SeedFromContent(ctx, siteContent.Rooms); err != nil {
			log.Error(err, "Failed to seed rooms")
		} else if n > 0 {
			log.Info(fmt.Sprintf("Seeded %d rooms from site content", n))
		}
	}

	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		log.Fatal(err, "Failed to open static assets")
	}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler(metrics.NewRegistry())
	}

	formLimiter := middleware.NewIPLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	authLimiter := middleware.NewIPLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatal(err, "Invalid trusted proxy list")
	}

	// --- Router Setup ---
	router := handler.NewRouter(handler.RouterConfig{
		Site: handler.NewSiteHandler(site, bookings, contact, viewService, sessionManager, log),
		API: handler.NewAPIHandler(handler.APIServices{
			Pages:    pages,
			Sections: service.NewSectionService(repos.sections, repos.pages, site),
			Gallery:  service.NewGalleryService(repos.gallery, site),
			Rooms:    rooms,
			Bookings: bookings,
			Contact:  contact,
		}, log),
		Auth:        handler.NewAuthHandler(users, tokens, authenticator, log),
		SEO:         handler.NewSeoHandler(site, cfg.Server.BaseURL, log),
		Admin:       handler.NewAdminHandler(site, viewService, authenticator != nil, degraded),
		Tokens:      tokens,
		Accounts:    users,
		Enforcer:    enforcer,
		Sessions:    sessionManager,
		Errors:      middleware.Error(log, viewService),
		Static:      staticFS,
		Metrics:     metricsHandler,
		FormLimiter: formLimiter,
		AuthLimiter: authLimiter,
		Proxies:     proxies,
		Log:         log,
		Degraded:    degraded,
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			err = server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Warn("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				formLimiter.Sweep()
				authLimiter.Sweep()
				if n, err := cache.Purge(gctx, store); err != nil {
					log.Error(err, "Failed to purge page cache")
				} else if n > 0 {
					log.Debug(fmt.Sprintf("Purged %d expired cache items", n))
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exiting")
	return nil
}

// openOptionalDB connects and migrates the site database. It returns nil when
// none is configured or it cannot be reached; the site then runs without it.
func openOptionalDB(cfg *config.Config, log logger.Logger) *sqlx.DB {
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if errors.Is(err, data.ErrNoDatabase) {
		log.Warn("No database configured; serving static content only, the admin API is disabled.")
		return nil
	}
	if err != nil {
		log.Warn("Database unavailable; serving static content only: " + err.Error())
		return nil
	}

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(db, cfg.DB.Driver); err != nil {
		db.Close()
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Database ready.")
	return db
}

// repositories holds nil interfaces when there is no database, so services
// can tell "no store" apart from a store.
type repositories struct {
	pages    service.PageRepository
	sections service.SectionRepository
	gallery  service.GalleryRepository
	rooms    service.RoomRepository
	bookings service.BookingRepository
	contact  service.ContactRepository
	users    service.UserRepository
}

func newRepositories(db *sqlx.DB) repositories {
	if db == nil {
		return repositories{}
	}
	return repositories{
		pages:    data.NewSQLPageRepository(db),
		sections: data.NewSQLSectionRepository(db),
		gallery:  data.NewSQLGalleryRepository(db),
		rooms:    data.NewSQLRoomRepository(db),
		bookings: data.NewSQLBookingRepository(db),
		contact:  data.NewSQLContactRepository(db),
		users:    data.NewSQLUserRepository(db),
	}
}

// jwtSecret returns the configured signing secret, or a random one that
// invalidates all tokens on restart.
func jwtSecret(cfg *config.Config, log logger.Logger) string {
	if cfg.Auth.JWTSecret != "" {
		return cfg.Auth.JWTSecret
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal(err, "Failed to generate a token secret")
	}
	log.Warn("CARLTON_AUTH_JWT_SECRET is not set; using a random secret, tokens will not survive a restart.")
	return hex.EncodeToString(b)
}

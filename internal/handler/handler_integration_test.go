//go:build integration

package handler

import (
	"bytes"
	"carlton/internal/auth"
	"carlton/internal/cache"
	"carlton/internal/config"
	"carlton/internal/content"
	"carlton/internal/data"
	"carlton/internal/logger"
	"carlton/internal/middleware"
	"carlton/internal/service"
	"carlton/internal/view"
	"carlton/web"
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

const testSecret = "integration-test-secret"

type testApp struct {
	Router *chi.Mux
	DB     *sqlx.DB
	Tokens *auth.TokenIssuer
	Users  *data.SQLUserRepository
}

type appOptions struct {
	degraded bool
	rps      float64
	burst    int
}

// setupTest initializes a full application stack for testing.
func setupTest(t *testing.T, opts appOptions) (*testApp, func()) {
	t.Helper()
	log := logger.Nop()
	ctx := context.Background()

	siteContent, err := content.Load(web.ContentFS, web.ContentFile)
	if err != nil {
		t.Fatalf("Failed to load content: %v", err)
	}

	var db *sqlx.DB
	var (
		pageRepo    service.PageRepository
		sectionRepo service.SectionRepository
		galleryRepo service.GalleryRepository
		roomRepo    service.RoomRepository
		bookingRepo service.BookingRepository
		contactRepo service.ContactRepository
		userRepo    service.UserRepository
	)
	var users *data.SQLUserRepository
	if !opts.degraded {
		db, err = data.NewDB(config.DBConfig{
			Driver: data.DriverSQLite,
			DSN:    "file:" + filepath.Join(t.TempDir(), "carlton.db"),
		})
		if err != nil {
			t.Fatalf("Failed to connect to database: %v", err)
		}
		if err := data.ApplyMigrations(db, data.DriverSQLite); err != nil {
			t.Fatalf("Failed to apply migrations: %v", err)
		}
		users = data.NewSQLUserRepository(db)
		pageRepo = data.NewSQLPageRepository(db)
		sectionRepo = data.NewSQLSectionRepository(db)
		galleryRepo = data.NewSQLGalleryRepository(db)
		roomRepo = data.NewSQLRoomRepository(db)
		bookingRepo = data.NewSQLBookingRepository(db)
		contactRepo = data.NewSQLContactRepository(db)
		userRepo = users
	}

	sessionManager := scs.New()
	viewService, err := view.New(web.TemplateFS, sessionManager)
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}

	renderer := service.NewRenderer()
	site := service.NewSiteService(siteContent, service.SiteRepositories{
		Pages: pageRepo, Sections: sectionRepo, Rooms: roomRepo, Gallery: galleryRepo,
	}, renderer, cache.Nop{}, time.Minute, log)
	rooms := service.NewRoomService(roomRepo, site)
	if !opts.degraded {
		if _, err := rooms.SeedFromContent(ctx, siteContent.Rooms); err != nil {
			t.Fatalf("Failed to seed rooms: %v", err)
		}
	}
	bookings := service.NewBookingService(bookingRepo, roomRepo)
	contact := service.NewContactService(contactRepo)

	enforcer, err := auth.NewEnforcer(db)
	if err != nil {
		t.Fatalf("Failed to create enforcer: %v", err)
	}
	auth.SeedDefaultPolicies(enforcer, log)
	tokens, err := auth.NewTokenIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token issuer: %v", err)
	}

	userService := service.NewUserService(userRepo, false)
	static, _ := fs.Sub(web.StaticFS, "static")
	router := NewRouter(RouterConfig{
		Site: NewSiteHandler(site, bookings, contact, viewService, sessionManager, log),
		API: NewAPIHandler(APIServices{
			Pages:    service.NewPageService(pageRepo, site),
			Sections: service.NewSectionService(sectionRepo, pageRepo, site),
			Gallery:  service.NewGalleryService(galleryRepo, site),
			Rooms:    rooms,
			Bookings: bookings,
			Contact:  contact,
		}, log),
		Auth:        NewAuthHandler(userService, tokens, nil, log),
		SEO:         NewSeoHandler(site, "https://carlton.test/", log),
		Admin:       NewAdminHandler(site, viewService, false, opts.degraded),
		Tokens:      tokens,
		Accounts:    userService,
		Enforcer:    enforcer,
		Sessions:    sessionManager,
		Errors:      middleware.Error(log, viewService),
		Static:      static,
		FormLimiter: middleware.NewIPLimiter(opts.rps, opts.burst),
		AuthLimiter: middleware.NewIPLimiter(0, 0),
		Log:         log,
		Degraded:    opts.degraded,
	})

	app := &testApp{Router: router, DB: db, Tokens: tokens, Users: users}
	teardown := func() {
		if db != nil {
			db.Close()
		}
	}
	return app, teardown
}

func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

// tokenFor creates a user with the given role and returns a bearer token for it.
func (a *testApp) tokenFor(t *testing.T, role string) string {
	t.Helper()
	u := &data.User{Email: role + "@carlton.test", Name: role, Role: role}
	if err := a.Users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	token, _, err := a.Tokens.Issue(u)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

func apiRequest(method, path, token string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// follow requests the redirect target of rr carrying its cookies, and returns the page body.
func (a *testApp) follow(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	req := httptest.NewRequest(http.MethodGet, rr.Header().Get("Location"), nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	next := a.do(t, req)
	if next.Code != http.StatusOK {
		t.Fatalf("redirect target returned %d", next.Code)
	}
	return next.Body.String()
}

func TestPublicPages(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()

	tests := []struct {
		path string
		code int
		want string
	}{
		{"/", http.StatusOK, `Carlton <span class="accent">Madagascar</span>`},
		{"/rooms", http.StatusOK, `href="/rooms/superior"`},
		{"/rooms/superior", http.StatusOK, `action="/rooms/superior/book"`},
		{"/restaurants", http.StatusOK, "Restaurants"},
		{"/events", http.StatusOK, "Events"},
		{"/wellness", http.StatusOK, "Wellness"},
		{"/gallery", http.StatusOK, "gallery-grid"},
		{"/contact", http.StatusOK, `action="/contact"`},
		{"/rooms/penthouse", http.StatusNotFound, "Room not found"},
		{"/p/missing", http.StatusNotFound, "Page not found"},
		{"/no/such/page", http.StatusNotFound, "404"},
		{"/healthz", http.StatusOK, `"database":true`},
		{"/robots.txt", http.StatusOK, "Sitemap: https://carlton.test/sitemap.xml"},
		{"/sitemap.xml", http.StatusOK, "<loc>https://carlton.test/rooms/superior</loc>"},
		{"/static/js/parallax.js", http.StatusOK, "IntersectionObserver"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := app.do(t, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rr.Code != tt.code {
				t.Fatalf("expected status %d, got %d", tt.code, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Errorf("body does not contain %q", tt.want)
			}
		})
	}
}

func TestReducedMotion(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()

	rr := app.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rr.Body.String(), "data-parallax") {
		t.Error("expected parallax layers by default")
	}

	rr = app.do(t, httptest.NewRequest(http.MethodGet, "/?motion=reduced", nil))
	body := rr.Body.String()
	if strings.Contains(body, "data-parallax") || strings.Contains(body, "parallax.js") {
		t.Error("reduced motion should render static heroes without the parallax script")
	}
}

func TestContactForm(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()

	rr := app.do(t, formRequest("/contact", url.Values{
		"name":    {"Hery"},
		"email":   {"hery@example.mg"},
		"message": {"Do you have a shuttle from the airport?"},
	}))
	if loc := rr.Header().Get("Location"); loc != "/contact" {
		t.Errorf("expected redirect to /contact, got %q", loc)
	}
	if body := app.follow(t, rr); !strings.Contains(body, "toast-success") {
		t.Error("expected a success toast after sending a message")
	}

	var count int
	if err := app.DB.Get(&count, "SELECT COUNT(*) FROM contact_messages"); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 stored message, got %d", count)
	}

	rr = app.do(t, formRequest("/contact", url.Values{"name": {"Hery"}, "email": {"nope"}}))
	body := app.follow(t, rr)
	if !strings.Contains(body, "toast-error") || !strings.Contains(body, "email must be a valid email address") {
		t.Error("expected a validation toast naming the email field")
	}
}

func TestBookingForm(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()

	checkIn := time.Now().AddDate(0, 0, 14)
	rr := app.do(t, formRequest("/rooms/superior/book", url.Values{
		"name":      {"Voahangy Rakoto"},
		"email":     {"voahangy@example.mg"},
		"check_in":  {checkIn.Format(time.DateOnly)},
		"check_out": {checkIn.AddDate(0, 0, 3).Format(time.DateOnly)},
		"guests":    {"2"},
	}))
	if loc := rr.Header().Get("Location"); loc != "/rooms/superior" {
		t.Errorf("expected redirect back to the room, got %q", loc)
	}
	if body := app.follow(t, rr); !strings.Contains(body, "has been received") {
		t.Error("expected a confirmation toast")
	}

	var status string
	if err := app.DB.Get(&status, "SELECT status FROM bookings"); err != nil {
		t.Fatalf("booking not stored: %v", err)
	}
	if status != data.BookingPending {
		t.Errorf("expected a pending booking, got %q", status)
	}

	rr = app.do(t, formRequest("/rooms/superior/book", url.Values{
		"name":      {"Voahangy Rakoto"},
		"email":     {"voahangy@example.mg"},
		"check_in":  {checkIn.Format(time.DateOnly)},
		"check_out": {checkIn.Format(time.DateOnly)},
		"guests":    {"2"},
	}))
	if body := app.follow(t, rr); !strings.Contains(body, "toast-error") {
		t.Error("expected a validation toast for a zero-night stay")
	}
}

func TestFormRateLimit(t *testing.T) {
	app, teardown := setupTest(t, appOptions{rps: 0.001, burst: 1})
	defer teardown()

	form := url.Values{"name": {"A"}, "email": {"a@example.mg"}, "message": {"Hello"}}
	first := app.do(t, formRequest("/contact", form))
	if body := app.follow(t, first); !strings.Contains(body, "toast-success") {
		t.Fatal("first submission should pass")
	}

	req := formRequest("/contact", form)
	req.Header.Set("Referer", "/contact")
	second := app.do(t, req)
	if body := app.follow(t, second); !strings.Contains(body, "Too many submissions") {
		t.Error("second submission should be rate limited")
	}

	req = formRequest("/contact", form)
	req.Header.Set("Referer", "//evil.example/phish")
	if loc := app.do(t, req).Header().Get("Location"); loc != "/" {
		t.Errorf("foreign referer should redirect home, got %q", loc)
	}
}

func TestAPIAuthorization(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()

	editor := app.tokenFor(t, data.RoleEditor)
	admin := app.tokenFor(t, data.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		code   int
	}{
		{"anonymous", http.MethodGet, "/api/pages", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/pages", "not-a-token", http.StatusUnauthorized},
		{"editor pages", http.MethodGet, "/api/pages", editor, http.StatusOK},
		{"editor rooms read", http.MethodGet, "/api/rooms", editor, http.StatusOK},
		{"editor rooms write", http.MethodPost, "/api/rooms", editor, http.StatusForbidden},
		{"editor bookings", http.MethodGet, "/api/bookings", editor, http.StatusForbidden},
		{"editor messages", http.MethodGet, "/api/messages", editor, http.StatusForbidden},
		{"admin bookings", http.MethodGet, "/api/bookings", admin, http.StatusOK},
		{"admin messages", http.MethodGet, "/api/messages", admin, http.StatusOK},
		{"me", http.MethodGet, "/api/auth/me", editor, http.StatusOK},
		{"unknown endpoint", http.MethodGet, "/api/nothing", admin, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, apiRequest(tt.method, tt.path, tt.token, nil))
			if rr.Code != tt.code {
				t.Errorf("%s %s: expected %d, got %d: %s", tt.method, tt.path, tt.code, rr.Code, rr.Body.String())
			}
		})
	}

	// Demotions apply to tokens already issued.
	if _, err := app.DB.Exec(app.DB.Rebind(`UPDATE users SET role = ? WHERE email = ?`), data.RoleEditor, "admin@carlton.test"); err != nil {
		t.Fatalf("demoting admin: %v", err)
	}
	if rr := app.do(t, apiRequest(http.MethodGet, "/api/bookings", admin, nil)); rr.Code != http.StatusForbidden {
		t.Errorf("demoted admin: expected 403, got %d", rr.Code)
	}
}

func TestAPIPagesAndSections(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()
	editor := app.tokenFor(t, data.RoleEditor)

	rr := app.do(t, apiRequest(http.MethodPost, "/api/pages", editor, map[string]interface{}{
		"title": "Airport Transfers", "body": "We meet you at **Ivato**.", "published": true,
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create page: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var page data.Page
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if page.Slug != "airport-transfers" {
		t.Errorf("expected a slug from the title, got %q", page.Slug)
	}

	rr = app.do(t, httptest.NewRequest(http.MethodGet, "/p/airport-transfers", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<strong>Ivato</strong>") {
		t.Errorf("published page should render its markdown, got %d", rr.Code)
	}

	// A page named after a site page overrides that page's sections.
	rr = app.do(t, apiRequest(http.MethodPost, "/api/pages", editor, map[string]interface{}{
		"slug": "home", "title": "Carlton Madagascar", "published": false,
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create home page: expected 201, got %d", rr.Code)
	}
	var home data.Page
	_ = json.NewDecoder(rr.Body).Decode(&home)
	path := "/api/pages/" + itoa(home.ID) + "/sections"
	rr = app.do(t, apiRequest(http.MethodPost, path, editor, map[string]interface{}{
		"key": "hero", "title": "Season of <v>jacarandas</v>", "visible": true,
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create section: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = app.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rr.Body.String(), `Season of <span class="accent">jacarandas</span>`) {
		t.Error("hero section should override the home hero title")
	}

	rr = app.do(t, apiRequest(http.MethodPost, "/api/pages", editor, map[string]interface{}{"title": ""}))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for an empty title, got %d", rr.Code)
	}
	rr = app.do(t, apiRequest(http.MethodPost, "/api/pages", editor, map[string]interface{}{"title": "x", "bogus": 1}))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown fields, got %d", rr.Code)
	}
	rr = app.do(t, apiRequest(http.MethodGet, "/api/pages/abc", editor, nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad id, got %d", rr.Code)
	}
	rr = app.do(t, apiRequest(http.MethodGet, "/api/pages/9999", editor, nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing page, got %d", rr.Code)
	}
}

func TestAPIRoomsAndBookings(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()
	admin := app.tokenFor(t, data.RoleAdmin)

	rr := app.do(t, apiRequest(http.MethodGet, "/api/rooms", admin, nil))
	var rooms []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&rooms); err != nil {
		t.Fatal(err)
	}
	if len(rooms) == 0 {
		t.Fatal("expected rooms seeded from content")
	}
	if _, ok := rooms[0]["amenities"].([]interface{}); !ok {
		t.Errorf("amenities should be a list, got %T", rooms[0]["amenities"])
	}

	checkIn := time.Now().AddDate(0, 0, 7)
	app.do(t, formRequest("/rooms/superior/book", url.Values{
		"name": {"Guest"}, "email": {"guest@example.mg"}, "guests": {"1"},
		"check_in":  {checkIn.Format(time.DateOnly)},
		"check_out": {checkIn.AddDate(0, 0, 2).Format(time.DateOnly)},
	}))

	rr = app.do(t, apiRequest(http.MethodGet, "/api/bookings?status=pending", admin, nil))
	var bookings []data.Booking
	if err := json.NewDecoder(rr.Body).Decode(&bookings); err != nil || len(bookings) != 1 {
		t.Fatalf("expected one pending booking, got %d (%v)", len(bookings), err)
	}

	rr = app.do(t, apiRequest(http.MethodGet, "/api/bookings/ref/"+bookings[0].Reference, admin, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("lookup by reference: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = app.do(t, apiRequest(http.MethodGet, "/api/bookings/ref/"+bookings[0].Reference, app.tokenFor(t, data.RoleEditor), nil))
	if rr.Code != http.StatusForbidden {
		t.Errorf("editor lookup by reference: expected 403, got %d", rr.Code)
	}

	rr = app.do(t, apiRequest(http.MethodPut, "/api/bookings/"+itoa(bookings[0].ID), admin,
		map[string]string{"status": data.BookingConfirmed}))
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm booking: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = app.do(t, apiRequest(http.MethodGet, "/api/bookings/export.xlsx", admin, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("unexpected export content type %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")) {
		t.Error("export should be a zip container")
	}

	rr = app.do(t, apiRequest(http.MethodGet, "/api/bookings?status=lost", admin, nil))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for an unknown status filter, got %d", rr.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app, teardown := setupTest(t, appOptions{})
	defer teardown()

	first := map[string]string{"email": "owner@carlton.test", "name": "Owner", "password": "correct horse"}
	rr := app.do(t, apiRequest(http.MethodPost, "/api/auth/register", "", first))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first registration: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var res tokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Token == "" || res.User.Role != data.RoleAdmin {
		t.Errorf("first account should be an admin with a token, got role %q", res.User.Role)
	}

	second := map[string]string{"email": "someone@carlton.test", "name": "Someone", "password": "long enough"}
	rr = app.do(t, apiRequest(http.MethodPost, "/api/auth/register", "", second))
	if rr.Code != http.StatusForbidden {
		t.Errorf("self registration should be closed, got %d", rr.Code)
	}

	second["role"] = data.RoleEditor
	rr = app.do(t, apiRequest(http.MethodPost, "/api/auth/register", res.Token, second))
	if rr.Code != http.StatusCreated {
		t.Fatalf("admin registration: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = app.do(t, apiRequest(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "SOMEONE@carlton.test", "password": "long enough",
	}))
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rr.Code)
	}
	rr = app.do(t, apiRequest(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "someone@carlton.test", "password": "wrong password",
	}))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", rr.Code)
	}

	rr = app.do(t, apiRequest(http.MethodGet, "/api/auth/oidc/login", "", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("sso without configuration: expected 404, got %d", rr.Code)
	}
}

func TestDegradedMode(t *testing.T) {
	app, teardown := setupTest(t, appOptions{degraded: true})
	defer teardown()

	for _, path := range []string{"/", "/rooms", "/rooms/superior", "/gallery", "/sitemap.xml", "/admin/login"} {
		rr := app.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200 without a database, got %d", path, rr.Code)
		}
	}

	rr := app.do(t, apiRequest(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.c", "password": "x"}))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("API without a database: expected 503, got %d", rr.Code)
	}

	rr = app.do(t, formRequest("/contact", url.Values{"name": {"A"}, "email": {"a@example.mg"}, "message": {"Hi"}}))
	if body := app.follow(t, rr); !strings.Contains(body, "toast-info") {
		t.Error("contact form without a database should explain it is unavailable")
	}

	rr = app.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if !strings.Contains(rr.Body.String(), `"database":false`) {
		t.Error("health check should report the missing database")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

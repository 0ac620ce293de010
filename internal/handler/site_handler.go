package handler

import (
	"carlton/internal/content"
	"carlton/internal/data"
	"carlton/internal/logger"
	"carlton/internal/metrics"
	"carlton/internal/middleware"
	"carlton/internal/service"
	"carlton/internal/session"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// SiteHandler serves the public pages and their forms.
type SiteHandler struct {
	site     *service.SiteService
	bookings *service.BookingService
	contact  *service.ContactService
	view     middleware.Renderer
	sessions session.Manager
	log      logger.Logger
}

// NewSiteHandler creates a new SiteHandler with the given dependencies.
func NewSiteHandler(site *service.SiteService, bookings *service.BookingService, contact *service.ContactService, v middleware.Renderer, sm session.Manager, log logger.Logger) *SiteHandler {
	return &SiteHandler{
		site:     site,
		bookings: bookings,
		contact:  contact,
		view:     v,
		sessions: sm,
		log:      log,
	}
}

func (h *SiteHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) *middleware.AppError {
	data["Site"] = h.site.Site()
	if err := h.view.Render(w, r, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

func lookupError(err error, what string) *middleware.AppError {
	if errors.Is(err, data.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: what + " not found", Code: http.StatusNotFound}
	}
	return &middleware.AppError{Error: err, Message: "Failed to load " + strings.ToLower(what), Code: http.StatusInternalServerError}
}

// staticPage renders one of the static pages with its template.
func (h *SiteHandler) staticPage(slug, tmpl string) middleware.AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		view, err := h.site.Page(r.Context(), slug)
		if err != nil {
			return lookupError(err, "Page")
		}
		return h.render(w, r, tmpl, map[string]interface{}{
			"Page":    view.Page,
			"Rooms":   view.Rooms,
			"Gallery": view.Gallery,
		})
	}
}

// galleryHandler renders the gallery, optionally filtered by ?category=.
func (h *SiteHandler) galleryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	view, err := h.site.Page(r.Context(), "gallery")
	if err != nil {
		return lookupError(err, "Page")
	}
	category := r.URL.Query().Get("category")
	seen := map[string]bool{}
	var categories []string
	images := make([]content.GalleryImage, 0, len(view.Gallery))
	for _, img := range view.Gallery {
		if img.Category != "" && !seen[img.Category] {
			seen[img.Category] = true
			categories = append(categories, img.Category)
		}
		if category == "" || img.Category == category {
			images = append(images, img)
		}
	}
	sort.Strings(categories)
	return h.render(w, r, "gallery.html", map[string]interface{}{
		"Page":       view.Page,
		"Gallery":    images,
		"Categories": categories,
		"Category":   category,
	})
}

// roomHandler renders a room detail page with its booking form.
func (h *SiteHandler) roomHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	room, err := h.site.Room(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return lookupError(err, "Room")
	}
	return h.render(w, r, "room.html", map[string]interface{}{
		"Room":       room,
		"MaxNights":  service.MaxStayNights,
		"GuestRange": guestRange(room.Capacity),
	})
}

func guestRange(capacity int) []int {
	out := make([]int, 0, capacity)
	for i := 1; i <= capacity; i++ {
		out = append(out, i)
	}
	return out
}

// cmsPageHandler renders a published CMS page.
func (h *SiteHandler) cmsPageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.site.CMSPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return lookupError(err, "Page")
	}
	return h.render(w, r, "page.html", map[string]interface{}{"CMS": page})
}

// notFoundHandler renders the 404 page for unknown paths.
func (h *SiteHandler) notFoundHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return &middleware.AppError{Error: data.ErrNotFound, Message: "We could not find that page.", Code: http.StatusNotFound}
}

// bookHandler takes a booking request from a room page (Post/Redirect/Get).
func (h *SiteHandler) bookHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	back := "/rooms/" + slug
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, back, session.FlashError, "We could not read your request. Please try again.")
		return
	}
	guests, _ := strconv.Atoi(r.PostForm.Get("guests"))
	b, err := h.bookings.RequestBooking(r.Context(), service.BookingRequest{
		RoomSlug:   slug,
		GuestName:  r.PostForm.Get("name"),
		GuestEmail: r.PostForm.Get("email"),
		GuestPhone: r.PostForm.Get("phone"),
		CheckIn:    r.PostForm.Get("check_in"),
		CheckOut:   r.PostForm.Get("check_out"),
		Guests:     guests,
		Notes:      r.PostForm.Get("notes"),
	})
	if err != nil {
		h.formFailure(w, r, "booking", back, err,
			"Online booking is unavailable at the moment. Please call or email us to reserve.")
		return
	}
	metrics.ObserveSubmission("booking", "accepted")
	h.flashRedirect(w, r, back, session.FlashSuccess,
		"Thank you, "+b.GuestName+". Your request "+shortRef(b.Reference)+" has been received and we will confirm it by email.")
}

// contactHandler stores a contact form message (Post/Redirect/Get).
func (h *SiteHandler) contactHandler(w http.ResponseWriter, r *http.Request) {
	const back = "/contact"
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, back, session.FlashError, "We could not read your message. Please try again.")
		return
	}
	_, err := h.contact.SendMessage(r.Context(), service.ContactInput{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Subject: r.PostForm.Get("subject"),
		Message: r.PostForm.Get("message"),
	})
	if err != nil {
		h.formFailure(w, r, "contact", back, err,
			"The contact form is unavailable at the moment. Please write to us by email.")
		return
	}
	metrics.ObserveSubmission("contact", "accepted")
	h.flashRedirect(w, r, back, session.FlashSuccess, "Thank you for your message. We reply within one business day.")
}

func (h *SiteHandler) formFailure(w http.ResponseWriter, r *http.Request, form, back string, err error, unavailable string) {
	if ve, ok := service.IsValidation(err); ok {
		metrics.ObserveSubmission(form, "invalid")
		h.flashRedirect(w, r, back, session.FlashError, "Please check the form: "+validationSummary(ve))
		return
	}
	if errors.Is(err, service.ErrUnavailable) {
		metrics.ObserveSubmission(form, "unavailable")
		h.flashRedirect(w, r, back, session.FlashInfo, unavailable)
		return
	}
	metrics.ObserveSubmission(form, "error")
	h.log.Error(err, "Failed to store "+form+" form")
	h.flashRedirect(w, r, back, session.FlashError, "Something went wrong. Please try again later.")
}

// rateLimited answers form posts over the client's budget.
func (h *SiteHandler) rateLimited(w http.ResponseWriter, r *http.Request) {
	back := r.Header.Get("Referer")
	local := strings.HasPrefix(back, "/") && !strings.HasPrefix(back, "//")
	if !local && !sameHost(r, back) {
		back = "/"
	}
	metrics.ObserveSubmission("form", "rate_limited")
	h.flashRedirect(w, r, back, session.FlashError, "Too many submissions. Please wait a moment and try again.")
}

func (h *SiteHandler) flashRedirect(w http.ResponseWriter, r *http.Request, to, kind, msg string) {
	session.PutFlash(h.sessions, r.Context(), kind, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func validationSummary(ve *service.ValidationError) string {
	fields := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, strings.ReplaceAll(f, "_", " ")+" "+ve.Fields[f])
	}
	return strings.Join(parts, "; ") + "."
}

func shortRef(ref string) string {
	if len(ref) > 8 {
		return strings.ToUpper(ref[:8])
	}
	return strings.ToUpper(ref)
}

func sameHost(r *http.Request, ref string) bool {
	return strings.HasPrefix(ref, "http://"+r.Host+"/") || strings.HasPrefix(ref, "https://"+r.Host+"/")
}

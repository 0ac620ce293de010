package handler

import (
	"bytes"
	"carlton/internal/data"
	"carlton/internal/logger"
	"carlton/internal/middleware"
	"carlton/internal/service"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 1 << 20

// APIHandler serves the JSON admin API.
type APIHandler struct {
	pages    *service.PageService
	sections *service.SectionService
	gallery  *service.GalleryService
	rooms    *service.RoomService
	bookings *service.BookingService
	contact  *service.ContactService
	log      logger.Logger
}

// APIServices groups the services behind the admin API.
type APIServices struct {
	Pages    *service.PageService
	Sections *service.SectionService
	Gallery  *service.GalleryService
	Rooms    *service.RoomService
	Bookings *service.BookingService
	Contact  *service.ContactService
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(s APIServices, log logger.Logger) *APIHandler {
	return &APIHandler{
		pages:    s.Pages,
		sections: s.Sections,
		gallery:  s.Gallery,
		rooms:    s.Rooms,
		bookings: s.Bookings,
		contact:  s.Contact,
		log:      log,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		middleware.WriteProblem(w, http.StatusBadRequest, "Malformed JSON body", err.Error())
		return false
	}
	return true
}

// idParam parses the {id} URL parameter, answering 400 itself on failure.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteProblem(w, http.StatusBadRequest, "Invalid id", fmt.Sprintf("%q is not a valid id", chi.URLParam(r, "id")))
		return 0, false
	}
	return id, true
}

func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	middleware.WriteError(w, h.log, err)
}

// --- pages ---

func (h *APIHandler) listPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.ListPages(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (h *APIHandler) createPage(w http.ResponseWriter, r *http.Request) {
	var in service.PageInput
	if !decodeJSON(w, r, &in) {
		return
	}
	page, err := h.pages.CreatePage(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

func (h *APIHandler) getPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	page, err := h.pages.GetPage(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *APIHandler) updatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.PageInput
	if !decodeJSON(w, r, &in) {
		return
	}
	page, err := h.pages.UpdatePage(r.Context(), id, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *APIHandler) deletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.pages.DeletePage(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- sections ---

func (h *APIHandler) listSections(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sections, err := h.sections.ListSections(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (h *APIHandler) createSection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.SectionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	section, err := h.sections.CreateSection(r.Context(), id, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, section)
}

func (h *APIHandler) updateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.SectionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	section, err := h.sections.UpdateSection(r.Context(), id, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *APIHandler) deleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.sections.DeleteSection(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- gallery ---

func (h *APIHandler) listImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.gallery.ListImages(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func (h *APIHandler) createImage(w http.ResponseWriter, r *http.Request) {
	var in service.GalleryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	img, err := h.gallery.CreateImage(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (h *APIHandler) getImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	img, err := h.gallery.GetImage(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (h *APIHandler) updateImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.GalleryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	img, err := h.gallery.UpdateImage(r.Context(), id, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (h *APIHandler) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.gallery.DeleteImage(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- rooms ---

// roomJSON exposes amenities as a list, matching RoomInput.
type roomJSON struct {
	*data.Room
	Amenities []string `json:"amenities"`
}

func toRoomJSON(r *data.Room) roomJSON {
	list := r.AmenityList()
	if list == nil {
		list = []string{}
	}
	return roomJSON{Room: r, Amenities: list}
}

func (h *APIHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]roomJSON, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomJSON(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	var in service.RoomInput
	if !decodeJSON(w, r, &in) {
		return
	}
	room, err := h.rooms.CreateRoom(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomJSON(room))
}

func (h *APIHandler) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	room, err := h.rooms.GetRoom(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomJSON(room))
}

func (h *APIHandler) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.RoomInput
	if !decodeJSON(w, r, &in) {
		return
	}
	room, err := h.rooms.UpdateRoom(r.Context(), id, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomJSON(room))
}

func (h *APIHandler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.rooms.DeleteRoom(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- bookings ---

func (h *APIHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListBookings(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *APIHandler) exportBookings(w http.ResponseWriter, r *http.Request) {
	// Render into memory first so failures can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.bookings.ExportBookings(r.Context(), r.URL.Query().Get("status"), &buf); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (h *APIHandler) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	b, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *APIHandler) getBookingByReference(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.GetBookingByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *APIHandler) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in service.BookingUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.bookings.UpdateBooking(r.Context(), id, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *APIHandler) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.bookings.DeleteBooking(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- messages ---

func (h *APIHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contact.ListMessages(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *APIHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.contact.DeleteMessage(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

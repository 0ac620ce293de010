//go:build unit

package service

import (
	"carlton/internal/data"
	"context"
	"fmt"
	"sort"
	"time"
)

// mockPageRepository is an in-memory PageRepository.
type mockPageRepository struct {
	pages  map[int64]*data.Page
	nextID int64
	err    error
}

var _ PageRepository = (*mockPageRepository)(nil)

func newMockPageRepository(pages ...*data.Page) *mockPageRepository {
	m := &mockPageRepository{pages: map[int64]*data.Page{}}
	for _, p := range pages {
		m.nextID++
		p.ID = m.nextID
		m.pages[p.ID] = p
	}
	return m
}

func (m *mockPageRepository) CreatePage(_ context.Context, page *data.Page) error {
	if m.err != nil {
		return m.err
	}
	for _, p := range m.pages {
		if p.Slug == page.Slug {
			return fmt.Errorf("slug taken: %w", data.ErrConflict)
		}
	}
	m.nextID++
	page.ID = m.nextID
	cp := *page
	m.pages[page.ID] = &cp
	return nil
}

func (m *mockPageRepository) GetPageBySlug(_ context.Context, slug string) (*data.Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pages {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockPageRepository) GetPageByID(_ context.Context, id int64) (*data.Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.pages[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPageRepository) ListPages(_ context.Context, publishedOnly bool) ([]*data.Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*data.Page{}
	for _, p := range m.pages {
		if !publishedOnly || p.Published {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *mockPageRepository) UpdatePage(_ context.Context, page *data.Page) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.pages[page.ID]; !ok {
		return data.ErrNotFound
	}
	cp := *page
	m.pages[page.ID] = &cp
	return nil
}

func (m *mockPageRepository) DeletePage(_ context.Context, id int64) error {
	if _, ok := m.pages[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.pages, id)
	return nil
}

// mockSectionRepository is an in-memory SectionRepository. Slugs of pages
// are resolved through the page repository it is given.
type mockSectionRepository struct {
	sections map[int64]*data.Section
	pages    *mockPageRepository
	nextID   int64
}

var _ SectionRepository = (*mockSectionRepository)(nil)

func newMockSectionRepository(pages *mockPageRepository) *mockSectionRepository {
	return &mockSectionRepository{sections: map[int64]*data.Section{}, pages: pages}
}

func (m *mockSectionRepository) CreateSection(_ context.Context, s *data.Section) error {
	for _, existing := range m.sections {
		if existing.PageID == s.PageID && existing.Key == s.Key {
			return data.ErrConflict
		}
	}
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.sections[s.ID] = &cp
	return nil
}

func (m *mockSectionRepository) GetSectionByID(_ context.Context, id int64) (*data.Section, error) {
	s, ok := m.sections[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSectionRepository) ListSectionsByPage(_ context.Context, pageID int64) ([]*data.Section, error) {
	out := []*data.Section{}
	for _, s := range m.sections {
		if s.PageID == pageID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *mockSectionRepository) ListVisibleSectionsBySlug(ctx context.Context, slug string) ([]*data.Section, error) {
	page, err := m.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return []*data.Section{}, nil
	}
	all, _ := m.ListSectionsByPage(ctx, page.ID)
	out := []*data.Section{}
	for _, s := range all {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSectionRepository) UpdateSection(_ context.Context, s *data.Section) error {
	if _, ok := m.sections[s.ID]; !ok {
		return data.ErrNotFound
	}
	cp := *s
	m.sections[s.ID] = &cp
	return nil
}

func (m *mockSectionRepository) DeleteSection(_ context.Context, id int64) error {
	if _, ok := m.sections[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.sections, id)
	return nil
}

// mockRoomRepository is an in-memory RoomRepository.
type mockRoomRepository struct {
	rooms       map[int64]*data.Room
	nextID      int64
	listCalls   int
	createCalls int
}

var _ RoomRepository = (*mockRoomRepository)(nil)

func newMockRoomRepository(rooms ...*data.Room) *mockRoomRepository {
	m := &mockRoomRepository{rooms: map[int64]*data.Room{}}
	for _, r := range rooms {
		m.nextID++
		r.ID = m.nextID
		m.rooms[r.ID] = r
	}
	return m
}

func (m *mockRoomRepository) CreateRoom(_ context.Context, room *data.Room) error {
	m.createCalls++
	m.nextID++
	room.ID = m.nextID
	cp := *room
	m.rooms[room.ID] = &cp
	return nil
}

func (m *mockRoomRepository) GetRoomByID(_ context.Context, id int64) (*data.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRoomRepository) GetRoomBySlug(_ context.Context, slug string) (*data.Room, error) {
	for _, r := range m.rooms {
		if r.Slug == slug {
			cp := *r
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockRoomRepository) ListRooms(_ context.Context, availableOnly bool) ([]*data.Room, error) {
	m.listCalls++
	out := []*data.Room{}
	for _, r := range m.rooms {
		if !availableOnly || r.Available {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *mockRoomRepository) UpdateRoom(_ context.Context, room *data.Room) error {
	if _, ok := m.rooms[room.ID]; !ok {
		return data.ErrNotFound
	}
	cp := *room
	m.rooms[room.ID] = &cp
	return nil
}

func (m *mockRoomRepository) DeleteRoom(_ context.Context, id int64) error {
	if _, ok := m.rooms[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.rooms, id)
	return nil
}

// mockBookingRepository is an in-memory BookingRepository.
type mockBookingRepository struct {
	bookings map[int64]*data.Booking
	nextID   int64
}

var _ BookingRepository = (*mockBookingRepository)(nil)

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: map[int64]*data.Booking{}}
}

func (m *mockBookingRepository) CreateBooking(_ context.Context, b *data.Booking) error {
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *mockBookingRepository) GetBookingByID(_ context.Context, id int64) (*data.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepository) GetBookingByReference(_ context.Context, ref string) (*data.Booking, error) {
	for _, b := range m.bookings {
		if b.Reference == ref {
			cp := *b
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockBookingRepository) ListBookings(_ context.Context, status string) ([]*data.Booking, error) {
	out := []*data.Booking{}
	for _, b := range m.bookings {
		if status == "" || b.Status == status {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockBookingRepository) UpdateBooking(_ context.Context, b *data.Booking) error {
	if _, ok := m.bookings[b.ID]; !ok {
		return data.ErrNotFound
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *mockBookingRepository) DeleteBooking(_ context.Context, id int64) error {
	if _, ok := m.bookings[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

// mockUserRepository is an in-memory UserRepository.
type mockUserRepository struct {
	users  map[int64]*data.User
	nextID int64
}

var _ UserRepository = (*mockUserRepository)(nil)

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[int64]*data.User{}}
}

func (m *mockUserRepository) CreateUser(_ context.Context, u *data.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return data.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepository) GetUserByID(_ context.Context, id int64) (*data.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepository) GetUserByEmail(_ context.Context, email string) (*data.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockUserRepository) CountUsers(context.Context) (int, error) {
	return len(m.users), nil
}

// mockContactRepository is an in-memory ContactRepository.
type mockContactRepository struct {
	messages []*data.ContactMessage
}

var _ ContactRepository = (*mockContactRepository)(nil)

func (m *mockContactRepository) CreateMessage(_ context.Context, msg *data.ContactMessage) error {
	msg.ID = int64(len(m.messages) + 1)
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockContactRepository) ListMessages(context.Context) ([]*data.ContactMessage, error) {
	return m.messages, nil
}

func (m *mockContactRepository) DeleteMessage(_ context.Context, id int64) error {
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return data.ErrNotFound
}

// recordingInvalidator remembers what was invalidated.
type recordingInvalidator struct {
	calls int
	slugs []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, slugs ...string) {
	r.calls++
	r.slugs = append(r.slugs, slugs...)
}

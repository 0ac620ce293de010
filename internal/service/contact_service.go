package service

import (
	"carlton/internal/data"
	"context"
	"strings"
)

// ContactRepository defines the interface for database operations on contact messages.
type ContactRepository interface {
	CreateMessage(ctx context.Context, m *data.ContactMessage) error
	ListMessages(ctx context.Context) ([]*data.ContactMessage, error)
	DeleteMessage(ctx context.Context, id int64) error
}

// ContactInput is what a visitor submits from the contact page.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ContactService stores contact form messages.
type ContactService struct {
	repo ContactRepository
}

// NewContactService creates a new ContactService. A nil repo means no database.
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// SendMessage validates and stores a message.
func (s *ContactService) SendMessage(ctx context.Context, in ContactInput) (*data.ContactMessage, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	m := &data.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}

	var v ValidationError
	if m.Name == "" {
		v.add("name", "is required")
	}
	if !validEmail(m.Email) {
		v.add("email", "must be a valid email address")
	}
	if len(m.Subject) > 200 {
		v.add("subject", "must be at most 200 characters")
	}
	if m.Message == "" {
		v.add("message", "is required")
	} else if len(m.Message) > 5000 {
		v.add("message", "must be at most 5000 characters")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns received messages, newest first.
func (s *ContactService) ListMessages(ctx context.Context) ([]*data.ContactMessage, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.ListMessages(ctx)
}

// DeleteMessage removes a message.
func (s *ContactService) DeleteMessage(ctx context.Context, id int64) error {
	if s.repo == nil {
		return ErrUnavailable
	}
	return s.repo.DeleteMessage(ctx, id)
}

package service

import (
	"carlton/internal/auth"
	"carlton/internal/data"
	"context"
	"errors"
	"strings"
)

// UserRepository defines the interface for database operations on users.
type UserRepository interface {
	CreateUser(ctx context.Context, u *data.User) error
	GetUserByID(ctx context.Context, id int64) (*data.User, error)
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// RegisterInput holds the fields of a new admin panel account.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserService manages admin panel accounts.
type UserService struct {
	repo              UserRepository
	allowRegistration bool
}

// NewUserService creates a new UserService. A nil repo means no database.
func NewUserService(repo UserRepository, allowRegistration bool) *UserService {
	return &UserService{repo: repo, allowRegistration: allowRegistration}
}

func (in *RegisterInput) validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	var v ValidationError
	if !validEmail(in.Email) {
		v.add("email", "must be a valid email address")
	}
	if in.Name == "" {
		in.Name = in.Email
	}
	if len(in.Password) < auth.MinPasswordLength {
		v.add("password", "must be at least 8 characters")
	} else if len(in.Password) > 72 {
		v.add("password", "must be at most 72 bytes")
	}
	if in.Role != "" && in.Role != data.RoleAdmin && in.Role != data.RoleEditor {
		v.add("role", "must be admin or editor")
	}
	return v.err()
}

// Register creates an account. The first account is always an admin. After
// that, self registration needs allow_registration and yields an editor;
// an admin (byAdmin) may register accounts of either role at any time.
func (s *UserService) Register(ctx context.Context, in RegisterInput, byAdmin bool) (*data.User, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	role, err := s.roleForNewUser(ctx, byAdmin)
	if err != nil {
		return nil, err
	}
	if byAdmin && in.Role != "" {
		role = in.Role
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &data.User{Email: in.Email, Name: in.Name, PasswordHash: hash, Role: role}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateAdmin creates an admin account unconditionally. It backs the create-admin command.
func (s *UserService) CreateAdmin(ctx context.Context, in RegisterInput) (*data.User, error) {
	in.Role = data.RoleAdmin
	return s.Register(ctx, in, true)
}

// Login checks an email and password pair.
func (s *UserService) Login(ctx context.Context, email, password string) (*data.User, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	// SSO-only accounts have no password.
	if u.PasswordHash == "" || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser returns an account by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*data.User, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.GetUserByID(ctx, id)
}

// CurrentRole returns the role an account holds now.
func (s *UserService) CurrentRole(ctx context.Context, id int64) (string, error) {
	if s.repo == nil {
		return "", ErrUnavailable
	}
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// FindOrCreateOIDCUser returns the account matching a verified SSO identity,
// creating it under the same rules as self registration.
func (s *UserService) FindOrCreateOIDCUser(ctx context.Context, id *auth.Identity) (*data.User, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	// Accounts are matched by email, so an unverified address could claim one.
	if !id.EmailVerified {
		return nil, ErrInvalidCredentials
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, data.ErrNotFound) {
		return nil, err
	}

	role, err := s.roleForNewUser(ctx, false)
	if err != nil {
		return nil, err
	}
	u = &data.User{Email: email, Name: strings.TrimSpace(id.Name), Role: role}
	if u.Name == "" {
		u.Name = email
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) roleForNewUser(ctx context.Context, byAdmin bool) (string, error) {
	n, err := s.repo.CountUsers(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return data.RoleAdmin, nil
	}
	if !byAdmin && !s.allowRegistration {
		return "", ErrRegistrationClosed
	}
	return data.RoleEditor, nil
}

package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service handles registration and login. Passwords are stored as bcrypt
// hashes; a successful register or login returns a signed token so the
// client is authenticated immediately.
type Service struct {
	users  Repository
	tokens TokenIssuer
	now    func() time.Time
}

// NewService creates a user Service with the required dependencies.
func NewService(users Repository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now}
}

// Register validates the input, hashes the password, creates the user, and
// returns a token for the fresh account.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, *User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return "", nil, ErrMissingFields
	}
	if len(password) < 6 {
		return "", nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, errors.Wrap(err, "hash password")
	}

	u := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, errors.Wrap(err, "create user")
	}

	token, err := s.tokens.Issue(u.Email, u.Name)
	if err != nil {
		return "", nil, errors.Wrap(err, "issue token")
	}
	return token, u, nil
}

// Login verifies the credentials and returns a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, errors.Wrap(err, "get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.Email, u.Name)
	if err != nil {
		return "", nil, errors.Wrap(err, "issue token")
	}
	return token, u, nil
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

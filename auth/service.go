package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sihmcb/backend/models"
	"github.com/sihmcb/backend/repository"
)

// Service orchestrates credential lookup, password verification and token
// issuance. It holds no mutable state between requests.
type Service struct {
	users  repository.UserRepository
	tokens *TokenIssuer
}

// NewService wires the auth service to its credential store and token issuer.
func NewService(users repository.UserRepository, tokens *TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// LoginResult carries the issued token and the public projection of the
// authenticated user.
type LoginResult struct {
	Token string
	User  models.PublicUser
}

// RegisterInput is the data needed to create a new user.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

// Login verifies a username/password pair and issues a bearer token.
// Unknown user, wrong password and inactive account all collapse into
// ErrInvalidCredentials so the response cannot be used for enumeration.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{Token: token, User: user.Public()}, nil
}

// ResolveToken maps a bearer token back to the public projection of its
// subject. Any token problem surfaces as ErrInvalidToken (or its expired
// refinement); a vanished or deactivated subject as ErrInvalidCredentials.
func (s *Service) ResolveToken(ctx context.Context, tokenString string) (*models.PublicUser, error) {
	subject, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	pub := user.Public()
	return &pub, nil
}

// Register creates a new user record with a hashed password. The existence
// pre-check is a fast path only; the unique index in the store settles
// concurrent registrations.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateRegisterInput(in); err != nil {
		return "", err
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return "", ErrAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = "user"
	}
	now := time.Now().UTC()
	id, err := s.users.Insert(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return "", ErrAlreadyExists
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return id, nil
}

// EnsureSeedAdmin creates the bootstrap admin row if it does not exist yet.
// It is a no-op when the username is already taken.
func (s *Service) EnsureSeedAdmin(ctx context.Context, username, password string) error {
	_, err := s.Register(ctx, RegisterInput{
		Username: username,
		Password: password,
		Role:     "admin",
	})
	if errors.Is(err, ErrAlreadyExists) {
		return nil
	}
	return err
}

func validateRegisterInput(in RegisterInput) error {
	if n := len(in.Username); n < 3 || n > 50 {
		return fmt.Errorf("%w: username must be 3-50 characters", ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	// bcrypt rejects inputs longer than 72 bytes.
	if len(in.Password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 characters", ErrInvalidInput)
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
		}
	}
	return nil
}

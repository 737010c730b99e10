package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"safeschool/internal/models"
	"safeschool/internal/repository"
	"safeschool/internal/security"
	"safeschool/internal/validation"
)

var (
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles teacher account registration and sign-in
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *security.TokenManager
	email    *EmailService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenManager, email *EmailService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		email:    email,
	}
}

// SignUp creates a new teacher account
func (s *AuthService) SignUp(phoneNumber, email, password, name string) (*models.User, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidatePhone(phoneNumber); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByPhone(phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	existing, err = s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(phoneNumber, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Welcome email is best effort and must not block registration
	if s.email != nil {
		go func() {
			if err := s.email.SendWelcomeEmail(context.Background(), user.EmailAddress, user.Name); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", user.EmailAddress, err)
			}
		}()
	}

	return user, nil
}

// SignIn authenticates a teacher and returns a bearer token
func (s *AuthService) SignIn(phoneNumber, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetUserByPhone(strings.TrimSpace(phoneNumber))
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// SignInOAuth finds or creates the account for an OAuth identity and returns
// a bearer token. An existing account with the same email is linked to the
// provider on first use.
func (s *AuthService) SignInOAuth(provider, subject, email, name string) (string, *models.User, error) {
	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	if user == nil && email != "" {
		existing, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return "", nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
		if existing != nil {
			if err := s.userRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
				return "", nil, fmt.Errorf("failed to link oauth identity: %w", err)
			}
			user = existing
		}
	}

	if user == nil {
		// OAuth accounts have no password or phone number of their own
		user, err = s.userRepo.CreateUser("", email, "", name)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
		if err := s.userRepo.LinkOAuthProvider(user.ID, provider, subject); err != nil {
			return "", nil, fmt.Errorf("failed to link oauth identity: %w", err)
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// GetUser returns the account for a validated token subject
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ValidateToken checks a bearer token and returns the user it belongs to
func (s *AuthService) ValidateToken(token string) (*models.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return s.GetUser(userID)
}

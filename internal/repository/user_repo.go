package repository

import (
	"database/sql"
	"fmt"
	"time"

	"safeschool/internal/database"
	"safeschool/internal/models"

	"github.com/google/uuid"
)

// UserRepository handles database operations for teacher accounts
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user into the database
func (r *UserRepository) CreateUser(phoneNumber, email, passwordHash, name string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		PhoneNumber:  phoneNumber,
		EmailAddress: email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (id, phone_number, email_address, password_hash, name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, user.ID, user.PhoneNumber, user.EmailAddress, user.PasswordHash, user.Name, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByPhone retrieves a user by phone number
func (r *UserRepository) GetUserByPhone(phoneNumber string) (*models.User, error) {
	query := `
		SELECT id, phone_number, email_address, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at
		FROM users
		WHERE phone_number = ?
	`
	return r.scanUser(r.db.QueryRow(query, phoneNumber))
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, phone_number, email_address, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at
		FROM users
		WHERE email_address = ?
	`
	return r.scanUser(r.db.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	query := `
		SELECT id, phone_number, email_address, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at
		FROM users
		WHERE id = ?
	`
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetUserByOAuth retrieves a user by OAuth provider and subject
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := `
		SELECT id, phone_number, email_address, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at
		FROM users
		WHERE oauth_provider = ? AND oauth_subject = ?
	`
	return r.scanUser(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider links an existing user to an OAuth provider
func (r *UserRepository) LinkOAuthProvider(userID, provider, subject string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?
		WHERE id = ?
		AND (oauth_provider IS NULL OR oauth_provider = '')
	`
	result, err := r.db.Exec(query, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("oauth provider already linked")
	}

	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.Name,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

package repository

import (
	"database/sql"
	"fmt"

	"safeschool/internal/database"
	"safeschool/internal/models"
)

// LinkRepository handles database operations for game links
type LinkRepository struct {
	db *database.DB
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *database.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// CreateLink inserts a new link into the database
func (r *LinkRepository) CreateLink(link *models.Link) error {
	query := `
		INSERT INTO links (id, code, user_id, game_name, school_num, class, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, link.ID, link.Code, link.UserID, link.GameName, link.SchoolNum, link.Class, link.Comment, link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

// GetLinkByCode retrieves a link by its access code
func (r *LinkRepository) GetLinkByCode(code string) (*models.Link, error) {
	query := `
		SELECT id, code, user_id, game_name, school_num, class, comment, created_at
		FROM links
		WHERE code = ?
	`
	return r.scanLink(r.db.QueryRow(query, code))
}

// GetLinksByUser retrieves all links created by a user, newest first
func (r *LinkRepository) GetLinksByUser(userID string) ([]models.Link, error) {
	query := `
		SELECT id, code, user_id, game_name, school_num, class, comment, created_at
		FROM links
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(
			&link.ID,
			&link.Code,
			&link.UserID,
			&link.GameName,
			&link.SchoolNum,
			&link.Class,
			&link.Comment,
			&link.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	return links, nil
}

// DeleteLink removes a link owned by the given user
func (r *LinkRepository) DeleteLink(userID, linkID string) error {
	query := "DELETE FROM links WHERE id = ? AND user_id = ?"
	result, err := r.db.Exec(query, linkID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// CodeExists reports whether an access code is already taken
func (r *LinkRepository) CodeExists(code string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM links WHERE code = ?"
	if err := r.db.QueryRow(query, code).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return count > 0, nil
}

func (r *LinkRepository) scanLink(row *sql.Row) (*models.Link, error) {
	link := &models.Link{}
	err := row.Scan(
		&link.ID,
		&link.Code,
		&link.UserID,
		&link.GameName,
		&link.SchoolNum,
		&link.Class,
		&link.Comment,
		&link.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

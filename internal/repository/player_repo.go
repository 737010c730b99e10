package repository

import (
	"database/sql"
	"fmt"
	"time"

	"safeschool/internal/database"
	"safeschool/internal/models"
)

// PlayerRepository handles database operations for player registrations
type PlayerRepository struct {
	db *database.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer inserts a new player registration
func (r *PlayerRepository) CreatePlayer(player *models.Player) error {
	query := `
		INSERT INTO players (id, game_id, game_name, game_code, full_name, stars, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, player.ID, player.GameID, player.GameName, player.GameCode, player.FullName, player.Stars, player.Score, player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GetPlayerByID retrieves a player by ID
func (r *PlayerRepository) GetPlayerByID(id string) (*models.Player, error) {
	query := `
		SELECT id, game_id, game_name, game_code, full_name, stars, score, created_at, finished_at
		FROM players
		WHERE id = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, id))
}

// GetPlayersByCode retrieves all players registered against an access code,
// newest first
func (r *PlayerRepository) GetPlayersByCode(code string) ([]models.Player, error) {
	query := `
		SELECT id, game_id, game_name, game_code, full_name, stars, score, created_at, finished_at
		FROM players
		WHERE game_code = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var player models.Player
		if err := rows.Scan(
			&player.ID,
			&player.GameID,
			&player.GameName,
			&player.GameCode,
			&player.FullName,
			&player.Stars,
			&player.Score,
			&player.CreatedAt,
			&player.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, nil
}

// RecordResult stores a finished player's stars and score
func (r *PlayerRepository) RecordResult(id string, stars, score int, finishedAt time.Time) error {
	query := `
		UPDATE players
		SET stars = ?, score = ?, finished_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, stars, score, finishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read result update: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *PlayerRepository) scanPlayer(row *sql.Row) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID,
		&player.GameID,
		&player.GameName,
		&player.GameCode,
		&player.FullName,
		&player.Stars,
		&player.Score,
		&player.CreatedAt,
		&player.FinishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"safeschool/internal/database"
	"safeschool/internal/models"
)

// userExport carries the fields the User JSON tags hide from API clients
type userExport struct {
	models.User
	PasswordHash  string `json:"password_hash"`
	OAuthProvider string `json:"oauth_provider"`
	OAuthSubject  string `json:"oauth_subject"`
}

// backupFile is the on-disk shape, with full user records
type backupFile struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Users      []userExport    `json:"users"`
	Links      []models.Link   `json:"links"`
	Players    []models.Player `json:"players"`
}

// BackupService exports and imports the full dataset as JSON
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes all users, links and players to a JSON file
func (s *BackupService) Export(outputPath string) error {
	data := backupFile{
		Version:    "1",
		ExportedAt: time.Now(),
	}

	users, err := s.exportUsers()
	if err != nil {
		return err
	}
	data.Users = users

	links, err := s.exportLinks()
	if err != nil {
		return err
	}
	data.Links = links

	players, err := s.exportPlayers()
	if err != nil {
		return err
	}
	data.Players = players

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	log.Printf("Exported %d users, %d links, %d players", len(data.Users), len(data.Links), len(data.Players))
	return nil
}

// Import loads a backup file into the database. Records whose IDs already
// exist are skipped, so an import merges rather than overwrites.
func (s *BackupService) Import(inputPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var data backupFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	imported := 0
	for _, user := range data.Users {
		ok, err := s.importUser(user)
		if err != nil {
			return err
		}
		if ok {
			imported++
		}
	}
	log.Printf("Imported %d of %d users", imported, len(data.Users))

	imported = 0
	for _, link := range data.Links {
		ok, err := s.importRow(
			"links",
			link.ID,
			`INSERT INTO links (id, code, user_id, game_name, school_num, class, comment, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			link.ID, link.Code, link.UserID, link.GameName, link.SchoolNum, link.Class, link.Comment, link.CreatedAt,
		)
		if err != nil {
			return err
		}
		if ok {
			imported++
		}
	}
	log.Printf("Imported %d of %d links", imported, len(data.Links))

	imported = 0
	for _, player := range data.Players {
		ok, err := s.importRow(
			"players",
			player.ID,
			`INSERT INTO players (id, game_id, game_name, game_code, full_name, stars, score, created_at, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			player.ID, player.GameID, player.GameName, player.GameCode, player.FullName, player.Stars, player.Score, player.CreatedAt, player.FinishedAt,
		)
		if err != nil {
			return err
		}
		if ok {
			imported++
		}
	}
	log.Printf("Imported %d of %d players", imported, len(data.Players))

	return nil
}

func (s *BackupService) exportUsers() ([]userExport, error) {
	rows, err := s.db.Query(`
		SELECT id, phone_number, email_address, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at
		FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	defer rows.Close()

	var users []userExport
	for rows.Next() {
		var u userExport
		if err := rows.Scan(&u.ID, &u.PhoneNumber, &u.EmailAddress, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *BackupService) exportLinks() ([]models.Link, error) {
	rows, err := s.db.Query(`
		SELECT id, code, user_id, game_name, school_num, class, comment, created_at
		FROM links ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to export links: %w", err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.Code, &l.UserID, &l.GameName, &l.SchoolNum, &l.Class, &l.Comment, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, nil
}

func (s *BackupService) exportPlayers() ([]models.Player, error) {
	rows, err := s.db.Query(`
		SELECT id, game_id, game_name, game_code, full_name, stars, score, created_at, finished_at
		FROM players ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to export players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.GameID, &p.GameName, &p.GameCode, &p.FullName, &p.Stars, &p.Score, &p.CreatedAt, &p.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, nil
}

func (s *BackupService) importUser(user userExport) (bool, error) {
	return s.importRow(
		"users",
		user.ID,
		`INSERT INTO users (id, phone_number, email_address, password_hash, name, oauth_provider, oauth_subject, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.PhoneNumber, user.EmailAddress, user.PasswordHash, user.Name, user.OAuthProvider, user.OAuthSubject, user.CreatedAt,
	)
}

// importRow inserts a record unless its ID is already present
func (s *BackupService) importRow(table, id, insertQuery string, args ...interface{}) (bool, error) {
	var count int
	existsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table)
	if err := s.db.QueryRow(existsQuery, id).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", table, id, err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.db.Exec(insertQuery, args...); err != nil {
		return false, fmt.Errorf("failed to import into %s: %w", table, err)
	}
	return true, nil
}

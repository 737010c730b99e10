package kvstore

import (
	"database/sql"

	"safeschool/internal/database"
)

// SQLStore persists session values in the game_kv table so sessions survive
// restarts and work across replicas.
type SQLStore struct {
	db *database.DB
}

// NewSQLStore creates a Store backed by the shared database connection
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(scope, key string) (string, bool, error) {
	query := "SELECT value FROM game_kv WHERE scope = ? AND name = ?"

	var value string
	err := s.db.QueryRow(query, scope, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Set(scope, key, value string) error {
	_, err := s.db.Exec(s.db.Dialect.UpsertSessionValueQuery(), scope, key, value)
	return err
}

func (s *SQLStore) Remove(scope, key string) error {
	query := "DELETE FROM game_kv WHERE scope = ? AND name = ?"
	_, err := s.db.Exec(query, scope, key)
	return err
}

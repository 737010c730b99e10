package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"safeschool/internal/game"
	"safeschool/internal/models"
	"safeschool/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCodeNotFound    = errors.New("access code not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrAlreadyFinished = errors.New("result already recorded")
)

// GameService handles player registration and result recording. It backs
// both the public game endpoints and the session engine.
type GameService struct {
	linkRepo   *repository.LinkRepository
	playerRepo *repository.PlayerRepository
}

// NewGameService creates a new game service
func NewGameService(linkRepo *repository.LinkRepository, playerRepo *repository.PlayerRepository) *GameService {
	return &GameService{
		linkRepo:   linkRepo,
		playerRepo: playerRepo,
	}
}

// CheckLink resolves an access code to its link, or ErrCodeNotFound
func (s *GameService) CheckLink(code string) (*models.Link, error) {
	link, err := s.linkRepo.GetLinkByCode(strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrCodeNotFound
	}
	return link, nil
}

// RegisterPlayer registers a student against an access code
func (s *GameService) RegisterPlayer(ctx context.Context, code, fullName string) (*models.Player, error) {
	link, err := s.CheckLink(code)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		ID:        uuid.NewString(),
		GameID:    link.ID,
		GameName:  link.GameName,
		GameCode:  link.Code,
		FullName:  strings.TrimSpace(fullName),
		CreatedAt: time.Now(),
	}
	if player.FullName == "" {
		return nil, errors.New("full name is required")
	}
	if !game.KnownGame(link.GameName) {
		return nil, fmt.Errorf("link %s references an unknown game %q", link.Code, link.GameName)
	}

	if err := s.playerRepo.CreatePlayer(player); err != nil {
		return nil, err
	}
	return player, nil
}

// RecordResult stores a player's final stars and score. A result can only be
// recorded once.
func (s *GameService) RecordResult(ctx context.Context, playerID string, stars, score int) (*models.Player, error) {
	player, err := s.playerRepo.GetPlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if player.Finished() {
		return nil, ErrAlreadyFinished
	}

	finishedAt := time.Now()
	if err := s.playerRepo.RecordResult(playerID, stars, score, finishedAt); err != nil {
		return nil, err
	}

	player.Stars = stars
	player.Score = score
	player.FinishedAt = &finishedAt
	return player, nil
}

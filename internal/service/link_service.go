package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"safeschool/internal/game"
	"safeschool/internal/models"
	"safeschool/internal/repository"
	"safeschool/internal/security"

	"github.com/google/uuid"
)

var (
	ErrUnknownGameName = errors.New("unknown game name")
	ErrLinkNotFound    = errors.New("link not found")
)

// codeAttempts bounds the retry loop on access code collisions
const codeAttempts = 5

// LinkService handles game link creation and statistics
type LinkService struct {
	linkRepo   *repository.LinkRepository
	playerRepo *repository.PlayerRepository
}

// NewLinkService creates a new link service
func NewLinkService(linkRepo *repository.LinkRepository, playerRepo *repository.PlayerRepository) *LinkService {
	return &LinkService{
		linkRepo:   linkRepo,
		playerRepo: playerRepo,
	}
}

// CreateLink creates a shareable game link with a fresh access code
func (s *LinkService) CreateLink(userID, gameName, schoolNum, class, comment string) (*models.Link, error) {
	gameName = strings.TrimSpace(gameName)
	if !game.KnownGame(gameName) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGameName, gameName)
	}

	code, err := s.uniqueCode()
	if err != nil {
		return nil, err
	}

	link := &models.Link{
		ID:        uuid.NewString(),
		Code:      code,
		UserID:    userID,
		GameName:  gameName,
		SchoolNum: strings.TrimSpace(schoolNum),
		Class:     strings.TrimSpace(class),
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now(),
	}

	if err := s.linkRepo.CreateLink(link); err != nil {
		return nil, err
	}
	return link, nil
}

// GetLinks returns all links created by a teacher, newest first
func (s *LinkService) GetLinks(userID string) ([]models.Link, error) {
	links, err := s.linkRepo.GetLinksByUser(userID)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []models.Link{}
	}
	return links, nil
}

// GetLink returns one of the teacher's links by access code
func (s *LinkService) GetLink(userID, code string) (*models.Link, error) {
	link, err := s.linkRepo.GetLinkByCode(code)
	if err != nil {
		return nil, err
	}
	if link == nil || link.UserID != userID {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

// GetStats returns the player results recorded against one of the teacher's
// links
func (s *LinkService) GetStats(userID, code string) ([]models.Player, error) {
	if _, err := s.GetLink(userID, code); err != nil {
		return nil, err
	}

	players, err := s.playerRepo.GetPlayersByCode(code)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

// DeleteLink removes one of the teacher's links by access code, along with
// the player results recorded against it.
func (s *LinkService) DeleteLink(userID, code string) error {
	link, err := s.GetLink(userID, code)
	if err != nil {
		return err
	}

	if err := s.linkRepo.DeleteLink(userID, link.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLinkNotFound
		}
		return err
	}
	return nil
}

func (s *LinkService) uniqueCode() (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := security.GenerateAccessCode()
		if err != nil {
			return "", err
		}
		taken, err := s.linkRepo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique access code")
}

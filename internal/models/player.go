package models

import "time"

// Player is one student's registration against a link. Stars and score stay
// zero until the finish call records the session result.
type Player struct {
	ID         string     `json:"id"`
	GameID     string     `json:"game_id"`
	GameName   string     `json:"game_name"`
	GameCode   string     `json:"game_code"`
	FullName   string     `json:"full_name"`
	Stars      int        `json:"stars"`
	Score      int        `json:"score"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Finished reports whether the player's result has been recorded.
func (p *Player) Finished() bool {
	return p.FinishedAt != nil
}

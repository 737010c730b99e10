package models

import "time"

// Link is a shareable game invitation created by a teacher. Students open
// the game with the link's access code; results are attached to the code.
type Link struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	UserID    string    `json:"user_id"`
	GameName  string    `json:"game_name"`
	SchoolNum string    `json:"school_num"`
	Class     string    `json:"class"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

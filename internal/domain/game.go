package domain

import "time"

// GameResult - исход партии
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLose GameResult = "lose"
)

// GameHistory - запись истории игры
type GameHistory struct {
	ID         int64                  `db:"id" json:"id"`
	PlayerID   int64                  `db:"player_id" json:"player_id"`
	Difficulty string                 `db:"difficulty" json:"difficulty"`
	Result     GameResult             `db:"result" json:"result"`
	Elapsed    int                    `db:"elapsed_seconds" json:"elapsed_seconds"`
	Details    map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}

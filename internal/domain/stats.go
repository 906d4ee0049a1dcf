package domain

import "time"

// PlayerStats - агрегированная статистика игрока. BestTime is unset while Wins is 0.
type PlayerStats struct {
	PlayerID   int64     `db:"player_id" json:"player_id"`
	Wins       int       `db:"wins" json:"wins"`
	Losses     int       `db:"losses" json:"losses"`
	BestTime   int       `db:"best_time" json:"best_time"`
	TotalGames int       `db:"total_games" json:"total_games"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

package domain

import "time"

// DefaultLeaderboardSize is how many entries each difficulty keeps.
const DefaultLeaderboardSize = 20

// LeaderboardEntry - одна запись таблицы рекордов
type LeaderboardEntry struct {
	ID         string    `db:"id" json:"id"`
	PlayerID   int64     `db:"player_id" json:"player_id"`
	PlayerName string    `db:"player_name" json:"player_name"`
	Difficulty string    `db:"difficulty" json:"difficulty"`
	Time       int       `db:"time_seconds" json:"time"`
	Mines      int       `db:"mines" json:"mines"`
	Date       time.Time `db:"created_at" json:"date"`
}

type SortField string

const (
	SortByTime SortField = "time"
	SortByDate SortField = "date"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// LeaderboardFilter selects entries for listing. An empty Difficulty means
// every difficulty.
type LeaderboardFilter struct {
	Difficulty string
	Limit      int
	SortBy     SortField
	Direction  SortDirection
}

// DefaultLeaderboardFilter - fastest times first, ten rows
func DefaultLeaderboardFilter() LeaderboardFilter {
	return LeaderboardFilter{Limit: 10, SortBy: SortByTime, Direction: SortAsc}
}

// Normalize fills in defaults for unset or unknown fields.
func (f LeaderboardFilter) Normalize() LeaderboardFilter {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.SortBy != SortByDate {
		f.SortBy = SortByTime
	}
	if f.Direction != SortDesc {
		f.Direction = SortAsc
	}
	return f
}

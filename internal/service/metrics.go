package service

import "github.com/prometheus/client_golang/prometheus"

var (
	GamesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_games_started_total",
			Help: "Games started, by difficulty",
		},
		[]string{"difficulty"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_games_finished_total",
			Help: "Games won or lost, by difficulty",
		},
		[]string{"difficulty", "result"},
	)
	GameDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minesweeper_game_elapsed_seconds",
			Help:    "Game clock at the end of finished games",
			Buckets: []float64{5, 10, 20, 40, 60, 120, 240, 480, 999},
		},
		[]string{"difficulty", "result"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "minesweeper_active_sessions",
			Help: "Sessions held in memory",
		},
	)
	LeaderboardRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_leaderboard_entries_total",
			Help: "Wins that made it onto a leaderboard",
		},
		[]string{"difficulty"},
	)
)

func init() {
	prometheus.MustRegister(GamesStarted)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(GameDuration)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(LeaderboardRecords)
}

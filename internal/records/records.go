// Package records flattens fetched and derived data into the export rows.
package records

import (
	"github.com/srcstats/speedpull/internal/srcom"
	"github.com/srcstats/speedpull/internal/stats"
)

// RunRecord is one output row. Field order is the CSV column order.
type RunRecord struct {
	RunID                    string  `csv:"run_id"`
	GameID                   string  `csv:"game_id"`
	GameName                 string  `csv:"game_name"`
	GameReleaseYear          int     `csv:"game_release_year"`
	CategoryID               string  `csv:"category_id"`
	CategoryName             string  `csv:"category_name"`
	TimeSeconds              float64 `csv:"time_seconds"`
	DateSubmitted            string  `csv:"date_submitted"`
	PlayerID                 string  `csv:"player_id"`
	PlayerName               string  `csv:"player_name"`
	IsWR                     int     `csv:"is_wr"`
	Rank                     int     `csv:"rank"`
	TotalRunnersInCategory   int     `csv:"total_runners_in_category"`
	VideoLink                string  `csv:"video_link"`
	HasVideo                 int     `csv:"has_video"`
	Platform                 string  `csv:"platform"`
	Emulated                 int     `csv:"emulated"`
	PlayerTotalRuns          int     `csv:"player_total_runs"`
	PlayerTotalGames         int     `csv:"player_total_games"`
	PlayerTotalCategories    int     `csv:"player_total_categories"`
	PlayerAvgTimeImprovement float64 `csv:"player_avg_time_improvement"`
	PlayerDaysActive         int     `csv:"player_days_active"`
	RunCommentLength         int     `csv:"run_comment_length"`
	HasComment               int     `csv:"has_comment"`
}

// Assemble joins one run with its game metadata, category leaderboard
// snapshot and the player's per-game statistics into a flat RunRecord.
// Deterministic, no I/O.
func Assemble(gameID string, game srcom.GameInfo, run srcom.RunData, board []srcom.LeaderboardEntry, playerStats stats.PlayerStats) RunRecord {
	isWR := 0
	if len(board) > 0 && board[0].RunID == run.ID {
		isWR = 1
	}

	// Rank is the 1-based position in the snapshot, 0 when absent. Runs
	// outside the top 100 are never in the snapshot.
	rank := 0
	for i, entry := range board {
		if entry.RunID == run.ID {
			rank = i + 1
			break
		}
	}

	return RunRecord{
		RunID:                    run.ID,
		GameID:                   gameID,
		GameName:                 game.Name,
		GameReleaseYear:          game.ReleaseYear,
		CategoryID:               run.CategoryID,
		CategoryName:             run.CategoryName,
		TimeSeconds:              run.TimeSeconds,
		DateSubmitted:            run.Submitted,
		PlayerID:                 run.PlayerID,
		PlayerName:               run.PlayerName,
		IsWR:                     isWR,
		Rank:                     rank,
		TotalRunnersInCategory:   len(board),
		VideoLink:                run.VideoLink,
		HasVideo:                 boolFlag(run.VideoLink != ""),
		Platform:                 run.Platform,
		Emulated:                 boolFlag(run.Emulated),
		PlayerTotalRuns:          playerStats.TotalRuns,
		PlayerTotalGames:         playerStats.UniqueGames,
		PlayerTotalCategories:    playerStats.UniqueCategories,
		PlayerAvgTimeImprovement: playerStats.AvgTimeImprovement,
		PlayerDaysActive:         playerStats.DaysActive,
		RunCommentLength:         len([]rune(run.Comment)),
		HasComment:               boolFlag(run.Comment != ""),
	}
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

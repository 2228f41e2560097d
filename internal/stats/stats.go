// Package stats derives per-player summary statistics from one game's run
// list. The aggregator only ever sees a single game's runs, so every figure
// is scoped to that game.
package stats

import (
	"sort"
	"time"

	"github.com/srcstats/speedpull/internal/srcom"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// PlayerStats summarizes one player's activity within a single game.
type PlayerStats struct {
	TotalRuns          int
	UniqueGames        int
	UniqueCategories   int
	AvgTimeImprovement float64 // seconds, 0 when no improvement pairs exist
	DaysActive         int
}

// CalculatePlayerStats computes per-player statistics from a game's full run
// list, keyed by player id.
//
// UniqueGames counts distinct run ids, not games: the aggregator is scoped to
// one game, and the column is kept this way for compatibility with existing
// exports of this dataset.
func CalculatePlayerStats(runs []srcom.RunData) map[string]PlayerStats {
	byPlayer := make(map[string][]srcom.RunData)
	for _, run := range runs {
		byPlayer[run.PlayerID] = append(byPlayer[run.PlayerID], run)
	}

	result := make(map[string]PlayerStats, len(byPlayer))
	for playerID, playerRuns := range byPlayer {
		ordered := make([]srcom.RunData, len(playerRuns))
		copy(ordered, playerRuns)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Submitted < ordered[j].Submitted
		})

		runIDs := make(map[string]struct{})
		categories := make(map[string]struct{})
		for _, run := range ordered {
			runIDs[run.ID] = struct{}{}
			categories[run.CategoryID] = struct{}{}
		}

		result[playerID] = PlayerStats{
			TotalRuns:          len(ordered),
			UniqueGames:        len(runIDs),
			UniqueCategories:   len(categories),
			AvgTimeImprovement: avgTimeImprovement(ordered),
			DaysActive:         daysActive(ordered),
		}
	}

	return result
}

// avgTimeImprovement averages the strictly positive time drops between
// consecutive submissions within each category. Regressions and ties
// contribute nothing.
func avgTimeImprovement(ordered []srcom.RunData) float64 {
	byCategory := make(map[string][]srcom.RunData)
	for _, run := range ordered {
		byCategory[run.CategoryID] = append(byCategory[run.CategoryID], run)
	}

	var sum float64
	var count int
	for _, catRuns := range byCategory {
		sort.SliceStable(catRuns, func(i, j int) bool {
			return catRuns[i].Submitted < catRuns[j].Submitted
		})
		for i := 1; i < len(catRuns); i++ {
			improvement := catRuns[i-1].TimeSeconds - catRuns[i].TimeSeconds
			if improvement > 0 {
				sum += improvement
				count++
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// daysActive is the whole-day span between a player's first and last
// submission. Runs without a submission date count as submitted now, and any
// parse failure collapses the span to 0.
func daysActive(ordered []srcom.RunData) int {
	if len(ordered) < 2 {
		return 0
	}

	first, err := parseSubmitted(ordered[0].Submitted)
	if err != nil {
		return 0
	}
	last, err := parseSubmitted(ordered[len(ordered)-1].Submitted)
	if err != nil {
		return 0
	}

	days := int(last.Sub(first).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func parseSubmitted(submitted string) (time.Time, error) {
	if submitted == "" {
		return timeNow(), nil
	}
	return time.Parse(time.RFC3339, submitted)
}

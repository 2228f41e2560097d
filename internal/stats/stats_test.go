package stats

import (
	"testing"
	"time"

	"github.com/srcstats/speedpull/internal/srcom"
)

func run(id, category, player, submitted string, seconds float64) srcom.RunData {
	return srcom.RunData{
		ID:          id,
		CategoryID:  category,
		PlayerID:    player,
		Submitted:   submitted,
		TimeSeconds: seconds,
	}
}

func TestAvgTimeImprovement(t *testing.T) {
	// Submission-ordered times 120, 110, 115, 100: improvements are
	// 120->110 (10) and 115->100 (15); the 110->115 regression is excluded.
	runs := []srcom.RunData{
		run("r1", "c1", "p1", "2023-01-01T00:00:00Z", 120.0),
		run("r2", "c1", "p1", "2023-01-02T00:00:00Z", 110.0),
		run("r3", "c1", "p1", "2023-01-03T00:00:00Z", 115.0),
		run("r4", "c1", "p1", "2023-01-04T00:00:00Z", 100.0),
	}

	result := CalculatePlayerStats(runs)

	got := result["p1"].AvgTimeImprovement
	if got != 12.5 {
		t.Errorf("expected average improvement 12.5, got %v", got)
	}
}

func TestAvgTimeImprovement_PerCategory(t *testing.T) {
	// Improvements never cross category boundaries.
	runs := []srcom.RunData{
		run("r1", "c1", "p1", "2023-01-01T00:00:00Z", 100.0),
		run("r2", "c2", "p1", "2023-01-02T00:00:00Z", 50.0),
		run("r3", "c1", "p1", "2023-01-03T00:00:00Z", 90.0),
		run("r4", "c2", "p1", "2023-01-04T00:00:00Z", 45.0),
	}

	result := CalculatePlayerStats(runs)

	// c1: 100->90 = 10; c2: 50->45 = 5; average 7.5.
	if got := result["p1"].AvgTimeImprovement; got != 7.5 {
		t.Errorf("expected 7.5, got %v", got)
	}
}

func TestAvgTimeImprovement_NoImprovements(t *testing.T) {
	runs := []srcom.RunData{
		run("r1", "c1", "p1", "2023-01-01T00:00:00Z", 100.0),
		run("r2", "c1", "p1", "2023-01-02T00:00:00Z", 100.0), // tie
		run("r3", "c1", "p1", "2023-01-03T00:00:00Z", 110.0), // regression
	}

	if got := CalculatePlayerStats(runs)["p1"].AvgTimeImprovement; got != 0 {
		t.Errorf("expected 0 with no strict improvements, got %v", got)
	}
}

func TestDaysActive(t *testing.T) {
	runs := []srcom.RunData{
		run("r1", "c1", "p1", "2023-01-01T12:00:00Z", 100.0),
		run("r2", "c1", "p1", "2023-01-11T12:00:00Z", 90.0),
	}

	if got := CalculatePlayerStats(runs)["p1"].DaysActive; got != 10 {
		t.Errorf("expected 10 days active, got %d", got)
	}
}

func TestDaysActive_SingleRun(t *testing.T) {
	runs := []srcom.RunData{run("r1", "c1", "p1", "2023-01-01T12:00:00Z", 100.0)}

	if got := CalculatePlayerStats(runs)["p1"].DaysActive; got != 0 {
		t.Errorf("expected 0 for a single run, got %d", got)
	}
}

func TestDaysActive_UnparseableDate(t *testing.T) {
	runs := []srcom.RunData{
		run("r1", "c1", "p1", "not-a-date", 100.0),
		run("r2", "c1", "p1", "still-not-a-date", 90.0),
	}

	if got := CalculatePlayerStats(runs)["p1"].DaysActive; got != 0 {
		t.Errorf("expected 0 for unparseable dates, got %d", got)
	}
}

func TestDaysActive_AbsentDateUsesNow(t *testing.T) {
	fixed := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	oldNow := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = oldNow }()

	// Empty submitted sorts first; the missing date is treated as "now",
	// which is after the dated run, so the span clamps to 0.
	runs := []srcom.RunData{
		run("r1", "c1", "p1", "", 100.0),
		run("r2", "c1", "p1", "2023-05-22T00:00:00Z", 90.0),
	}

	if got := CalculatePlayerStats(runs)["p1"].DaysActive; got != 0 {
		t.Errorf("expected clamped 0, got %d", got)
	}
}

func TestCounts(t *testing.T) {
	runs := []srcom.RunData{
		run("r1", "c1", "p1", "2023-01-01T00:00:00Z", 100.0),
		run("r2", "c2", "p1", "2023-01-02T00:00:00Z", 50.0),
		run("r3", "c1", "p1", "2023-01-03T00:00:00Z", 95.0),
		run("r4", "c1", "p2", "2023-01-01T00:00:00Z", 80.0),
	}

	result := CalculatePlayerStats(runs)

	p1 := result["p1"]
	if p1.TotalRuns != 3 {
		t.Errorf("expected 3 total runs, got %d", p1.TotalRuns)
	}
	// UniqueGames counts distinct run ids within this game's run set.
	if p1.UniqueGames != 3 {
		t.Errorf("expected 3 distinct run ids, got %d", p1.UniqueGames)
	}
	if p1.UniqueCategories != 2 {
		t.Errorf("expected 2 distinct categories, got %d", p1.UniqueCategories)
	}

	p2 := result["p2"]
	if p2.TotalRuns != 1 || p2.UniqueCategories != 1 {
		t.Errorf("unexpected p2 stats: %+v", p2)
	}

	if len(result) != 2 {
		t.Errorf("expected stats for 2 players, got %d", len(result))
	}
}

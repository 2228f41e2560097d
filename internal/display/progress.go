// Package display prints the user-facing progress lines and final summary.
package display

import (
	"fmt"
	"io"
)

// Reporter writes collection progress in a readable console format.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Intro prints the banner shown before collection starts.
func (r *Reporter) Intro() {
	fmt.Fprintf(r.w, "Starting speedrun data collection...\n\n")
	fmt.Fprintf(r.w, "This may take several minutes due to API rate limiting.\n\n")
}

// GameStart announces the game about to be processed.
func (r *Reporter) GameStart(index, total int, gameID string) {
	fmt.Fprintf(r.w, "[%d/%d] Processing game ID: %s\n", index, total, gameID)
}

// GameName prints the resolved game name.
func (r *Reporter) GameName(name string) {
	fmt.Fprintf(r.w, "  Game: %s\n", name)
}

// CategoriesFound prints the category count for the current game.
func (r *Reporter) CategoriesFound(count int) {
	fmt.Fprintf(r.w, "  Categories found: %d\n", count)
}

// RunsRetrieved prints how many runs were fetched for the current game.
func (r *Reporter) RunsRetrieved(count int) {
	fmt.Fprintf(r.w, "  Runs retrieved: %d\n", count)
}

// ResolvingNames announces the player-name resolution phase.
func (r *Reporter) ResolvingNames() {
	fmt.Fprintf(r.w, "  Fetching player names...\n")
}

// NameProgress prints periodic progress during player-name resolution.
func (r *Reporter) NameProgress(resolved, total int) {
	fmt.Fprintf(r.w, "    Resolved %d/%d player names...\n", resolved, total)
}

// GameError reports a per-game failure; collection continues with the next
// game.
func (r *Reporter) GameError(gameID string, err error) {
	fmt.Fprintf(r.w, "  ERROR processing game %s: %v\n", gameID, err)
}

// PageError reports a halted pagination; partial results are kept.
func (r *Reporter) PageError(err error) {
	fmt.Fprintf(r.w, "    %v\n", err)
}

// GameDone prints the running totals after each game.
func (r *Reporter) GameDone(totalRecords, cachedPlayers int) {
	fmt.Fprintf(r.w, "  Total runs collected so far: %d\n", totalRecords)
	fmt.Fprintf(r.w, "  Unique players cached: %d\n\n", cachedPlayers)
}

// Summary prints the final completion summary.
func (r *Reporter) Summary(totalRecords int, csvPath string) {
	fmt.Fprintf(r.w, "\n=== COMPLETE ===\n")
	fmt.Fprintf(r.w, "Total runs collected: %d\n", totalRecords)
	fmt.Fprintf(r.w, "Exported to: %s\n", csvPath)
}

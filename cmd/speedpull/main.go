// speedpull pulls leaderboard and run metadata from the speedrun.com API for
// a configured list of games, enriches each run with per-player statistics,
// and exports everything as one flat CSV for offline analysis.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/srcstats/speedpull/internal/config"
	"github.com/srcstats/speedpull/internal/display"
	"github.com/srcstats/speedpull/internal/pipeline"
)

func main() {
	// Optional .env lets deployments override settings without flags.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SPEEDPULL_CONFIG"))
	if err != nil {
		log.Printf("Config load failed, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if base := os.Getenv("SPEEDPULL_BASE_URL"); base != "" {
		cfg.API.BaseURL = base
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	reporter := display.NewReporter(os.Stdout)

	p, err := pipeline.New(cfg, reporter)
	if err != nil {
		log.Printf("Failed to initialize pipeline: %v", err)
		waitForEnter()
		return
	}

	if err := p.Run(context.Background()); err != nil {
		log.Printf("Collection stopped early: %v", err)
	}

	fmt.Println("\nPress Enter to exit.")
	waitForEnter()
}

func waitForEnter() {
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

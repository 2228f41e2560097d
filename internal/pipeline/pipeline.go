// Package pipeline drives the whole collection: per-game fetch, enrichment,
// record assembly and the final export. Everything runs on one goroutine;
// the pipeline owns the two process-wide accumulators (the record list and
// the player-name cache inside the resolver).
package pipeline

import (
	"context"
	"log"

	"golang.org/x/time/rate"

	"github.com/srcstats/speedpull/internal/charts"
	"github.com/srcstats/speedpull/internal/config"
	"github.com/srcstats/speedpull/internal/display"
	"github.com/srcstats/speedpull/internal/export"
	"github.com/srcstats/speedpull/internal/players"
	"github.com/srcstats/speedpull/internal/records"
	"github.com/srcstats/speedpull/internal/srcom"
	"github.com/srcstats/speedpull/internal/stats"
)

// Pipeline coordinates the sequential collection run.
type Pipeline struct {
	cfg      *config.Config
	client   *srcom.Client
	resolver *players.Resolver
	reporter *display.Reporter

	// gamePacer spaces out the start of each game's processing.
	gamePacer *rate.Limiter

	// accumulated output rows, append-only, never deduplicated
	recs []records.RunRecord

	// per-game run counts for the summary chart
	gameVolumes []charts.DataPoint
}

// New builds a pipeline from configuration. The config must already be
// validated.
func New(cfg *config.Config, reporter *display.Reporter) (*Pipeline, error) {
	timeout, err := cfg.GetRequestTimeout()
	if err != nil {
		return nil, err
	}
	pageDelay, err := cfg.GetPageDelay()
	if err != nil {
		return nil, err
	}
	userDelay, err := cfg.GetUserLookupDelay()
	if err != nil {
		return nil, err
	}
	gameDelay, err := cfg.GetGameDelay()
	if err != nil {
		return nil, err
	}

	client := srcom.NewClient(srcom.ClientOptions{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         timeout,
		PageDelay:       pageDelay,
		UserLookupDelay: userDelay,
		MaxRuns:         srcom.DefaultMaxRuns,
	})

	policy := players.GuestPolicy{
		MarkerChars: cfg.Players.GuestMarkerChars,
		MaxLen:      cfg.Players.GuestMaxLen,
	}

	gamePacer := rate.NewLimiter(rate.Inf, 1)
	if gameDelay > 0 {
		gamePacer = rate.NewLimiter(rate.Every(gameDelay), 1)
	}

	return &Pipeline{
		cfg:       cfg,
		client:    client,
		resolver:  players.NewResolver(client, policy),
		reporter:  reporter,
		gamePacer: gamePacer,
	}, nil
}

// Run processes every configured game in order, then exports. A game failure
// is logged and the loop moves on; only context cancellation stops the run
// early. The CSV export is attempted regardless of how many games succeeded.
func (p *Pipeline) Run(ctx context.Context) error {
	p.reporter.Intro()

	total := len(p.cfg.Games.IDs)
	for i, gameID := range p.cfg.Games.IDs {
		if err := p.gamePacer.Wait(ctx); err != nil {
			p.export()
			return err
		}

		p.reporter.GameStart(i+1, total, gameID)
		if err := p.processGame(ctx, gameID); err != nil {
			p.reporter.GameError(gameID, err)
			log.Printf("game %s: %v", gameID, err)
		}
		p.reporter.GameDone(len(p.recs), p.resolver.Len())
	}

	p.export()
	p.reporter.Summary(len(p.recs), p.cfg.Output.CSVPath)
	return nil
}

// processGame runs the full per-game flow. Only a categories failure aborts
// the game; everything else degrades to sentinels or partial results.
func (p *Pipeline) processGame(ctx context.Context, gameID string) error {
	game := p.client.GameInfo(ctx, gameID)
	p.reporter.GameName(game.Name)

	categories, err := p.client.Categories(ctx, gameID)
	if err != nil {
		return err
	}
	p.reporter.CategoriesFound(len(categories))

	categoryNames := make(map[string]string, len(categories))
	boards := make(map[string][]srcom.LeaderboardEntry, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
		boards[cat.ID] = p.client.Leaderboard(ctx, gameID, cat.ID)
	}

	runs, err := p.client.AllRuns(ctx, gameID)
	if err != nil {
		// Pagination halted; prior pages are kept.
		p.reporter.PageError(err)
	}
	p.reporter.RunsRetrieved(len(runs))

	for i := range runs {
		if name, ok := categoryNames[runs[i].CategoryID]; ok {
			runs[i].CategoryName = name
		}
	}

	p.resolveNames(ctx, runs)

	playerStats := stats.CalculatePlayerStats(runs)

	for _, run := range runs {
		rec := records.Assemble(gameID, game, run, boards[run.CategoryID], playerStats[run.PlayerID])
		p.recs = append(p.recs, rec)
	}

	p.gameVolumes = append(p.gameVolumes, charts.DataPoint{
		Label: game.Name,
		Value: float64(len(runs)),
	})
	return nil
}

// resolveNames looks up every distinct player id once and backfills the runs'
// display names from the cache.
func (p *Pipeline) resolveNames(ctx context.Context, runs []srcom.RunData) {
	p.reporter.ResolvingNames()

	var distinct []string
	seen := make(map[string]struct{})
	for _, run := range runs {
		if _, ok := seen[run.PlayerID]; ok {
			continue
		}
		seen[run.PlayerID] = struct{}{}
		distinct = append(distinct, run.PlayerID)
	}

	resolved := 0
	for _, playerID := range distinct {
		if p.resolver.Cached(playerID) {
			continue
		}
		p.resolver.Resolve(ctx, playerID)
		resolved++
		if resolved%10 == 0 {
			p.reporter.NameProgress(resolved, len(distinct))
		}
	}

	for i := range runs {
		runs[i].PlayerName = p.resolver.Resolve(ctx, runs[i].PlayerID)
	}
}

// export writes the CSV and the summary chart. The CSV is always attempted;
// chart failures are only logged.
func (p *Pipeline) export() {
	exporter := export.NewExporter(export.Options{
		Format:    export.FormatCSV,
		FilePath:  p.cfg.Output.CSVPath,
		Overwrite: true,
	})
	if err := exporter.Export(p.recs); err != nil {
		log.Printf("CSV export failed: %v", err)
	}

	if p.cfg.Output.ChartPath == "" {
		return
	}
	chartCfg := charts.DefaultChartConfig()
	chartCfg.Title = "Runs collected per game"
	if err := charts.RenderRunVolume(p.gameVolumes, chartCfg, p.cfg.Output.ChartPath); err != nil {
		log.Printf("summary chart failed: %v", err)
	}
}

// Records exposes the accumulated rows, in append order.
func (p *Pipeline) Records() []records.RunRecord {
	return p.recs
}

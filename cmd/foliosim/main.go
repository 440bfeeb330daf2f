package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"foliosim/internal/config"
	"foliosim/internal/engine"
	"foliosim/internal/repository"
	"foliosim/internal/yahoo"
	"foliosim/types"
)

func main() {
	var (
		weightsFlag   = flag.String("weights", "", "portfolio weights, e.g. BTC-USD=60,ETH-USD=40")
		initialFlag   = flag.Float64("initial", 10000, "initial investment")
		policyFlag    = flag.String("policy", "none", "rebalance policy: none, quarterly or annually")
		startFlag     = flag.String("start", "", "range start (YYYY-MM-DD)")
		endFlag       = flag.String("end", "", "range end (YYYY-MM-DD)")
		benchmarkFlag = flag.String("benchmark", "", "benchmark ticker for the correlation metric")
		sourceFlag    = flag.String("source", "", "price source: yahoo or postgres (default from PRICE_SOURCE)")
		nameFlag      = flag.String("name", "Portfolio", "report name")
		csvFlag       = flag.String("csv", "", "write the daily value series to this CSV file")
		monthlyFlag   = flag.String("monthly-csv", "", "write the monthly breakdown to this CSV file")
		chartFlag     = flag.String("chart", "", "write a PNG chart to this file")
		ingestFlag    = flag.Bool("ingest", false, "fetch the weighted tickers from Yahoo and store them in Postgres instead of simulating")
		verboseFlag   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := newLogger(*verboseFlag)
	cfg := config.Load()
	if *sourceFlag != "" {
		cfg.PriceSource = *sourceFlag
	}

	weights, err := parseWeights(*weightsFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -weights")
	}
	policy, err := types.ParseRebalancePolicy(*policyFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -policy")
	}
	start, end, err := parseRange(*startFlag, *endFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid range")
	}

	if *ingestFlag {
		if err := ingest(context.Background(), cfg, log, weights.Tickers(), *benchmarkFlag, start, end); err != nil {
			log.Fatal().Err(err).Msg("ingest failed")
		}
		return
	}

	sim := engine.NewSimulationConfig(weights, *initialFlag, policy, start, end)
	if *benchmarkFlag != "" {
		sim = sim.WithBenchmark(*benchmarkFlag)
	}
	reporting := engine.NewReportingConfig(*nameFlag, *csvFlag, *monthlyFlag, *chartFlag)

	ctx := context.Background()
	source, cleanup, err := newPriceSource(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.PriceSource).Msg("price source unavailable")
	}
	defer cleanup()

	eng := engine.NewEngine(source, sim, reporting, log)
	result, err := eng.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
	if err := eng.WriteReports(result); err != nil {
		log.Fatal().Err(err).Msg("report export failed")
	}
}

// ingest downloads daily closes from Yahoo for every weighted ticker
// (and the benchmark, stored as an index asset) and upserts them into
// the Postgres price store for later -source postgres runs.
func ingest(ctx context.Context, cfg config.Config, log zerolog.Logger, tickers []string, benchmark string, start, end time.Time) error {
	db, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	client := yahoo.NewClient(log)
	for _, ticker := range tickers {
		if err := ingestTicker(ctx, &db, client, log, ticker, assetTypeFor(ticker), start, end); err != nil {
			return err
		}
	}
	if benchmark != "" {
		if err := ingestTicker(ctx, &db, client, log, benchmark, types.AssetTypeIndex, start, end); err != nil {
			return err
		}
	}
	return nil
}

func ingestTicker(ctx context.Context, db *repository.Database, client *yahoo.Client, log zerolog.Logger, ticker string, assetType types.AssetType, start, end time.Time) error {
	closes, err := client.GetDailyCloses(ctx, ticker, start, end)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", ticker, err)
	}
	saved, err := db.SaveDailyCloses(ctx, ticker, assetType, closes)
	if err != nil {
		return err
	}
	log.Info().Str("ticker", ticker).Int("closes", saved).Msg("ingested")
	return nil
}

// assetTypeFor guesses an asset type from the Yahoo ticker convention:
// crypto pairs carry a -USD suffix, everything else is stored as a stock.
func assetTypeFor(ticker string) types.AssetType {
	if strings.HasSuffix(ticker, "-USD") {
		return types.AssetTypeCrypto
	}
	return types.AssetTypeStock
}

// parseWeights turns "BTC-USD=60,ETH-USD=40" into a weight map.
func parseWeights(s string) (types.WeightMap, error) {
	if s == "" {
		return nil, fmt.Errorf("at least one ticker=weight pair is required")
	}
	weights := make(types.WeightMap)
	for _, pair := range strings.Split(s, ",") {
		ticker, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || ticker == "" {
			return nil, fmt.Errorf("malformed pair %q, want TICKER=WEIGHT", pair)
		}
		weight, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("weight for %s: %w", ticker, err)
		}
		weights[ticker] = weight
	}
	return weights, nil
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-start and -end are required")
	}
	start, err := time.Parse(types.DateFormat, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(types.DateFormat, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is before start %s", endStr, startStr)
	}
	return start, end, nil
}

func newPriceSource(ctx context.Context, cfg config.Config, log zerolog.Logger) (engine.PriceSource, func(), error) {
	switch cfg.PriceSource {
	case "postgres":
		db, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return &db, db.Close, nil
	case "yahoo", "":
		return yahoo.NewSource(yahoo.NewClient(log), true), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown price source %q", cfg.PriceSource)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

// Command runner drives the chunk pipeline to completion: it invokes one
// chunk at a time, forwards the remaining row budget, and stops when a chunk
// processes nothing or drains the pending set it observed. Each invocation
// re-derives pending work from the spreadsheet, so the runner can be killed
// and restarted at any point without losing or repeating work.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/pairlens/pairlens/internal/config"
	"github.com/pairlens/pairlens/internal/core"
	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/llm"
	"github.com/pairlens/pairlens/internal/store"
)

func main() {
	cfgPath := flag.String("config", "config/config.toml", "Path to configuration file")
	tab := flag.String("tab", "", "Dataset tab (defaults to the configured tab)")
	mode := flag.String("mode", string(model.ModeProduction), "Run mode: production or testing")
	limit := flag.Int("limit", -1, "Maximum rows for this run across all chunks (-1 for no cap)")
	parallel := flag.Int("parallel", 0, "Concurrent workers per chunk (defaults to config)")
	pause := flag.Duration("pause", 0, "Pause between chunk invocations")
	dryRun := flag.Bool("dry-run", false, "Run against an in-memory store seeded with sample pairs instead of the spreadsheet")
	dryRunRows := flag.Int("dry-run-rows", 20, "Number of sample pairs to seed in dry-run mode")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	level := slog.LevelInfo
	if *isDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.ApplyEnvOverrides()

	runMode := model.Mode(*mode)
	if runMode != model.ModeProduction && runMode != model.ModeTesting {
		logger.Error("Unknown mode", "mode", *mode)
		os.Exit(1)
	}

	ctx := context.Background()

	datasetTab := *tab
	if datasetTab == "" {
		datasetTab = cfg.Sheets.DatasetTab
	}

	var st store.Store
	if *dryRun {
		logger.Info("dry run: spreadsheet untouched", "rows", *dryRunRows)
		mem := store.NewMemoryStore("dry-run")
		mem.SeedRows(datasetTab, store.SampleRows(*dryRunRows))
		st = mem
	} else {
		sheets, err := store.NewSheetsStore(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.SettingsTab, cfg.Sheets.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize sheets store", "error", err)
			os.Exit(1)
		}
		st = sheets
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Error("Failed to initialize LLM client", "error", err)
		os.Exit(1)
	}

	evaluator := core.NewEvaluator(st, llmClient, cfg.LLM.Model, logger)

	workers := *parallel
	if workers <= 0 {
		workers = cfg.Pipeline.Parallel
	}
	if workers > 20 {
		workers = 20
	}

	remaining := *limit
	totalProcessed := 0

	for chunkNum := 1; ; chunkNum++ {
		report, err := evaluator.RunChunk(ctx, core.ChunkRequest{
			Tab:      datasetTab,
			Mode:     runMode,
			Limit:    remaining,
			Parallel: workers,
		})
		if err != nil {
			logger.Error("Chunk invocation failed", "chunk", chunkNum, "error", err)
			os.Exit(1)
		}

		totalProcessed += report.Processed
		logger.Info("chunk complete",
			"chunk", chunkNum,
			"processed", report.Processed,
			"pending_before", report.PendingBefore,
			"total_processed", totalProcessed)

		if remaining >= 0 {
			remaining -= report.Processed
			if remaining <= 0 {
				break
			}
		}
		if report.Done() {
			break
		}
		if *pause > 0 {
			time.Sleep(*pause)
		}
	}

	logger.Info("run finished", "total_processed", totalProcessed)
}

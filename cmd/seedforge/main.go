package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"seedforge/internal/config"
	"seedforge/internal/content"
	"seedforge/internal/database"
	"seedforge/internal/distribution"
	"seedforge/internal/generators"
	"seedforge/internal/logging"
	"seedforge/internal/models"
	"seedforge/internal/temporal"
	"seedforge/internal/validation"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting SeedForge workspace generator...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("📋 Configuration loaded (DB: %s, seed: %d, LLM: %v)",
		cfg.DatabasePath, cfg.Seed, cfg.LLMEnabled)

	var overrides *distribution.Overrides
	if cfg.DistributionsFile != "" {
		var err error
		overrides, err = config.LoadDistributions(cfg.DistributionsFile)
		if err != nil {
			log.Fatalf("❌ Failed to load distribution overrides: %v", err)
		}
		log.Printf("✅ Distribution overrides loaded from %s", cfg.DistributionsFile)
	}

	dist, err := distribution.New(cfg.Seed, overrides)
	if err != nil {
		log.Fatalf("❌ Invalid distribution configuration: %v", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	// A pre-populated destination is a structural error: generation assumes
	// a fresh file so identifiers and uniqueness constraints start clean.
	populated, err := db.HasUserTables()
	if err != nil {
		log.Fatalf("❌ Failed to inspect destination: %v", err)
	}
	if populated {
		log.Fatalf("❌ Destination %s already contains tables; refusing to generate over it", cfg.DatabasePath)
	}

	if err := db.ApplySchema(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	window := models.TimeRange{Start: cfg.SimulationStart, End: cfg.SimulationEnd}
	clock := temporal.New(window, window.End, dist)

	provider := content.NewProvider(content.Options{
		LLMEnabled:  cfg.LLMEnabled,
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Seed:        cfg.Seed,
	}, logging.WithComponent("content"))

	ctx := context.Background()
	pipeline := generators.NewPipeline(db, dist, clock, provider, cfg, logging.WithComponent("pipeline"))

	report, err := generators.Run(ctx, pipeline)
	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}
	log.Printf("✅ Generation complete: %d rows across %d stages (run %s)",
		report.TotalRows, len(report.Stages), report.RunID)

	validator := validation.New(db, clock.Now())
	vreport, err := validator.Validate(ctx)
	if err != nil {
		log.Fatalf("❌ Validation failed to run: %v", err)
	}

	printReport(report, vreport)

	if vreport.Failed() {
		log.Println("❌ Dataset failed fatal-severity validation")
		os.Exit(1)
	}
	log.Println("✅ Dataset validated")
}

func printReport(gen *generators.GenerationReport, val *validation.Report) {
	fmt.Println()
	fmt.Println("=== Generation Report ===")
	fmt.Printf("run %s, seed %d, took %s\n",
		gen.RunID, gen.Seed, gen.FinishedAt.Sub(gen.StartedAt).Round(time.Millisecond))
	for _, s := range gen.Stages {
		fmt.Printf("  %-18s %6d rows  (%s)\n", s.Stage, s.Rows, s.Duration.Round(time.Millisecond))
	}
	fmt.Printf("  %-18s %6d rows\n", "total", gen.TotalRows)

	fmt.Println()
	fmt.Println("=== Validation Report ===")
	for _, f := range val.Findings {
		line := fmt.Sprintf("  [%-12s] %-40s %s", f.Category, f.Name, f.Status)
		if f.Status == validation.StatusFail {
			line += fmt.Sprintf(" (%d offending rows)", f.Offending)
		}
		if f.Detail != "" {
			line += " | " + f.Detail
		}
		fmt.Println(line)
	}
	passed, failed, skipped := val.Counts()
	fmt.Printf("  %d passed, %d failed, %d skipped\n", passed, failed, skipped)
}

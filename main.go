package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/instrperf/InstrumentBench/analyzer"
	"github.com/instrperf/InstrumentBench/common"
	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/instrdata"
	"github.com/instrperf/InstrumentBench/loader"
	"github.com/instrperf/InstrumentBench/perflog"
	"github.com/instrperf/InstrumentBench/searcher"
	"github.com/instrperf/InstrumentBench/updater"
)

const (
	modeCreateIndex = "create-index"
	modeDeleteIndex = "delete-index"
	modeGenerate    = "generate"
	modeLoad        = "load"
	modeUpdater     = "updater"
	modeSearcher    = "searcher"
	modeAnalyze     = "analyze"
)

// Default command line parameters
const defaultConfigPath = "config.yaml"

func main() {
	// Command line parameters
	configPath := flag.String("config", defaultConfigPath, "Path to YAML configuration file")
	mode := flag.String("mode", "", "Operation mode: create-index, delete-index, generate, load, updater, searcher, analyze")
	url := flag.String("url", "", "Search engine base URL (overrides configuration)")
	indexName := flag.String("index", "", "Instrument index name (overrides configuration)")
	count := flag.Int("count", 0, "Number of instruments to generate (overrides configuration)")
	metricsPort := flag.Int("metrics-port", 0, "Port for Prometheus metrics server")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	defaultConfig := flag.Bool("default-config", false, "Create default configuration and exit")

	flag.Parse()

	if *defaultConfig {
		if err := common.SaveConfig(common.DefaultConfig(), *configPath); err != nil {
			log.Fatalf("Error creating default configuration: %v", err)
		}
		fmt.Printf("Default configuration created in file: %s\n", *configPath)
		return
	}

	// Load configuration, falling back to defaults when no file is present
	var config *common.Config
	if _, err := os.Stat(*configPath); err == nil {
		config, err = common.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
	} else {
		config = common.DefaultConfig()
	}

	// Apply command line overrides
	if *mode != "" {
		config.Mode = *mode
	}
	if *url != "" {
		config.URL = *url
	}
	if *indexName != "" {
		config.IndexName = *indexName
	}
	if *count > 0 {
		config.Generator.InstrumentCount = *count
	}
	if *metricsPort != 0 {
		config.MetricsPort = *metricsPort
	}
	if *verbose {
		config.Verbose = true
	}

	// Structured JSON logs for normal runs, human-readable text with
	// debug level under -verbose
	if config.Verbose {
		common.InitTextLogger(true)
	} else {
		common.InitLogger(false)
	}

	// Check that mode is specified
	if config.Mode == "" {
		log.Fatalf("Operation mode not specified. Use -mode flag or specify in configuration file")
	}

	// Translate interrupt/terminate signals into context cancellation at
	// the outer boundary; the loops check the context at their suspension
	// points and finish the in-flight batch before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Metrics {
		common.StartMetricsServer(config.MetricsPort)
	}

	stats := common.NewStats()

	switch config.Mode {
	case modeGenerate:
		runGenerate(config)
	case modeCreateIndex:
		runCreateIndex(ctx, config)
	case modeDeleteIndex:
		runDeleteIndex(ctx, config)
	case modeLoad:
		runLoad(ctx, config)
	case modeUpdater:
		runUpdater(ctx, config, stats)
		stats.PrintSummary()
	case modeSearcher:
		runSearcher(ctx, config, stats)
		stats.PrintSummary()
	case modeAnalyze:
		runAnalyze(config)
	default:
		log.Fatalf("Unknown operation mode: %s", config.Mode)
	}
}

// runGenerate produces the synthetic instrument CSV
func runGenerate(config *common.Config) {
	fmt.Printf("Generating %d test instruments...\n", config.Generator.InstrumentCount)

	instruments := instrdata.GenerateInstruments(config.Generator.InstrumentCount)
	if err := instrdata.WriteInstrumentsCSV(instruments, config.Generator.OutputFile); err != nil {
		log.Fatalf("Error writing instrument CSV: %v", err)
	}

	fmt.Printf("Saved %d instruments to '%s'\n", len(instruments), config.Generator.OutputFile)
}

// runCreateIndex (re)creates the instrument index with its mapping
func runCreateIndex(ctx context.Context, config *common.Config) {
	client := mustConnect(ctx, config)

	if err := client.CreateIndex(ctx); err != nil {
		log.Fatalf("Error creating index: %v", err)
	}
	fmt.Printf("Successfully created index '%s'\n", config.IndexName)
}

// runDeleteIndex removes the instrument index
func runDeleteIndex(ctx context.Context, config *common.Config) {
	client := mustConnect(ctx, config)

	if err := client.DeleteIndex(ctx); err != nil {
		log.Fatalf("Error deleting index: %v", err)
	}
	fmt.Printf("Successfully deleted index '%s'\n", config.IndexName)
}

// runLoad imports the instrument CSV into the index
func runLoad(ctx context.Context, config *common.Config) {
	client := mustConnect(ctx, config)

	report, err := loader.Run(ctx, client, config.Loader)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	fmt.Printf("Load completed: %d succeeded, %d failed in %v (%.2f records/s)\n",
		report.Succeeded, report.Failed, report.Elapsed.Round(time.Millisecond), report.Rate())
	fmt.Printf("Index '%s' now contains %d documents\n", config.IndexName, report.IndexDocs)
}

// runUpdater starts the continuous price update loop
func runUpdater(ctx context.Context, config *common.Config, stats *common.Stats) {
	client := mustConnect(ctx, config)

	u := updater.NewUpdater(client, config.Updater, stats, config.Metrics)
	if err := u.Run(ctx); err != nil {
		log.Fatalf("Updater failed: %v", err)
	}
}

// runSearcher starts the continuous search workload loop
func runSearcher(ctx context.Context, config *common.Config, stats *common.Stats) {
	client := mustConnect(ctx, config)

	s := searcher.NewSearcher(client, config.Searcher, stats, config.Metrics)
	if err := s.Run(ctx); err != nil {
		log.Fatalf("Searcher failed: %v", err)
	}
}

// runAnalyze performs the offline correlation analysis
func runAnalyze(config *common.Config) {
	updates, err := perflog.LoadUpdateRecords(config.Analyzer.UpdateMetricsFile)
	if err != nil {
		log.Fatalf("Error loading update metrics: %v", err)
	}
	searches, err := perflog.LoadSearchRecords(config.Analyzer.SearchMetricsFile)
	if err != nil {
		log.Fatalf("Error loading search metrics: %v", err)
	}

	fmt.Printf("Loaded %d update records and %d search records\n\n", len(updates), len(searches))
	analyzer.Analyze(updates, searches).Print()
}

// mustConnect creates the engine client or exits with a diagnostic.
// Initial unreachability of the engine is the one fatal startup error.
func mustConnect(ctx context.Context, config *common.Config) *esindex.Client {
	client, err := esindex.NewClient(ctx, config.URL, config.IndexName)
	if err != nil {
		log.Fatalf("Failed to connect to search engine: %v", err)
	}
	fmt.Printf("Connected to search engine at %s\n", config.URL)
	return client
}

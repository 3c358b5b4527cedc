// Command semflu segments semantic-fluency runs into category clusters and
// writes one CSV row per response.
//
//	semflu -categories animals.txt -responses runs.jsonl -out items.csv
//
// Runs are JSON values, one per line: {"id":"s1","responses":[...],"irt":[...]}.
// Settings come from -config (YAML), SEMFLU_* variables and flags, in
// increasing precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/semflu/batch"
	"github.com/katalvlaran/semflu/internal/config"
	"github.com/katalvlaran/semflu/internal/logger"
	"github.com/katalvlaran/semflu/internal/metrics"
	"github.com/katalvlaran/semflu/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Get().Error().Err(err).Msg("semflu failed")
		os.Exit(1)
	}
}

// run is main without process exits, so tests can drive it.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("semflu", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "path to YAML configuration (default $SEMFLU_CONFIG)")
		catPath    = fs.String("categories", "", "category file: 'Category: a, b, c.' lines, or .yaml/.yml map")
		respPath   = fs.String("responses", "", "JSON-lines file of runs")
		algorithm  = fs.String("algorithm", "", "greedy or exhaustive (overrides config)")
		outPath    = fs.String("out", "", "CSV output path (default stdout)")
		dbPath     = fs.String("db", "", "SQLite result database (overrides config)")
		promPath   = fs.String("metrics-file", "", "write final metrics in Prometheus text format (overrides config)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, *catPath, *respPath, *algorithm, *dbPath, *promPath)
	if err = cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input.Categories == "" || cfg.Input.Responses == "" {
		return fmt.Errorf("both -categories and -responses are required: %w", config.ErrInvalid)
	}

	logger.Init(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "semflu"})
	log := logger.Named("cmd")

	if err = metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	// the endpoint lives only as long as the batch; use Textfile for the final values
	if cfg.Metrics.Address != "" {
		srv := serveMetrics(cfg.Metrics.Address, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	mapping, err := readCategories(cfg.Input.Categories)
	if err != nil {
		return err
	}
	records, err := readRecords(cfg.Input.Responses)
	if err != nil {
		return err
	}
	log.Info().
		Int("categories", mapping.Len()).
		Int("items", len(mapping.Items())).
		Int("runs", len(records)).
		Str("algorithm", cfg.Segmentation.Algorithm).
		Msg("input loaded")

	rep, err := batch.Run(ctx, mapping, records, batch.Options{
		Algorithm:         cfg.Segmentation.Algorithm,
		MaxResponses:      cfg.Segmentation.MaxResponses,
		MaxNodes:          cfg.Segmentation.MaxNodes,
		TimeLimit:         cfg.Segmentation.TimeLimit,
		FallbackToGreedy:  cfg.Segmentation.FallbackToGreedy,
		CountUnclassified: cfg.Segmentation.CountUnclassified,
		Workers:           cfg.Batch.Workers,
		Logger:            logger.Named("batch"),
	})
	if err != nil {
		return err
	}

	if err = writeOutput(*outPath, stdout, rep); err != nil {
		return err
	}

	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveBatch(ctx, rep)
		if err != nil {
			return err
		}
		log.Info().Str("batch_id", id).Str("db", cfg.Store.Path).Msg("batch stored")
	}

	if cfg.Metrics.Textfile != "" {
		if err = prometheus.WriteToTextfile(cfg.Metrics.Textfile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Info().Str("path", cfg.Metrics.Textfile).Msg("metrics written")
	}

	return nil
}

func applyFlags(cfg *config.Config, categories, responses, algorithm, db, metricsFile string) {
	if categories != "" {
		cfg.Input.Categories = categories
	}
	if responses != "" {
		cfg.Input.Responses = responses
	}
	if algorithm != "" {
		cfg.Segmentation.Algorithm = algorithm
	}
	if db != "" {
		cfg.Store.Path = db
	}
	if metricsFile != "" {
		cfg.Metrics.Textfile = metricsFile
	}
}

func serveMetrics(addr string, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Info().Str("address", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server exited")
		}
	}()

	return srv
}

func writeOutput(path string, stdout io.Writer, rep *batch.Report) error {
	if path == "" {
		return writeCSV(stdout, rep)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err = writeCSV(f, rep); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

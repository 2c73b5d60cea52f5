// Command sentinel analyzes social-media comments about a product:
// it cleans and dedupes raw CSV exports, filters them for relevance,
// scores sentiment, assigns topic categories, and reports the results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalyze/sentinel/internal/aggregate"
	"github.com/signalyze/sentinel/internal/api"
	"github.com/signalyze/sentinel/internal/config"
	"github.com/signalyze/sentinel/internal/dataset"
	"github.com/signalyze/sentinel/internal/logger"
	"github.com/signalyze/sentinel/internal/pipeline"
	"github.com/signalyze/sentinel/internal/storage"
	"github.com/signalyze/sentinel/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

var (
	cfgFile    string
	outputPath string
	reportPath string
	noStore    bool
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sentinel",
		Short: "Comment sentiment and topic analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "config.yml", "config file path")
	root.AddCommand(newRunCmd(), newServeCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <input.csv> [input.csv...]",
		Short: "Analyze comment CSV exports and write annotated results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "out", "o", "results.csv", "annotated results CSV path")
	cmd.Flags().StringVar(&reportPath, "report", "", "markdown summary report path (optional)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip persisting the run to the database")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func runPipeline(ctx context.Context, inputs []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // stdout sync failure is harmless

	var repo *storage.RunRepository
	if !noStore {
		db, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		repo = storage.NewRunRepository(db)
	}

	provider := telemetry.NewProvider()
	p, err := pipeline.FromConfig(cfg, repo, provider, log)
	if err != nil {
		return err
	}

	raw, err := dataset.ReadFiles(inputs...)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("no comments found in %v", inputs)
	}

	res, err := p.Run(ctx, raw)
	if err != nil {
		return err
	}

	if err := dataset.WriteFile(outputPath, res.Comments); err != nil {
		return err
	}
	log.Info("results written",
		logger.String("path", outputPath),
		logger.Int("comments", len(res.Comments)))

	if reportPath != "" {
		report := aggregate.RenderMarkdown(cfg.Service.Name+" analysis", res.Summary)
		if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report %s: %w", reportPath, err)
		}
		log.Info("report written", logger.String("path", reportPath))
	}
	return nil
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // stdout sync failure is harmless

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := storage.NewRunRepository(db)

	provider := telemetry.NewProvider()
	p, err := pipeline.FromConfig(cfg, repo, provider, log)
	if err != nil {
		return err
	}

	handler := api.NewHandler(p.Scorer(), p.Classifier(), p.Rules(), repo, log)
	server := api.NewServer(handler, api.ServerConfig{
		Name:    cfg.Service.Name,
		Version: cfg.Service.Version,
		Port:    cfg.Service.Port,
	}, provider, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

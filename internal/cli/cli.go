package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/pydocs-parser/internal/config"
	"github.com/pfrederiksen/pydocs-parser/internal/fetch"
	"github.com/pfrederiksen/pydocs-parser/internal/logger"
	"github.com/pfrederiksen/pydocs-parser/internal/scraper"
	"github.com/pfrederiksen/pydocs-parser/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

type flags struct {
	clearCache bool
	output     string
	configPath string
	progress   bool
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "pydocs-parser <mode>",
		Short: "Collect data from the Python documentation and PEP sites",
		Long: `A CLI tool that extracts tabular data from docs.python.org and peps.python.org.

Modes:
  whats-new        release-notes articles with their title and authors
  latest-versions  documentation versions and their support status
  download         save the A4 PDF documentation archive
  pep              count PEP statuses and report index/page disagreements`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     scraper.ModeNames(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := scraper.ParseMode(args[0])
			if err != nil {
				return err
			}
			format, err := ParseOutputFormat(f.output)
			if err != nil {
				return err
			}
			return runParser(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, format, f)
		},
	}

	cmd.Flags().BoolVarP(&f.clearCache, "clear-cache", "c", false, "Clear the HTTP response cache before parsing")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output: "+strings.Join(outputChoices(), ", ")+" (default: plain console dump)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a YAML configuration file")
	cmd.Flags().BoolVar(&f.progress, "progress", true, "Show a progress bar on stderr")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// runParser is the main command logic
func runParser(ctx context.Context, stdout, stderr io.Writer, mode scraper.Mode, format OutputFormat, f *flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Verbose = f.verbose
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := logger.LevelInfo
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	logFile, err := logger.Setup(logger.Options{
		Level:      level,
		Format:     logger.Format(cfg.LogFormat),
		Console:    stderr,
		File:       cfg.LogFile(),
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logFile.Close()

	logger.Info("Parsing started", logger.Fields{"mode": string(mode), "clear_cache": f.clearCache})
	logger.Debug("Configuration loaded", logger.Fields{
		"base_dir":  cfg.BaseDir,
		"cache_dir": cfg.CacheDir,
		"docs_url":  cfg.DocsURL,
		"peps_url":  cfg.PEPsURL,
	})

	store, err := storage.New(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		logger.Error("Cache could not be opened", logger.Fields{"dir": cfg.CacheDir}, err)
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	if f.clearCache {
		n, err := store.Clear(ctx)
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		logger.Info("Cache cleared", logger.Fields{"entries": n})
	}
	if size, err := store.Size(ctx); err == nil {
		logger.Debug("Cache opened", logger.Fields{"path": store.Path(), "entries": size})
	}

	client := fetch.New(store,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
	)

	opts := []scraper.Option{
		scraper.WithDocsURL(cfg.DocsURL),
		scraper.WithPEPsURL(cfg.PEPsURL),
		scraper.WithDownloadsDir(cfg.DownloadsDir()),
	}
	if f.progress {
		opts = append(opts, scraper.WithProgress(newProgressBar(stderr)))
	}

	table, err := scraper.New(client, opts...).Run(ctx, mode)
	if err != nil {
		logger.Error("Parsing failed", logger.Fields{"mode": string(mode)}, err)
		return err
	}

	if table != nil {
		logger.SetGauge("run.rows", float64(table.Len()))
		path, err := WriteOutput(stdout, table, format, mode, cfg.ResultsDir(), time.Now())
		if err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		if path != "" {
			logger.Info("Results file saved", logger.Fields{"path": path})
		}
	}

	logger.Debug("Run metrics", logger.Fields(logger.GetMetricsSnapshot()))
	logger.Info("Parsing finished", logger.Fields{"mode": string(mode)})
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}

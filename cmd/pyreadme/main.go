package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"pyreadme/internal/config"
	"pyreadme/internal/crawler"
	"pyreadme/internal/extractor"
	"pyreadme/internal/generator"
	"pyreadme/internal/logging"
	"pyreadme/internal/storage"
	"pyreadme/internal/watcher"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	watch      bool
	verbose    bool
	root       string
	configPath string
	readme     string
	dryRun     bool
	pretty     bool
	history    string
}

var opts options

var rootCmd = &cobra.Command{
	Use:           "pyreadme",
	Short:         "Keep a README's module documentation in sync with Python sources",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever Python sources change")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&opts.root, "root", ".", "Project root to scan")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "Configuration file (default <root>/"+config.DefaultPath+")")
	rootCmd.Flags().StringVar(&opts.readme, "readme", "", "README to update (default <root>/README.md)")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the updated README instead of writing it")
	rootCmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Render --dry-run output for the terminal")
	rootCmd.Flags().StringVar(&opts.history, "history", "", "SQLite database recording each run")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	if o.dryRun && o.watch {
		return errors.New("--dry-run cannot be combined with --watch")
	}
	if o.pretty && !o.dryRun {
		return errors.New("--pretty requires --dry-run")
	}

	logger, err := logging.New(o.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	root, err := filepath.Abs(o.root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	configPath := o.configPath
	if configPath == "" {
		configPath = filepath.Join(root, config.DefaultPath)
	}
	cfg := config.LoadOrEmpty(configPath, logger)

	ext, err := extractor.NewExtractor("python", extractor.Options{IncludePrivate: cfg.DocOptions.IncludePrivateMethods})
	if err != nil {
		return err
	}
	defer ext.Close()

	fs := afero.NewOsFs()
	updOpts := generator.Options{
		FS:         fs,
		Root:       root,
		ReadmePath: o.readme,
		Config:     cfg,
		Crawler:    crawler.NewCrawler(fs, ext, cfg, logger),
		Logger:     logger,
	}

	if o.history != "" && !o.dryRun {
		store, err := storage.NewSQLiteStore(o.history)
		if err != nil {
			return fmt.Errorf("open history %s: %w", o.history, err)
		}
		defer store.Close()
		logPreviousRun(ctx, store, logger)
		updOpts.Recorder = historyRecorder{store: store}
	}

	upd, err := generator.NewUpdater(updOpts)
	if err != nil {
		return err
	}

	if o.dryRun {
		return printDryRun(ctx, upd, o.pretty)
	}

	if _, err := upd.Update(ctx); err != nil {
		return err
	}

	if !o.watch {
		if cfg.DocOptions.WatchMode {
			logger.Info("doc_options.watch_mode is set; pass --watch to keep watching")
		}
		return nil
	}

	w, err := watcher.New(watcher.Options{
		Root:    root,
		Delay:   cfg.DocConfig(time.Now()).WatchDelay,
		Ignore:  cfg.IgnorePatterns,
		Logger:  logger,
		Trigger: func(ctx context.Context, _ []string) error {
			_, err := upd.Update(ctx)
			return err
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func printDryRun(ctx context.Context, upd *generator.Updater, pretty bool) error {
	doc, _, err := upd.Render(ctx)
	if err != nil {
		return err
	}
	if pretty {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
		if doc, err = renderer.Render(doc); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	_, err = fmt.Fprint(os.Stdout, doc)
	return err
}

func logPreviousRun(ctx context.Context, store storage.RunHistory, logger *zap.Logger) {
	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		logger.Warn("failed to read run history", zap.Error(err))
		return
	}
	if len(runs) == 0 {
		return
	}
	last := runs[0]
	logger.Debug("previous run",
		zap.Time("started", last.StartedAt),
		zap.Duration("duration", last.Duration()),
		zap.Int("files", last.TotalFiles),
		zap.Int("failed", len(last.Failed)),
	)
}

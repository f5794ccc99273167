package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/codeagg/internal/aggregator"
	"github.com/harrison/codeagg/internal/compactor"
	"github.com/harrison/codeagg/internal/config"
	"github.com/harrison/codeagg/internal/display"
	"github.com/harrison/codeagg/internal/history"
	"github.com/harrison/codeagg/internal/logger"
	"github.com/harrison/codeagg/internal/models"
)

// runAggregate implements the root command: aggregate, then record history.
func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	sink, closeLogs, err := newSink(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agg := newAggregator(cfg, aggregator.WithLogger(sink))
	result, err := agg.Run(ctx)
	if err != nil {
		return err
	}

	switch {
	case result.FileCount() == 0:
		display.WarnNoFiles(cfg.RootDir).Display(cmd.ErrOrStderr())
	case result.ReadErrors > 0:
		display.WarnUnreadable(result.Unreadable).Display(cmd.ErrOrStderr())
	}

	if cfg.History.Enabled {
		if err := recordRun(ctx, cfg, result); err != nil {
			sink.LogWarn(fmt.Sprintf("Could not record run history: %v", err))
		}
	}
	return nil
}

// newAggregator applies the configured extension overrides to the compactor.
func newAggregator(cfg *config.Config, opts ...aggregator.Option) *aggregator.Aggregator {
	c := compactor.New()
	for ext, tag := range cfg.TypeTagOverrides() {
		c.WithExtension(ext, tag)
	}
	return aggregator.New(cfg.ToAggregation(), append(opts, aggregator.WithCompactor(c))...)
}

// newSink builds the console logger and, when a log directory is
// configured, a per-run file logger alongside it.
func newSink(cmd *cobra.Command, cfg *config.Config) (logger.Multi, func(), error) {
	sinks := logger.Multi{logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)}

	logDir := cfg.LogPath()
	if logDir == "" {
		return sinks, func() {}, nil
	}

	fl, err := logger.NewFileLogger(logDir, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	return append(sinks, fl), func() { fl.Close() }, nil
}

func recordRun(ctx context.Context, cfg *config.Config, result *models.RunResult) error {
	store, err := history.NewStore(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, result, cfg.Description)
	return err
}

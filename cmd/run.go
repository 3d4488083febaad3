package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/snapwalk/snapwalk/internal/app"
	"github.com/snapwalk/snapwalk/internal/availability"
	"github.com/snapwalk/snapwalk/internal/capture/browser"
	"github.com/snapwalk/snapwalk/internal/capture/chromecli"
	"github.com/snapwalk/snapwalk/internal/capture/cutycapt"
	"github.com/snapwalk/snapwalk/internal/clock/system"
	"github.com/snapwalk/snapwalk/internal/config"
	"github.com/snapwalk/snapwalk/internal/id/uuid"
	"github.com/snapwalk/snapwalk/internal/sink"
	"github.com/snapwalk/snapwalk/internal/snapshot"
	"github.com/snapwalk/snapwalk/internal/source"
)

// newRunCmd creates and configures the 'run' subcommand, which walks the URL
// list end to end.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Checks every URL and captures screenshots of the reachable ones",
		Long: `Reads URL records from the configured source, probes each URL once, takes a
screenshot of reachable URLs with the selected back-end, and writes one status
code per URL to the result index. URLs are processed strictly one at a time.`,

		RunE: runRunCommand,
	}

	flags := cmd.Flags()
	flags.String("csv", "", "input CSV file with current urls")
	flags.String("db", "", "input SQLite database file with urls")
	flags.String("picsout", "", "directory to output the screenshots")
	flags.String("indexcsv", "", "the CSV file to write the index")
	flags.Int("method", -1, "screenshot method: 0 chrome cli, 1 browser automation, 2 cutycapt")
	flags.Int("timeout", 30, "per-url timeout in seconds")
	flags.String("metrics-addr", "", "listen address for the /metrics endpoint (disabled when empty)")

	return cmd
}

func runRunCommand(cmd *cobra.Command, _ []string) error {
	v, err := buildViper(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	defer application.Close()
	logger := application.Logger()

	capturer, err := buildCapturer(cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := capturer.(interface{ Close() error }); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				logger.Warn("Failed to close capturer", zap.Error(cerr))
			}
		}()
	}

	src := buildSource(cfg, application)
	resultSink, err := buildSink(cmd.Context(), cfg, application)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resultSink.Close(); cerr != nil {
			logger.Warn("Failed to close result sink", zap.Error(cerr))
		}
	}()

	engine := snapshot.NewEngine(
		src,
		availability.New(logger),
		capturer,
		resultSink,
		cfg.Output.PicsDir,
		cfg.Timeout(),
		system.New(),
		uuid.New(),
		logger,
	)
	if _, err := engine.Run(cmd.Context()); err != nil {
		return fmt.Errorf("run snapshot walk: %w", err)
	}
	return nil
}

// buildViper wires the config file, SNAPWALK_* environment variables, and the
// run flags into one Viper instance.
func buildViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("SNAPWALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	binds := map[string]string{
		"input.csv":                  "csv",
		"input.db":                   "db",
		"output.pics_dir":            "picsout",
		"output.index_csv":           "indexcsv",
		"screenshot.method":          "method",
		"screenshot.timeout_seconds": "timeout",
		"metrics.addr":               "metrics-addr",
	}
	for key, flag := range binds {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return v, nil
}

// buildCapturer resolves the integer method selector into a concrete back-end.
// Unknown selectors were already rejected by config validation.
func buildCapturer(cfg config.Config, logger *zap.Logger) (snapshot.Capturer, error) {
	switch cfg.Screenshot.Method {
	case config.MethodChromeCLI:
		return chromecli.New(chromecli.Config{}, logger), nil
	case config.MethodBrowser:
		return browser.New(logger), nil
	case config.MethodCutyCapt:
		return cutycapt.New(cutycapt.Config{}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported screenshot method %d", cfg.Screenshot.Method)
	}
}

func buildSource(cfg config.Config, application *app.App) snapshot.Source {
	if cfg.Input.DB != "" {
		return source.NewSQLite(application.DB())
	}
	return source.NewCSV(cfg.Input.CSV)
}

// buildSink assembles the result outputs: the CSV index in CSV mode, the
// database index in DB mode, plus the optional CSV index alongside it.
func buildSink(ctx context.Context, cfg config.Config, application *app.App) (snapshot.Sink, error) {
	var sinks []snapshot.Sink
	if cfg.Input.DB != "" {
		dbSink, err := sink.NewSQLite(ctx, application.DB())
		if err != nil {
			return nil, fmt.Errorf("init database sink: %w", err)
		}
		sinks = append(sinks, dbSink)
	}
	if cfg.Output.IndexCSV != "" {
		csvSink, err := sink.NewCSV(cfg.Output.IndexCSV)
		if err != nil {
			return nil, fmt.Errorf("init csv sink: %w", err)
		}
		sinks = append(sinks, csvSink)
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sink.NewMulti(sinks...), nil
}

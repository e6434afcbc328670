package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"covidstat/internal/collector"
	"covidstat/internal/config"
	"covidstat/internal/logging"
	"covidstat/internal/presenter"
)

// app holds what every subcommand needs once config is loaded.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector *collector.Collector
}

func setup(configPath string) (*app, error) {
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	timeout, _ := cfg.Timeout()

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	fetcher := collector.NewDiseaseShFetcher(cfg.API.BaseURL, cfg.Proxy, timeout, logger)
	logger.Debug("data source", zap.String("name", fetcher.Name()), zap.String("base_url", fetcher.BaseURL))

	return &app{
		cfg:       cfg,
		logger:    logger,
		collector: collector.NewCollector(fetcher, logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	var (
		flagConfig  string
		flagNoChart bool
		flagOutDir  string
	)

	root := &cobra.Command{
		Use:   "covidstat",
		Short: "COVID-19 history for a country: preview, chart and CSV export",
		Long: `covidstat fetches the full COVID-19 case history of a country from disease.sh,
derives active cases, prints the latest rows, opens a line chart and writes
{country}_covid_data.csv.

Run without arguments to be prompted for a country.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flagConfig)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			outDir := a.cfg.Output.Dir
			if flagOutDir != "" {
				outDir = flagOutDir
			}
			cli := presenter.NewCLI(a.collector, outDir, a.cfg.ShouldOpenChart() && !flagNoChart, a.logger)
			cli.In = cmd.InOrStdin()
			cli.Out = cmd.OutOrStdout()
			return cli.Run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	root.Flags().BoolVar(&flagNoChart, "no-chart", false, "skip rendering and opening the chart")
	root.Flags().StringVar(&flagOutDir, "out", "", "directory for the CSV export (default from config)")

	root.AddCommand(
		newDashboardCmd(&flagConfig),
		newWatchCmd(&flagConfig),
		newPreviewCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "covidstat %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

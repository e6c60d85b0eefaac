package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/go-aqi-forecaster/aqi"
	"github.com/aouyang1/go-aqi-forecaster/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev"

	v   = config.New()
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "aqi",
		Short: "Hourly air quality forecasts with confidence bands",
		Long: `aqi trains a seasonal forecaster on hourly air quality readings, then serves
and exports forecasts of up to 60 days together with the observed history.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./aqi.yaml or $HOME/.config/aqi/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.ReadFile(v, cfgFile); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := setupLogging(); err != nil {
		return fmt.Errorf("unable to setup logging, %w", err)
	}
	return nil
}

func setupLogging() error {
	handler, err := cfg.Logging.Handler(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// newPipeline wires the model store and the history file into a forecast pipeline
func newPipeline(ctx context.Context) (*aqi.Pipeline, *aqi.Resources, error) {
	s, err := cfg.ArtifactStore(ctx, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open model store, %w, %w", aqi.ErrModelUnavailable, err)
	}
	src, err := cfg.HistorySource()
	if err != nil {
		return nil, nil, err
	}

	resources := aqi.NewResources(
		aqi.ModelFromStore(s, cfg.ModelKey()),
		aqi.HistoryFromFile(src),
	)
	return aqi.NewPipeline(resources, cfg.City, slog.Default()), resources, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("aqi version", "version", version)
		},
	}
}

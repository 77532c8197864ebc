package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/transitshape/shapegen/telemetry"
)

var (
	flagConfigs     []string
	flagExtract     string
	flagSchedule    string
	flagModes       []string
	flagCacheDir    string
	flagOut         string
	flagParallelism int
	flagQueueSize   int
	flagMetricsAddr string
	flagLogLevel    string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a transit graph and infer shapes for every trip in a schedule",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringSliceVar(&flagConfigs, "config", nil, "YAML config file(s), later files override earlier ones")
	buildCmd.Flags().StringVar(&flagExtract, "extract", "", "map extract JSON file")
	buildCmd.Flags().StringVar(&flagSchedule, "schedule", "", "schedule JSON file")
	buildCmd.Flags().StringSliceVar(&flagModes, "modes", nil, "mode names to union from the config's modes map")
	buildCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "trip cache base directory (empty disables caching)")
	buildCmd.Flags().StringVar(&flagOut, "out", "", "output file for inferred shapes (default stdout)")
	buildCmd.Flags().IntVar(&flagParallelism, "parallelism", 4, "number of solver workers")
	buildCmd.Flags().IntVar(&flagQueueSize, "queue-size", 64, "solver job queue buffer size")
	buildCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "address to serve Prometheus /metrics on (empty disables it)")
	buildCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "error|warn|info|debug")
	_ = buildCmd.MarkFlagRequired("extract")
	_ = buildCmd.MarkFlagRequired("schedule")
}

func parseLogLevel(s string) telemetry.Level {
	switch strings.ToLower(s) {
	case "error":
		return telemetry.LevelError
	case "warn":
		return telemetry.LevelWarn
	case "debug":
		return telemetry.LevelDebug
	default:
		return telemetry.LevelInfo
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := telemetry.New(os.Stderr, parseLogLevel(flagLogLevel))

	result, err := run(runInput{
		configs:     flagConfigs,
		extract:     flagExtract,
		schedule:    flagSchedule,
		modes:       flagModes,
		cacheDir:    flagCacheDir,
		parallelism: flagParallelism,
		queueSize:   flagQueueSize,
		metricsAddr: flagMetricsAddr,
		log:         log,
	})
	if err != nil {
		return fmt.Errorf("shapegen build: %w", err)
	}

	out := os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("opening %s: %w", flagOut, err)
		}
		defer f.Close()
		out = f
	}
	return writeShapes(out, result.shapes)
}

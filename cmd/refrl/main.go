package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neurlang/refrl/config"
)

var (
	configPath string
	dataPath   string
	graphsPath string
	cpuProfile string

	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:           "refrl",
		Short:         "Policy-gradient synthesis of referring clauses over scene graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			logger = newLogger(cfg.LogLevel, cfg.LogFormat)
			slog.SetDefault(logger)
			if err := startProfile(cpuProfile); err != nil {
				return err
			}
			serveMetrics(cfg.MetricsAddr)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			stopProfile()
		},
	}

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Train the policy, then evaluate it on the test split",
		RunE:  runTrain, // Defined in cmd_train.go
	}

	testCmd = &cobra.Command{
		Use:   "test",
		Short: "Evaluate a saved policy greedily",
		RunE:  runTest, // Defined in cmd_eval.go
	}

	genCmd = &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic scene graph dataset",
		RunE:  runGen, // Defined in cmd_gen.go
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.StringVar(&dataPath, "data", "", "data points (.json, .jsonl or .yaml)")
	pf.StringVar(&graphsPath, "graphs", "", "graph file or directory of graph files")
	pf.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	pf.String("model-path", "", "checkpoint file or database directory")
	pf.String("store", "", "checkpoint store (file or badger)")
	pf.String("policy", "", "policy (attention or nodesel)")
	pf.String("reward-type", "", "reward type (only_success or dense)")
	pf.Float64("eps", 0, "initial exploration rate")
	pf.Int("episode-iter", 0, "training iterations")
	pf.Int("batch-size", 0, "samples per optimizer step")
	pf.Bool("sub-loss", false, "recurse into deferred sub-problems")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "text or json")
	pf.String("metrics-addr", "", "serve prometheus metrics on this address")

	trainCmd.Flags().Bool("resume", false, "resume from the checkpoint at model-path")
	testCmd.Flags().String("split", "test", "split to evaluate (train or test)")
	testCmd.Flags().Int("iteration", -1, "evaluate the state saved during this iteration (badger store)")

	genCmd.Flags().Int("scenes", 64, "number of scenes")
	genCmd.Flags().Int("objects", 5, "objects per scene")
	genCmd.Flags().Int64("seed", 1, "random seed")

	rootCmd.AddCommand(trainCmd, testCmd, genCmd)
}

// loadConfig reads --config over the defaults and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (err error) {
	cfg = config.Default()
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("model-path") {
		cfg.ModelPath, _ = flags.GetString("model-path")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("policy") {
		cfg.Policy, _ = flags.GetString("policy")
	}
	if flags.Changed("reward-type") {
		rt, _ := flags.GetString("reward-type")
		cfg.RewardType = config.RewardType(rt)
	}
	if flags.Changed("eps") {
		cfg.Eps, _ = flags.GetFloat64("eps")
	}
	if flags.Changed("episode-iter") {
		cfg.EpisodeIter, _ = flags.GetInt("episode-iter")
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("sub-loss") {
		cfg.SubLoss, _ = flags.GetBool("sub-loss")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	return cfg.Validate()
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "refrl:", err)
		stopProfile()
		os.Exit(1)
	}
}

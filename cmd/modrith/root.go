package main

import (
	"fmt"
	"os"

	"modrith/internal/core"
	"modrith/internal/storage/config"
	"modrith/internal/storage/paths"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "0.1.0"

	// Global flags
	dataDir    string
	apiURL     string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modrith",
	Short: "Modrith - game mod profile manager",
	Long: `modrith manages named mod profiles for a game installation: each profile
tracks its mods, load order, and resource/data packs, and can be backed up,
restored, and shared as a modpack.

Use subcommands for operations. Run 'modrith --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.modrith)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "mod index base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list, search, history)")

	viper.SetEnvPrefix("modrith")
	viper.AutomaticEnv()
	_ = viper.BindEnv("data_dir")
	_ = viper.BindEnv("api_url")
	_ = viper.BindEnv("user_agent")
	_ = viper.BindEnv("log_level")
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error.
// When --json is set and an error occurs, prints {"error":"..."} to stdout.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// resolveDataDir applies flag > environment > default.
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	if env := viper.GetString("data_dir"); env != "" {
		return env, nil
	}
	return paths.DefaultRoot()
}

// getServiceConfig layers flags and MODRITH_* environment variables over
// the persisted config file.
func getServiceConfig() (core.ServiceConfig, string, error) {
	root, err := resolveDataDir()
	if err != nil {
		return core.ServiceConfig{}, "", err
	}

	fileCfg, err := config.Load(root)
	if err != nil {
		return core.ServiceConfig{}, "", err
	}

	cfg := core.ServiceConfig{
		DataDir:         root,
		APIBaseURL:      fileCfg.APIBaseURL,
		UserAgent:       fileCfg.UserAgent,
		SearchLimit:     fileCfg.SearchLimit,
		SearchTimeout:   fileCfg.SearchTimeout,
		DownloadWorkers: fileCfg.DownloadWorkers,
		BackupExcludes:  fileCfg.BackupExcludes,
	}

	if env := viper.GetString("api_url"); env != "" {
		cfg.APIBaseURL = env
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if env := viper.GetString("user_agent"); env != "" {
		cfg.UserAgent = env
	}

	level := fileCfg.LogLevel
	if env := viper.GetString("log_level"); env != "" {
		level = env
	}

	return cfg, level, nil
}

// buildLogger writes structured logs to the log file under the data
// directory; --verbose mirrors them to stderr.
func buildLogger(layout paths.Layout, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(layout.Logs(), 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}

	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{layout.LogFile()}
	if verbose {
		zcfg.OutputPaths = append(zcfg.OutputPaths, "stderr")
	}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

// initService creates the manager service and its logger. The caller owns
// both: defer service.Close() and logger.Sync().
func initService() (*core.Service, *zap.Logger, error) {
	cfg, level, err := getServiceConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := buildLogger(paths.New(cfg.DataDir), level)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	svc, err := core.NewService(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return svc, logger, nil
}

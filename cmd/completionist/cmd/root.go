// Package cmd implements the completionist command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playtrack/completionist/pkg/constants"
	"github.com/playtrack/completionist/pkg/logging"
)

var (
	configFile string
	dataDir    string
	verbose    bool
	quiet      bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "completionist",
	Short: "Steam library scraper for rarest achievements",
	Long: `Completionist scrapes a Steam user's library to rank every game by the
rarest achievement the user has unlocked, tracks which games have no
achievements at all, and cross-references the results with HowLongToBeat
completion-time estimates.

State lives in three files under the data directory: one snapshot per
SteamID, a shared skip list of games without achievements, and the master
Steam-to-HLTB mapping table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
// A non-zero exit code signals a fatal error; on-disk state is only
// modified by passes that ran to completion.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "maintenance",
		Title: "Maintenance Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.completionist.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for snapshots and stores (default ./data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	cobra.CheckErr(viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".completionist")
		}
	}

	// Load .env files first so Viper's env binding sees them.
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Read config file if one is found; absence is fine.
	_ = viper.ReadInConfig()

	configureLogging()
}

// configureLogging sets up the logging system based on flags and environment.
func configureLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	cfg := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
	}
	if cfg.Format == "" {
		cfg.Format = "auto"
	}
	logging.Configure(cfg)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// resolvedDataDir returns the configured data directory.
func resolvedDataDir() string {
	if dir := viper.GetString("data_dir"); dir != "" {
		return dir
	}
	return constants.DefaultDataDir
}

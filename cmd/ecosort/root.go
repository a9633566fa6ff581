package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ecosort/internal/app"
	"ecosort/internal/config"
	"ecosort/internal/logger"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ecosort",
	Short: "Waste classification front end for the EcoSort AI backend",
	Long: `ecosort serves the EcoSort web front end and drives the same
capture, classify and history flow from the terminal.

Settings come from .env and the environment (BACKEND_URL, PORT, ...).
Flags, ECOSORT_* variables and an optional config file override them.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print info logs to stderr")
	flags.String("backend-url", "", "backend base URL")
	flags.Int("port", 0, "web server port")
	flags.Duration("timeout", 0, "timeout for each backend call")
	flags.String("camera", "", "camera device index or stream path")
	flags.String("db-path", "", "preferences database path")
	flags.String("log-dir", "", "log directory")
	flags.Int("history-limit", 0, "number of history entries to load")

	for _, name := range []string{"backend-url", "port", "timeout", "camera", "db-path", "log-dir", "history-limit"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read config file %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

// bindEnv maps keys like backend-url to ECOSORT_BACKEND_URL.
func bindEnv() {
	viper.SetEnvPrefix("ecosort")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// applyOverrides copies every explicitly set flag, variable or config key
// over the environment-based config.
func applyOverrides(cfg *config.Config) {
	if viper.IsSet("backend-url") {
		cfg.BackendURL = viper.GetString("backend-url")
	}
	if viper.IsSet("port") {
		cfg.Port = viper.GetInt("port")
	}
	if viper.IsSet("timeout") {
		cfg.HTTPTimeout = viper.GetDuration("timeout")
	}
	if viper.IsSet("camera") {
		cfg.CameraDevice = viper.GetString("camera")
	}
	if viper.IsSet("db-path") {
		cfg.DBPath = viper.GetString("db-path")
	}
	if viper.IsSet("log-dir") {
		cfg.LogDirectory = viper.GetString("log-dir")
	}
	if viper.IsSet("history-limit") {
		cfg.HistoryLimit = viper.GetInt("history-limit")
	}
}

func loadConfig() *config.Config {
	cfg := config.Load()
	applyOverrides(cfg)
	return cfg
}

// openApp builds the application for a one-shot command. Info logs go to the
// log files only unless --verbose is set.
func openApp() (*app.App, func(), error) {
	cfg := loadConfig()

	var stdout io.Writer = io.Discard
	if verbose {
		stdout = os.Stderr
	}
	log, err := logger.New(cfg.LogDirectory, stdout, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.NewApp(cfg, log)
	if err != nil {
		log.Close()
		return nil, nil, err
	}

	closeFn := func() {
		a.Close()
		log.Close()
	}
	return a, closeFn, nil
}

// ABOUTME: Root command for the coffee CLI
// ABOUTME: Handles global flags, configuration, and shared dependencies

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/config"
	"github.com/CleanMatyx/ApiRestCoffee/internal/connectivity"
	"github.com/CleanMatyx/ApiRestCoffee/internal/logger"
	"github.com/CleanMatyx/ApiRestCoffee/internal/repository"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

var (
	apiURL           string
	configDir        string
	envFile          string
	jsonOutput       bool
	httpTimeout      time.Duration
	skipNetworkCheck bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "coffee",
	Short: "Browse the coffee catalog and its comments",
	Long: `coffee is a command-line client for the coffee catalog API.

Log in once and the session is kept between runs. Browse coffees, read
comments, and post your own, either with single commands or the
interactive browser.

Exit codes:
  0 - Success
  1 - Operation failed (bad credentials, server error)
  2 - Usage or connectivity error
  3 - Not logged in or session expired

Environment Variables:
  COFFEE_API_URL             API base URL (default: ` + client.DefaultBaseURL + `)
  COFFEE_CONFIG_DIR          Where the session is stored (default: ~/.config/coffee)
  COFFEE_HTTP_TIMEOUT        Request timeout, e.g. 30s
  COFFEE_MAX_RPS             Client-side request rate limit (default: off)
  COFFEE_SKIP_NETWORK_CHECK  Skip the reachability probe before requests
  LOG_LEVEL, LOG_FORMAT      Logging (debug|info|warn|error, text|json)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides COFFEE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Session directory (overrides COFFEE_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Read environment from this file instead of ./.env")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout", 0, "Request timeout (overrides COFFEE_HTTP_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVar(&skipNetworkCheck, "skip-network-check", false, "Do not probe the API host before requests")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads env configuration and applies flags on top (flag > env > default)
func loadConfig() (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	if apiURL != "" {
		cfg.APIURL = config.EnsureScheme(apiURL)
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	if httpTimeout != 0 {
		cfg.HTTPTimeout = httpTimeout
	}
	if skipNetworkCheck {
		cfg.SkipNetworkCheck = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sessionPollInterval is how often long-running commands reload the session
// file to notice logins and logouts from other processes
var sessionPollInterval = time.Second

// maxBurst is the request burst allowed when COFFEE_MAX_RPS is set
const maxBurst = 3

// deps holds what every command shares: one store, one repository
type deps struct {
	cfg     *config.Config
	store   *session.Store
	repo    *repository.Repository
	network connectivity.Checker
}

// openDeps wires the session store, API client, and repository
func openDeps(cfg *config.Config) (*deps, error) {
	store, err := session.Open(session.NewFileBackend(cfg.ConfigDir))
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRateLimit(cfg.MaxRPS, maxBurst),
	)

	var network connectivity.Checker = connectivity.Always(true)
	if !cfg.SkipNetworkCheck {
		probe, err := connectivity.NewProbe(cfg.APIURL)
		if err != nil {
			return nil, err
		}
		network = probe
	}

	return &deps{
		cfg:     cfg,
		store:   store,
		repo:    repository.New(api, store),
		network: network,
	}, nil
}

// runFunc is the body of a command. It returns the process exit code.
type runFunc func(ctx context.Context, d *deps, w io.Writer) int

// execute sets up signals, config, logging, and deps, then runs fn
func execute(fn runFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	d, err := openDeps(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	exitCode := fn(ctx, d, os.Stdout)
	if exitCode != exitOK {
		cancel()
		os.Exit(exitCode)
	}
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

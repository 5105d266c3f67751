// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-client CLI, a terminal
// front end for the author scraping API.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-client/internal/api"
	"github.com/pdiddy/scholar-client/internal/cache"
	"github.com/pdiddy/scholar-client/internal/logs"
	"github.com/pdiddy/scholar-client/internal/secrets"
	"github.com/pdiddy/scholar-client/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is configured in PersistentPreRunE from --log-level.
	logger *logging.Logger

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets
)

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets.Get(key)
}

// rootCmd is the base command for the scholar-client CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-client",
	Short: "Scrape author publications through the scholar API and browse them",
	Long: `scholar-client talks to the scholar scraping API. Submit an author name
with "scrape" and the backend crawls that author's profile and stores the
articles it finds; "list" shows every stored article as a table.

The API address comes from --api-url, SCHOLAR_CLIENT_API_URL, or api.url in
scholar-client.yaml (default http://localhost:5000/api).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		l, err := logs.New(os.Stderr, viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Infof("using config file %s", f)
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Infof("loaded secrets: %v", s.Names())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./scholar-client.yaml or ~/.config/scholar-client/config.yaml)")
	flags.String("api-url", "", "scraping API base URL (default "+api.DefaultBaseURL+")")
	flags.String("log-level", "", "diagnostic log level: critical, error, warning, notice, info, debug")
	flags.String("cache", "", "local cache database (default: user cache dir)")
	flags.Bool("no-cache", false, "do not read or write the local cache")

	viper.BindPFlag("api.url", flags.Lookup("api-url"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("cache.path", flags.Lookup("cache"))
	viper.BindPFlag("cache.disabled", flags.Lookup("no-cache"))

	viper.SetDefault("api.url", api.DefaultBaseURL)
	viper.SetDefault("api.timeout", api.DefaultTimeout)
	viper.SetDefault("api.scrape_timeout", api.DefaultScrapeTimeout)
	viper.SetDefault("api.max_retries", 3)
	viper.SetDefault("log.level", "warning")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-client")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-client"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_CLIENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// clientConfig assembles the API settings from flags, env, and config.
func clientConfig() types.ClientConfig {
	return types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("api.timeout"),
			UserAgent: "scholar-client/" + version,
		},
		BaseURL:       viper.GetString("api.url"),
		ScrapeTimeout: viper.GetDuration("api.scrape_timeout"),
		MaxRetries:    viper.GetInt("api.max_retries"),
		Token:         secretDefault(secrets.APIToken, viper.GetString("api.token")),
	}
}

func newClient() *api.Client {
	return api.NewClient(clientConfig(), nil, logger)
}

// openCache returns the local cache, or nil when it is disabled or cannot
// be opened. The cache is a convenience; failures never stop a command.
func openCache() *cache.Store {
	if viper.GetBool("cache.disabled") {
		return nil
	}
	store, err := cache.Open(types.CacheConfig{Path: viper.GetString("cache.path")})
	if err != nil {
		logger.Warningf("cache unavailable: %v", err)
		return nil
	}
	return store
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

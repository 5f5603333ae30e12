// Package cmd implements the command-line interface for EasyInterns.
// It provides the root command and subcommands for scraping, ranking, and
// serving aggregated internship postings.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/easyinterns/cmd/harvest"
	"github.com/jonesrussell/easyinterns/cmd/httpd"
	"github.com/jonesrussell/easyinterns/cmd/importcsv"
	"github.com/jonesrussell/easyinterns/cmd/rank"
	cmdscheduler "github.com/jonesrussell/easyinterns/cmd/scheduler"
	"github.com/jonesrussell/easyinterns/cmd/scrape"
	cmdsources "github.com/jonesrussell/easyinterns/cmd/sources"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "easyinterns",
		Short: "An internship aggregator",
		Long:  `Scrapes internship postings from job boards, scores them, and serves the results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get the config path before Viper reads it
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("easyinterns version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(scrape.Command())
	rootCmd.AddCommand(rank.Command())
	rootCmd.AddCommand(harvest.Command())
	rootCmd.AddCommand(importcsv.Command())
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
	rootCmd.AddCommand(cmdsources.Command())
}

// initConfig reads the config file and environment variables into Viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; defaults and environment variables cover a
	// local setup.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	if debug || viper.GetBool("app.debug") {
		viper.Set("app.debug", true)
		viper.Set("logger.level", "debug")
	}
	if viper.GetString("app.environment") == "development" {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	return nil
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment":         {"APP_ENV"},
		"app.debug":               {"APP_DEBUG"},
		"logger.level":            {"LOG_LEVEL"},
		"logger.encoding":         {"LOG_FORMAT"},
		"database.host":           {"POSTGRES_HOST"},
		"database.port":           {"POSTGRES_PORT"},
		"database.user":           {"POSTGRES_USER"},
		"database.password":       {"POSTGRES_PASSWORD"},
		"database.dbname":         {"POSTGRES_DB"},
		"redis.address":           {"REDIS_ADDR"},
		"redis.password":          {"REDIS_PASSWORD"},
		"elasticsearch.addresses": {"ELASTICSEARCH_HOSTS", "ELASTICSEARCH_ADDRESSES"},
		"elasticsearch.password":  {"ELASTIC_PASSWORD", "ELASTICSEARCH_PASSWORD"},
		"elasticsearch.api_key":   {"ELASTICSEARCH_API_KEY"},
	}
	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets production-safe default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "easyinterns",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
	})

	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	viper.SetDefault("database", map[string]any{
		"host":    "localhost",
		"port":    "5432",
		"user":    "easyinterns",
		"dbname":  "easyinterns",
		"sslmode": "disable",
	})

	viper.SetDefault("redis", map[string]any{
		"address": "",
		"db":      0,
	})

	viper.SetDefault("elasticsearch", map[string]any{
		"enabled":    false,
		"addresses":  []string{"http://127.0.0.1:9200"},
		"index_name": "internships",
	})

	viper.SetDefault("scraper", map[string]any{
		"user_agent":      "easyinterns/1.0 (+https://github.com/jonesrussell/easyinterns)",
		"request_timeout": "30s",
		"source_timeout":  "2m",
		"rate_per_second": 2,
		"query":           "internship",
		"location":        "Canada",
		"max_results":     100,
		"greenhouse_companies": []string{
			"stripe", "airbnb", "cloudflare", "databricks", "gitlab",
		},
		"lever_companies": []string{
			"shopify", "netflix", "plaid",
		},
		"rss_feeds": map[string]string{
			"weworkremotely": "https://weworkremotely.com/categories/remote-programming-jobs.rss",
		},
		"enable_linkedin":  false,
		"enable_glassdoor": false,
	})

	viper.SetDefault("pipeline", map[string]any{
		"export_dir":       "exports",
		"schedule":         "0 6 * * *",
		"run_timeout":      "30m",
		"trigger_cooldown": "10m",
		"harvest_top":      25,
	})
}

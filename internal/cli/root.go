package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/yojana/internal/logging"
	"github.com/ppiankov/yojana/internal/model"
)

// Version is the release reported by the version command
const Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yojana",
	Short: "Yojana - government scheme PDFs to structured, multilingual records",
	Long: `Yojana turns agricultural scheme PDFs published by government portals into
structured records and serves them in several languages.

A run has three stages:
  fetch      download scheme PDFs linked from a listing page
  process    extract fields from every PDF into processed_schemes.json
  translate  produce one translated corpus per configured language

The serve command exposes the resulting corpora over a read-only HTTP API.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command; ctx is cancelled on interrupt
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Yojana.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("yojana " + Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.yojana/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home + "/.yojana")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// YOJANA_TRANSLATE_GENERAL overrides translate.general and so on
	viper.SetEnvPrefix("YOJANA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// envOverrides maps conventional provider variables onto config keys
var envOverrides = []struct {
	env string
	key string
}{
	{"INDIC_TRANS_API_KEY", "translate.indic_api_key"},
	{"INDIC_TRANS_API_URL", "translate.indic_url"},
	{"HTTP_PROXY", "http.http_proxy"},
	{"HTTPS_PROXY", "http.https_proxy"},
	{"NO_PROXY", "http.no_proxy"},
}

// providerKeys holds the API key variable per general backend
var providerKeys = map[string]string{
	"google":    "GOOGLE_TRANSLATE_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
}

// loadConfig merges defaults, the config file and the environment
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	for _, o := range envOverrides {
		if v := os.Getenv(o.env); v != "" && !viper.IsSet(o.key) {
			viper.Set(o.key, v)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	general := strings.ToLower(cfg.Translate.General)
	if cfg.Translate.APIKey == "" {
		if env, ok := providerKeys[general]; ok {
			cfg.Translate.APIKey = os.Getenv(env)
		}
	}
	if general == "ollama" && cfg.Translate.BaseURL == "" {
		cfg.Translate.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newLogger builds the structured logger from config; --verbose forces debug
func newLogger(cfg *model.Config) *logging.Logger {
	level := cfg.Log.Level
	if cfg.Output.Verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: cfg.Log.Format,
	})
}

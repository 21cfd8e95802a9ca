package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/matching"
)

const (
	app = "hh-matcher"
)

type Config struct {
	AI         *AIConfig         `mapstructure:"ai"`
	Scoring    *ScoringConfig    `mapstructure:"scoring"`
	Output     *OutputConfig     `mapstructure:"output"`
	Cache      *CacheConfig      `mapstructure:"cache"`
	Batch      *BatchConfig      `mapstructure:"batch"`
	Headhunter *HeadhunterConfig `mapstructure:"headhunter"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	Ollama       *OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OllamaConfig struct {
	URL         string        `mapstructure:"url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Format      string        `mapstructure:"format"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ScoringConfig struct {
	Weights map[string]float64 `mapstructure:"weights"`
}

type OutputConfig struct {
	SaveResults  bool   `mapstructure:"save-results"`
	ResultsDir   string `mapstructure:"results-dir"`
	IncludeDebug bool   `mapstructure:"include-debug"`
}

type CacheConfig struct {
	// Path of the leveldb directory. Empty keeps the cache in memory.
	Path string `mapstructure:"path"`
}

type BatchConfig struct {
	Concurrency  int `mapstructure:"concurrency"`
	MinimumScore int `mapstructure:"minimum-score"`
}

type HeadhunterConfig struct {
	UserAgent   string                   `mapstructure:"user-agent"`
	TokenFile   string                   `mapstructure:"token-file"`
	Search      *headhunter.SearchParams `mapstructure:"search"`
	ExcludeFile string                   `mapstructure:"exclude-file"`
	Employers   []string                 `mapstructure:"employers"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-matcher scores how well a résumé fits a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	for key, env := range map[string]string{
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"headhunter.token-file":  "HH_TOKEN_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	weights := make(map[string]any, len(matching.WeightKeys))
	for key, value := range matching.DefaultWeights() {
		weights[key] = value
	}

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.ollama.url", "http://localhost:11434/api/generate")
	v.SetDefault("ai.ollama.model", "llama3.2:3b")
	v.SetDefault("ai.ollama.temperature", 0.1)
	v.SetDefault("ai.ollama.format", "json")
	v.SetDefault("ai.ollama.timeout", 5*time.Minute)
	v.SetDefault("scoring.weights", weights)
	v.SetDefault("output.save-results", false)
	v.SetDefault("output.results-dir", "results")
	v.SetDefault("output.include-debug", true)
	v.SetDefault("cache.path", "")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.minimum-score", 0)
}

func initConfig() {
	// .env is optional and never overrides variables already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// We can't proceed if the given config file parsed with error.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	// Defaults are enough to run, so a missing config file is fine.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Ollama == nil {
		config.AI.Ollama = &OllamaConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}
	if config.Cache == nil {
		config.Cache = &CacheConfig{}
	}
	if config.Batch == nil {
		config.Batch = &BatchConfig{}
	}
	if config.Headhunter == nil {
		config.Headhunter = &HeadhunterConfig{}
	}

	return config, nil
}

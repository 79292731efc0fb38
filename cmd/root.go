package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/powerus/internal/ai/claude"
	"github.com/spigell/powerus/internal/ai/gemini"
	"github.com/spigell/powerus/internal/chat"
	"github.com/spigell/powerus/internal/logger"
	"github.com/spigell/powerus/internal/matching"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"github.com/spigell/powerus/internal/server"
	"go.uber.org/zap"
)

const (
	app = "powerus"
)

type Config struct {
	LLM      *LLMConfig       `mapstructure:"llm"`
	Server   server.Config    `mapstructure:"server"`
	Roster   RosterConfig     `mapstructure:"roster"`
	Matching *matching.Config `mapstructure:"matching"`
	Pricing  PricingConfig    `mapstructure:"pricing"`
	Chat     chat.Config      `mapstructure:"chat"`
}

type LLMConfig struct {
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Claude       *ClaudeConfig `mapstructure:"claude"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type ClaudeConfig struct {
	APIKey            string `mapstructure:"api-key" json:"-"`
	APIKeyFile        string `mapstructure:"api-key-file"`
	Model             string `mapstructure:"model"`
	BaseURL           string `mapstructure:"base-url"`
	MaxTokens         int    `mapstructure:"max-tokens"`
	RequestsPerMinute int    `mapstructure:"requests-per-minute"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key" json:"-"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type RosterConfig struct {
	// File is a YAML roster. The built-in sample roster is used when it is empty.
	File string `mapstructure:"file"`
}

type PricingConfig struct {
	LLMEstimates    bool          `mapstructure:"llm-estimates"`
	DefaultHours    float64       `mapstructure:"default-hours"`
	EstimateTimeout time.Duration `mapstructure:"estimate-timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "powerus matches home repair problems with local professionals and quotes the job",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix(app)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("roster.file", "POWERUS_ROSTER_FILE"); err != nil {
		log.Fatalf("binding POWERUS_ROSTER_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is powerus.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("llm.provider", "claude")
	viper.SetDefault("llm.timeout", problem.DefaultAnalysisTimeout)
	viper.SetDefault("llm.max-log-length", 200)
	viper.SetDefault("llm.claude.model", claude.DefaultModel)
	viper.SetDefault("llm.claude.base-url", claude.DefaultBaseURL)
	viper.SetDefault("llm.claude.max-tokens", claude.DefaultMaxTokens)
	viper.SetDefault("llm.gemini.model", gemini.DefaultModel)
	viper.SetDefault("llm.gemini.max-retries", gemini.DefaultMaxRetries)

	viper.SetDefault("server.listen", server.DefaultListen)
	viper.SetDefault("server.shutdown-timeout", server.DefaultShutdownTimeout)

	viper.SetDefault("matching.max-distance", 0)
	viper.SetDefault("matching.exclude", []string{})
	viper.SetDefault("matching.disabled", []string{})

	viper.SetDefault("pricing.llm-estimates", false)
	viper.SetDefault("pricing.default-hours", chat.DefaultHours)
	viper.SetDefault("pricing.estimate-timeout", pricing.DefaultEstimateTimeout)

	viper.SetDefault("chat.min-confidence", chat.DefaultMinConfidence)
	viper.SetDefault("chat.max-matches", chat.DefaultMaxMatches)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// Every command works on defaults, so only a broken config file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.LLM == nil {
		config.LLM = &LLMConfig{}
	}
	if config.LLM.Claude == nil {
		config.LLM.Claude = &ClaudeConfig{}
	}
	if config.LLM.Gemini == nil {
		config.LLM.Gemini = &GeminiConfig{}
	}
	config.Chat.DefaultHours = config.Pricing.DefaultHours

	return config, nil
}

// setup builds the logger and decodes the configuration, exiting on failure.
func setup() (*Config, *zap.Logger) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config, logger
}

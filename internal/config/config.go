package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config describes the top-level application configuration loaded from YAML and ENV.
type Config struct {
	Version   string                    `mapstructure:"version"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Models    map[string]ModelConfig    `mapstructure:"models"`
	Dispatch  DispatchConfig            `mapstructure:"dispatch"`
	Cases     CasesConfig               `mapstructure:"cases"`
	Logging   LoggingConfig             `mapstructure:"logging"`
	Server    ServerConfig              `mapstructure:"server"`
}

// ProviderConfig represents an inference backend such as the Hugging Face
// router, an OpenAI-compatible gateway, local Ollama, or the offline simulator.
type ProviderConfig struct {
	Type      string        `mapstructure:"type"`        // hf, openai, openrouter, vllm, lmstudio, custom, ollama, simulator
	BaseURL   string        `mapstructure:"base_url"`    // API base URL
	APIKey    string        `mapstructure:"api_key"`     // bearer credential; prefer api_key_env
	APIKeyEnv string        `mapstructure:"api_key_env"` // env var holding the credential (default HF_TOKEN for type hf)
	Timeout   time.Duration `mapstructure:"timeout"`     // request timeout
	MaxTokens int           `mapstructure:"max_tokens"`  // optional provider-level token cap
}

// ModelConfig binds a logical model id to a provider entry and model parameters.
type ModelConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Default     bool    `mapstructure:"default"`
}

// DispatchConfig controls the prompt dispatcher: the ordered candidate
// chain and the token-budget bounds.
type DispatchConfig struct {
	Candidates      []string `mapstructure:"candidates"`        // ordered model ids, highest preference first
	MaxBudgetTokens int      `mapstructure:"max_budget_tokens"` // ceiling requested budgets are clamped to
	DefaultBudget   int      `mapstructure:"default_budget"`    // used when the caller supplies none
	SystemPrompt    string   `mapstructure:"system_prompt"`     // optional system message sent with every request
}

// CasesConfig configures the case-study catalog.
type CasesConfig struct {
	Path        string        `mapstructure:"path"`         // optional YAML catalog overriding the builtin cases
	TypingDelay time.Duration `mapstructure:"typing_delay"` // simulator streaming cadence per word
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// ServerConfig describes daemon settings.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	Transport      string `mapstructure:"transport"` // connect or ndjson (CLI streaming)
}

// Load reads configuration from the provided path or defaults to configs/config.yaml.
// Environment variables override file values (prefix: THINKSIM_, dots replaced
// with underscores).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("THINKSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && path == "" {
			v.SetConfigName("config.example")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.resolveCredentials()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveCredentials fills provider API keys from the environment when the
// config carries only an env var name.
func (c *Config) resolveCredentials() {
	for name, p := range c.Providers {
		if p.APIKey != "" {
			continue
		}
		envName := p.APIKeyEnv
		if envName == "" && p.Type == "hf" {
			envName = "HF_TOKEN"
		}
		if envName == "" {
			continue
		}
		p.APIKey = os.Getenv(envName)
		p.APIKeyEnv = envName
		c.Providers[name] = p
	}
}

// setDefaults populates sensible defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("dispatch.candidates", []string{})
	v.SetDefault("dispatch.max_budget_tokens", 2048)
	v.SetDefault("dispatch.default_budget", 200)
	v.SetDefault("dispatch.system_prompt", "")

	v.SetDefault("cases.path", "")
	v.SetDefault("cases.typing_delay", 30*time.Millisecond)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_enabled", true)
	v.SetDefault("server.transport", "ndjson")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}

	if len(c.Models) == 0 {
		return errors.New("at least one model must be defined")
	}

	for name, p := range c.Providers {
		if p.Type == "" {
			return fmt.Errorf("provider %q must define type", name)
		}
		if p.Timeout < 0 {
			return fmt.Errorf("provider %q timeout cannot be negative", name)
		}
	}

	var defaultFound bool
	for name, m := range c.Models {
		if m.Provider == "" {
			return fmt.Errorf("model %q must reference provider", name)
		}

		if _, ok := c.Providers[m.Provider]; !ok {
			return fmt.Errorf("model %q references unknown provider %q", name, m.Provider)
		}

		if m.Temperature < 0 || m.Temperature > 2 {
			return fmt.Errorf("model %q temperature must be within [0,2]", name)
		}

		if m.MaxTokens < 0 {
			return fmt.Errorf("model %q max_tokens cannot be negative", name)
		}

		if m.Default {
			defaultFound = true
		}
	}

	if !defaultFound {
		return errors.New("at least one model should be marked as default")
	}

	if len(c.Dispatch.Candidates) == 0 {
		return errors.New("dispatch.candidates must list at least one model id")
	}
	for _, id := range c.Dispatch.Candidates {
		if _, ok := c.Models[id]; !ok {
			return fmt.Errorf("dispatch candidate references unknown model %q", id)
		}
	}

	if c.Dispatch.MaxBudgetTokens <= 0 {
		return errors.New("dispatch.max_budget_tokens must be > 0")
	}
	if c.Dispatch.DefaultBudget <= 0 {
		return errors.New("dispatch.default_budget must be > 0")
	}
	if c.Dispatch.DefaultBudget > c.Dispatch.MaxBudgetTokens {
		return errors.New("dispatch.default_budget cannot exceed dispatch.max_budget_tokens")
	}

	if c.Cases.TypingDelay < 0 {
		return errors.New("cases.typing_delay cannot be negative")
	}

	switch strings.ToLower(strings.TrimSpace(c.Server.Transport)) {
	case "", "connect", "ndjson":
	default:
		return fmt.Errorf("server.transport must be one of connect or ndjson, got %q", c.Server.Transport)
	}

	return nil
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
	"github.com/aayushsingh8/fake-news-prediction/pkg/ensemble"
	"github.com/aayushsingh8/fake-news-prediction/pkg/extract"
	"github.com/aayushsingh8/fake-news-prediction/pkg/llm"
	"github.com/aayushsingh8/fake-news-prediction/pkg/news"
	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
)

//go:embed default.toml
var defaultTOML []byte

type ServerConfig struct {
	Port               string `toml:"port"`
	LogLevel           string `toml:"log_level"`
	FrontendURL        string `toml:"frontend_url"`
	RateLimitPerMinute int    `toml:"rate_limit_per_minute"`
}

type TransformerConfig struct {
	ModelID         string `toml:"model_id"`
	DocumentModelID string `toml:"document_model_id"`
	BaseURL         string `toml:"base_url"`
	Token           string `toml:"-"`
}

type InputConfig struct {
	MinArticleChars       int   `toml:"min_article_chars"`
	MinDocumentChars      int   `toml:"min_document_chars"`
	ExtractedPreviewChars int   `toml:"extracted_preview_chars"`
	MaxUploadBytes        int64 `toml:"max_upload_bytes"`
}

type TrendingConfig struct {
	Limit          int               `toml:"limit"`
	TimeoutSeconds int               `toml:"timeout_seconds"`
	CacheSeconds   int               `toml:"cache_seconds"`
	Feeds          []news.FeedSource `toml:"feeds"`
}

type Config struct {
	Server      ServerConfig           `toml:"server"`
	Ensemble    prediction.Weights     `toml:"ensemble"`
	Transformer TransformerConfig      `toml:"transformer"`
	Judge       llm.ProviderConfig     `toml:"judge"`
	JudgeTuning llm.JudgeOptions       `toml:"judge_tuning"`
	Input       InputConfig            `toml:"input"`
	Extractor   extract.ArticleOptions `toml:"extractor"`
	Credibility credibility.Lists      `toml:"credibility"`
	Trending    TrendingConfig         `toml:"trending"`

	DatabaseURL        string `toml:"-"`
	RedisURL           string `toml:"-"`
	FinnhubAPIKey      string `toml:"-"`
	AlphaVantageAPIKey string `toml:"-"`
}

// Load reads the embedded defaults, overlays the TOML file at path when path
// is not empty, then applies environment variables. Secrets only come from
// the environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultTOML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.LogLevel, "LOG_LEVEL")
	setString(&cfg.Server.FrontendURL, "FRONTEND_URL")

	setString(&cfg.Transformer.Token, "HF_TOKEN")
	setString(&cfg.Transformer.ModelID, "HF_MODEL_ID")
	setString(&cfg.Transformer.DocumentModelID, "DOCUMENT_MODEL_ID")
	setString(&cfg.Transformer.BaseURL, "HF_API_URL")

	setString(&cfg.Judge.Provider, "JUDGE_PROVIDER")
	setString(&cfg.Judge.Model, "JUDGE_MODEL")
	setString(&cfg.Judge.BaseURL, "JUDGE_BASE_URL")
	setString(&cfg.Judge.APIKey, "LOVABLE_API_KEY")
	setString(&cfg.Judge.APIKey, "JUDGE_API_KEY")

	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.FinnhubAPIKey, "FINNHUB_API_KEY")
	setString(&cfg.AlphaVantageAPIKey, "ALPHA_VANTAGE_API_KEY")

	if v := os.Getenv("JUDGE_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid JUDGE_TEMPERATURE %q: %w", v, err)
		}
		cfg.JudgeTuning.Temperature = f
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE %q: %w", v, err)
		}
		cfg.Server.RateLimitPerMinute = n
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	if err := ensemble.ValidateWeights(c.Ensemble); err != nil {
		return err
	}

	t := c.JudgeTuning
	if t.Temperature < 0 || t.Temperature > 0.2 {
		return fmt.Errorf("judge temperature must be within [0, 0.2], got %v", t.Temperature)
	}
	if t.MaxInputChars <= 0 {
		return errors.New("judge max_input_chars must be positive")
	}
	if t.Boost < 0 || t.BoostCap <= 0 || t.BoostCap > 1 {
		return fmt.Errorf("invalid judge boost %v / cap %v", t.Boost, t.BoostCap)
	}

	switch strings.ToLower(c.Judge.Provider) {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderCompatible, "":
	default:
		return fmt.Errorf("unsupported judge provider: %s", c.Judge.Provider)
	}

	if c.Transformer.ModelID == "" {
		return errors.New("transformer model_id is required")
	}
	if c.Server.RateLimitPerMinute < 0 {
		return errors.New("rate_limit_per_minute must not be negative")
	}
	if c.Input.MinArticleChars < 0 || c.Input.MinDocumentChars < 0 {
		return errors.New("minimum input lengths must not be negative")
	}
	if len(c.Extractor.UserAgents) == 0 {
		return errors.New("extractor needs at least one user agent")
	}

	return nil
}

// Configured reports whether both model credentials are present.
func (c *Config) Configured() bool {
	return c.Transformer.Token != "" && c.Judge.APIKey != ""
}

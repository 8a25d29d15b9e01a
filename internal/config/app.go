package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"liquitrace/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		config.User, config.Pass, config.Host, config.Port, config.Name, sslMode,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Scan struct {
	ChainID              string   `mapstructure:"chain_id"`
	SearchQueries        []string `mapstructure:"search_queries"`
	DexScreenerBaseURL   string   `mapstructure:"dexscreener_base_url"`
	GeckoTerminalBaseURL string   `mapstructure:"geckoterminal_base_url"`
	RetentionHours       int      `mapstructure:"retention_hours"`
	RunTimeoutSeconds    int      `mapstructure:"run_timeout_seconds"`
	Workers              int      `mapstructure:"workers"`
	CronSecret           string   `mapstructure:"cron_secret"`
}

func (s Scan) Retention() time.Duration {
	return time.Duration(s.RetentionHours) * time.Hour
}

func (s Scan) RunTimeout() time.Duration {
	return time.Duration(s.RunTimeoutSeconds) * time.Second
}

type Scheduler struct {
	Enabled    bool   `mapstructure:"enabled"`
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

type OpenAI struct {
	APIKey                 string `mapstructure:"api_key"`
	Model                  string `mapstructure:"model"`
	MaxTokens              int    `mapstructure:"max_tokens"`
	BaseURL                string `mapstructure:"base_url"`
	TimeoutSeconds         int    `mapstructure:"timeout_seconds"`
	SummaryCacheTTLSeconds int    `mapstructure:"summary_cache_ttl_seconds"`
	SummaryCacheMaxItems   int64  `mapstructure:"summary_cache_max_items"`
}

type Swap struct {
	BaseURL        string `mapstructure:"base_url"`
	ReferralWallet string `mapstructure:"referral_wallet"`
	FeeBps         int    `mapstructure:"fee_bps"`
}

type Notifications struct {
	AppURL string `mapstructure:"app_url"`
}

type AppConfig struct {
	HTTPServer    HTTPServer    `mapstructure:"http_server"`
	DbServer      DbServer      `mapstructure:"db_server"`
	HTTPClient    HTTPClient    `mapstructure:"http_client"`
	Logging       Logging       `mapstructure:"logging"`
	Scan          Scan          `mapstructure:"scan"`
	Scheduler     Scheduler     `mapstructure:"scheduler"`
	OpenAI        OpenAI        `mapstructure:"openai"`
	Swap          Swap          `mapstructure:"swap"`
	Notifications Notifications `mapstructure:"notifications"`
}

// Validate checks the settings the service cannot start without.
func (cfg *AppConfig) Validate() error {
	var problems []string
	if cfg.DbServer.Host == "" {
		problems = append(problems, "db_server.host is required")
	}
	if cfg.DbServer.Name == "" {
		problems = append(problems, "db_server.name is required")
	}
	if cfg.OpenAI.APIKey == "" {
		problems = append(problems, "openai.api_key is required")
	}
	if cfg.Scan.ChainID == "" {
		problems = append(problems, "scan.chain_id is required")
	}
	if cfg.Scan.Workers < 1 {
		problems = append(problems, "scan.workers must be at least 1")
	}
	if cfg.Scan.RetentionHours < 1 {
		problems = append(problems, "scan.retention_hours must be at least 1")
	}
	if cfg.Scheduler.Enabled && cfg.Scheduler.Cron == "" {
		problems = append(problems, "scheduler.cron is required when the scheduler is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func Init() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return Load("config.yaml")
}

// Load reads the yaml file at path (a missing file is tolerated), applies defaults and env overrides.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	setDefaults(v)
	bindEnv(v)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.port", "5432")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("logging.level", "info")

	v.SetDefault("scan.chain_id", "base")
	v.SetDefault("scan.search_queries", []string{
		"WETH", "USDC", "trending", "base", "DEGEN", "BRETT", "TOSHI", "HIGHER", "meme", "social", "AI",
	})
	v.SetDefault("scan.dexscreener_base_url", "https://api.dexscreener.com")
	v.SetDefault("scan.geckoterminal_base_url", "https://api.geckoterminal.com")
	v.SetDefault("scan.retention_hours", 48)
	v.SetDefault("scan.run_timeout_seconds", 300)
	v.SetDefault("scan.workers", 1)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.cron", "*/10 * * * *")
	v.SetDefault("scheduler.run_on_start", true)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 120)
	v.SetDefault("openai.timeout_seconds", 20)
	v.SetDefault("openai.summary_cache_ttl_seconds", 0)
	v.SetDefault("openai.summary_cache_max_items", 1024)

	v.SetDefault("swap.base_url", "https://matcha.xyz/trade")
	v.SetDefault("swap.fee_bps", 10)

	v.SetDefault("notifications.app_url", "https://liquitrace.vercel.app")
}

func bindEnv(v *viper.Viper) {
	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.ssl_mode", "DB_SSL_MODE")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")

	// scan env vars
	_ = v.BindEnv("scan.chain_id", "SCAN_CHAIN_ID")
	_ = v.BindEnv("scan.search_queries", "SCAN_SEARCH_QUERIES")
	_ = v.BindEnv("scan.workers", "SCAN_WORKERS")
	_ = v.BindEnv("scan.cron_secret", "CRON_SECRET")

	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.cron", "SCHEDULER_CRON")

	// openai env vars
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.model", "OPENAI_MODEL")
	_ = v.BindEnv("openai.base_url", "OPENAI_BASE_URL")

	_ = v.BindEnv("swap.referral_wallet", "REFERRAL_WALLET")
	_ = v.BindEnv("notifications.app_url", "APP_URL")
}

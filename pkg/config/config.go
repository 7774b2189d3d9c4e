package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "merchpulse"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Dataset  DatasetConfig
	DB       DBConfig
	Redis    RedisConfig
	Embedder EmbedderConfig
	Gemini   GeminiConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MERCHPULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"MERCHPULSE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MERCHPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERCHPULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DatasetConfig locates the immutable reference tables loaded once at startup.
// JoinDateLayout differs from TimestampLayout because merchant join dates are
// day-first in the source export while order timestamps are ISO-like.
type DatasetConfig struct {
	Dir             string `envconfig:"MERCHPULSE_DATASET_DIR" required:"true"`
	MerchantsFile   string `envconfig:"MERCHPULSE_DATASET_MERCHANTS_FILE" default:"merchants.csv"`
	ItemsFile       string `envconfig:"MERCHPULSE_DATASET_ITEMS_FILE" default:"items.csv"`
	OrdersFile      string `envconfig:"MERCHPULSE_DATASET_ORDERS_FILE" default:"transaction_data.csv"`
	OrderLinesFile  string `envconfig:"MERCHPULSE_DATASET_ORDER_LINES_FILE" default:"transaction_items.csv"`
	KeywordsFile    string `envconfig:"MERCHPULSE_DATASET_KEYWORDS_FILE" default:"keywords.csv"`
	TimestampLayout string `envconfig:"MERCHPULSE_DATASET_TIMESTAMP_LAYOUT" default:"2006-01-02 15:04:05"`
	JoinDateLayout  string `envconfig:"MERCHPULSE_DATASET_JOIN_DATE_LAYOUT" default:"02/01/2006"`
}

type DBConfig struct {
	DSN    string `envconfig:"MERCHPULSE_DB_DSN"`
	Driver string `envconfig:"MERCHPULSE_DB_DRIVER" default:"sqlite"`

	SQLitePath string `envconfig:"MERCHPULSE_DB_SQLITE_PATH" default:"merchpulse.db"`

	MaxOpenConns    int           `envconfig:"MERCHPULSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERCHPULSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERCHPULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERCHPULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"MERCHPULSE_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERCHPULSE_REDIS_URL"`
	Address      string        `envconfig:"MERCHPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"MERCHPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERCHPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERCHPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERCHPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERCHPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERCHPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERCHPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// EmbedderConfig points at the frozen text-encoder sidecar. The service is a
// hard startup dependency: the keyword corpus cannot be built without it.
type EmbedderConfig struct {
	BaseURL string        `envconfig:"MERCHPULSE_EMBEDDER_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"MERCHPULSE_EMBEDDER_TIMEOUT" default:"30s"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"MERCHPULSE_GEMINI_API_KEY"`
	Model   string        `envconfig:"MERCHPULSE_GEMINI_MODEL" default:"gemini-2.0-flash"`
	BaseURL string        `envconfig:"MERCHPULSE_GEMINI_BASE_URL"`
	Timeout time.Duration `envconfig:"MERCHPULSE_GEMINI_TIMEOUT" default:"30s"`
}

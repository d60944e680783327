package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is empty because every field carries its full env var name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Env var names shared with tests.
const (
	EnvAppEnv   = "ONRACK_APP_ENV"
	EnvPort     = "ONRACK_APP_PORT"
	EnvMongoURI = "ONRACK_MONGO_URI"
	EnvRedisURL = "ONRACK_REDIS_URL"
)

type Config struct {
	App       AppConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Reconcile ReconcileConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ONRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"ONRACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ONRACK_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ONRACK_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ONRACK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"ONRACK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type MongoConfig struct {
	URI      string `envconfig:"ONRACK_MONGO_URI" required:"true"`
	Database string `envconfig:"ONRACK_MONGO_DATABASE" default:"onrack"`

	// OpTimeout bounds every collection operation; ConnectTimeout bounds
	// dialing and the startup ping.
	OpTimeout      time.Duration `envconfig:"ONRACK_MONGO_OP_TIMEOUT" default:"5s"`
	ConnectTimeout time.Duration `envconfig:"ONRACK_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"ONRACK_MONGO_MAX_POOL_SIZE" default:"20"`
}

// RedisConfig accepts either a full URL or a broken-out address; the client
// rejects a config that carries neither.
type RedisConfig struct {
	URL          string        `envconfig:"ONRACK_REDIS_URL"`
	Address      string        `envconfig:"ONRACK_REDIS_ADDR"`
	Password     string        `envconfig:"ONRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"ONRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ONRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ONRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ONRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ONRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ONRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ReconcileConfig struct {
	Interval time.Duration `envconfig:"ONRACK_RECONCILE_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"ONRACK_RECONCILE_LOCK_TTL" default:"50m"`
}

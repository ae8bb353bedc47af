package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App             AppConfig
	DB              DBConfig
	Redis           RedisConfig
	JWT             JWTConfig
	Stripe          StripeConfig
	Checkout        CheckoutConfig
	SignupRateLimit SignupRateLimitConfig
	FeatureFlags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string        `envconfig:"FARMSHARE_APP_ENV" required:"true"`
	Port         string        `envconfig:"FARMSHARE_APP_PORT" required:"true"`
	LogLevel     string        `envconfig:"FARMSHARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool          `envconfig:"FARMSHARE_LOG_WARN_STACK" default:"false"`
	ReadTimeout  time.Duration `envconfig:"FARMSHARE_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"FARMSHARE_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"FARMSHARE_HTTP_IDLE_TIMEOUT" default:"60s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FARMSHARE_DB_DSN"`
	Driver string `envconfig:"FARMSHARE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FARMSHARE_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMSHARE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMSHARE_DB_USER"`
	LegacyPassword string `envconfig:"FARMSHARE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMSHARE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMSHARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMSHARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMSHARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMSHARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMSHARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMSHARE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARMSHARE_REDIS_ADDR"`
	Password     string        `envconfig:"FARMSHARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMSHARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMSHARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMSHARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMSHARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMSHARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMSHARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FARMSHARE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FARMSHARE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FARMSHARE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"FARMSHARE_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"FARMSHARE_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"FARMSHARE_STRIPE_ENV" default:"test"`
	BuyerPriceID  string `envconfig:"FARMSHARE_STRIPE_BUYER_PRICE_ID"`
	FarmerPriceID string `envconfig:"FARMSHARE_STRIPE_FARMER_PRICE_ID"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	// DefaultOrigin backs redirect URLs when the request carries no Origin header.
	DefaultOrigin  string        `envconfig:"FARMSHARE_CHECKOUT_DEFAULT_ORIGIN" default:"https://farmdirectmeat.com"`
	PlatformFeeBPS int64         `envconfig:"FARMSHARE_PLATFORM_FEE_BPS" default:"100"`
	WebhookTTL     time.Duration `envconfig:"FARMSHARE_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

type SignupRateLimitConfig struct {
	Window     time.Duration `envconfig:"FARMSHARE_SIGNUP_RATE_WINDOW" default:"1h"`
	IPLimit    int           `envconfig:"FARMSHARE_SIGNUP_RATE_IP_LIMIT" default:"20"`
	EmailLimit int           `envconfig:"FARMSHARE_SIGNUP_RATE_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FARMSHARE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

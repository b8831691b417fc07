package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Midtrans     MidtransConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"ECOMSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"ECOMSTORE_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"ECOMSTORE_APP_BASE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"ECOMSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECOMSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ECOMSTORE_DB_DSN"`
	Driver string `envconfig:"ECOMSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ECOMSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"ECOMSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ECOMSTORE_DB_USER"`
	LegacyPassword string `envconfig:"ECOMSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ECOMSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ECOMSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECOMSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECOMSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECOMSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECOMSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOMSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ECOMSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"ECOMSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOMSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOMSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOMSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOMSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOMSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOMSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ECOMSTORE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ECOMSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ECOMSTORE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ECOMSTORE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECOMSTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECOMSTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECOMSTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECOMSTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECOMSTORE_ARGON_KEY_LEN" default:"32"`
}

type MidtransConfig struct {
	ServerKey       string        `envconfig:"ECOMSTORE_MIDTRANS_SERVER_KEY"`
	ClientKey       string        `envconfig:"ECOMSTORE_MIDTRANS_CLIENT_KEY"`
	MerchantID      string        `envconfig:"ECOMSTORE_MIDTRANS_MERCHANT_ID"`
	Production      bool          `envconfig:"ECOMSTORE_MIDTRANS_IS_PRODUCTION" default:"false"`
	EnabledPayments string        `envconfig:"ECOMSTORE_MIDTRANS_ENABLED_PAYMENTS"`
	HTTPTimeout     time.Duration `envconfig:"ECOMSTORE_MIDTRANS_HTTP_TIMEOUT" default:"10s"`
}

// Configured reports whether the server-side gateway credentials are present.
func (m MidtransConfig) Configured() bool {
	return strings.TrimSpace(m.ServerKey) != "" && strings.TrimSpace(m.MerchantID) != "" && strings.TrimSpace(m.ClientKey) != ""
}

// EnabledPaymentList splits the comma-separated enabled payment channels.
func (m MidtransConfig) EnabledPaymentList() []string {
	raw := strings.TrimSpace(m.EnabledPayments)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type CheckoutConfig struct {
	FreeShippingThreshold int `envconfig:"ECOMSTORE_CHECKOUT_FREE_SHIPPING_THRESHOLD" default:"250"`
	FlatShippingCost      int `envconfig:"ECOMSTORE_CHECKOUT_FLAT_SHIPPING_COST" default:"12"`
	TaxRatePercent        int `envconfig:"ECOMSTORE_CHECKOUT_TAX_RATE_PERCENT" default:"8"`
	DiscountThreshold     int `envconfig:"ECOMSTORE_CHECKOUT_DISCOUNT_THRESHOLD" default:"300"`
	DiscountRatePercent   int `envconfig:"ECOMSTORE_CHECKOUT_DISCOUNT_RATE_PERCENT" default:"7"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ECOMSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ECOMSTORE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins string `envconfig:"ECOMSTORE_CORS_ALLOWED_ORIGINS"`
}

// OriginList splits the comma-separated allowed origin list.
func (c CORSConfig) OriginList() []string {
	raw := strings.TrimSpace(c.AllowedOrigins)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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

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
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Directory    DirectoryConfig
	Permissions  PermissionsConfig
	Mail         MailConfig
	Links        LinksConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"QUOTES_APP_ENV" required:"true"`
	Port         string   `envconfig:"QUOTES_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"QUOTES_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"QUOTES_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"QUOTES_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QUOTES_DB_DSN"`
	Driver string `envconfig:"QUOTES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QUOTES_DB_HOST"`
	LegacyPort     int    `envconfig:"QUOTES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QUOTES_DB_USER"`
	LegacyPassword string `envconfig:"QUOTES_DB_PASSWORD"`
	LegacyName     string `envconfig:"QUOTES_DB_NAME"`
	LegacySSLMode  string `envconfig:"QUOTES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QUOTES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QUOTES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QUOTES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QUOTES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QUOTES_REDIS_URL"`
	Address      string        `envconfig:"QUOTES_REDIS_ADDR"`
	Password     string        `envconfig:"QUOTES_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUOTES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUOTES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUOTES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUOTES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUOTES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUOTES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"QUOTES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"QUOTES_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"QUOTES_EVENTING_IDEMPOTENCY_TTL" default:"72h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"QUOTES_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	QuoteEventsSubscription string `envconfig:"QUOTES_PUBSUB_QUOTE_EVENTS_SUBSCRIPTION"`
}

type DirectoryConfig struct {
	BaseURL string        `envconfig:"QUOTES_DIRECTORY_URL" required:"true"`
	Token   string        `envconfig:"QUOTES_DIRECTORY_TOKEN"`
	Timeout time.Duration `envconfig:"QUOTES_DIRECTORY_TIMEOUT" default:"10s"`
}

type PermissionsConfig struct {
	BaseURL        string        `envconfig:"QUOTES_PERMISSIONS_URL" required:"true"`
	Token          string        `envconfig:"QUOTES_PERMISSIONS_TOKEN"`
	Timeout        time.Duration `envconfig:"QUOTES_PERMISSIONS_TIMEOUT" default:"10s"`
	SalesAdminRole string        `envconfig:"QUOTES_PERMISSIONS_SALES_ADMIN_ROLE" default:"sales-admin"`
	PageSize       int           `envconfig:"QUOTES_PERMISSIONS_PAGE_SIZE" default:"25"`
}

type MailConfig struct {
	BaseURL string        `envconfig:"QUOTES_MAIL_URL" required:"true"`
	Token   string        `envconfig:"QUOTES_MAIL_TOKEN"`
	Timeout time.Duration `envconfig:"QUOTES_MAIL_TIMEOUT" default:"10s"`
	Account string        `envconfig:"QUOTES_MAIL_ACCOUNT" required:"true"`
}

type LinksConfig struct {
	Host     string `envconfig:"QUOTES_LINKS_HOST" required:"true"`
	RootPath string `envconfig:"QUOTES_LINKS_ROOT_PATH" default:"/"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.Driver = DriverSQLite
		db.DSN = defaultSQLiteDSN
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

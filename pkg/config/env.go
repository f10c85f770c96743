package config

const (
	EnvPrefix = "QUOTES"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:quotes.db?cache=shared"
)

const (
	EnvAppEnv       = "QUOTES_APP_ENV"
	EnvPort         = "QUOTES_APP_PORT"
	EnvDBDSN        = "QUOTES_DB_DSN"
	EnvDBHost       = "QUOTES_DB_HOST"
	EnvDBUser       = "QUOTES_DB_USER"
	EnvDBName       = "QUOTES_DB_NAME"
	EnvUseSQLite    = "QUOTES_USE_SQLITE"
	EnvRedisURL     = "QUOTES_REDIS_URL"
	EnvDirectoryURL = "QUOTES_DIRECTORY_URL"
	EnvPermsURL     = "QUOTES_PERMISSIONS_URL"
	EnvMailURL      = "QUOTES_MAIL_URL"
	EnvMailAccount  = "QUOTES_MAIL_ACCOUNT"
	EnvLinksHost    = "QUOTES_LINKS_HOST"
	EnvLinksRoot    = "QUOTES_LINKS_ROOT_PATH"
	EnvSubscription = "QUOTES_PUBSUB_QUOTE_EVENTS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

// EnvPrefix is passed to envconfig.Process; individual fields carry the full
// variable name so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared between Load and the tests.
const (
	EnvAppEnv   = "ECOMSTORE_APP_ENV"
	EnvPort     = "ECOMSTORE_APP_PORT"
	EnvDBDSN    = "ECOMSTORE_DB_DSN"
	EnvDBHost   = "ECOMSTORE_DB_HOST"
	EnvDBUser   = "ECOMSTORE_DB_USER"
	EnvDBName   = "ECOMSTORE_DB_NAME"
	EnvDBPort   = "ECOMSTORE_DB_PORT"
	EnvDBPass   = "ECOMSTORE_DB_PASSWORD"
	EnvRedisURL = "ECOMSTORE_REDIS_URL"

	EnvJWTSecret              = "ECOMSTORE_JWT_SECRET"
	EnvJWTIssuer              = "ECOMSTORE_JWT_ISSUER"
	EnvJWTExpMins             = "ECOMSTORE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ECOMSTORE_REFRESH_TOKEN_TTL_MINUTES"

	EnvMidtransServerKey  = "ECOMSTORE_MIDTRANS_SERVER_KEY"
	EnvMidtransClientKey  = "ECOMSTORE_MIDTRANS_CLIENT_KEY"
	EnvMidtransMerchantID = "ECOMSTORE_MIDTRANS_MERCHANT_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

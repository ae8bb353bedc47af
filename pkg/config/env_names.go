package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "FARMSHARE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FARMSHARE_DB_DSN"
	EnvDBHost = "FARMSHARE_DB_HOST"
	EnvDBUser = "FARMSHARE_DB_USER"
	EnvDBName = "FARMSHARE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

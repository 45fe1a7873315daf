package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverRedis  = "redis"
	StorageDriverDB     = "db"
	StorageDriverMemory = "memory"
	StorageDriverNone   = "none"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	RemoveScopeProduct = "product"
	RemoveScopeVariant = "variant"
)

const (
	EnvAppEnv          = "STOREFRONT_APP_ENV"
	EnvPort            = "STOREFRONT_APP_PORT"
	EnvDBDSN           = "STOREFRONT_DB_DSN"
	EnvDBHost          = "STOREFRONT_DB_HOST"
	EnvDBUser          = "STOREFRONT_DB_USER"
	EnvDBName          = "STOREFRONT_DB_NAME"
	EnvRedisURL        = "STOREFRONT_REDIS_URL"
	EnvRedisAddr       = "STOREFRONT_REDIS_ADDR"
	EnvStorageDriver   = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageTTL      = "STOREFRONT_STORAGE_TTL"
	EnvCartRemoveScope = "STOREFRONT_CART_REMOVE_SCOPE"
	EnvDBDriver        = "STOREFRONT_DB_DRIVER"
	EnvSQLitePath      = "STOREFRONT_SQLITE_PATH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

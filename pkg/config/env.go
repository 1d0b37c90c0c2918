package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "CUSTODY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

package config

const EnvPrefix = "SHIPMENT_TRACKER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EmailTransportConsole = "console"
	EmailTransportSMTP    = "smtp"
)

const (
	EnvAppEnv         = "SHIPMENT_TRACKER_APP_ENV"
	EnvPort           = "SHIPMENT_TRACKER_APP_PORT"
	EnvLogLevel       = "SHIPMENT_TRACKER_LOG_LEVEL"
	EnvCORSOrigins    = "SHIPMENT_TRACKER_CORS_ALLOWED_ORIGINS"
	EnvDBDSN          = "SHIPMENT_TRACKER_DB_DSN"
	EnvDBHost         = "SHIPMENT_TRACKER_DB_HOST"
	EnvDBPort         = "SHIPMENT_TRACKER_DB_PORT"
	EnvDBUser         = "SHIPMENT_TRACKER_DB_USER"
	EnvDBPassword     = "SHIPMENT_TRACKER_DB_PASSWORD"
	EnvDBName         = "SHIPMENT_TRACKER_DB_NAME"
	EnvRedisURL       = "SHIPMENT_TRACKER_REDIS_URL"
	EnvJWTSecret      = "SHIPMENT_TRACKER_JWT_SECRET"
	EnvJWTIssuer      = "SHIPMENT_TRACKER_JWT_ISSUER"
	EnvJWTExpMins     = "SHIPMENT_TRACKER_JWT_EXPIRATION_MINUTES"
	EnvEmailTransport = "SHIPMENT_TRACKER_EMAIL_TRANSPORT"
	EnvSMTPHost       = "SHIPMENT_TRACKER_SMTP_HOST"
	EnvSMTPPort       = "SHIPMENT_TRACKER_SMTP_PORT"
	EnvCaptchaEnabled = "SHIPMENT_TRACKER_CAPTCHA_ENABLED"
	EnvGCPProjectID   = "SHIPMENT_TRACKER_GCP_PROJECT_ID"
	EnvPubSubTopic    = "SHIPMENT_TRACKER_PUBSUB_DOMAIN_TOPIC"
	EnvCronInterval   = "SHIPMENT_TRACKER_CRON_INTERVAL"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

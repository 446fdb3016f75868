package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Cookie        CookieConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Email         EmailConfig
	Captcha       CaptchaConfig
	GCP           GCPConfig
	Sheets        SheetsConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Email.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env                string   `envconfig:"SHIPMENT_TRACKER_APP_ENV" required:"true"`
	Port               string   `envconfig:"SHIPMENT_TRACKER_APP_PORT" required:"true"`
	LogLevel           string   `envconfig:"SHIPMENT_TRACKER_LOG_LEVEL" default:"info"`
	LogFormat          string   `envconfig:"SHIPMENT_TRACKER_LOG_FORMAT" default:"json"`
	LogWarnStack       bool     `envconfig:"SHIPMENT_TRACKER_LOG_WARN_STACK" default:"false"`
	PublicBaseURL      string   `envconfig:"SHIPMENT_TRACKER_PUBLIC_BASE_URL" default:"http://localhost:8080"`
	CORSAllowedOrigins []string `envconfig:"SHIPMENT_TRACKER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHIPMENT_TRACKER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHIPMENT_TRACKER_DB_DSN"`
	Driver string `envconfig:"SHIPMENT_TRACKER_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHIPMENT_TRACKER_DB_HOST"`
	Port     int    `envconfig:"SHIPMENT_TRACKER_DB_PORT" default:"5432"`
	User     string `envconfig:"SHIPMENT_TRACKER_DB_USER"`
	Password string `envconfig:"SHIPMENT_TRACKER_DB_PASSWORD"`
	Name     string `envconfig:"SHIPMENT_TRACKER_DB_NAME"`
	SSLMode  string `envconfig:"SHIPMENT_TRACKER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHIPMENT_TRACKER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHIPMENT_TRACKER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHIPMENT_TRACKER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHIPMENT_TRACKER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHIPMENT_TRACKER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHIPMENT_TRACKER_REDIS_ADDR"`
	Password     string        `envconfig:"SHIPMENT_TRACKER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHIPMENT_TRACKER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHIPMENT_TRACKER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHIPMENT_TRACKER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHIPMENT_TRACKER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHIPMENT_TRACKER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHIPMENT_TRACKER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig signs the token stored in the session cookie.
type JWTConfig struct {
	Secret            string `envconfig:"SHIPMENT_TRACKER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHIPMENT_TRACKER_JWT_ISSUER" default:"shipment-tracker"`
	ExpirationMinutes int    `envconfig:"SHIPMENT_TRACKER_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// SessionTTL returns how long a login session stays valid.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CookieConfig struct {
	Name   string `envconfig:"SHIPMENT_TRACKER_COOKIE_NAME" default:"auth"`
	Domain string `envconfig:"SHIPMENT_TRACKER_COOKIE_DOMAIN"`
	Secure bool   `envconfig:"SHIPMENT_TRACKER_COOKIE_SECURE" default:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHIPMENT_TRACKER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHIPMENT_TRACKER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHIPMENT_TRACKER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHIPMENT_TRACKER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHIPMENT_TRACKER_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ResetWindow        time.Duration `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetEmailLimit    int           `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit       int           `envconfig:"SHIPMENT_TRACKER_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHIPMENT_TRACKER_AUTO_MIGRATE" default:"false"`
}

// EmailConfig selects how outgoing mail is delivered. The console transport
// only logs messages.
type EmailConfig struct {
	Transport    string `envconfig:"SHIPMENT_TRACKER_EMAIL_TRANSPORT" default:"console"`
	From         string `envconfig:"SHIPMENT_TRACKER_EMAIL_FROM" default:"no-reply@distributeaid.org"`
	SMTPHost     string `envconfig:"SHIPMENT_TRACKER_SMTP_HOST"`
	SMTPPort     int    `envconfig:"SHIPMENT_TRACKER_SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SHIPMENT_TRACKER_SMTP_USER"`
	SMTPPassword string `envconfig:"SHIPMENT_TRACKER_SMTP_PASSWORD"`
	SMTPSecure   bool   `envconfig:"SHIPMENT_TRACKER_SMTP_SECURE" default:"false"`
}

func (e EmailConfig) UsesSMTP() bool {
	return strings.EqualFold(strings.TrimSpace(e.Transport), EmailTransportSMTP)
}

func (e EmailConfig) validate() error {
	transport := strings.ToLower(strings.TrimSpace(e.Transport))
	switch transport {
	case EmailTransportConsole:
		return nil
	case EmailTransportSMTP:
		if e.SMTPHost == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvSMTPHost, EnvEmailTransport, EmailTransportSMTP)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvEmailTransport, e.Transport)
	}
}

type CaptchaConfig struct {
	Enabled   bool          `envconfig:"SHIPMENT_TRACKER_CAPTCHA_ENABLED" default:"false"`
	Secret    string        `envconfig:"SHIPMENT_TRACKER_HCAPTCHA_SECRET"`
	VerifyURL string        `envconfig:"SHIPMENT_TRACKER_HCAPTCHA_VERIFY_URL" default:"https://hcaptcha.com/siteverify"`
	Timeout   time.Duration `envconfig:"SHIPMENT_TRACKER_CAPTCHA_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"SHIPMENT_TRACKER_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"SHIPMENT_TRACKER_GCP_CREDENTIALS_JSON"`
}

type SheetsConfig struct {
	Enabled bool `envconfig:"SHIPMENT_TRACKER_SHEETS_ENABLED" default:"false"`
}

type PubSubConfig struct {
	DomainTopic              string        `envconfig:"SHIPMENT_TRACKER_PUBSUB_DOMAIN_TOPIC" default:"shipment-tracker-domain-events"`
	NotificationSubscription string        `envconfig:"SHIPMENT_TRACKER_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"shipment-tracker-notifications"`
	IdempotencyTTL           time.Duration `envconfig:"SHIPMENT_TRACKER_PUBSUB_IDEMPOTENCY_TTL" default:"168h"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SHIPMENT_TRACKER_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SHIPMENT_TRACKER_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SHIPMENT_TRACKER_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval             time.Duration `envconfig:"SHIPMENT_TRACKER_CRON_INTERVAL" default:"10m"`
	LockTTL              time.Duration `envconfig:"SHIPMENT_TRACKER_CRON_LOCK_TTL" default:"5m"`
	VerificationTokenTTL time.Duration `envconfig:"SHIPMENT_TRACKER_VERIFICATION_TOKEN_TTL" default:"30m"`
	ExportRetention      time.Duration `envconfig:"SHIPMENT_TRACKER_EXPORT_RETENTION" default:"2160h"`
	OutboxRetention      time.Duration `envconfig:"SHIPMENT_TRACKER_OUTBOX_RETENTION" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

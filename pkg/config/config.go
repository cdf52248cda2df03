package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "docintel"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "DOCINTEL_DB_DSN"
	EnvDBHost = "DOCINTEL_DB_HOST"
	EnvDBUser = "DOCINTEL_DB_USER"
	EnvDBName = "DOCINTEL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Vertex       VertexConfig
	Ingest       IngestConfig
	Documents    DocumentsConfig
	Cron         CronConfig
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
	Env          string `envconfig:"DOCINTEL_APP_ENV" required:"true"`
	Port         string `envconfig:"DOCINTEL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DOCINTEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DOCINTEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DOCINTEL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DOCINTEL_DB_DSN"`
	Driver string `envconfig:"DOCINTEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DOCINTEL_DB_HOST"`
	LegacyPort     int    `envconfig:"DOCINTEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DOCINTEL_DB_USER"`
	LegacyPassword string `envconfig:"DOCINTEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"DOCINTEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"DOCINTEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DOCINTEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DOCINTEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DOCINTEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DOCINTEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DOCINTEL_REDIS_URL"`
	Address      string        `envconfig:"DOCINTEL_REDIS_ADDR"`
	Password     string        `envconfig:"DOCINTEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"DOCINTEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DOCINTEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DOCINTEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DOCINTEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DOCINTEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DOCINTEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DOCINTEL_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DOCINTEL_GCP_PROJECT_ID" required:"true"`
	Region                 string `envconfig:"DOCINTEL_GCP_REGION" default:"us-central1"`
	CredentialsJSON        string `envconfig:"DOCINTEL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DOCINTEL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	DocumentsBucket string        `envconfig:"DOCINTEL_GCS_DOCUMENTS_BUCKET" required:"true"`
	ProcessedBucket string        `envconfig:"DOCINTEL_GCS_PROCESSED_BUCKET" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"DOCINTEL_GCS_UPLOAD_URL_EXPIRY" default:"1h"`
}

type PubSubConfig struct {
	UploadsTopic        string `envconfig:"DOCINTEL_PUBSUB_UPLOADS_TOPIC" default:"docintel-upload-events"`
	UploadsSubscription string `envconfig:"DOCINTEL_PUBSUB_UPLOADS_SUBSCRIPTION" default:"docintel-upload-events-sub"`
}

type BigQueryConfig struct {
	Dataset              string `envconfig:"DOCINTEL_BIGQUERY_DATASET" default:"docintel"`
	ProcessedEventsTable string `envconfig:"DOCINTEL_BIGQUERY_PROCESSED_TABLE" default:"processed_documents"`
}

type VertexConfig struct {
	EntityModel    string `envconfig:"DOCINTEL_VERTEX_ENTITY_MODEL" default:"gemini-1.5-flash"`
	KeyPhraseModel string `envconfig:"DOCINTEL_VERTEX_KEYPHRASE_MODEL" default:"gemini-1.5-flash"`
	SentimentModel string `envconfig:"DOCINTEL_VERTEX_SENTIMENT_MODEL" default:"gemini-1.5-flash"`
	DocumentModel  string `envconfig:"DOCINTEL_VERTEX_DOCUMENT_MODEL" default:"gemini-1.5-pro"`
	LanguageCode   string `envconfig:"DOCINTEL_VERTEX_LANGUAGE" default:"en"`
}

type IngestConfig struct {
	UploadPrefix    string `envconfig:"DOCINTEL_INGEST_UPLOAD_PREFIX" default:"uploads/"`
	ProcessedPrefix string `envconfig:"DOCINTEL_INGEST_PROCESSED_PREFIX" default:"processed/"`
	SampleBytes     int64  `envconfig:"DOCINTEL_INGEST_SAMPLE_BYTES" default:"5000"`
	PreviewChars    int    `envconfig:"DOCINTEL_INGEST_PREVIEW_CHARS" default:"500"`
	MaxListEntries  int    `envconfig:"DOCINTEL_INGEST_MAX_LIST_ENTRIES" default:"20"`
}

type DocumentsConfig struct {
	RecordTTL time.Duration `envconfig:"DOCINTEL_DOCUMENT_RECORD_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"DOCINTEL_CRON_INTERVAL" default:"1h"`
	LockKey  string        `envconfig:"DOCINTEL_CRON_LOCK_KEY" default:"docintel:cron:lock"`
	LockTTL  time.Duration `envconfig:"DOCINTEL_CRON_LOCK_TTL" default:"2h"`
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

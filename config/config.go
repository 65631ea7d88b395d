package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config contiene la configuración de la aplicación, leída de variables de entorno
type Config struct {
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Base de datos
	DBDriver    string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"3306"`
	DBUser      string `envconfig:"DB_USER" default:"renttar_user"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:"renttar_password"`
	DBName      string `envconfig:"DB_NAME" default:"renttar"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" default:"default-secret-change-in-production"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`

	// Caché
	MemcachedHost   string `envconfig:"MEMCACHED_HOST"`
	CacheTTLSeconds int    `envconfig:"CACHE_TTL_SECONDS" default:"300"`

	// RabbitMQ. Vacío = los eventos se despachan en el mismo proceso
	RabbitMQURL        string `envconfig:"RABBITMQ_URL"`
	EventsExchange     string `envconfig:"EVENTS_EXCHANGE" default:"renttar.events"`
	NotificationsQueue string `envconfig:"NOTIFICATIONS_QUEUE" default:"renttar.notifications"`

	// Imágenes subidas: none | gridfs | s3
	BlobStore   string `envconfig:"BLOB_STORE" default:"none"`
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB     string `envconfig:"MONGO_DB" default:"renttar"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessID  string `envconfig:"S3_ACCESS_ID"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	CORSOrigins  string `envconfig:"CORS_ORIGINS" default:"*"`

	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`
}

// LoadConfig carga el .env (si existe) y después las variables de entorno
func LoadConfig() (*Config, error) {
	// El .env es opcional: en producción las variables vienen del entorno
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa los valores enumerados (driver, blob store)
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: must be mysql or postgres", c.DBDriver)
	}
	switch c.BlobStore {
	case "none", "gridfs":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when BLOB_STORE=s3")
		}
	default:
		return fmt.Errorf("invalid BLOB_STORE %q: must be none, gridfs or s3", c.BlobStore)
	}
	if c.JWTExpireMin <= 0 {
		return fmt.Errorf("JWT_EXPIRE_MIN must be positive")
	}
	return nil
}

// DSN arma el Data Source Name según el driver
// MySQL: usuario:password@tcp(host:puerto)/base?opciones
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// TokenTTL devuelve la duración del JWT
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireMin) * time.Minute
}

// CacheTTL devuelve el TTL del caché de búsquedas
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// AllowedOrigins separa CORS_ORIGINS por comas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

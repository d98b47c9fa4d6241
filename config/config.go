package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config holds the application settings read from the environment.
type Config struct {
	Port               string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	TokenTTL           time.Duration
	LogLevel           string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	FrontendURL        string
	BackendURL         string
	StorageDriver      string
	LocalStoragePath   string
	S3Region           string
	S3Bucket           string
	GCSProjectID       string
	GCSBucketName      string
	GCSCredentialsFile string
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	RedisAddr          string
	RedisPassword      string
	SessionTTL         time.Duration
	KafkaBrokers       []string
	KafkaPostTopic     string
	KafkaGroupID       string
	OTLPEndpoint       string
	ServiceName        string
	Debug              bool
}

// AppConfig is the process-wide configuration.
var AppConfig Config

// Init loads .env (when present) and the environment into AppConfig.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	AppConfig = Load()

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("running in debug mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("config loaded. database: %s:%s, storage: %s", AppConfig.DBHost, AppConfig.DBPort, AppConfig.StorageDriver)
}

// Load reads the environment without validating it.
func Load() Config {
	return Config{
		Port:               getEnv("PORT", "8080"),
		DBHost:             getEnv("DB_HOST", ""),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "instaclone"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:8080"),
		StorageDriver:      getEnv("STORAGE_DRIVER", "local"),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		S3Region:           getEnv("S3_REGION", "us-west-2"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		MinioEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:        getEnv("MINIO_BUCKET", "images"),
		MinioUseSSL:        getEnvAsBool("MINIO_USE_SSL", false),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		KafkaBrokers:       getEnvAsList("KAFKA_BROKERS"),
		KafkaPostTopic:     getEnv("KAFKA_POST_TOPIC", "post.created"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "instaclone-feed"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:        getEnv("OTEL_SERVICE_NAME", "instaclone-backend"),
		Debug:              getEnvAsBool("DEBUG", false),
	}
}

// MailEnabled reports whether SMTP settings are complete.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(key, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateConfig() {
	if AppConfig.DBHost == "" || AppConfig.DBUser == "" || AppConfig.DBName == "" {
		log.Fatal("error: database configuration is incomplete")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("error: JWT_SECRET is not set")
	}
	switch AppConfig.StorageDriver {
	case "local", "s3", "gcs", "minio":
	default:
		log.Fatalf("error: unknown STORAGE_DRIVER %q", AppConfig.StorageDriver)
	}
}

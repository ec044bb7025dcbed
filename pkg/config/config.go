package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	LogFormat               string
	FirebaseCredentialsPath string
	PostgresUrl             string
	MongoURI                string
	MongoDatabase           string
	StorageDriver           string
	JWTSecret               string
	MetricsPort             string
	S3Bucket                string
	AWSRegion               string
	UploadDir               string
	PublicBaseURL           string
	RateLimitRPS            int
	RateLimitBurst          int
	CookieSecure            bool
}

// Load reads the optional .env file and builds the configuration from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	env := getEnv("ENV", "development")
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     env,
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "text"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresUrl:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "futsal_matcher"),
		StorageDriver:           strings.ToLower(getEnv("STORAGE_DRIVER", StorageMongo)),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:           strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		RateLimitRPS:            getEnvInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst:          getEnvInt("RATE_LIMIT_BURST", 20),
		CookieSecure:            getEnvBool("COOKIE_SECURE", env == "production"),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	Env               string        `mapstructure:"ENV"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	AnalyticsCacheTTL time.Duration `mapstructure:"ANALYTICS_CACHE_TTL"`
	ReminderLeadTime  time.Duration `mapstructure:"REMINDER_LEAD_TIME"`

	// Endpoints handed to the mobile client.
	APIURL               string `mapstructure:"API_URL"`
	SocketURL            string `mapstructure:"SOCKET_URL"`
	CloudBackendEndpoint string `mapstructure:"CLOUD_BACKEND_ENDPOINT"`
	CloudProjectID       string `mapstructure:"CLOUD_PROJECT_ID"`

	// Firebase service account used for FCM.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Cloudinary credentials for avatar uploads.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
}

// Local development fallbacks for the endpoints published to clients.
const (
	DefaultAPIURL               = "http://localhost:8080/api"
	DefaultSocketURL            = "ws://localhost:8080/ws"
	DefaultCloudBackendEndpoint = "http://localhost:9099"
	DefaultCloudProjectID       = "coachhub-local"
)

// devJWTSecret is only accepted outside production.
const devJWTSecret = "coachhub-dev-secret"

var AppConfig Config

// Endpoints is the set of backend locations the mobile client talks to.
type Endpoints struct {
	APIURL               string `json:"apiUrl"`
	SocketURL            string `json:"socketUrl"`
	CloudBackendEndpoint string `json:"cloudBackendEndpoint"`
	CloudProjectID       string `json:"cloudProjectId"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	// Empty lets the logger pick debug in development and info in production.
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "coachhub")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("ANALYTICS_CACHE_TTL", 5*time.Minute)
	v.SetDefault("REMINDER_LEAD_TIME", 30*time.Minute)
	v.SetDefault("API_URL", DefaultAPIURL)
	v.SetDefault("SOCKET_URL", DefaultSocketURL)
	v.SetDefault("CLOUD_BACKEND_ENDPOINT", DefaultCloudBackendEndpoint)
	v.SetDefault("CLOUD_PROJECT_ID", DefaultCloudProjectID)
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
}

// Load reads configuration from an optional config.yaml, the environment and defaults.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// finalize fills values that must never be empty.
func (c *Config) finalize() error {
	if c.JWTSecret == "" {
		if c.Env == "production" {
			return errMissingSecret
		}
		c.JWTSecret = devJWTSecret
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.SocketURL == "" {
		c.SocketURL = DefaultSocketURL
	}
	if c.CloudBackendEndpoint == "" {
		c.CloudBackendEndpoint = DefaultCloudBackendEndpoint
	}
	if c.CloudProjectID == "" {
		c.CloudProjectID = DefaultCloudProjectID
	}
	return nil
}

// LoadConfig populates AppConfig and exits on failure.
func LoadConfig() {
	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// ClientEndpoints returns the endpoints the mobile client should use.
func ClientEndpoints() Endpoints {
	return AppConfig.Endpoints()
}

func (c Config) Endpoints() Endpoints {
	return Endpoints{
		APIURL:               c.APIURL,
		SocketURL:            c.SocketURL,
		CloudBackendEndpoint: c.CloudBackendEndpoint,
		CloudProjectID:       c.CloudProjectID,
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Analytics AnalyticsConfig
	Exports   ExportsConfig
}

type ServerConfig struct {
	Port               string
	MonitoringPort     string
	CorsAllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

type AnalyticsConfig struct {
	DefaultTimeZone string
	CacheTTLSeconds int
}

// ExportsConfig points at the S3-compatible bucket that receives generated
// pick sheets and CSV exports. Credentials come from the environment only.
type ExportsConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Load reads configs/config.yaml, layers .env and process environment on top,
// and fails fast on settings the server cannot run without.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, relying on environment")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.monitoring_port", "9090")
	viper.SetDefault("server.cors_allowed_origins", []string{"http://localhost:5173"})
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "route_db")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.expiration_hours", 72)
	viper.SetDefault("jwt.issuer", "route-backend")
	viper.SetDefault("analytics.default_time_zone", "UTC")
	viper.SetDefault("analytics.cache_ttl_seconds", 300)
	viper.SetDefault("exports.enabled", false)
	viper.SetDefault("exports.region", "auto")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               viper.GetString("server.port"),
			MonitoringPort:     viper.GetString("server.monitoring_port"),
			CorsAllowedOrigins: viper.GetStringSlice("server.cors_allowed_origins"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("database.host"),
			Port:     viper.GetString("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			Name:     viper.GetString("database.name"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:          viper.GetString("jwt.secret"),
			ExpirationHours: viper.GetInt("jwt.expiration_hours"),
			Issuer:          viper.GetString("jwt.issuer"),
		},
		Analytics: AnalyticsConfig{
			DefaultTimeZone: viper.GetString("analytics.default_time_zone"),
			CacheTTLSeconds: viper.GetInt("analytics.cache_ttl_seconds"),
		},
		Exports: ExportsConfig{
			Enabled:  viper.GetBool("exports.enabled"),
			Endpoint: viper.GetString("exports.endpoint"),
			Region:   viper.GetString("exports.region"),
			Bucket:   viper.GetString("exports.bucket"),
		},
	}

	// Environment always wins for credentials.
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	cfg.Exports.AccessKey = os.Getenv("EXPORTS_ACCESS_KEY")
	cfg.Exports.SecretKey = os.Getenv("EXPORTS_SECRET_KEY")

	if cfg.JWT.Secret == "" {
		log.Fatal("[Config] JWT_SECRET is required")
	}

	return cfg
}

package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Cart     CartConfig
	Shipping ShippingConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

// AdminConfig carries the back-office allow-list. Membership is checked
// case-insensitively on trimmed addresses.
type AdminConfig struct {
	Emails []string
}

type CartConfig struct {
	RetentionDays int
}

// ShippingConfig expresses the flat-fee-with-free-threshold rule. Both
// values are in cents.
type ShippingConfig struct {
	FeeCents           int64
	FreeThresholdCents int64
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("ADMIN_EMAILS", []string{"glamourboutique377@gmail.com"})
	viper.SetDefault("CART_RETENTION_DAYS", 7)
	viper.SetDefault("SHIPPING_FEE_CENTS", 20000)
	viper.SetDefault("FREE_SHIPPING_THRESHOLD_CENTS", 1500000)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Admin: AdminConfig{
			Emails: viper.GetStringSlice("ADMIN_EMAILS"),
		},
		Cart: CartConfig{
			RetentionDays: viper.GetInt("CART_RETENTION_DAYS"),
		},
		Shipping: ShippingConfig{
			FeeCents:           viper.GetInt64("SHIPPING_FEE_CENTS"),
			FreeThresholdCents: viper.GetInt64("FREE_SHIPPING_THRESHOLD_CENTS"),
		},
	}
}

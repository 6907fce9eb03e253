package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

const defaultImgBBUploadURL = "https://api.imgbb.com/1/upload"

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	ImgBBAPIKey         string // IMGBB_API_KEY for food image uploads; empty = uploads report a configuration error
	ImgBBUploadURL      string
	SendinblueAPIKey    string // SENDINBLUE_API_KEY for order notifications (Brevo)
	MailFrom            string
	OrderRateLimit      int // order creations per minute per session user
	AutoMigrate         bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("IMGBB_UPLOAD_URL", defaultImgBBUploadURL)
	viper.SetDefault("ORDER_RATE_LIMIT", 20)
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		ImgBBAPIKey:         strings.TrimSpace(viper.GetString("IMGBB_API_KEY")),
		ImgBBUploadURL:      viper.GetString("IMGBB_UPLOAD_URL"),
		SendinblueAPIKey:    viper.GetString("SENDINBLUE_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
		OrderRateLimit:      viper.GetInt("ORDER_RATE_LIMIT"),
		AutoMigrate:         viper.GetBool("AUTO_MIGRATE"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

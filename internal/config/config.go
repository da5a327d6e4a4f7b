package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddress string `mapstructure:"listen_address"`
	BaseURL       string `mapstructure:"base_url"`

	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	RecentFormLength int `mapstructure:"recent_form_length"`

	// Telegram announcements are disabled when the token is empty.
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`

	PostgresDSN string `mapstructure:"postgres_dsn"`
}

func New() *Config {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		logrus.Fatalf("unmarshalling config: %v", err)
	}
	return cfg
}

func SetupCommon() {
	viper.SetDefault("listen_address", ":8080")
	viper.SetDefault("base_url", "http://localhost:8080")
	viper.SetDefault("session_ttl", "24h")
	viper.SetDefault("recent_form_length", 5)
	viper.SetEnvPrefix("FOOTYON")

	viper.MustBindEnv("postgres_dsn")
	viper.MustBindEnv("jwt_secret")
	viper.AutomaticEnv()
}

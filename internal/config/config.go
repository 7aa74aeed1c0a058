package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	FrontendURL                   string        `mapstructure:"FRONTEND_URL"`
	AdmitLockTimeout              time.Duration `mapstructure:"ADMIT_LOCK_TIMEOUT"`
	OAuthClientID                 string        `mapstructure:"OAUTH_CLIENT_ID"`
	OAuthClientSecret             string        `mapstructure:"OAUTH_CLIENT_SECRET"`
	OAuthAuthURL                  string        `mapstructure:"OAUTH_AUTH_URL"`
	OAuthTokenURL                 string        `mapstructure:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL              string        `mapstructure:"OAUTH_USERINFO_URL"`
	OAuthRedirectURL              string        `mapstructure:"OAUTH_REDIRECT_URL"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "registrations.db")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000")
	viper.SetDefault("ADMIT_LOCK_TIMEOUT", "5s")
	viper.SetDefault("OAUTH_REDIRECT_URL", "http://127.0.0.1:8080/auth/oauth/callback")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("ADMIT_LOCK_TIMEOUT")
	viper.BindEnv("OAUTH_CLIENT_ID")
	viper.BindEnv("OAUTH_CLIENT_SECRET")
	viper.BindEnv("OAUTH_AUTH_URL")
	viper.BindEnv("OAUTH_TOKEN_URL")
	viper.BindEnv("OAUTH_USERINFO_URL")
	viper.BindEnv("OAUTH_REDIRECT_URL")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

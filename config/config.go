package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Slack credentials.
	SlackBotToken      string `mapstructure:"SLACK_BOT_TOKEN"`
	SlackSigningSecret string `mapstructure:"SLACK_SIGNING_SECRET"`

	// Google Calendar and Sheets.
	CalendarID         string `mapstructure:"CALENDAR_ID"`
	SpreadsheetID      string `mapstructure:"SPREADSHEET_ID"`
	RulesTab           string `mapstructure:"RULES_TAB"`
	BookingsTab        string `mapstructure:"BOOKINGS_TAB"`
	ServiceAccountFile string `mapstructure:"SERVICE_ACCOUNT_FILE"`

	// All wall-clock times resolve against this one IANA zone.
	Timezone string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Engine tuning.
	IOTimeoutSeconds int `mapstructure:"IO_TIMEOUT_SECONDS"`
	SlotChoiceLimit  int `mapstructure:"SLOT_CHOICE_LIMIT"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("RULES_TAB", "Rules")
	viper.SetDefault("BOOKINGS_TAB", "Bookings")
	viper.SetDefault("SERVICE_ACCOUNT_FILE", "service_account.json")
	viper.SetDefault("TIMEZONE", "Europe/Paris")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("IO_TIMEOUT_SECONDS", 10)
	viper.SetDefault("SLOT_CHOICE_LIMIT", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// GetEnv returns the application environment.
func GetEnv() string {
	return AppConfig.Env
}

// IsProduction checks if the environment is production.
func IsProduction() bool {
	return GetEnv() == "production"
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Bot      BotConfig      `mapstructure:"bot"`
	Storage  StorageConfig  `mapstructure:"storage"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type RelayConfig struct {
	Addr string `mapstructure:"addr"`
}

type BotConfig struct {
	RemoteURL             string `mapstructure:"remote_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	FAQFile               string `mapstructure:"faq_file"`
}

// RequestTimeout bounds how long a send may stay busy on the network.
func (c BotConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

type StorageConfig struct {
	Driver     string         `mapstructure:"driver"`
	BadgerPath string         `mapstructure:"badger_path"`
	Database   DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("relay.addr", ":3000")
	v.SetDefault("bot.remote_url", "http://localhost:3000/chat")
	v.SetDefault("bot.request_timeout_seconds", 15)
	v.SetDefault("storage.driver", "badger")
	v.SetDefault("storage.badger_path", "data/sessions")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.user", "postgres")
	v.SetDefault("storage.database.sslmode", "disable")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 400)
	v.SetDefault("openai.temperature", 0.7)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Storage.Driver = "postgres"
		config.Storage.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if relayURL := v.GetString("RELAY_URL"); relayURL != "" {
		config.Bot.RemoteURL = relayURL
	}

	return &config, nil
}

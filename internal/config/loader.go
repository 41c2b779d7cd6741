package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/rpattn/specreg/internal/db"
)

// Config carries everything the server needs at startup.
type Config struct {
	ListenAddr  string
	Database    db.Config
	OpenAIKey   string
	OpenAIModel string
}

// Load reads config.yaml from configPath, falling back to defaults plus
// environment overrides (SPECREG_DATABASE_HOST, SPECREG_OPENAI_API_KEY, ...).
// A missing OpenAI key is not an error: suggestions degrade to disabled.
func Load(configPath string) (Config, error) {
	cfg := Config{
		ListenAddr: ":8080",
		Database:   db.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("SPECREG")

	v.BindEnv("server.listen_addr")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("openai.api_key")
	v.BindEnv("openai.model")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.listen_addr") {
		cfg.ListenAddr = v.GetString("server.listen_addr")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("openai.api_key") {
		cfg.OpenAIKey = v.GetString("openai.api_key")
	}
	if v.IsSet("openai.model") {
		cfg.OpenAIModel = v.GetString("openai.model")
	}

	return cfg, nil
}

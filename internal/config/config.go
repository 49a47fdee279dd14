package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	ServiceName string
	OpenAIKey   string
	BridgeURL   string
	MessagesDB  string
	PrefsPath   string
	Env         string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:        os.Getenv("PORT"),
		ServiceName: os.Getenv("WEBHOOK_SERVICE_NAME"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		BridgeURL:   os.Getenv("BRIDGE_URL"),
		MessagesDB:  os.Getenv("WHATSAPP_MESSAGES_DB"),
		PrefsPath:   os.Getenv("QUACK_PREFS_PATH"),
		Env:         os.Getenv("ENV"),
	}

	home, _ := os.UserHomeDir()

	// Default values
	if cfg.Port == "" {
		cfg.Port = "9999"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ActivePieces Webhook Server"
	}
	if cfg.BridgeURL == "" {
		cfg.BridgeURL = "http://localhost:8080"
	}
	if cfg.MessagesDB == "" {
		cfg.MessagesDB = filepath.Join(home, "whatsapp-mcp", "whatsapp-bridge", "store", "messages.db")
	}
	if cfg.PrefsPath == "" {
		cfg.PrefsPath = filepath.Join(home, "Library", "Application Support", "com.quack.terminal", "app-preferences.json")
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	return cfg
}

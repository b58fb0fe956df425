package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	AppName     string `json:"app_name"`
	ListenIP    string `json:"listen_ip"`
	ListenPort  int    `json:"listen_port"`
	DatabaseURL string `json:"database_url"`
	SessionKey  string `json:"session_key"`
	LogsPath    string `json:"logs_path"`
	LogLevel    string `json:"log_level"`
	LogToStdout bool   `json:"log_to_stdout"`
}

// Load reads the JSON config file and applies environment overrides.
// A .env file in the working directory is picked up first, so the same
// variables work in development and in deployment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	if envURL := os.Getenv("DATABASE_URL"); envURL != "" {
		cfg.DatabaseURL = envURL
	}
	if envKey := os.Getenv("SESSION_KEY"); envKey != "" {
		cfg.SessionKey = envKey
	}
	if envPort := os.Getenv("PORT"); envPort != "" {
		port, err := strconv.Atoi(envPort)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", envPort, err)
		}
		cfg.ListenPort = port
	}

	// If no key is provided or it's the placeholder, generate a secure random one
	if cfg.SessionKey == "" || cfg.SessionKey == "CHANGE_ME_IN_PRODUCTION" {
		log.Warn("No session key configured. Generating a random key. Sessions will be invalidated on restart.")
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			return nil, err
		}
		cfg.SessionKey = hex.EncodeToString(randomKey)
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenIP, c.ListenPort)
}

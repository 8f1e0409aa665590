package mocks

import (
	"time"

	"github.com/cradoe/memberreg/internal/config"
)

// NewConfig returns the configuration handler tests run with.
func NewConfig() *config.Config {
	cfg := &config.Config{
		BaseURL:      "http://localhost",
		HttpPort:     8080,
		RedisServer:  "localhost:6379",
		KafkaServers: "localhost:9092",
	}

	cfg.Db.Dsn = "mock_dsn"
	cfg.Jwt.SecretKey = "test_secret"
	cfg.Jwt.Expiry = 24 * time.Hour
	cfg.Notifications.Email = "no-reply@example.com"
	cfg.Smtp.Host = "smtp.example.com"
	cfg.Smtp.Port = 587
	cfg.Smtp.From = "no-reply@example.com"
	cfg.Cache.TTL = time.Minute

	return cfg
}

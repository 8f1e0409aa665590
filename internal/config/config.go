package config

import "time"

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	Jwt struct {
		SecretKey string
		Expiry    time.Duration
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	FileUploader struct {
		CloudName string
		ApiKey    string
		ApiSecret string
	}
	Cache struct {
		TTL time.Duration
	}
	// Admin is the account the seeder creates on a fresh database
	Admin struct {
		Name     string
		Email    string
		Password string
	}
	KafkaServers       string
	RedisServer        string
	RedisDB            int
	CorsAllowedOrigins []string
}

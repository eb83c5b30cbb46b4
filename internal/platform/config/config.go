package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	AdminToken    string
	DatabaseURL   string
	TemplatesPath string
	Redis         RedisConfig
	Audit         AuditConfig
}

// RedisConfig configures the optional Redis-backed arbitration slot.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig configures the optional Kafka audit publisher.
type AuditConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SPRAWL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("SPRAWL_ADMIN_TOKEN")
	if adminToken == "" {
		// Development default - must be overridden in production.
		adminToken = "dev-admin-token"
	}

	templatesPath := os.Getenv("SPRAWL_KNOWN_HANDLES_FILE")
	if templatesPath == "" {
		templatesPath = "known_handles.yaml"
	}

	topic := os.Getenv("SPRAWL_AUDIT_TOPIC")
	if topic == "" {
		topic = "sprawl.claims.audit"
	}

	var brokers []string
	if raw := os.Getenv("SPRAWL_AUDIT_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		AdminToken:    adminToken,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		TemplatesPath: templatesPath,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Audit: AuditConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}

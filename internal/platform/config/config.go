package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean; defaults suit local development only.
type Server struct {
	Addr        string
	Environment string

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// ServerSignatureHash is the bcrypt hash of the shared secret the core
	// registration service presents in X-Signature.
	ServerSignatureHash string

	UserServiceURL string
	DeepLinkBase   string
	DeepLinkAPIURL string
	DeepLinkAPIKey string

	PostgresDSN  string
	RedisURL     string
	KafkaBrokers string
	KafkaTopic   string

	MaxConversionsPerDay int
	EventBuffer          int
	ShutdownTimeout      time.Duration
}

// IsDevelopment reports whether dev-only surfaces (the token endpoint)
// should be enabled.
func (s Server) IsDevelopment() bool {
	return s.Environment == "development"
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:        envOr("REFGATE_ADDR", ":8080"),
		Environment: envOr("REFGATE_ENV", "development"),

		JWTSigningKey: envOr("REFGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("REFGATE_JWT_ISSUER", "refgate"),
		JWTAudience:   envOr("REFGATE_JWT_AUDIENCE", "refgate-clients"),
		// Default is the bcrypt hash of "serversecret", dev only.
		ServerSignatureHash: envOr("REFGATE_SERVER_SIGNATURE_HASH",
			"$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),

		UserServiceURL: envOr("REFGATE_USER_SERVICE_URL", "http://localhost:9000"),
		DeepLinkBase:   envOr("REFGATE_DEEPLINK_BASE", "https://app.example.com/invite"),
		DeepLinkAPIURL: os.Getenv("REFGATE_DEEPLINK_API_URL"),
		DeepLinkAPIKey: os.Getenv("REFGATE_DEEPLINK_API_KEY"),

		PostgresDSN:  os.Getenv("REFGATE_POSTGRES_DSN"),
		RedisURL:     os.Getenv("REFGATE_REDIS_URL"),
		KafkaBrokers: os.Getenv("REFGATE_KAFKA_BROKERS"),
		KafkaTopic:   os.Getenv("REFGATE_KAFKA_TOPIC"),

		MaxConversionsPerDay: envIntOr("REFGATE_MAX_CONVERSIONS_PER_DAY", 10),
		EventBuffer:          envIntOr("REFGATE_EVENT_BUFFER", 256),
		ShutdownTimeout:      10 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

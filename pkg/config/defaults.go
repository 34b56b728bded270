// Package config provides centralized default values for KnowYourRightsCard
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DatabasePath             string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Auth / crypto
	JWTSecret     string
	AESKey        string
	OpsPassword   string
	TokenLifetime time.Duration

	// Notification channels
	ResendAPIKey     string
	AlertEmailFrom   string
	AlertEmailName   string
	SMSGatewayURL    string
	SMSGatewayToken  string
	SMSSenderNumber  string
	NotifySendTimeout time.Duration

	// Location
	GeocodeBaseURL string
	GeocodeTimeout time.Duration

	// AI text generation
	AAIAPIKey         string
	SummaryMaxTokens  int
	SummaryModel      string
	GenerationTimeout time.Duration

	// Media
	MediaBasePath string

	// SSE Configuration
	SSEHeartbeatIntervalSeconds int

	// Recording
	RecordingTickInterval time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DatabasePath = getEnvString("DATABASE_PATH", "kyrcard.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond)

	// Auth / crypto
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	OpsPassword = getEnvString("OPS_PASSWORD_HASH", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 30*24*time.Hour)

	// Notification channels
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	AlertEmailFrom = getEnvString("ALERT_EMAIL_FROM", "alerts@knowyourrightscard.com")
	AlertEmailName = getEnvString("ALERT_EMAIL_FROM_NAME", "KnowYourRightsCard")
	SMSGatewayURL = getEnvString("SMS_GATEWAY_URL", "")
	SMSGatewayToken = getEnvString("SMS_GATEWAY_TOKEN", "")
	SMSSenderNumber = getEnvString("SMS_SENDER_NUMBER", "")
	NotifySendTimeout = getEnvDuration("NOTIFY_SEND_TIMEOUT", 10*time.Second)

	// Location
	GeocodeBaseURL = getEnvString("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org")
	GeocodeTimeout = getEnvDuration("GEOCODE_TIMEOUT", 5*time.Second)

	// AI text generation
	AAIAPIKey = getEnvString("AAI_API_KEY", "")
	SummaryMaxTokens = getEnvInt("SUMMARY_MAX_TOKENS", 300)
	SummaryModel = getEnvString("SUMMARY_MODEL", "anthropic/claude-3-5-sonnet")
	GenerationTimeout = getEnvDuration("GENERATION_TIMEOUT", 30*time.Second)

	// Media
	MediaBasePath = getEnvString("MEDIA_BASE_PATH", "media")

	// SSE Configuration
	SSEHeartbeatIntervalSeconds = getEnvInt("SSE_HEARTBEAT_INTERVAL_SECONDS", 30)

	// Recording
	RecordingTickInterval = getEnvDuration("RECORDING_TICK_INTERVAL", time.Second)
}

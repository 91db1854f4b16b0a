package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server.
type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Limits    LimitsConfig
	IPLimit   IPLimitConfig
	Session   SessionConfig
	Room      RoomConfig
	Recording RecordingConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ServiceKey      string
	CleanupInterval time.Duration
}

// WebSocketConfig configures the upgrader and per-connection queues.
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	AuthTimeout     time.Duration
}

type LimitsConfig struct {
	MaxRoomSize       int
	MaxMessageSize    int
	MaxObjectDepth    int
	MaxObjectElements int
	MessagesPerSecond float64
	BurstSize         int
}

// IPLimitConfig throttles WebSocket upgrades per client address.
type IPLimitConfig struct {
	ConnectsPerMinute int
	Burst             int
	IdleTimeout       time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type RoomConfig struct {
	WhiteboardEnabled bool
	ListenerQueueSize int
}

// RecordingConfig controls the sqlite event log. A zero Retention keeps
// events forever.
type RecordingConfig struct {
	Enabled   bool
	DBPath    string
	Retention time.Duration
}

// Load reads .env if present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("ADDR", ":8080"),
			ReadTimeout:     getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDuration("IDLE_TIMEOUT", 120*time.Second),
			ServiceKey:      getEnv("SERVICE_KEY", ""),
			CleanupInterval: getDuration("CLEANUP_INTERVAL", 15*time.Minute),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins:  getList("DOMAINS"),
			ReadBufferSize:  getInt("WS_READ_BUFFER_SIZE", 4096),
			WriteBufferSize: getInt("WS_WRITE_BUFFER_SIZE", 4096),
			SendBuffer:      getInt("WS_SEND_BUFFER", 256),
			AuthTimeout:     getDuration("WS_AUTH_TIMEOUT", 5*time.Second),
		},
		Limits: LimitsConfig{
			MaxRoomSize:       getInt("MAX_ROOM_SIZE", 100),
			MaxMessageSize:    getInt("MAX_MESSAGE_SIZE", 64*1024),
			MaxObjectDepth:    getInt("MAX_OBJECT_DEPTH", 6),
			MaxObjectElements: getInt("MAX_OBJECT_ELEMENTS", 2000),
			MessagesPerSecond: getFloat("MESSAGES_PER_SECOND", 60),
			BurstSize:         getInt("BURST_SIZE", 30),
		},
		IPLimit: IPLimitConfig{
			ConnectsPerMinute: getInt("IP_CONNECTS_PER_MINUTE", 10),
			Burst:             getInt("IP_BURST", 5),
			IdleTimeout:       getDuration("IP_IDLE_TIMEOUT", 10*time.Minute),
		},
		Session: SessionConfig{
			TTL: getDuration("SESSION_TTL", time.Hour),
		},
		Room: RoomConfig{
			WhiteboardEnabled: getBool("WHITEBOARD_ENABLED", true),
			ListenerQueueSize: getInt("LISTENER_QUEUE_SIZE", 256),
		},
		Recording: RecordingConfig{
			Enabled:   getBool("RECORDING_ENABLED", false),
			DBPath:    getEnv("RECORDING_DB_PATH", "./data/recordings.db"),
			Retention: getDuration("RECORDING_RETENTION", 0),
		},
	}

	if cfg.Server.ServiceKey == "" {
		log.Println("SERVICE_KEY not set, meeting lifecycle endpoints are disabled")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getDuration accepts Go durations; a bare number is seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getList splits a comma separated variable, dropping empty entries.
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

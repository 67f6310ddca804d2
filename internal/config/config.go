package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	// SQLiteLogQueries routes every statement through the logging connector at debug level.
	SQLiteLogQueries bool

	// QueryTimeout bounds a single read issued on behalf of an HTTP request.
	QueryTimeout time.Duration

	MQTTEnabled  bool
	MQTTBroker   string
	MQTTPort     int
	MQTTTopic    string
	MQTTClientID string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := envString("HTTP_ADDR", ":8080")

	driver := envString("SQLITE_DRIVER", "sqlite3")
	dsn := strings.TrimSpace(os.Getenv("SQLITE_DSN"))
	path := envString("SQLITE_PATH", "../dev/sqlite/weatherboard.db")

	maxOpenConns, err := envInt("SQLITE_MAX_OPEN_CONNS", 4)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("SQLITE_MAX_IDLE_CONNS", 4)
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := envDuration("SQLITE_CONN_MAX_LIFETIME", 0)
	if err != nil {
		return Config{}, err
	}
	logQueries, err := envBool("SQLITE_LOG_QUERIES", false)
	if err != nil {
		return Config{}, err
	}

	queryTimeout, err := envDuration("QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	if queryTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid QUERY_TIMEOUT %q: must be > 0", os.Getenv("QUERY_TIMEOUT"))
	}

	mqttEnabled, err := envBool("MQTT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	mqttPort, err := envInt("MQTT_PORT", 1883)
	if err != nil {
		return Config{}, err
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %d (allowed: 1-65535)", mqttPort)
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		SQLiteDriver:          driver,
		SQLiteDSN:             dsn,
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLiteLogQueries:      logQueries,
		QueryTimeout:          queryTimeout,
		MQTTEnabled:           mqttEnabled,
		MQTTBroker:            envString("MQTT_BROKER", "localhost"),
		MQTTPort:              mqttPort,
		MQTTTopic:             envString("MQTT_TOPIC", "weather/samples"),
		MQTTClientID:          envString("MQTT_CLIENT_ID", "weatherboard-server"),
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

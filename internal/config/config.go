// Package config loads environment configuration for StuartLink.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultListenAddr       = "0.0.0.0:8080"
	defaultDataDir          = "./data"
	defaultRobotMode        = "direct"
	defaultRobotEncoding    = "form"
	defaultDispatchTimeout  = 2000
	defaultDispatchQueue    = 64
	defaultDoublePressMs    = 300
	defaultDriveMaxDistance = 200.0
	defaultDriveMaxSpeed    = 0.5
	defaultRelayStaleMs     = 1000
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 3
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr        string
	DataDir           string
	RobotURL          string
	RobotMode         string
	RobotEncoding     string
	DispatchTimeoutMs int
	DispatchQueue     int
	DoublePressMs     int
	DriveMaxDistance  float64
	DriveMaxSpeed     float64
	RelayStaleMs      int
	CameraRTPPort     int
	PhrasesPath       string
	LogFile           string
	LogMaxSizeMB      int
	LogMaxBackups     int
}

// Load reads configuration from ./data/.env and environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:        defaultListenAddr,
		DataDir:           defaultDataDir,
		RobotMode:         defaultRobotMode,
		RobotEncoding:     defaultRobotEncoding,
		DispatchTimeoutMs: defaultDispatchTimeout,
		DispatchQueue:     defaultDispatchQueue,
		DoublePressMs:     defaultDoublePressMs,
		DriveMaxDistance:  defaultDriveMaxDistance,
		DriveMaxSpeed:     defaultDriveMaxSpeed,
		RelayStaleMs:      defaultRelayStaleMs,
		LogMaxSizeMB:      defaultLogMaxSizeMB,
		LogMaxBackups:     defaultLogMaxBackups,
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.RobotURL = strings.TrimSpace(os.Getenv("ROBOT_URL"))
	cfg.RobotMode = normalizeMode(envString("ROBOT_MODE", cfg.RobotMode))
	cfg.RobotEncoding = normalizeEncoding(envString("ROBOT_ENCODING", cfg.RobotEncoding))
	cfg.PhrasesPath = envString("PHRASES_PATH", filepath.Join(cfg.DataDir, "phrases.yaml"))
	cfg.LogFile = strings.TrimSpace(os.Getenv("LOG_FILE"))

	var err error
	if cfg.DispatchTimeoutMs, err = envInt("DISPATCH_TIMEOUT_MS", cfg.DispatchTimeoutMs); err != nil {
		return Config{}, err
	}
	if cfg.DispatchTimeoutMs <= 0 {
		return Config{}, fmt.Errorf("DISPATCH_TIMEOUT_MS must be > 0")
	}

	if cfg.DispatchQueue, err = envInt("DISPATCH_QUEUE", cfg.DispatchQueue); err != nil {
		return Config{}, err
	}
	if cfg.DispatchQueue <= 0 {
		return Config{}, fmt.Errorf("DISPATCH_QUEUE must be > 0")
	}

	if cfg.DoublePressMs, err = envInt("DOUBLE_PRESS_MS", cfg.DoublePressMs); err != nil {
		return Config{}, err
	}
	if cfg.DoublePressMs <= 0 {
		return Config{}, fmt.Errorf("DOUBLE_PRESS_MS must be > 0")
	}

	if cfg.DriveMaxDistance, err = envFloat("DRIVE_MAX_DISTANCE", cfg.DriveMaxDistance); err != nil {
		return Config{}, err
	}
	if cfg.DriveMaxDistance <= 0 {
		return Config{}, fmt.Errorf("DRIVE_MAX_DISTANCE must be > 0")
	}

	if cfg.DriveMaxSpeed, err = envFloat("DRIVE_MAX_SPEED", cfg.DriveMaxSpeed); err != nil {
		return Config{}, err
	}
	if cfg.DriveMaxSpeed <= 0 {
		return Config{}, fmt.Errorf("DRIVE_MAX_SPEED must be > 0")
	}

	if cfg.RelayStaleMs, err = envInt("RELAY_STALE_MS", cfg.RelayStaleMs); err != nil {
		return Config{}, err
	}
	if cfg.RelayStaleMs <= 0 {
		return Config{}, fmt.Errorf("RELAY_STALE_MS must be > 0")
	}

	if cfg.CameraRTPPort, err = envInt("CAMERA_RTP_PORT", cfg.CameraRTPPort); err != nil {
		return Config{}, err
	}
	if cfg.CameraRTPPort < 0 || cfg.CameraRTPPort > 65535 {
		return Config{}, fmt.Errorf("CAMERA_RTP_PORT must be 0-65535")
	}

	if cfg.LogMaxSizeMB, err = envInt("LOG_MAX_SIZE_MB", cfg.LogMaxSizeMB); err != nil {
		return Config{}, err
	}
	if cfg.LogMaxBackups, err = envInt("LOG_MAX_BACKUPS", cfg.LogMaxBackups); err != nil {
		return Config{}, err
	}

	if cfg.RobotMode == "direct" {
		if cfg.RobotURL == "" {
			return Config{}, errors.New("ROBOT_URL is required in direct mode")
		}
		parsed, err := url.Parse(cfg.RobotURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return Config{}, fmt.Errorf("ROBOT_URL must be an absolute URL: %q", cfg.RobotURL)
		}
	}

	return cfg, nil
}

// normalizeMode ensures a supported robot mode value.
func normalizeMode(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relay":
		return "relay"
	default:
		return "direct"
	}
}

// normalizeEncoding ensures a supported transport encoding value.
func normalizeEncoding(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return "json"
	default:
		return "form"
	}
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envFloat returns a float env override when present, otherwise a default.
func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, nil
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", false
	}
	value = strings.Trim(value, `"'`)
	return key, value, true
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/NooraWael/maze-wars/internal/logger"
)

const (
	defaultConfigName = "config"
)

type Config struct {
	ServerHost string
	ServerPort int

	// SendTimeout bounds how long one send may wait for the transport to
	// accept a datagram; IdleRetry is the receive-loop pause when nothing
	// is pending.
	SendTimeout time.Duration
	IdleRetry   time.Duration

	// StatusPort serves the plain-text status page. 0 disables it.
	StatusPort int

	Username string

	// UDPLogPath enables NDJSON telemetry when set. Leave empty to disable file logging.
	UDPLogPath string

	Log logger.Config
}

// ServerAddr is the remote endpoint in host:port form.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")

	// Config lives under repo-root config/; also support running from other CWDs.
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("MW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("net.send_timeout_ms", 1000)
	v.SetDefault("net.idle_retry_ms", 100)
	v.SetDefault("status.port", 0)
	v.SetDefault("client.username", "")

	v.SetDefault("telemetry.udp_ndjson_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	// Config file is optional; env-only is fine.
	_ = v.ReadInConfig()

	cfg := Config{
		ServerHost:  strings.TrimSpace(v.GetString("server.host")),
		ServerPort:  v.GetInt("server.port"),
		SendTimeout: time.Duration(v.GetInt("net.send_timeout_ms")) * time.Millisecond,
		IdleRetry:   time.Duration(v.GetInt("net.idle_retry_ms")) * time.Millisecond,
		StatusPort:  v.GetInt("status.port"),
		Username:    strings.TrimSpace(v.GetString("client.username")),
		UDPLogPath:  v.GetString("telemetry.udp_ndjson_path"),
		Log: logger.Config{
			Level:      v.GetString("log.level"),
			FilePath:   v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
	}

	if cfg.ServerHost == "" {
		return Config{}, fmt.Errorf("server.host must not be empty")
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return Config{}, fmt.Errorf("invalid server.port %d", cfg.ServerPort)
	}
	if cfg.SendTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid net.send_timeout_ms %v", cfg.SendTimeout)
	}
	if cfg.IdleRetry <= 0 {
		return Config{}, fmt.Errorf("invalid net.idle_retry_ms %v", cfg.IdleRetry)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return Config{}, fmt.Errorf("invalid status.port %d", cfg.StatusPort)
	}

	if strings.TrimSpace(cfg.UDPLogPath) != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.UDPLogPath), 0o755); err != nil {
			return Config{}, fmt.Errorf("create telemetry dir: %w", err)
		}
	}
	return cfg, nil
}

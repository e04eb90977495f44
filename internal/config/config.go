// Package config - параметры запуска клиента: YAML-файл поверх значений по умолчанию,
// затем переменные окружения, затем флаги командной строки (в cmd/client).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type LogCfg struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Level string `yaml:"level"`
	Nick  string `yaml:"nick"`

	// Transport - "ws" или "tcp".
	Transport string `yaml:"transport"`
	WSPath    string `yaml:"ws_path"`

	// RecordDir - куда писать запись сессии. Пусто - не записывать.
	RecordDir string `yaml:"record_dir"`
	// DebugAddr - адрес отладочного HTTP. Пусто - не поднимать.
	DebugAddr string `yaml:"debug_addr"`

	TickInterval time.Duration `yaml:"tick_interval"`
	SendBuffer   int           `yaml:"send_buffer"`
	MaxFrameSize int           `yaml:"max_frame_size"`

	Log LogCfg `yaml:"log"`
}

// Default создаёт конфиг по умолчанию
func Default() Config {
	return Config{
		Host:         "localhost",
		Port:         32222,
		Level:        "levels/test.yaml",
		Nick:         "Keeper",
		Transport:    "ws",
		WSPath:       "/ws",
		DebugAddr:    "127.0.0.1:8081",
		TickInterval: 50 * time.Millisecond,
		SendBuffer:   256,
		MaxFrameSize: 1 << 20,
		Log:          LogCfg{Level: "info", Format: "text"},
	}
}

// Load читает YAML поверх значений по умолчанию. Пустой путь - только значения по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	r, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("error loading %s: %w", path, err)
	}
	defer r.Close()

	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error reading config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv применяет переменные окружения KC_* и LOG_*.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("KC_HOST"); ok && v != "" {
		c.Host = v
	}
	if v, ok := os.LookupEnv("KC_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid KC_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v, ok := os.LookupEnv("KC_NICK"); ok && v != "" {
		c.Nick = v
	}
	if v, ok := os.LookupEnv("KC_LEVEL"); ok && v != "" {
		c.Level = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		c.Log.Format = v
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.Nick) == "" {
		errs = append(errs, errors.New("nick is empty"))
	}
	switch c.Transport {
	case "ws", "tcp":
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if c.MaxFrameSize <= 0 {
		errs = append(errs, fmt.Errorf("max_frame_size must be positive, got %d", c.MaxFrameSize))
	}
	return errors.Join(errs...)
}

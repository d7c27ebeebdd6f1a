package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Source reports where a loaded configuration came from.
type Source string

const (
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

var (
	ErrMissingKey   = errors.New("missing key")
	ErrInvalidValue = errors.New("invalid value")
)

var requiredKeys = append([]string{"server.port"}, requiredStrings...)

// requiredStrings 列出必须以非空字符串出现的键。
var requiredStrings = []string{
	"server.address",
	"content.public_dir",
	"content.default_file",
}

// Load reads the TOML file at path. It never fails: any read, parse or
// validation error is logged and the complete default configuration is
// returned instead. File values and defaults are never mixed.
func Load(path string, logger *slog.Logger) (Config, Source) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DefaultPath
	}

	cfg, err := Read(path)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return Default(), SourceDefault
	}
	return cfg, SourceFile
}

// Read parses and validates the file at path without any fallback.
func Read(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := checkKeyCase(path); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	if err := validate(v); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// checkKeyCase 要求必填键按原样大小写出现。viper 会把键名统一成小写，
// 所以 [SERVER] 或 Port 这类写法必须在这里拒绝。
func checkKeyCase(path string) error {
	var doc map[string]any
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	for _, key := range requiredKeys {
		if !md.IsDefined(strings.Split(key, ".")...) {
			return fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}
	return nil
}

func validate(v *viper.Viper) error {
	for _, key := range requiredStrings {
		raw := v.Get(key)
		if raw == nil {
			return fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidValue, key, raw)
		}
		if s == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, key)
		}
	}

	raw := v.Get("server.port")
	if raw == nil {
		return fmt.Errorf("%w: server.port", ErrMissingKey)
	}
	var port int64
	switch n := raw.(type) {
	case int64:
		port = n
	case int:
		port = int64(n)
	default:
		return fmt.Errorf("%w: server.port must be an integer, got %T", ErrInvalidValue, raw)
	}
	if port < 0 || port > math.MaxUint16 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidValue, port)
	}
	return nil
}

// Encode writes cfg as a TOML document in the layout Load expects.
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

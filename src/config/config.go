package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lost-woods/qrandom/src/entropy"
)

type Config struct {
	Port   string
	APIKey string

	Entropy entropy.Config

	HealthInterval    time.Duration
	MaxBound          int
	SampleMaxAttempts int
	SampleTimeout     time.Duration
	CircuitCacheSize  int64
}

const (
	DefaultPort             = "777"
	DefaultHealthInterval   = 10_000 * time.Millisecond
	DefaultMaxBound         = 9999
	DefaultSampleTimeout    = 5_000 * time.Millisecond
	DefaultCircuitCacheSize = 1024
	DefaultSerialRetries    = 5
)

// Load reads the configuration from environment variables through getenv,
// normally os.Getenv. Unset variables take their defaults; malformed ones are
// an error.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:   getenv("PORT"),
		APIKey: getenv("API_KEY"),
		Entropy: entropy.Config{
			Kind: entropy.Kind(getenv("ENTROPY_SOURCE")),
			Seed: getenv("ENTROPY_SEED"),
		},
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.Entropy.Kind == "" {
		cfg.Entropy.Kind = entropy.KindCrypto
	}

	var err error
	if cfg.HealthInterval, err = millis(getenv, "RNG_HEALTH_INTERVAL", DefaultHealthInterval, 1); err != nil {
		return Config{}, err
	}
	if cfg.SampleTimeout, err = millis(getenv, "SAMPLE_TIMEOUT", DefaultSampleTimeout, 0); err != nil {
		return Config{}, err
	}
	if cfg.MaxBound, err = integer(getenv, "MAX_BOUND", DefaultMaxBound, 1); err != nil {
		return Config{}, err
	}
	if cfg.SampleMaxAttempts, err = integer(getenv, "SAMPLE_MAX_ATTEMPTS", 0, 0); err != nil {
		return Config{}, err
	}
	cacheSize, err := integer(getenv, "CIRCUIT_CACHE_SIZE", DefaultCircuitCacheSize, 1)
	if err != nil {
		return Config{}, err
	}
	cfg.CircuitCacheSize = int64(cacheSize)

	switch cfg.Entropy.Kind {
	case entropy.KindCrypto:
	case entropy.KindSeeded:
		if cfg.Entropy.Seed == "" {
			return Config{}, fmt.Errorf("ENTROPY_SEED is required when ENTROPY_SOURCE=%s", entropy.KindSeeded)
		}
	case entropy.KindSerial:
		if cfg.Entropy.Serial, err = serialFromEnv(getenv); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("invalid ENTROPY_SOURCE: %q", cfg.Entropy.Kind)
	}

	return cfg, nil
}

// Required env vars for the serial source:
// - SERIAL_DEVICE_NAME (e.g. /dev/ttyACM0 or COM3)
// - SERIAL_BAUD_RATE
// - SERIAL_READ_TIMEOUT (milliseconds)
func serialFromEnv(getenv func(string) string) (entropy.SerialConfig, error) {
	name := getenv("SERIAL_DEVICE_NAME")
	if name == "" {
		return entropy.SerialConfig{}, fmt.Errorf("SERIAL_DEVICE_NAME is required")
	}

	baudStr := getenv("SERIAL_BAUD_RATE")
	baud, err := strconv.Atoi(baudStr)
	if err != nil || baud <= 0 {
		return entropy.SerialConfig{}, fmt.Errorf("invalid SERIAL_BAUD_RATE: %q", baudStr)
	}

	timeoutStr := getenv("SERIAL_READ_TIMEOUT")
	timeoutMs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutMs < 0 {
		return entropy.SerialConfig{}, fmt.Errorf("invalid SERIAL_READ_TIMEOUT: %q", timeoutStr)
	}

	retries, err := integer(getenv, "SERIAL_OPEN_RETRIES", DefaultSerialRetries, 0)
	if err != nil {
		return entropy.SerialConfig{}, err
	}

	return entropy.SerialConfig{
		Name:        name,
		Baud:        baud,
		ReadTimeout: time.Duration(timeoutMs) * time.Millisecond,
		Retries:     uint64(retries),
	}, nil
}

func integer(getenv func(string) string, key string, def, min int) (int, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min {
		return 0, fmt.Errorf("invalid %s: %q (want an integer >= %d)", key, s, min)
	}
	return n, nil
}

func millis(getenv func(string) string, key string, def time.Duration, min int) (time.Duration, error) {
	ms, err := integer(getenv, key, int(def/time.Millisecond), min)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

package config_test

import (
	"testing"
	"time"

	"github.com/lost-woods/qrandom/src/config"
	"github.com/lost-woods/qrandom/src/entropy"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(env(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "777" || cfg.APIKey != "" {
		t.Fatalf("unexpected port/key: %+v", cfg)
	}
	if cfg.Entropy.Kind != entropy.KindCrypto {
		t.Fatalf("entropy kind = %q, want crypto", cfg.Entropy.Kind)
	}
	if cfg.MaxBound != 9999 || cfg.SampleMaxAttempts != 0 {
		t.Fatalf("unexpected bounds: %+v", cfg)
	}
	if cfg.HealthInterval != 10*time.Second || cfg.SampleTimeout != 5*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.CircuitCacheSize != 1024 {
		t.Fatalf("cache size = %d, want 1024", cfg.CircuitCacheSize)
	}
}

func TestLoad_Serial(t *testing.T) {
	cfg, err := config.Load(env(map[string]string{
		"PORT":                "8080",
		"API_KEY":             "secret",
		"ENTROPY_SOURCE":      "serial",
		"SERIAL_DEVICE_NAME":  "/dev/ttyACM0",
		"SERIAL_BAUD_RATE":    "115200",
		"SERIAL_READ_TIMEOUT": "250",
		"SERIAL_OPEN_RETRIES": "2",
		"RNG_HEALTH_INTERVAL": "500",
		"MAX_BOUND":           "100",
		"SAMPLE_MAX_ATTEMPTS": "64",
		"SAMPLE_TIMEOUT":      "0",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := entropy.SerialConfig{Name: "/dev/ttyACM0", Baud: 115200, ReadTimeout: 250 * time.Millisecond, Retries: 2}
	if cfg.Entropy.Serial != want {
		t.Fatalf("serial = %+v, want %+v", cfg.Entropy.Serial, want)
	}
	if cfg.Port != "8080" || cfg.APIKey != "secret" || cfg.MaxBound != 100 || cfg.SampleMaxAttempts != 64 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HealthInterval != 500*time.Millisecond || cfg.SampleTimeout != 0 {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []map[string]string{
		{"ENTROPY_SOURCE": "lava-lamp"},
		{"ENTROPY_SOURCE": "seeded"},
		{"ENTROPY_SOURCE": "serial"},
		{"ENTROPY_SOURCE": "serial", "SERIAL_DEVICE_NAME": "COM3", "SERIAL_BAUD_RATE": "fast", "SERIAL_READ_TIMEOUT": "1"},
		{"ENTROPY_SOURCE": "serial", "SERIAL_DEVICE_NAME": "COM3", "SERIAL_BAUD_RATE": "9600", "SERIAL_READ_TIMEOUT": "-1"},
		{"MAX_BOUND": "0"},
		{"SAMPLE_MAX_ATTEMPTS": "-1"},
		{"RNG_HEALTH_INTERVAL": "0"},
		{"SAMPLE_TIMEOUT": "soon"},
		{"CIRCUIT_CACHE_SIZE": "0"},
	}
	for _, vars := range tests {
		if _, err := config.Load(env(vars)); err == nil {
			t.Fatalf("env %v: expected error", vars)
		}
	}
}

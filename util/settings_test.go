package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func resetConfig() {
	Config = viper.New()
}

func TestGetRandStringVariousLengths(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"Zero length", 0},
		{"Single character", 1},
		{"Small string", 6},
		{"Large string", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetRandString(tt.length)

			if len(result) != tt.length {
				t.Errorf("GetRandString(%d) = length %d, expected %d", tt.length, len(result), tt.length)
			}

			for i, char := range result {
				if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')) {
					t.Errorf("GetRandString(%d) contains non-letter at position %d: %c", tt.length, i, char)
				}
			}
		})
	}
}

func TestRegisterNewConfigListener(t *testing.T) {
	config_listeners = []func(){}

	called1 := false
	called2 := false

	listener1 := func() { called1 = true }
	listener2 := func() { called2 = true }

	RegisterNewConfigListener(listener1)
	RegisterNewConfigListener(listener2)
	RegisterNewConfigListener(listener1) // duplicate

	if len(config_listeners) != 2 {
		t.Errorf("Expected 2 listeners after duplicate addition, got %d", len(config_listeners))
	}

	OnNewConfig()

	if !called1 || !called2 {
		t.Error("OnNewConfig should call all registered listeners")
	}
}

func TestSetupConfigDefaults(t *testing.T) {
	resetConfig()
	if err := SetupConfig(""); err != nil {
		t.Fatalf("SetupConfig() returned error: %v", err)
	}

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"log_level", "info"},
		{"mqtt.enabled", false},
		{"mqtt.broker_uri", "tcp://mqtt"},
		{"mqtt.report_topic", "smarthouse/report"},
		{"monitor.enabled", false},
		{"monitor.port", 8080},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if Config.Get(tt.key) != tt.expected {
				t.Errorf("Config.Get(%s) = %v, expected %v", tt.key, Config.Get(tt.key), tt.expected)
			}
		})
	}
}

func TestSetupConfigFile(t *testing.T) {
	resetConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "house.yaml")
	content := "log_level: debug\nmonitor:\n  port: 9191\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := SetupConfig(path); err != nil {
		t.Fatalf("SetupConfig(%s) returned error: %v", path, err)
	}
	if Config.GetString("log_level") != "debug" {
		t.Errorf("log_level = %s, expected debug", Config.GetString("log_level"))
	}
	if Config.GetInt("monitor.port") != 9191 {
		t.Errorf("monitor.port = %d, expected 9191", Config.GetInt("monitor.port"))
	}
	// untouched keys keep their defaults
	if Config.GetString("mqtt.report_topic") != "smarthouse/report" {
		t.Errorf("mqtt.report_topic = %s, expected default", Config.GetString("mqtt.report_topic"))
	}
}

func TestSetupConfigMissingExplicitFile(t *testing.T) {
	resetConfig()
	err := SetupConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("SetupConfig with a missing explicit file should fail")
	}
}

func TestSetupConfigEnvironment(t *testing.T) {
	resetConfig()
	t.Setenv("SMARTHOUSE_MQTT_REPORT_TOPIC", "home/report")

	if err := SetupConfig(""); err != nil {
		t.Fatalf("SetupConfig() returned error: %v", err)
	}
	if Config.GetString("mqtt.report_topic") != "home/report" {
		t.Errorf("mqtt.report_topic = %s, expected home/report", Config.GetString("mqtt.report_topic"))
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"trace":   "trace",
		"DEBUG":   "debug",
		"warn":    "warn",
		"error":   "error",
		"info":    "info",
		"unknown": "info",
	}
	for in, expected := range tests {
		if ParseLevel(in).String() != expected {
			t.Errorf("ParseLevel(%s) = %v, expected %s", in, ParseLevel(in), expected)
		}
	}
}

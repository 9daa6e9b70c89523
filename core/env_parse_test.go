package core

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	const key = "TEST_GET_ENV_OR_DEFAULT"

	tests := []struct {
		name         string
		value        string
		defaultValue string
		want         string
	}{
		{"returns value when set", "custom", "fallback", "custom"},
		{"returns default when empty", "", "fallback", "fallback"},
		{"preserves whitespace value", "  padded  ", "fallback", "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.value)
			if got := GetEnvOrDefault(key, tt.defaultValue); got != tt.want {
				t.Errorf("GetEnvOrDefault() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	const key = "TEST_PARSE_INT_ENV"

	tests := []struct {
		name         string
		value        string
		defaultValue int
		want         int
	}{
		{"parses valid integer", "42", 0, 42},
		{"parses negative integer", "-10", 0, -10},
		{"returns default for garbage", "not_a_number", 99, 99},
		{"returns default for float", "3.5", 7, 7},
		{"returns default when empty", "", 55, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.value)
			if got := ParseIntEnv(key, tt.defaultValue); got != tt.want {
				t.Errorf("ParseIntEnv() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseInt64Env(t *testing.T) {
	const key = "TEST_PARSE_INT64_ENV"

	tests := []struct {
		name         string
		value        string
		defaultValue int64
		want         int64
	}{
		{"parses value beyond int32", "5000000000", 0, 5000000000},
		{"returns default for garbage", "big", 12, 12},
		{"returns default when empty", "", 34, 34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.value)
			if got := ParseInt64Env(key, tt.defaultValue); got != tt.want {
				t.Errorf("ParseInt64Env() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFloat64Env(t *testing.T) {
	const key = "TEST_PARSE_FLOAT64_ENV"

	tests := []struct {
		name         string
		value        string
		defaultValue float64
		want         float64
	}{
		{"parses decimal", "0.7", 0, 0.7},
		{"parses integer form", "2", 0, 2.0},
		{"returns default for garbage", "half", 0.5, 0.5},
		{"returns default when empty", "", 0.25, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.value)
			if got := ParseFloat64Env(key, tt.defaultValue); got != tt.want {
				t.Errorf("ParseFloat64Env() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	const key = "TEST_PARSE_BOOL_ENV"

	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{"true literal", "true", false, true},
		{"one", "1", false, true},
		{"yes uppercase", "YES", false, true},
		{"on with padding", " on ", false, true},
		{"false literal", "false", true, false},
		{"zero", "0", true, false},
		{"no", "no", true, false},
		{"off", "OFF", true, false},
		{"garbage keeps default true", "maybe", true, true},
		{"garbage keeps default false", "maybe", false, false},
		{"empty keeps default", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.value)
			if got := ParseBoolEnv(key, tt.defaultValue); got != tt.want {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	const key = "TEST_PARSE_DURATION_ENV"

	tests := []struct {
		name           string
		value          string
		defaultSeconds int
		want           time.Duration
	}{
		{"parses seconds", "90", 10, 90 * time.Second},
		{"returns default for garbage", "soon", 30, 30 * time.Second},
		{"returns default when empty", "", 300, 300 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.value)
			if got := ParseDurationEnv(key, tt.defaultSeconds); got != tt.want {
				t.Errorf("ParseDurationEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

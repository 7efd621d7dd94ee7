package hostutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},

		// Full URLs passed through
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"http://localhost:3000", "http://localhost:3000"},

		// Localhost variants → http
		{"localhost", "http://localhost"},
		{"localhost:3000", "http://localhost:3000"},
		{"127.0.0.1", "http://127.0.0.1"},
		{"127.0.0.1:3000", "http://127.0.0.1:3000"},
		{"[::1]:3000", "http://[::1]:3000"},
		{"app.localhost", "http://app.localhost"},

		// Non-localhost → https
		{"example.com", "https://example.com"},
		{"pm.example.com:8080", "https://pm.example.com:8080"},

		// localhost.example.com is NOT localhost
		{"localhost.example.com", "https://localhost.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"localhost", true},
		{"localhost:3000", true},
		{"app.localhost:3000", true},
		{"127.0.0.1", true},
		{"[::1]", true},
		{"[::1]:3000", true},
		{"example.com", false},
		{"localhost.example.com", false},
		{"127.0.0.2", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.input))
		})
	}
}

func TestRequireSecureURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://pm.example.com", false},
		{"", false},
		{"http://localhost:3001", false},
		{"http://127.0.0.1:8080", false},
		{"http://evil.com", true},
		{"http://pm.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := RequireSecureURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "insecure http://")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

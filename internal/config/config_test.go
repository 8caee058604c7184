package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "/dev/ttyUSB0", cfg.DevicePort)
				assert.Equal(t, 9600, cfg.DeviceBaudRate)
				assert.Equal(t, 100*time.Millisecond, cfg.DeviceReadTimeout)
				assert.Equal(t, "\n", cfg.DeviceTerminator)
				assert.Equal(t, 5*time.Second, cfg.CaptureTimeout)
				assert.Equal(t, "accept-all", cfg.CardValidator)
				assert.Equal(t, "aes-gcm", cfg.EncryptionAlgorithm)
				assert.Equal(t, "noop", cfg.SettlementProvider)
				assert.True(t, cfg.HTTPSRedirectEnabled)
				assert.Empty(t, cfg.HTTPSRedirectHost)
				assert.False(t, cfg.TLSEnabled())
			},
		},
		{
			name: "load custom device configuration",
			envVars: map[string]string{
				"DEVICE_PORT":             "/dev/ttyACM0",
				"DEVICE_BAUD_RATE":        "115200",
				"DEVICE_READ_TIMEOUT_MS":  "250",
				"DEVICE_TERMINATOR":       `\r\n`,
				"CAPTURE_TIMEOUT_SECONDS": "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/dev/ttyACM0", cfg.DevicePort)
				assert.Equal(t, 115200, cfg.DeviceBaudRate)
				assert.Equal(t, 250*time.Millisecond, cfg.DeviceReadTimeout)
				assert.Equal(t, "\r\n", cfg.DeviceTerminator)
				assert.Equal(t, 10*time.Second, cfg.CaptureTimeout)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":                    "sqlite",
				"DB_CONNECTION_STRING":         "file:cardvault.db",
				"DB_MAX_OPEN_CONNECTIONS":      "1",
				"DB_CONN_MAX_LIFETIME_MINUTES": "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sqlite", cfg.DBDriver)
				assert.Equal(t, "file:cardvault.db", cfg.DBConnectionString)
				assert.Equal(t, 1, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load tls configuration",
			envVars: map[string]string{
				"TLS_CERT_FILE": "/etc/cardvault/cert.pem",
				"TLS_KEY_FILE":  "/etc/cardvault/key.pem",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.TLSEnabled())
			},
		},
		{
			name: "load https redirect host",
			envVars: map[string]string{
				"HTTPS_REDIRECT_HOST": "cards.example.com:8443",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "cards.example.com:8443", cfg.HTTPSRedirectHost)
			},
		},
		{
			name: "load settlement configuration",
			envVars: map[string]string{
				"SETTLEMENT_PROVIDER":        "nats",
				"NATS_URL":                   "nats://broker:4222",
				"SETTLEMENT_SUBJECT":         "bank.settle",
				"SETTLEMENT_TIMEOUT_SECONDS": "2",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "nats", cfg.SettlementProvider)
				assert.Equal(t, "nats://broker:4222", cfg.NATSURL)
				assert.Equal(t, "bank.settle", cfg.SettlementSubject)
				assert.Equal(t, 2*time.Second, cfg.SettlementTimeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}
			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Success_Defaults", func(t *testing.T) {
		cfg := Load()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Error_UnknownDriver", func(t *testing.T) {
		cfg := Load()
		cfg.DBDriver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Error_UnknownAlgorithm", func(t *testing.T) {
		cfg := Load()
		cfg.EncryptionAlgorithm = "des"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Error_UnknownSettlementProvider", func(t *testing.T) {
		cfg := Load()
		cfg.SettlementProvider = "stripe"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Error_KMSProviderWithoutKeyURI", func(t *testing.T) {
		cfg := Load()
		cfg.KMSProvider = "localsecrets"
		cfg.KMSKeyURI = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Error_UnknownKMSProvider", func(t *testing.T) {
		cfg := Load()
		cfg.KMSProvider = "vaultwarden"
		cfg.KMSKeyURI = "base64key://"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Error_ZeroCaptureTimeout", func(t *testing.T) {
		cfg := Load()
		cfg.CaptureTimeout = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "\n", unescape(`\n`))
	assert.Equal(t, "\r\n", unescape(`\r\n`))
	assert.Equal(t, ";", unescape(";"))
	assert.Equal(t, `\q`, unescape(`\q`))
}

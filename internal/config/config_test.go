package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "BACKEND_BASE_URL", "BACKEND_BREAKER_FAILURES",
		"CHECKIN_PAY_LATER", "CHECKIN_PAY_LATER_STATIONS", "CHECKIN_SESSION_TTL",
		"CHECKIN_LOCK_TTL", "BACKEND_TIMEOUT", "CORS_ALLOWED_ORIGINS", "APP_ENV", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.Backend.FailureThreshold)
	assert.False(t, cfg.CheckIn.PayLater)
	assert.Empty(t, cfg.CheckIn.PayLaterStations)
	assert.Equal(t, time.Hour, cfg.CheckIn.SessionTTL)
	assert.Equal(t, 65*time.Second, cfg.CheckIn.LockTTL, "four 15s backend calls plus margin")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ops.example.test, https://admin.example.test ,")
	t.Setenv("BACKEND_BREAKER_FAILURES", "3")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("CHECKIN_PAY_LATER", "true")
	t.Setenv("CHECKIN_PAY_LATER_STATIONS", "ST-1, ST-2=false,ST-3=yes")
	t.Setenv("CHECKIN_SESSION_TTL", "45m")
	t.Setenv("CHECKIN_LOCK_TTL", "2m")
	t.Setenv("APP_ENV", "development")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://ops.example.test", "https://admin.example.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.Backend.FailureThreshold)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.CheckIn.PayLater)
	assert.Equal(t, map[string]bool{"ST-1": true, "ST-2": false}, cfg.CheckIn.PayLaterStations)
	assert.Equal(t, 45*time.Minute, cfg.CheckIn.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.CheckIn.LockTTL)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BACKEND_BREAKER_FAILURES", "many")
	t.Setenv("CHECKIN_LOCK_TTL", "soon")
	t.Setenv("CHECKIN_PAY_LATER", "maybe")

	cfg := Load()

	assert.Equal(t, 5, cfg.Backend.FailureThreshold)
	assert.Equal(t, 65*time.Second, cfg.CheckIn.LockTTL)
	assert.False(t, cfg.CheckIn.PayLater)
}

func TestLockTTLFor(t *testing.T) {
	tests := []struct {
		name       string
		configured time.Duration
		timeout    time.Duration
		want       time.Duration
	}{
		{"too short for the backend chain", 30 * time.Second, 15 * time.Second, 65 * time.Second},
		{"long enough", 2 * time.Minute, 15 * time.Second, 2 * time.Minute},
		{"fast backend", 30 * time.Second, 5 * time.Second, 30 * time.Second},
		{"exactly the floor", 25 * time.Second, 5 * time.Second, 25 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lockTTLFor(tt.configured, tt.timeout))
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "localhost", cfg.DBHost)
	require.Equal(t, "5432", cfg.DBPort)
	require.Equal(t, "tripwise", cfg.DBName)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	require.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	require.Equal(t, "SECRET123", cfg.AdminSignupCode)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("ADMIN_SIGNUP_CODE", "rotate-me")

	cfg := Load()
	require.Equal(t, "db.internal", cfg.DBHost)
	require.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	require.Equal(t, "rotate-me", cfg.AdminSignupCode)
}

func TestParseDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")

	cfg := Load()
	require.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "localhost", DBPort: "5432", DBUser: "postgres",
		DBPassword: "pw", DBName: "tripwise", DBSSLMode: "disable",
	}
	require.Equal(t,
		"host=localhost user=postgres password=pw dbname=tripwise port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN())
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"PROCUREHUB_APP_NAME":                  os.Getenv("PROCUREHUB_APP_NAME"),
		"PROCUREHUB_APP_ENV":                   os.Getenv("PROCUREHUB_APP_ENV"),
		"PROCUREHUB_APP_PORT":                  os.Getenv("PROCUREHUB_APP_PORT"),
		"PROCUREHUB_DATABASE_HOST":             os.Getenv("PROCUREHUB_DATABASE_HOST"),
		"PROCUREHUB_DATABASE_PORT":             os.Getenv("PROCUREHUB_DATABASE_PORT"),
		"PROCUREHUB_DATABASE_USER":             os.Getenv("PROCUREHUB_DATABASE_USER"),
		"PROCUREHUB_DATABASE_PASSWORD":         os.Getenv("PROCUREHUB_DATABASE_PASSWORD"),
		"PROCUREHUB_DATABASE_DBNAME":           os.Getenv("PROCUREHUB_DATABASE_DBNAME"),
		"PROCUREHUB_DATABASE_SSLMODE":          os.Getenv("PROCUREHUB_DATABASE_SSLMODE"),
		"PROCUREHUB_DATABASE_MAX_OPEN_CONNS":   os.Getenv("PROCUREHUB_DATABASE_MAX_OPEN_CONNS"),
		"PROCUREHUB_DATABASE_MAX_IDLE_CONNS":   os.Getenv("PROCUREHUB_DATABASE_MAX_IDLE_CONNS"),
		"PROCUREHUB_FEDERATION_ENCRYPTION_KEY": os.Getenv("PROCUREHUB_FEDERATION_ENCRYPTION_KEY"),
		"PROCUREHUB_FEDERATION_RETRY_ATTEMPTS": os.Getenv("PROCUREHUB_FEDERATION_RETRY_ATTEMPTS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "procurehub-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "procurehub", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("applies federation defaults", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.Federation.PoolMaxOpenConns)
		assert.Equal(t, 3, cfg.Federation.RetryAttempts)
		assert.Equal(t, "1s", cfg.Federation.RetryBackoff.String())
		assert.Equal(t, "5m0s", cfg.Federation.PoolIdleTTL.String())
		assert.Equal(t, "5m0s", cfg.Federation.CacheDefaultTTL.String())
		assert.Equal(t, "federation:tenant-invalidation", cfg.Federation.InvalidationChannel)
	})

	t.Run("loads values from environment variables with PROCUREHUB prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PROCUREHUB_APP_NAME", "test-app")
		os.Setenv("PROCUREHUB_APP_ENV", "testing")
		os.Setenv("PROCUREHUB_APP_PORT", "9000")
		os.Setenv("PROCUREHUB_DATABASE_HOST", "testdb.local")
		os.Setenv("PROCUREHUB_DATABASE_PORT", "5433")
		os.Setenv("PROCUREHUB_DATABASE_USER", "testuser")
		os.Setenv("PROCUREHUB_DATABASE_PASSWORD", "testpass")
		os.Setenv("PROCUREHUB_DATABASE_DBNAME", "testdb")
		os.Setenv("PROCUREHUB_DATABASE_SSLMODE", "require")
		os.Setenv("PROCUREHUB_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("PROCUREHUB_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("PROCUREHUB_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("PROCUREHUB_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("PROCUREHUB_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("PROCUREHUB_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects an encryption key of the wrong length", func(t *testing.T) {
		clearEnv()
		os.Setenv("PROCUREHUB_FEDERATION_ENCRYPTION_KEY", "too-short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "encryption_key must be exactly 32 bytes")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"PROCUREHUB_APP_ENV":                   os.Getenv("PROCUREHUB_APP_ENV"),
		"PROCUREHUB_DATABASE_PASSWORD":         os.Getenv("PROCUREHUB_DATABASE_PASSWORD"),
		"PROCUREHUB_DATABASE_SSLMODE":          os.Getenv("PROCUREHUB_DATABASE_SSLMODE"),
		"PROCUREHUB_FEDERATION_ENCRYPTION_KEY": os.Getenv("PROCUREHUB_FEDERATION_ENCRYPTION_KEY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("PROCUREHUB_APP_ENV", "production")
		os.Setenv("PROCUREHUB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("PROCUREHUB_DATABASE_SSLMODE", "require")
		os.Setenv("PROCUREHUB_FEDERATION_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("PROCUREHUB_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("PROCUREHUB_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires federation.encryption_key in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("PROCUREHUB_FEDERATION_ENCRYPTION_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "federation.encryption_key is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}

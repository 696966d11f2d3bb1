package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("NOTIFICATION_RETENTION", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 720*time.Hour, cfg.NotificationRetention)
	assert.Equal(t, "@every 1h", cfg.NotificationPruneSchedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("NOTIFICATION_RETENTION", "48h")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 48*time.Hour, cfg.NotificationRetention)
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(&Config{DBDriver: "oracle", DatabaseURL: "x"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")

	_, err = InitDB(&Config{DBDriver: "sqlite"})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestInitDBSQLite(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: "sqlite", DatabaseURL: "file::memory:"})
	if !assert.NoError(t, err) {
		return
	}
	defer db.CloseDB()
	assert.Nil(t, db.Mongo)
	assert.Nil(t, db.Redis)

	var fk int
	assert.NoError(t, db.SQL.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	var lowered string
	assert.NoError(t, db.SQL.Raw("SELECT LOWER(?)", "ÉCOLE D'ÉTÉ").Scan(&lowered).Error)
	assert.Equal(t, "école d'été", lowered)
}

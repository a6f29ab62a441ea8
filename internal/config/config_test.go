package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "quill", cfg.DBName)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "quill", cfg.MongoDB)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("MONGO_DB", "content")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "content", cfg.MongoDB)
}

func TestValidateMissingParameter(t *testing.T) {
	cfg := &Config{
		DBHost:   "localhost",
		DBUser:   "user",
		DBName:   "quill",
		MongoURI: "",
		MongoDB:  "quill",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, models.KindConfiguration, models.KindOf(err))
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestValidateProductionPassword(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBUser:     "user",
		DBPassword: "password",
		DBName:     "quill",
		MongoURI:   "mongodb://db:27017",
		MongoDB:    "quill",
		Env:        "production",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, models.KindConfiguration, models.KindOf(err))
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "quill",
		DBPassword: "secret",
		DBName:     "content",
	}

	assert.Equal(t,
		"host=db port=5433 user=quill password=secret dbname=content sslmode=disable",
		cfg.PostgresDSN(),
	)
}

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func devConfig() *Config {
	return &Config{
		Port:       "8480",
		JWTSecret:  "your-secret-key-change-in-production",
		DBPassword: "password",
		DBSSLMode:  "disable",
		Env:        "development",
	}
}

func prodConfig() *Config {
	return &Config{
		Port:       "8480",
		JWTSecret:  strings.Repeat("s", 48),
		DBPassword: "a-real-database-password",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := devConfig()
	cfg.Port = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")

	cfg = devConfig()
	cfg.JWTSecret = ""
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_DevelopmentToleratesDefaults(t *testing.T) {
	assert.NoError(t, devConfig().Validate())
}

func TestValidate_ProductionRejectsDefaultSecret(t *testing.T) {
	cfg := prodConfig()
	cfg.JWTSecret = "your-secret-key-change-in-production"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "default value")
}

func TestValidate_ProductionRejectsShortSecret(t *testing.T) {
	cfg := prodConfig()
	cfg.JWTSecret = "short-secret"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestValidate_ProductionRejectsWeakDBPassword(t *testing.T) {
	for _, pw := range []string{"password", ""} {
		cfg := prodConfig()
		cfg.DBPassword = pw
		err := cfg.Validate()
		assert.Error(t, err, "expected DB password %q to be rejected", pw)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
	}
}

func TestValidate_ProdAliasEnforced(t *testing.T) {
	cfg := prodConfig()
	cfg.Env = "prod"
	cfg.JWTSecret = "short-secret"
	assert.Error(t, cfg.Validate())

	cfg = prodConfig()
	cfg.Env = "prod"
	assert.NoError(t, cfg.Validate())
}

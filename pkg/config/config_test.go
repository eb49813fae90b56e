package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg := fromViper(newTestViper())

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, SessionStoreRedis, cfg.Wizard.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.Wizard.SessionTTL)
	assert.True(t, cfg.Options.CacheEnabled)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REGISTRY_BASE_URL", "https://registry.example.edu/api/")
	t.Setenv("REGISTRY_TIMEOUT", "3s")
	t.Setenv("WIZARD_SESSION_STORE", "MEMORY")
	t.Setenv("WIZARD_SESSION_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.edu, ,https://b.example.edu")

	cfg := fromViper(newTestViper())

	assert.Equal(t, "https://registry.example.edu/api", cfg.Registry.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Wizard.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.Wizard.SessionTTL)
	assert.Equal(t, []string{"https://a.example.edu", "https://b.example.edu"}, cfg.CORS.AllowedOrigins)
}

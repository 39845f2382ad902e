package config

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper() *viper.Viper {
	v := viper.New()
	v.Set("PORT", "9090")
	v.Set("JWT_SECRET", "test-secret")
	v.Set("STORAGE_DRIVER", "memory")
	v.Set("LOG_LEVEL", "debug")
	v.Set("TIMEZONE", "UTC")
	v.Set("RECURRING_MAX_CATCHUP", 5)
	v.Set("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	v.Set("RATES_BRIDGE_CURRENCY", "eur")
	return v
}

func TestFromViper(t *testing.T) {
	cfg, err := fromViper(baseViper())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 5, cfg.RecurringMaxCatchUp)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, cfg.Location, cfg.Now().Location())
	assert.Equal(t, "EUR", cfg.RatesBridgeCurrency)
}

func TestFromViper_Rejects(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"postgres without url": func(v *viper.Viper) { v.Set("STORAGE_DRIVER", "postgres") },
		"unknown driver":       func(v *viper.Viper) { v.Set("STORAGE_DRIVER", "redis") },
		"empty secret":         func(v *viper.Viper) { v.Set("JWT_SECRET", "") },
		"bad log level":        func(v *viper.Viper) { v.Set("LOG_LEVEL", "loud") },
		"bad timezone":         func(v *viper.Viper) { v.Set("TIMEZONE", "Mars/Olympus") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := baseViper()
			mutate(v)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestFromViper_CatchUpFallsBackToDefault(t *testing.T) {
	v := baseViper()
	v.Set("RECURRING_MAX_CATCHUP", 0)
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.RecurringMaxCatchUp)
}

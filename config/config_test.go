package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	utils.SilenceLogger()
	t.Setenv("PORT", "")
	t.Setenv("QUEUE_POLL_INTERVAL", "2s")
	t.Setenv("LOYALTY_POINT_VALUE", "nope")
	t.Setenv("CART_STORE", "file")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.QueuePollInterval)
	assert.True(t, decimal.NewFromInt(10000).Equal(cfg.LoyaltyPointValue))
	assert.Equal(t, "file", cfg.CartStore)
	assert.Equal(t, 0, cfg.RateLimitPerMin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	t.Setenv("QUEUE_POLL_INTERVAL", "3")
	assert.Equal(t, 3*time.Second, Load().QueuePollInterval)
}

func TestValidateRequiresSecretInRelease(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		secret  string
		wantErr bool
	}{
		{"debug without secret", "debug", "", false},
		{"release without secret", "release", "", true},
		{"release with secret", "release", "s3cret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{GinMode: tt.mode, JWTSecret: tt.secret}).Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "JWT_SECRET")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInitDBAndMigrate(t *testing.T) {
	utils.SilenceLogger()
	db, err := InitDB(&Config{DBDriver: "sqlite", DBDSN: "file:config_test?mode=memory&cache=shared"})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var settings []models.StoreSetting
	require.NoError(t, db.Find(&settings).Error)
	assert.Len(t, settings, 1)
	assert.True(t, settings[0].OrderEnabled)

	_, err = InitDB(&Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

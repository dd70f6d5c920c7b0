package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrencyIDR(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "Rp 0"},
		{decimal.NewFromInt(500), "Rp 500"},
		{decimal.NewFromInt(20000), "Rp 20.000"},
		{decimal.NewFromInt(1234567), "Rp 1.234.567"},
		{decimal.RequireFromString("15000.5"), "Rp 15.000,50"},
		{decimal.NewFromInt(-75000), "Rp -75.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrencyIDR(tt.in))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "kitchen", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "kitchen", claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken(7, "staff", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
	_, err = ParseToken("garbage")
	assert.Error(t, err)
}

func TestConfigureLogger(t *testing.T) {
	InitLogger()
	SilenceLogger()

	require.NoError(t, ConfigureLogger("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, InfoLogger.GetLevel())
	assert.Equal(t, logrus.ErrorLevel, ErrorLogger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, ErrorLogger.Formatter)

	assert.Error(t, ConfigureLogger("loud", ""))
	assert.Equal(t, logrus.DebugLevel, InfoLogger.GetLevel())
}

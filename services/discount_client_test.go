package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountClientValidate(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		wantAmount     int64
		wantName       string
		wantErr        error
	}{
		{
			name:           "valid code",
			mockResponse:   `{"valid": true, "discount_amount": 10000, "code": "HEMAT", "name": "Hemat 10rb"}`,
			mockStatusCode: http.StatusOK,
			wantAmount:     10000,
			wantName:       "Hemat 10rb",
		},
		{
			name:           "amount as string",
			mockResponse:   `{"valid": true, "discount_amount": "7500.00", "code": "HEMAT"}`,
			mockStatusCode: http.StatusOK,
			wantAmount:     7500,
		},
		{
			name:           "non numeric amount",
			mockResponse:   `{"valid": true, "discount_amount": "lots", "code": "HEMAT"}`,
			mockStatusCode: http.StatusOK,
			wantAmount:     0,
		},
		{
			name:           "rejected code",
			mockResponse:   `{"valid": false, "error": "code expired"}`,
			mockStatusCode: http.StatusUnprocessableEntity,
			wantErr:        ErrDiscountInvalid,
		},
		{
			name:           "server error",
			mockResponse:   `oops`,
			mockStatusCode: http.StatusBadGateway,
			wantErr:        ErrDiscountUnavailable,
		},
		{
			name:           "garbage body",
			mockResponse:   `<html>`,
			mockStatusCode: http.StatusOK,
			wantErr:        ErrDiscountUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/discounts/validate", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "HEMAT", body["code"])
				assert.Equal(t, "50000", body["subtotal"])

				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			client := NewDiscountClient(server.URL+"/", "secret")
			d, err := client.Validate(context.Background(), " HEMAT ", dec(50000))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "HEMAT", d.Code)
			assert.Equal(t, tt.wantName, d.Label)
			assert.True(t, d.Amount.Equal(dec(tt.wantAmount)), d.Amount.String())
		})
	}
}

func TestDiscountClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewDiscountClient(url, "").Validate(context.Background(), "HEMAT", dec(1000))
	assert.ErrorIs(t, err, ErrDiscountUnavailable)
}

func TestDiscountClientEmptyCode(t *testing.T) {
	_, err := NewDiscountClient("http://127.0.0.1:1", "").Validate(context.Background(), "  ", dec(1000))
	assert.ErrorIs(t, err, ErrDiscountInvalid)
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/cart"
)

// DiscountValidator checks a code against a cart subtotal.
type DiscountValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (cart.Discount, error)
}

// DiscountClient talks to the external discount service.
type DiscountClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewDiscountClient(baseURL, apiKey string) *DiscountClient {
	return &DiscountClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type discountRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type discountResponse struct {
	Valid          bool   `json:"valid"`
	DiscountAmount any    `json:"discount_amount"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Error          string `json:"error"`
}

// Validate returns ErrDiscountInvalid for a rejected code and
// ErrDiscountUnavailable when the service cannot be reached or answers
// with something unreadable.
func (c *DiscountClient) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (cart.Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return cart.Discount{}, fmt.Errorf("%w: empty code", ErrDiscountInvalid)
	}

	body, err := json.Marshal(discountRequest{Code: code, Subtotal: subtotal})
	if err != nil {
		return cart.Discount{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/discounts/validate", bytes.NewReader(body))
	if err != nil {
		return cart.Discount{}, fmt.Errorf("%w: %v", ErrDiscountUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cart.Discount{}, fmt.Errorf("%w: %v", ErrDiscountUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return cart.Discount{}, fmt.Errorf("%w: %v", ErrDiscountUnavailable, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return cart.Discount{}, fmt.Errorf("%w: status %d", ErrDiscountUnavailable, resp.StatusCode)
	}

	var out discountResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return cart.Discount{}, fmt.Errorf("%w: %v", ErrDiscountUnavailable, err)
	}
	if !out.Valid {
		msg := out.Error
		if msg == "" {
			msg = code
		}
		return cart.Discount{}, fmt.Errorf("%w: %s", ErrDiscountInvalid, msg)
	}

	d := cart.Discount{Code: out.Code, Amount: cart.Amount(out.DiscountAmount), Label: out.Name}
	if d.Code == "" {
		d.Code = code
	}
	return d, nil
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/cart"
	"github.com/yeremiapane/restaurant-pos/config"
	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	utils.SilenceLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks one delivery order through every surface:
// 1. customer builds a cart, applies a discount code, checks out with QRIS
// 2. staff verifies the payment and confirms
// 3. kitchen screen gets the order and cooks it
// 4. staff delivers and completes, loyalty points land on the customer
// 5. receipt and public tracking reflect the final state
func TestEndToEndIntegration(t *testing.T) {
	discountAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Code     string          `json:"code"`
			Subtotal decimal.Decimal `json:"subtotal"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Code != "HEMAT10" || r.Header.Get("Authorization") != "Bearer secret" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"valid": false, "error": "unknown code"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"valid": true, "discount_amount": 10000, "code": body.Code, "name": "Hemat 10rb"})
	}))
	defer discountAPI.Close()

	cartDir := t.TempDir()
	a, err := newApp(&config.Config{
		GinMode:           "release",
		DBDriver:          "sqlite",
		DBDSN:             "file:e2e?mode=memory&cache=shared",
		JWTSecret:         "e2e-secret",
		CORSOrigin:        "*",
		DiscountAPIURL:    discountAPI.URL,
		DiscountAPIKey:    "secret",
		CartStore:         "file",
		CartDir:           cartDir,
		QueuePollInterval: time.Hour,
		LoyaltyPointValue: decimal.NewFromInt(10000),
		RateLimitPerMin:   600,
	})
	require.NoError(t, err)
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.start(ctx)

	fx := seedMenu(t, a.db)
	srv := httptest.NewServer(a.engine)
	defer srv.Close()
	c := &client{t: t, base: srv.URL}

	// 1. customer
	res := c.do(http.MethodPost, "/cart/items", "", map[string]interface{}{
		"product_id": fx.nasi, "qty": 2,
		"modifiers": []map[string]uint{{"group_id": fx.spice, "modifier_id": fx.hot}},
	})
	require.Equal(t, http.StatusCreated, res.code, res.message)
	c.session = res.header.Get(controllers.CartSessionHeader)
	require.NotEmpty(t, c.session)

	files, err := filepath.Glob(filepath.Join(cartDir, "*"))
	require.NoError(t, err)
	assert.Len(t, files, 1, "cart persisted to disk")

	res = c.do(http.MethodPost, "/cart/discount", "", map[string]string{"code": "BOGUS"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.code)
	res = c.do(http.MethodPost, "/cart/discount", "", map[string]string{"code": "HEMAT10"})
	require.Equal(t, http.StatusOK, res.code, res.message)

	kitchen := c.dial("/ws/kitchen", "kitchen")
	defer kitchen.Close()

	res = c.do(http.MethodPost, "/checkout", "", map[string]interface{}{
		"type": "delivery", "payment_method": "qris", "customer_id": fx.customer, "delivery_address": "Jl. Merdeka 1",
	})
	require.Equal(t, http.StatusCreated, res.code, res.message)
	var placed struct {
		Order struct {
			ID         uint            `json:"id"`
			OrderNo    string          `json:"order_no"`
			GrandTotal decimal.Decimal `json:"grand_total"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(res.data, &placed))
	assert.True(t, decimal.NewFromInt(40000).Equal(placed.Order.GrandTotal))
	orders := fmt.Sprintf("/admin/orders/%d", placed.Order.ID)

	// 2. staff
	assert.Equal(t, http.StatusUnprocessableEntity, c.do(http.MethodPost, orders+"/transition", "staff", map[string]string{"status": "confirmed"}).code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, orders+"/verify-payment", "staff", nil).code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, orders+"/transition", "staff", map[string]string{"status": "confirmed"}).code)

	// 3. kitchen
	update := readEvent(t, kitchen, "order_update")
	assert.Contains(t, string(update), placed.Order.OrderNo)
	snapshot := readEvent(t, kitchen, "queue_snapshot")
	assert.Contains(t, string(snapshot), placed.Order.OrderNo, "acknowledged transition refreshes the queue")

	kitchenPath := fmt.Sprintf("/admin/kitchen/orders/%d/transition", placed.Order.ID)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, kitchenPath, "kitchen", map[string]string{"status": "preparing"}).code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, kitchenPath, "kitchen", map[string]string{"status": "ready"}).code)

	// 4. staff finishes
	for _, status := range []string{"delivering", "delivered", "completed"} {
		res = c.do(http.MethodPost, orders+"/transition", "staff", map[string]string{"status": status})
		require.Equal(t, http.StatusOK, res.code, status+": "+res.message)
	}
	var customer models.Customer
	require.NoError(t, a.db.First(&customer, fx.customer).Error)
	assert.Equal(t, int64(4), customer.LoyaltyPoints)

	// 5. receipt and tracking
	res = c.do(http.MethodGet, orders+"/receipt", "cashier", nil)
	require.Equal(t, http.StatusOK, res.code)
	var receipt models.Receipt
	require.NoError(t, json.Unmarshal(res.data, &receipt))
	assert.Equal(t, "Budi", receipt.CustomerName)
	require.Len(t, receipt.Items, 1)
	assert.True(t, decimal.NewFromInt(20000).Equal(receipt.Items[0].PriceSnapshot), "base price, modifiers listed separately")

	res = c.do(http.MethodGet, "/orders/"+url.PathEscape(placed.Order.OrderNo)+"/status", "", nil)
	require.Equal(t, http.StatusOK, res.code, res.message)
	assert.Contains(t, string(res.data), `"Completed"`)
}

type menuFixture struct {
	nasi, spice, hot, customer uint
}

func seedMenu(t *testing.T, db *gorm.DB) menuFixture {
	t.Helper()
	nasi := models.Product{Name: "Nasi Goreng", Price: decimal.NewFromInt(20000), IsActive: true}
	require.NoError(t, db.Create(&nasi).Error)
	spice := models.ModifierGroup{Name: "Spice", SelectionType: cart.SelectionSingle, IsRequired: true, MinSelect: 1, MaxSelect: 1}
	require.NoError(t, db.Create(&spice).Error)
	hot := models.Modifier{GroupID: spice.ID, Name: "Hot", PriceDelta: decimal.NewFromInt(5000), IsActive: true}
	require.NoError(t, db.Create(&hot).Error)
	require.NoError(t, db.Create(&models.ProductModifierGroup{ProductID: nasi.ID, GroupID: spice.ID, Position: 1}).Error)
	customer := models.Customer{Name: "Budi", Phone: "0811"}
	require.NoError(t, db.Create(&customer).Error)
	return menuFixture{nasi: nasi.ID, spice: spice.ID, hot: hot.ID, customer: customer.ID}
}

type client struct {
	t       *testing.T
	base    string
	session string
}

type result struct {
	code    int
	header  http.Header
	message string
	data    json.RawMessage
}

func (c *client) token(role string) string {
	token, err := utils.GenerateToken(1, role, time.Hour)
	require.NoError(c.t, err)
	return token
}

func (c *client) do(method, path, role string, body interface{}) result {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set(controllers.CartSessionHeader, c.session)
	}
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+c.token(role))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env utils.JSONResponse
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	var payload bytes.Buffer
	_, _ = payload.ReadFrom(resp.Body)
	_ = json.Unmarshal(payload.Bytes(), &env)
	_ = json.Unmarshal(payload.Bytes(), &raw)
	return result{code: resp.StatusCode, header: resp.Header, message: env.Message, data: raw.Data}
}

func (c *client) dial(path, role string) *websocket.Conn {
	c.t.Helper()
	u := "ws" + strings.TrimPrefix(c.base, "http") + path + "?token=" + c.token(role)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(c.t, err)
	return conn
}

// readEvent skips frames until one of the given event arrives.
func readEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", event)
		if msg.Event == event {
			return msg.Data
		}
	}
}

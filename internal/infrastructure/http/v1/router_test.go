package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ravikhokle/oddostock/internal/app"
	appctx "github.com/ravikhokle/oddostock/internal/core/context"
	"github.com/ravikhokle/oddostock/internal/core/id"
	v1 "github.com/ravikhokle/oddostock/internal/infrastructure/http/v1"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newClient(t *testing.T, roles ...string) *apiClient {
	t.Helper()
	backend := storage.OpenMemory()
	t.Cleanup(backend.Close)

	router := v1.NewRouter(v1.RouterConfig{
		AppName:  "oddostock",
		Version:  "test",
		Logger:   logger.Nop(),
		Services: app.New(backend.Repos, backend.Publisher),
		Backend:  backend,
		DevUser:  &appctx.UserContext{UserID: id.New(), Email: "dev@oddostock.local", Roles: roles},
	})
	return &apiClient{t: t, router: router}
}

func (c *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *apiClient) json(method, path string, body any, wantStatus int) map[string]any {
	c.t.Helper()
	w := c.do(method, path, body)
	require.Equal(c.t, wantStatus, w.Code, w.Body.String())
	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return out
}

type place struct {
	warehouseID string
	locationID  string
	productID   string
}

func (c *apiClient) seed() place {
	wh := c.json(http.MethodPost, "/api/v1/warehouses", map[string]any{"code": "wh", "name": "Main Warehouse"}, http.StatusCreated)
	loc := c.json(http.MethodPost, "/api/v1/locations", map[string]any{"warehouseId": wh["id"], "name": "Stock"}, http.StatusCreated)
	p := c.json(http.MethodPost, "/api/v1/products", map[string]any{
		"sku": "wid-1", "name": "Widget", "cost": "2.5", "reorderLevel": 10,
	}, http.StatusCreated)
	return place{warehouseID: wh["id"].(string), locationID: loc["id"].(string), productID: p["id"].(string)}
}

func (c *apiClient) level(productID string) float64 {
	c.t.Helper()
	out := c.json(http.MethodGet, "/api/v1/stock/level?productId="+productID, nil, http.StatusOK)
	return out["quantity"].(float64)
}

func TestRouter_Health(t *testing.T) {
	c := newClient(t)

	c.json(http.MethodGet, "/health/live", nil, http.StatusOK)
	ready := c.json(http.MethodGet, "/health/ready", nil, http.StatusOK)
	assert.Equal(t, "ok", ready["status"])
	info := c.json(http.MethodGet, "/health/info", nil, http.StatusOK)
	assert.Equal(t, "memory", info["storage"])
	assert.NotContains(t, info, "database")
}

func TestRouter_ReceiptDeliveryFlow(t *testing.T) {
	c := newClient(t, v1.RoleAdmin)
	p := c.seed()

	rcp := c.json(http.MethodPost, "/api/v1/receipts", map[string]any{
		"warehouseId": p.warehouseID,
		"locationId":  p.locationID,
		"supplier":    map[string]any{"name": "Acme Supplies"},
		"lines": []map[string]any{
			{"productId": p.productID, "quantityOrdered": 100, "quantityReceived": 100, "unitPrice": "2.5"},
		},
	}, http.StatusCreated)
	assert.Equal(t, "draft", rcp["status"])
	assert.NotEmpty(t, rcp["number"])
	assert.Zero(t, c.level(p.productID))

	rcpPath := "/api/v1/receipts/" + rcp["id"].(string)
	done := c.json(http.MethodPost, rcpPath+"/validate", nil, http.StatusOK)
	assert.Equal(t, "done", done["status"])
	assert.NotEmpty(t, done["validatedBy"])
	assert.Equal(t, float64(100), c.level(p.productID))

	again := c.json(http.MethodPost, rcpPath+"/validate", nil, http.StatusUnprocessableEntity)
	assert.Equal(t, "ALREADY_VALIDATED", again["code"])
	assert.Equal(t, float64(100), c.level(p.productID))

	del := c.json(http.MethodPost, "/api/v1/deliveries", map[string]any{
		"warehouseId": p.warehouseID,
		"locationId":  p.locationID,
		"customer":    map[string]any{"name": "Globex"},
		"lines": []map[string]any{
			{"productId": p.productID, "quantityOrdered": 30, "quantityDelivered": 30},
		},
	}, http.StatusCreated)
	c.json(http.MethodPost, "/api/v1/deliveries/"+del["id"].(string)+"/validate", nil, http.StatusOK)
	assert.Equal(t, float64(70), c.level(p.productID))

	big := c.json(http.MethodPost, "/api/v1/deliveries", map[string]any{
		"warehouseId": p.warehouseID,
		"locationId":  p.locationID,
		"customer":    map[string]any{"name": "Globex"},
		"lines": []map[string]any{
			{"productId": p.productID, "quantityOrdered": 500, "quantityDelivered": 500},
		},
	}, http.StatusCreated)
	short := c.json(http.MethodPost, "/api/v1/deliveries/"+big["id"].(string)+"/validate", nil, http.StatusUnprocessableEntity)
	assert.Equal(t, "INSUFFICIENT_STOCK", short["code"])
	assert.Equal(t, float64(70), c.level(p.productID))

	drafts := c.json(http.MethodGet, "/api/v1/deliveries?status=draft", nil, http.StatusOK)
	assert.EqualValues(t, 1, drafts["totalCount"])

	history := c.json(http.MethodGet, "/api/v1/ledger?productId="+p.productID, nil, http.StatusOK)
	entries := history["items"].([]any)
	require.Len(t, entries, 2)
	newest := entries[0].(map[string]any)
	assert.Equal(t, "delivery", newest["transactionType"])
	assert.Equal(t, float64(70), newest["runningBalance"])

	dash := c.json(http.MethodGet, "/api/v1/reports/dashboard", nil, http.StatusOK)
	assert.EqualValues(t, 1, dash["activeProducts"])
	assert.EqualValues(t, 1, dash["pendingDeliveries"])
	assert.Equal(t, "175", dash["stockValue"])

	trail := c.json(http.MethodGet, "/api/v1/audit/"+rcp["id"].(string), nil, http.StatusOK)
	assert.Len(t, trail["items"], 2)
}

func TestRouter_LedgerExport(t *testing.T) {
	c := newClient(t)
	p := c.seed()

	adj := c.json(http.MethodPost, "/api/v1/adjustments", map[string]any{
		"warehouseId": p.warehouseID,
		"locationId":  p.locationID,
		"lines": []map[string]any{
			{"productId": p.productID, "recordedQuantity": 0, "countedQuantity": 12, "reason": "found"},
		},
	}, http.StatusCreated)
	c.json(http.MethodPost, "/api/v1/adjustments/"+adj["id"].(string)+"/validate", nil, http.StatusOK)

	w := c.do(http.MethodGet, "/api/v1/ledger/export", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ledger")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, p.productID, rows[1][1])
	assert.Equal(t, "adjustment", rows[1][4])
	assert.Equal(t, "12", rows[1][5])
}

func TestRouter_Validation(t *testing.T) {
	c := newClient(t)
	p := c.seed()

	bad := c.json(http.MethodGet, "/api/v1/receipts/not-a-uuid", nil, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION_ERROR", bad["code"])

	missing := c.json(http.MethodGet, "/api/v1/receipts/"+id.New().String(), nil, http.StatusNotFound)
	assert.Equal(t, "NOT_FOUND", missing["code"])

	noLines := c.json(http.MethodPost, "/api/v1/receipts", map[string]any{
		"warehouseId": p.warehouseID,
		"locationId":  p.locationID,
		"supplier":    map[string]any{"name": "Acme"},
		"lines":       []any{},
	}, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION_ERROR", noLines["code"])

	dup := c.json(http.MethodPost, "/api/v1/products", map[string]any{"sku": "WID-1", "name": "Other"}, http.StatusConflict)
	assert.Equal(t, "DUPLICATE_ENTRY", dup["code"])
}

func TestRouter_CatalogDeleteRequiresRole(t *testing.T) {
	operator := newClient(t, v1.RoleOperator)
	p := operator.seed()
	operator.json(http.MethodDelete, "/api/v1/products/"+p.productID, nil, http.StatusForbidden)

	admin := newClient(t, v1.RoleAdmin)
	p = admin.seed()
	w := admin.do(http.MethodDelete, "/api/v1/products/"+p.productID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	got := admin.json(http.MethodGet, "/api/v1/products/"+p.productID, nil, http.StatusOK)
	assert.Equal(t, false, got["active"])
}

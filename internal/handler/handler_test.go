package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feedmill-production/internal/model"
	"feedmill-production/internal/seed"
	"feedmill-production/internal/service"
	"feedmill-production/internal/testutil"
	"feedmill-production/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app    *fiber.App
	demo   *seed.Demo
	tokens *jwt.Manager
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	engine := service.NewEngine(db, service.Settings{
		LocationID:    "HUB",
		BatchPrefix:   "PB",
		SerialPrefix:  "FM",
		ShelfLifeDays: 90,
		Now:           func() time.Time { return time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC) },
	}, nil, zap.NewNop())

	demo, err := seed.LayerMash(db, engine.Ledger, seed.DefaultStock(), "test")
	require.NoError(t, err)

	tokens := jwt.NewManager("test-secret", "feedmill-test", time.Hour)
	app := NewApp(Handlers{
		Batch:   NewBatchHandler(engine.Batches),
		Cost:    NewCostHandler(engine.Costs),
		Formula: NewFormulaHandler(engine.Formulas, engine.Availability),
		Stock:   NewStockHandler(engine.Ledger, engine.Movements),
		Unit:    NewUnitHandler(engine.Trace),
	}, RouterOptions{Tokens: tokens})

	token, err := tokens.GenerateToken(uuid.New(), "officer@feedmill.test", "Officer", model.ProductionPrivileges)
	require.NoError(t, err)

	return &testServer{app: app, demo: demo, tokens: tokens, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) createBatch(t *testing.T, size int) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/v1/batches", map[string]interface{}{
		"formula_id":            s.demo.Formula.ID,
		"batch_size":            size,
		"production_officer_id": uuid.New(),
		"supervisor_id":         uuid.New(),
	}, s.token)
	require.Equal(t, http.StatusCreated, status, body)
	return body["data"].(map[string]interface{})["id"].(string)
}

func (s *testServer) completion(units int) map[string]interface{} {
	return map[string]interface{}{
		"actual_yield": 190,
		"packages": []map[string]interface{}{{
			"product_id":            s.demo.Product.ID,
			"package_size":          map[string]interface{}{"weight": 25, "unit": "KG"},
			"unit_count":            units,
			"packaging_material_id": s.demo.Bag.ID,
		}},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/v1/batches", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/v1/batches", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)

	viewer, err := s.tokens.GenerateToken(uuid.New(), "viewer@feedmill.test", "Viewer", []string{model.PrivilegeProductionView})
	require.NoError(t, err)

	status, _ = s.do(t, http.MethodGet, "/api/v1/batches", nil, viewer)
	assert.Equal(t, http.StatusOK, status)

	status, body := s.do(t, http.MethodPost, "/api/v1/batches", map[string]interface{}{}, viewer)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["error"], model.PrivilegeProductionCreate)
}

func TestAvailabilityEndpoint(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/v1/formulas/"+s.demo.Formula.ID.String()+"/availability?batch_size=2", nil, s.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "124000", body["total_cost"])
	assert.Equal(t, "620", body["cost_per_unit"])

	status, _ = s.do(t, http.MethodGet, "/api/v1/formulas/"+s.demo.Formula.ID.String()+"/availability?batch_size=abc", nil, s.token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/api/v1/formulas/"+s.demo.Formula.ID.String()+"/availability?batch_size=0", nil, s.token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/api/v1/formulas/"+uuid.NewString()+"/availability", nil, s.token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBatchLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := s.createBatch(t, 2)

	status, body := s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/complete", s.completion(4), s.token)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, string(model.BatchPlanned), body["status"])

	status, _ = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/start", nil, s.token)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/pause", map[string]string{"reason": "mixer jam"}, s.token)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/resume", nil, s.token)
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/complete", s.completion(4), s.token)
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]interface{})
	units := data["created_units"].([]interface{})
	require.Len(t, units, 4)
	assert.Equal(t, "FM-PB202501010001-001", units[0].(map[string]interface{})["serial_number"])
	assert.Equal(t, "800", data["packaging_cost"])

	status, body = s.do(t, http.MethodGet, "/api/v1/batches/"+id+"/cost", nil, s.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "124800", body["production_cost"])

	status, body = s.do(t, http.MethodGet, "/api/v1/batches/"+id, nil, s.token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["units"], 4)
	assert.Equal(t, string(model.BatchCompleted), body["header"].(map[string]interface{})["status"])

	status, body = s.do(t, http.MethodGet, "/api/v1/units/FM-PB202501010001-002", nil, s.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PB202501010001", body["batch_number"])
}

func TestCreateBatch_ShortageIsUnprocessable(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/batches", map[string]interface{}{
		"formula_id":            s.demo.Formula.ID,
		"batch_size":            20,
		"production_officer_id": uuid.New(),
		"supervisor_id":         uuid.New(),
	}, s.token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Len(t, body["shortages"], 2)
}

func TestBatchErrors(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/v1/batches/not-a-uuid", nil, s.token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/api/v1/batches/"+uuid.NewString(), nil, s.token)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/batches", map[string]interface{}{"batch_size": 1}, s.token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/api/v1/batches?status=DONE", nil, s.token)
	assert.Equal(t, http.StatusBadRequest, status)

	id := s.createBatch(t, 1)
	status, _ = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/start", nil, s.token)
	require.Equal(t, http.StatusOK, status)

	body := s.completion(1)
	body["packages"].([]map[string]interface{})[0]["packaging_material_id"] = uuid.New()
	status, _ = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/complete", body, s.token)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/complete", s.completion(500), s.token)
	assert.Equal(t, http.StatusConflict, status)
}

func TestCancelOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := s.createBatch(t, 1)

	status, body := s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/cancel", map[string]string{"reason": "duplicate"}, s.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(model.BatchCancelled), body["data"].(map[string]interface{})["status"])

	status, _ = s.do(t, http.MethodPost, "/api/v1/batches/"+id+"/cancel", nil, s.token)
	assert.Equal(t, http.StatusConflict, status)
}

func TestStockEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/v1/stock?kind=PACKAGING_MATERIAL", nil, s.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "HUB", body["location_id"])
	assert.Len(t, body["data"], 1)

	status, _ = s.do(t, http.MethodGet, "/api/v1/stock?kind=FUEL", nil, s.token)
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/"+s.demo.Maize.ID.String()+"/movements", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var movements []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&movements))
	require.Len(t, movements, 1)
	assert.Equal(t, "IN", movements[0]["type"])
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"posbackend/internal/service"
	"posbackend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeTaxService struct {
	service.TaxService

	gotBusiness uuid.UUID
	gotUser     string
	gotID       string
	gotRate     service.TaxRateRequest
	gotFilter   service.TaxExemptionFilter
	warnings    []string
	err         error
}

func (f *fakeTaxService) ListTaxRates(_ context.Context, businessID uuid.UUID) (service.TaxRateListResponse, error) {
	f.gotBusiness = businessID
	return service.TaxRateListResponse{
		Rates:         []service.TaxRateResponse{{ID: "r1", Name: "GST", Rate: "0.05", RateDisplay: "5.00%"}},
		Warnings:      []string{},
		EffectiveRate: service.EffectiveRateResponse{Rate: "0.05", Display: "5.00%"},
	}, f.err
}

func (f *fakeTaxService) CreateTaxRate(_ context.Context, businessID uuid.UUID, req service.TaxRateRequest, userID string) (service.TaxRateMutationResponse, error) {
	f.gotBusiness, f.gotRate, f.gotUser = businessID, req, userID
	if f.err != nil {
		return service.TaxRateMutationResponse{}, f.err
	}
	return service.TaxRateMutationResponse{
		TaxRate:  service.TaxRateResponse{ID: "r1", Name: req.Name, Rate: "0.0825", RateDisplay: "8.25%"},
		Warnings: f.warnings,
	}, nil
}

func (f *fakeTaxService) UpdateTaxRate(_ context.Context, businessID uuid.UUID, id string, req service.TaxRateRequest, userID string) (service.TaxRateMutationResponse, error) {
	f.gotBusiness, f.gotID, f.gotRate, f.gotUser = businessID, id, req, userID
	return service.TaxRateMutationResponse{TaxRate: service.TaxRateResponse{ID: id}, Warnings: f.warnings}, f.err
}

func (f *fakeTaxService) DeleteTaxRate(_ context.Context, businessID uuid.UUID, id string, userID string) error {
	f.gotBusiness, f.gotID, f.gotUser = businessID, id, userID
	return f.err
}

func (f *fakeTaxService) ListTaxExemptions(_ context.Context, businessID uuid.UUID, filter service.TaxExemptionFilter) ([]service.TaxExemptionResponse, int64, error) {
	f.gotBusiness, f.gotFilter = businessID, filter
	return []service.TaxExemptionResponse{{ID: "e1", ExemptionType: "customer", EntityID: "c1"}}, 41, f.err
}

func (f *fakeTaxService) CreateTaxExemption(_ context.Context, businessID uuid.UUID, req service.TaxExemptionRequest, userID string) (service.TaxExemptionResponse, error) {
	f.gotBusiness, f.gotUser = businessID, userID
	return service.TaxExemptionResponse{ID: "e1", ExemptionType: req.ExemptionType, EntityID: req.EntityID}, f.err
}

func (f *fakeTaxService) DeleteTaxExemption(_ context.Context, businessID uuid.UUID, id string, userID string) error {
	f.gotBusiness, f.gotID, f.gotUser = businessID, id, userID
	return f.err
}

func (f *fakeTaxService) ValidateConfiguration(_ context.Context, businessID uuid.UUID) ([]string, error) {
	f.gotBusiness = businessID
	return f.warnings, f.err
}

func (f *fakeTaxService) GetEffectiveRate(_ context.Context, businessID uuid.UUID) (service.EffectiveRateResponse, error) {
	f.gotBusiness = businessID
	return service.EffectiveRateResponse{Rate: "0.188", Display: "18.80%"}, f.err
}

type fakeOrderTaxService struct {
	service.OrderTaxService

	gotReq     service.CalculateTaxRequest
	gotOrderID string
	err        error
}

func (f *fakeOrderTaxService) Calculate(_ context.Context, _ uuid.UUID, req service.CalculateTaxRequest) (service.CalculateTaxResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return service.CalculateTaxResponse{}, f.err
	}
	return service.CalculateTaxResponse{
		OrderID:    req.OrderID,
		Subtotal:   req.Subtotal,
		TaxDetails: []service.TaxLineResponse{},
		TotalTax:   "0.00",
		GrandTotal: req.Subtotal,
	}, nil
}

func (f *fakeOrderTaxService) GetOrderTaxes(_ context.Context, _ uuid.UUID, orderID string) ([]service.OrderTaxResponse, error) {
	f.gotOrderID = orderID
	return []service.OrderTaxResponse{{LineNo: 1}}, f.err
}

type fakeAuditService struct {
	gotPage, gotLimit int
	err               error
}

func (f *fakeAuditService) GetAuditLogs(_ context.Context, _ uuid.UUID, page, limit int) ([]service.AuditLogResponse, int64, error) {
	f.gotPage, f.gotLimit = page, limit
	return []service.AuditLogResponse{{ID: "a1"}}, 3, f.err
}

type testServer struct {
	router     *gin.Engine
	taxes      *fakeTaxService
	orders     *fakeOrderTaxService
	audits     *fakeAuditService
	businessID uuid.UUID
	userID     string
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		router:     gin.New(),
		taxes:      &fakeTaxService{},
		orders:     &fakeOrderTaxService{},
		audits:     &fakeAuditService{},
		businessID: uuid.New(),
		userID:     uuid.NewString(),
	}
	group := s.router.Group("")
	NewTaxHandler(s.taxes, s.orders, testSecret).RegisterRoutes(group)
	NewAuditHandler(s.audits, testSecret).RegisterRoutes(group)
	return s
}

func (s *testServer) do(t *testing.T, role, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": s.userID, "role": role, "business_id": s.businessID.String(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return m
}

func TestTaxHandler_CreateTaxRate(t *testing.T) {
	s := newTestServer()
	s.taxes.warnings = []string{"Duplicate tax rate names: GST"}

	w, resp := s.do(t, "manager", http.MethodPost, "/api/tax-rates", map[string]interface{}{
		"name": "GST", "rate": "8.25%", "is_compound": true,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"Duplicate tax rate names: GST"}, resp.Warnings)
	assert.Equal(t, "8.25%", dataMap(t, resp)["rate_display"])
	assert.Equal(t, s.businessID, s.taxes.gotBusiness)
	assert.Equal(t, s.userID, s.taxes.gotUser)
	assert.Equal(t, "8.25%", s.taxes.gotRate.Rate)
	assert.True(t, s.taxes.gotRate.IsCompound)
}

func TestTaxHandler_CreateTaxRate_BadPayload(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "not json", body: "{"},
		{name: "missing name", body: map[string]string{"rate": "0.05"}},
		{name: "missing rate", body: map[string]string{"name": "GST"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := s.do(t, "admin", http.MethodPost, "/api/tax-rates", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, resp.Error, "Invalid request payload")
		})
	}
}

func TestTaxHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid input", err: fmt.Errorf("%w: invalid rate value", service.ErrInvalidInput), status: http.StatusBadRequest},
		{name: "rate not found", err: service.ErrTaxRateNotFound, status: http.StatusNotFound},
		{name: "exemption not found", err: service.ErrTaxExemptionNotFound, status: http.StatusNotFound},
		{name: "unexpected", err: errors.New("connection reset"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.taxes.err = tt.err

			w, resp := s.do(t, "admin", http.MethodPut, "/api/tax-rates/abc", map[string]string{"name": "GST", "rate": "0.05"})

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.err.Error(), resp.Error)
			assert.Equal(t, "abc", s.taxes.gotID)
		})
	}
}

func TestTaxHandler_RolePermissions(t *testing.T) {
	tests := []struct {
		role   string
		method string
		path   string
		status int
	}{
		{role: "staff", method: http.MethodGet, path: "/api/tax-rates", status: http.StatusOK},
		{role: "staff", method: http.MethodPost, path: "/api/tax-rates", status: http.StatusForbidden},
		{role: "staff", method: http.MethodDelete, path: "/api/tax-rates/r1", status: http.StatusForbidden},
		{role: "staff", method: http.MethodDelete, path: "/api/tax-exemptions/e1", status: http.StatusForbidden},
		{role: "staff", method: http.MethodGet, path: "/api/tax/validation", status: http.StatusForbidden},
		{role: "staff", method: http.MethodGet, path: "/api/tax/effective-rate", status: http.StatusOK},
		{role: "staff", method: http.MethodGet, path: "/api/audit-logs", status: http.StatusForbidden},
		{role: "manager", method: http.MethodDelete, path: "/api/tax-rates/r1", status: http.StatusOK},
		{role: "admin", method: http.MethodDelete, path: "/api/tax-exemptions/e1", status: http.StatusOK},
		{role: "cashier", method: http.MethodGet, path: "/api/tax-rates", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			s := newTestServer()
			w, _ := s.do(t, tt.role, tt.method, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestTaxHandler_ListTaxRates(t *testing.T) {
	s := newTestServer()

	w, resp := s.do(t, "staff", http.MethodGet, "/api/tax-rates", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, resp)
	assert.Len(t, data["rates"], 1)
	assert.Equal(t, map[string]interface{}{"rate": "0.05", "display": "5.00%"}, data["effective_rate"])
}

func TestTaxHandler_ListTaxExemptions(t *testing.T) {
	s := newTestServer()

	w, resp := s.do(t, "staff", http.MethodGet, "/api/tax-exemptions?exemption_type=customer&entity_id=c1&page=2&limit=20", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.TaxExemptionFilter{ExemptionType: "customer", EntityID: "c1", Page: 2, Limit: 20}, s.taxes.gotFilter)

	data := dataMap(t, resp)
	assert.EqualValues(t, 41, data["total"])
	assert.EqualValues(t, 2, data["page"])
	assert.EqualValues(t, 3, data["total_pages"])
	assert.Len(t, data["items"], 1)
}

func TestTaxHandler_CreateTaxExemption(t *testing.T) {
	s := newTestServer()

	w, resp := s.do(t, "admin", http.MethodPost, "/api/tax-exemptions", map[string]string{
		"exemption_type": "product", "entity_id": "sku-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "sku-1", dataMap(t, resp)["entity_id"])

	w, _ = s.do(t, "admin", http.MethodPost, "/api/tax-exemptions", map[string]string{
		"exemption_type": "region", "entity_id": "north",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaxHandler_ValidateConfiguration(t *testing.T) {
	s := newTestServer()
	s.taxes.warnings = []string{"Total effective tax rate is very high: 32.00%"}

	w, resp := s.do(t, "admin", http.MethodGet, "/api/tax/validation", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, resp)
	assert.Equal(t, false, data["valid"])
	assert.Equal(t, []interface{}{"Total effective tax rate is very high: 32.00%"}, data["warnings"])
}

func TestTaxHandler_GetEffectiveRate(t *testing.T) {
	s := newTestServer()

	w, resp := s.do(t, "staff", http.MethodGet, "/api/tax/effective-rate", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "18.80%", dataMap(t, resp)["display"])
}

func TestTaxHandler_CalculateTax(t *testing.T) {
	s := newTestServer()

	w, resp := s.do(t, "staff", http.MethodPost, "/api/tax/calculate", map[string]interface{}{
		"order_id":     "ORD-1",
		"subtotal":     "100.00",
		"customer_id":  "c1",
		"product_ids":  []string{"p1", "p2"},
		"category_ids": []string{"books"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ORD-1", dataMap(t, resp)["order_id"])
	assert.Equal(t, []string{"p1", "p2"}, s.orders.gotReq.ProductIDs)
	assert.Equal(t, []string{"books"}, s.orders.gotReq.CategoryIDs)
	assert.Equal(t, "c1", s.orders.gotReq.CustomerID)

	s.orders.err = fmt.Errorf("%w: subtotal must not be negative", service.ErrInvalidInput)
	w, resp = s.do(t, "staff", http.MethodPost, "/api/tax/calculate", map[string]string{"subtotal": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "subtotal must not be negative")

	w, _ = s.do(t, "staff", http.MethodPost, "/api/tax/calculate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaxHandler_GetOrderTaxes(t *testing.T) {
	s := newTestServer()

	w, resp := s.do(t, "staff", http.MethodGet, "/api/orders/ORD-42/taxes", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ORD-42", s.orders.gotOrderID)
	assert.Len(t, resp.Data, 1)
}

func TestAuditHandler_GetAuditLogs(t *testing.T) {
	s := newTestServer()

	w, resp := s.do(t, "manager", http.MethodGet, "/api/audit-logs?page=1&limit=500", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.audits.gotPage)
	assert.Equal(t, 100, s.audits.gotLimit)
	data := dataMap(t, resp)
	assert.EqualValues(t, 3, data["total"])
	assert.EqualValues(t, 1, data["total_pages"])

	s.audits.err = errors.New("db down")
	w, resp = s.do(t, "admin", http.MethodGet, "/api/audit-logs", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, resp.Error, "Failed to retrieve audit logs")
}

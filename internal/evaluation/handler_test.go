package evaluation

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/aevon-lab/insight/internal/core/timezone"
	storagemocks "github.com/aevon-lab/insight/internal/mocks/storage"
	"github.com/aevon-lab/insight/internal/scope"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const yearlyInvoices = `{
	"id": "inline",
	"reportType": "process",
	"combined": false,
	"data": {
		"definitions": [{"key": "invoice", "versions": ["1"], "tenantIds": [null]}],
		"view": {"entity": "processInstance", "properties": ["frequency"]},
		"groupBy": {"type": "startDate", "unit": "year"}
	}
}`

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, store := newTestService(t)
	store.PutReport(invoiceReport(frequencyView, nil))
	r := gin.New()
	svc.RegisterRoutes(r)
	return r, svc
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var body httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestEvaluateHandler_Inline(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/report/evaluate", strings.NewReader(yearlyInvoices))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(timezone.ClientTimezoneHeader, "Europe/Berlin")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Result struct {
			Type          string `json:"type"`
			InstanceCount int64  `json:"instanceCount"`
			Measures      []struct {
				Property string `json:"property"`
				Data     []struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"data"`
			} `json:"measures"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "MAP", body.Result.Type)
	require.Equal(t, int64(3), body.Result.InstanceCount)
	require.Len(t, body.Result.Measures, 1)
	require.Len(t, body.Result.Measures[0].Data, 1)
	require.Equal(t, "2024-01-01T00:00:00.000+0100", body.Result.Measures[0].Data[0].Key)
	require.Equal(t, "3", body.Result.Measures[0].Data[0].Value)
}

func TestEvaluateHandler_InlineRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name      string
		target    string
		body      string
		wantCode  int
		wantError string
	}{
		{name: "pagination on map report", target: "/api/report/evaluate?offset=10&limit=10", body: yearlyInvoices, wantCode: http.StatusBadRequest, wantError: httperr.HttpValidationError},
		{name: "empty body", target: "/api/report/evaluate", body: "", wantCode: http.StatusBadRequest, wantError: httperr.HttpInvalidJsonError},
		{name: "malformed body", target: "/api/report/evaluate", body: `{"id":`, wantCode: http.StatusBadRequest, wantError: httperr.HttpInvalidJsonError},
		{name: "non numeric limit", target: "/api/report/evaluate?limit=ten", body: yearlyInvoices, wantCode: http.StatusBadRequest, wantError: httperr.HttpValidationError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.body))
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			require.Equal(t, tc.wantCode, resp.Code)
			require.Equal(t, tc.wantError, decodeError(t, resp).ErrorType)
		})
	}
}

func TestEvaluateHandler_BodyTooLarge(t *testing.T) {
	r, _ := newTestRouter(t)

	large := bytes.Repeat([]byte(" "), 1024*1024+1)
	req := httptest.NewRequest(http.MethodPost, "/api/report/evaluate", bytes.NewReader(large))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	require.Equal(t, httperr.HttpInvalidJsonError, decodeError(t, resp).ErrorType)
}

func TestEvaluateHandler_Persisted(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/report/invoices/evaluate", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	filterBody := `{"filter": [{"type": "state", "data": {"values": ["COMPLETED"]}}]}`
	req = httptest.NewRequest(http.MethodPost, "/api/report/invoices/evaluate", strings.NewReader(filterBody))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Result struct {
			InstanceCount               int64 `json:"instanceCount"`
			InstanceCountWithoutFilters int64 `json:"instanceCountWithoutFilters"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, int64(2), body.Result.InstanceCount)
	require.Equal(t, int64(3), body.Result.InstanceCountWithoutFilters)
}

func TestEvaluateHandler_PersistedErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/report/missing/evaluate", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, httperr.HttpNotFoundError, decodeError(t, resp).ErrorType)

	req = httptest.NewRequest(http.MethodPost, "/api/report/invoices/evaluate", strings.NewReader(`{"filter": [{"type": "state"}]}`))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpInvalidJsonError, decodeError(t, resp).ErrorType)
}

func TestEvaluateHandler_StoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reports := storagemocks.NewReportRepository(t)
	reports.EXPECT().
		GetReport(mock.Anything, "invoices").
		Return(nil, errors.New("connection reset by peer")).
		Once()

	svc := NewService(reports, scope.NewResolver(storagemocks.NewDefinitionStore(t), reports),
		NewEvaluator(storagemocks.NewInstanceStore(t), EvaluatorConfig{}), Options{})
	r := gin.New()
	svc.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/report/invoices/evaluate", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decodeError(t, resp)
	require.Equal(t, httperr.HttpEvaluationError, body.ErrorType)
	require.NotContains(t, body.Message, "connection reset")
}

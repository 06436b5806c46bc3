package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/platform/httpx"
)

// ============================================================================
// TEST SETUP
// ============================================================================

func newTestHandler() (*Handler, *mockRepository) {
	svc, repo := newTestService()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, svc), repo
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func serve(t *testing.T, h *Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(encoded)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)
	return rec
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) SalesOrderResponse {
	t.Helper()
	var resp SalesOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) httpx.ProblemDetail {
	t.Helper()
	var p httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

// ============================================================================
// CREATE
// ============================================================================

func TestHandlerCreateReturnsCreatedWithLocation(t *testing.T) {
	h, _ := newTestHandler()

	rec := serve(t, h, http.MethodPost, "/orders", orderRequest())
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeOrder(t, rec)
	assert.Equal(t, "SO202405170001", resp.OrderNumber)
	assert.Equal(t, fmt.Sprintf("/api/orders/%d", resp.ID), rec.Header().Get("Location"))
	assert.InDelta(t, 187000.00, resp.TotalInclAmount, 0.001)
}

func TestHandlerCreateRejectsMalformedBody(t *testing.T) {
	h, _ := newTestHandler()

	rec := serve(t, h, http.MethodPost, "/orders", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	p := decodeProblem(t, rec)
	assert.Equal(t, "Validation Failed", p.Title)
}

func TestHandlerCreateRejectsMissingFields(t *testing.T) {
	h, repo := newTestHandler()

	req := orderRequest()
	req.DeliveryAddress = ""

	rec := serve(t, h, http.MethodPost, "/orders", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.orders)
}

func TestHandlerCreateRejectsZeroQuantity(t *testing.T) {
	h, repo := newTestHandler()

	req := orderRequest()
	req.Lines[0].Quantity = 0

	rec := serve(t, h, http.MethodPost, "/orders", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.orders)
}

func TestHandlerCreateUnknownClientIsUnprocessable(t *testing.T) {
	h, _ := newTestHandler()

	req := orderRequest()
	req.ClientID = 99

	rec := serve(t, h, http.MethodPost, "/orders", req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ============================================================================
// READ
// ============================================================================

func TestHandlerShowReturnsOrder(t *testing.T) {
	h, _ := newTestHandler()

	created := decodeOrder(t, serve(t, h, http.MethodPost, "/orders", orderRequest()))

	rec := serve(t, h, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeOrder(t, rec))
}

func TestHandlerShowUnknownOrderIsNotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := serve(t, h, http.MethodGet, "/orders/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerShowRejectsNonNumericID(t *testing.T) {
	h, _ := newTestHandler()

	rec := serve(t, h, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListReturnsEmptyArrayNotNull(t *testing.T) {
	h, _ := newTestHandler()

	rec := serve(t, h, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHandlerListReturnsOrders(t *testing.T) {
	h, _ := newTestHandler()

	serve(t, h, http.MethodPost, "/orders", orderRequest())
	serve(t, h, http.MethodPost, "/orders", orderRequest())

	rec := serve(t, h, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []SalesOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

// ============================================================================
// UPDATE
// ============================================================================

func TestHandlerUpdateReplacesOrder(t *testing.T) {
	h, _ := newTestHandler()

	created := decodeOrder(t, serve(t, h, http.MethodPost, "/orders", orderRequest()))

	upd := orderRequest()
	upd.Lines = []CreateSalesOrderLineReq{{ItemID: 2, Quantity: 1, TaxRate: 14}}

	rec := serve(t, h, http.MethodPut, fmt.Sprintf("/orders/%d", created.ID), upd)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeOrder(t, rec)
	assert.Equal(t, created.OrderNumber, resp.OrderNumber)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "ITEM002", resp.Lines[0].ItemCode)
	assert.NotNil(t, resp.ModifiedAt)
}

func TestHandlerUpdateUnknownOrderIsNotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := serve(t, h, http.MethodPut, "/orders/404", orderRequest())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerUpdateUnknownClientIsUnprocessable(t *testing.T) {
	h, _ := newTestHandler()

	created := decodeOrder(t, serve(t, h, http.MethodPost, "/orders", orderRequest()))

	req := orderRequest()
	req.ClientID = 99

	rec := serve(t, h, http.MethodPut, fmt.Sprintf("/orders/%d", created.ID), req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ============================================================================
// DELETE
// ============================================================================

func TestHandlerDeleteReturnsNoContent(t *testing.T) {
	h, repo := newTestHandler()

	created := decodeOrder(t, serve(t, h, http.MethodPost, "/orders", orderRequest()))

	rec := serve(t, h, http.MethodDelete, fmt.Sprintf("/orders/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.orders)
}

func TestHandlerDeleteUnknownOrderIsNotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := serve(t, h, http.MethodDelete, "/orders/404", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	p := decodeProblem(t, rec)
	assert.Equal(t, "Not Found", p.Title)
}

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-billing-backend/internal/billing"
	"shop-billing-backend/internal/models"
	"shop-billing-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FAKE STORE
// ============================================================================

type fakeStore struct {
	invoices map[string][]models.Invoice
	saveErr  error
	listErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{invoices: make(map[string][]models.Invoice)}
}

func (f *fakeStore) Save(inv *models.Invoice) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	latest, _ := f.LatestInvoiceNo(inv.BillType)
	inv.InvoiceNo = latest + 1
	inv.ID = uuid.New()
	f.invoices[inv.BillType] = append(f.invoices[inv.BillType], *inv)
	return nil
}

func (f *fakeStore) GetAll(billType string) ([]models.Invoice, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.invoices[billType], nil
}

func (f *fakeStore) FindByInvoiceNo(billType string, invoiceNo int64) (*models.Invoice, error) {
	for _, inv := range f.invoices[billType] {
		if inv.InvoiceNo == invoiceNo {
			return &inv, nil
		}
	}
	return nil, repository.ErrInvoiceNotFound
}

func (f *fakeStore) LatestInvoiceNo(billType string) (int64, error) {
	var latest int64
	for _, inv := range f.invoices[billType] {
		if inv.InvoiceNo > latest {
			latest = inv.InvoiceNo
		}
	}
	return latest, nil
}

func newTestRouter(store InvoiceStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	aluminum := NewBillingHandler(store, billing.VariantAluminum)
	g := r.Group("/aluminum")
	g.GET("/next-invoice-id", aluminum.NextInvoiceID)
	g.GET("/latest-invoice-no", aluminum.LatestInvoiceNo)
	g.POST("/add-aluminum-bill", aluminum.AddBill)
	g.GET("/allInvoices", aluminum.AllInvoices)
	g.GET("/find-invoice/:invoiceNo", aluminum.FindInvoice)

	hardware := NewBillingHandler(store, billing.VariantHardware)
	h := r.Group("/hardware")
	h.POST("/add-hardware", hardware.AddBill)
	h.GET("/allInvoices", hardware.AllInvoices)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ============================================================================
// TESTS
// ============================================================================

func TestNextInvoiceIDEmptyStore(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/aluminum/next-invoice-id", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nextId": 1}`, w.Body.String())
}

func TestLatestInvoiceNo(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.Save(&models.Invoice{BillType: "aluminum"}))
	require.NoError(t, store.Save(&models.Invoice{BillType: "aluminum"}))
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/aluminum/latest-invoice-no", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"latestInvoiceNo": 2}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/aluminum/next-invoice-id", nil)
	assert.JSONEq(t, `{"nextId": 3}`, w.Body.String())
}

func TestAddAluminumBillRecomputesTotals(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store)

	payload := gin.H{
		"invoiceNo":    77, // client guess, must be ignored
		"customerName": "Ali",
		"date":         "2026-01-15",
		"companyName":  "Ali Traders",
		"city":         "Multan",
		"products": []gin.H{
			{"id": 1, "size": 10, "quantity": 5, "rate": 20, "discount": 10, "gaje": "1.2", "color": "CH",
				"amount": 123456}, // client-side amount, must be recomputed
		},
		"previousAmount": 50,
		"hardwareAmount": 0,
		"receivedAmount": 500,
	}

	w := doJSON(t, r, http.MethodPost, "/aluminum/add-aluminum-bill", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		InvoiceNo int64  `json:"invoiceNo"`
		ID        string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.InvoiceNo)
	assert.NotEmpty(t, resp.ID)

	saved := store.invoices["aluminum"][0]
	assert.Equal(t, int64(1), saved.InvoiceNo)
	assert.Equal(t, 100.0, saved.DiscountedAmount)
	assert.Equal(t, 950.0, saved.TotalAmount)
	assert.Equal(t, 450.0, saved.GrandTotal)
	assert.Equal(t, 50.0, saved.PreviousAmount)

	var lines []billing.Line
	require.NoError(t, json.Unmarshal(saved.Products, &lines))
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Amount)
	assert.Equal(t, 900.0, *lines[0].Amount)
}

func TestAddHardwareBill(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store)

	payload := gin.H{
		"customerName": "Ahmed",
		"products": []gin.H{
			{"id": 1, "productName": "hinge", "quantity": 3, "rate": 15},
		},
		"aluminumTotal":  100,
		"receivedAmount": 20,
	}

	w := doJSON(t, r, http.MethodPost, "/hardware/add-hardware", payload)
	require.Equal(t, http.StatusOK, w.Code)

	saved := store.invoices["hardware"][0]
	assert.Equal(t, 145.0, saved.TotalAmount)
	assert.Equal(t, 125.0, saved.GrandTotal)
	assert.Equal(t, 100.0, saved.AluminumTotal)
	assert.Zero(t, saved.DiscountedAmount)
}

func TestAddBillRejectsUnknownVocabulary(t *testing.T) {
	r := newTestRouter(newFakeStore())

	payload := gin.H{
		"products": []gin.H{{"id": 1, "gaje": "3.5"}},
	}
	w := doJSON(t, r, http.MethodPost, "/aluminum/add-aluminum-bill", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload = gin.H{
		"products": []gin.H{{"id": 1, "color": "PINK"}},
	}
	w = doJSON(t, r, http.MethodPost, "/aluminum/add-aluminum-bill", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddBillSaveFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("connection refused")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/aluminum/add-aluminum-bill", gin.H{"products": []gin.H{}})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestAllInvoicesEmptyIsAnArray(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/aluminum/allInvoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFindInvoice(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.Save(&models.Invoice{BillType: "aluminum", CustomerName: "Ali"}))
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/aluminum/find-invoice/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inv models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, "Ali", inv.CustomerName)

	w = doJSON(t, r, http.MethodGet, "/aluminum/find-invoice/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "invoice not found")

	w = doJSON(t, r, http.MethodGet, "/aluminum/find-invoice/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shop-billing-backend/internal/billing"
	"shop-billing-backend/internal/models"
	"shop-billing-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// InvoiceStore is what the handler needs from the persistence layer.
type InvoiceStore interface {
	Save(inv *models.Invoice) error
	GetAll(billType string) ([]models.Invoice, error)
	FindByInvoiceNo(billType string, invoiceNo int64) (*models.Invoice, error)
	LatestInvoiceNo(billType string) (int64, error)
}

// BillingHandler serves one bill variant; routes mount it twice, once under
// /aluminum and once under /hardware.
type BillingHandler struct {
	store   InvoiceStore
	variant billing.Variant
}

func NewBillingHandler(store InvoiceStore, variant billing.Variant) *BillingHandler {
	return &BillingHandler{store: store, variant: variant}
}

// NextInvoiceID pre-reserves nothing; it reports the number the next bill
// will get so the form can show it while the draft is edited.
func (h *BillingHandler) NextInvoiceID(c *gin.Context) {
	latest, err := h.store.LatestInvoiceNo(string(h.variant))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextId": latest + 1})
}

func (h *BillingHandler) LatestInvoiceNo(c *gin.Context) {
	latest, err := h.store.LatestInvoiceNo(string(h.variant))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"latestInvoiceNo": latest})
}

type billPayload struct {
	InvoiceNo      int64          `json:"invoiceNo"`
	CustomerName   string         `json:"customerName"`
	Date           string         `json:"date"`
	CompanyName    string         `json:"companyName"`
	City           string         `json:"city"`
	Products       []billing.Line `json:"products"`
	PreviousAmount *float64       `json:"previousAmount"`
	HardwareAmount *float64       `json:"hardwareAmount"`
	AluminumTotal  *float64       `json:"aluminumTotal"`
	ReceivedAmount *float64       `json:"receivedAmount"`
}

// AddBill persists a submitted draft. Totals and per-line amounts are
// recomputed here from the raw line inputs; client-side figures, including
// any guessed invoice number, are never trusted. Responds with the
// authoritative number the store assigned.
func (h *BillingHandler) AddBill(c *gin.Context) {
	var payload billPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if h.variant == billing.VariantAluminum {
		for _, line := range payload.Products {
			if !billing.ValidGaje(line.Gaje) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown gaje %q", line.Gaje)})
				return
			}
			if !billing.ValidColor(line.Color) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown color %q", line.Color)})
				return
			}
		}
	}

	draft := &billing.Draft{
		Variant:        h.variant,
		CustomerName:   payload.CustomerName,
		Date:           payload.Date,
		CompanyName:    payload.CompanyName,
		City:           payload.City,
		Lines:          payload.Products,
		PreviousAmount: payload.PreviousAmount,
		ReceivedAmount: payload.ReceivedAmount,
	}
	if h.variant == billing.VariantAluminum {
		draft.CrossAmount = payload.HardwareAmount
	} else {
		draft.CrossAmount = payload.AluminumTotal
	}
	draft.RecomputeAmounts()
	totals := draft.CalculateTotals()

	products, err := json.Marshal(draft.Lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	inv := &models.Invoice{
		BillType:         string(h.variant),
		CustomerName:     payload.CustomerName,
		InvoiceDate:      payload.Date,
		CompanyName:      payload.CompanyName,
		City:             payload.City,
		Products:         products,
		PreviousAmount:   numOrZero(payload.PreviousAmount),
		DiscountedAmount: totals.DiscountedAmount,
		TotalAmount:      totals.Total,
		ReceivedAmount:   numOrZero(payload.ReceivedAmount),
		GrandTotal:       totals.GrandTotal,
	}
	if h.variant == billing.VariantAluminum {
		inv.HardwareAmount = numOrZero(payload.HardwareAmount)
	} else {
		inv.AluminumTotal = numOrZero(payload.AluminumTotal)
	}

	if err := h.store.Save(inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "bill saved",
		"invoiceNo": inv.InvoiceNo,
		"id":        inv.ID,
	})
}

func (h *BillingHandler) AllInvoices(c *gin.Context) {
	invoices, err := h.store.GetAll(string(h.variant))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *BillingHandler) FindInvoice(c *gin.Context) {
	invoiceNo, err := strconv.ParseInt(c.Param("invoiceNo"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice number"})
		return
	}

	inv, err := h.store.FindByInvoiceNo(string(h.variant), invoiceNo)
	if errors.Is(err, repository.ErrInvoiceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func numOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

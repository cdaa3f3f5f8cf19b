package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shop-billing-backend/internal/billing"
	handler "shop-billing-backend/internal/handlers"
	"shop-billing-backend/internal/repository"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	registerBillRoutes(r.Group("/aluminum"), invoiceRepo, billing.VariantAluminum, "/add-aluminum-bill")
	registerBillRoutes(r.Group("/hardware"), invoiceRepo, billing.VariantHardware, "/add-hardware")
}

func registerBillRoutes(g *gin.RouterGroup, store handler.InvoiceStore, variant billing.Variant, addPath string) {
	h := handler.NewBillingHandler(store, variant)

	g.GET("/next-invoice-id", h.NextInvoiceID)
	g.GET("/latest-invoice-no", h.LatestInvoiceNo)
	g.POST(addPath, h.AddBill)
	g.GET("/allInvoices", h.AllInvoices)
	g.GET("/find-invoice/:invoiceNo", h.FindInvoice)
}

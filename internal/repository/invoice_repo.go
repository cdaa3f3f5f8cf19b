package repository

import (
	"errors"
	"time"

	"shop-billing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

// Save persists a finalized bill. The invoice number is always assigned
// here, inside a transaction with the previous row locked, so the store is
// the single authority on numbering; any client-side guess on the incoming
// record is overwritten.
func (r *InvoiceRepository) Save(inv *models.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		latest, err := latestInvoiceNo(tx.Clauses(clause.Locking{Strength: "UPDATE"}), inv.BillType)
		if err != nil {
			return err
		}
		inv.InvoiceNo = latest + 1
		return tx.Create(inv).Error
	})
}

// GetAll returns every persisted bill of one type, oldest number first.
func (r *InvoiceRepository) GetAll(billType string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Where("bill_type = ?", billType).
		Order("invoice_no asc").
		Find(&invoices).Error
	return invoices, err
}

// FindByInvoiceNo fetches one bill by its human-facing number.
func (r *InvoiceRepository) FindByInvoiceNo(billType string, invoiceNo int64) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Where("bill_type = ? AND invoice_no = ?", billType, invoiceNo).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// LatestInvoiceNo returns the highest number issued for a bill type, 0 when
// none have been issued yet.
func (r *InvoiceRepository) LatestInvoiceNo(billType string) (int64, error) {
	return latestInvoiceNo(r.db, billType)
}

func latestInvoiceNo(db *gorm.DB, billType string) (int64, error) {
	var last models.Invoice
	err := db.
		Where("bill_type = ?", billType).
		Order("invoice_no desc").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.InvoiceNo, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Invoice is a finalized bill as persisted. Aluminum and hardware bills
// share the table and are told apart by BillType; InvoiceNo is sequential
// per bill type. Products holds the submitted line items, the totals are
// whatever the billing engine computed at save time.
type Invoice struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BillType         string         `gorm:"index;uniqueIndex:idx_bill_type_no" json:"billType"`
	InvoiceNo        int64          `gorm:"uniqueIndex:idx_bill_type_no" json:"invoiceNo"`
	CustomerName     string         `gorm:"index" json:"customerName"`
	InvoiceDate      string         `json:"date"`
	CompanyName      string         `json:"companyName"`
	City             string         `json:"city"`
	Products         datatypes.JSON `json:"products"`
	PreviousAmount   float64        `json:"previousAmount"`
	HardwareAmount   float64        `json:"hardwareAmount"`
	AluminumTotal    float64        `json:"aluminumTotal"`
	DiscountedAmount float64        `json:"discountedAmount"`
	TotalAmount      float64        `json:"totalAmount"`
	ReceivedAmount   float64        `json:"receivedAmount"`
	GrandTotal       float64        `json:"grandTotal"`
	CreatedAt        time.Time      `json:"createdAt"`
}

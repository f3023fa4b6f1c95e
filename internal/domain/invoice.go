package domain

import "time"

type InvoiceType string

const (
	InvoiceBase   InvoiceType = "base"
	InvoiceAgency InvoiceType = "agency"
	InvoiceOwner  InvoiceType = "owner"
)

// InvoiceTypes is the closed set of invoice types synced, in sync order.
var InvoiceTypes = []InvoiceType{InvoiceBase, InvoiceAgency, InvoiceOwner}

type Invoice struct {
	ID            int64         `json:"id" validate:"required,gt=0"`
	Type          InvoiceType   `json:"type" validate:"required,oneof=base agency owner"`
	Number        string        `json:"number,omitempty"`
	ReservationID *int64        `json:"reservationId,omitempty"`
	Date          *time.Time    `json:"date,omitempty"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	Currency      string        `json:"currency,omitempty"`
	Client        InvoiceClient `json:"client"`
	Items         []InvoiceItem `json:"items,omitempty" validate:"dive"`
	VATSummary    []VATLine     `json:"vatSummary,omitempty"`
	Net           *float64      `json:"net,omitempty"`
	VAT           *float64      `json:"vat,omitempty"`
	Total         *float64      `json:"total,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type InvoiceClient struct {
	ID      *int64 `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	VATCode string `json:"vatCode,omitempty"`
	Email   string `json:"email,omitempty"`
}

type InvoiceItem struct {
	ID          string   `json:"id" validate:"required"`
	Description string   `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
	Net         *float64 `json:"net,omitempty"`
	VATRate     *float64 `json:"vatRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	VATAmount   *float64 `json:"vatAmount,omitempty"`
	Gross       *float64 `json:"gross,omitempty"`
}

type VATLine struct {
	Rate   *float64 `json:"rate,omitempty"`
	Base   *float64 `json:"base,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

// InvoiceQuery bounds an upstream invoice fetch.
type InvoiceQuery struct {
	Type InvoiceType
	From time.Time
	To   time.Time
}

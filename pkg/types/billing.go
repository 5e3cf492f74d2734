package types

import "time"

// PaymentStatus represents bill payment status values
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Bill represents a patient bill owned by the API server
type Bill struct {
	ID            string        `json:"id"`
	PatientID     string        `json:"patient_id"`
	TotalAmount   float64       `json:"total_amount"`
	AmountPaid    float64       `json:"amount_paid"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	BillDate      time.Time     `json:"bill_date"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Outstanding returns the unpaid balance; computed for display only, the API
// server stays authoritative over payment state
func (b *Bill) Outstanding() float64 {
	return b.TotalAmount - b.AmountPaid
}

// BillFilters represents filters for billing list queries
type BillFilters struct {
	PatientID string        `json:"patient_id,omitempty"`
	Status    PaymentStatus `json:"status,omitempty"`
	DateFrom  string        `json:"date_from,omitempty"`
	DateTo    string        `json:"date_to,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Offset    int           `json:"offset,omitempty"`
}

// BillInput represents the create payload for a bill
type BillInput struct {
	PatientID   string  `json:"patient_id"`
	TotalAmount float64 `json:"total_amount"`
	BillDate    string  `json:"bill_date"`
}

// PaymentInput represents a payment applied to an existing bill
type PaymentInput struct {
	Amount float64 `json:"amount"`
}

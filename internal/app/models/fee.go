package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// FeeStatus is the payment state of a fee.
type FeeStatus string

const (
	FeePending FeeStatus = "Pending"
	FeePaid    FeeStatus = "Paid"
)

// PaymentMethod is how a fee was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentOnline PaymentMethod = "Online"
)

// Fee is one row of 'student_fees', keyed by the externally supplied FeeID.
type Fee struct {
	FeeID         string          `json:"feeId" db:"fee_id" example:"F100"`
	InstituteName string          `json:"instituteName" db:"institute_name" example:"Main Branch"`
	StudentName   string          `json:"studentName" db:"student_name" example:"Asha Verma"`
	Amount        decimal.Decimal `json:"amount" db:"amount" swaggertype:"string" example:"1500.00"`
	PaymentDate   time.Time       `json:"paymentDate" db:"payment_date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method" example:"Cash"`
	Status        FeeStatus       `json:"status" db:"status" example:"Pending"`
	Remark        *string         `json:"remark,omitempty" db:"remark"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// AmountText is a decimal amount exactly as the client wrote it. JSON bodies may send
// it quoted ("500.00") or as a bare number (500); neither goes through float64.
type AmountText string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (a *AmountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = AmountText(n.String())
	return nil
}

// FeeInput is the raw payload of the save-fee operation. Values are kept as text
// so the amount can be parsed exactly.
type FeeInput struct {
	FeeID         string     `json:"fee_id" form:"fee_id" validate:"required,max=64"`
	InstituteName string     `json:"institute_name" form:"institute_name" validate:"required,max=150"`
	StudentName   string     `json:"student_name" form:"student_name" validate:"required,max=150"`
	Amount        AmountText `json:"amount" form:"amount" validate:"required" swaggertype:"string" example:"1500.00"`
	PaymentDate   string     `json:"payment_date" form:"payment_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod string     `json:"payment_method" form:"payment_method" validate:"required,oneof=Cash Card Online"`
	Status        string     `json:"status" form:"status" validate:"omitempty,oneof=Paid Pending"`
	Remark        string     `json:"remark" form:"remark" validate:"max=500"`
	CreatedAt     string     `json:"created_at" form:"created_at"`
}

// FeeOutcome tells whether a save created or replaced the row.
type FeeOutcome string

const (
	FeeInserted FeeOutcome = "inserted"
	FeeUpdated  FeeOutcome = "updated"
)

// SaveFeeResult is returned by the fee upsert.
type SaveFeeResult struct {
	Outcome FeeOutcome `json:"outcome" example:"inserted"`
	Message string     `json:"message" example:"Fee added successfully."`
	Fee     *Fee       `json:"fee"`
}

// FeeFilter narrows fee listings.
type FeeFilter struct {
	Status        FeeStatus
	InstituteName string
	StudentName   string
	Offset        uint64
	Limit         int
}

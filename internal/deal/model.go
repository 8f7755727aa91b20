// Package deal is the commission ledger: one closed-won record per
// converted lead, carrying revenue and the derived commission.
package deal

import (
	"time"

	"github.com/dunecrest/realty-api/internal/lead"
	"github.com/shopspring/decimal"
)

// Currencies a deal may be denominated in.
var ValidCurrencies = []string{"AED", "USD", "EUR", "GBP"}

func ValidCurrency(c string) bool {
	for _, v := range ValidCurrencies {
		if c == v {
			return true
		}
	}
	return false
}

// Deal records the commercial outcome of a converted lead. Deals are
// hard-deleted so the unique lead constraint stays enforceable.
type Deal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	LeadID uint       `gorm:"uniqueIndex;not null" json:"leadId"`
	Lead   *lead.Lead `gorm:"foreignKey:LeadID" json:"lead,omitempty"`

	RevenueAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"revenueAmount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	ClosedDate    time.Time       `json:"closedDate"`

	CommissionRate   *decimal.Decimal `gorm:"type:decimal(5,2)" json:"commissionRate"`
	CommissionAmount *decimal.Decimal `gorm:"type:decimal(14,2)" json:"commissionAmount"`

	CreatedByID uint `gorm:"not null" json:"createdById"`
}

// ComputeCommission derives the commission amount: revenue × rate / 100
// when a rate is set, nil otherwise. Rounded to 2 decimal places.
func ComputeCommission(revenue decimal.Decimal, rate *decimal.Decimal) *decimal.Decimal {
	if rate == nil {
		return nil
	}
	amount := revenue.Mul(*rate).Div(decimal.NewFromInt(100)).Round(2)
	return &amount
}

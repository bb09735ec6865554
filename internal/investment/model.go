package investment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Investment is the central aggregate tying a wallet debit, a unit
// reservation and the commission accrual together. Amount, units and the
// price snapshot are immutable once approved.
type Investment struct {
	gorm.Model
	InvestmentID string `gorm:"size:100;uniqueIndex;not null" json:"investmentId"`
	CustomerID   uint   `gorm:"not null;index" json:"customerId"`
	PropertyID   uint   `gorm:"not null;index" json:"propertyId"`

	ReferredByPartnerID *uint `gorm:"index" json:"referredByPartnerId"`

	Amount         decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	UnitsPurchased int             `gorm:"not null" json:"unitsPurchased"`

	// Frozen at creation; later property price changes never move it
	PricePerUnitAtInvestment decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"pricePerUnitAtInvestment"`

	Status          string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RejectionReason string `json:"rejectionReason"`

	ExpectedReturnAmount decimal.Decimal `gorm:"type:numeric(15,2)" json:"expectedReturnAmount"`
	ActualReturnAmount   decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"actualReturnAmount"`

	// The debit transaction that funded this investment
	TransactionID *uint `json:"transactionId"`

	ApprovedBy *uint      `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`

	Units []InvestmentUnit `gorm:"foreignKey:InvestmentID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
}

// InvestmentUnit links an investment to the specific units allocated to it.
type InvestmentUnit struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvestmentID uint      `gorm:"not null;uniqueIndex:idx_investment_unit" json:"investmentId"`
	UnitID       uint      `gorm:"not null;uniqueIndex:idx_investment_unit" json:"unitId"`
	AllocatedAt  time.Time `gorm:"autoCreateTime" json:"allocatedAt"`
}

// Migrate creates the tables in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Investment{}, &InvestmentUnit{})
}

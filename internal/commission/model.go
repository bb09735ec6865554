package commission

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TypeDirect   = "direct"
	TypeOverride = "override"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Commission is one earned-commission record. At most one direct (non
// override) row exists per investment; override rows always link back to
// the direct row they derive from.
type Commission struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CommissionID string `gorm:"size:100;uniqueIndex;not null" json:"commissionId"`
	PartnerID    uint   `gorm:"not null;index" json:"partnerId"`
	InvestmentID uint   `gorm:"not null;index" json:"investmentId"`
	Type         string `gorm:"size:20;not null" json:"type"`

	// Calculation snapshot; rules may change later, these never do
	BaseAmount decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"baseAmount"`
	Rate       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"rate"`
	Amount     decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`

	// TDS withheld before payout
	TDSPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"tdsPercentage"`
	TDSAmount     decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"tdsAmount"`
	NetAmount     decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"netAmount"`

	RuleID *uint `json:"ruleId"`

	Status             string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IsOverride         bool   `gorm:"not null;default:false" json:"isOverride"`
	ParentCommissionID *uint  `gorm:"index" json:"parentCommissionId"`

	ApprovedBy *uint      `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`
	PaidBy     *uint      `json:"paidBy"`
	PaidAt     *time.Time `json:"paidAt"`

	PaymentReference string `gorm:"size:255" json:"paymentReference"`
	Notes            string `json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Commission{})
}

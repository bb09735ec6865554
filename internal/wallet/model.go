package wallet

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

const (
	PurposeDeposit    = "deposit"
	PurposeWithdrawal = "withdrawal"
	PurposeInvestment = "investment"
	PurposeRefund     = "refund"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Wallet holds a user's spendable balance. One per user, created lazily
// on first funding request, never deleted.
type Wallet struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"uniqueIndex;not null" json:"userId"`
	Balance       decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"balance"`
	LedgerBalance decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"ledgerBalance"`
	IsActive      bool            `gorm:"not null;default:true" json:"isActive"`
	IsBlocked     bool            `gorm:"not null;default:false" json:"isBlocked"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Transaction is the immutable audit record of a balance mutation.
// Once completed it is never updated again.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID string          `gorm:"size:100;uniqueIndex;not null" json:"transactionId"`
	WalletID      uint            `gorm:"not null;index" json:"walletId"`
	UserID        uint            `gorm:"not null;index" json:"userId"`
	Type          string          `gorm:"size:10;not null" json:"type"`
	Purpose       string          `gorm:"size:20;not null" json:"purpose"`
	Amount        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"balanceAfter"`
	Status        string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod string          `gorm:"size:50" json:"paymentMethod"`
	GatewayRef    string          `gorm:"size:255" json:"gatewayRef"`
	Description   string          `json:"description"`
	ProcessedAt   *time.Time      `json:"processedAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Migrate creates the tables in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Wallet{}, &Transaction{})
}

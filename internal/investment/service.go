package investment

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/assetkart/cp-backend/internal/commission"
	"github.com/assetkart/cp-backend/internal/partner"
	"github.com/assetkart/cp-backend/internal/property"
	"github.com/assetkart/cp-backend/internal/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrKYCRequired         = errors.New("KYC not verified, complete KYC first")
	ErrPropertyUnavailable = errors.New("property is not open for investment")
	ErrInvalidRequest      = errors.New("invalid investment request")
	ErrInvalidStatus       = errors.New("investment is not in a state that allows this action")
)

// WalletLedger is the slice of the wallet service the coordinator uses.
type WalletLedger interface {
	Debit(db *gorm.DB, userID uint, amount decimal.Decimal, reason, purpose string) (*wallet.Transaction, error)
	CreditWithPurpose(db *gorm.DB, userID uint, amount decimal.Decimal, purpose, description string) (*wallet.Transaction, error)
}

// UnitAllocator reserves and settles property units.
type UnitAllocator interface {
	Reserve(db *gorm.DB, propertyID uint, count int) ([]property.Unit, error)
	Release(db *gorm.DB, unitIDs []uint) error
	Finalize(db *gorm.DB, unitIDs []uint) error
}

// ReferralResolver picks the commission-eligible partner.
type ReferralResolver interface {
	ResolveReferral(db *gorm.DB, referralCode string, customerID uint) (*partner.ChannelPartner, error)
}

// KYCChecker is the narrow contract to the compliance collaborator.
type KYCChecker interface {
	IsKYCVerified(db *gorm.DB, id uint) (bool, error)
}

// CommissionCalculator computes commissions outside the financial
// transaction boundary.
type CommissionCalculator interface {
	Calculate(db *gorm.DB, in commission.CalcInput) (*commission.Commission, error)
}

// PropertyFinder loads the property being invested in.
type PropertyFinder interface {
	FindByID(db *gorm.DB, id uint) (*property.Property, error)
}

// Service coordinates the investment lifecycle: wallet debit, unit
// reservation and investment creation form one atomic unit of work;
// commission bookkeeping runs after it commits and never rolls it back.
type Service struct {
	Repo        Repository
	Wallet      WalletLedger
	Properties  PropertyFinder
	Allocator   UnitAllocator
	Referrals   ReferralResolver
	KYC         KYCChecker
	Engine      CommissionCalculator
	Commissions commission.Repository
}

func newInvestmentID() string {
	return fmt.Sprintf("INV%s%s",
		time.Now().Format("20060102"),
		strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8])
}

// Create builds a pending investment. The wallet debit happens first, the
// unit reservation second; any failure rolls the whole unit of work back.
// Lock order is wallet-then-units everywhere.
func (s *Service) Create(db *gorm.DB, customerID, propertyID uint, amount decimal.Decimal, unitsCount int, referralCode string) (*Investment, error) {
	if amount.LessThanOrEqual(decimal.Zero) || unitsCount <= 0 {
		return nil, ErrInvalidRequest
	}

	verified, err := s.KYC.IsKYCVerified(db, customerID)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrKYCRequired
	}

	prop, err := s.Properties.FindByID(db, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyUnavailable
		}
		return nil, err
	}
	if prop.Status != "live" && prop.Status != "funding" {
		return nil, ErrPropertyUnavailable
	}

	var inv *Investment
	err = db.Transaction(func(tx *gorm.DB) error {
		txn, err := s.Wallet.Debit(tx, customerID, amount,
			fmt.Sprintf("Investment in %s", prop.Name), wallet.PurposeInvestment)
		if err != nil {
			return err
		}

		units, err := s.Allocator.Reserve(tx, propertyID, unitsCount)
		if err != nil {
			return err
		}

		referredBy, err := s.Referrals.ResolveReferral(tx, referralCode, customerID)
		if err != nil {
			return err
		}

		hundred := decimal.NewFromInt(100)
		inv = &Investment{
			InvestmentID:             newInvestmentID(),
			CustomerID:               customerID,
			PropertyID:               propertyID,
			Amount:                   amount,
			UnitsPurchased:           unitsCount,
			PricePerUnitAtInvestment: prop.PricePerUnit,
			Status:                   StatusPending,
			ExpectedReturnAmount:     amount.Mul(prop.ExpectedReturnPct).Div(hundred).Round(2),
			TransactionID:            &txn.ID,
		}
		if referredBy != nil {
			inv.ReferredByPartnerID = &referredBy.ID
		}
		if err := s.Repo.Create(tx, inv); err != nil {
			return err
		}

		unitIDs := make([]uint, 0, len(units))
		for _, u := range units {
			unitIDs = append(unitIDs, u.ID)
		}
		return s.Repo.LinkUnits(tx, inv.ID, unitIDs)
	})
	if err != nil {
		return nil, err
	}

	// Commission bookkeeping is best effort: a failure here must never
	// undo the committed money movement.
	s.calculateCommission(db, inv)

	return inv, nil
}

func (s *Service) calculateCommission(db *gorm.DB, inv *Investment) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("commission calculation panicked for investment %s: %v", inv.InvestmentID, r)
		}
	}()

	if _, err := s.Engine.Calculate(db, commission.CalcInput{
		InvestmentID: inv.ID,
		PartnerID:    inv.ReferredByPartnerID,
		PropertyID:   inv.PropertyID,
		Amount:       inv.Amount,
	}); err != nil {
		log.Printf("could not calculate commission for investment %s: %v", inv.InvestmentID, err)
	}
}

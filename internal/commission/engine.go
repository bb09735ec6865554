package commission

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/assetkart/cp-backend/internal/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultTDSPercent is the withholding applied to every commission. Policy
// constant, overridable via TDS_PERCENT.
var DefaultTDSPercent = decimal.NewFromInt(10)

var (
	ErrInvalidStatus = errors.New("commission is not in a state that allows this action")
)

// RuleResolver is the narrow contract the engine needs from the partner
// package.
type RuleResolver interface {
	ResolveRule(db *gorm.DB, partnerID, propertyID uint) (*partner.CommissionRule, error)
}

// PartnerFinder resolves partner rows for the override lookup.
type PartnerFinder interface {
	FindByID(db *gorm.DB, id uint) (*partner.ChannelPartner, error)
}

// CalcInput carries the investment fields the engine reads. The engine
// deliberately does not depend on the investment package.
type CalcInput struct {
	InvestmentID uint
	PartnerID    *uint
	PropertyID   uint
	Amount       decimal.Decimal
}

// Engine computes and records commissions for approved-pending
// investments.
type Engine struct {
	Repo       Repository
	Rules      RuleResolver
	Partners   PartnerFinder
	TDSPercent decimal.Decimal
}

func NewEngine() *Engine {
	return &Engine{
		Repo:       NewRepository(),
		Rules:      partner.NewResolver(),
		Partners:   partner.NewRepository(),
		TDSPercent: tdsPercentFromEnv(),
	}
}

func tdsPercentFromEnv() decimal.Decimal {
	if v := os.Getenv("TDS_PERCENT"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			return d
		}
	}
	return DefaultTDSPercent
}

func newCommissionID(partnerID uint) string {
	return fmt.Sprintf("COM%s%d%s",
		time.Now().Format("20060102"),
		partnerID,
		strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6])
}

// GrossAmount applies a rule to an investment amount.
//
// flat: amount * percentage / 100.
// tiered: the first band where min <= amount <= max; above every band the
// last band's rate applies; an empty tier table yields zero.
// one_time: the fixed amount stored in the percentage field.
func GrossAmount(rule *partner.CommissionRule, amount decimal.Decimal) (gross, rate decimal.Decimal) {
	hundred := decimal.NewFromInt(100)

	switch rule.Type {
	case partner.RuleTypeTiered:
		if len(rule.Tiers) == 0 {
			return decimal.Zero, decimal.Zero
		}
		for _, tier := range rule.Tiers {
			if amount.GreaterThanOrEqual(tier.Min) && amount.LessThanOrEqual(tier.Max) {
				return amount.Mul(tier.Rate).Div(hundred).Round(2), tier.Rate
			}
		}
		last := rule.Tiers[len(rule.Tiers)-1]
		if amount.GreaterThan(last.Max) {
			return amount.Mul(last.Rate).Div(hundred).Round(2), last.Rate
		}
		return decimal.Zero, decimal.Zero

	case partner.RuleTypeOneTime:
		return rule.Percentage.Round(2), rule.Percentage

	default: // flat
		return amount.Mul(rule.Percentage).Div(hundred).Round(2), rule.Percentage
	}
}

// Calculate computes and persists the commission for an investment.
// Returns (nil, nil) when no commission applies: no referring partner, no
// rule, or a zero gross. Recomputation is idempotent; the existing direct
// commission is returned untouched.
//
// When the partner has a parent and the rule carries a nonzero override
// percentage, a second pending commission of type override is created for
// the parent, derived from the base gross. Override depth is exactly one
// level.
func (e *Engine) Calculate(db *gorm.DB, in CalcInput) (*Commission, error) {
	if in.PartnerID == nil {
		return nil, nil
	}

	existing, err := e.Repo.FindDirectByInvestment(db, in.InvestmentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rule, err := e.Rules.ResolveRule(db, *in.PartnerID, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}

	gross, rate := GrossAmount(rule, in.Amount)
	if gross.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	hundred := decimal.NewFromInt(100)
	tds := gross.Mul(e.TDSPercent).Div(hundred).Round(2)

	base := &Commission{
		CommissionID:  newCommissionID(*in.PartnerID),
		PartnerID:     *in.PartnerID,
		InvestmentID:  in.InvestmentID,
		Type:          TypeDirect,
		BaseAmount:    in.Amount,
		Rate:          rate,
		Amount:        gross,
		TDSPercentage: e.TDSPercent,
		TDSAmount:     tds,
		NetAmount:     gross.Sub(tds),
		RuleID:        &rule.ID,
		Status:        StatusPending,
	}
	if err := e.Repo.Create(db, base); err != nil {
		return nil, err
	}

	if rule.OverridePercentage.GreaterThan(decimal.Zero) {
		p, err := e.Partners.FindByID(db, *in.PartnerID)
		if err != nil {
			return nil, err
		}
		if p.ParentID != nil {
			overrideGross := gross.Mul(rule.OverridePercentage).Div(hundred).Round(2)
			if overrideGross.GreaterThan(decimal.Zero) {
				overrideTDS := overrideGross.Mul(e.TDSPercent).Div(hundred).Round(2)
				override := &Commission{
					CommissionID:       newCommissionID(*p.ParentID),
					PartnerID:          *p.ParentID,
					InvestmentID:       in.InvestmentID,
					Type:               TypeOverride,
					BaseAmount:         gross,
					Rate:               rule.OverridePercentage,
					Amount:             overrideGross,
					TDSPercentage:      e.TDSPercent,
					TDSAmount:          overrideTDS,
					NetAmount:          overrideGross.Sub(overrideTDS),
					RuleID:             &rule.ID,
					Status:             StatusPending,
					IsOverride:         true,
					ParentCommissionID: &base.ID,
				}
				if err := e.Repo.Create(db, override); err != nil {
					return nil, err
				}
			}
		}
	}

	return base, nil
}

// Approve moves a pending commission to approved.
func (e *Engine) Approve(db *gorm.DB, id, adminID uint) (*Commission, error) {
	var c *Commission
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		c, err = e.Repo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if c.Status != StatusPending {
			return fmt.Errorf("%w: cannot approve commission with status %q", ErrInvalidStatus, c.Status)
		}
		now := time.Now()
		c.Status = StatusApproved
		c.ApprovedBy = &adminID
		c.ApprovedAt = &now
		return e.Repo.Save(tx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ProcessPayout moves an approved commission to paid, recording payer and
// external payment reference. Terminal state.
func (e *Engine) ProcessPayout(db *gorm.DB, id, adminID uint, reference string) (*Commission, error) {
	var c *Commission
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		c, err = e.Repo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if c.Status != StatusApproved {
			return fmt.Errorf("%w: cannot pay out commission with status %q", ErrInvalidStatus, c.Status)
		}
		now := time.Now()
		c.Status = StatusPaid
		c.PaidBy = &adminID
		c.PaidAt = &now
		c.PaymentReference = reference
		return e.Repo.Save(tx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

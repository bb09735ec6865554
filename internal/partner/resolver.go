package partner

import (
	"errors"

	"gorm.io/gorm"
)

// Resolver answers the two lookups the commission and investment flows
// depend on: which rule applies to a partner, and which partner (if any)
// gets credit for an investment.
type Resolver struct {
	Repo Repository
}

func NewResolver() *Resolver {
	return &Resolver{Repo: NewRepository()}
}

// ResolveRule returns the first match in priority order: a rule bound to
// this (partner, property) pair, then a rule bound to the partner with no
// property restriction. Absence of a rule is a valid nil outcome, not an
// error.
func (r *Resolver) ResolveRule(db *gorm.DB, partnerID, propertyID uint) (*CommissionRule, error) {
	rule, err := r.Repo.FindRuleForPartnerAndProperty(db, partnerID, propertyID)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rule, err = r.Repo.FindRuleForPartner(db, partnerID)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

// ResolveReferral picks the commission-eligible partner for an investment.
// An explicitly supplied code is authoritative: when it does not map to an
// active, verified partner the referral is discarded rather than falling
// back to a standing relation. With no code, the customer's active
// non-expired relation applies.
func (r *Resolver) ResolveReferral(db *gorm.DB, referralCode string, customerID uint) (*ChannelPartner, error) {
	if referralCode != "" {
		p, err := r.Repo.FindActiveByCode(db, referralCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return p, nil
	}

	rel, err := r.Repo.FindStandingRelation(db, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	p, err := r.Repo.FindByID(db, rel.PartnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, nil
	}
	return p, nil
}

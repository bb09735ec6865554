package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakePartnerRepo wires canned answers into the resolver.
type fakePartnerRepo struct {
	Repository

	partners     map[uint]*ChannelPartner
	byCode       map[string]*ChannelPartner
	relations    map[uint]*CustomerRelation
	pairRules    map[[2]uint]*CommissionRule
	generalRules map[uint]*CommissionRule
}

func (f *fakePartnerRepo) FindByID(db *gorm.DB, id uint) (*ChannelPartner, error) {
	if p, ok := f.partners[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePartnerRepo) FindActiveByCode(db *gorm.DB, code string) (*ChannelPartner, error) {
	if p, ok := f.byCode[code]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePartnerRepo) FindStandingRelation(db *gorm.DB, customerID uint) (*CustomerRelation, error) {
	if rel, ok := f.relations[customerID]; ok {
		return rel, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePartnerRepo) FindRuleForPartnerAndProperty(db *gorm.DB, partnerID, propertyID uint) (*CommissionRule, error) {
	if rule, ok := f.pairRules[[2]uint{partnerID, propertyID}]; ok {
		return rule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePartnerRepo) FindRuleForPartner(db *gorm.DB, partnerID uint) (*CommissionRule, error) {
	if rule, ok := f.generalRules[partnerID]; ok {
		return rule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestResolveRulePrefersPropertyBinding(t *testing.T) {
	pairRule := &CommissionRule{ID: 1, Name: "property special"}
	generalRule := &CommissionRule{ID: 2, Name: "house default"}
	r := &Resolver{Repo: &fakePartnerRepo{
		pairRules:    map[[2]uint]*CommissionRule{{7, 3}: pairRule},
		generalRules: map[uint]*CommissionRule{7: generalRule},
	}}

	rule, err := r.ResolveRule(nil, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, pairRule, rule)
}

func TestResolveRuleFallsBackToGeneral(t *testing.T) {
	generalRule := &CommissionRule{ID: 2, Name: "house default"}
	r := &Resolver{Repo: &fakePartnerRepo{
		generalRules: map[uint]*CommissionRule{7: generalRule},
	}}

	rule, err := r.ResolveRule(nil, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, generalRule, rule)
}

func TestResolveRuleNoneConfigured(t *testing.T) {
	r := &Resolver{Repo: &fakePartnerRepo{}}

	rule, err := r.ResolveRule(nil, 7, 3)
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestResolveReferralByCode(t *testing.T) {
	p := &ChannelPartner{Code: "CPAB12CD34", IsActive: true, IsVerified: true}
	r := &Resolver{Repo: &fakePartnerRepo{
		byCode: map[string]*ChannelPartner{"CPAB12CD34": p},
	}}

	got, err := r.ResolveReferral(nil, "CPAB12CD34", 5)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

// An explicit code that does not resolve discards the referral entirely,
// even when the customer has a standing relation that would otherwise
// apply.
func TestResolveReferralBadCodeDoesNotFallBack(t *testing.T) {
	standing := &ChannelPartner{IsActive: true, IsVerified: true}
	standing.ID = 7
	r := &Resolver{Repo: &fakePartnerRepo{
		partners:  map[uint]*ChannelPartner{7: standing},
		relations: map[uint]*CustomerRelation{5: {PartnerID: 7, CustomerID: 5, IsActive: true}},
	}}

	got, err := r.ResolveReferral(nil, "CPDEADBEEF", 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveReferralStandingRelation(t *testing.T) {
	standing := &ChannelPartner{IsActive: true, IsVerified: true}
	standing.ID = 7
	r := &Resolver{Repo: &fakePartnerRepo{
		partners:  map[uint]*ChannelPartner{7: standing},
		relations: map[uint]*CustomerRelation{5: {PartnerID: 7, CustomerID: 5, IsActive: true}},
	}}

	got, err := r.ResolveReferral(nil, "", 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(7), got.ID)
}

func TestResolveReferralNoRelation(t *testing.T) {
	r := &Resolver{Repo: &fakePartnerRepo{}}

	got, err := r.ResolveReferral(nil, "", 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveReferralInactiveRelationPartner(t *testing.T) {
	dormant := &ChannelPartner{IsActive: false}
	dormant.ID = 7
	r := &Resolver{Repo: &fakePartnerRepo{
		partners:  map[uint]*ChannelPartner{7: dormant},
		relations: map[uint]*CustomerRelation{5: {PartnerID: 7, CustomerID: 5, IsActive: true}},
	}}

	got, err := r.ResolveReferral(nil, "", 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}

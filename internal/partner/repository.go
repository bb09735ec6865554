package partner

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(db *gorm.DB, p *ChannelPartner) error
	FindByID(db *gorm.DB, id uint) (*ChannelPartner, error)
	FindByUserID(db *gorm.DB, userID uint) (*ChannelPartner, error)
	FindActiveByCode(db *gorm.DB, code string) (*ChannelPartner, error)
	List(db *gorm.DB) ([]ChannelPartner, error)

	CreateRelation(db *gorm.DB, rel *CustomerRelation) error
	FindStandingRelation(db *gorm.DB, customerID uint) (*CustomerRelation, error)

	CreateRule(db *gorm.DB, rule *CommissionRule) error
	AssignRule(db *gorm.DB, pr *PartnerRule) error
	FindRuleForPartnerAndProperty(db *gorm.DB, partnerID, propertyID uint) (*CommissionRule, error)
	FindRuleForPartner(db *gorm.DB, partnerID uint) (*CommissionRule, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, p *ChannelPartner) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*ChannelPartner, error) {
	var p ChannelPartner
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) FindByUserID(db *gorm.DB, userID uint) (*ChannelPartner, error) {
	var p ChannelPartner
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveByCode only matches partners who may earn commission: active
// and verified.
func (r *repositoryImpl) FindActiveByCode(db *gorm.DB, code string) (*ChannelPartner, error) {
	var p ChannelPartner
	err := db.Where("code = ? AND is_active = ? AND is_verified = ?", code, true, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) List(db *gorm.DB) ([]ChannelPartner, error) {
	var list []ChannelPartner
	err := db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) CreateRelation(db *gorm.DB, rel *CustomerRelation) error {
	return db.Create(rel).Error
}

// FindStandingRelation returns the customer's active, non-expired
// partner relation, if any.
func (r *repositoryImpl) FindStandingRelation(db *gorm.DB, customerID uint) (*CustomerRelation, error) {
	var rel CustomerRelation
	err := db.Where("customer_id = ? AND is_active = ?", customerID, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *repositoryImpl) CreateRule(db *gorm.DB, rule *CommissionRule) error {
	return db.Create(rule).Error
}

func (r *repositoryImpl) AssignRule(db *gorm.DB, pr *PartnerRule) error {
	return db.Create(pr).Error
}

func (r *repositoryImpl) FindRuleForPartnerAndProperty(db *gorm.DB, partnerID, propertyID uint) (*CommissionRule, error) {
	var pr PartnerRule
	err := db.Preload("Rule").
		Joins("JOIN commission_rules ON commission_rules.id = partner_rules.rule_id").
		Where("partner_rules.partner_id = ? AND partner_rules.property_id = ?", partnerID, propertyID).
		Where("commission_rules.is_active = ?", true).
		Order("partner_rules.assigned_at").
		First(&pr).Error
	if err != nil {
		return nil, err
	}
	return &pr.Rule, nil
}

func (r *repositoryImpl) FindRuleForPartner(db *gorm.DB, partnerID uint) (*CommissionRule, error) {
	var pr PartnerRule
	err := db.Preload("Rule").
		Joins("JOIN commission_rules ON commission_rules.id = partner_rules.rule_id").
		Where("partner_rules.partner_id = ? AND partner_rules.property_id IS NULL", partnerID).
		Where("commission_rules.is_active = ?", true).
		Order("partner_rules.assigned_at").
		First(&pr).Error
	if err != nil {
		return nil, err
	}
	return &pr.Rule, nil
}

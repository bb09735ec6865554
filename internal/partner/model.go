package partner

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RuleTypeFlat    = "flat"
	RuleTypeTiered  = "tiered"
	RuleTypeOneTime = "one_time"
)

// ChannelPartner is an agent who refers customers and earns commission.
// ParentID supports a one-level override hierarchy.
type ChannelPartner struct {
	gorm.Model
	UserID      uint   `gorm:"uniqueIndex;not null" json:"userId"`
	ParentID    *uint  `gorm:"index" json:"parentId"`
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	CompanyName string `gorm:"size:255" json:"companyName"`
	PANNumber   string `gorm:"size:10" json:"panNumber"`

	// Bank details for commission payout
	BankName          string `gorm:"size:100" json:"bankName"`
	AccountNumber     string `gorm:"size:50" json:"accountNumber"`
	IFSCCode          string `gorm:"size:11" json:"ifscCode"`
	AccountHolderName string `gorm:"size:255" json:"accountHolderName"`

	IsActive   bool       `gorm:"not null;default:true;index" json:"isActive"`
	IsVerified bool       `gorm:"not null;default:false" json:"isVerified"`
	VerifiedAt *time.Time `json:"verifiedAt"`

	Parent *ChannelPartner `gorm:"foreignKey:ParentID" json:"-"`
}

// CustomerRelation tracks which partner brought which customer. Used as the
// standing referral when an investment carries no explicit code.
type CustomerRelation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PartnerID    uint       `gorm:"not null;uniqueIndex:idx_partner_customer" json:"partnerId"`
	CustomerID   uint       `gorm:"not null;uniqueIndex:idx_partner_customer;index" json:"customerId"`
	ReferralCode string     `gorm:"size:50" json:"referralCode"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Tier is one band of a tiered commission rule.
type Tier struct {
	Min  decimal.Decimal `json:"min"`
	Max  decimal.Decimal `json:"max"`
	Rate decimal.Decimal `json:"rate"`
}

// CommissionRule is the rate configuration. Historical commissions keep the
// rate that applied at calculation time, so editing a rule never rewrites
// past commissions.
type CommissionRule struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `json:"description"`
	Type        string `gorm:"size:20;not null" json:"type"`

	// Flat percentage, or the fixed amount for one_time rules
	Percentage decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"percentage"`

	// Ordered bands for tiered rules
	Tiers []Tier `gorm:"type:jsonb;serializer:json" json:"tiers"`

	// Override paid to the partner's parent, as a percentage of the base
	// commission gross
	OverridePercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"overridePercentage"`

	IsActive      bool      `gorm:"not null;default:true;index" json:"isActive"`
	EffectiveFrom time.Time `json:"effectiveFrom"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PartnerRule binds a commission rule to a partner, optionally restricted
// to a single property. A (partner, property) binding beats a
// partner-general one.
type PartnerRule struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PartnerID  uint      `gorm:"not null;index" json:"partnerId"`
	RuleID     uint      `gorm:"not null" json:"ruleId"`
	PropertyID *uint     `gorm:"index" json:"propertyId"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assignedAt"`

	Rule CommissionRule `gorm:"foreignKey:RuleID" json:"rule"`
}

// Migrate creates the tables in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ChannelPartner{}, &CustomerRelation{}, &CommissionRule{}, &PartnerRule{})
}

package property

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	UnitStatusAvailable = "available"
	UnitStatusBooked    = "booked"
	UnitStatusSold      = "sold"
	UnitStatusBlocked   = "blocked"
)

// Property is a real-estate project split into fungible investment units.
type Property struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	City              string          `gorm:"size:100" json:"city"`
	PropertyType      string          `gorm:"size:20" json:"propertyType"`
	TotalUnits        int             `gorm:"not null" json:"totalUnits"`
	AvailableUnits    int             `gorm:"not null" json:"availableUnits"`
	PricePerUnit      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"pricePerUnit"`
	MinimumInvestment decimal.Decimal `gorm:"type:numeric(15,2)" json:"minimumInvestment"`
	ExpectedReturnPct decimal.Decimal `gorm:"type:numeric(5,2)" json:"expectedReturnPct"`
	Status            string          `gorm:"size:20;not null;default:'live'" json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"deletedAt,omitempty"`

	Units []Unit `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
}

// Unit is an individually allocatable slot within a property.
// Lifecycle: available -> booked -> sold, or booked -> available on release.
type Unit struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	PropertyID uint            `gorm:"not null;index" json:"propertyId"`
	UnitNumber string          `gorm:"size:50;not null" json:"unitNumber"`
	Price      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"price"`
	Status     string          `gorm:"size:20;not null;default:'available';index" json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Migrate creates the tables in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Property{}, &Unit{})
}

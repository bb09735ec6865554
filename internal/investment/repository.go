package investment

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(db *gorm.DB, inv *Investment) error
	Save(db *gorm.DB, inv *Investment) error
	FindByID(db *gorm.DB, id uint) (*Investment, error)
	FindByIDForUpdate(db *gorm.DB, id uint) (*Investment, error)
	ListByCustomer(db *gorm.DB, customerID uint) ([]Investment, error)
	List(db *gorm.DB, status string) ([]Investment, error)
	LinkUnits(db *gorm.DB, investmentID uint, unitIDs []uint) error
	UnitIDs(db *gorm.DB, investmentID uint) ([]uint, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, inv *Investment) error {
	return db.Create(inv).Error
}

func (r *repositoryImpl) Save(db *gorm.DB, inv *Investment) error {
	return db.Save(inv).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Investment, error) {
	var inv Investment
	if err := db.Preload("Units").First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindByIDForUpdate locks the investment row so concurrent admin actions
// on the same investment serialize.
func (r *repositoryImpl) FindByIDForUpdate(db *gorm.DB, id uint) (*Investment, error) {
	var inv Investment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repositoryImpl) ListByCustomer(db *gorm.DB, customerID uint) ([]Investment, error) {
	var list []Investment
	err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) List(db *gorm.DB, status string) ([]Investment, error) {
	var list []Investment
	q := db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) LinkUnits(db *gorm.DB, investmentID uint, unitIDs []uint) error {
	links := make([]InvestmentUnit, 0, len(unitIDs))
	for _, id := range unitIDs {
		links = append(links, InvestmentUnit{InvestmentID: investmentID, UnitID: id})
	}
	return db.Create(&links).Error
}

func (r *repositoryImpl) UnitIDs(db *gorm.DB, investmentID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&InvestmentUnit{}).
		Where("investment_id = ?", investmentID).
		Pluck("unit_id", &ids).Error
	return ids, err
}

package property

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(db *gorm.DB, p *Property) error
	FindByID(db *gorm.DB, id uint) (*Property, error)
	List(db *gorm.DB) ([]Property, error)
	CreateUnits(db *gorm.DB, units []Unit) error
	FindUnitsByIDs(db *gorm.DB, ids []uint) ([]Unit, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, p *Property) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Property, error) {
	var p Property
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) List(db *gorm.DB) ([]Property, error) {
	var list []Property
	err := db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) CreateUnits(db *gorm.DB, units []Unit) error {
	return db.Create(&units).Error
}

func (r *repositoryImpl) FindUnitsByIDs(db *gorm.DB, ids []uint) ([]Unit, error) {
	var units []Unit
	err := db.Where("id IN ?", ids).Find(&units).Error
	return units, err
}

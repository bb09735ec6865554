package user

import (
	"gorm.io/gorm"
)

type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*User, error)
	FindByID(db *gorm.DB, id uint) (*User, error)
	Save(db *gorm.DB, u *User) error
	UpdateKYCStatus(db *gorm.DB, id uint, status string) error
	IsKYCVerified(db *gorm.DB, id uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*User, error) {
	var u User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*User, error) {
	var u User
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, u *User) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) UpdateKYCStatus(db *gorm.DB, id uint, status string) error {
	return db.Model(&User{}).Where("id = ?", id).Update("kyc_status", status).Error
}

// IsKYCVerified is the narrow contract the investment flow depends on.
func (r *repositoryImpl) IsKYCVerified(db *gorm.DB, id uint) (bool, error) {
	var u User
	if err := db.Select("kyc_status").First(&u, id).Error; err != nil {
		return false, err
	}
	return u.KYCStatus == KYCStatusVerified, nil
}

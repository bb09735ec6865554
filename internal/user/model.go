package user

import (
	"gorm.io/gorm"
)

// KYC status values. An investment requires KYCStatusVerified.
const (
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

type User struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"unique"`
	Phone     string `json:"phone"`
	Password  string `json:"-"`
	IsAdmin   bool   `json:"-"`
	KYCStatus string `json:"kycStatus" gorm:"size:20;not null;default:'pending'"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}

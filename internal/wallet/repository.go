package wallet

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetOrCreate(db *gorm.DB, userID uint) (*Wallet, error)
	FindByUser(db *gorm.DB, userID uint) (*Wallet, error)
	FindByUserForUpdate(db *gorm.DB, userID uint) (*Wallet, error)
	SaveWallet(db *gorm.DB, w *Wallet) error
	CreateTransaction(db *gorm.DB, t *Transaction) error
	SaveTransaction(db *gorm.DB, t *Transaction) error
	ListTransactions(db *gorm.DB, userID uint, limit int) ([]Transaction, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) GetOrCreate(db *gorm.DB, userID uint) (*Wallet, error) {
	var w Wallet
	err := db.Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = Wallet{UserID: userID, IsActive: true}
	if err := db.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repositoryImpl) FindByUser(db *gorm.DB, userID uint) (*Wallet, error) {
	var w Wallet
	if err := db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// FindByUserForUpdate acquires an exclusive row lock on the wallet for the
// duration of the surrounding transaction. Concurrent balance mutations on
// the same wallet serialize here.
func (r *repositoryImpl) FindByUserForUpdate(db *gorm.DB, userID uint) (*Wallet, error) {
	var w Wallet
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repositoryImpl) SaveWallet(db *gorm.DB, w *Wallet) error {
	return db.Save(w).Error
}

func (r *repositoryImpl) CreateTransaction(db *gorm.DB, t *Transaction) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) SaveTransaction(db *gorm.DB, t *Transaction) error {
	return db.Save(t).Error
}

func (r *repositoryImpl) ListTransactions(db *gorm.DB, userID uint, limit int) ([]Transaction, error) {
	var list []Transaction
	q := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

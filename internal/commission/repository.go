package commission

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(db *gorm.DB, c *Commission) error
	Save(db *gorm.DB, c *Commission) error
	FindByID(db *gorm.DB, id uint) (*Commission, error)
	FindDirectByInvestment(db *gorm.DB, investmentID uint) (*Commission, error)
	FindByInvestmentAndStatuses(db *gorm.DB, investmentID uint, statuses []string) ([]Commission, error)
	ListByPartner(db *gorm.DB, partnerID uint, status string) ([]Commission, error)
	List(db *gorm.DB, status string) ([]Commission, error)
	UpdateStatusForInvestment(db *gorm.DB, investmentID uint, from []string, to string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, c *Commission) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) Save(db *gorm.DB, c *Commission) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Commission, error) {
	var c Commission
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindDirectByInvestment returns the single non-override commission for an
// investment, regardless of status. Used for idempotent recomputation.
func (r *repositoryImpl) FindDirectByInvestment(db *gorm.DB, investmentID uint) (*Commission, error) {
	var c Commission
	err := db.Where("investment_id = ? AND is_override = ?", investmentID, false).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) FindByInvestmentAndStatuses(db *gorm.DB, investmentID uint, statuses []string) ([]Commission, error) {
	var list []Commission
	err := db.Where("investment_id = ? AND status IN ?", investmentID, statuses).
		Order("is_override").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListByPartner(db *gorm.DB, partnerID uint, status string) ([]Commission, error) {
	var list []Commission
	q := db.Where("partner_id = ?", partnerID).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) List(db *gorm.DB, status string) ([]Commission, error) {
	var list []Commission
	q := db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

// UpdateStatusForInvestment moves every commission of an investment that is
// currently in one of the from statuses to the target status.
func (r *repositoryImpl) UpdateStatusForInvestment(db *gorm.DB, investmentID uint, from []string, to string) error {
	return db.Model(&Commission{}).
		Where("investment_id = ? AND status IN ?", investmentID, from).
		Update("status", to).Error
}

package property

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientInventory = errors.New("requested units not available")

// Allocator reserves, releases and finalizes units. All methods expect to
// run inside the caller's transaction so a failed investment creation rolls
// the reservation back with it.
type Allocator struct{}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Reserve locks the lowest-numbered available units and flips them to
// booked, keeping the property's available counter in step. Fails without
// side effects when fewer than count units are available.
func (a *Allocator) Reserve(db *gorm.DB, propertyID uint, count int) ([]Unit, error) {
	if count <= 0 {
		return nil, ErrInsufficientInventory
	}

	var units []Unit
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("property_id = ? AND status = ?", propertyID, UnitStatusAvailable).
		Order("unit_number").
		Limit(count).
		Find(&units).Error
	if err != nil {
		return nil, err
	}
	if len(units) < count {
		return nil, ErrInsufficientInventory
	}

	ids := make([]uint, 0, len(units))
	for i := range units {
		ids = append(ids, units[i].ID)
		units[i].Status = UnitStatusBooked
	}
	if err := db.Model(&Unit{}).Where("id IN ?", ids).
		Update("status", UnitStatusBooked).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&Property{}).Where("id = ?", propertyID).
		UpdateColumn("available_units", gorm.Expr("available_units - ?", count)).Error; err != nil {
		return nil, err
	}

	return units, nil
}

// Release flips booked (or sold, when unwinding an approved investment)
// units back to available and restores the property counter.
func (a *Allocator) Release(db *gorm.DB, unitIDs []uint) error {
	if len(unitIDs) == 0 {
		return nil
	}

	var units []Unit
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", unitIDs).Find(&units).Error; err != nil {
		return err
	}

	released := map[uint]int{}
	for _, u := range units {
		if u.Status == UnitStatusBooked || u.Status == UnitStatusSold {
			released[u.PropertyID]++
		}
	}

	if err := db.Model(&Unit{}).
		Where("id IN ? AND status IN ?", unitIDs, []string{UnitStatusBooked, UnitStatusSold}).
		Update("status", UnitStatusAvailable).Error; err != nil {
		return err
	}

	for propertyID, n := range released {
		if err := db.Model(&Property{}).Where("id = ?", propertyID).
			UpdateColumn("available_units", gorm.Expr("available_units + ?", n)).Error; err != nil {
			return err
		}
	}
	return nil
}

// Finalize flips booked units to sold. Permanent; the available counter was
// already decremented at reservation time.
func (a *Allocator) Finalize(db *gorm.DB, unitIDs []uint) error {
	if len(unitIDs) == 0 {
		return nil
	}
	return db.Model(&Unit{}).
		Where("id IN ? AND status = ?", unitIDs, UnitStatusBooked).
		Update("status", UnitStatusSold).Error
}

package investment

import (
	"fmt"
	"time"

	"github.com/assetkart/cp-backend/internal/commission"
	"github.com/assetkart/cp-backend/internal/wallet"
	"gorm.io/gorm"
)

// Approve moves a pending investment to approved, finalizes its reserved
// units to sold and approves the pending commissions in the same
// transaction. The commission transition is not independently triggerable
// from here; it rides on the investment approval.
func (s *Service) Approve(db *gorm.DB, id, adminID uint) (*Investment, error) {
	var inv *Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = s.Repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if inv.Status != StatusPending {
			return fmt.Errorf("%w: cannot approve investment with status %q", ErrInvalidStatus, inv.Status)
		}

		unitIDs, err := s.Repo.UnitIDs(tx, inv.ID)
		if err != nil {
			return err
		}
		if err := s.Allocator.Finalize(tx, unitIDs); err != nil {
			return err
		}

		now := time.Now()
		inv.Status = StatusApproved
		inv.ApprovedBy = &adminID
		inv.ApprovedAt = &now
		if err := s.Repo.Save(tx, inv); err != nil {
			return err
		}

		pending, err := s.Commissions.FindByInvestmentAndStatuses(tx, inv.ID, []string{commission.StatusPending})
		if err != nil {
			return err
		}
		for i := range pending {
			pending[i].Status = commission.StatusApproved
			pending[i].ApprovedBy = &adminID
			pending[i].ApprovedAt = &now
			if err := s.Commissions.Save(tx, &pending[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Reject unwinds a pending or approved investment: units go back to
// available, the debited amount is refunded to the wallet and open
// commissions are cancelled. Refund and status change commit together or
// not at all.
func (s *Service) Reject(db *gorm.DB, id, adminID uint, reason string) (*Investment, error) {
	return s.unwind(db, id, adminID, reason, StatusRejected)
}

// Cancel follows the same reconciliation path as Reject but lands in the
// cancelled status.
func (s *Service) Cancel(db *gorm.DB, id, adminID uint, reason string) (*Investment, error) {
	return s.unwind(db, id, adminID, reason, StatusCancelled)
}

func (s *Service) unwind(db *gorm.DB, id, adminID uint, reason, target string) (*Investment, error) {
	var inv *Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = s.Repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if inv.Status != StatusPending && inv.Status != StatusApproved {
			return fmt.Errorf("%w: cannot move investment with status %q to %q", ErrInvalidStatus, inv.Status, target)
		}

		// Wallet first, units second: same lock order as Create.
		_, err = s.Wallet.CreditWithPurpose(tx, inv.CustomerID, inv.Amount,
			wallet.PurposeRefund, fmt.Sprintf("Refund for investment %s", inv.InvestmentID))
		if err != nil {
			return err
		}

		unitIDs, err := s.Repo.UnitIDs(tx, inv.ID)
		if err != nil {
			return err
		}
		if err := s.Allocator.Release(tx, unitIDs); err != nil {
			return err
		}

		inv.Status = target
		inv.RejectionReason = reason
		inv.ApprovedBy = &adminID
		if err := s.Repo.Save(tx, inv); err != nil {
			return err
		}

		return s.Commissions.UpdateStatusForInvestment(tx, inv.ID,
			[]string{commission.StatusPending, commission.StatusApproved},
			commission.StatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Activate moves an approved investment to active.
func (s *Service) Activate(db *gorm.DB, id uint) (*Investment, error) {
	return s.transition(db, id, StatusApproved, StatusActive)
}

// Complete moves an active investment to completed.
func (s *Service) Complete(db *gorm.DB, id uint) (*Investment, error) {
	return s.transition(db, id, StatusActive, StatusCompleted)
}

func (s *Service) transition(db *gorm.DB, id uint, from, to string) (*Investment, error) {
	var inv *Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = s.Repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if inv.Status != from {
			return fmt.Errorf("%w: cannot move investment with status %q to %q", ErrInvalidStatus, inv.Status, to)
		}
		inv.Status = to
		return s.Repo.Save(tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

package wallet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service implements the wallet ledger. Every balance mutation locks the
// wallet row, records exactly one transaction and keeps balance_after
// derivable from balance_before and the signed amount.
type Service struct {
	Repo Repository
}

func NewService() *Service {
	return &Service{Repo: NewRepository()}
}

func newTransactionID() string {
	return "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:15]
}

// CreateWallet is idempotent; it returns the existing wallet if present.
func (s *Service) CreateWallet(db *gorm.DB, userID uint) (*Wallet, error) {
	return s.Repo.GetOrCreate(db, userID)
}

// Balance returns the wallet snapshot for a user.
func (s *Service) Balance(db *gorm.DB, userID uint) (*Wallet, error) {
	w, err := s.Repo.FindByUser(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return w, nil
}

// Transactions returns the newest-first audit trail for a user.
func (s *Service) Transactions(db *gorm.DB, userID uint, limit int) ([]Transaction, error) {
	return s.Repo.ListTransactions(db, userID, limit)
}

// Credit adds funds to the wallet. The transaction record is written as
// pending with the pre-mutation balance, then completed once the balance
// has moved. Runs in its own transaction when db is not already one.
func (s *Service) Credit(db *gorm.DB, userID uint, amount decimal.Decimal, method, externalRef string) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var txn *Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repo.GetOrCreate(tx, userID); err != nil {
			return err
		}
		w, err := s.Repo.FindByUserForUpdate(tx, userID)
		if err != nil {
			return err
		}
		if w.IsBlocked {
			return ErrWalletBlocked
		}

		balanceBefore := w.Balance

		id := externalRef
		if id == "" {
			id = newTransactionID()
		}
		txn = &Transaction{
			TransactionID: id,
			WalletID:      w.ID,
			UserID:        userID,
			Type:          TypeCredit,
			Purpose:       PurposeDeposit,
			Amount:        amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceBefore.Add(amount),
			Status:        StatusPending,
			PaymentMethod: method,
			GatewayRef:    externalRef,
			Description:   fmt.Sprintf("Added funds via %s", method),
		}
		if err := s.Repo.CreateTransaction(tx, txn); err != nil {
			return err
		}

		w.Balance = w.Balance.Add(amount)
		w.LedgerBalance = w.LedgerBalance.Add(amount)
		if err := s.Repo.SaveWallet(tx, w); err != nil {
			return err
		}

		now := time.Now()
		txn.Status = StatusCompleted
		txn.ProcessedAt = &now
		txn.BalanceAfter = w.Balance
		return s.Repo.SaveTransaction(tx, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// CreditWithPurpose is Credit for non-deposit flows (refunds).
func (s *Service) CreditWithPurpose(db *gorm.DB, userID uint, amount decimal.Decimal, purpose, description string) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var txn *Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repo.GetOrCreate(tx, userID); err != nil {
			return err
		}
		w, err := s.Repo.FindByUserForUpdate(tx, userID)
		if err != nil {
			return err
		}

		balanceBefore := w.Balance
		w.Balance = w.Balance.Add(amount)
		w.LedgerBalance = w.LedgerBalance.Add(amount)
		if err := s.Repo.SaveWallet(tx, w); err != nil {
			return err
		}

		now := time.Now()
		txn = &Transaction{
			TransactionID: newTransactionID(),
			WalletID:      w.ID,
			UserID:        userID,
			Type:          TypeCredit,
			Purpose:       purpose,
			Amount:        amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  w.Balance,
			Status:        StatusCompleted,
			Description:   description,
			ProcessedAt:   &now,
		}
		return s.Repo.CreateTransaction(tx, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Debit removes funds from the wallet. Fails with ErrInsufficientFunds
// before any mutation; on success the completed transaction and the new
// balance are written in one atomic step.
func (s *Service) Debit(db *gorm.DB, userID uint, amount decimal.Decimal, reason, purpose string) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var txn *Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		w, err := s.Repo.FindByUserForUpdate(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		if w.IsBlocked {
			return ErrWalletBlocked
		}
		if w.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		balanceBefore := w.Balance
		w.Balance = w.Balance.Sub(amount)
		w.LedgerBalance = w.LedgerBalance.Sub(amount)
		if err := s.Repo.SaveWallet(tx, w); err != nil {
			return err
		}

		now := time.Now()
		txn = &Transaction{
			TransactionID: newTransactionID(),
			WalletID:      w.ID,
			UserID:        userID,
			Type:          TypeDebit,
			Purpose:       purpose,
			Amount:        amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  w.Balance,
			Status:        StatusCompleted,
			Description:   reason,
			ProcessedAt:   &now,
		}
		return s.Repo.CreateTransaction(tx, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

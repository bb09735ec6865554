package wallet

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return db, mock
}

func walletColumns() []string {
	return []string{"id", "user_id", "balance", "ledger_balance", "is_active", "is_blocked"}
}

func TestNewTransactionID(t *testing.T) {
	id := newTransactionID()
	assert.Regexp(t, `^TXN[0-9A-F]{15}$`, id)
	assert.NotEqual(t, id, newTransactionID())
}

func TestDebitHappyPath(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewService()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(1, 5, "100000.00", "100000.00", true, false))
	mock.ExpectExec(`UPDATE "wallets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectCommit()

	txn, err := s.Debit(db, 5, dec("40000"), "Investment in Marina Heights", PurposeInvestment)
	require.NoError(t, err)

	assert.Equal(t, TypeDebit, txn.Type)
	assert.Equal(t, PurposeInvestment, txn.Purpose)
	assert.Equal(t, StatusCompleted, txn.Status)
	assert.True(t, txn.BalanceBefore.Equal(dec("100000")))
	assert.True(t, txn.BalanceAfter.Equal(dec("60000")))
	assert.True(t, txn.BalanceAfter.Equal(txn.BalanceBefore.Sub(txn.Amount)))
	assert.NotNil(t, txn.ProcessedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitInsufficientFunds(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewService()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(1, 5, "10000.00", "10000.00", true, false))
	mock.ExpectRollback()

	_, err := s.Debit(db, 5, dec("40000"), "too ambitious", PurposeInvestment)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitBlockedWallet(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewService()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(1, 5, "100000.00", "100000.00", true, true))
	mock.ExpectRollback()

	_, err := s.Debit(db, 5, dec("100"), "", PurposeWithdrawal)
	assert.ErrorIs(t, err, ErrWalletBlocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitMissingWallet(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewService()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(walletColumns()))
	mock.ExpectRollback()

	_, err := s.Debit(db, 5, dec("100"), "", PurposeWithdrawal)
	assert.ErrorIs(t, err, ErrWalletNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitRejectsNonPositiveAmount(t *testing.T) {
	db, _ := newTestDB(t)
	s := NewService()

	_, err := s.Debit(db, 5, dec("0"), "", PurposeWithdrawal)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.Debit(db, 5, dec("-50"), "", PurposeWithdrawal)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreditHappyPath(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewService()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = `).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(1, 5, "500.00", "500.00", true, false))
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(1, 5, "500.00", "500.00", true, false))
	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec(`UPDATE "wallets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := s.Credit(db, 5, dec("100000"), "upi", "PAY-123")
	require.NoError(t, err)

	assert.Equal(t, TypeCredit, txn.Type)
	assert.Equal(t, PurposeDeposit, txn.Purpose)
	assert.Equal(t, StatusCompleted, txn.Status)
	assert.Equal(t, "PAY-123", txn.TransactionID)
	assert.True(t, txn.BalanceBefore.Equal(dec("500")))
	assert.True(t, txn.BalanceAfter.Equal(dec("100500")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	db, _ := newTestDB(t)
	s := NewService()

	_, err := s.Credit(db, 5, dec("0"), "upi", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreditWithPurposeRefund(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewService()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = `).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(1, 5, "60000.00", "60000.00", true, false))
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(1, 5, "60000.00", "60000.00", true, false))
	mock.ExpectExec(`UPDATE "wallets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	txn, err := s.CreditWithPurpose(db, 5, dec("40000"), PurposeRefund, "Refund for investment INV20250101ABCD1234")
	require.NoError(t, err)

	assert.Equal(t, PurposeRefund, txn.Purpose)
	assert.Equal(t, StatusCompleted, txn.Status)
	assert.True(t, txn.BalanceAfter.Equal(dec("100000")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

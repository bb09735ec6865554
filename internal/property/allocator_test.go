package property

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

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

func unitColumns() []string {
	return []string{"id", "property_id", "unit_number", "price", "status"}
}

func TestReserveLocksAndBooks(t *testing.T) {
	db, mock := newTestDB(t)
	a := NewAllocator()

	mock.ExpectQuery(`SELECT \* FROM "units" WHERE property_id = .+ AND status = .+ ORDER BY unit_number LIMIT .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(unitColumns()).
			AddRow(11, 2, "U0001", "10000.00", UnitStatusAvailable).
			AddRow(12, 2, "U0002", "10000.00", UnitStatusAvailable))
	mock.ExpectExec(`UPDATE "units" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "properties" SET "available_units"=available_units - `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	units, err := a.Reserve(db, 2, 2)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, UnitStatusBooked, units[0].Status)
	assert.Equal(t, UnitStatusBooked, units[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A shortage must fail before any status or counter mutation.
func TestReserveShortageHasNoSideEffects(t *testing.T) {
	db, mock := newTestDB(t)
	a := NewAllocator()

	mock.ExpectQuery(`SELECT \* FROM "units" WHERE property_id = .+ AND status = .+ ORDER BY unit_number LIMIT .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(unitColumns()).
			AddRow(11, 2, "U0001", "10000.00", UnitStatusAvailable))

	_, err := a.Reserve(db, 2, 4)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsNonPositiveCount(t *testing.T) {
	db, _ := newTestDB(t)
	a := NewAllocator()

	_, err := a.Reserve(db, 2, 0)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestReleaseRestoresAvailability(t *testing.T) {
	db, mock := newTestDB(t)
	a := NewAllocator()

	mock.ExpectQuery(`SELECT \* FROM "units" WHERE id IN .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(unitColumns()).
			AddRow(11, 2, "U0001", "10000.00", UnitStatusBooked).
			AddRow(12, 2, "U0002", "10000.00", UnitStatusSold))
	mock.ExpectExec(`UPDATE "units" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "properties" SET "available_units"=available_units \+ `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := a.Release(db, []uint{11, 12})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseIgnoresEmptyInput(t *testing.T) {
	db, mock := newTestDB(t)
	a := NewAllocator()

	require.NoError(t, a.Release(db, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeMarksSold(t *testing.T) {
	db, mock := newTestDB(t)
	a := NewAllocator()

	mock.ExpectExec(`UPDATE "units" SET`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	err := a.Finalize(db, []uint{11, 12, 13, 14})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeIgnoresEmptyInput(t *testing.T) {
	db, mock := newTestDB(t)
	a := NewAllocator()

	require.NoError(t, a.Finalize(db, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

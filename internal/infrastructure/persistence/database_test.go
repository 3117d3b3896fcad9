package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// scopedProperty is a minimal row shape for exercising query scoping.
type scopedProperty struct {
	ID         uint
	BusinessID string
	Name       string
}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_WithBusiness(t *testing.T) {
	t.Run("filters queries by business_id", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		businessID := "550e8400-e29b-41d4-a716-446655440000"

		mock.ExpectQuery(`SELECT \* FROM "scoped_properties" WHERE business_id = \$1`).
			WithArgs(businessID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "name"}).
				AddRow(1, businessID, "Maple Court"))

		var rows []scopedProperty
		require.NoError(t, db.WithBusiness(businessID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, "Maple Court", rows[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("composes with further query clauses", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		businessID := "550e8400-e29b-41d4-a716-446655440001"

		mock.ExpectQuery(`SELECT \* FROM "scoped_properties" WHERE business_id = \$1 AND is_active = \$2 ORDER BY name ASC LIMIT \$3`).
			WithArgs(businessID, true, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "name"}).
				AddRow(1, businessID, "Maple Court").
				AddRow(2, businessID, "Oak Street"))

		var rows []scopedProperty
		err := db.WithBusiness(businessID).
			Where("is_active = ?", true).
			Order("name ASC").
			Limit(10).
			Find(&rows).Error
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("leaves the shared handle unscoped", func(t *testing.T) {
		db, _, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		shared := db.DB
		scoped := db.WithBusiness("business-a")

		assert.NotEqual(t, shared, scoped)
		assert.Equal(t, shared, db.DB)
		assert.NotEqual(t, scoped, db.WithBusiness("business-b"))
	})

	t.Run("panics on empty business ID", func(t *testing.T) {
		db, _, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		assert.Panics(t, func() { db.WithBusiness("") })
	})

	t.Run("passes hostile IDs as bind parameters", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		businessID := "x'; DROP TABLE properties; --"

		mock.ExpectQuery(`SELECT \* FROM "scoped_properties" WHERE business_id = \$1`).
			WithArgs(businessID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "name"}))

		var rows []scopedProperty
		require.NoError(t, db.WithBusiness(businessID).Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		// Postgres inserts run as a query because of the RETURNING clause.
		mock.ExpectQuery(`INSERT INTO "scoped_properties"`).
			WithArgs("biz-1", "Maple Court").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&scopedProperty{BusinessID: "biz-1", Name: "Maple Court"}).Error
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	// GORM pings once while opening the dialector.
	mock.ExpectPing()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	db := &Database{DB: gormDB}

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	require.NoError(t, err)

	// sqlmock reports a live pool of one connection; the interesting part
	// is that every counter comes through non-negative.
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.GreaterOrEqual(t, stats.InUse+stats.Idle, 0)
	assert.GreaterOrEqual(t, stats.WaitCount, int64(0))
	assert.GreaterOrEqual(t, stats.WaitDuration, time.Duration(0))
}

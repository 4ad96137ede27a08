package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"adminlte-api/internal/domain"
)

func openEmptyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), GormConfig(false))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestSafeAutoMigrate_CreatesTables(t *testing.T) {
	db := openEmptyDB(t)

	require.NoError(t, SafeAutoMigrate(db, zap.NewNop()))

	migrator := db.Migrator()
	assert.True(t, migrator.HasTable(&domain.Role{}))
	assert.True(t, migrator.HasTable(&domain.User{}))
	assert.True(t, migrator.HasColumn(&domain.User{}, domain.ColumnIsDeleted))
	assert.True(t, migrator.HasIndex(&domain.Role{}, "uq_roles_name"))
}

func TestSafeAutoMigrate_Idempotent(t *testing.T) {
	db := openEmptyDB(t)

	require.NoError(t, SafeAutoMigrate(db, zap.NewNop()))
	assert.NoError(t, SafeAutoMigrate(db, zap.NewNop()))
}

func TestSafeAutoMigrateWithRetry_SucceedsFirstAttempt(t *testing.T) {
	db := openEmptyDB(t)
	assert.NoError(t, SafeAutoMigrateWithRetry(db, zap.NewNop(), 0))
}

func TestSafeAutoMigrateWithRetry_ClosedDatabase(t *testing.T) {
	db := openEmptyDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = SafeAutoMigrateWithRetry(db, zap.NewNop(), 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migration failed after 1 attempts")
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestNew_SQLite(t *testing.T) {
	db, err := New(Config{Driver: DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	assert.NoError(t, Ping(t.Context(), db))
	assert.NoError(t, Close(db))
}

func TestPing_NilDatabase(t *testing.T) {
	assert.Error(t, Ping(t.Context(), nil))
}

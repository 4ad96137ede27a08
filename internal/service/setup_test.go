package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"adminlte-api/internal/database"
	"adminlte-api/internal/domain"
	"adminlte-api/internal/repository"
)

type testRepos struct {
	db    *gorm.DB
	users repository.Repository[domain.User]
	roles repository.Repository[domain.Role]
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), database.GormConfig(false))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RegisterAuditCallbacks(db))
	require.NoError(t, database.AutoMigrate(db))

	users, err := repository.NewUserRepository(db)
	require.NoError(t, err)
	roles, err := repository.NewRoleRepository(db)
	require.NoError(t, err)
	return testRepos{db: db, users: users, roles: roles}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// stubUserRepository overrides selected methods of a real repository
type stubUserRepository struct {
	repository.Repository[domain.User]
	CountFunc     func() (int, error)
	LongCountFunc func() (int64, error)
}

func (s *stubUserRepository) Count(ctx context.Context) (int, error) {
	if s.CountFunc != nil {
		return s.CountFunc()
	}
	return s.Repository.Count(ctx)
}

func (s *stubUserRepository) LongCount(ctx context.Context) (int64, error) {
	if s.LongCountFunc != nil {
		return s.LongCountFunc()
	}
	return s.Repository.LongCount(ctx)
}

type countingRecorder struct {
	overflows int
}

func (c *countingRecorder) IncrementCountOverflow() {
	c.overflows++
}

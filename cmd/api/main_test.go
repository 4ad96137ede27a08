package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"adminlte-api/internal/domain"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "purge"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := initLogger(tt.level)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			assert.False(t, logger.Core().Enabled(tt.want-1))
		})
	}
}

func TestMigrateThenPurge(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := filepath.Join(dir, "adminlte.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	root.SetArgs([]string{"migrate", "--config", "missing.yaml"})
	require.NoError(t, root.Execute())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.True(t, db.Migrator().HasTable(&domain.User{}))
	assert.True(t, db.Migrator().HasTable(&domain.Role{}))

	root = newRootCmd()
	root.SetArgs([]string{"purge", "--config", "missing.yaml", "--retention", "1h"})
	assert.NoError(t, root.Execute())
}

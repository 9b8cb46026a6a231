// Package testutil opens throwaway SQLite databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"feedmill-production/internal/config"
	"feedmill-production/internal/model"
	"feedmill-production/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:   "sqlite",
		URL:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Dec parses s or fails the test.
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// AssertDecimal compares numerically, so "120" equals "120.0000".
func AssertDecimal(t testing.TB, want string, got decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.Truef(t, Dec(t, want).Equal(got), "expected %s, got %s %v", want, got, fmt.Sprint(msgAndArgs...))
}

// Package testutil provides shared helpers for package tests: an isolated
// in-memory database and factories for the common fixtures.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/database"
	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq uint64

// NextSeq returns a process-unique number for building unique fixture values.
func NextSeq() uint64 {
	return atomic.AddUint64(&seq, 1)
}

// SetupTestDB opens an isolated in-memory SQLite database with the full
// schema migrated. Each call gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared-cache memory database alive for
	// the duration of the test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Logger returns a no-op logger for tests
func Logger() *zap.Logger {
	return zap.NewNop()
}

// FullAccess builds a permission row granting every capability on a module.
func FullAccess(module domain.Module) domain.RolePermission {
	return domain.RolePermission{
		Module:     module,
		CanView:    true,
		CanCreate:  true,
		CanEdit:    true,
		CanDelete:  true,
		CanViewAll: true,
	}
}

// CreateRole inserts a role with the given permission rows.
func CreateRole(t *testing.T, db *gorm.DB, name string, perms ...domain.RolePermission) *domain.Role {
	t.Helper()

	role := &domain.Role{Name: name, IsActive: true}
	require.NoError(t, db.Create(role).Error)
	for i := range perms {
		perms[i].RoleID = role.ID
		require.NoError(t, db.Create(&perms[i]).Error)
	}
	return role
}

// CreateUser inserts an active user attached to the role.
func CreateUser(t *testing.T, db *gorm.DB, roleID uint) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:       fmt.Sprintf("user%d@example.com", NextSeq()),
		DisplayName: "Test User",
		RoleID:      roleID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateClient inserts a client with a unique org number.
func CreateClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()

	client := &domain.Client{
		OwnedModel: domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1},
		Name:       name,
		OrgNumber:  fmt.Sprintf("%09d", NextSeq()),
		IsActive:   true,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// UserCtx returns a context carrying an authenticated user.
func UserCtx(userID, roleID uint) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      userID,
		RoleID:      roleID,
		Email:       fmt.Sprintf("user%d@example.com", userID),
		DisplayName: "Test User",
	})
}

// ServiceCtx returns a context carrying a system (API key) caller.
func ServiceCtx() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		DisplayName: "System",
		Email:       "system@norvik.io",
		IsService:   true,
	})
}

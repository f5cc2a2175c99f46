package repository_test

import (
	"testing"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedScopedAccommodations(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows := []domain.Accommodation{
		{OwnedModel: domain.OwnedModel{CreatedBy: 7, UpdatedBy: 7}, Name: "Created and updated by 7"},
		{OwnedModel: domain.OwnedModel{CreatedBy: 7, UpdatedBy: 9}, Name: "Created by 7"},
		{OwnedModel: domain.OwnedModel{CreatedBy: 9, UpdatedBy: 7}, Name: "Updated by 7"},
		{OwnedModel: domain.OwnedModel{CreatedBy: 9, UpdatedBy: 9}, Name: "Someone else's"},
	}
	for i := range rows {
		rows[i].Address = "Storgata 1"
		rows[i].Country = "Norway"
		rows[i].Type = domain.AccommodationTypeApartment
		rows[i].Status = domain.AccommodationStatusAvailable
		rows[i].Capacity = 1
		require.NoError(t, db.Create(&rows[i]).Error)
	}
}

func TestApplyOwnershipFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedScopedAccommodations(t, db)

	t.Run("restricted to own rows", func(t *testing.T) {
		scope := repository.OwnershipScope{UserID: 7}
		var rows []domain.Accommodation
		query := repository.ApplyOwnershipFilter(db.Model(&domain.Accommodation{}), scope)
		require.NoError(t, query.Find(&rows).Error)
		assert.Len(t, rows, 3)
		for _, row := range rows {
			assert.True(t, row.CreatedBy == 7 || row.UpdatedBy == 7)
		}
	})

	t.Run("view all sees everything", func(t *testing.T) {
		scope := repository.OwnershipScope{UserID: 7, ViewAll: true}
		var rows []domain.Accommodation
		query := repository.ApplyOwnershipFilter(db.Model(&domain.Accommodation{}), scope)
		require.NoError(t, query.Find(&rows).Error)
		assert.Len(t, rows, 4)
	})

	t.Run("user with no rows sees nothing", func(t *testing.T) {
		scope := repository.OwnershipScope{UserID: 42}
		var rows []domain.Accommodation
		query := repository.ApplyOwnershipFilter(db.Model(&domain.Accommodation{}), scope)
		require.NoError(t, query.Find(&rows).Error)
		assert.Len(t, rows, 0)
	})
}

func TestApplyOwnershipFilterFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedScopedAccommodations(t, db)

	t.Run("single column", func(t *testing.T) {
		scope := repository.OwnershipScope{UserID: 7}
		var rows []domain.Accommodation
		query := repository.ApplyOwnershipFilterFields(db.Model(&domain.Accommodation{}), scope, "created_by")
		require.NoError(t, query.Find(&rows).Error)
		assert.Len(t, rows, 2)
	})

	t.Run("no columns is a no-op", func(t *testing.T) {
		scope := repository.OwnershipScope{UserID: 7}
		var rows []domain.Accommodation
		query := repository.ApplyOwnershipFilterFields(db.Model(&domain.Accommodation{}), scope)
		require.NoError(t, query.Find(&rows).Error)
		assert.Len(t, rows, 4)
	})
}

func TestBuildOrderClause(t *testing.T) {
	fieldMap := map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	}

	t.Run("whitelisted field", func(t *testing.T) {
		clause := repository.BuildOrderClause(repository.SortConfig{Field: "name", Order: repository.SortOrderAsc}, fieldMap, "updated_at")
		assert.Equal(t, "name ASC", clause)
	})

	t.Run("unknown field falls back to default", func(t *testing.T) {
		clause := repository.BuildOrderClause(repository.SortConfig{Field: "name; DROP TABLE users", Order: repository.SortOrderDesc}, fieldMap, "updated_at")
		assert.Equal(t, "updated_at DESC", clause)
	})

	t.Run("default order is descending", func(t *testing.T) {
		clause := repository.BuildOrderClause(repository.SortConfig{Field: "createdAt"}, fieldMap, "updated_at")
		assert.Equal(t, "created_at DESC", clause)
	})
}

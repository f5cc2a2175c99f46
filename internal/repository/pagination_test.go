package repository_test

import (
	"fmt"
	"testing"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		page, perPage := repository.NormalizePage(0, 0)
		assert.Equal(t, 1, page)
		assert.Equal(t, repository.DefaultPageSize, perPage)
	})

	t.Run("negative values", func(t *testing.T) {
		page, perPage := repository.NormalizePage(-3, -10)
		assert.Equal(t, 1, page)
		assert.Equal(t, repository.DefaultPageSize, perPage)
	})

	t.Run("per page clamped to maximum", func(t *testing.T) {
		_, perPage := repository.NormalizePage(1, 10000)
		assert.Equal(t, repository.MaxPageSize, perPage)
	})

	t.Run("valid values untouched", func(t *testing.T) {
		page, perPage := repository.NormalizePage(3, 50)
		assert.Equal(t, 3, page)
		assert.Equal(t, 50, perPage)
	})
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, repository.TotalPages(25, 10))
	assert.Equal(t, 2, repository.TotalPages(20, 10))
	assert.Equal(t, 1, repository.TotalPages(1, 10))
	assert.Equal(t, 0, repository.TotalPages(0, 10))
	assert.Equal(t, 0, repository.TotalPages(10, 0))
}

func TestPaginate(t *testing.T) {
	db := testutil.SetupTestDB(t)

	for i := 1; i <= 25; i++ {
		client := &domain.Client{
			OwnedModel: domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1},
			Name:       fmt.Sprintf("Client %02d", i),
			OrgNumber:  fmt.Sprintf("900%06d", i),
			IsActive:   true,
		}
		require.NoError(t, db.Create(client).Error)
	}

	t.Run("middle page", func(t *testing.T) {
		var clients []domain.Client
		query := db.Model(&domain.Client{}).Order("name ASC")
		page, err := repository.Paginate(query, 2, 10, &clients)
		require.NoError(t, err)

		assert.Equal(t, int64(25), page.Total)
		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 10, page.PerPage)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, clients, 10)
		assert.Equal(t, "Client 11", clients[0].Name)
		assert.Equal(t, "Client 20", clients[9].Name)
	})

	t.Run("last page is partial", func(t *testing.T) {
		var clients []domain.Client
		query := db.Model(&domain.Client{}).Order("name ASC")
		page, err := repository.Paginate(query, 3, 10, &clients)
		require.NoError(t, err)

		assert.Equal(t, int64(25), page.Total)
		assert.Len(t, clients, 5)
		assert.Equal(t, "Client 25", clients[4].Name)
	})

	t.Run("page beyond the end is empty", func(t *testing.T) {
		var clients []domain.Client
		query := db.Model(&domain.Client{}).Order("name ASC")
		page, err := repository.Paginate(query, 10, 10, &clients)
		require.NoError(t, err)

		assert.Equal(t, int64(25), page.Total)
		assert.Len(t, clients, 0)
	})
}

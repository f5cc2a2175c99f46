package repository_test

import (
	"fmt"
	"testing"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedFilterSuppliers(t *testing.T, db *gorm.DB) {
	t.Helper()
	suppliers := []domain.Supplier{
		{Name: "Oslo Plumbing AS", City: "Oslo", Status: domain.SupplierStatusActive},
		{Name: "Bergen Electrics", City: "Bergen", Status: domain.SupplierStatusActive},
		{Name: "Oslo Cleaning Tech", City: "Oslo", Status: domain.SupplierStatusInactive},
		{Name: "Northern Services", City: "Tromso", Status: domain.SupplierStatusBlacklisted},
	}
	for i := range suppliers {
		suppliers[i].OwnedModel = domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1}
		suppliers[i].VATNumber = fmt.Sprintf("NO%09d", testutil.NextSeq())
		suppliers[i].Country = "Norway"
		require.NoError(t, db.Create(&suppliers[i]).Error)
	}
}

func queryNames(t *testing.T, db *gorm.DB, f repository.Filter) []string {
	t.Helper()
	var suppliers []domain.Supplier
	query := repository.ApplyFilter(db.Model(&domain.Supplier{}), f)
	require.NoError(t, query.Order("name ASC").Find(&suppliers).Error)
	names := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		names = append(names, s.Name)
	}
	return names
}

func TestFilter_Eq(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedFilterSuppliers(t, db)

	names := queryNames(t, db, repository.Eq("city", "Oslo"))
	assert.Equal(t, []string{"Oslo Cleaning Tech", "Oslo Plumbing AS"}, names)
}

func TestFilter_Like(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedFilterSuppliers(t, db)

	t.Run("matches case-insensitively", func(t *testing.T) {
		names := queryNames(t, db, repository.Like("name", "TECH"))
		assert.Equal(t, []string{"Oslo Cleaning Tech"}, names)
	})

	t.Run("substring anywhere", func(t *testing.T) {
		names := queryNames(t, db, repository.Like("name", "ern"))
		assert.Equal(t, []string{"Bergen Electrics", "Northern Services"}, names)
	})
}

func TestFilter_And(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedFilterSuppliers(t, db)

	f := repository.And(
		repository.Eq("city", "Oslo"),
		repository.Eq("status", domain.SupplierStatusActive),
	)
	names := queryNames(t, db, f)
	assert.Equal(t, []string{"Oslo Plumbing AS"}, names)
}

func TestFilter_Or(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedFilterSuppliers(t, db)

	f := repository.Or(
		repository.Eq("city", "Bergen"),
		repository.Eq("status", domain.SupplierStatusBlacklisted),
	)
	names := queryNames(t, db, f)
	assert.Equal(t, []string{"Bergen Electrics", "Northern Services"}, names)
}

func TestFilter_NestedCombination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedFilterSuppliers(t, db)

	// Active suppliers that are in Oslo or have "Electrics" in the name.
	f := repository.And(
		repository.Eq("status", domain.SupplierStatusActive),
		repository.Or(
			repository.Eq("city", "Oslo"),
			repository.Like("name", "electrics"),
		),
	)
	names := queryNames(t, db, f)
	assert.Equal(t, []string{"Bergen Electrics", "Oslo Plumbing AS"}, names)
}

func TestFilter_EmptyIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedFilterSuppliers(t, db)

	assert.True(t, repository.Filter{}.IsZero())

	names := queryNames(t, db, repository.Filter{})
	assert.Len(t, names, 4)

	// And with only zero children collapses to a no-op as well.
	names = queryNames(t, db, repository.And(repository.Filter{}, repository.Filter{}))
	assert.Len(t, names, 4)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB) *service.PaymentService {
	perms := newPermissionService(db)
	return service.NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewSupplierRepository(db),
		repository.NewClientRepository(db),
		perms,
		testutil.Logger(),
	)
}

func TestPaymentService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPaymentService(db)
	role := testutil.CreateRole(t, db, "finance", testutil.FullAccess(domain.ModulePayments))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	t.Run("defaults applied", func(t *testing.T) {
		payment, err := svc.Create(ctx, &domain.CreatePaymentRequest{
			BillNumber: "INV-2026-001",
			ClientID:   &client.ID,
			Amount:     12500,
			DueDate:    "2026-10-15",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatus(""), payment.Status) // default set by the database
		assert.Equal(t, "INV-2026-001", payment.BillNumber)
		assert.Equal(t, uint(1), payment.CreatedBy)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		supplierID := uint(9999)
		_, err := svc.Create(ctx, &domain.CreatePaymentRequest{
			BillNumber: "INV-2026-002",
			SupplierID: &supplierID,
			Amount:     500,
			DueDate:    "2026-10-15",
		})
		assert.ErrorIs(t, err, service.ErrSupplierNotFound)
	})

	t.Run("malformed due date", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreatePaymentRequest{
			BillNumber: "INV-2026-003",
			ClientID:   &client.ID,
			Amount:     500,
			DueDate:    "15.10.2026",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestPaymentService_MarkOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPaymentService(db)
	client := testutil.CreateClient(t, db, "Housing Client")

	now := time.Now().UTC()
	seed := []domain.Payment{
		{BillNumber: "PAST-PENDING", Status: domain.PaymentStatusPending, DueDate: now.AddDate(0, 0, -3)},
		{BillNumber: "FUTURE-PENDING", Status: domain.PaymentStatusPending, DueDate: now.AddDate(0, 0, 3)},
		{BillNumber: "PAST-PAID", Status: domain.PaymentStatusPaid, DueDate: now.AddDate(0, 0, -3)},
		{BillNumber: "PAST-VOIDED", Status: domain.PaymentStatusVoided, DueDate: now.AddDate(0, 0, -3)},
	}
	for i := range seed {
		seed[i].OwnedModel = domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1}
		seed[i].ClientID = &client.ID
		seed[i].Amount = 100
		seed[i].Currency = "NOK"
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	// The sweep runs from the scheduler without a user on the context.
	changed, err := svc.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	var overdue domain.Payment
	require.NoError(t, db.Where("bill_number = ?", "PAST-PENDING").First(&overdue).Error)
	assert.Equal(t, domain.PaymentStatusOverdue, overdue.Status)

	var untouched domain.Payment
	require.NoError(t, db.Where("bill_number = ?", "PAST-PAID").First(&untouched).Error)
	assert.Equal(t, domain.PaymentStatusPaid, untouched.Status)
}

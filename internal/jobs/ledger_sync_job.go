package jobs

import (
	"context"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/erp"
	"go.uber.org/zap"
)

// LedgerSyncJobName is the name of the vendor ledger reconciliation job
const LedgerSyncJobName = "ledger_sync"

// SupplierLookup resolves suppliers by VAT number for reconciliation.
type SupplierLookup interface {
	GetByVATNumber(ctx context.Context, vatNumber string) (*domain.Supplier, error)
}

// LedgerSyncJob reconciles the supplier registry against the accounting
// system's open vendor items. Vendors with open balances that have no
// matching supplier record are logged for follow-up, as are suppliers
// carrying overdue items.
type LedgerSyncJob struct {
	ledger    *erp.Client
	suppliers SupplierLookup
	logger    *zap.Logger
	timeout   time.Duration
}

// NewLedgerSyncJob creates a new ledger reconciliation job.
func NewLedgerSyncJob(ledger *erp.Client, suppliers SupplierLookup, logger *zap.Logger, timeout time.Duration) *LedgerSyncJob {
	return &LedgerSyncJob{
		ledger:    ledger,
		suppliers: suppliers,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run executes the reconciliation. Called by the scheduler.
func (j *LedgerSyncJob) Run() {
	if !j.ledger.IsEnabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	balances, err := j.ledger.VendorBalances(ctx)
	if err != nil {
		j.logger.Error("ledger sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	var matched, unmatched, overdue int
	for _, balance := range balances {
		supplier, err := j.suppliers.GetByVATNumber(ctx, balance.VATNumber)
		if err != nil {
			j.logger.Error("supplier lookup failed during ledger sync",
				zap.String("vatNumber", balance.VATNumber),
				zap.Error(err))
			continue
		}
		if supplier == nil {
			unmatched++
			j.logger.Warn("ledger vendor has no supplier record",
				zap.String("vatNumber", balance.VATNumber),
				zap.String("vendorName", balance.VendorName),
				zap.Float64("openBalance", balance.OpenBalance))
			continue
		}
		matched++
		if balance.OverdueItems > 0 {
			overdue++
			j.logger.Warn("supplier has overdue ledger items",
				zap.Uint("supplierId", supplier.ID),
				zap.String("vatNumber", balance.VATNumber),
				zap.Int("overdueItems", balance.OverdueItems),
				zap.Float64("openBalance", balance.OpenBalance))
		}
	}

	j.logger.Info("ledger sync completed",
		zap.Int("vendors", len(balances)),
		zap.Int("matched", matched),
		zap.Int("unmatched", unmatched),
		zap.Int("with_overdue", overdue),
		zap.Duration("duration", time.Since(start)))
}

// RegisterLedgerSyncJob registers the reconciliation job when the ledger
// connection is enabled.
func RegisterLedgerSyncJob(scheduler *Scheduler, ledger *erp.Client, suppliers SupplierLookup, logger *zap.Logger, cronExpr string) error {
	if !ledger.IsEnabled() {
		logger.Info("ledger disabled, skipping ledger sync job")
		return nil
	}
	job := NewLedgerSyncJob(ledger, suppliers, logger, DefaultJobTimeout)
	return scheduler.AddJob(LedgerSyncJobName, cronExpr, job.Run)
}

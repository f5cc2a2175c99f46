// Package erp provides read-only connectivity to the accounting system's
// MS SQL Server ledger. It is used to look up vendor balances and open
// items for suppliers in the registry.
package erp

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"github.com/norvik-group/facility-api/internal/config"
	"go.uber.org/zap"
)

const (
	maxConnectRetries  = 3
	initialBackoff     = 1 * time.Second
	maxBackoff         = 10 * time.Second
	backoffFactor      = 2.0
	healthCheckTimeout = 5 * time.Second
)

// Client provides read-only access to the accounting ledger. A nil client is
// safe to call; every method reports the ledger as disabled.
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// VendorBalance is one vendor's standing in the accounting ledger
type VendorBalance struct {
	VATNumber    string    `json:"vatNumber"`
	VendorName   string    `json:"vendorName"`
	OpenBalance  float64   `json:"openBalance"`
	OverdueItems int       `json:"overdueItems"`
	LastInvoice  time.Time `json:"lastInvoice"`
}

// HealthStatus reports the ledger connection state and pool statistics
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
	WaitCount  int64         `json:"wait_count"`
	WaitTimeMs int64         `json:"wait_time_ms"`
}

// NewClient connects to the accounting ledger. Returns nil without error
// when the ledger integration is disabled or not fully configured, so the
// rest of the application runs without it.
func NewClient(cfg *config.LedgerConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("accounting ledger connection disabled")
		return nil, nil
	}
	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("accounting ledger enabled but credentials are incomplete, skipping connection")
		return nil, nil
	}

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := initialBackoff
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

			pingCtx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				logger.Info("accounting ledger connection established",
					zap.Int("attempts", attempt))
				return &Client{
					db:           db,
					logger:       logger,
					queryTimeout: cfg.QueryTimeoutDuration(),
				}, nil
			}
			_ = db.Close()
		}

		logger.Warn("accounting ledger connection attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt))
		if attempt < maxConnectRetries {
			time.Sleep(backoff)
			backoff = time.Duration(float64(backoff) * backoffFactor)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to accounting ledger after %d attempts: %w", maxConnectRetries, err)
}

// buildConnectionString constructs a SQL Server connection string.
// URL format: host:port/database or host:port.
func buildConnectionString(cfg *config.LedgerConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433"
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

// IsEnabled reports whether the client holds a live connection
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// Close shuts down the ledger connection pool
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	c.logger.Info("closing accounting ledger connection")
	return c.db.Close()
}

// HealthCheck pings the ledger and reports pool statistics
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if !c.IsEnabled() {
		return &HealthStatus{Status: "disabled"}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()
	}

	start := time.Now()
	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency:    latency,
		Open:       stats.OpenConnections,
		InUse:      stats.InUse,
		Idle:       stats.Idle,
		WaitCount:  stats.WaitCount,
		WaitTimeMs: stats.WaitDuration.Milliseconds(),
	}
	if err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}
	return status
}

// VendorBalanceByVAT looks up a vendor's open balance in the ledger by VAT
// number. Returns nil when the vendor has no ledger entry.
func (c *Client) VendorBalanceByVAT(ctx context.Context, vatNumber string) (*VendorBalance, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("accounting ledger client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	const query = `
		SELECT vat_number, vendor_name,
		       COALESCE(SUM(open_amount), 0) AS open_balance,
		       SUM(CASE WHEN due_date < GETUTCDATE() AND open_amount > 0 THEN 1 ELSE 0 END) AS overdue_items,
		       MAX(invoice_date) AS last_invoice
		FROM dbo.vendor_open_items
		WHERE vat_number = @p1
		GROUP BY vat_number, vendor_name`

	start := time.Now()
	row := c.db.QueryRowContext(ctx, query, vatNumber)

	var balance VendorBalance
	err := row.Scan(&balance.VATNumber, &balance.VendorName, &balance.OpenBalance,
		&balance.OverdueItems, &balance.LastInvoice)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		c.logger.Error("vendor balance query failed",
			zap.String("vatNumber", vatNumber),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("vendor balance query failed: %w", err)
	}

	c.logger.Debug("vendor balance query completed",
		zap.String("vatNumber", vatNumber),
		zap.Duration("duration", time.Since(start)))
	return &balance, nil
}

// VendorBalances streams the open balance for every vendor in the ledger.
// Used by the scheduled sync to reconcile the supplier registry.
func (c *Client) VendorBalances(ctx context.Context) ([]VendorBalance, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("accounting ledger client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	const query = `
		SELECT vat_number, vendor_name,
		       COALESCE(SUM(open_amount), 0) AS open_balance,
		       SUM(CASE WHEN due_date < GETUTCDATE() AND open_amount > 0 THEN 1 ELSE 0 END) AS overdue_items,
		       MAX(invoice_date) AS last_invoice
		FROM dbo.vendor_open_items
		GROUP BY vat_number, vendor_name`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vendor balances query failed: %w", err)
	}
	defer rows.Close()

	var balances []VendorBalance
	for rows.Next() {
		var b VendorBalance
		if err := rows.Scan(&b.VATNumber, &b.VendorName, &b.OpenBalance, &b.OverdueItems, &b.LastInvoice); err != nil {
			return nil, fmt.Errorf("failed to scan vendor balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor balances: %w", err)
	}
	return balances, nil
}

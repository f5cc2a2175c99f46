package domain

import "time"

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse wraps a list payload with pagination metadata.
type PageResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data"`
	Total       int64       `json:"total"`
	CurrentPage int         `json:"currentPage"`
	PerPage     int         `json:"perPage"`
	TotalPages  int         `json:"totalPages"`
}

// ListQuery carries the common list parameters parsed from the query string.
type ListQuery struct {
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
	Search  string `json:"search"`
	SortBy  string `json:"sortBy"`
	SortDir string `json:"sortDir"`
}

// --- Accommodations ---

type CreateAccommodationRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Address     string  `json:"address" validate:"required,max=500"`
	City        string  `json:"city" validate:"omitempty,max=100"`
	PostalCode  string  `json:"postalCode" validate:"omitempty,max=20"`
	Country     string  `json:"country" validate:"omitempty,max=100"`
	Type        string  `json:"type" validate:"omitempty,oneof=apartment house room barracks"`
	Status      string  `json:"status" validate:"omitempty,oneof=available occupied maintenance retired"`
	Capacity    int     `json:"capacity" validate:"omitempty,min=1"`
	MonthlyRent float64 `json:"monthlyRent" validate:"omitempty,min=0"`
	ClientID    *uint   `json:"clientId" validate:"omitempty,min=1"`
	Notes       string  `json:"notes"`
}

type UpdateAccommodationRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	City        *string  `json:"city" validate:"omitempty,max=100"`
	PostalCode  *string  `json:"postalCode" validate:"omitempty,max=20"`
	Country     *string  `json:"country" validate:"omitempty,max=100"`
	Type        *string  `json:"type" validate:"omitempty,oneof=apartment house room barracks"`
	Status      *string  `json:"status" validate:"omitempty,oneof=available occupied maintenance retired"`
	Capacity    *int     `json:"capacity" validate:"omitempty,min=1"`
	MonthlyRent *float64 `json:"monthlyRent" validate:"omitempty,min=0"`
	ClientID    *uint    `json:"clientId" validate:"omitempty,min=1"`
	Notes       *string  `json:"notes"`
}

// --- Payments ---

type CreatePaymentRequest struct {
	BillNumber string  `json:"billNumber" validate:"required,max=100"`
	SupplierID *uint   `json:"supplierId" validate:"omitempty,min=1"`
	ClientID   *uint   `json:"clientId" validate:"omitempty,min=1"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Currency   string  `json:"currency" validate:"omitempty,len=3"`
	Category   string  `json:"category" validate:"omitempty,max=100"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending paid overdue voided"`
	DueDate    string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Notes      string  `json:"notes"`
}

type UpdatePaymentRequest struct {
	BillNumber *string  `json:"billNumber" validate:"omitempty,max=100"`
	SupplierID *uint    `json:"supplierId" validate:"omitempty,min=1"`
	ClientID   *uint    `json:"clientId" validate:"omitempty,min=1"`
	Amount     *float64 `json:"amount" validate:"omitempty,gt=0"`
	Currency   *string  `json:"currency" validate:"omitempty,len=3"`
	Category   *string  `json:"category" validate:"omitempty,max=100"`
	Status     *string  `json:"status" validate:"omitempty,oneof=pending paid overdue voided"`
	DueDate    *string  `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	PaidDate   *string  `json:"paidDate" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string  `json:"notes"`
}

// --- Suppliers ---

type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	VATNumber     string `json:"vatNumber" validate:"required,max=30"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Address       string `json:"address" validate:"omitempty,max=500"`
	City          string `json:"city" validate:"omitempty,max=100"`
	PostalCode    string `json:"postalCode" validate:"omitempty,max=20"`
	Country       string `json:"country" validate:"omitempty,max=100"`
	ContactPerson string `json:"contactPerson" validate:"omitempty,max=200"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive blacklisted"`
	PaymentTerms  string `json:"paymentTerms" validate:"omitempty,max=100"`
	Notes         string `json:"notes"`
	TypeIDs       []uint `json:"typeIds" validate:"omitempty,dive,min=1"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=200"`
	VATNumber     *string `json:"vatNumber" validate:"omitempty,max=30"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	PostalCode    *string `json:"postalCode" validate:"omitempty,max=20"`
	Country       *string `json:"country" validate:"omitempty,max=100"`
	ContactPerson *string `json:"contactPerson" validate:"omitempty,max=200"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive blacklisted"`
	PaymentTerms  *string `json:"paymentTerms" validate:"omitempty,max=100"`
	Notes         *string `json:"notes"`
	TypeIDs       *[]uint `json:"typeIds" validate:"omitempty,dive,min=1"`
}

type CreateSupplierTypeRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// --- Clients ---

type CreateClientRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	OrgNumber     string `json:"orgNumber" validate:"required,max=20"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Address       string `json:"address" validate:"omitempty,max=500"`
	City          string `json:"city" validate:"omitempty,max=100"`
	ContactPerson string `json:"contactPerson" validate:"omitempty,max=200"`
}

type UpdateClientRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=200"`
	OrgNumber     *string `json:"orgNumber" validate:"omitempty,max=20"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	ContactPerson *string `json:"contactPerson" validate:"omitempty,max=200"`
	IsActive      *bool   `json:"isActive"`
}

// --- Pricing rules ---

type CreatePricingRuleRequest struct {
	ClientID        uint     `json:"clientId" validate:"required,min=1"`
	ServiceCategory string   `json:"serviceCategory" validate:"required,max=100"`
	RuleType        string   `json:"ruleType" validate:"required,oneof=discount markup"`
	PercentageValue float64  `json:"percentageValue" validate:"min=0,max=100"`
	AppliesTo       []string `json:"appliesTo" validate:"required,min=1,dive,oneof=service addon material"`
}

type UpdatePricingRuleRequest struct {
	ServiceCategory *string   `json:"serviceCategory" validate:"omitempty,max=100"`
	RuleType        *string   `json:"ruleType" validate:"omitempty,oneof=discount markup"`
	PercentageValue *float64  `json:"percentageValue" validate:"omitempty,min=0,max=100"`
	AppliesTo       *[]string `json:"appliesTo" validate:"omitempty,min=1,dive,oneof=service addon material"`
	IsActive        *bool     `json:"isActive"`
}

// --- Assets ---

type CreateAssetRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=200"`
	SerialNumber    string   `json:"serialNumber" validate:"omitempty,max=100"`
	Category        string   `json:"category" validate:"omitempty,max=100"`
	AccommodationID *uint    `json:"accommodationId" validate:"omitempty,min=1"`
	PurchaseDate    string   `json:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
	WarrantyUntil   string   `json:"warrantyUntil" validate:"omitempty,datetime=2006-01-02"`
	Status          string   `json:"status" validate:"omitempty,oneof=operational in_repair retired"`
	Tags            []string `json:"tags"`
	Notes           string   `json:"notes"`
}

type UpdateAssetRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=2,max=200"`
	SerialNumber    *string   `json:"serialNumber" validate:"omitempty,max=100"`
	Category        *string   `json:"category" validate:"omitempty,max=100"`
	AccommodationID *uint     `json:"accommodationId" validate:"omitempty,min=1"`
	PurchaseDate    *string   `json:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
	WarrantyUntil   *string   `json:"warrantyUntil" validate:"omitempty,datetime=2006-01-02"`
	Status          *string   `json:"status" validate:"omitempty,oneof=operational in_repair retired"`
	Tags            *[]string `json:"tags"`
	Notes           *string   `json:"notes"`
}

// --- Professions ---

type UpsertProfessionRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	HourlyRate  float64 `json:"hourlyRate" validate:"min=0"`
}

// --- Work orders ---

type CreateWorkOrderRequest struct {
	Title           string `json:"title" validate:"required,min=2,max=200"`
	Description     string `json:"description"`
	ClientID        uint   `json:"clientId" validate:"required,min=1"`
	AccommodationID *uint  `json:"accommodationId" validate:"omitempty,min=1"`
	IsDiagnostic    bool   `json:"isDiagnostic"`
	Priority        int    `json:"priority" validate:"omitempty,min=1,max=5"`
	ScheduledAt     string `json:"scheduledAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	AssignedTo      *uint  `json:"assignedTo" validate:"omitempty,min=1"`
}

type UpdateWorkOrderRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=2,max=200"`
	Description     *string `json:"description"`
	AccommodationID *uint   `json:"accommodationId" validate:"omitempty,min=1"`
	IsDiagnostic    *bool   `json:"isDiagnostic"`
	Priority        *int    `json:"priority" validate:"omitempty,min=1,max=5"`
	Status          *string `json:"status" validate:"omitempty,oneof=requested diagnosed in_progress completed rejected rework warranty"`
	ScheduledAt     *string `json:"scheduledAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	AssignedTo      *uint   `json:"assignedTo" validate:"omitempty,min=1"`
}

type CreateWorkOrderServiceRequest struct {
	ServiceCategory string  `json:"serviceCategory" validate:"required,max=100"`
	Description     string  `json:"description" validate:"omitempty,max=500"`
	Price           float64 `json:"price" validate:"min=0"`
}

type CreateWorkOrderPartRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	ServiceCategory string  `json:"serviceCategory" validate:"omitempty,max=100"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"min=0"`
}

type CreateWorkOrderAddonRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	ServiceCategory string  `json:"serviceCategory" validate:"omitempty,max=100"`
	Price           float64 `json:"price" validate:"min=0"`
}

type ApproveLineItemRequest struct {
	Approved bool `json:"approved"`
}

// IssueTokenRequest exchanges a verified user email for a bearer token
type IssueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// --- Users, roles and permissions ---

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=200"`
	RoleID      uint   `json:"roleId" validate:"required,min=1"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	DisplayName *string `json:"displayName" validate:"omitempty,min=2,max=200"`
	RoleID      *uint   `json:"roleId" validate:"omitempty,min=1"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"isActive"`
}

type CreateRoleRequest struct {
	Name        string                  `json:"name" validate:"required,min=2,max=100"`
	Description string                  `json:"description" validate:"omitempty,max=500"`
	Permissions []RolePermissionRequest `json:"permissions" validate:"omitempty,dive"`
}

type UpdateRoleRequest struct {
	Name        *string                  `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string                  `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool                    `json:"isActive"`
	Permissions *[]RolePermissionRequest `json:"permissions" validate:"omitempty,dive"`
}

type RolePermissionRequest struct {
	Module     string `json:"module" validate:"required,max=50"`
	CanView    bool   `json:"canView"`
	CanCreate  bool   `json:"canCreate"`
	CanEdit    bool   `json:"canEdit"`
	CanDelete  bool   `json:"canDelete"`
	CanViewAll bool   `json:"canViewAll"`
}

// --- Dashboard ---

// DashboardSummary aggregates headline numbers across the modules.
type DashboardSummary struct {
	OpenWorkOrders      int64   `json:"openWorkOrders"`
	BreachedWorkOrders  int64   `json:"breachedWorkOrders"`
	CompletedThisMonth  int64   `json:"completedThisMonth"`
	PendingPayments     int64   `json:"pendingPayments"`
	OverduePayments     int64   `json:"overduePayments"`
	PendingAmount       float64 `json:"pendingAmount"`
	ActiveSuppliers     int64   `json:"activeSuppliers"`
	ActiveClients       int64   `json:"activeClients"`
	OccupiedUnits       int64   `json:"occupiedUnits"`
	AvailableUnits      int64   `json:"availableUnits"`
	TotalWorkOrderValue float64 `json:"totalWorkOrderValue"`
}

// WorkOrderStatusCount is one row of the status breakdown aggregate.
type WorkOrderStatusCount struct {
	Status WorkOrderStatus `json:"status"`
	Count  int64           `json:"count"`
}

// FileUploadResult describes a stored attachment returned to the caller.
type FileUploadResult struct {
	ID          uint      `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storagePath"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

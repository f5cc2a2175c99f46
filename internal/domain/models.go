package domain

import (
	"time"

	"gorm.io/datatypes"
)

// BaseModel holds the identity and timestamp columns shared by every table.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// OwnedModel extends BaseModel with the audit columns used by the ownership
// filter. Every mutating write must set UpdatedBy to the acting user.
type OwnedModel struct {
	BaseModel
	CreatedBy uint `gorm:"not null;index;column:created_by" json:"createdBy"`
	UpdatedBy uint `gorm:"not null;index;column:updated_by" json:"updatedBy"`
}

// Module identifies a back-office module for permission resolution.
type Module string

const (
	ModuleAccommodations Module = "accommodations"
	ModulePayments       Module = "payments"
	ModuleSuppliers      Module = "suppliers"
	ModuleClients        Module = "clients"
	ModulePricingRules   Module = "pricing_rules"
	ModuleAssets         Module = "assets"
	ModuleProfessions    Module = "professions"
	ModuleWorkOrders     Module = "work_orders"
	ModuleUsers          Module = "users"
	ModuleFiles          Module = "files"
	ModuleDashboard      Module = "dashboard"
)

// IsValid checks if the Module is a valid enum value
func (m Module) IsValid() bool {
	switch m {
	case ModuleAccommodations, ModulePayments, ModuleSuppliers, ModuleClients,
		ModulePricingRules, ModuleAssets, ModuleProfessions, ModuleWorkOrders,
		ModuleUsers, ModuleFiles, ModuleDashboard:
		return true
	}
	return false
}

// Capability is a single action a role may perform within a module.
type Capability string

const (
	CapabilityView    Capability = "view"
	CapabilityCreate  Capability = "create"
	CapabilityEdit    Capability = "edit"
	CapabilityDelete  Capability = "delete"
	CapabilityViewAll Capability = "view_all"
)

// IsValid checks if the Capability is a valid enum value
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityView, CapabilityCreate, CapabilityEdit, CapabilityDelete, CapabilityViewAll:
		return true
	}
	return false
}

// Role groups users under a named permission set
type Role struct {
	BaseModel
	Name        string           `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string           `gorm:"type:varchar(500)" json:"description,omitempty"`
	IsActive    bool             `gorm:"not null;default:true;column:is_active" json:"isActive"`
	Permissions []RolePermission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

// RolePermission is one (role, module) capability row. CanViewAll exempts the
// role from ownership filtering for the module; it is distinct from CanView.
type RolePermission struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID     uint   `gorm:"not null;uniqueIndex:idx_role_module;column:role_id" json:"roleId"`
	Module     Module `gorm:"type:varchar(50);not null;uniqueIndex:idx_role_module" json:"module"`
	CanView    bool   `gorm:"not null;default:false;column:can_view" json:"canView"`
	CanCreate  bool   `gorm:"not null;default:false;column:can_create" json:"canCreate"`
	CanEdit    bool   `gorm:"not null;default:false;column:can_edit" json:"canEdit"`
	CanDelete  bool   `gorm:"not null;default:false;column:can_delete" json:"canDelete"`
	CanViewAll bool   `gorm:"not null;default:false;column:can_view_all" json:"canViewAll"`
}

// Allows reports whether the row grants the given capability.
func (p *RolePermission) Allows(capability Capability) bool {
	switch capability {
	case CapabilityView:
		return p.CanView
	case CapabilityCreate:
		return p.CanCreate
	case CapabilityEdit:
		return p.CanEdit
	case CapabilityDelete:
		return p.CanDelete
	case CapabilityViewAll:
		return p.CanViewAll
	}
	return false
}

// User represents a back-office user
type User struct {
	BaseModel
	Email       string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	DisplayName string     `gorm:"type:varchar(200);not null;column:display_name" json:"displayName"`
	RoleID      uint       `gorm:"not null;index;column:role_id" json:"roleId"`
	Role        *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Phone       string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
}

// AccommodationType classifies a housing record
type AccommodationType string

const (
	AccommodationTypeApartment AccommodationType = "apartment"
	AccommodationTypeHouse     AccommodationType = "house"
	AccommodationTypeRoom      AccommodationType = "room"
	AccommodationTypeBarracks  AccommodationType = "barracks"
)

// AccommodationStatus represents the occupancy state of a housing record
type AccommodationStatus string

const (
	AccommodationStatusAvailable   AccommodationStatus = "available"
	AccommodationStatusOccupied    AccommodationStatus = "occupied"
	AccommodationStatusMaintenance AccommodationStatus = "maintenance"
	AccommodationStatusRetired     AccommodationStatus = "retired"
)

// Accommodation represents a housing record managed for a client
type Accommodation struct {
	OwnedModel
	Name        string              `gorm:"type:varchar(200);not null;index" json:"name"`
	Address     string              `gorm:"type:varchar(500);not null" json:"address"`
	City        string              `gorm:"type:varchar(100)" json:"city,omitempty"`
	PostalCode  string              `gorm:"type:varchar(20);column:postal_code" json:"postalCode,omitempty"`
	Country     string              `gorm:"type:varchar(100);not null;default:'Norway'" json:"country"`
	Type        AccommodationType   `gorm:"type:varchar(50);not null;default:'apartment';index" json:"type"`
	Status      AccommodationStatus `gorm:"type:varchar(50);not null;default:'available';index" json:"status"`
	Capacity    int                 `gorm:"not null;default:1" json:"capacity"`
	MonthlyRent float64             `gorm:"type:decimal(15,2);not null;default:0;column:monthly_rent" json:"monthlyRent"`
	ClientID    *uint               `gorm:"index;column:client_id" json:"clientId,omitempty"`
	Client      *Client             `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Notes       string              `gorm:"type:text" json:"notes,omitempty"`
	Attachments []FileAttachment    `gorm:"-" json:"attachments,omitempty"`
}

// PaymentStatus represents the state of a tracked bill
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
	PaymentStatusVoided  PaymentStatus = "voided"
)

// Payment represents a bill tracked against a supplier or client
type Payment struct {
	OwnedModel
	BillNumber string        `gorm:"type:varchar(100);not null;index;column:bill_number" json:"billNumber"`
	SupplierID *uint         `gorm:"index;column:supplier_id" json:"supplierId,omitempty"`
	Supplier   *Supplier     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ClientID   *uint         `gorm:"index;column:client_id" json:"clientId,omitempty"`
	Client     *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Amount     float64       `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency   string        `gorm:"type:varchar(3);not null;default:'NOK'" json:"currency"`
	Category   string        `gorm:"type:varchar(100)" json:"category,omitempty"`
	Status     PaymentStatus `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	DueDate    time.Time     `gorm:"type:date;not null;index;column:due_date" json:"dueDate"`
	PaidDate   *time.Time    `gorm:"type:date;column:paid_date" json:"paidDate,omitempty"`
	Notes      string        `gorm:"type:text" json:"notes,omitempty"`
}

// SupplierStatus represents the state of a vendor
type SupplierStatus string

const (
	SupplierStatusActive      SupplierStatus = "active"
	SupplierStatusInactive    SupplierStatus = "inactive"
	SupplierStatusBlacklisted SupplierStatus = "blacklisted"
)

// SupplierType is a vendor classification (plumbing, electrical, cleaning...)
type SupplierType struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:varchar(500)" json:"description,omitempty"`
}

// Supplier represents a vendor in the registry
type Supplier struct {
	OwnedModel
	Name          string         `gorm:"type:varchar(200);not null;index" json:"name"`
	VATNumber     string         `gorm:"type:varchar(30);uniqueIndex;column:vat_number" json:"vatNumber"`
	Email         string         `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone         string         `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address       string         `gorm:"type:varchar(500)" json:"address,omitempty"`
	City          string         `gorm:"type:varchar(100)" json:"city,omitempty"`
	PostalCode    string         `gorm:"type:varchar(20);column:postal_code" json:"postalCode,omitempty"`
	Country       string         `gorm:"type:varchar(100);not null;default:'Norway'" json:"country"`
	ContactPerson string         `gorm:"type:varchar(200);column:contact_person" json:"contactPerson,omitempty"`
	Status        SupplierStatus `gorm:"type:varchar(50);not null;default:'active';index" json:"status"`
	PaymentTerms  string         `gorm:"type:varchar(100);column:payment_terms" json:"paymentTerms,omitempty"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	Types         []SupplierType `gorm:"many2many:supplier_type_links" json:"types,omitempty"`
}

// Client represents an organization the back office performs work for
type Client struct {
	OwnedModel
	Name          string        `gorm:"type:varchar(200);not null;index" json:"name"`
	OrgNumber     string        `gorm:"type:varchar(20);uniqueIndex;column:org_number" json:"orgNumber"`
	Email         string        `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone         string        `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address       string        `gorm:"type:varchar(500)" json:"address,omitempty"`
	City          string        `gorm:"type:varchar(100)" json:"city,omitempty"`
	ContactPerson string        `gorm:"type:varchar(200);column:contact_person" json:"contactPerson,omitempty"`
	IsActive      bool          `gorm:"not null;default:true;column:is_active" json:"isActive"`
	PricingRules  []PricingRule `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"pricingRules,omitempty"`
}

// PricingRuleType distinguishes a discount from a markup
type PricingRuleType string

const (
	PricingRuleDiscount PricingRuleType = "discount"
	PricingRuleMarkup   PricingRuleType = "markup"
)

// Line-item kinds a pricing rule can apply to.
const (
	LineItemKindService  = "service"
	LineItemKindAddon    = "addon"
	LineItemKindMaterial = "material"
)

// PricingRule is a per-client percentage adjustment for a service category,
// applied to the line-item kinds listed in AppliesTo.
type PricingRule struct {
	OwnedModel
	ClientID        uint                        `gorm:"not null;index;column:client_id" json:"clientId"`
	Client          *Client                     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ServiceCategory string                      `gorm:"type:varchar(100);not null;index;column:service_category" json:"serviceCategory"`
	RuleType        PricingRuleType             `gorm:"type:varchar(20);not null;column:rule_type" json:"ruleType"`
	PercentageValue float64                     `gorm:"type:decimal(5,2);not null;column:percentage_value" json:"percentageValue"`
	AppliesTo       datatypes.JSONSlice[string] `gorm:"column:applies_to" json:"appliesTo"`
	IsActive        bool                        `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// AppliesToKind reports whether the rule covers the given line-item kind.
func (r *PricingRule) AppliesToKind(kind string) bool {
	for _, k := range r.AppliesTo {
		if k == kind {
			return true
		}
	}
	return false
}

// Adjust applies the rule's percentage to a base amount. Discounts subtract,
// markups add.
func (r *PricingRule) Adjust(base float64) float64 {
	factor := r.PercentageValue / 100
	if r.RuleType == PricingRuleDiscount {
		return base * (1 - factor)
	}
	return base * (1 + factor)
}

// AssetStatus represents the operational state of a piece of equipment
type AssetStatus string

const (
	AssetStatusOperational AssetStatus = "operational"
	AssetStatusInRepair    AssetStatus = "in_repair"
	AssetStatusRetired     AssetStatus = "retired"
)

// Asset represents equipment registered against an accommodation
type Asset struct {
	OwnedModel
	Name            string                      `gorm:"type:varchar(200);not null;index" json:"name"`
	SerialNumber    string                      `gorm:"type:varchar(100);uniqueIndex;column:serial_number" json:"serialNumber"`
	Category        string                      `gorm:"type:varchar(100);index" json:"category,omitempty"`
	AccommodationID *uint                       `gorm:"index;column:accommodation_id" json:"accommodationId,omitempty"`
	Accommodation   *Accommodation              `gorm:"foreignKey:AccommodationID" json:"accommodation,omitempty"`
	PurchaseDate    *time.Time                  `gorm:"type:date;column:purchase_date" json:"purchaseDate,omitempty"`
	WarrantyUntil   *time.Time                  `gorm:"type:date;column:warranty_until" json:"warrantyUntil,omitempty"`
	Status          AssetStatus                 `gorm:"type:varchar(50);not null;default:'operational';index" json:"status"`
	Tags            datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags,omitempty"`
	Notes           string                      `gorm:"type:text" json:"notes,omitempty"`
}

// Profession is a trade registry entry keyed by its name.
type Profession struct {
	Name        string    `gorm:"type:varchar(100);primaryKey" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description,omitempty"`
	HourlyRate  float64   `gorm:"type:decimal(10,2);not null;default:0;column:hourly_rate" json:"hourlyRate"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// WorkOrderStatus represents the lifecycle state of a maintenance ticket
type WorkOrderStatus string

const (
	WorkOrderStatusRequested  WorkOrderStatus = "requested"
	WorkOrderStatusDiagnosed  WorkOrderStatus = "diagnosed"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusRejected   WorkOrderStatus = "rejected"
	WorkOrderStatusRework     WorkOrderStatus = "rework"
	WorkOrderStatusWarranty   WorkOrderStatus = "warranty"
)

// IsValid checks if the WorkOrderStatus is a valid enum value
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusRequested, WorkOrderStatusDiagnosed, WorkOrderStatusInProgress,
		WorkOrderStatusCompleted, WorkOrderStatusRejected, WorkOrderStatusRework,
		WorkOrderStatusWarranty:
		return true
	}
	return false
}

// WorkOrderPriority tiers: 1 is most urgent, 5 is routine.
type WorkOrderPriority int

const (
	PriorityCritical WorkOrderPriority = 1
	PriorityHigh     WorkOrderPriority = 2
	PriorityMedium   WorkOrderPriority = 3
	PriorityLow      WorkOrderPriority = 4
	PriorityRoutine  WorkOrderPriority = 5
)

// slaHoursByPriority maps a priority tier to its SLA window.
var slaHoursByPriority = map[WorkOrderPriority]int{
	PriorityCritical: 4,
	PriorityHigh:     8,
	PriorityMedium:   24,
	PriorityLow:      48,
	PriorityRoutine:  72,
}

// SLAHours returns the SLA window in hours for the priority tier. Unknown
// tiers fall back to the routine window.
func (p WorkOrderPriority) SLAHours() int {
	if h, ok := slaHoursByPriority[p]; ok {
		return h
	}
	return slaHoursByPriority[PriorityRoutine]
}

// IsValid checks if the priority is within the supported tiers
func (p WorkOrderPriority) IsValid() bool {
	return p >= PriorityCritical && p <= PriorityRoutine
}

// WorkOrder represents a maintenance ticket from intake through completion
type WorkOrder struct {
	OwnedModel
	Title              string             `gorm:"type:varchar(200);not null;index" json:"title"`
	Description        string             `gorm:"type:text" json:"description,omitempty"`
	ClientID           uint               `gorm:"not null;index;column:client_id" json:"clientId"`
	Client             *Client            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	AccommodationID    *uint              `gorm:"index;column:accommodation_id" json:"accommodationId,omitempty"`
	Accommodation      *Accommodation     `gorm:"foreignKey:AccommodationID" json:"accommodation,omitempty"`
	IsDiagnostic       bool               `gorm:"not null;default:false;column:is_diagnostic" json:"isDiagnostic"`
	Priority           WorkOrderPriority  `gorm:"not null;default:3" json:"priority"`
	Status             WorkOrderStatus    `gorm:"type:varchar(50);not null;default:'requested';index" json:"status"`
	ScheduledAt        *time.Time         `gorm:"column:scheduled_at" json:"scheduledAt,omitempty"`
	SLADueAt           time.Time          `gorm:"not null;index;column:sla_due_at" json:"slaDueAt"`
	SLABreached        bool               `gorm:"not null;default:false;column:sla_breached" json:"slaBreached"`
	AssignedTo         *uint              `gorm:"index;column:assigned_to" json:"assignedTo,omitempty"`
	Technician         *User              `gorm:"foreignKey:AssignedTo" json:"technician,omitempty"`
	ReopenedAsWarranty bool               `gorm:"not null;default:false;column:reopened_as_warranty" json:"reopenedAsWarranty"`
	CompletedAt        *time.Time         `gorm:"column:completed_at" json:"completedAt,omitempty"`
	WorkOrderValue     float64            `gorm:"type:decimal(15,2);not null;default:0;column:work_order_value" json:"workOrderValue"`
	Services           []WorkOrderService `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
	Parts              []WorkOrderPart    `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE" json:"parts,omitempty"`
	Addons             []WorkOrderAddon   `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE" json:"addons,omitempty"`
}

// ClientApproval holds the per-line-item approval columns shared by work
// order services, parts and addons.
type ClientApproval struct {
	ApprovedByClient bool       `gorm:"not null;default:false;column:approved_by_client" json:"approvedByClient"`
	ApprovedByUserID *uint      `gorm:"column:approved_by_userid" json:"approvedByUserId,omitempty"`
	ApprovedDate     *time.Time `gorm:"column:approved_date" json:"approvedDate,omitempty"`
}

// WorkOrderService is a priced service line under a work order
type WorkOrderService struct {
	BaseModel
	WorkOrderID     uint    `gorm:"not null;index;column:work_order_id" json:"workOrderId"`
	ServiceCategory string  `gorm:"type:varchar(100);not null;column:service_category" json:"serviceCategory"`
	Description     string  `gorm:"type:varchar(500)" json:"description,omitempty"`
	Price           float64 `gorm:"type:decimal(15,2);not null;default:0" json:"price"`
	ClientApproval
}

// WorkOrderPart is a material line: quantity x unit price = total price.
type WorkOrderPart struct {
	BaseModel
	WorkOrderID     uint    `gorm:"not null;index;column:work_order_id" json:"workOrderId"`
	Name            string  `gorm:"type:varchar(200);not null" json:"name"`
	ServiceCategory string  `gorm:"type:varchar(100);column:service_category" json:"serviceCategory,omitempty"`
	Quantity        float64 `gorm:"type:decimal(10,2);not null;default:1" json:"quantity"`
	UnitPrice       float64 `gorm:"type:decimal(15,2);not null;default:0;column:unit_price" json:"unitPrice"`
	TotalPrice      float64 `gorm:"type:decimal(15,2);not null;default:0;column:total_price" json:"totalPrice"`
	ClientApproval
}

// WorkOrderAddon is an extra priced item under a work order
type WorkOrderAddon struct {
	BaseModel
	WorkOrderID     uint    `gorm:"not null;index;column:work_order_id" json:"workOrderId"`
	Name            string  `gorm:"type:varchar(200);not null" json:"name"`
	ServiceCategory string  `gorm:"type:varchar(100);column:service_category" json:"serviceCategory,omitempty"`
	Price           float64 `gorm:"type:decimal(15,2);not null;default:0" json:"price"`
	ClientApproval
}

// FileAttachment records an uploaded file stored against a module record
type FileAttachment struct {
	OwnedModel
	RecordType  string `gorm:"type:varchar(50);not null;index:idx_file_record;column:record_type" json:"recordType"`
	RecordID    uint   `gorm:"not null;index:idx_file_record;column:record_id" json:"recordId"`
	Field       string `gorm:"type:varchar(100);not null" json:"field"`
	Filename    string `gorm:"type:varchar(255);not null" json:"filename"`
	ContentType string `gorm:"type:varchar(100);not null;column:content_type" json:"contentType"`
	Size        int64  `gorm:"not null" json:"size"`
	StoragePath string `gorm:"type:varchar(500);not null;unique;column:storage_path" json:"storagePath"`
}

package service

import "errors"

// Common service errors
var (
	// ErrUnauthorized is returned when no authenticated user is on the context
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccommodationNotFound is returned when an accommodation is not found
	ErrAccommodationNotFound = errors.New("accommodation not found")

	// ErrPaymentNotFound is returned when a payment is not found
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrSupplierNotFound is returned when a supplier is not found
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrSupplierTypeNotFound is returned when a supplier type is not found
	ErrSupplierTypeNotFound = errors.New("supplier type not found")

	// ErrDuplicateVATNumber is returned when another supplier holds the VAT number
	ErrDuplicateVATNumber = errors.New("vat number already registered")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")

	// ErrDuplicateOrgNumber is returned when another client holds the org number
	ErrDuplicateOrgNumber = errors.New("organization number already registered")

	// ErrPricingRuleNotFound is returned when a pricing rule is not found
	ErrPricingRuleNotFound = errors.New("pricing rule not found")

	// ErrAssetNotFound is returned when an asset is not found
	ErrAssetNotFound = errors.New("asset not found")

	// ErrDuplicateSerialNumber is returned when another asset holds the serial number
	ErrDuplicateSerialNumber = errors.New("serial number already registered")

	// ErrProfessionNotFound is returned when a profession is not found
	ErrProfessionNotFound = errors.New("profession not found")

	// ErrWorkOrderNotFound is returned when a work order is not found
	ErrWorkOrderNotFound = errors.New("work order not found")

	// ErrLineItemNotFound is returned when a work order line item is not found
	ErrLineItemNotFound = errors.New("line item not found")

	// ErrInvalidStatus is returned when a status value is not a known state
	ErrInvalidStatus = errors.New("invalid status")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when another user holds the email address
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrRoleNotFound is returned when a role is not found
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleInUse is returned when deleting a role that users still reference
	ErrRoleInUse = errors.New("role is assigned to users")

	// ErrFileNotFound is returned when a file attachment is not found
	ErrFileNotFound = errors.New("file not found")

	// ErrFileTooLarge is returned when an upload exceeds the configured limit
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrFileTypeNotAllowed is returned when an upload's content type is not permitted
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

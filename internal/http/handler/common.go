package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response in the standard envelope
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.Response{
		Success: false,
		Message: message,
	})
}

// respondServiceError maps service sentinel errors onto HTTP status codes.
// Unknown errors become 500 without leaking internals.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAccommodationNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrSupplierTypeNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrPricingRuleNotFound),
		errors.Is(err, service.ErrAssetNotFound),
		errors.Is(err, service.ErrProfessionNotFound),
		errors.Is(err, service.ErrWorkOrderNotFound),
		errors.Is(err, service.ErrLineItemNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoleNotFound),
		errors.Is(err, service.ErrFileNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateVATNumber),
		errors.Is(err, service.ErrDuplicateOrgNumber),
		errors.Is(err, service.ErrDuplicateSerialNumber),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrRoleInUse):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrLedgerUnavailable):
		respondError(w, http.StatusServiceUnavailable, "Accounting ledger is not available")
	default:
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// respondValidationError sends field-level validation messages in the
// standard envelope
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}
	respondJSON(w, http.StatusBadRequest, domain.Response{
		Success: false,
		Message: "One or more fields failed validation",
		Data:    fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("Must be a date in format %s", fe.Param())
	case "url":
		return "Must be a valid URL"
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// parseIDParam extracts a numeric path parameter
func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

// parseListQuery extracts pagination and sorting from the query string
func parseListQuery(r *http.Request) (page, perPage int, sort repository.SortConfig) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	perPage, _ = strconv.Atoi(q.Get("perPage"))

	sort = repository.DefaultSortConfig()
	if sortBy := q.Get("sortBy"); sortBy != "" {
		sort.Field = sortBy
	}
	if sortOrder := q.Get("sortOrder"); sortOrder != "" {
		sort.Order = repository.ParseSortOrder(sortOrder)
	}
	return page, perPage, sort
}

// uintQuery parses an optional numeric query parameter
func uintQuery(r *http.Request, name string) *uint {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

// uintForm parses a numeric form value, returning 0 when absent or invalid
func uintForm(r *http.Request, name string) uint {
	v, err := strconv.ParseUint(r.FormValue(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// boolQuery parses an optional boolean query parameter
func boolQuery(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// decodeAndValidate decodes a JSON body into req and runs struct validation.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// pageResponse wraps a list result in the standard paginated envelope
func pageResponse(message string, data interface{}, page repository.Page) domain.PageResponse {
	return domain.PageResponse{
		Success:     true,
		Message:     message,
		Data:        data,
		Total:       page.Total,
		CurrentPage: page.CurrentPage,
		PerPage:     page.PerPage,
		TotalPages:  page.TotalPages,
	}
}

// okResponse wraps a single result in the standard envelope
func okResponse(message string, data interface{}) domain.Response {
	return domain.Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

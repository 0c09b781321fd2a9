package domain

// UserRole defines the role hierarchy within a tenant.
// Each user holds exactly one role; payloads carrying anything else are
// rejected at the boundary.
type UserRole string

const (
	RoleClerk   UserRole = "clerk"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// ParseUserRole returns the UserRole for s, or false if s is not a known role.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleClerk, RoleManager, RoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

// InvoiceStatus represents the invoice lifecycle state.
// The lifecycle is strictly linear: draft -> ready -> submitted.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusReady     InvoiceStatus = "ready"
	StatusSubmitted InvoiceStatus = "submitted"
)

// ParseInvoiceStatus returns the InvoiceStatus for s, or false if s is not a
// known status.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	switch InvoiceStatus(s) {
	case StatusDraft, StatusReady, StatusSubmitted:
		return InvoiceStatus(s), true
	}
	return "", false
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// AccountKind distinguishes the three self-service portals.
type AccountKind string

const (
	KindAdmin     AccountKind = "admin"
	KindFranchise AccountKind = "franchise"
	KindStaff     AccountKind = "staff"
)

// Account statuses. A pending account becomes active only through token
// verification; rejection and deactivation are manual admin actions.
const (
	AccountStatusPending     = "pending"
	AccountStatusActive      = "active"
	AccountStatusRejected    = "rejected"
	AccountStatusDeactivated = "deactivated"
)

// Account roles. Admin accounts start as "viewer" after verification and are
// elevated to "admin" by a separate profile update.
const (
	RoleViewer    = "viewer"
	RoleAdmin     = "admin"
	RoleFranchise = "franchise"
	RoleStaff     = "staff"
)

// Account is a portal identity for any of the three account kinds. The store
// enforces email uniqueness per kind; the application-level duplicate check
// is advisory only.
type Account struct {
	BaseModel

	Kind   AccountKind `gorm:"not null;index;uniqueIndex:idx_accounts_kind_email" json:"kind"`
	Email  string      `gorm:"not null;uniqueIndex:idx_accounts_kind_email" json:"email"`
	Status string      `gorm:"not null;default:pending;index" json:"status"`
	Role   string      `gorm:"not null" json:"role"`

	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	// Franchise fields.
	BusinessName string `json:"business_name,omitempty"`
	Location     string `json:"location,omitempty"`

	// Staff fields. Approved is flipped by a manual admin action after the
	// email has been verified.
	Approved bool           `gorm:"default:false" json:"approved"`
	Subjects datatypes.JSON `json:"subjects,omitempty"`

	EmailVerifiedAt *time.Time `json:"email_verified_at"`
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

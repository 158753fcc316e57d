package model

import (
	"fmt"
	"time"
)

// Member roles form a three-tier hierarchy. RoleMember is the base tier
// assigned on self-registration; RoleStaff manages gym equipment and
// programming; RoleAdmin additionally manages members and credentials.
const (
	RoleMember = "member"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

// ValidRole reports whether r is one of the three known role names.
func ValidRole(r string) bool {
	return r == RoleMember || r == RoleStaff || r == RoleAdmin
}

// ElevatedRole reports whether r may grant elevated roles to others.
func ElevatedRole(r string) bool {
	return r == RoleStaff || r == RoleAdmin
}

// Member represents a gym member as stored in the `members` table. A
// member doubles as the API principal: the api_key column is the opaque
// credential presented on every request, and the role column drives
// authorization.
//
// Fields:
//
//	ID        – primary key identifier.
//	FirstName – given name.
//	LastName  – family name.
//	Email     – unique contact email.
//	Phone     – optional contact phone.
//	APIKey    – unique opaque credential (UUID).
//	Role      – member | staff | admin.
//	Active    – whether the member may authenticate.
//	JoinedAt  – date the member joined the gym.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type Member struct {
	ID        uint64    `json:"id"`         // members.id
	FirstName string    `json:"first_name"` // members.first_name
	LastName  string    `json:"last_name"`  // members.last_name
	Email     string    `json:"email"`      // members.email (unique)
	Phone     string    `json:"phone"`      // members.phone
	APIKey    string    `json:"-"`          // members.api_key (unique, never serialized)
	Role      string    `json:"role"`       // members.role
	Active    bool      `json:"active"`     // members.active
	JoinedAt  time.Time `json:"joined_at"`  // members.joined_at
	CreatedAt time.Time `json:"created_at"` // members.created_at
	UpdatedAt time.Time `json:"updated_at"` // members.updated_at
}

// FullName returns the member's display name.
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Status maps the active flag onto the status filter dimension used by
// list caches and the /members/status/:status endpoint.
func (m Member) Status() string {
	if m.Active {
		return "active"
	}
	return "inactive"
}

// CacheKey is the single-record cache key for this member.
func (m Member) CacheKey() string {
	return fmt.Sprintf("member:%d", m.ID)
}

// InvalidationKeys returns every cache key a write to this member can
// affect: the record key, the unconditional list key, and the status
// filter key computed from the member's current active flag. The
// previous status value is not tracked, so a status change leaves the
// old filter list stale until its TTL expires.
func (m Member) InvalidationKeys() []string {
	return []string{
		m.CacheKey(),
		"members:all",
		"members:status:" + m.Status(),
	}
}

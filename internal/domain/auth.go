package domain

// StaffRole enumerates staff access levels.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "ADMIN"
	StaffRoleAgent StaffRole = "AGENT"
)

// StaffMember identifies an authenticated staff principal.
type StaffMember struct {
	Email string
	Name  string
	Role  StaffRole
}

package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, including manual entry and record deletion
	RoleManager  Role = "manager"  // Can decide corrections and exceeding breaks
	RoleEmployee Role = "employee" // Regular employee
)

// CanApprove checks if the role can decide corrections and break exceedances
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanManageRecords checks if the role can create manual entries and delete records
func (r Role) CanManageRecords() bool {
	return r == RoleAdmin
}

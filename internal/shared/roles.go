package shared

// Seeded role names. Role names are case-sensitive.
const (
	RoleAdmin  = "Admin"
	RoleClient = "Client"
)

// SeededRoles lists the roles created by the initial migration.
func SeededRoles() []string {
	return []string{RoleAdmin, RoleClient}
}

// IsSeededRole reports whether name is one of SeededRoles.
func IsSeededRole(name string) bool {
	return name == RoleAdmin || name == RoleClient
}

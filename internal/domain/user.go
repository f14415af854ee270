package domain

// Role distinguishes the two kinds of BloomNet users.
// Donors post donations; shelters claim them.
type Role string

const (
	RoleDonor   Role = "donor"
	RoleShelter Role = "shelter"
)

// Valid reports whether r is a known role. The empty role is valid too:
// a user picks a role after identity creation.
func (r Role) Valid() bool {
	return r == "" || r == RoleDonor || r == RoleShelter
}

// User is the identity record supplied by the identity collaborator and
// persisted under the currentUser key.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role,omitempty"`
}

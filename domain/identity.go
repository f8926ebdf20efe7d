package domain

type Role string

const (
	RoleUser   Role = "user"
	RoleCenter Role = "center"
	RoleAdmin  Role = "admin"
)

// Identity is the authenticated principal behind a connection or request,
// extracted from the bearer token at handshake time.
type Identity struct {
	UserID      string
	Role        Role
	DisplayName string
}

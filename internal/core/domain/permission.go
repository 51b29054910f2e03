package domain

// Permission is a single grant in a user's permission set.
type Permission string

const (
	PermUser             Permission = "USER"
	PermAdmin            Permission = "ADMIN"
	PermItemCreate       Permission = "ITEMCREATE"
	PermItemUpdate       Permission = "ITEMUPDATE"
	PermItemDelete       Permission = "ITEMDELETE"
	PermPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions is the closed enumeration of grantable permissions.
var AllPermissions = []Permission{
	PermUser,
	PermAdmin,
	PermItemCreate,
	PermItemUpdate,
	PermItemDelete,
	PermPermissionUpdate,
}

// ValidPermission reports whether p is a member of the enumeration.
func ValidPermission(p Permission) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user holds at least one of the required
// permissions. ADMIN is not an implicit superset: an operation that demands
// ITEMDELETE must list ADMIN explicitly if admins are meant to pass.
func HasPermission(u *User, required ...Permission) bool {
	if u == nil {
		return false
	}
	held := make(map[Permission]struct{}, len(u.Permissions))
	for _, p := range u.Permissions {
		held[p] = struct{}{}
	}
	for _, r := range required {
		if _, ok := held[r]; ok {
			return true
		}
	}
	return false
}

// RequirePermission is the gate every privileged operation goes through:
// it returns ErrForbidden unless the user's permission set intersects the
// required set. Pure, no I/O.
func RequirePermission(u *User, required ...Permission) error {
	if !HasPermission(u, required...) {
		return ErrForbidden
	}
	return nil
}

package auth

// IsAdmin reports whether the role is exactly the admin tier.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsEditor reports whether the role is exactly the editor tier.
func (r Role) IsEditor() bool {
	return r == RoleEditor
}

// IsUser reports whether the role is exactly the base user tier.
func (r Role) IsUser() bool {
	return r == RoleUser
}

// HasAdminPermissions reports whether the role may perform
// administrative operations such as user management.
func (r Role) HasAdminPermissions() bool {
	return r == RoleAdmin
}

// HasEditorPermissions reports whether the role may manage case
// content. Admins subsume editor capabilities.
func (r Role) HasEditorPermissions() bool {
	return r == RoleAdmin || r == RoleEditor
}

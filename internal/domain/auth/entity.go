package auth

import "time"

// Permission is a named capability string; a role bundles permissions.
type Permission = string

const (
	PermAnalysis Permission = "analysis"
	PermConfig   Permission = "config"
	PermAdmin    Permission = "admin"
)

// Credential is the persisted account record. PasswordHash is a bcrypt hash;
// cleartext is never stored.
type Credential struct {
	PasswordHash string       `json:"password_hash"`
	Role         string       `json:"role"`
	Permissions  []Permission `json:"permissions"`
	CreatedAt    time.Time    `json:"created_at"`
}

// UserInfo is the sanitized view handed to callers after authentication.
// It never carries the hash.
type UserInfo struct {
	Username    string       `json:"username"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// HasPermission checks membership in the account's permission set
func (u *UserInfo) HasPermission(name Permission) bool {
	for _, p := range u.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// UserRole is a role authority string as embedded in tokens
type UserRole = string

const (
	// RoleUser is the role every new account starts with
	RoleUser UserRole = "ROLE_USER"
	// RoleModerator marks accounts with moderation privileges
	RoleModerator UserRole = "ROLE_MODERATOR"
)

// Account is the persisted identity record. The password hash never leaves
// the process; roles are stored as a JSON array.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Roles         []string   `bun:"roles,notnull" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasRole checks the account's stored role set
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsModerator reports whether the account carries the moderator role
func (a *Account) IsModerator() bool {
	return a.HasRole(RoleModerator)
}

package domain

import "time"

// Role is one of the closed set of roles a user can hold.
type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePremium, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered user in the system. The token subsystem only
// reads it; all writes go through the UserRepository.
type User struct {
	ID           string     `bson:"_id"             json:"id"`
	Name         string     `bson:"name"            json:"name"`
	Email        string     `bson:"email"           json:"email"`
	PasswordHash string     `bson:"password_hash"   json:"-"`
	Role         Role       `bson:"role"            json:"role"`
	IsActive     bool       `bson:"is_active"       json:"isActive"`
	IsVerified   bool       `bson:"is_verified"     json:"isVerified"`
	CreatedAt    time.Time  `bson:"created_at"      json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updated_at"      json:"updatedAt"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
}

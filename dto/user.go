package dto

import "github.com/pitchside/backend/domain"

// UserInfo is the client-facing projection of a user. The password hash
// never appears here.
type UserInfo struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"isVerified"`
}

// NewUserInfo maps a domain user to its client-facing projection.
func NewUserInfo(u *domain.User) UserInfo {
	return UserInfo{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}

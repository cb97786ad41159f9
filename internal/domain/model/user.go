package model

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is the directory entry the checkout flow depends on: identity, a role
// for the admin guard, a phone number for reminder links, and the pointer to
// the current subscription (nil when none is active).
type User struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	Phone                 string    `json:"phone"`
	Role                  string    `json:"role"`
	CurrentSubscriptionID *string   `json:"currentSubscriptionId"`
	CreatedAt             time.Time `json:"createdAt"`
}

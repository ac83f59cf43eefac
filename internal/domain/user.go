package domain

import "time"

// Role gates which API operations an account may invoke.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePlanner   Role = "planner"
	RoleReadOnly  Role = "read_only"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

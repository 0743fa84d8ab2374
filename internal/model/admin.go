package model

import "time"

// AdminRole controls access to destructive administrator operations.
type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleSuperadmin AdminRole = "superadmin"
)

// Admin represents an administrator account.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminLoginRequest is the payload for administrator authentication.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// AdminLoginResponse is returned after successful admin login.
type AdminLoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// CreateAdminRequest is the payload for creating a new administrator.
type CreateAdminRequest struct {
	Username string    `json:"username" binding:"required,min=3,max=50"`
	Password string    `json:"password" binding:"required,min=6,max=128"`
	Role     AdminRole `json:"role" binding:"required,oneof=admin superadmin"`
}

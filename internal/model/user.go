package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role codes as constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an authenticated user in the system.
// Accounts are created inactive and must be approved by an administrator
// before they can log in.
type User struct {
	BaseModel
	Name         string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Ministry     string     `gorm:"type:varchar(255)" json:"ministry"`   // Declared affiliation at signup (free text)
	Role         string     `gorm:"type:varchar(10);default:user" json:"role"`
	IsSuperAdmin bool       `gorm:"default:false" json:"is_super_admin"`
	IsActive     bool       `gorm:"default:false" json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	ApprovedBy   *uint      `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdminUser reports whether the user holds the admin role or the
// super-admin flag. Both bypass per-ministry capability checks.
func (u *User) IsAdminUser() bool {
	return u.Role == RoleAdmin || u.IsSuperAdmin
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Ministry       string     `json:"ministry"`
	Role           string     `json:"role"`
	IsSuperAdmin   bool       `json:"is_super_admin"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	ApprovedByName string     `json:"approved_by_name,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Ministry:     u.Ministry,
		Role:         u.Role,
		IsSuperAdmin: u.IsSuperAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
		ApprovedAt:   u.ApprovedAt,
	}
}

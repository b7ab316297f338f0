package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role account role
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole accepts any letter case; ok is false for unknown roles
func ParseRole(s string) (Role, bool) {
	switch Role(upper(s)) {
	case RoleBuyer:
		return RoleBuyer, true
	case RoleSeller:
		return RoleSeller, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User account entity
type User struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	FullName     string    `gorm:"column:full_name;size:150" json:"full_name"`
	Phone        string    `gorm:"column:phone;size:20" json:"phone"`
	Role         Role      `gorm:"column:role;size:10;not null;index" json:"role"`
	IsActive     bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Principal returns the caller identity for this account
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

// RegisterRequest sign-up payload. Only BUYER and SELLER may self-register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"max=150"`
	Phone    string `json:"phone" binding:"max=20"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest body form of the refresh token; the cookie is preferred
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// UpdateProfileRequest editable profile fields
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=150"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
}

// TokenPair issued tokens
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse login/register result
type AuthResponse struct {
	User   *User     `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

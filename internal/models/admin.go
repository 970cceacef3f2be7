package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin Role = "admin"
)

// AdminUser is an account allowed to manage the schedule.
type AdminUser struct {
	BaseModel
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	DisplayName string     `gorm:"size:100" json:"displayName"`
	Role        Role       `gorm:"size:20;default:'admin'" json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// AdminSanitized is the admin data that is safe to send in API responses.
type AdminSanitized struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Role        Role       `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// SetPassword hashes a password and sets it on the admin
func (u *AdminUser) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the admin's hashed password
func (u *AdminUser) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize strips the password hash.
func (u *AdminUser) Sanitize() AdminSanitized {
	return AdminSanitized{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
	}
}

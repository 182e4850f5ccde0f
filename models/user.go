package models

import "time"

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

type User struct {
	ID           int        `json:"id"`
	FullName     string     `json:"full_name"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	GoogleID     string     `json:"-"`
	AuthProvider string     `json:"auth_provider"`
	IsVerified   bool       `json:"is_verified"`
	ResetToken   string     `json:"-"`
	ResetExpiry  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

package user

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RolePending   Role = "pending"
	RoleAdmin     Role = "admin"
	RoleAnnotator Role = "annotator"
	RoleReviewer  Role = "reviewer"
)

func (r Role) Valid() bool {
	switch r {
	case RolePending, RoleAdmin, RoleAnnotator, RoleReviewer:
		return true
	}
	return false
}

type AccountStatus string

const (
	StatusPending   AccountStatus = "pending"
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
)

type User struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string        `gorm:"column:name;size:150;not null" json:"name"`
	Email         string        `gorm:"column:email;size:150;not null" json:"email"`
	PasswordHash  string        `gorm:"column:password_hash;size:200;not null" json:"-"`
	Role          Role          `gorm:"column:role;size:50;not null;default:'pending';index" json:"role"`
	Organization  string        `gorm:"column:organization;size:150" json:"organization,omitempty"`
	Status        AccountStatus `gorm:"column:status;size:50;not null;default:'pending';index" json:"status"`
	OTP           string        `gorm:"column:otp;size:6" json:"-"`
	OTPExpiration *time.Time    `gorm:"column:otp_expiration" json:"-"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

// Actor is the capability passed into every coordinator operation.
type Actor struct {
	UserID uint `json:"user_id"`
	Role   Role `json:"role"`
}

func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

package models

import (
	"time"
)

// User is a login identity. Customers carry the account number their
// payments are debited from; employees do not.
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Email         string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName     string    `gorm:"size:100;not null" json:"first_name"`
	LastName      string    `gorm:"size:100;not null" json:"last_name"`
	AccountNumber *string   `gorm:"uniqueIndex;size:12" json:"account_number"`
	IDNumber      *string   `gorm:"uniqueIndex;size:13" json:"-"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	Role          string    `gorm:"size:20;not null;default:'Customer'" json:"role"` // Customer, Employee
	IsActive      bool      `gorm:"not null" json:"is_active"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

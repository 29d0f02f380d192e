package entity

import "time"

// User owns a portfolio. Authentication flows live outside this service;
// the provider field records where the account came from.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"unique;not null" json:"email"`
	Name        string     `gorm:"not null" json:"name"`
	Provider    string     `gorm:"type:varchar(50);default:'demo'" json:"provider"`
	Picture     string     `json:"picture"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

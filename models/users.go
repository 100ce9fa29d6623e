package models

import "time"

// User is a staff identity (waiter, cashier, admin). Accounts are seeded at
// first run; there is no user management surface in this service.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	Email     string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`
	Role      string `gorm:"type:varchar(50);not null" json:"role"` // admin, staff, waiter
	CreatedAt time.Time
	UpdatedAt time.Time
}

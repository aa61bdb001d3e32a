package models

import "time"

// User is a registered platform user keyed by wallet address (PostgreSQL).
// Only the fields the notification surface needs are modeled here; the full
// user/company/KYC CRUD lives in its own service.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Account     string    `json:"account" gorm:"size:64;uniqueIndex"`
	FirebaseUID string    `json:"-" gorm:"size:128;index"`
	DisplayName string    `json:"displayName" gorm:"size:120"`
	CompanyName string    `json:"companyName" gorm:"size:120"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserCompact is the trimmed view embedded in enriched notifications.
type UserCompact struct {
	Account     string `json:"account"`
	DisplayName string `json:"displayName"`
	CompanyName string `json:"companyName"`
}

// ToCompact returns the trimmed view of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		Account:     u.Account,
		DisplayName: u.DisplayName,
		CompanyName: u.CompanyName,
	}
}

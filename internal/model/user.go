package model

import "time"

// User represents an account in the system. Password is nullable: accounts
// provisioned through Google OAuth carry no password until one is set, and
// password login against such an account must be rejected with a distinct
// error rather than generic invalid credentials.
type User struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Email    string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password *string `json:"-" gorm:"size:255"` // bcrypt hash, never exposed
	Name     string  `json:"name,omitempty" gorm:"size:255"`

	EmailVerified           bool       `json:"email_verified" gorm:"not null;default:false"`
	EmailVerificationToken  *string    `json:"-" gorm:"size:64;index"`
	EmailVerificationExpiry *time.Time `json:"-"`

	GoogleID *string `json:"-" gorm:"uniqueIndex;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

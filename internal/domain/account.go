package domain

import "time"

type Account struct {
	ID       AccountID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Username string    `gorm:"type:citext;uniqueIndex:ux_accounts_username" db:"username" json:"username"`
	Email    string    `gorm:"type:citext;uniqueIndex:ux_accounts_email" db:"email" json:"email"`

	// Verification state. Code present only while unverified.
	Verified         bool    `gorm:"not null;default:false" db:"verified" json:"verified"`
	VerificationCode *string `gorm:"type:text" db:"verification_code" json:"-"`

	// Reset state. Set together, cleared together.
	ResetToken   *string    `gorm:"type:text" db:"reset_token" json:"-"`
	ResetExpires *time.Time `db:"reset_expires" json:"-"`

	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Account) TableName() string { return "accounts" }

// ExternalIdentity is the normalized shape of an OAuth provider assertion.
// Adapters translate whatever the provider returns into this.
type ExternalIdentity struct {
	Email       string
	DisplayName string
}

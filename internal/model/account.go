package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is the identity record of a marketplace user.
type Account struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string          `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string          `json:"email" gorm:"uniqueIndex;size:254;not null"`
	PasswordHash string          `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string          `json:"first_name" gorm:"size:150"`
	LastName     string          `json:"last_name" gorm:"size:150"`
	Balance      decimal.Decimal `json:"balance" gorm:"type:decimal(10,2);not null;default:0"`
	Avatar       *string         `json:"avatar,omitempty" gorm:"size:255"` // storage key
	IsActive     bool            `json:"is_active" gorm:"default:true;index"`
	LastLoginAt  *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `json:"date_joined"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name, falling back to the username.
func (a *Account) FullName() string {
	full := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	if full == "" {
		return a.Username
	}
	return full
}

// AvatarKey returns the stored avatar key or "" when none is set.
func (a *Account) AvatarKey() string {
	if a.Avatar == nil {
		return ""
	}
	return *a.Avatar
}

// SplitFullName splits a display name on its first whitespace run.
// "Ada King Lovelace" yields ("Ada", "King Lovelace").
func SplitFullName(full string) (first, last string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

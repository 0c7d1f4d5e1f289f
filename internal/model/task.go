package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Task is a job posting authored by one Account.
type Task struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"size:200;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Budget      decimal.Decimal `json:"budget" gorm:"type:decimal(10,2);not null"`
	Deadline    time.Time       `json:"deadline" gorm:"type:date;not null"`
	Skills      []string        `json:"skills" gorm:"serializer:json;type:text"`
	AuthorID    uuid.UUID       `json:"author_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Author *Account `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// OwnedBy reports whether accountID authored the task.
func (t *Task) OwnedBy(accountID uuid.UUID) bool {
	return t.AuthorID == accountID
}

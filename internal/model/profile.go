package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExperienceLevel grades a freelancer's seniority.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExpert       ExperienceLevel = "expert"
)

// Valid reports whether l is one of the known levels.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceExpert:
		return true
	}
	return false
}

// MaxRating is the upper bound of a profile rating.
var MaxRating = decimal.NewFromInt(5)

var (
	// ErrRatingOutOfRange is returned when a rating is outside [0, 5].
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")
	// ErrNegativeRate is returned when an hourly rate is below zero.
	ErrNegativeRate = errors.New("hourly rate must not be negative")
	// ErrNegativeProjects is returned when the completed project count is below zero.
	ErrNegativeProjects = errors.New("completed projects must not be negative")
)

// Profile holds the professional attributes of exactly one Account.
type Profile struct {
	ID                 uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID          uuid.UUID        `json:"account_id" gorm:"type:char(36);uniqueIndex;not null"`
	Description        string           `json:"description" gorm:"type:text"`
	Specialization     string           `json:"specialization" gorm:"size:100"`
	ExperienceLevel    ExperienceLevel  `json:"experience_level" gorm:"type:varchar(20);not null;default:'beginner'"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate" gorm:"type:decimal(10,2)"`
	PortfolioURL       string           `json:"portfolio_url" gorm:"size:255"`
	GithubURL          string           `json:"github_url" gorm:"size:255"`
	LinkedinURL        string           `json:"linkedin_url" gorm:"size:255"`
	Location           string           `json:"location" gorm:"size:100"`
	Languages          []string         `json:"languages" gorm:"serializer:json;type:text"`
	Education          []string         `json:"education" gorm:"serializer:json;type:text"`
	Certificates       []string         `json:"certificates" gorm:"serializer:json;type:text"`
	PreferredWorkHours string           `json:"preferred_work_hours" gorm:"size:100"`
	AvailableForHire   bool             `json:"available_for_hire" gorm:"not null;default:true"`
	Rating             decimal.Decimal  `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	CompletedProjects  int              `json:"completed_projects" gorm:"not null;default:0"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	Account *Account `json:"-" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Skills  []Skill  `json:"skills" gorm:"many2many:profile_skills;constraint:OnDelete:CASCADE"`
}

// NewProfile returns the empty profile created alongside a new account.
func NewProfile(accountID uuid.UUID) *Profile {
	return &Profile{
		AccountID:        accountID,
		ExperienceLevel:  ExperienceBeginner,
		AvailableForHire: true,
		Languages:        []string{},
		Education:        []string{},
		Certificates:     []string{},
	}
}

// BeforeCreate sets UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave guards the numeric invariants of a profile.
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	return p.Check()
}

// Check validates the numeric invariants of a profile.
func (p *Profile) Check() error {
	if p.Rating.IsNegative() || p.Rating.GreaterThan(MaxRating) {
		return ErrRatingOutOfRange
	}
	if p.HourlyRate != nil && p.HourlyRate.IsNegative() {
		return ErrNegativeRate
	}
	if p.CompletedProjects < 0 {
		return ErrNegativeProjects
	}
	return nil
}

// SkillIDs returns the identifiers of the attached skills.
func (p *Profile) SkillIDs() []uint {
	ids := make([]uint, 0, len(p.Skills))
	for _, s := range p.Skills {
		ids = append(ids, s.ID)
	}
	return ids
}

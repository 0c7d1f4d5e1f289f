package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freelancehub/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*model.Profile, error)
	ReplaceSkills(ctx context.Context, profile *model.Profile, skills []model.Skill) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts a profile without touching its associations.
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error
}

// Update saves every profile column. Associations are left alone.
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error
}

// FindByAccountID loads a profile with its account and skills.
func (r *profileRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("skills.name ASC") }).
		Where("account_id = ?", accountID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ReplaceSkills makes skills the exact skill set of the profile.
func (r *profileRepository) ReplaceSkills(ctx context.Context, profile *model.Profile, skills []model.Skill) error {
	assoc := r.db.WithContext(ctx).Model(profile).Association("Skills")
	if len(skills) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(skills)
}

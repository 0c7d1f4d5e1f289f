package repository

import (
	"context"

	"gorm.io/gorm"

	"freelancehub/internal/model"
)

// SkillRepository defines skill catalog persistence operations.
type SkillRepository interface {
	List(ctx context.Context) ([]model.Skill, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Skill, error)
	EnsureNames(ctx context.Context, names []string) (created int, err error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new skill repository.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

// List returns the whole catalog ordered by name.
func (r *skillRepository) List(ctx context.Context) ([]model.Skill, error) {
	skills := make([]model.Skill, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// FindByIDs returns the skills matching ids. Unknown ids are simply absent from the result.
func (r *skillRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Skill, error) {
	skills := make([]model.Skill, 0, len(ids))
	if len(ids) == 0 {
		return skills, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// EnsureNames inserts the names missing from the catalog.
func (r *skillRepository) EnsureNames(ctx context.Context, names []string) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			skill := model.Skill{Name: name}
			res := tx.Where(model.Skill{Name: name}).FirstOrCreate(&skill)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	return created, err
}

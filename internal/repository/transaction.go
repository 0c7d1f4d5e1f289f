package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Accounts AccountRepository
	Profiles ProfileRepository
	Skills   SkillRepository
	Tasks    TaskRepository
}

// NewRepositories builds GORM-backed repositories sharing db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Accounts: NewAccountRepository(db),
		Profiles: NewProfileRepository(db),
		Skills:   NewSkillRepository(db),
		Tasks:    NewTaskRepository(db),
	}
}

// Transactor runs work atomically across repositories.
type Transactor interface {
	// WithTransaction executes fn within a database transaction. The transaction
	// is rolled back when fn returns an error or panics.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
	"freelancehub/internal/repository"
)

const (
	DefaultTaskPageSize = 50
	MaxTaskPageSize     = 100
)

// maxBudget is the first value a decimal(10,2) column cannot hold.
var maxBudget = decimal.New(1, 8)

// TaskQuery filters and pages a task listing. Author is a username.
type TaskQuery struct {
	Author string
	Limit  int
	Offset int
}

// TaskInput carries task fields. On update nil fields are left untouched;
// on create title, description, budget and deadline are required.
type TaskInput struct {
	Title       *string
	Description *string
	Budget      *decimal.Decimal
	Deadline    *string
	Skills      *[]string
}

// TaskService manages job postings.
type TaskService interface {
	List(ctx context.Context, q TaskQuery) ([]model.Task, error)
	Get(ctx context.Context, id uint) (*model.Task, error)
	Create(ctx context.Context, authorID uuid.UUID, in TaskInput) (*model.Task, error)
	Update(ctx context.Context, callerID uuid.UUID, id uint, in TaskInput) (*model.Task, error)
	Delete(ctx context.Context, callerID uuid.UUID, id uint) error
}

type taskService struct {
	tasks    repository.TaskRepository
	accounts repository.AccountRepository
}

// NewTaskService creates a new task service.
func NewTaskService(tasks repository.TaskRepository, accounts repository.AccountRepository) TaskService {
	return &taskService{tasks: tasks, accounts: accounts}
}

func (s *taskService) List(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	filter := repository.TaskFilter{Limit: q.Limit, Offset: q.Offset}
	if filter.Limit <= 0 {
		filter.Limit = DefaultTaskPageSize
	}
	if filter.Limit > MaxTaskPageSize {
		filter.Limit = MaxTaskPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if author := strings.TrimSpace(q.Author); author != "" {
		account, err := s.accounts.FindByUsername(ctx, author)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []model.Task{}, nil
			}
			return nil, fmt.Errorf("find author: %w", err)
		}
		filter.AuthorID = &account.ID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// Create stores a task authored by authorID, whatever the payload claims.
func (s *taskService) Create(ctx context.Context, authorID uuid.UUID, in TaskInput) (*model.Task, error) {
	task := &model.Task{AuthorID: authorID, Skills: []string{}}
	if err := in.apply(task, true); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return s.Get(ctx, task.ID)
}

// Update applies a partial change. Only the author may update a task.
func (s *taskService) Update(ctx context.Context, callerID uuid.UUID, id uint, in TaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(callerID) {
		return nil, apperrors.ErrForbidden
	}
	if err := in.apply(task, false); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a task. Only the author may delete it.
func (s *taskService) Delete(ctx context.Context, callerID uuid.UUID, id uint) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !task.OwnedBy(callerID) {
		return apperrors.ErrForbidden
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// apply validates in and copies it onto task. With create set, missing
// required fields are reported.
func (in TaskInput) apply(task *model.Task, create bool) error {
	v := apperrors.NewValidationError()

	var title, description string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
		switch {
		case title == "":
			v.Add("title", "This field may not be blank.")
		case utf8.RuneCountInString(title) > taskTitleMaxLen:
			v.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", taskTitleMaxLen))
		}
	} else if create {
		v.Add("title", msgRequired)
	}

	if in.Description != nil {
		description = strings.TrimSpace(*in.Description)
		if description == "" {
			v.Add("description", "This field may not be blank.")
		}
	} else if create {
		v.Add("description", msgRequired)
	}

	if in.Budget != nil {
		if in.Budget.IsNegative() {
			v.Add("budget", "Ensure this value is greater than or equal to 0.")
		} else if !in.Budget.Equal(in.Budget.Round(2)) {
			v.Add("budget", "Ensure that there are no more than 2 decimal places.")
		} else if in.Budget.GreaterThanOrEqual(maxBudget) {
			v.Add("budget", "Ensure that there are no more than 10 digits in total.")
		}
	} else if create {
		v.Add("budget", msgRequired)
	}

	var deadline time.Time
	if in.Deadline != nil {
		d, err := time.Parse(model.DateLayout, strings.TrimSpace(*in.Deadline))
		if err != nil {
			v.Add("deadline", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		}
		deadline = d
	} else if create {
		v.Add("deadline", msgRequired)
	}

	var skills []string
	if in.Skills != nil {
		skills = cleanStringList(v, "skills", *in.Skills)
	}

	if err := v.OrNil(); err != nil {
		return err
	}

	if in.Title != nil {
		task.Title = title
	}
	if in.Description != nil {
		task.Description = description
	}
	if in.Budget != nil {
		task.Budget = in.Budget.Round(2)
	}
	if in.Deadline != nil {
		task.Deadline = deadline
	}
	if in.Skills != nil {
		task.Skills = skills
	}
	return nil
}

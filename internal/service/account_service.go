package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freelancehub/internal/cache"
	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
	"freelancehub/internal/repository"
)

const accountCacheTTL = 5 * time.Minute

// AccountService exposes read access to account identities.
type AccountService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type accountService struct {
	repo  repository.AccountRepository
	cache *cache.Client
}

// NewAccountService builds an AccountService with repository and cache.
func NewAccountService(repo repository.AccountRepository, cache *cache.Client) AccountService {
	return &accountService{repo: repo, cache: cache}
}

func accountCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("account:%s", id)
}

func (s *accountService) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var cached model.Account
	if s.cache.GetJSON(ctx, accountCacheKey(id), &cached) {
		return &cached, nil
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	s.cache.SetJSON(ctx, accountCacheKey(id), account, accountCacheTTL)
	return account, nil
}

// Invalidate drops the cached copy of an account after it changed.
func (s *accountService) Invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, accountCacheKey(id))
}

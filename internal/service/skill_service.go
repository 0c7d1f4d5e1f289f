package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freelancehub/internal/cache"
	"freelancehub/internal/model"
	"freelancehub/internal/repository"
)

const (
	skillsCacheKey = "skills:all"
	skillsCacheTTL = 5 * time.Minute
)

// SkillService exposes the skill catalog.
type SkillService interface {
	List(ctx context.Context) ([]model.Skill, error)
	Seed(ctx context.Context, names []string) (int, error)
}

type skillService struct {
	repo  repository.SkillRepository
	cache *cache.Client
}

// NewSkillService builds a SkillService with repository and cache.
func NewSkillService(repo repository.SkillRepository, cache *cache.Client) SkillService {
	return &skillService{repo: repo, cache: cache}
}

// List returns all skills ordered by name.
func (s *skillService) List(ctx context.Context) ([]model.Skill, error) {
	var cached []model.Skill
	if s.cache.GetJSON(ctx, skillsCacheKey, &cached) {
		return cached, nil
	}

	skills, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	s.cache.SetJSON(ctx, skillsCacheKey, skills, skillsCacheTTL)
	return skills, nil
}

// Seed adds the missing names to the catalog and reports how many were created.
func (s *skillService) Seed(ctx context.Context, names []string) (int, error) {
	seen := make(map[string]struct{}, len(names))
	clean := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		clean = append(clean, n)
	}

	created, err := s.repo.EnsureNames(ctx, clean)
	if err != nil {
		return created, fmt.Errorf("seed skills: %w", err)
	}
	_ = s.cache.Delete(ctx, skillsCacheKey)
	return created, nil
}

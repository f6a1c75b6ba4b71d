package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"easyride/internal/repositories/interfaces"
	"easyride/internal/utils"
	"easyride/pkg/cities"
	"easyride/pkg/logger"
)

type CityService interface {
	// List never fails: a lookup error yields only the admin additions.
	List(ctx context.Context) []string
	Add(ctx context.Context, name string) error
	// Remove hides a city from the list unless a ride uses it.
	Remove(ctx context.Context, name string) error
}

type cityService struct {
	provider cities.Provider
	store    CacheService
	rideRepo interfaces.RideRepository
	logger   *logger.Logger
}

func NewCityService(provider cities.Provider, store CacheService, rideRepo interfaces.RideRepository, log *logger.Logger) CityService {
	return &cityService{
		provider: provider,
		store:    store,
		rideRepo: rideRepo,
		logger:   log,
	}
}

func (s *cityService) List(ctx context.Context) []string {
	fetched, err := s.provider.Cities(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("City lookup failed")
		fetched = nil
	}

	added, err := s.store.SMembers(ctx, utils.CacheCitiesAddedKey)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load added cities")
	}
	removed, err := s.store.SMembers(ctx, utils.CacheCitiesRemovedKey)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load removed cities")
	}

	return mergeCities(fetched, added, removed)
}

func (s *cityService) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidCity
	}

	if err := s.store.SRem(ctx, utils.CacheCitiesRemovedKey, name); err != nil {
		return fmt.Errorf("failed to add city: %w", err)
	}
	if err := s.store.SAdd(ctx, utils.CacheCitiesAddedKey, name); err != nil {
		return fmt.Errorf("failed to add city: %w", err)
	}
	return nil
}

func (s *cityService) Remove(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidCity
	}

	used, err := s.rideRepo.ExistsForCity(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check city usage: %w", err)
	}
	if used {
		return ErrCityInUse
	}

	if err := s.store.SRem(ctx, utils.CacheCitiesAddedKey, name); err != nil {
		return fmt.Errorf("failed to remove city: %w", err)
	}
	if err := s.store.SAdd(ctx, utils.CacheCitiesRemovedKey, name); err != nil {
		return fmt.Errorf("failed to remove city: %w", err)
	}
	return nil
}

func mergeCities(fetched, added, removed []string) []string {
	hidden := make(map[string]bool, len(removed))
	for _, city := range removed {
		hidden[city] = true
	}

	seen := make(map[string]bool, len(fetched)+len(added))
	result := make([]string, 0, len(fetched)+len(added))
	for _, list := range [][]string{fetched, added} {
		for _, city := range list {
			city = strings.TrimSpace(city)
			if city == "" || seen[city] || hidden[city] {
				continue
			}
			seen[city] = true
			result = append(result, city)
		}
	}

	sort.Strings(result)
	return result
}

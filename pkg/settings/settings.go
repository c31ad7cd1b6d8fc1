// Package settings holds site-wide display configuration loaded from the
// configuration table. Values are read into process memory on demand and
// refreshed only through an explicit Reload, never re-queried from inside
// request logic.
package settings

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/utpad/utpad/pkg/store/postgres"
)

const siteNameKey = "site_name"

const defaultSiteName = "Utpad Team Management"

type Service struct {
	repo *postgres.ConfigurationRepository

	mu       sync.RWMutex
	loaded   bool
	siteName string
}

func NewService(repo *postgres.ConfigurationRepository) *Service {
	return &Service{repo: repo, siteName: defaultSiteName}
}

// SiteName returns the configured display name, loading it on first use.
func (s *Service) SiteName(ctx context.Context) string {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.siteName
	}
	s.mu.RUnlock()

	_ = s.Reload(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.siteName
}

func (s *Service) Reload(ctx context.Context) error {
	name := defaultSiteName
	conf, err := s.repo.GetByName(ctx, siteNameKey)
	switch {
	case err == nil && conf.Value != "":
		name = conf.Value
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	s.mu.Lock()
	s.siteName = name
	s.loaded = true
	s.mu.Unlock()
	return nil
}

package services

import (
	"errors"

	"poolquote/internal/domain"
	"poolquote/internal/geometry"
	"poolquote/internal/repos"

	"github.com/google/uuid"
)

var ErrBadDimensions = errors.New("configuration is missing required dimensions")

type ConfigurationService struct {
	Configs *repos.ConfigurationRepo
}

func NewConfigurationService(configs *repos.ConfigurationRepo) *ConfigurationService {
	return &ConfigurationService{Configs: configs}
}

// Create stores a wizard submission. Dimension presence is the one
// hard requirement; everything else is optional wizard input.
func (s *ConfigurationService) Create(c domain.Configuration) (domain.Configuration, error) {
	shape := geometry.Shape(c.Shape)
	switch {
	case shape == geometry.ShapeCircle:
		if c.Diameter <= 0 || c.Depth <= 0 {
			return domain.Configuration{}, ErrBadDimensions
		}
	case geometry.IsRectangular(shape):
		if c.Width <= 0 || c.Length <= 0 || c.Depth <= 0 {
			return domain.Configuration{}, ErrBadDimensions
		}
	default:
		return domain.Configuration{}, ErrBadDimensions
	}

	c.ID = uuid.NewString()
	c.PipedriveStatus = domain.SyncPending
	if err := s.Configs.Create(c); err != nil {
		return domain.Configuration{}, err
	}
	return c, nil
}

func (s *ConfigurationService) Get(id string) (domain.Configuration, error) {
	return s.Configs.Get(id)
}

func (s *ConfigurationService) ListLatest(limit int) ([]domain.Configuration, error) {
	return s.Configs.ListLatest(limit)
}

// MarkSynced / MarkSyncFailed record the CRM push outcome reported by
// the external sync worker.
func (s *ConfigurationService) MarkSynced(id string) error {
	return s.Configs.UpdateSyncStatus(id, domain.SyncSuccess, "")
}

func (s *ConfigurationService) MarkSyncFailed(id, reason string) error {
	return s.Configs.UpdateSyncStatus(id, domain.SyncError, reason)
}

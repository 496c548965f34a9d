package service

import (
	"context"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/repository"
)

// CatalogService exposes the test and package offerings. It is also the
// authoritative price source the order service resolves totals against.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func (s *CatalogService) ListTests(ctx context.Context) ([]entity.LabTest, error) {
	tests, err := s.catalogRepo.GetAllTests(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing tests")
		return nil, err
	}
	return tests, nil
}

func (s *CatalogService) ListPackages(ctx context.Context) ([]entity.Package, error) {
	pkgs, err := s.catalogRepo.GetAllPackages(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing packages")
		return nil, err
	}
	return pkgs, nil
}

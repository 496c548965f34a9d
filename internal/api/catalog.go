package api

import (
	"github.com/labstack/echo/v4"

	"labdash-backend/internal/entity"
	"labdash-backend/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListTests returns the test catalog --> GET /api/tests
func (h *CatalogHandler) ListTests(c echo.Context) error {
	tests, err := h.catalogService.ListTests(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	if tests == nil {
		tests = []entity.LabTest{}
	}
	return c.JSON(200, tests)
}

// ListPackages returns the package catalog --> GET /api/packages
func (h *CatalogHandler) ListPackages(c echo.Context) error {
	pkgs, err := h.catalogService.ListPackages(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	if pkgs == nil {
		pkgs = []entity.Package{}
	}
	return c.JSON(200, pkgs)
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/repositories"
)

// CatalogService administra categorías, subcategorías y amenities
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id uint) (*domain.Category, error)
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListSubcategories(ctx context.Context, categoryID *uint) ([]domain.Subcategory, error)
	GetSubcategory(ctx context.Context, id uint) (*domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, req dto.SubcategoryRequest) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id uint, req dto.SubcategoryRequest) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id uint) error

	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
	GetAmenity(ctx context.Context, id uint) (*domain.Amenity, error)
	CreateAmenity(ctx context.Context, req dto.AmenityRequest) (*domain.Amenity, error)
	UpdateAmenity(ctx context.Context, id uint, req dto.AmenityRequest) (*domain.Amenity, error)
	DeleteAmenity(ctx context.Context, id uint) error
}

type catalogService struct {
	catalog repositories.CatalogRepository
}

// NewCatalogService crea una nueva instancia del servicio
func NewCatalogService(catalog repositories.CatalogRepository) CatalogService {
	return &catalogService{catalog: catalog}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("name is required")
	}
	return name, nil
}

// duplicateName traduce la violación del índice único a 409
func duplicateName(err error, what, name string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return conflictError("%s %q already exists", what, name)
	}
	return err
}

// ---------- Categorías ----------

// ListCategories devuelve todas las categorías
func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

// GetCategory busca una categoría
func (s *catalogService) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := s.catalog.GetCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category")
	}
	return c, nil
}

// CreateCategory valida el nombre y crea la categoría
func (s *catalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	c := &domain.Category{Name: name}
	if err := s.catalog.CreateCategory(ctx, c); err != nil {
		return nil, duplicateName(err, "category", name)
	}
	return c, nil
}

// UpdateCategory cambia el nombre de una categoría
func (s *catalogService) UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (*domain.Category, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.catalog.UpdateCategory(ctx, c); err != nil {
		return nil, duplicateName(err, "category", name)
	}
	return c, nil
}

// DeleteCategory borra una categoría que ya no tenga subcategorías
func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if len(c.Subcategories) > 0 {
		return conflictError("category still has %d subcategories", len(c.Subcategories))
	}
	return notFoundOr(s.catalog.DeleteCategory(ctx, id), "category")
}

// ---------- Subcategorías ----------

// ListSubcategories devuelve las subcategorías, opcionalmente de una categoría
func (s *catalogService) ListSubcategories(ctx context.Context, categoryID *uint) ([]domain.Subcategory, error) {
	return s.catalog.ListSubcategories(ctx, categoryID)
}

// GetSubcategory busca una subcategoría
func (s *catalogService) GetSubcategory(ctx context.Context, id uint) (*domain.Subcategory, error) {
	sub, err := s.catalog.GetSubcategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subcategory")
	}
	return sub, nil
}

// CreateSubcategory valida la categoría padre y crea la subcategoría
func (s *catalogService) CreateSubcategory(ctx context.Context, req dto.SubcategoryRequest) (*domain.Subcategory, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	sub := &domain.Subcategory{Name: name, CategoryID: req.CategoryID}
	if err := s.catalog.CreateSubcategory(ctx, sub); err != nil {
		return nil, duplicateName(err, "subcategory", name)
	}
	return s.GetSubcategory(ctx, sub.ID)
}

// UpdateSubcategory cambia nombre o categoría de una subcategoría
func (s *catalogService) UpdateSubcategory(ctx context.Context, id uint, req dto.SubcategoryRequest) (*domain.Subcategory, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	sub, err := s.GetSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	sub.Name = name
	sub.CategoryID = req.CategoryID
	sub.Category = nil
	if err := s.catalog.UpdateSubcategory(ctx, sub); err != nil {
		return nil, duplicateName(err, "subcategory", name)
	}
	return s.GetSubcategory(ctx, id)
}

// DeleteSubcategory borra una subcategoría que no use ningún listing
func (s *catalogService) DeleteSubcategory(ctx context.Context, id uint) error {
	if _, err := s.GetSubcategory(ctx, id); err != nil {
		return err
	}
	n, err := s.catalog.CountListingsInSubcategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflictError("subcategory is used by %d listings", n)
	}
	return notFoundOr(s.catalog.DeleteSubcategory(ctx, id), "subcategory")
}

// ---------- Amenities ----------

// ListAmenities devuelve todas las comodidades
func (s *catalogService) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.catalog.ListAmenities(ctx)
}

// GetAmenity busca una comodidad
func (s *catalogService) GetAmenity(ctx context.Context, id uint) (*domain.Amenity, error) {
	a, err := s.catalog.GetAmenity(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "amenity")
	}
	return a, nil
}

// CreateAmenity valida el nombre y crea la comodidad
func (s *catalogService) CreateAmenity(ctx context.Context, req dto.AmenityRequest) (*domain.Amenity, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	a := &domain.Amenity{Name: name}
	if err := s.catalog.CreateAmenity(ctx, a); err != nil {
		return nil, duplicateName(err, "amenity", name)
	}
	return a, nil
}

// UpdateAmenity cambia el nombre de una comodidad
func (s *catalogService) UpdateAmenity(ctx context.Context, id uint, req dto.AmenityRequest) (*domain.Amenity, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	a, err := s.GetAmenity(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Name = name
	if err := s.catalog.UpdateAmenity(ctx, a); err != nil {
		return nil, duplicateName(err, "amenity", name)
	}
	return a, nil
}

// DeleteAmenity borra una comodidad
func (s *catalogService) DeleteAmenity(ctx context.Context, id uint) error {
	return notFoundOr(s.catalog.DeleteAmenity(ctx, id), "amenity")
}

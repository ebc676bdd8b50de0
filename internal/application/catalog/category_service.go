package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this code already exists")
	}

	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		category, err = catalog.NewChildCategory(req.Code, req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(req.Code, req.Name)
		if err != nil {
			return nil, err
		}
	}

	if req.Description != "" {
		if err := category.Update(category.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves a list of categories with filtering and pagination
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "sort_order",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.RootOnly {
		domainFilter.Filters["root_only"] = true
	}

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCategoryResponses(categories), total, nil
}

// ListChildren retrieves the direct children of a category
func (s *CategoryService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]CategoryResponse, error) {
	children, err := s.categoryRepo.FindChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}

	return ToCategoryResponses(children), nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		description := category.Description

		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}

		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate activates a category
func (s *CategoryService) Activate(ctx context.Context, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := category.Activate(); err != nil {
		return err
	}

	return s.categoryRepo.Save(ctx, category)
}

// Deactivate deactivates a category
func (s *CategoryService) Deactivate(ctx context.Context, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := category.Deactivate(); err != nil {
		return err
	}

	return s.categoryRepo.Save(ctx, category)
}

// Delete deletes a category. Categories with children or assigned products
// cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return err
	}

	children, err := s.categoryRepo.FindChildren(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.ErrEntityInUse
	}

	productCount, err := s.productRepo.CountByCategoryID(ctx, categoryID)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return shared.ErrEntityInUse
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}

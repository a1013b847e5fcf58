package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dscommerce/internal/domain"
	"dscommerce/internal/repository"

	"github.com/google/uuid"
)

const (
	minProductNameLength        = 3
	minProductDescriptionLength = 10
)

// ProductInput carries the writable fields of a product
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	CategoryIDs []uuid.UUID
}

// ProductService handles catalog management and lookups
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, categoryID *uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create validates the input and inserts a new catalog product
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		CategoryIDs: input.CategoryIDs,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update validates the input and updates an existing catalog product
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.CategoryIDs = input.CategoryIDs
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if err == repository.ErrProductNotFound {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product from the catalog
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// FindByID retrieves a product
func (s *productService) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

// List retrieves a page of products
func (s *productService) List(ctx context.Context, categoryID *uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	return s.productRepo.List(ctx, categoryID, page, pageSize, sortBy, sortOrder)
}

// Search retrieves a page of products matching a text query
func (s *productService) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	return s.productRepo.Search(ctx, query, page, pageSize)
}

// ListCategories retrieves all categories
func (s *productService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// validate enforces the catalog rules: non-blank name of at least 3
// characters, description of at least 10, positive price, and at least one
// existing category.
func (s *productService) validate(ctx context.Context, input ProductInput) error {
	if len(strings.TrimSpace(input.Name)) < minProductNameLength {
		return fmt.Errorf("name must have at least %d characters: %w", minProductNameLength, domain.ErrUnprocessable)
	}

	if len(input.Description) < minProductDescriptionLength {
		return fmt.Errorf("description must have at least %d characters: %w", minProductDescriptionLength, domain.ErrUnprocessable)
	}

	if input.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", domain.ErrUnprocessable)
	}

	if len(input.CategoryIDs) == 0 {
		return fmt.Errorf("product must have at least one category: %w", domain.ErrUnprocessable)
	}

	for _, categoryID := range input.CategoryIDs {
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			if err == repository.ErrCategoryNotFound {
				return fmt.Errorf("unknown category %s: %w", categoryID, domain.ErrUnprocessable)
			}
			return fmt.Errorf("failed to check category: %w", err)
		}
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dscommerce/internal/domain"
	"dscommerce/internal/repository"

	"github.com/google/uuid"
)

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository(categories ...*domain.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
	for _, category := range categories {
		m.categories[category.ID] = category
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func testCategory(name string) *domain.Category {
	return &domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
}

func TestProductServiceCreateValidation(t *testing.T) {
	electronics := testCategory("Eletrônicos")

	valid := ProductInput{
		Name:        "Smart TV",
		Description: "Lorem ipsum dolor sit amet",
		Price:       2190.0,
		CategoryIDs: []uuid.UUID{electronics.ID},
	}

	tests := []struct {
		name    string
		mutate  func(input *ProductInput)
		wantErr error
	}{
		{"valid input passes", func(input *ProductInput) {}, nil},
		{"blank name", func(input *ProductInput) { input.Name = "   " }, domain.ErrUnprocessable},
		{"name too short", func(input *ProductInput) { input.Name = "TV" }, domain.ErrUnprocessable},
		{"name padded with spaces", func(input *ProductInput) { input.Name = " TV " }, domain.ErrUnprocessable},
		{"description too short", func(input *ProductInput) { input.Description = "short" }, domain.ErrUnprocessable},
		{"zero price", func(input *ProductInput) { input.Price = 0 }, domain.ErrUnprocessable},
		{"negative price", func(input *ProductInput) { input.Price = -10 }, domain.ErrUnprocessable},
		{"no categories", func(input *ProductInput) { input.CategoryIDs = nil }, domain.ErrUnprocessable},
		{"unknown category", func(input *ProductInput) { input.CategoryIDs = []uuid.UUID{uuid.New()} }, domain.ErrUnprocessable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProductService(newMockProductRepository(), newMockCategoryRepository(electronics))

			input := valid
			tt.mutate(&input)

			product, err := svc.Create(context.Background(), input)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if product.ID == uuid.Nil {
					t.Error("expected an assigned product ID")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestProductServiceCreateTrimsName(t *testing.T) {
	electronics := testCategory("Eletrônicos")
	svc := NewProductService(newMockProductRepository(), newMockCategoryRepository(electronics))

	product, err := svc.Create(context.Background(), ProductInput{
		Name:        "  Smart TV  ",
		Description: "Lorem ipsum dolor sit amet",
		Price:       2190.0,
		CategoryIDs: []uuid.UUID{electronics.ID},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if product.Name != "Smart TV" {
		t.Errorf("expected trimmed name, got %q", product.Name)
	}
	if strings.TrimSpace(product.Name) != product.Name {
		t.Errorf("stored name still padded: %q", product.Name)
	}
}

func TestProductServiceUpdateUnknownProduct(t *testing.T) {
	electronics := testCategory("Eletrônicos")
	svc := NewProductService(newMockProductRepository(), newMockCategoryRepository(electronics))

	_, err := svc.Update(context.Background(), uuid.New(), ProductInput{
		Name:        "Smart TV",
		Description: "Lorem ipsum dolor sit amet",
		Price:       2190.0,
		CategoryIDs: []uuid.UUID{electronics.ID},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductServiceDeleteUnknownProduct(t *testing.T) {
	svc := NewProductService(newMockProductRepository(), newMockCategoryRepository())

	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductServiceFindByID(t *testing.T) {
	console := catalogProduct("Console Playstation", 1250.0)
	svc := NewProductService(newMockProductRepository(console), newMockCategoryRepository())

	found, err := svc.FindByID(context.Background(), console.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.ID != console.ID {
		t.Errorf("returned wrong product")
	}

	_, err = svc.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

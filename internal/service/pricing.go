package service

import (
	"context"
	"fmt"

	"dscommerce/internal/domain"
	"dscommerce/internal/repository"

	"github.com/google/uuid"
)

// OrderItemRequest is one requested (product, quantity) pair of a creation request.
type OrderItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// PricingEngine builds order items from requested (product, quantity) pairs.
// Each item freezes the product's current price as its unit price, so the
// order stays immutable against later catalog price changes.
type PricingEngine struct {
	products repository.ProductRepository
}

// NewPricingEngine creates a new PricingEngine
func NewPricingEngine(products repository.ProductRepository) *PricingEngine {
	return &PricingEngine{products: products}
}

// PopulateItems resolves every requested product against the catalog and
// attaches the resulting items to the order. A missing product fails the
// whole call with ErrNotFound; the order is only mutated in memory.
func (e *PricingEngine) PopulateItems(ctx context.Context, order *domain.Order, requests []OrderItemRequest) error {
	items := make([]domain.OrderItem, 0, len(requests))

	for _, req := range requests {
		if req.Quantity < 1 {
			return fmt.Errorf("product %s: quantity must be at least 1: %w", req.ProductID, domain.ErrUnprocessable)
		}

		product, err := e.products.FindByID(ctx, req.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				return fmt.Errorf("product %s: %w", req.ProductID, domain.ErrNotFound)
			}
			return fmt.Errorf("failed to resolve product %s: %w", req.ProductID, err)
		}

		items = append(items, domain.OrderItem{
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    req.Quantity,
		})
	}

	order.Items = items
	return nil
}

// Package store provides the product and order backends and the facade that
// selects between them. Three interchangeable implementations exist: an
// in-memory mock, a Google Sheets spreadsheet and a PostgreSQL database.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/safar/eyewear-store/internal/models"
)

type Store interface {
	Name() string
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProductStock(ctx context.Context, id int64, newStock int) (*models.Product, error)
	// DecrementStock checks availability and deducts in one step so that
	// two concurrent orders for the last unit cannot both succeed.
	DecrementStock(ctx context.Context, id int64, quantity int) (*models.Product, error)
	ValidateStock(ctx context.Context, items []models.StockRequest) (*models.StockValidation, error)
	LogOrder(ctx context.Context, order *models.Order) error
	ConnectionStatus(ctx context.Context) models.ConnectionStatus
}

// DataService is a thin strategy selector over the configured backends.
// Every Store method is a pass-through delegation to the active backend;
// switching migrates no data.
type DataService struct {
	mu       sync.RWMutex
	active   Store
	backends map[string]Store
}

func NewDataService(backends []Store, active string) (*DataService, error) {
	s := &DataService{backends: make(map[string]Store, len(backends))}
	for _, b := range backends {
		s.backends[b.Name()] = b
	}
	b, ok := s.backends[active]
	if !ok {
		return nil, fmt.Errorf("activate %q: %w", active, ErrUnknownStore)
	}
	s.active = b
	return s, nil
}

// Switch forces a different backend. Development convenience only; the
// selection is otherwise fixed for the process lifetime.
func (s *DataService) Switch(name string) (Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.backends[name]
	if !ok {
		return nil, fmt.Errorf("switch to %q: %w", name, ErrUnknownStore)
	}
	s.active = b
	return b, nil
}

func (s *DataService) Backends() []string {
	names := make([]string, 0, len(s.backends))
	for name := range s.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *DataService) store() Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *DataService) Name() string { return s.store().Name() }

func (s *DataService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.store().GetProducts(ctx)
}

func (s *DataService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.store().GetProductByID(ctx, id)
}

func (s *DataService) UpdateProductStock(ctx context.Context, id int64, newStock int) (*models.Product, error) {
	return s.store().UpdateProductStock(ctx, id, newStock)
}

func (s *DataService) DecrementStock(ctx context.Context, id int64, quantity int) (*models.Product, error) {
	return s.store().DecrementStock(ctx, id, quantity)
}

func (s *DataService) ValidateStock(ctx context.Context, items []models.StockRequest) (*models.StockValidation, error) {
	return s.store().ValidateStock(ctx, items)
}

func (s *DataService) LogOrder(ctx context.Context, order *models.Order) error {
	return s.store().LogOrder(ctx, order)
}

func (s *DataService) ConnectionStatus(ctx context.Context) models.ConnectionStatus {
	return s.store().ConnectionStatus(ctx)
}

// validateStockAgainst checks every requested item against the given product
// list, collecting all problems rather than stopping at the first.
func validateStockAgainst(products []models.Product, items []models.StockRequest) *models.StockValidation {
	byID := make(map[int64]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	result := &models.StockValidation{
		Valid:     true,
		Errors:    []models.StockIssue{},
		StockInfo: []models.StockInfo{},
	}
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, models.StockIssue{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: 0,
				Message:   fmt.Sprintf("product %d not found", item.ProductID),
			})
			continue
		}
		result.StockInfo = append(result.StockInfo, models.StockInfo{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   item.Quantity,
			Available:   p.Stock,
			InStock:     p.Stock > 0,
		})
		if p.Stock < item.Quantity {
			result.Valid = false
			result.Errors = append(result.Errors, models.StockIssue{
				ProductID: p.ID,
				Requested: item.Quantity,
				Available: p.Stock,
				Message:   fmt.Sprintf("insufficient stock for %q: requested %d, available %d", p.Name, item.Quantity, p.Stock),
			})
		}
	}
	return result
}

// cloneProduct deep-copies a product so callers can never alias the slices
// held inside a backend.
func cloneProduct(p *models.Product) *models.Product {
	out := *p
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		out.OriginalPrice = &op
	}
	out.Features = append([]string(nil), p.Features...)
	out.Colors = append([]string(nil), p.Colors...)
	out.Sizes = append([]string(nil), p.Sizes...)
	return &out
}

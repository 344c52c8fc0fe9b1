package store

import (
	"context"
	"sync"
	"time"

	"github.com/safar/eyewear-store/internal/models"
	"github.com/shopspring/decimal"
)

// MockStore keeps the seeded catalog and logged orders entirely in process
// memory. It is the fallback backend when neither postgres nor sheets is
// configured, and the workhorse for tests.
type MockStore struct {
	mu        sync.RWMutex
	products  []models.Product
	orders    []models.Order
	seedStock map[int64]int
	now       func() time.Time
}

func NewMockStore() *MockStore {
	s := &MockStore{now: time.Now}
	s.products = seedProducts()
	s.seedStock = make(map[int64]int, len(s.products))
	for i := range s.products {
		models.Normalize(&s.products[i])
		s.seedStock[s.products[i].ID] = s.products[i].Stock
	}
	return s
}

func (s *MockStore) Name() string { return "mock" }

func (s *MockStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for i := range s.products {
		out = append(out, *cloneProduct(&s.products[i]))
	}
	return out, nil
}

func (s *MockStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.find(id)
	if p == nil {
		return nil, ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (s *MockStore) UpdateProductStock(ctx context.Context, id int64, newStock int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return nil, ErrProductNotFound
	}
	p.SetStock(newStock, s.now())
	return cloneProduct(p), nil
}

func (s *MockStore) DecrementStock(ctx context.Context, id int64, quantity int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return nil, ErrProductNotFound
	}
	if p.Stock < quantity {
		return nil, ErrInsufficientStock
	}
	p.SetStock(p.Stock-quantity, s.now())
	return cloneProduct(p), nil
}

func (s *MockStore) ValidateStock(ctx context.Context, items []models.StockRequest) (*models.StockValidation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validateStockAgainst(s.products, items), nil
}

func (s *MockStore) LogOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, *order)
	return nil
}

// Orders returns the append-only order log. Nothing exposes order mutation.
func (s *MockStore) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.orders...)
}

func (s *MockStore) ConnectionStatus(ctx context.Context) models.ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ConnectionStatus{
		Store:     s.Name(),
		Connected: true,
		Detail:    "in-memory mock data",
	}
}

// ResetData restores every product's stock to its seed value and clears the
// order log.
func (s *MockStore) ResetData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for i := range s.products {
		s.products[i].SetStock(s.seedStock[s.products[i].ID], now)
	}
	s.orders = nil
}

// find returns a pointer into s.products; callers must hold the lock and
// clone before returning.
func (s *MockStore) find(id int64) *models.Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func pricePtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func seedProducts() []models.Product {
	seeded := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	at := func(d int) time.Time { return seeded.AddDate(0, 0, d) }

	return []models.Product{
		{
			ID: 1, Name: "Aviator Classic", Price: price("1329"), OriginalPrice: pricePtr("1899"),
			Category: "sunglasses", ImageURL: "/images/aviator-classic.jpg",
			Stock: 15, SKU: "EYE-AVC-001",
			Description: "Timeless teardrop lenses with a lightweight gold-tone metal frame and UV400 protection.",
			Rating:      4.6, Reviews: 214, Badge: "Bestseller", Discount: 30,
			Features: []string{"UV400 protection", "Polarized lenses", "Metal frame"},
			Colors:   []string{"Gold", "Silver", "Black"},
			Sizes:    []string{"58mm", "62mm"},
			CreatedAt: at(0), UpdatedAt: at(0),
		},
		{
			ID: 2, Name: "Wayfarer Matte", Price: price("1099"),
			Category: "sunglasses", ImageURL: "/images/wayfarer-matte.jpg",
			Stock: 22, SKU: "EYE-WFM-002",
			Description: "Matte acetate wayfarer with smoke gradient lenses.",
			Rating:      4.4, Reviews: 156,
			Features: []string{"UV400 protection", "Scratch-resistant coating"},
			Colors:   []string{"Matte Black", "Tortoise"},
			Sizes:    []string{"52mm"},
			CreatedAt: at(1), UpdatedAt: at(1),
		},
		{
			ID: 3, Name: "Round Metal Reader", Price: price("849"), OriginalPrice: pricePtr("999"),
			Category: "eyeglasses", ImageURL: "/images/round-metal-reader.jpg",
			Stock: 9, SKU: "EYE-RMR-003",
			Description: "Thin round metal frame with blue-light filtering demo lenses.",
			Rating:      4.2, Reviews: 87, Discount: 15,
			Features: []string{"Blue-light filter", "Adjustable nose pads"},
			Colors:   []string{"Gunmetal", "Rose Gold"},
			Sizes:    []string{"49mm"},
			CreatedAt: at(2), UpdatedAt: at(2),
		},
		{
			ID: 4, Name: "Sprint Wrap Pro", Price: price("1549"),
			Category: "sports", ImageURL: "/images/sprint-wrap-pro.jpg",
			Stock: 6, SKU: "EYE-SWP-004",
			Description: "Wrap-around polycarbonate sports frame with interchangeable lenses.",
			Rating:      4.8, Reviews: 312, Badge: "New",
			Features: []string{"Interchangeable lenses", "Anti-fog coating", "Rubber grip"},
			Colors:   []string{"Neon Green", "Black"},
			Sizes:    []string{"One Size"},
			CreatedAt: at(3), UpdatedAt: at(3),
		},
		{
			ID: 5, Name: "Cat-Eye Luxe", Price: price("1799"), OriginalPrice: pricePtr("2299"),
			Category: "sunglasses", ImageURL: "/images/cat-eye-luxe.jpg",
			Stock: 0, SKU: "EYE-CEL-005",
			Description: "Bold cat-eye silhouette in glossy acetate with gradient lenses.",
			Rating:      4.5, Reviews: 98, Badge: "Limited", Discount: 22,
			Features: []string{"UV400 protection", "Gradient lenses"},
			Colors:   []string{"Glossy Black", "Ivory"},
			Sizes:    []string{"54mm"},
			CreatedAt: at(4), UpdatedAt: at(4),
		},
		{
			ID: 6, Name: "Titanium Air Frame", Price: price("2499"),
			Category: "eyeglasses", ImageURL: "/images/titanium-air.jpg",
			Stock: 11, SKU: "EYE-TAF-006",
			Description: "Featherweight titanium rectangle frame, hypoallergenic and flexible.",
			Rating:      4.9, Reviews: 143, Badge: "Premium",
			Features: []string{"Titanium build", "Flex hinges", "Hypoallergenic"},
			Colors:   []string{"Graphite", "Navy"},
			Sizes:    []string{"51mm", "54mm"},
			CreatedAt: at(5), UpdatedAt: at(5),
		},
		{
			ID: 7, Name: "Retro Square Tint", Price: price("949"),
			Category: "sunglasses", ImageURL: "/images/retro-square-tint.jpg",
			Stock: 18, SKU: "EYE-RST-007",
			Description: "Seventies-inspired square frame with amber tinted lenses.",
			Rating:      4.1, Reviews: 64,
			Features: []string{"UV400 protection", "Tinted lenses"},
			Colors:   []string{"Amber", "Brown"},
			Sizes:    []string{"55mm"},
			CreatedAt: at(6), UpdatedAt: at(6),
		},
		{
			ID: 8, Name: "Trail Runner Shield", Price: price("1899"),
			Category: "sports", ImageURL: "/images/trail-runner-shield.jpg",
			Stock: 4, SKU: "EYE-TRS-008",
			Description: "Single-shield photochromic lens for trail running and cycling.",
			Rating:      4.7, Reviews: 201, Badge: "Bestseller",
			Features: []string{"Photochromic lens", "Ventilated frame", "Anti-slip temples"},
			Colors:   []string{"White", "Crimson"},
			Sizes:    []string{"One Size"},
			CreatedAt: at(7), UpdatedAt: at(7),
		},
	}
}

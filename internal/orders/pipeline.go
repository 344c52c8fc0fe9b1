// Package orders implements the order placement pipeline: input validation,
// stock validation, fulfillment-time pricing, persistence and inventory
// decrement.
package orders

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/safar/eyewear-store/internal/models"
	"github.com/safar/eyewear-store/internal/store"
	"github.com/shopspring/decimal"
)

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	// Orders at or above the threshold ship free; below it a flat fee applies.
	FreeShippingThreshold = decimal.NewFromInt(999)
	FlatShippingCost      = decimal.NewFromInt(99)
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

type PlaceOrderRequest struct {
	Items           []models.StockRequest `json:"items"`
	CustomerInfo    models.CustomerInfo   `json:"customerInfo"`
	ShippingAddress string                `json:"shippingAddress"`
	PaymentMethod   models.PaymentMethod  `json:"paymentMethod"`
	Notes           string                `json:"notes"`
}

type TrackingSummary struct {
	Placed         bool `json:"placed"`
	PaymentPending bool `json:"paymentPending"`
	Processing     bool `json:"processing"`
	Shipped        bool `json:"shipped"`
	Delivered      bool `json:"delivered"`
}

// OrderConfirmation is the created order plus the derived delivery estimate
// and a denormalized tracking summary.
type OrderConfirmation struct {
	*models.Order
	EstimatedDelivery string          `json:"estimatedDelivery"`
	Tracking          TrackingSummary `json:"tracking"`
}

// PlaceOrder runs the pipeline in order, each step an abort point:
// validate input, generate an id, validate stock across all items, price the
// order from freshly fetched products (never from client input), persist it,
// then decrement stock per item atomically.
func (s *Service) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderConfirmation, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	orderID := s.newOrderID()

	validation, err := s.store.ValidateStock(ctx, aggregateQuantities(req.Items))
	if err != nil {
		return nil, fmt.Errorf("validate stock: %w", err)
	}
	if !validation.Valid {
		// Whole-order abort: nothing persisted, no stock touched.
		return nil, &StockError{Result: validation}
	}

	now := s.now()
	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, reqItem := range req.Items {
		p, err := s.store.GetProductByID(ctx, reqItem.ProductID)
		if err != nil {
			return nil, fmt.Errorf("fetch product %d: %w", reqItem.ProductID, err)
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(reqItem.Quantity)))
		items = append(items, models.OrderItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			SKU:           p.SKU,
			Quantity:      reqItem.Quantity,
			UnitPrice:     p.Price,
			TotalPrice:    lineTotal,
			SelectedColor: reqItem.SelectedColor,
			SelectedSize:  reqItem.SelectedSize,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	shipping := FlatShippingCost
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	order := &models.Order{
		OrderID:         orderID,
		Items:           items,
		Customer:        req.CustomerInfo,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		TotalAmount:     subtotal.Add(shipping),
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
	}

	if err := s.store.LogOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := s.store.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
	}

	return &OrderConfirmation{
		Order:             order,
		EstimatedDelivery: now.AddDate(0, 0, req.PaymentMethod.DeliveryDays()).Format("2006-01-02"),
		Tracking: TrackingSummary{
			Placed:         true,
			PaymentPending: req.PaymentMethod == models.PaymentCOD,
		},
	}, nil
}

// ValidateStock is the pre-checkout check behind POST /api/orders/validate-stock.
func (s *Service) ValidateStock(ctx context.Context, items []models.StockRequest) (*models.StockValidation, error) {
	if verr := validateItems(items); verr != nil {
		return nil, verr
	}
	result, err := s.store.ValidateStock(ctx, aggregateQuantities(items))
	if err != nil {
		return nil, fmt.Errorf("validate stock: %w", err)
	}
	return result, nil
}

// aggregateQuantities sums quantities of repeated products so duplicate
// line items are validated against their combined demand, not each line
// against full stock.
func aggregateQuantities(items []models.StockRequest) []models.StockRequest {
	index := make(map[int64]int, len(items))
	out := make([]models.StockRequest, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, models.StockRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

func (s *Service) newOrderID() string {
	token := make([]byte, 8)
	for i := range token {
		token[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return fmt.Sprintf("EYE-%d-%s", s.now().UnixMilli(), token)
}

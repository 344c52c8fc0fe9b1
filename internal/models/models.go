package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Category      string           `json:"category"`
	ImageURL      string           `json:"imageUrl"`
	Stock         int              `json:"stock"`
	SKU           string           `json:"sku"`
	Description   string           `json:"description,omitempty"`
	InStock       bool             `json:"inStock"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	Badge         string           `json:"badge,omitempty"`
	Discount      int              `json:"discount,omitempty"`
	Features      []string         `json:"features"`
	Colors        []string         `json:"colors"`
	Sizes         []string         `json:"sizes"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// SetStock overwrites the stock count and keeps the derived fields in sync.
// InStock must never be written independently of Stock.
func (p *Product) SetStock(stock int, now time.Time) {
	if stock < 0 {
		stock = 0
	}
	p.Stock = stock
	p.InStock = stock > 0
	p.UpdatedAt = now
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "net_banking"
	PaymentCOD        PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentNetBanking, PaymentCOD:
		return true
	}
	return false
}

// DeliveryDays returns the delivery estimate in days for the payment method.
// cod carries a handling buffer, instant payments ship faster.
func (m PaymentMethod) DeliveryDays() int {
	switch m {
	case PaymentCOD:
		return 7
	case PaymentUPI, PaymentNetBanking:
		return 3
	default:
		return 5
	}
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderItem carries a snapshot of the product at order time. Later product
// edits must not retroactively change persisted orders.
type OrderItem struct {
	ProductID     int64           `json:"productId"`
	ProductName   string          `json:"productName"`
	SKU           string          `json:"sku"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
}

type Order struct {
	OrderID         string          `json:"orderId"`
	Items           []OrderItem     `json:"items"`
	Customer        CustomerInfo    `json:"customerInfo"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Notes           string          `json:"notes,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// StockRequest is one requested line item, before any pricing.
type StockRequest struct {
	ProductID     int64  `json:"productId"`
	Quantity      int    `json:"quantity"`
	SelectedColor string `json:"selectedColor,omitempty"`
	SelectedSize  string `json:"selectedSize,omitempty"`
}

type StockIssue struct {
	ProductID int64  `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Message   string `json:"message"`
}

type StockInfo struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	InStock     bool   `json:"inStock"`
}

// StockValidation reports every problem across the requested items at once,
// plus a per-item availability snapshot, so a single rejection can explain
// the whole order.
type StockValidation struct {
	Valid     bool         `json:"valid"`
	Errors    []StockIssue `json:"errors"`
	StockInfo []StockInfo  `json:"stockInfo"`
}

type ConnectionStatus struct {
	Store     string `json:"store"`
	Connected bool   `json:"connected"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

package orders

import (
	"fmt"
	"strings"

	"github.com/safar/eyewear-store/internal/models"
)

const (
	maxOrderItems   = 50
	maxItemQuantity = 100
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field-level problem in one rejection.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// StockError carries the full per-item breakdown of a failed stock check.
type StockError struct {
	Result *models.StockValidation
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Result.Errors))
}

// Validate performs the structural and range checks of the pipeline's first
// step, collecting all errors rather than stopping at the first.
func (r *PlaceOrderRequest) Validate() *ValidationError {
	var fields []FieldError

	if verr := validateItems(r.Items); verr != nil {
		fields = append(fields, verr.Fields...)
	}

	if strings.TrimSpace(r.CustomerInfo.Name) == "" {
		fields = append(fields, FieldError{"customerInfo.name", "name is required"})
	}
	email := strings.TrimSpace(r.CustomerInfo.Email)
	if email == "" {
		fields = append(fields, FieldError{"customerInfo.email", "email is required"})
	} else if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		fields = append(fields, FieldError{"customerInfo.email", "email is not valid"})
	}
	if strings.TrimSpace(r.CustomerInfo.Phone) == "" {
		fields = append(fields, FieldError{"customerInfo.phone", "phone is required"})
	}
	if strings.TrimSpace(r.ShippingAddress) == "" {
		fields = append(fields, FieldError{"shippingAddress", "shipping address is required"})
	}
	if !r.PaymentMethod.Valid() {
		fields = append(fields, FieldError{"paymentMethod", "payment method must be one of credit_card, debit_card, upi, net_banking, cod"})
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func validateItems(items []models.StockRequest) *ValidationError {
	var fields []FieldError

	switch {
	case len(items) == 0:
		fields = append(fields, FieldError{"items", "at least one item is required"})
	case len(items) > maxOrderItems:
		fields = append(fields, FieldError{"items", fmt.Sprintf("at most %d items allowed", maxOrderItems)})
	}

	for i, item := range items {
		if item.ProductID <= 0 {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: "productId must be a positive integer",
			})
		}
		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: fmt.Sprintf("quantity must be between 1 and %d", maxItemQuantity),
			})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/safar/eyewear-store/internal/database"
	"github.com/safar/eyewear-store/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, price, original_price, category, image_url, stock, sku,
	description, rating, reviews, badge, discount, features, colors, sizes,
	created_at, updated_at`

// PostgresStore is the transactional backend. Stock reservation uses a
// conditional decrement so concurrent orders can never oversubscribe
// inventory.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return "postgres" }

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var (
		originalPrice decimal.NullDecimal
		badge         sql.NullString
		discount      sql.NullInt64
		features      pq.StringArray
		colors        pq.StringArray
		sizes         pq.StringArray
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &originalPrice, &p.Category, &p.ImageURL,
		&p.Stock, &p.SKU, &p.Description, &p.Rating, &p.Reviews,
		&badge, &discount, &features, &colors, &sizes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if originalPrice.Valid {
		p.OriginalPrice = &originalPrice.Decimal
	}
	p.Badge = badge.String
	p.Discount = int(discount.Int64)
	p.Features = features
	p.Colors = colors
	p.Sizes = sizes
	models.Normalize(p)
	return p, nil
}

func (s *PostgresStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProductStock(ctx context.Context, id int64, newStock int) (*models.Product, error) {
	if newStock < 0 {
		newStock = 0
	}
	query := `
		UPDATE products
		SET stock = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, newStock, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update stock: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) DecrementStock(ctx context.Context, id int64, quantity int) (*models.Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2
		  AND stock >= $1
		RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, quantity, id))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	// Distinguish a missing product from an insufficient one.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return nil, ErrProductNotFound
	}
	return nil, ErrInsufficientStock
}

func (s *PostgresStore) ValidateStock(ctx context.Context, items []models.StockRequest) (*models.StockValidation, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	return validateStockAgainst(products, items), nil
}

func (s *PostgresStore) LogOrder(ctx context.Context, order *models.Order) error {
	return database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO orders (order_id, customer_name, customer_email, customer_phone,
				shipping_address, payment_method, notes, subtotal, shipping_cost,
				total_amount, status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			order.OrderID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
			order.ShippingAddress, string(order.PaymentMethod), order.Notes,
			order.Subtotal, order.ShippingCost, order.TotalAmount,
			string(order.Status), order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, sku,
					quantity, unit_price, total_price, selected_color, selected_size)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				order.OrderID, item.ProductID, item.ProductName, item.SKU,
				item.Quantity, item.UnitPrice, item.TotalPrice,
				item.SelectedColor, item.SelectedSize)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

// GetOrder reads a persisted order back with its line items. Not part of the
// HTTP surface; used by tooling and tests.
func (s *PostgresStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := &models.Order{}
	var paymentMethod, status string
	err := s.db.QueryRowContext(ctx,
		`SELECT order_id, customer_name, customer_email, customer_phone,
			shipping_address, payment_method, notes, subtotal, shipping_cost,
			total_amount, status, created_at
		 FROM orders WHERE order_id = $1`, orderID).Scan(
		&order.OrderID, &order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&order.ShippingAddress, &paymentMethod, &order.Notes,
		&order.Subtotal, &order.ShippingCost, &order.TotalAmount,
		&status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	order.PaymentMethod = models.PaymentMethod(paymentMethod)
	order.Status = models.OrderStatus(status)

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, product_name, sku, quantity, unit_price, total_price,
			selected_color, selected_size
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.SKU,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&item.SelectedColor, &item.SelectedSize); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return order, nil
}

func (s *PostgresStore) ConnectionStatus(ctx context.Context) models.ConnectionStatus {
	if err := s.db.PingContext(ctx); err != nil {
		return models.ConnectionStatus{Store: s.Name(), Connected: false, Error: err.Error()}
	}
	return models.ConnectionStatus{Store: s.Name(), Connected: true, Detail: "postgres reachable"}
}

// CreateProduct inserts a full product row. Used by seeding tooling and the
// integration tests; the HTTP surface is read-only for products.
func (s *PostgresStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	models.Normalize(p)
	var originalPrice decimal.NullDecimal
	if p.OriginalPrice != nil {
		originalPrice = decimal.NullDecimal{Decimal: *p.OriginalPrice, Valid: true}
	}
	var badge sql.NullString
	if p.Badge != "" {
		badge = sql.NullString{String: p.Badge, Valid: true}
	}
	var discount sql.NullInt64
	if p.Discount != 0 {
		discount = sql.NullInt64{Int64: int64(p.Discount), Valid: true}
	}

	query := `
		INSERT INTO products (name, price, original_price, category, image_url, stock,
			sku, description, rating, reviews, badge, discount, features, colors, sizes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING ` + productColumns

	created, err := scanProduct(s.db.QueryRowContext(ctx, query,
		p.Name, p.Price, originalPrice, p.Category, p.ImageURL, p.Stock,
		p.SKU, p.Description, p.Rating, p.Reviews, badge, discount,
		pq.Array(p.Features), pq.Array(p.Colors), pq.Array(p.Sizes)))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

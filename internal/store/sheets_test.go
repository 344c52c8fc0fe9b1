package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/safar/eyewear-store/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSheets emulates just enough of a spreadsheet for the store: a
// Products tab addressed by the ranges the store uses, and an Orders tab
// accumulating appended rows.
type fakeSheets struct {
	products   [][]interface{}
	orderRows  [][]interface{}
	hasHeader  bool
	failGets   bool
	titleError error
	updates    []string
}

func (f *fakeSheets) Get(ctx context.Context, readRange string) ([][]interface{}, error) {
	if f.failGets {
		return nil, errors.New("quota exceeded")
	}
	switch {
	case readRange == productsRange:
		return f.products, nil
	case readRange == productIDColumn:
		out := make([][]interface{}, len(f.products))
		for i, row := range f.products {
			if len(row) > 0 {
				out[i] = []interface{}{row[0]}
			} else {
				out[i] = []interface{}{}
			}
		}
		return out, nil
	case readRange == ordersHeader:
		if !f.hasHeader {
			return nil, errors.New("unable to parse range: Orders!A1:I1")
		}
		return [][]interface{}{ordersHeaderRow}, nil
	case strings.HasPrefix(readRange, "Products!A"):
		// single-row read, e.g. Products!A3:H3
		var row int
		fmt.Sscanf(readRange, "Products!A%d", &row)
		idx := row - 2
		if idx < 0 || idx >= len(f.products) {
			return nil, nil
		}
		return [][]interface{}{f.products[idx]}, nil
	}
	return nil, fmt.Errorf("unexpected range %q", readRange)
}

func (f *fakeSheets) Update(ctx context.Context, writeRange string, values [][]interface{}) error {
	f.updates = append(f.updates, writeRange)
	if writeRange == ordersHeader {
		f.hasHeader = true
		return nil
	}
	if strings.HasPrefix(writeRange, "Products!"+stockColumn) {
		row, err := strconv.Atoi(strings.TrimPrefix(writeRange, "Products!"+stockColumn))
		if err != nil {
			return err
		}
		f.products[row-2][5] = values[0][0]
		return nil
	}
	return fmt.Errorf("unexpected range %q", writeRange)
}

func (f *fakeSheets) Append(ctx context.Context, appendRange string, values [][]interface{}) error {
	f.orderRows = append(f.orderRows, values...)
	return nil
}

func (f *fakeSheets) Title(ctx context.Context) (string, error) {
	if f.titleError != nil {
		return "", f.titleError
	}
	return "Eyewear Inventory", nil
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{
		products: [][]interface{}{
			{"1", "Aviator Classic", "1329", "sunglasses", "/img/1.jpg", "15", "EYE-AVC-001", "Classic teardrop frame"},
			{"2", "Wayfarer Matte", "1099", "sunglasses", "/img/2.jpg", "22", "EYE-WFM-002", "Matte acetate"},
			{"", "", "", "", "", "", "", ""},
			{"4", "Sprint Wrap Pro", "1549.5", "sports", "/img/4.jpg", "6", "EYE-SWP-004", "Wrap-around"},
		},
	}
}

func TestSheetStoreGetProductsMapsRows(t *testing.T) {
	s := NewSheetStore(newFakeSheets())
	products, err := s.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3) // the all-empty row is skipped entirely

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Aviator Classic", products[0].Name)
	assert.Equal(t, "1329", products[0].Price.String())
	assert.Equal(t, 15, products[0].Stock)
	assert.True(t, products[0].InStock)
	assert.Equal(t, "1549.5", products[2].Price.String())
}

func TestSheetStoreMalformedRowDegradesToDefaults(t *testing.T) {
	fake := newFakeSheets()
	fake.products[2] = []interface{}{"x", "", "not-a-price", "", "", "oops", "", ""}
	s := NewSheetStore(fake)

	products, err := s.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 4)

	bad := products[2]
	assert.Equal(t, int64(3), bad.ID) // row index + 1
	assert.Equal(t, models.DefaultProductName, bad.Name)
	assert.True(t, bad.Price.Equal(decimal.Zero))
	assert.Equal(t, 0, bad.Stock)
	assert.False(t, bad.InStock)
	assert.Equal(t, "SKU-3", bad.SKU)
}

func TestSheetStoreGetProductByID(t *testing.T) {
	s := NewSheetStore(newFakeSheets())

	p, err := s.GetProductByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Sprint Wrap Pro", p.Name)

	_, err = s.GetProductByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSheetStoreUpdateStockWritesSingleCell(t *testing.T) {
	fake := newFakeSheets()
	s := NewSheetStore(fake)

	p, err := s.UpdateProductStock(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	assert.Contains(t, fake.updates, "Products!F3")

	_, err = s.UpdateProductStock(context.Background(), 42, 7)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSheetStoreDecrementStock(t *testing.T) {
	fake := newFakeSheets()
	s := NewSheetStore(fake)
	ctx := context.Background()

	p, err := s.DecrementStock(ctx, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
	assert.True(t, p.InStock)

	_, err = s.DecrementStock(ctx, 4, 100)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestSheetStoreLogOrderWritesHeaderLazily(t *testing.T) {
	fake := newFakeSheets()
	s := NewSheetStore(fake)
	ctx := context.Background()

	order := &models.Order{
		OrderID: "EYE-1748000000000-AB12CD34",
		Items: []models.OrderItem{
			{ProductName: "Aviator Classic", SKU: "EYE-AVC-001", Quantity: 2},
		},
		Customer:        models.CustomerInfo{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		ShippingAddress: "12 MG Road, Bengaluru",
		TotalAmount:     decimal.NewFromInt(2658),
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC),
	}

	require.NoError(t, s.LogOrder(ctx, order))
	assert.True(t, fake.hasHeader)
	require.Len(t, fake.orderRows, 1)
	assert.Equal(t, "EYE-1748000000000-AB12CD34", fake.orderRows[0][0])
	assert.Equal(t, "Aviator Classic x 2 (EYE-AVC-001)", fake.orderRows[0][6])

	// Second order must not rewrite the header.
	headerWrites := len(fake.updates)
	require.NoError(t, s.LogOrder(ctx, order))
	assert.Len(t, fake.updates, headerWrites)
	assert.Len(t, fake.orderRows, 2)
}

func TestSheetStoreConnectionStatus(t *testing.T) {
	fake := newFakeSheets()
	s := NewSheetStore(fake)

	status := s.ConnectionStatus(context.Background())
	assert.True(t, status.Connected)
	assert.Contains(t, status.Detail, "Eyewear Inventory")

	fake.titleError = errors.New("permission denied")
	status = s.ConnectionStatus(context.Background())
	assert.False(t, status.Connected)
	assert.Equal(t, "permission denied", status.Error)
}

func TestSheetStoreUpstreamFailure(t *testing.T) {
	fake := newFakeSheets()
	fake.failGets = true
	s := NewSheetStore(fake)

	_, err := s.GetProducts(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

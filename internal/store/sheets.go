package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/safar/eyewear-store/internal/config"
	"github.com/safar/eyewear-store/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	productsRange   = "Products!A2:H"
	productIDColumn = "Products!A2:A"
	ordersHeader    = "Orders!A1:I1"
	ordersRange     = "Orders!A:I"

	// sheet column holding the stock count.
	stockColumn = "F"
)

var ordersHeaderRow = []interface{}{
	"Order ID", "Date", "Customer Name", "Email", "Phone",
	"Shipping Address", "Items", "Total Amount", "Status",
}

// sheetsAPI is the narrow slice of the Google Sheets API the store needs.
// Unit tests substitute a fake; production wires the real service.
type sheetsAPI interface {
	Get(ctx context.Context, readRange string) ([][]interface{}, error)
	Update(ctx context.Context, writeRange string, values [][]interface{}) error
	Append(ctx context.Context, appendRange string, values [][]interface{}) error
	Title(ctx context.Context) (string, error)
}

// SheetStore treats a Google Sheets spreadsheet as the system of record.
// Every read is a full-table fetch; there is no local cache. Writes are
// read-modify-write against single cells, serialized by a process-local
// mutex only. Concurrent writers in other processes can still lose
// updates, which the spreadsheet offers no primitive to prevent.
type SheetStore struct {
	mu  sync.Mutex
	api sheetsAPI
}

func NewSheetStore(api sheetsAPI) *SheetStore {
	return &SheetStore{api: api}
}

// NewGoogleSheetStore builds a SheetStore over the real Sheets API using a
// service-account JWT.
func NewGoogleSheetStore(ctx context.Context, cfg config.SheetsConfig) (*SheetStore, error) {
	conf := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewSheetStore(&googleSheetsAPI{svc: svc, spreadsheetID: cfg.SpreadsheetID}), nil
}

func (s *SheetStore) Name() string { return "sheets" }

func (s *SheetStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.api.Get(ctx, productsRange)
	if err != nil {
		return nil, upstream("fetch products", err)
	}
	products := make([]models.Product, 0, len(rows))
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		p := productFromRow(row, i)
		models.Normalize(&p)
		products = append(products, p)
	}
	return products, nil
}

func (s *SheetStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *SheetStore) UpdateProductStock(ctx context.Context, id int64, newStock int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheetRow, err := s.findProductRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if newStock < 0 {
		newStock = 0
	}
	if err := s.writeStock(ctx, sheetRow, newStock); err != nil {
		return nil, err
	}
	return s.readProductRow(ctx, sheetRow)
}

func (s *SheetStore) DecrementStock(ctx context.Context, id int64, quantity int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheetRow, err := s.findProductRow(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.readProductRow(ctx, sheetRow)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, ErrInsufficientStock
	}
	if err := s.writeStock(ctx, sheetRow, p.Stock-quantity); err != nil {
		return nil, err
	}
	p.Stock -= quantity
	p.InStock = p.Stock > 0
	return p, nil
}

func (s *SheetStore) ValidateStock(ctx context.Context, items []models.StockRequest) (*models.StockValidation, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	return validateStockAgainst(products, items), nil
}

func (s *SheetStore) LogOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureOrdersHeader(ctx); err != nil {
		return err
	}

	row := []interface{}{
		order.OrderID,
		order.CreatedAt.Format("2006-01-02 15:04:05"),
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		order.ShippingAddress,
		serializeItems(order.Items),
		order.TotalAmount.String(),
		string(order.Status),
	}
	if err := s.api.Append(ctx, ordersRange, [][]interface{}{row}); err != nil {
		return upstream("append order", err)
	}
	return nil
}

func (s *SheetStore) ConnectionStatus(ctx context.Context) models.ConnectionStatus {
	title, err := s.api.Title(ctx)
	if err != nil {
		return models.ConnectionStatus{Store: s.Name(), Connected: false, Error: err.Error()}
	}
	return models.ConnectionStatus{Store: s.Name(), Connected: true, Detail: "spreadsheet: " + title}
}

// ensureOrdersHeader writes the header row the first time the orders sheet
// is used. An unreadable or empty header range means the sheet has not been
// initialized yet.
func (s *SheetStore) ensureOrdersHeader(ctx context.Context) error {
	rows, err := s.api.Get(ctx, ordersHeader)
	if err == nil && len(rows) > 0 && !rowEmpty(rows[0]) {
		return nil
	}
	if err := s.api.Update(ctx, ordersHeader, [][]interface{}{ordersHeaderRow}); err != nil {
		return upstream("write orders header", err)
	}
	return nil
}

// findProductRow re-reads the id column and returns the 1-based sheet row
// of the product, or ErrProductNotFound.
func (s *SheetStore) findProductRow(ctx context.Context, id int64) (int, error) {
	rows, err := s.api.Get(ctx, productIDColumn)
	if err != nil {
		return 0, upstream("locate product", err)
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if cellInt64(row, 0, 0) == id {
			return i + 2, nil // data starts at sheet row 2
		}
	}
	return 0, ErrProductNotFound
}

func (s *SheetStore) readProductRow(ctx context.Context, sheetRow int) (*models.Product, error) {
	rng := fmt.Sprintf("Products!A%d:H%d", sheetRow, sheetRow)
	rows, err := s.api.Get(ctx, rng)
	if err != nil {
		return nil, upstream("read product row", err)
	}
	if len(rows) == 0 || rowEmpty(rows[0]) {
		return nil, ErrProductNotFound
	}
	p := productFromRow(rows[0], sheetRow-2)
	models.Normalize(&p)
	return &p, nil
}

func (s *SheetStore) writeStock(ctx context.Context, sheetRow, stock int) error {
	rng := fmt.Sprintf("Products!%s%d", stockColumn, sheetRow)
	if err := s.api.Update(ctx, rng, [][]interface{}{{strconv.Itoa(stock)}}); err != nil {
		return upstream("write stock", err)
	}
	return nil
}

// productFromRow maps one spreadsheet row positionally:
// A id, B name, C price, D category, E imageUrl, F stock, G sku,
// H description. Malformed cells degrade per-field to defaults so a single
// bad row never takes down the catalog.
func productFromRow(row []interface{}, index int) models.Product {
	id := cellInt64(row, 0, int64(index+1))
	sku := cellString(row, 6)
	if sku == "" {
		sku = fmt.Sprintf("SKU-%d", id)
	}
	return models.Product{
		ID:          id,
		Name:        cellString(row, 1),
		Price:       cellDecimal(row, 2),
		Category:    cellString(row, 3),
		ImageURL:    cellString(row, 4),
		Stock:       int(cellInt64(row, 5, 0)),
		SKU:         sku,
		Description: cellString(row, 7),
	}
}

func serializeItems(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x %d (%s)", it.ProductName, it.Quantity, it.SKU))
	}
	return strings.Join(parts, "; ")
}

func rowEmpty(row []interface{}) bool {
	for i := range row {
		if cellString(row, i) != "" {
			return false
		}
	}
	return true
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func cellInt64(row []interface{}, idx int, fallback int64) int64 {
	raw := cellString(row, idx)
	if raw == "" {
		return fallback
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(f)
	}
	return fallback
}

func cellDecimal(row []interface{}, idx int) decimal.Decimal {
	raw := cellString(row, idx)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// googleSheetsAPI adapts the generated sheets/v4 client to sheetsAPI.
type googleSheetsAPI struct {
	svc           *sheets.Service
	spreadsheetID string
}

func (g *googleSheetsAPI) Get(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleSheetsAPI) Update(ctx context.Context, writeRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return err
}

func (g *googleSheetsAPI) Append(ctx context.Context, appendRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

func (g *googleSheetsAPI) Title(ctx context.Context) (string, error) {
	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("properties.title").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if meta.Properties == nil {
		return "", nil
	}
	return meta.Properties.Title, nil
}

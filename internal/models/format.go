package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultProductName is substituted when a record arrives without a name.
const DefaultProductName = "Unnamed Product"

// Normalize sanitizes a product coming from any backend (seed data, a
// spreadsheet row, a database scan) into the canonical shape: trimmed
// strings, price rounded to 2 places, rating clamped to [0,5], negative
// counts floored, non-nil slices and the derived InStock recomputed.
func Normalize(p *Product) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = DefaultProductName
	}
	p.Category = strings.TrimSpace(p.Category)
	p.SKU = strings.TrimSpace(p.SKU)
	p.Description = strings.TrimSpace(p.Description)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Badge = strings.TrimSpace(p.Badge)

	if p.Price.IsNegative() {
		p.Price = decimal.Zero
	}
	p.Price = p.Price.Round(2)
	if p.OriginalPrice != nil {
		rounded := p.OriginalPrice.Round(2)
		p.OriginalPrice = &rounded
	}

	if p.Rating < 0 {
		p.Rating = 0
	} else if p.Rating > 5 {
		p.Rating = 5
	}
	if p.Reviews < 0 {
		p.Reviews = 0
	}
	if p.Discount < 0 {
		p.Discount = 0
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	p.InStock = p.Stock > 0

	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
}

// Package catalog implements filtering, search, sorting, pagination and
// facet counting over a product list. All operations are pure functions on
// an already-fetched slice; the stores stay oblivious to query semantics.
package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/safar/eyewear-store/internal/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultLimit  = 50
	MaxLimit      = 100
	maxSuggestion = 10
)

type Filter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  *bool
	Search   string
}

type Sorting struct {
	By    string // name, price, stock, createdAt
	Order string // asc, desc
}

type Page struct {
	Limit  int
	Offset int
}

type Result struct {
	Items   []models.Product
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

type CategoryFacet struct {
	Name         string `json:"name"`
	Count        int    `json:"count"`
	InStockCount int    `json:"inStockCount"`
}

// Query applies every supplied filter as a logical AND, then sorts and
// paginates. An omitted filter never narrows results.
func Query(products []models.Product, f Filter, s Sorting, p Page) Result {
	filtered := make([]models.Product, 0, len(products))
	for i := range products {
		if f.matches(&products[i]) {
			filtered = append(filtered, products[i])
		}
	}

	sortProducts(filtered, s)

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Result{
		Items:   filtered[start:end],
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
	}
}

func (f Filter) matches(p *models.Product) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) &&
			!strings.Contains(strings.ToLower(p.Badge), q) {
			return false
		}
	}
	return true
}

// sortProducts sorts in place. SliceStable keeps the relative order of equal
// keys so paginated pages of a fixed sort never reshuffle.
func sortProducts(products []models.Product, s Sorting) {
	desc := strings.EqualFold(s.Order, "desc")

	var cmp func(a, b *models.Product) int
	switch s.By {
	case "price":
		cmp = func(a, b *models.Product) int { return a.Price.Cmp(b.Price) }
	case "stock":
		cmp = func(a, b *models.Product) int { return a.Stock - b.Stock }
	case "createdAt":
		cmp = func(a, b *models.Product) int {
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				return -1
			case a.CreatedAt.After(b.CreatedAt):
				return 1
			default:
				return 0
			}
		}
	default: // name
		cmp = func(a, b *models.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		c := cmp(&products[i], &products[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// Categories counts products per category, case-insensitively, preserving
// the casing of the first occurrence. Output is sorted by name.
func Categories(products []models.Product) []CategoryFacet {
	index := make(map[string]*CategoryFacet)
	for i := range products {
		p := &products[i]
		if p.Category == "" {
			continue
		}
		key := strings.ToLower(p.Category)
		facet, ok := index[key]
		if !ok {
			facet = &CategoryFacet{Name: p.Category}
			index[key] = facet
		}
		facet.Count++
		if p.InStock {
			facet.InStockCount++
		}
	}

	out := make([]CategoryFacet, 0, len(index))
	for _, facet := range index {
		out = append(out, *facet)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Suggestions returns up to ten distinct product names matching the query
// case-insensitively. Queries shorter than two characters yield nothing.
func Suggestions(products []models.Product, query string) []string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return []string{}
	}
	q := strings.ToLower(query)

	seen := make(map[string]struct{})
	out := []string{}
	for i := range products {
		name := products[i].Name
		if !strings.Contains(strings.ToLower(name), q) {
			continue
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}
		out = append(out, name)
		if len(out) == maxSuggestion {
			break
		}
	}
	return out
}

package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/safar/eyewear-store/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []models.Product {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id int64, name, category string, price int64, stock int, badge string, day int) models.Product {
		p := models.Product{
			ID:        id,
			Name:      name,
			Category:  category,
			Price:     decimal.NewFromInt(price),
			Stock:     stock,
			Badge:     badge,
			CreatedAt: base.AddDate(0, 0, day),
		}
		models.Normalize(&p)
		return p
	}
	return []models.Product{
		mk(1, "Aviator Classic", "sunglasses", 1329, 15, "Bestseller", 0),
		mk(2, "Wayfarer Matte", "sunglasses", 1099, 0, "", 1),
		mk(3, "Round Metal Reader", "eyeglasses", 849, 9, "", 2),
		mk(4, "Sprint Wrap Pro", "sports", 1549, 6, "New", 3),
		mk(5, "Cat-Eye Luxe", "Sunglasses", 1799, 0, "Limited", 4),
		mk(6, "Titanium Air Frame", "eyeglasses", 2499, 11, "Premium", 5),
	}
}

func ids(items []models.Product) []int64 {
	out := make([]int64, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestQueryCategoryAndStockAreANDed(t *testing.T) {
	inStock := true
	result := Query(testProducts(), Filter{Category: "sunglasses", InStock: &inStock}, Sorting{}, Page{})

	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Items[0].ID)
	for _, p := range result.Items {
		assert.True(t, p.InStock)
		assert.True(t, strings.EqualFold("sunglasses", p.Category))
	}
}

func TestQueryCategoryIsCaseInsensitive(t *testing.T) {
	result := Query(testProducts(), Filter{Category: "SUNGLASSES"}, Sorting{}, Page{})
	assert.Len(t, result.Items, 3) // includes the "Sunglasses" category spelling
}

func TestQueryOmittedFilterDoesNotNarrow(t *testing.T) {
	all := Query(testProducts(), Filter{}, Sorting{}, Page{})
	assert.Equal(t, 6, all.Total)
	assert.Len(t, all.Items, 6)
}

func TestQueryPriceBoundsInclusive(t *testing.T) {
	min := decimal.NewFromInt(1099)
	max := decimal.NewFromInt(1549)
	result := Query(testProducts(), Filter{MinPrice: &min, MaxPrice: &max}, Sorting{By: "price"}, Page{})

	assert.Equal(t, []int64{2, 1, 4}, ids(result.Items))
}

func TestQuerySearchMatchesBadge(t *testing.T) {
	result := Query(testProducts(), Filter{Search: "limited"}, Sorting{}, Page{})
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(5), result.Items[0].ID)
}

func TestQuerySortDirections(t *testing.T) {
	asc := Query(testProducts(), Filter{}, Sorting{By: "price", Order: "asc"}, Page{})
	assert.Equal(t, []int64{3, 2, 1, 4, 5, 6}, ids(asc.Items))

	desc := Query(testProducts(), Filter{}, Sorting{By: "price", Order: "desc"}, Page{})
	assert.Equal(t, []int64{6, 5, 4, 1, 2, 3}, ids(desc.Items))

	byCreated := Query(testProducts(), Filter{}, Sorting{By: "createdAt", Order: "desc"}, Page{})
	assert.Equal(t, []int64{6, 5, 4, 3, 2, 1}, ids(byCreated.Items))
}

func TestQuerySortNameCaseInsensitive(t *testing.T) {
	products := testProducts()
	products[0].Name = "aviator classic"
	result := Query(products, Filter{}, Sorting{By: "name"}, Page{})
	assert.Equal(t, int64(1), result.Items[0].ID)
}

func TestQueryPaginationIsStable(t *testing.T) {
	products := testProducts()
	full := Query(products, Filter{}, Sorting{By: "name"}, Page{})

	page1 := Query(products, Filter{}, Sorting{By: "name"}, Page{Limit: 2, Offset: 0})
	page2 := Query(products, Filter{}, Sorting{By: "name"}, Page{Limit: 2, Offset: 2})

	combined := append(ids(page1.Items), ids(page2.Items)...)
	assert.Equal(t, ids(full.Items)[:4], combined)
	assert.True(t, page1.HasMore)
	assert.Equal(t, 6, page1.Total)
}

func TestQueryLimitClamping(t *testing.T) {
	defaulted := Query(testProducts(), Filter{}, Sorting{}, Page{Limit: 0})
	assert.Equal(t, DefaultLimit, defaulted.Limit)

	clamped := Query(testProducts(), Filter{}, Sorting{}, Page{Limit: 500})
	assert.Equal(t, MaxLimit, clamped.Limit)

	negative := Query(testProducts(), Filter{}, Sorting{}, Page{Offset: -10})
	assert.Equal(t, 0, negative.Offset)
}

func TestQueryOffsetPastEnd(t *testing.T) {
	result := Query(testProducts(), Filter{}, Sorting{}, Page{Limit: 10, Offset: 100})
	assert.Empty(t, result.Items)
	assert.False(t, result.HasMore)
	assert.Equal(t, 6, result.Total)
}

func TestCategoriesFacets(t *testing.T) {
	facets := Categories(testProducts())
	require.Len(t, facets, 3)

	byName := make(map[string]CategoryFacet)
	for _, f := range facets {
		byName[f.Name] = f
	}

	sun := byName["sunglasses"]
	assert.Equal(t, 3, sun.Count)
	assert.Equal(t, 1, sun.InStockCount)

	eye := byName["eyeglasses"]
	assert.Equal(t, 2, eye.Count)
	assert.Equal(t, 2, eye.InStockCount)
}

func TestSuggestions(t *testing.T) {
	assert.Empty(t, Suggestions(testProducts(), "a"))
	assert.Empty(t, Suggestions(testProducts(), " "))
	// A single multi-byte rune is still one character.
	assert.Empty(t, Suggestions(testProducts(), "é"))

	matches := Suggestions(testProducts(), "AV")
	assert.Equal(t, []string{"Aviator Classic"}, matches)

	frame := Suggestions(testProducts(), "frame")
	assert.Equal(t, []string{"Titanium Air Frame"}, frame)
}

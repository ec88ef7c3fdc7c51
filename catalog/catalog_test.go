package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleygeoo/LIFF-front-end/money"
)

func testProducts() []Product {
	return []Product{
		{Code: "P1", Name: "Rice", Category: "Grain", Price: money.FromBaht(100), Weight: "1kg"},
		{Code: "P2", Name: "Rice", Category: "Grain", Price: money.FromBaht(120), Weight: "2kg"},
		{Code: "P3", Name: "Mango", Category: "Fruit", Price: money.FromBaht(80), Weight: "500g"},
		{Code: "P4", Name: "Dried Mango", Category: "Snack", Price: money.FromBaht(60), Weight: "200g"},
	}
}

func TestGroupsMergesVariantsByName(t *testing.T) {
	groups := Groups(testProducts(), "", AllCategories)
	require.Len(t, groups, 3)

	rice := groups[0]
	assert.Equal(t, "Rice", rice.Name)
	assert.Equal(t, money.FromBaht(100), rice.MinPrice)
	require.Len(t, rice.Variants, 2)
	assert.Equal(t, "P1", rice.Variants[0].Code)
	assert.Equal(t, "P2", rice.Variants[1].Code)
}

func TestGroupsMinPriceTracksCheapestVariant(t *testing.T) {
	// Cheaper variant appears after the first one.
	products := []Product{
		{Code: "A", Name: "Honey", Price: money.FromBaht(250)},
		{Code: "B", Name: "Honey", Price: money.FromBaht(180)},
	}
	groups := Groups(products, "", AllCategories)
	require.Len(t, groups, 1)
	assert.Equal(t, money.FromBaht(180), groups[0].MinPrice)
}

func TestGroupsSearchIsCaseInsensitiveSubstring(t *testing.T) {
	groups := Groups(testProducts(), "mAnGo", AllCategories)
	require.Len(t, groups, 2)
	assert.Equal(t, "Mango", groups[0].Name)
	assert.Equal(t, "Dried Mango", groups[1].Name)

	assert.Empty(t, Groups(testProducts(), "durian", AllCategories))
}

func TestGroupsCategoryFilter(t *testing.T) {
	groups := Groups(testProducts(), "", "Fruit")
	require.Len(t, groups, 1)
	assert.Equal(t, "Mango", groups[0].Name)

	// Search and category combine.
	assert.Empty(t, Groups(testProducts(), "rice", "Fruit"))
}

func TestCategoriesDistinctInOrder(t *testing.T) {
	assert.Equal(t, []string{"Grain", "Fruit", "Snack"}, Categories(testProducts()))
}

func TestStoreSnapshot(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Empty())

	rules := []DeliveryRule{{Method: "Pickup", Min: 0, Max: money.FromBaht(9999)}}
	s.Reload(testProducts(), rules)
	assert.False(t, s.Empty())
	assert.Len(t, s.Products(), 4)
	assert.Len(t, s.DeliveryRules(), 1)

	p, ok := s.ProductByCode("P3")
	require.True(t, ok)
	assert.Equal(t, "Mango", p.Name)

	_, ok = s.ProductByCode("missing")
	assert.False(t, ok)

	g, ok := s.GroupByName("Rice")
	require.True(t, ok)
	assert.Len(t, g.Variants, 2)
}

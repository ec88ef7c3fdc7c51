// Package catalog holds the product and delivery-rule data fetched from the
// backend sheet, and derives the grouped product listing shown on the shop
// page.
package catalog

import (
	"strings"
	"sync"

	"github.com/ashleygeoo/LIFF-front-end/money"
)

// AllCategories is the category filter value that matches every product.
const AllCategories = "All"

// Product is a single sellable row from the backend sheet. Products sharing
// a name are variants of one listing (different weight/price).
type Product struct {
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Price    money.Amount `json:"price"`
	Weight   string       `json:"weight"`
	Image    string       `json:"image"`
}

// DeliveryRule is a shipping option valid for order totals within
// [Min, Max] inclusive. The same method name may appear on several rules
// covering disjoint ranges.
type DeliveryRule struct {
	Method string       `json:"method"`
	Min    money.Amount `json:"min"`
	Max    money.Amount `json:"max"`
	Cost   money.Amount `json:"cost"`
}

// Group is a derived listing entry: all variants sharing one product name,
// carrying the cheapest variant's price.
type Group struct {
	Name     string
	Image    string
	MinPrice money.Amount
	Variants []Product
}

// Groups filters products by search text (case-insensitive substring match
// on name) and category (AllCategories matches everything), then groups the
// matches by name in catalog order.
func Groups(products []Product, search, category string) []Group {
	search = strings.ToLower(search)

	var groups []Group
	index := map[string]int{}
	for _, p := range products {
		if category != AllCategories && p.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		i, ok := index[p.Name]
		if !ok {
			index[p.Name] = len(groups)
			groups = append(groups, Group{Name: p.Name, Image: p.Image, MinPrice: p.Price})
			i = len(groups) - 1
		}
		groups[i].Variants = append(groups[i].Variants, p)
		if p.Price < groups[i].MinPrice {
			groups[i].MinPrice = p.Price
		}
	}
	return groups
}

// Categories returns the distinct product categories in catalog order.
func Categories(products []Product) []string {
	var cats []string
	seen := map[string]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	return cats
}

// Store holds the catalog snapshot loaded at startup. Reload replaces the
// whole snapshot, so readers always see a consistent product/rule pair.
type Store struct {
	mu       sync.RWMutex
	products []Product
	rules    []DeliveryRule
}

func NewStore() *Store {
	return &Store{}
}

// Reload replaces the snapshot.
func (s *Store) Reload(products []Product, rules []DeliveryRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.rules = rules
}

// Products returns the current product snapshot.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// DeliveryRules returns the current delivery-rule snapshot.
func (s *Store) DeliveryRules() []DeliveryRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

// ProductByCode looks up a product by its unique code.
func (s *Store) ProductByCode(code string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Code == code {
			return p, true
		}
	}
	return Product{}, false
}

// GroupByName returns the variant group for a product name, unfiltered.
func (s *Store) GroupByName(name string) (Group, bool) {
	for _, g := range Groups(s.Products(), "", AllCategories) {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Empty reports whether no products are loaded, e.g. after a failed initial
// fetch.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products) == 0
}

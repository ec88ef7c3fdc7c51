package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleygeoo/LIFF-front-end/catalog"
	"github.com/ashleygeoo/LIFF-front-end/money"
)

var (
	rice  = catalog.Product{Code: "P1", Name: "Rice", Price: money.FromBaht(100), Weight: "1kg"}
	mango = catalog.Product{Code: "P3", Name: "Mango", Price: money.FromBaht(80), Weight: "500g"}
)

func TestAddMergesByProductCode(t *testing.T) {
	s := NewStore(0)
	s.Add("sid", rice)
	s.Add("sid", rice)
	s.Add("sid", mango)

	items := s.Items("sid")
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 1, items[1].Qty)
	assert.Equal(t, 3, s.TotalItems("sid"))
	assert.Equal(t, money.FromBaht(280), s.TotalAmount("sid"))
}

func TestAddThenRemoveRestoresPriorCart(t *testing.T) {
	s := NewStore(0)
	s.Add("sid", rice)
	before := s.Items("sid")
	beforeTotal := s.TotalAmount("sid")

	s.Add("sid", mango)
	s.Remove("sid", mango.Code)

	assert.Equal(t, before, s.Items("sid"))
	assert.Equal(t, beforeTotal, s.TotalAmount("sid"))
}

func TestRemoveDecrementsThenDeletes(t *testing.T) {
	s := NewStore(0)
	s.Add("sid", rice)
	s.Add("sid", rice)

	s.Remove("sid", rice.Code)
	assert.Equal(t, 1, s.Qty("sid", rice.Code))

	s.Remove("sid", rice.Code)
	assert.Equal(t, 0, s.Qty("sid", rice.Code))
	assert.Empty(t, s.Items("sid"))
}

func TestRemovingLastItemClearsShippingSelection(t *testing.T) {
	s := NewStore(0)
	s.Add("sid", rice)
	s.SelectShipping("sid", "Pickup")

	s.Remove("sid", rice.Code)
	assert.Equal(t, "", s.SelectedShipping("sid"))
}

func TestShippingSelectionKeptWhileCartNonEmpty(t *testing.T) {
	s := NewStore(0)
	s.Add("sid", rice)
	s.Add("sid", mango)
	s.SelectShipping("sid", "Pickup")

	s.Remove("sid", mango.Code)
	assert.Equal(t, "Pickup", s.SelectedShipping("sid"))
}

func TestClearEmptiesCartAndSelection(t *testing.T) {
	s := NewStore(0)
	s.Add("sid", rice)
	s.SelectShipping("sid", "Pickup")

	s.Clear("sid")
	assert.Empty(t, s.Items("sid"))
	assert.Equal(t, "", s.SelectedShipping("sid"))
}

func TestRemoveUnknownProductIsNoop(t *testing.T) {
	s := NewStore(0)
	s.Add("sid", rice)
	s.Remove("sid", "missing")
	assert.Equal(t, 1, s.Qty("sid", rice.Code))
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(0)
	s.Add("a", rice)
	assert.Empty(t, s.Items("b"))
	assert.Equal(t, 1, s.TotalItems("a"))
}

func TestIdleSessionsPruned(t *testing.T) {
	s := NewStore(time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Add("old", rice)
	now = now.Add(2 * time.Hour)
	assert.Empty(t, s.Items("old"))
}

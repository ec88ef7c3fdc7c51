package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleygeoo/LIFF-front-end/cart"
	"github.com/ashleygeoo/LIFF-front-end/catalog"
	"github.com/ashleygeoo/LIFF-front-end/money"
	"github.com/ashleygeoo/LIFF-front-end/validator"
)

func testItems() []cart.Item {
	return []cart.Item{
		{Product: catalog.Product{Code: "P1", Name: "Rice", Weight: "1kg", Price: money.FromBaht(100)}, Qty: 2},
		{Product: catalog.Product{Code: "P3", Name: "Mango", Weight: "500g", Price: money.FromBaht(80)}, Qty: 1},
	}
}

func TestIsTransferMethod(t *testing.T) {
	assert.True(t, isTransferMethod("โอนเงินผ่านธนาคาร"))
	assert.True(t, isTransferMethod("Bank Transfer"))
	assert.False(t, isTransferMethod("Pickup"))
	assert.False(t, isTransferMethod(""))
}

func TestNewOrderID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "ORD-1700000000000", newOrderID(now))
}

func TestItemsSummary(t *testing.T) {
	assert.Equal(t, "Rice (1kg) x2, Mango (500g) x1", itemsSummary(testItems()))
	assert.Equal(t, "", itemsSummary(nil))
}

func TestBuildOrderSubmission(t *testing.T) {
	rules := []catalog.DeliveryRule{
		{Method: "Pickup", Min: 0, Max: money.FromBaht(9999), Cost: 0},
		{Method: "Transfer", Min: 0, Max: money.FromBaht(500), Cost: money.FromBaht(30)},
	}
	payload := validator.PlaceOrderPayload{
		Name:           "Somchai",
		Phone:          "0812345678",
		Address:        "99 Moo 4",
		ShippingMethod: "Transfer",
	}
	slip := &Attachment{Data: "aGVsbG8=", MimeType: "image/png", Name: "slip.png"}
	now := time.UnixMilli(1700000000000)

	order := buildOrderSubmission("U123", payload, testItems(), rules, slip, now)

	assert.Equal(t, "ORD-1700000000000", order.OrderID)
	assert.Equal(t, "U123", order.UserID)
	assert.Equal(t, "Somchai", order.Name)
	// Cart total 280, Transfer in range: +30 shipping.
	assert.Equal(t, money.FromBaht(280), cart.TotalAmount(order.Items))
	assert.Equal(t, money.FromBaht(30), order.ShippingCost)
	assert.Equal(t, money.FromBaht(310), order.TotalAmount)
	assert.Equal(t, "Rice (1kg) x2, Mango (500g) x1", order.ItemsText)
	assert.Same(t, slip, order.Slip)
	assert.True(t, strings.HasPrefix(order.OrderID, orderIDPrefix))
}

func TestBuildOrderSubmissionUnmatchedMethodShipsFree(t *testing.T) {
	payload := validator.PlaceOrderPayload{
		Name: "A", Phone: "0812345678", Address: "B", ShippingMethod: "Drone",
	}
	order := buildOrderSubmission("U123", payload, testItems(), nil, nil, time.Now())
	require.NotNil(t, order)
	assert.Equal(t, money.Amount(0), order.ShippingCost)
	assert.Equal(t, money.FromBaht(280), order.TotalAmount)
}

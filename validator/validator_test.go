package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartPayload(t *testing.T) {
	p := AddToCartPayload{ProductCode: "P1"}
	assert.NoError(t, p.Validate())

	p.ProductCode = ""
	assert.Error(t, p.Validate())
}

func TestPlaceOrderPayload(t *testing.T) {
	p := PlaceOrderPayload{
		Name:           "Somchai",
		Phone:          "0812345678",
		Address:        "99 Moo 4, Chiang Mai",
		ShippingMethod: "Pickup",
	}
	assert.NoError(t, p.Validate())

	p.Phone = "12"
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, ValidationErrorResponse(err).Error(), "Phone")
}

func TestValidationErrorResponseListsFields(t *testing.T) {
	p := PlaceOrderPayload{}
	err := p.Validate()
	require.Error(t, err)

	msg := ValidationErrorResponse(err).Error()
	assert.Contains(t, msg, "Name is required")
	assert.Contains(t, msg, "Address is required")
	assert.Contains(t, msg, "ShippingMethod is required")
}

package main

// types.go defines the wire types exchanged with the sheet backend and the
// LINE identity provider.

import (
	"github.com/ashleygeoo/LIFF-front-end/cart"
	"github.com/ashleygeoo/LIFF-front-end/catalog"
	"github.com/ashleygeoo/LIFF-front-end/money"
)

// InitialData is the backend's startup payload: the full product catalog
// and the delivery-rule sheet.
type InitialData struct {
	Products      []catalog.Product      `json:"products"`
	DeliveryRules []catalog.DeliveryRule `json:"deliveryRules"`
}

// Attachment is an uploaded payment slip, base64-encoded with its declared
// media type and original filename. Size and type checks belong to the
// backend.
type Attachment struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// OrderSubmission is the write-once order payload sent to the backend.
type OrderSubmission struct {
	OrderID        string       `json:"orderId"`
	UserID         string       `json:"userId"`
	Name           string       `json:"name"`
	Phone          string       `json:"phone"`
	Address        string       `json:"address"`
	Items          []cart.Item  `json:"items"`
	ItemsText      string       `json:"itemsText"`
	ShippingMethod string       `json:"shippingMethod"`
	ShippingCost   money.Amount `json:"shippingCost"`
	TotalAmount    money.Amount `json:"totalAmount"`
	Slip           *Attachment  `json:"slipFile,omitempty"`
}

// SubmitOrderResponse acknowledges a submitted order.
type SubmitOrderResponse struct {
	OrderID string `json:"orderId"`
}

// OrderHistoryEntry is a backend-owned order record, read-only here.
type OrderHistoryEntry struct {
	OrderID        string       `json:"orderId"`
	Date           string       `json:"date"`
	ItemsText      string       `json:"itemsText"`
	ShippingMethod string       `json:"shippingMethod"`
	TotalAmount    money.Amount `json:"totalAmount"`
	Status         string       `json:"status"`
}

// Profile is the identity provider's user record.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// guestUserID is the sentinel identity before login completes.
const guestUserID = "Guest"

package main

// checkout.go assembles the write-once order payload from the cart, the
// resolved shipping cost, the user's identity and the checkout form.

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ashleygeoo/LIFF-front-end/cart"
	"github.com/ashleygeoo/LIFF-front-end/catalog"
	"github.com/ashleygeoo/LIFF-front-end/money"
	"github.com/ashleygeoo/LIFF-front-end/validator"
)

// orderIDPrefix tags client-generated order ids.
const orderIDPrefix = "ORD-"

// maxSlipMemory bounds how much of the multipart order form is buffered in
// memory before spilling to disk.
const maxSlipMemory = 10 << 20

// transferMarkers identify shipping/payment methods that require a payment
// slip. The sheet names these methods in Thai ("โอน" = transfer); English
// method names containing "transfer" count too.
var transferMarkers = []string{"โอน", "transfer"}

func isTransferMethod(method string) bool {
	lower := strings.ToLower(method)
	for _, marker := range transferMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

func newOrderID(now time.Time) string {
	return fmt.Sprintf("%s%d", orderIDPrefix, now.UnixMilli())
}

// itemsSummary renders the human-readable order line: "name (weight) xqty"
// per item, comma separated.
func itemsSummary(items []cart.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s (%s) x%d", it.Name, it.Weight, it.Qty)
	}
	return strings.Join(parts, ", ")
}

// buildOrderSubmission snapshots the cart into an order payload. The total
// is the cart total plus the shipping cost resolved from the rules for the
// chosen method.
func buildOrderSubmission(userID string, payload validator.PlaceOrderPayload, items []cart.Item,
	rules []catalog.DeliveryRule, slip *Attachment, now time.Time) *OrderSubmission {

	total := cart.TotalAmount(items)
	shippingCost := cart.CostFor(rules, payload.ShippingMethod, total)

	return &OrderSubmission{
		OrderID:        newOrderID(now),
		UserID:         userID,
		Name:           payload.Name,
		Phone:          payload.Phone,
		Address:        payload.Address,
		Items:          items,
		ItemsText:      itemsSummary(items),
		ShippingMethod: payload.ShippingMethod,
		ShippingCost:   shippingCost,
		TotalAmount:    money.Sum(total, shippingCost),
		Slip:           slip,
	}
}

// readSlip reads the first uploaded slip file into memory and encodes it
// with its declared media type and original filename. A missing file part
// is not an error here; the transfer-method check decides whether one is
// required. Size and type validation is the backend's job.
func readSlip(r *http.Request) (*Attachment, error) {
	file, header, err := r.FormFile("slip")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &Attachment{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: header.Header.Get("Content-Type"),
		Name:     header.Filename,
	}, nil
}

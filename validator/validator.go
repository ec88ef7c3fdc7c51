// Package validator validates user-submitted request payloads before they
// reach the backend.
package validator

import (
	"fmt"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var validate = playground.New()

// AddToCartPayload carries the add/remove cart form fields.
type AddToCartPayload struct {
	ProductCode string `validate:"required"`
}

func (p *AddToCartPayload) Validate() error {
	return validate.Struct(p)
}

// PlaceOrderPayload carries the checkout form fields.
type PlaceOrderPayload struct {
	Name           string `validate:"required"`
	Phone          string `validate:"required,min=9,max=15"`
	Address        string `validate:"required"`
	ShippingMethod string `validate:"required"`
}

func (p *PlaceOrderPayload) Validate() error {
	return validate.Struct(p)
}

// ValidationErrorResponse flattens field errors into one user-visible error.
func ValidationErrorResponse(err error) error {
	errs, ok := err.(playground.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s has an invalid length", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

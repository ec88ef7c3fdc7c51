// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ashleygeoo/LIFF-front-end/cart"
	"github.com/ashleygeoo/LIFF-front-end/catalog"
	"github.com/ashleygeoo/LIFF-front-end/money"
	"github.com/ashleygeoo/LIFF-front-end/validator"
)

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{
		"renderMoney": renderMoney,
		"add":         func(a, b int) int { return a + b },
	}).ParseGlob("templates/*.html"))

func renderMoney(a money.Amount) string {
	return a.String()
}

func (fe *frontendServer) homeHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)

	// Inside the LINE client an anonymous user is logged in silently; a
	// standalone browser waits for an explicit tap on the login button so
	// external visitors don't bounce through redirect loops.
	if !isLoggedIn(r) && isInClient(r) {
		w.Header().Set("Location", baseURL+"/login?next=/")
		w.WriteHeader(http.StatusFound)
		return
	}

	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = catalog.AllCategories
	}
	log.WithField("query", query).WithField("category", category).Debug("home")

	products := fe.catalog.Products()
	groups := catalog.Groups(products, query, category)

	if err := templates.ExecuteTemplate(w, "home", fe.injectCommonTemplateData(r, map[string]interface{}{
		"groups":        groups,
		"categories":    catalog.Categories(products),
		"category":      category,
		"query":         query,
		"catalog_empty": fe.catalog.Empty(),
		"load_error":    fe.lastLoadError() != nil,
	})); err != nil {
		log.Error(err)
	}
}

func (fe *frontendServer) productHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	name := mux.Vars(r)["name"]
	if name == "" {
		renderHTTPError(log, r, w, errors.New("product name not specified"), http.StatusBadRequest)
		return
	}
	log.WithField("name", name).Debug("serving product page")

	group, ok := fe.catalog.GroupByName(name)
	if !ok {
		renderHTTPError(log, r, w, errors.Errorf("product %q not found", name), http.StatusNotFound)
		return
	}

	sid := sessionID(r)
	qty := map[string]int{}
	for _, v := range group.Variants {
		qty[v.Code] = fe.cart.Qty(sid, v.Code)
	}

	if err := templates.ExecuteTemplate(w, "product", fe.injectCommonTemplateData(r, map[string]interface{}{
		"group":    group,
		"cart_qty": qty,
	})); err != nil {
		log.Error(err)
	}
}

func (fe *frontendServer) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	payload := validator.AddToCartPayload{ProductCode: r.FormValue("product_code")}
	if err := payload.Validate(); err != nil {
		renderHTTPError(log, r, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}
	log.WithField("product", payload.ProductCode).Debug("adding to cart")

	p, ok := fe.catalog.ProductByCode(payload.ProductCode)
	if !ok {
		renderHTTPError(log, r, w, errors.Errorf("product %q not found", payload.ProductCode), http.StatusNotFound)
		return
	}
	fe.cart.Add(sessionID(r), p)
	redirectBack(w, r)
}

func (fe *frontendServer) removeFromCartHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	payload := validator.AddToCartPayload{ProductCode: r.FormValue("product_code")}
	if err := payload.Validate(); err != nil {
		renderHTTPError(log, r, w, validator.ValidationErrorResponse(err), http.StatusUnprocessableEntity)
		return
	}
	log.WithField("product", payload.ProductCode).Debug("removing from cart")

	fe.cart.Remove(sessionID(r), payload.ProductCode)
	redirectBack(w, r)
}

// emptyCartHandler clears the cart. The confirmation dialog lives in the
// template; by the time this POST arrives the user has confirmed.
func (fe *frontendServer) emptyCartHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	log.Debug("emptying cart")

	fe.cart.Clear(sessionID(r))
	w.Header().Set("Location", baseURL+"/")
	w.WriteHeader(http.StatusFound)
}

func (fe *frontendServer) viewCartHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	log.Debug("view cart")

	sid := sessionID(r)
	items := fe.cart.Items(sid)
	total := cart.TotalAmount(items)
	rules := fe.catalog.DeliveryRules()
	selected := fe.cart.SelectedShipping(sid)
	shippingCost := cart.CostFor(rules, selected, total)

	if err := templates.ExecuteTemplate(w, "cart", fe.injectCommonTemplateData(r, map[string]interface{}{
		"items":             items,
		"total_amount":      total,
		"available_methods": cart.AvailableMethods(rules, total),
		"selected_method":   selected,
		"shipping_cost":     shippingCost,
		"final_total":       money.Sum(total, shippingCost),
	})); err != nil {
		log.Error(err)
	}
}

func (fe *frontendServer) selectShippingHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	method := r.FormValue("method")
	log.WithField("method", method).Debug("selecting shipping method")

	fe.cart.SelectShipping(sessionID(r), method)
	w.Header().Set("Location", baseURL+"/cart")
	w.WriteHeader(http.StatusFound)
}

// checkoutFormHandler opens the order form. The profile is refreshed best
// effort so the name autofill has the latest display name; a refresh
// failure is not fatal.
func (fe *frontendServer) checkoutFormHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	log.Debug("opening checkout form")

	sid := sessionID(r)
	if len(fe.cart.Items(sid)) == 0 {
		w.Header().Set("Location", baseURL+"/cart")
		w.WriteHeader(http.StatusFound)
		return
	}

	profile := fe.refreshProfile(w, r)
	fe.renderCheckoutForm(w, r, checkoutFormState{
		// Autofill from the profile only while the field is empty; a
		// re-rendered form keeps whatever the user typed instead.
		Name: profile.DisplayName,
	})
}

// checkoutFormState carries the form values preserved across a failed or
// rejected submission.
type checkoutFormState struct {
	Name    string
	Phone   string
	Address string
	Error   string
}

func (fe *frontendServer) renderCheckoutForm(w http.ResponseWriter, r *http.Request, state checkoutFormState) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)

	sid := sessionID(r)
	items := fe.cart.Items(sid)
	total := cart.TotalAmount(items)
	rules := fe.catalog.DeliveryRules()
	method := fe.cart.SelectedShipping(sid)
	shippingCost := cart.CostFor(rules, method, total)

	if err := templates.ExecuteTemplate(w, "checkout", fe.injectCommonTemplateData(r, map[string]interface{}{
		"form":            state,
		"items":           items,
		"total_amount":    total,
		"selected_method": method,
		"shipping_cost":   shippingCost,
		"final_total":     money.Sum(total, shippingCost),
		"is_transfer":     isTransferMethod(method),
	})); err != nil {
		log.Error(err)
	}
}

// placeOrderHandler submits the order. The submit button is disabled by
// the template while a submission is in flight, so a session sends at most
// one of these at a time.
func (fe *frontendServer) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	log.Debug("placing order")

	if err := r.ParseMultipartForm(maxSlipMemory); err != nil {
		renderHTTPError(log, r, w, errors.Wrap(err, "could not parse order form"), http.StatusBadRequest)
		return
	}

	sid := sessionID(r)
	items := fe.cart.Items(sid)
	if len(items) == 0 {
		w.Header().Set("Location", baseURL+"/cart")
		w.WriteHeader(http.StatusFound)
		return
	}

	method := fe.cart.SelectedShipping(sid)
	payload := validator.PlaceOrderPayload{
		Name:           r.FormValue("name"),
		Phone:          r.FormValue("phone"),
		Address:        r.FormValue("address"),
		ShippingMethod: method,
	}
	state := checkoutFormState{Name: payload.Name, Phone: payload.Phone, Address: payload.Address}

	if err := payload.Validate(); err != nil {
		state.Error = validator.ValidationErrorResponse(err).Error()
		fe.renderCheckoutForm(w, r, state)
		return
	}

	slip, err := readSlip(r)
	if err != nil {
		renderHTTPError(log, r, w, errors.Wrap(err, "could not read payment slip"), http.StatusBadRequest)
		return
	}
	if isTransferMethod(method) && slip == nil {
		state.Error = "กรุณาอัพโหลดสลิปการโอนเงิน"
		fe.renderCheckoutForm(w, r, state)
		return
	}

	// Orders must be attributed to a real user. If the provider says the
	// session is logged in but the local identity is stale, refresh it;
	// otherwise suspend into the login redirect and return here after.
	profile := currentProfile(r)
	if profile.UserID == guestUserID {
		if isLoggedIn(r) {
			profile = fe.refreshProfile(w, r)
		}
		if profile.UserID == guestUserID {
			w.Header().Set("Location", baseURL+"/login?next=/checkout")
			w.WriteHeader(http.StatusFound)
			return
		}
	}

	order := buildOrderSubmission(profile.UserID, payload, items, fe.catalog.DeliveryRules(), slip, time.Now())
	resp, err := fe.submitOrder(r.Context(), order)
	if err != nil {
		// Cart and form survive so the user can retry.
		log.WithField("error", err).Error("order submission failed")
		state.Error = fmt.Sprintf("เกิดข้อผิดพลาด: %v", err)
		fe.renderCheckoutForm(w, r, state)
		return
	}
	log.WithField("order", resp.OrderID).Info("order placed")

	fe.cart.Clear(sid)

	if err := templates.ExecuteTemplate(w, "order", fe.injectCommonTemplateData(r, map[string]interface{}{
		"order_id":     resp.OrderID,
		"total_amount": order.TotalAmount,
		// Inside the LINE client the confirmation page asks the host to
		// close the window once the user has seen the order id.
		"close_window": isInClient(r),
	})); err != nil {
		log.Error(err)
	}
}

func (fe *frontendServer) orderHistoryHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	log.Debug("view order history")

	profile := currentProfile(r)
	if profile.UserID == guestUserID {
		if isLoggedIn(r) {
			profile = fe.refreshProfile(w, r)
		}
		if profile.UserID == guestUserID {
			w.Header().Set("Location", baseURL+"/login?next=/orders")
			w.WriteHeader(http.StatusFound)
			return
		}
	}

	orders, err := fe.getOrderHistory(r.Context(), profile.UserID)
	if err != nil {
		renderHTTPError(log, r, w, errors.Wrap(err, "could not retrieve order history"), http.StatusInternalServerError)
		return
	}

	type orderView struct {
		*OrderHistoryEntry
		StatusLabel string
	}
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = orderView{o, fe.statusLabel(o.Status)}
	}

	if err := templates.ExecuteTemplate(w, "order_history", fe.injectCommonTemplateData(r, map[string]interface{}{
		"orders": views,
	})); err != nil {
		log.Error(err)
	}
}

// reloadCatalogHandler re-fetches the backend snapshot, for operators
// recovering from a failed startup load or refreshing sheet edits.
func (fe *frontendServer) reloadCatalogHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	if err := fe.loadInitialData(r.Context()); err != nil {
		renderHTTPError(log, r, w, errors.Wrap(err, "could not reload catalog"), http.StatusBadGateway)
		return
	}
	log.WithField("products", len(fe.catalog.Products())).Info("catalog reloaded")
	w.Header().Set("Location", baseURL+"/")
	w.WriteHeader(http.StatusFound)
}

func renderHTTPError(log logrus.FieldLogger, r *http.Request, w http.ResponseWriter, err error, code int) {
	log.WithField("error", err).Error("request error")
	errMsg := fmt.Sprintf("%+v", err)

	w.WriteHeader(code)

	if templateErr := templates.ExecuteTemplate(w, "error", map[string]interface{}{
		"error":       errMsg,
		"status_code": code,
		"status":      http.StatusText(code),
		"baseUrl":     baseURL,
	}); templateErr != nil {
		log.Error(templateErr)
	}
}

func (fe *frontendServer) injectCommonTemplateData(r *http.Request, payload map[string]interface{}) map[string]interface{} {
	profile := currentProfile(r)
	data := map[string]interface{}{
		"session_id":        sessionID(r),
		"request_id":        r.Context().Value(ctxKeyRequestID{}),
		"baseUrl":           baseURL,
		"logged_in":         isLoggedIn(r),
		"user":              profile,
		"is_in_client":      isInClient(r),
		"cart_size":         fe.cart.TotalItems(sessionID(r)),
		"deploymentDetails": deploymentDetailsMap,
		"currentYear":       time.Now().Year(),
	}

	for k, v := range payload {
		data[k] = v
	}

	return data
}

func sessionID(r *http.Request) string {
	v := r.Context().Value(ctxKeySessionID{})
	if v != nil {
		return v.(string)
	}
	return ""
}

func redirectBack(w http.ResponseWriter, r *http.Request) {
	referer := r.Header.Get("referer")
	if referer == "" {
		referer = baseURL + "/"
	}
	w.Header().Set("Location", referer)
	w.WriteHeader(http.StatusFound)
}

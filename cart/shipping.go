package cart

import (
	"github.com/ashleygeoo/LIFF-front-end/catalog"
	"github.com/ashleygeoo/LIFF-front-end/money"
)

// AvailableMethods returns the delivery rules whose [Min, Max] range covers
// the total, de-duplicated by method name. Rules are scanned in sheet order
// and the first qualifying rule per name wins; later in-range rules for an
// already-seen name are ignored.
func AvailableMethods(rules []catalog.DeliveryRule, total money.Amount) []catalog.DeliveryRule {
	var methods []catalog.DeliveryRule
	seen := map[string]bool{}
	for _, rule := range rules {
		if total < rule.Min || total > rule.Max {
			continue
		}
		if seen[rule.Method] {
			continue
		}
		seen[rule.Method] = true
		methods = append(methods, rule)
	}
	return methods
}

// CostFor returns the cost of the first rule matching both the method name
// and the total's range. A method with no matching rule costs 0; the UI is
// expected to only offer in-range methods, so an unmatched name is treated
// as free shipping rather than an error.
func CostFor(rules []catalog.DeliveryRule, method string, total money.Amount) money.Amount {
	for _, rule := range rules {
		if rule.Method == method && total >= rule.Min && total <= rule.Max {
			return rule.Cost
		}
	}
	return 0
}

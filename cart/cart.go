// Package cart keeps each session's shopping cart and shipping selection,
// and resolves tiered delivery rules against the cart total.
package cart

import (
	"sync"
	"time"

	"github.com/ashleygeoo/LIFF-front-end/catalog"
	"github.com/ashleygeoo/LIFF-front-end/money"
)

// Item is a cart line: a product snapshot plus a quantity. Qty is always
// at least 1; removing the last unit deletes the line.
type Item struct {
	catalog.Product
	Qty int
}

// Store holds carts keyed by session id. Carts idle longer than the TTL are
// pruned on access.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

type session struct {
	items    []Item
	shipping string
	touched  time.Time
}

// DefaultTTL bounds how long an idle cart is kept.
const DefaultTTL = 48 * time.Hour

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: map[string]*session{},
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) get(sessionID string) *session {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.touched) > s.ttl {
			delete(s.sessions, id)
		}
	}
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	sess.touched = now
	return sess
}

// Add puts one unit of the product in the cart, merging with an existing
// line for the same product code.
func (s *Store) Add(sessionID string, p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	for i := range sess.items {
		if sess.items[i].Code == p.Code {
			sess.items[i].Qty++
			return
		}
	}
	sess.items = append(sess.items, Item{Product: p, Qty: 1})
}

// Remove takes one unit of the product out of the cart, deleting the line
// when the quantity reaches zero. Emptying the cart clears the shipping
// selection, since available methods depend on the total.
func (s *Store) Remove(sessionID, productCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	for i := range sess.items {
		if sess.items[i].Code != productCode {
			continue
		}
		if sess.items[i].Qty > 1 {
			sess.items[i].Qty--
		} else {
			sess.items = append(sess.items[:i], sess.items[i+1:]...)
		}
		break
	}
	if len(sess.items) == 0 {
		sess.shipping = ""
	}
}

// Clear empties the cart and the shipping selection.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	sess.items = nil
	sess.shipping = ""
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items(sessionID string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionID)
	items := make([]Item, len(sess.items))
	copy(items, sess.items)
	return items
}

// Qty returns the quantity of a product in the cart, 0 when absent.
func (s *Store) Qty(sessionID, productCode string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.get(sessionID).items {
		if it.Code == productCode {
			return it.Qty
		}
	}
	return 0
}

// TotalAmount is the sum of price × qty over the cart.
func (s *Store) TotalAmount(sessionID string) money.Amount {
	return TotalAmount(s.Items(sessionID))
}

// TotalItems is the sum of quantities over the cart.
func (s *Store) TotalItems(sessionID string) int {
	var n int
	for _, it := range s.Items(sessionID) {
		n += it.Qty
	}
	return n
}

// SelectShipping records the chosen delivery method for the session.
func (s *Store) SelectShipping(sessionID, method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(sessionID).shipping = method
}

// SelectedShipping returns the chosen delivery method, "" when none.
func (s *Store) SelectedShipping(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID).shipping
}

// TotalAmount sums price × qty over cart lines.
func TotalAmount(items []Item) money.Amount {
	var total money.Amount
	for _, it := range items {
		total += it.Price.Mul(it.Qty)
	}
	return total
}

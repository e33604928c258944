// Package cart keeps a session's cart lines.
package cart

import (
	"github.com/iliaxp/LiberaryApplication/internal/domain"
	"github.com/iliaxp/LiberaryApplication/internal/state"
)

// Store holds cart lines in first-addition order. Every mutation publishes a
// new slice, so a slice obtained from Lines is never modified afterwards.
type Store struct {
	lines *state.Value[[]domain.CartLine]
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{lines: state.NewValue([]domain.CartLine{})}
}

// Lines returns the current lines.
func (s *Store) Lines() []domain.CartLine {
	return s.lines.Get()
}

// Observable exposes the line list to subscribers.
func (s *Store) Observable() *state.Value[[]domain.CartLine] {
	return s.lines
}

// Cart returns the current lines as a domain.Cart.
func (s *Store) Cart() domain.Cart {
	return domain.Cart{Lines: s.lines.Get()}
}

// Add puts one copy of book in the cart, incrementing an existing line.
func (s *Store) Add(book domain.Book) {
	cur := s.Cart()
	next := clone(cur.Lines)
	if i := cur.IndexOf(book.ID); i >= 0 {
		next[i].Quantity++
	} else {
		next = append(next, domain.CartLine{Book: book, Quantity: 1})
	}
	s.lines.Set(next)
}

// UpdateQuantity sets the quantity of bookID's line. A quantity of zero or
// less removes the line; an unknown book is ignored.
func (s *Store) UpdateQuantity(bookID string, quantity int) {
	if quantity <= 0 {
		s.Remove(bookID)
		return
	}
	cur := s.Cart()
	i := cur.IndexOf(bookID)
	if i < 0 {
		return
	}
	next := clone(cur.Lines)
	next[i].Quantity = quantity
	s.lines.Set(next)
}

// Remove drops bookID's line if present.
func (s *Store) Remove(bookID string) {
	cur := s.Cart()
	i := cur.IndexOf(bookID)
	if i < 0 {
		return
	}
	next := make([]domain.CartLine, 0, len(cur.Lines)-1)
	next = append(next, cur.Lines[:i]...)
	next = append(next, cur.Lines[i+1:]...)
	s.lines.Set(next)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.lines.Set([]domain.CartLine{})
}

// TotalPrice is the sum of price times quantity, in cents.
func (s *Store) TotalPrice() int64 {
	return s.Cart().TotalPrice()
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	return s.Cart().ItemCount()
}

func clone(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

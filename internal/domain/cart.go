package domain

// CartLine is one book in the cart. Quantity is always at least 1.
type CartLine struct {
	Book     Book `json:"book"`
	Quantity int  `json:"quantity"`
}

// Subtotal is price times quantity, in cents.
func (l CartLine) Subtotal() int64 {
	return l.Book.Price * int64(l.Quantity)
}

// Cart is an ordered list of lines, oldest addition first.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// TotalPrice is the sum of all line subtotals in cents; 0 when empty.
func (c Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities.
func (c Cart) ItemCount() int {
	var count int
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

// IndexOf returns the line index for bookID or -1.
func (c Cart) IndexOf(bookID string) int {
	for i := range c.Lines {
		if c.Lines[i].Book.ID == bookID {
			return i
		}
	}
	return -1
}

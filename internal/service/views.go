package service

import (
	"github.com/iliaxp/LiberaryApplication/internal/catalog"
	"github.com/iliaxp/LiberaryApplication/internal/domain"
)

// ScreenState is what a client needs to render its current page.
type ScreenState struct {
	Screen         domain.Screen `json:"screen"`
	SelectedBook   *domain.Book  `json:"selected_book,omitempty"`
	Onboarded      bool          `json:"onboarded"`
	CartBadge      int           `json:"cart_badge"`
	CartTotal      int64         `json:"cart_total"`
	CartTotalLabel string        `json:"cart_total_label"`
}

// BackResult reports whether Back closed something. Handled false means the
// client should fall back to its platform behaviour.
type BackResult struct {
	Handled bool          `json:"handled"`
	Screen  domain.Screen `json:"screen"`
}

// CategoryView describes one selectable category.
type CategoryView struct {
	Name  domain.Category `json:"name"`
	Label string          `json:"label"`
	Slug  string          `json:"slug"`
}

// SortOptionView describes one sort menu entry.
type SortOptionView struct {
	Name  domain.SortOption `json:"name"`
	Label string            `json:"label"`
}

// LibraryView is the filtered, sorted book list with the filter that made it.
type LibraryView struct {
	Filter catalog.Filter `json:"filter"`
	Books  []domain.Book  `json:"books"`
}

// CartLineView is a cart line with its subtotal.
type CartLineView struct {
	Book     domain.Book `json:"book"`
	Quantity int         `json:"quantity"`
	Subtotal int64       `json:"subtotal"`
}

// CartView is the cart contents and totals.
type CartView struct {
	Open       bool           `json:"open"`
	Lines      []CartLineView `json:"lines"`
	ItemCount  int            `json:"item_count"`
	Total      int64          `json:"total"`
	TotalLabel string         `json:"total_label"`
}

// PaymentView is the amount the payment page asks for.
type PaymentView struct {
	Open           bool   `json:"open"`
	AmountDue      int64  `json:"amount_due"`
	AmountDueLabel string `json:"amount_due_label"`
}

// CarouselView lists banner slides and the one on screen.
type CarouselView struct {
	Slides     []string `json:"slides"`
	Current    int      `json:"current"`
	IntervalMS int64    `json:"interval_ms"`
}

func newCartView(open bool, c domain.Cart) CartView {
	lines := make([]CartLineView, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CartLineView{Book: l.Book, Quantity: l.Quantity, Subtotal: l.Subtotal()}
	}
	total := c.TotalPrice()
	return CartView{
		Open:       open,
		Lines:      lines,
		ItemCount:  c.ItemCount(),
		Total:      total,
		TotalLabel: domain.FormatPrice(total),
	}
}

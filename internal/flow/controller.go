// Package flow decides which screen a session shows and applies the
// navigation actions that move between them.
package flow

import (
	"github.com/iliaxp/LiberaryApplication/internal/cart"
	"github.com/iliaxp/LiberaryApplication/internal/catalog"
	"github.com/iliaxp/LiberaryApplication/internal/domain"
	"github.com/iliaxp/LiberaryApplication/internal/state"
)

// Controller tracks the splash and onboarding gates plus three nested
// overlays over the library: selected book, cart and payment. Overlays are
// independent flags rather than a stack; Back closes the topmost one.
//
// Navigation actions other than FinishSplash and CompleteOnboarding are
// ignored until the library is reachable.
type Controller struct {
	catalog *catalog.Store
	cart    *cart.Store

	splashDone  bool
	onboarded   bool
	paymentOpen bool
	cartOpen    bool
	selected    *domain.Book

	screen *state.Value[domain.Screen]
}

// NewController starts at the splash screen. onboarded is the persisted flag
// read when the session began.
func NewController(books *catalog.Store, c *cart.Store, onboarded bool) *Controller {
	return &Controller{
		catalog:   books,
		cart:      c,
		onboarded: onboarded,
		screen:    state.NewValue(domain.ScreenSplash),
	}
}

// Screen returns the screen to render.
func (c *Controller) Screen() domain.Screen {
	return c.screen.Get()
}

// ScreenObservable exposes screen changes.
func (c *Controller) ScreenObservable() *state.Value[domain.Screen] {
	return c.screen
}

// SelectedBook returns the book shown on the detail page, if any.
func (c *Controller) SelectedBook() (domain.Book, bool) {
	if c.selected == nil {
		return domain.Book{}, false
	}
	return *c.selected, true
}

// Onboarded reports whether onboarding has been completed.
func (c *Controller) Onboarded() bool { return c.onboarded }

// PaymentOpen reports whether the payment overlay is showing.
func (c *Controller) PaymentOpen() bool { return c.paymentOpen }

// CartOpen reports whether the cart overlay is open, possibly under payment.
func (c *Controller) CartOpen() bool { return c.cartOpen }

// FinishSplash leaves the splash screen. It is a no-op once done.
func (c *Controller) FinishSplash() {
	if c.splashDone {
		return
	}
	c.splashDone = true
	c.refresh()
}

// CompleteOnboarding leaves the welcome screen. It reports true when the
// onboarding flag changed and must be persisted.
func (c *Controller) CompleteOnboarding() bool {
	if c.Screen() != domain.ScreenWelcome {
		return false
	}
	c.onboarded = true
	c.refresh()
	return true
}

// SelectBook opens the detail page for id. Unknown ids are ignored.
func (c *Controller) SelectBook(id string) bool {
	if !c.Ready() {
		return false
	}
	b, ok := c.catalog.BookByID(id)
	if !ok {
		return false
	}
	c.selected = &b
	c.refresh()
	return true
}

// OpenCart shows the cart overlay.
func (c *Controller) OpenCart() bool {
	if !c.Ready() {
		return false
	}
	c.cartOpen = true
	c.refresh()
	return true
}

// Buy adds the book with id to the cart and opens the cart.
func (c *Controller) Buy(id string) bool {
	if !c.Ready() {
		return false
	}
	b, ok := c.catalog.BookByID(id)
	if !ok {
		return false
	}
	c.cart.Add(b)
	c.cartOpen = true
	c.refresh()
	return true
}

// BuyFromDetail adds the selected book to the cart and opens the cart.
func (c *Controller) BuyFromDetail() bool {
	if c.selected == nil {
		return false
	}
	return c.Buy(c.selected.ID)
}

// ChooseCategoryFromDetail filters the library by cat and closes the detail
// page.
func (c *Controller) ChooseCategoryFromDetail(cat domain.Category) bool {
	if !c.Ready() || c.selected == nil {
		return false
	}
	c.catalog.SetCategory(&cat)
	c.selected = nil
	c.refresh()
	return true
}

// Checkout opens payment over a non-empty open cart.
func (c *Controller) Checkout() bool {
	if !c.Ready() || !c.cartOpen || c.cart.ItemCount() == 0 {
		return false
	}
	c.paymentOpen = true
	c.refresh()
	return true
}

// CompletePayment clears the cart, closes every overlay and returns the cart
// as it was when paid. ok is false when payment was not open.
func (c *Controller) CompletePayment() (paid domain.Cart, ok bool) {
	if !c.paymentOpen {
		return domain.Cart{}, false
	}
	paid = c.cart.Cart()
	c.cart.Clear()
	c.paymentOpen = false
	c.cartOpen = false
	c.selected = nil
	c.refresh()
	return paid, true
}

// Back closes the topmost overlay: payment, then cart, then the detail page.
// It returns false when nothing was open and the platform should handle it.
func (c *Controller) Back() bool {
	switch {
	case !c.Ready():
		return false
	case c.paymentOpen:
		c.paymentOpen = false
	case c.cartOpen:
		c.cartOpen = false
	case c.selected != nil:
		c.selected = nil
	default:
		return false
	}
	c.refresh()
	return true
}

// Ready reports whether the splash and onboarding are behind the session.
func (c *Controller) Ready() bool {
	return c.splashDone && c.onboarded
}

func (c *Controller) resolve() domain.Screen {
	switch {
	case !c.splashDone:
		return domain.ScreenSplash
	case !c.onboarded:
		return domain.ScreenWelcome
	case c.paymentOpen:
		return domain.ScreenPayment
	case c.cartOpen:
		return domain.ScreenCart
	case c.selected != nil:
		return domain.ScreenBookDetail
	default:
		return domain.ScreenLibrary
	}
}

func (c *Controller) refresh() {
	if next := c.resolve(); next != c.screen.Get() {
		c.screen.Set(next)
	}
}

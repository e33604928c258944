package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliaxp/LiberaryApplication/internal/catalog"
	"github.com/iliaxp/LiberaryApplication/internal/domain"
	"github.com/iliaxp/LiberaryApplication/internal/repository"
	apperrors "github.com/iliaxp/LiberaryApplication/pkg/errors"
	"github.com/iliaxp/LiberaryApplication/pkg/tracing"
)

// EventPublisher publishes storefront domain events. *event.Producer
// implements it.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, deviceID string, cart domain.Cart) error
	PublishCartCleared(ctx context.Context, deviceID string) error
	PublishPaymentCompleted(ctx context.Context, deviceID string, paid domain.Cart) error
	PublishOnboardingCompleted(ctx context.Context, deviceID string) error
}

// Options tunes session timers and lifetime.
type Options struct {
	SplashDuration   time.Duration
	CarouselInterval time.Duration
	SessionIdleTTL   time.Duration
}

// DefaultOptions mirrors the app's presentation timings.
func DefaultOptions() Options {
	return Options{
		SplashDuration:   2500 * time.Millisecond,
		CarouselInterval: 4 * time.Second,
		SessionIdleTTL:   30 * time.Minute,
	}
}

// Storefront serves every device session. Each session's stores are
// single-threaded; Storefront serializes calls per session.
type Storefront struct {
	books  []domain.Book
	lookup *catalog.Store
	repo   repository.OnboardingRepository
	events EventPublisher
	logger *slog.Logger
	tracer trace.Tracer
	opts   Options
	now    func() time.Time

	rootCtx     context.Context
	stopAll     context.CancelFunc
	janitorDone chan struct{}

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// NewStorefront creates the service and starts the idle-session janitor.
// Call Close to stop it.
func NewStorefront(books []domain.Book, repo repository.OnboardingRepository, events EventPublisher, logger *slog.Logger, opts Options) *Storefront {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Storefront{
		books:       books,
		lookup:      catalog.NewStore(books),
		repo:        repo,
		events:      events,
		logger:      logger,
		tracer:      tracing.Tracer("github.com/iliaxp/LiberaryApplication/internal/service"),
		opts:        opts,
		now:         time.Now,
		rootCtx:     ctx,
		stopAll:     cancel,
		janitorDone: make(chan struct{}),
		sessions:    make(map[string]*session),
	}
	go s.runJanitor(ctx)
	return s
}

// Close stops the janitor and every session timer.
func (s *Storefront) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	n := len(s.sessions)
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	s.stopAll()
	<-s.janitorDone
	sessionsActive.Sub(float64(n))
}

// withSession runs fn with the session locked, then publishes a cart event if
// fn changed the cart.
func (s *Storefront) withSession(ctx context.Context, op, id string, fn func(ctx context.Context, sess *session) error) error {
	ctx, span := s.tracer.Start(ctx, "Storefront."+op,
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	sess, err := s.lockSession(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	sess.lastSeen = s.now()
	sess.cartChanged = false
	err = fn(ctx, sess)
	changed := sess.cartChanged
	snapshot := sess.cart.Cart()
	sess.mu.Unlock()

	tracing.RecordError(span, err)
	if changed {
		cartOperations.WithLabelValues(op).Inc()
		s.publishCart(ctx, id, snapshot)
	}
	return err
}

func (s *Storefront) publishCart(ctx context.Context, id string, c domain.Cart) {
	var err error
	topic := "cart.updated"
	if len(c.Lines) == 0 {
		topic = "cart.cleared"
		err = s.events.PublishCartCleared(ctx, id)
	} else {
		err = s.events.PublishCartUpdated(ctx, id, c)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish "+topic+" event",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Storefront) recordNav(action string, handled bool) {
	navigations.WithLabelValues(action, strconv.FormatBool(handled)).Inc()
}

func screenState(sess *session) ScreenState {
	st := ScreenState{
		Screen:    sess.flow.Screen(),
		Onboarded: sess.flow.Onboarded(),
		CartBadge: sess.cart.ItemCount(),
		CartTotal: sess.cart.TotalPrice(),
	}
	st.CartTotalLabel = domain.FormatPrice(st.CartTotal)
	if b, ok := sess.flow.SelectedBook(); ok {
		st.SelectedBook = &b
	}
	return st
}

// ============================================================================
// Screen flow
// ============================================================================

// Screen returns the session's current screen state.
func (s *Storefront) Screen(ctx context.Context, sessionID string) (ScreenState, error) {
	var out ScreenState
	err := s.withSession(ctx, "Screen", sessionID, func(_ context.Context, sess *session) error {
		out = screenState(sess)
		return nil
	})
	return out, err
}

// FinishSplash skips the remaining splash delay.
func (s *Storefront) FinishSplash(ctx context.Context, sessionID string) (ScreenState, error) {
	var out ScreenState
	err := s.withSession(ctx, "FinishSplash", sessionID, func(_ context.Context, sess *session) error {
		sess.flow.FinishSplash()
		out = screenState(sess)
		return nil
	})
	return out, err
}

// CompleteOnboarding leaves the welcome screen and persists the flag. The
// screen only advances once the flag is stored.
func (s *Storefront) CompleteOnboarding(ctx context.Context, sessionID string) (ScreenState, error) {
	var (
		out       ScreenState
		completed bool
	)
	err := s.withSession(ctx, "CompleteOnboarding", sessionID, func(ctx context.Context, sess *session) error {
		if sess.flow.Screen() != domain.ScreenWelcome {
			out = screenState(sess)
			return apperrors.Conflict("onboarding is not in progress")
		}
		if err := s.repo.MarkCompleted(ctx, sess.id); err != nil {
			return apperrors.Internal(err)
		}
		completed = sess.flow.CompleteOnboarding()
		out = screenState(sess)
		return nil
	})
	if err != nil {
		return out, err
	}

	if completed {
		s.logger.InfoContext(ctx, "onboarding completed", slog.String("session_id", sessionID))
		if err := s.events.PublishOnboardingCompleted(ctx, sessionID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish onboarding.completed event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}
	return out, nil
}

// Back closes the topmost overlay.
func (s *Storefront) Back(ctx context.Context, sessionID string) (BackResult, error) {
	var out BackResult
	err := s.withSession(ctx, "Back", sessionID, func(_ context.Context, sess *session) error {
		out.Handled = sess.flow.Back()
		out.Screen = sess.flow.Screen()
		return nil
	})
	if err == nil {
		s.recordNav("back", out.Handled)
	}
	return out, err
}

// ============================================================================
// Library
// ============================================================================

// Categories lists the categories a user can pick, "all" first.
func (s *Storefront) Categories() []CategoryView {
	out := make([]CategoryView, len(domain.Categories))
	for i, c := range domain.Categories {
		out[i] = CategoryView{Name: c, Label: c.Label(), Slug: c.Slug()}
	}
	return out
}

// SortOptions lists the sort menu.
func (s *Storefront) SortOptions() []SortOptionView {
	out := make([]SortOptionView, len(domain.SortOptions))
	for i, o := range domain.SortOptions {
		out[i] = SortOptionView{Name: o, Label: o.Label()}
	}
	return out
}

func libraryView(books *catalog.Store) LibraryView {
	return LibraryView{Filter: books.Filter(), Books: books.SortedBooks()}
}

// Library returns the sorted, filtered book list.
func (s *Storefront) Library(ctx context.Context, sessionID string) (LibraryView, error) {
	return s.updateLibrary(ctx, "Library", sessionID, func(*catalog.Store) {})
}

// SetCategory filters the library by c; nil or "all" clears the filter.
func (s *Storefront) SetCategory(ctx context.Context, sessionID string, c *domain.Category) (LibraryView, error) {
	return s.updateLibrary(ctx, "SetCategory", sessionID, func(b *catalog.Store) { b.SetCategory(c) })
}

// SetSearchQuery filters the library by free text.
func (s *Storefront) SetSearchQuery(ctx context.Context, sessionID, query string) (LibraryView, error) {
	return s.updateLibrary(ctx, "SetSearchQuery", sessionID, func(b *catalog.Store) { b.SetSearchQuery(query) })
}

// SetSearchActive opens or closes the search bar.
func (s *Storefront) SetSearchActive(ctx context.Context, sessionID string, active bool) (LibraryView, error) {
	return s.updateLibrary(ctx, "SetSearchActive", sessionID, func(b *catalog.Store) { b.SetSearchActive(active) })
}

// SetSortOption changes the library ordering.
func (s *Storefront) SetSortOption(ctx context.Context, sessionID string, o domain.SortOption) (LibraryView, error) {
	return s.updateLibrary(ctx, "SetSortOption", sessionID, func(b *catalog.Store) { b.SetSortOption(o) })
}

func (s *Storefront) updateLibrary(ctx context.Context, op, sessionID string, fn func(*catalog.Store)) (LibraryView, error) {
	var out LibraryView
	err := s.withSession(ctx, op, sessionID, func(_ context.Context, sess *session) error {
		fn(sess.catalog)
		out = libraryView(sess.catalog)
		return nil
	})
	return out, err
}

// Book looks up a single book in the catalog.
func (s *Storefront) Book(bookID string) (domain.Book, error) {
	b, ok := s.lookup.BookByID(bookID)
	if !ok {
		return domain.Book{}, apperrors.NotFound("book", bookID)
	}
	return b, nil
}

// SelectBook opens the detail page for bookID.
func (s *Storefront) SelectBook(ctx context.Context, sessionID, bookID string) (ScreenState, error) {
	if _, err := s.Book(bookID); err != nil {
		return ScreenState{}, err
	}
	var out ScreenState
	err := s.withSession(ctx, "SelectBook", sessionID, func(_ context.Context, sess *session) error {
		ok := sess.flow.SelectBook(bookID)
		s.recordNav("select_book", ok)
		out = screenState(sess)
		if !ok {
			return apperrors.Conflict("library is not open yet")
		}
		return nil
	})
	return out, err
}

// ChooseCategoryFromDetail applies a category tapped on the detail page and
// returns to the library.
func (s *Storefront) ChooseCategoryFromDetail(ctx context.Context, sessionID string, c domain.Category) (ScreenState, error) {
	var out ScreenState
	err := s.withSession(ctx, "ChooseCategoryFromDetail", sessionID, func(_ context.Context, sess *session) error {
		ok := sess.flow.ChooseCategoryFromDetail(c)
		s.recordNav("detail_category", ok)
		out = screenState(sess)
		if !ok {
			return apperrors.Conflict("no book detail is open")
		}
		return nil
	})
	return out, err
}

// ============================================================================
// Cart
// ============================================================================

// Cart returns the session's cart.
func (s *Storefront) Cart(ctx context.Context, sessionID string) (CartView, error) {
	var out CartView
	err := s.withSession(ctx, "Cart", sessionID, func(_ context.Context, sess *session) error {
		out = newCartView(sess.flow.CartOpen(), sess.cart.Cart())
		return nil
	})
	return out, err
}

// OpenCart shows the cart overlay.
func (s *Storefront) OpenCart(ctx context.Context, sessionID string) (ScreenState, error) {
	var out ScreenState
	err := s.withSession(ctx, "OpenCart", sessionID, func(_ context.Context, sess *session) error {
		ok := sess.flow.OpenCart()
		s.recordNav("open_cart", ok)
		out = screenState(sess)
		if !ok {
			return apperrors.Conflict("library is not open yet")
		}
		return nil
	})
	return out, err
}

// AddToCart adds one copy of bookID without changing the screen. Like the
// other shopping actions it waits for the library to open.
func (s *Storefront) AddToCart(ctx context.Context, sessionID, bookID string) (CartView, error) {
	book, err := s.Book(bookID)
	if err != nil {
		return CartView{}, err
	}
	var out CartView
	err = s.withSession(ctx, "AddToCart", sessionID, func(_ context.Context, sess *session) error {
		out = newCartView(sess.flow.CartOpen(), sess.cart.Cart())
		if !sess.flow.Ready() {
			return apperrors.Conflict("library is not open yet")
		}
		sess.cart.Add(book)
		out = newCartView(sess.flow.CartOpen(), sess.cart.Cart())
		return nil
	})
	if err == nil {
		s.logger.InfoContext(ctx, "book added to cart",
			slog.String("session_id", sessionID),
			slog.String("book_id", bookID),
			slog.Int("item_count", out.ItemCount),
		)
	}
	return out, err
}

// BuyBook adds bookID to the cart and opens the cart, as the buy button on
// the detail page does.
func (s *Storefront) BuyBook(ctx context.Context, sessionID, bookID string) (CartView, error) {
	if _, err := s.Book(bookID); err != nil {
		return CartView{}, err
	}
	var out CartView
	err := s.withSession(ctx, "BuyBook", sessionID, func(_ context.Context, sess *session) error {
		ok := sess.flow.Buy(bookID)
		s.recordNav("buy", ok)
		out = newCartView(sess.flow.CartOpen(), sess.cart.Cart())
		if !ok {
			return apperrors.Conflict("library is not open yet")
		}
		return nil
	})
	return out, err
}

// UpdateQuantity sets a line's quantity; zero or less removes it. A book that
// is not in the cart is left alone.
func (s *Storefront) UpdateQuantity(ctx context.Context, sessionID, bookID string, quantity int) (CartView, error) {
	if _, err := s.Book(bookID); err != nil {
		return CartView{}, err
	}
	var out CartView
	err := s.withSession(ctx, "UpdateQuantity", sessionID, func(_ context.Context, sess *session) error {
		sess.cart.UpdateQuantity(bookID, quantity)
		out = newCartView(sess.flow.CartOpen(), sess.cart.Cart())
		return nil
	})
	return out, err
}

// RemoveFromCart drops bookID's line if present.
func (s *Storefront) RemoveFromCart(ctx context.Context, sessionID, bookID string) (CartView, error) {
	if _, err := s.Book(bookID); err != nil {
		return CartView{}, err
	}
	var out CartView
	err := s.withSession(ctx, "RemoveFromCart", sessionID, func(_ context.Context, sess *session) error {
		sess.cart.Remove(bookID)
		out = newCartView(sess.flow.CartOpen(), sess.cart.Cart())
		return nil
	})
	return out, err
}

// Checkout opens the payment page for the open, non-empty cart.
func (s *Storefront) Checkout(ctx context.Context, sessionID string) (PaymentView, error) {
	var out PaymentView
	err := s.withSession(ctx, "Checkout", sessionID, func(_ context.Context, sess *session) error {
		ok := sess.flow.Checkout()
		s.recordNav("checkout", ok)
		out = paymentView(sess)
		if !ok {
			return apperrors.Conflict("checkout needs an open cart with items")
		}
		return nil
	})
	return out, err
}

// ============================================================================
// Payment
// ============================================================================

func paymentView(sess *session) PaymentView {
	due := sess.cart.TotalPrice()
	return PaymentView{
		Open:           sess.flow.PaymentOpen(),
		AmountDue:      due,
		AmountDueLabel: domain.FormatPrice(due),
	}
}

// Payment returns the amount due.
func (s *Storefront) Payment(ctx context.Context, sessionID string) (PaymentView, error) {
	var out PaymentView
	err := s.withSession(ctx, "Payment", sessionID, func(_ context.Context, sess *session) error {
		out = paymentView(sess)
		return nil
	})
	return out, err
}

// ValidatePayment checks a card form against the current month.
func (s *Storefront) ValidatePayment(form domain.PaymentForm) domain.PaymentReport {
	return form.Check(s.now())
}

// CompletePayment accepts the mock payment: the cart is cleared and the
// session returns to the library. The form report does not gate this call,
// but a cart emptied after checkout is refused.
func (s *Storefront) CompletePayment(ctx context.Context, sessionID string) (ScreenState, error) {
	var (
		out  ScreenState
		paid domain.Cart
	)
	err := s.withSession(ctx, "CompletePayment", sessionID, func(_ context.Context, sess *session) error {
		if sess.flow.PaymentOpen() && sess.cart.ItemCount() == 0 {
			out = screenState(sess)
			return apperrors.PaymentFailed("cart is empty")
		}
		var ok bool
		paid, ok = sess.flow.CompletePayment()
		out = screenState(sess)
		if !ok {
			return apperrors.Conflict("payment is not open")
		}
		return nil
	})
	if err != nil {
		return out, err
	}

	amount := paid.TotalPrice()
	paymentsCompleted.Inc()
	paymentAmount.Add(float64(amount))
	s.logger.InfoContext(ctx, "payment completed",
		slog.String("session_id", sessionID),
		slog.Int64("amount", amount),
		slog.Int("item_count", paid.ItemCount()),
	)
	if err := s.events.PublishPaymentCompleted(ctx, sessionID, paid); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish payment.completed event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return out, nil
}

// ============================================================================
// Carousel
// ============================================================================

// Carousel returns the banner slides and the one currently shown.
func (s *Storefront) Carousel(ctx context.Context, sessionID string) (CarouselView, error) {
	var out CarouselView
	err := s.withSession(ctx, "Carousel", sessionID, func(_ context.Context, sess *session) error {
		out = CarouselView{
			Slides:     sess.carousel.Slides(),
			Current:    sess.carousel.Current(),
			IntervalMS: s.opts.CarouselInterval.Milliseconds(),
		}
		return nil
	})
	return out, err
}

// ShowSlide jumps the carousel to slide i, as a swipe does, and restarts the
// auto-advance interval from the new slide.
func (s *Storefront) ShowSlide(ctx context.Context, sessionID string, i int) (CarouselView, error) {
	var out CarouselView
	err := s.withSession(ctx, "ShowSlide", sessionID, func(_ context.Context, sess *session) error {
		if !sess.carousel.Show(i) {
			return apperrors.InvalidInput("slide index out of range")
		}
		sess.restartCarousel()
		out = CarouselView{
			Slides:     sess.carousel.Slides(),
			Current:    sess.carousel.Current(),
			IntervalMS: s.opts.CarouselInterval.Milliseconds(),
		}
		return nil
	})
	return out, err
}

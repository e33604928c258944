package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliaxp/LiberaryApplication/internal/catalog"
	"github.com/iliaxp/LiberaryApplication/internal/event"
	"github.com/iliaxp/LiberaryApplication/internal/repository/memory"
	"github.com/iliaxp/LiberaryApplication/internal/service"
	"github.com/iliaxp/LiberaryApplication/pkg/health"
	"github.com/iliaxp/LiberaryApplication/pkg/middleware"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	router http.Handler
	repo   *memory.OnboardingRepository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	logger := testLogger()
	repo := memory.NewOnboardingRepository()
	opts := service.DefaultOptions()
	opts.SplashDuration = time.Hour
	opts.CarouselInterval = time.Hour
	producer := event.NewProducer(event.NopPublisher{}, logger)
	svc := service.NewStorefront(catalog.SeedBooks(), repo, producer, logger, opts)
	t.Cleanup(svc.Close)

	hh := health.NewHandler()
	hh.Register("sessions", func(context.Context) error { return nil })

	return &testEnv{
		router: NewRouter(svc, hh, logger, middleware.DefaultCORSConfig(), middleware.RateLimitConfig{}),
		repo:   repo,
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, session string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.SessionIDHeader, session)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// toLibrary moves session to the library screen.
func (e *testEnv) toLibrary(t *testing.T, session string) {
	t.Helper()
	require.NoError(t, e.repo.MarkCompleted(context.Background(), session))
	rec, _ := e.do(t, http.MethodPost, "/api/v1/screen/splash/finish", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================================
// Sessions
// ============================================================================

func TestSession_GeneratedWhenMissing(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/screen", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.SessionIDHeader))

	st := decodeData[service.ScreenState](t, resp)
	assert.Equal(t, "splash", string(st.Screen))
}

func TestSession_InvalidHeader(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/screen", "bad\x01id", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestContentType_Rejected(t *testing.T) {
	env := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("book_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// Screen flow
// ============================================================================

func TestOnboardingFlow(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/screen/splash/finish", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "welcome", string(decodeData[service.ScreenState](t, resp).Screen))

	rec, resp = env.do(t, http.MethodPost, "/api/v1/screen/onboarding/complete", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "library", string(decodeData[service.ScreenState](t, resp).Screen))

	done, err := env.repo.Completed(context.Background(), "dev")
	require.NoError(t, err)
	assert.True(t, done)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/screen/onboarding/complete", "dev", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestBack(t *testing.T) {
	env := setup(t)
	env.toLibrary(t, "dev")

	rec, _ := env.do(t, http.MethodPost, "/api/v1/books/3/select", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, resp := env.do(t, http.MethodPost, "/api/v1/screen/back", "dev", nil)
	res := decodeData[service.BackResult](t, resp)
	assert.True(t, res.Handled)
	assert.Equal(t, "library", string(res.Screen))

	_, resp = env.do(t, http.MethodPost, "/api/v1/screen/back", "dev", nil)
	assert.False(t, decodeData[service.BackResult](t, resp).Handled)
}

// ============================================================================
// Library
// ============================================================================

func TestListCategories(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decodeData[[]service.CategoryView](t, resp)
	require.Len(t, cats, 9)
	assert.Equal(t, "science-fiction", cats[8].Slug)
}

type libraryPage struct {
	Filter struct {
		Category *string `json:"category"`
		Query    string  `json:"query"`
		Sort     string  `json:"sort"`
	} `json:"filter"`
	SortOptions []service.SortOptionView `json:"sort_options"`
	Books       struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		TotalCount int  `json:"total_count"`
		HasNext    bool `json:"has_next"`
	} `json:"books"`
}

func TestGetLibrary_Paginated(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/library?page=2&per_page=5", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decodeData[libraryPage](t, resp)
	assert.Equal(t, 18, page.Books.TotalCount)
	assert.Len(t, page.Books.Data, 5)
	assert.True(t, page.Books.HasNext)
	assert.Len(t, page.SortOptions, 5)
	assert.Equal(t, "most_popular", page.Filter.Sort)
}

func TestSetCategory(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodPut, "/api/v1/library/category", "dev", CategoryRequest{Category: "Drama"})
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[libraryPage](t, resp)
	assert.Equal(t, 3, page.Books.TotalCount)
	require.NotNil(t, page.Filter.Category)
	assert.Equal(t, "drama", *page.Filter.Category)

	_, resp = env.do(t, http.MethodPut, "/api/v1/library/category", "dev", CategoryRequest{Category: "all"})
	page = decodeData[libraryPage](t, resp)
	assert.Nil(t, page.Filter.Category)
	assert.Equal(t, 18, page.Books.TotalCount)

	rec, resp = env.do(t, http.MethodPut, "/api/v1/library/category", "dev", CategoryRequest{Category: "poetry"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestSearchAndSort(t *testing.T) {
	env := setup(t)

	active := true
	rec, _ := env.do(t, http.MethodPut, "/api/v1/library/search/active", "dev", SearchActiveRequest{Active: &active})
	require.Equal(t, http.StatusOK, rec.Code)

	_, resp := env.do(t, http.MethodPut, "/api/v1/library/search", "dev", SearchRequest{Query: "ORWELL"})
	page := decodeData[libraryPage](t, resp)
	require.Len(t, page.Books.Data, 1)
	assert.Equal(t, "3", page.Books.Data[0].ID)

	_, _ = env.do(t, http.MethodPut, "/api/v1/library/search", "dev", SearchRequest{Query: ""})
	_, resp = env.do(t, http.MethodPut, "/api/v1/library/sort", "dev", SortRequest{Sort: "price_asc"})
	page = decodeData[libraryPage](t, resp)
	assert.Equal(t, "price_asc", page.Filter.Sort)
	assert.Equal(t, "5", page.Books.Data[0].ID)

	rec, resp = env.do(t, http.MethodPut, "/api/v1/library/sort", "dev", SortRequest{Sort: "newest"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestSearchActive_Required(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodPut, "/api/v1/library/search/active", "dev", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "active")
}

// ============================================================================
// Books
// ============================================================================

func TestGetBook(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/books/18", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var book struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &book))
	assert.Equal(t, "Hamlet", book.Name)
	assert.Equal(t, int64(1200), book.Price)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/books/404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestSelectBook_BeforeLibrary(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/books/1/select", "dev", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestDetailCategory(t *testing.T) {
	env := setup(t)
	env.toLibrary(t, "dev")

	_, _ = env.do(t, http.MethodPost, "/api/v1/books/8/select", "dev", nil)
	rec, resp := env.do(t, http.MethodPost, "/api/v1/detail/category", "dev", DetailCategoryRequest{Category: "science"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "library", string(decodeData[service.ScreenState](t, resp).Screen))

	_, resp = env.do(t, http.MethodGet, "/api/v1/library", "dev", nil)
	assert.Equal(t, 3, decodeData[libraryPage](t, resp).Books.TotalCount)
}

// ============================================================================
// Cart, checkout and payment
// ============================================================================

func TestCartEndpoints(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "early", AddItemRequest{BookID: "1"})
	assert.Equal(t, http.StatusConflict, rec.Code, "cart stays closed until the library opens")
	assert.Equal(t, "CONFLICT", resp.Error.Code)

	env.toLibrary(t, "dev")
	rec, resp = env.do(t, http.MethodPost, "/api/v1/cart/items", "dev", AddItemRequest{BookID: "1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decodeData[service.CartView](t, resp).ItemCount)

	two := 2
	_, resp = env.do(t, http.MethodPut, "/api/v1/cart/items/1", "dev", UpdateQuantityRequest{Quantity: &two})
	view := decodeData[service.CartView](t, resp)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, "$40.00", view.TotalLabel)

	tooMany := 101
	rec, resp = env.do(t, http.MethodPut, "/api/v1/cart/items/1", "dev", UpdateQuantityRequest{Quantity: &tooMany})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/cart/items/1", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, resp = env.do(t, http.MethodGet, "/api/v1/cart", "dev", nil)
	assert.Empty(t, decodeData[service.CartView](t, resp).Lines)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/cart/items", "dev", AddItemRequest{BookID: "77"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/cart/items", "dev", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestPurchaseFlow(t *testing.T) {
	env := setup(t)
	env.toLibrary(t, "dev")

	_, _ = env.do(t, http.MethodPost, "/api/v1/books/4/select", "dev", nil)
	rec, resp := env.do(t, http.MethodPost, "/api/v1/books/4/buy", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[service.CartView](t, resp).Open)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/cart/checkout", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2500), decodeData[service.PaymentView](t, resp).AmountDue)

	_, resp = env.do(t, http.MethodGet, "/api/v1/payment", "dev", nil)
	pay := decodeData[service.PaymentView](t, resp)
	assert.True(t, pay.Open)
	assert.Equal(t, "$25.00", pay.AmountDueLabel)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/payment/complete", "dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeData[service.ScreenState](t, resp)
	assert.Equal(t, "library", string(st.Screen))
	assert.Equal(t, 0, st.CartBadge)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/payment/complete", "dev", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := setup(t)
	env.toLibrary(t, "dev")

	_, _ = env.do(t, http.MethodPost, "/api/v1/cart/open", "dev", nil)
	rec, _ := env.do(t, http.MethodPost, "/api/v1/cart/checkout", "dev", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestValidatePayment(t *testing.T) {
	env := setup(t)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/payment/validate", "dev", PaymentFormRequest{
		CardNumber: "1234", ExpiryMonth: "13", CVV: "12",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		CardNumberValid  bool `json:"card_number_valid"`
		ExpiryMonthValid bool `json:"expiry_month_valid"`
		CVVValid         bool `json:"cvv_valid"`
		PayEnabled       bool `json:"pay_enabled"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.False(t, report.CardNumberValid)
	assert.False(t, report.ExpiryMonthValid)
	assert.False(t, report.PayEnabled)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/payment/validate", "dev", PaymentFormRequest{CardNumber: "12ab"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must contain only digits", resp.Error.Fields["card_number"])
}

// ============================================================================
// Carousel and health
// ============================================================================

func TestCarousel(t *testing.T) {
	env := setup(t)

	_, resp := env.do(t, http.MethodGet, "/api/v1/carousel", "dev", nil)
	view := decodeData[service.CarouselView](t, resp)
	assert.Len(t, view.Slides, 3)

	idx := 2
	_, resp = env.do(t, http.MethodPut, "/api/v1/carousel/current", "dev", SlideRequest{Index: &idx})
	assert.Equal(t, 2, decodeData[service.CarouselView](t, resp).Current)

	idx = 9
	rec, _ := env.do(t, http.MethodPut, "/api/v1/carousel/current", "dev", SlideRequest{Index: &idx})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := setup(t)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

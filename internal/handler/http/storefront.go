package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iliaxp/LiberaryApplication/internal/catalog"
	"github.com/iliaxp/LiberaryApplication/internal/domain"
	"github.com/iliaxp/LiberaryApplication/internal/service"
	"github.com/iliaxp/LiberaryApplication/pkg/httputil"
	"github.com/iliaxp/LiberaryApplication/pkg/pagination"
	"github.com/iliaxp/LiberaryApplication/pkg/validator"
)

// StorefrontHandler serves the storefront API.
type StorefrontHandler struct {
	service *service.Storefront
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront HTTP handler.
func NewStorefrontHandler(svc *service.Storefront, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CategoryRequest selects a library category. Empty or "all" clears it.
type CategoryRequest struct {
	Category string `json:"category" validate:"max=32"`
}

// DetailCategoryRequest is a category tapped on the detail page.
type DetailCategoryRequest struct {
	Category string `json:"category" validate:"required,max=32"`
}

// SearchRequest sets the search text.
type SearchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// SearchActiveRequest opens or closes the search bar.
type SearchActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// SortRequest picks the library order.
type SortRequest struct {
	Sort string `json:"sort" validate:"required,max=32"`
}

// AddItemRequest adds one copy of a book to the cart.
type AddItemRequest struct {
	BookID string `json:"book_id" validate:"required,max=64"`
}

// UpdateQuantityRequest sets a line quantity; zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=100"`
}

// PaymentFormRequest is the card form as typed so far. Fields may be
// incomplete but never longer than the card field allows.
type PaymentFormRequest struct {
	CardNumber  string `json:"card_number" validate:"omitempty,max=16,digits"`
	ExpiryYear  string `json:"expiry_year" validate:"omitempty,max=2,digits"`
	ExpiryMonth string `json:"expiry_month" validate:"omitempty,max=2,digits"`
	CVV         string `json:"cvv" validate:"omitempty,max=4,digits"`
}

// SlideRequest jumps the carousel to a slide.
type SlideRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// --- Responses ---

type libraryResponse struct {
	Filter      catalog.Filter                 `json:"filter"`
	SortOptions []service.SortOptionView       `json:"sort_options"`
	Books       pagination.Result[domain.Book] `json:"books"`
}

// --- Screen ---

// GetScreen handles GET /api/v1/screen
func (h *StorefrontHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Screen(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, st, err)
}

// FinishSplash handles POST /api/v1/screen/splash/finish
func (h *StorefrontHandler) FinishSplash(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.FinishSplash(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, st, err)
}

// CompleteOnboarding handles POST /api/v1/screen/onboarding/complete
func (h *StorefrontHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.CompleteOnboarding(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, st, err)
}

// Back handles POST /api/v1/screen/back
func (h *StorefrontHandler) Back(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Back(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, res, err)
}

// --- Library ---

// ListCategories handles GET /api/v1/categories
func (h *StorefrontHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Categories()})
}

// GetLibrary handles GET /api/v1/library
func (h *StorefrontHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Library(r.Context(), sessionIDFromContext(r.Context()))
	h.respondLibrary(w, r, view, err)
}

// SetCategory handles PUT /api/v1/library/category
func (h *StorefrontHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	var cat *domain.Category
	if req.Category != "" {
		c, err := domain.ParseCategory(req.Category)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		cat = &c
	}

	view, err := h.service.SetCategory(r.Context(), sessionIDFromContext(r.Context()), cat)
	h.respondLibrary(w, r, view, err)
}

// SetSearchQuery handles PUT /api/v1/library/search
func (h *StorefrontHandler) SetSearchQuery(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SetSearchQuery(r.Context(), sessionIDFromContext(r.Context()), req.Query)
	h.respondLibrary(w, r, view, err)
}

// SetSearchActive handles PUT /api/v1/library/search/active
func (h *StorefrontHandler) SetSearchActive(w http.ResponseWriter, r *http.Request) {
	var req SearchActiveRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SetSearchActive(r.Context(), sessionIDFromContext(r.Context()), *req.Active)
	h.respondLibrary(w, r, view, err)
}

// SetSortOption handles PUT /api/v1/library/sort
func (h *StorefrontHandler) SetSortOption(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if !h.decode(w, r, &req) {
		return
	}
	opt, err := domain.ParseSortOption(req.Sort)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	view, err := h.service.SetSortOption(r.Context(), sessionIDFromContext(r.Context()), opt)
	h.respondLibrary(w, r, view, err)
}

// --- Books ---

// GetBook handles GET /api/v1/books/{bookId}
func (h *StorefrontHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Book(chi.URLParam(r, "bookId"))
	h.respond(w, r, book, err)
}

// SelectBook handles POST /api/v1/books/{bookId}/select
func (h *StorefrontHandler) SelectBook(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.SelectBook(r.Context(), sessionIDFromContext(r.Context()), chi.URLParam(r, "bookId"))
	h.respond(w, r, st, err)
}

// BuyBook handles POST /api/v1/books/{bookId}/buy
func (h *StorefrontHandler) BuyBook(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.BuyBook(r.Context(), sessionIDFromContext(r.Context()), chi.URLParam(r, "bookId"))
	h.respond(w, r, view, err)
}

// ChooseDetailCategory handles POST /api/v1/detail/category
func (h *StorefrontHandler) ChooseDetailCategory(w http.ResponseWriter, r *http.Request) {
	var req DetailCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	cat, err := domain.ParseCategory(req.Category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	st, err := h.service.ChooseCategoryFromDetail(r.Context(), sessionIDFromContext(r.Context()), cat)
	h.respond(w, r, st, err)
}

// --- Cart ---

// GetCart handles GET /api/v1/cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Cart(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, view, err)
}

// OpenCart handles POST /api/v1/cart/open
func (h *StorefrontHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.OpenCart(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, st, err)
}

// AddItem handles POST /api/v1/cart/items
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.AddToCart(r.Context(), sessionIDFromContext(r.Context()), req.BookID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: view})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{bookId}
func (h *StorefrontHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.UpdateQuantity(r.Context(), sessionIDFromContext(r.Context()), chi.URLParam(r, "bookId"), *req.Quantity)
	h.respond(w, r, view, err)
}

// RemoveItem handles DELETE /api/v1/cart/items/{bookId}
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveFromCart(r.Context(), sessionIDFromContext(r.Context()), chi.URLParam(r, "bookId"))
	h.respond(w, r, view, err)
}

// Checkout handles POST /api/v1/cart/checkout
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Checkout(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, view, err)
}

// --- Payment ---

// GetPayment handles GET /api/v1/payment
func (h *StorefrontHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Payment(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, view, err)
}

// ValidatePayment handles POST /api/v1/payment/validate
func (h *StorefrontHandler) ValidatePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentFormRequest
	if !h.decode(w, r, &req) {
		return
	}
	report := h.service.ValidatePayment(domain.PaymentForm{
		CardNumber:  req.CardNumber,
		ExpiryYear:  req.ExpiryYear,
		ExpiryMonth: req.ExpiryMonth,
		CVV:         req.CVV,
	})
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: report})
}

// CompletePayment handles POST /api/v1/payment/complete
func (h *StorefrontHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.CompletePayment(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, st, err)
}

// --- Carousel ---

// GetCarousel handles GET /api/v1/carousel
func (h *StorefrontHandler) GetCarousel(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Carousel(r.Context(), sessionIDFromContext(r.Context()))
	h.respond(w, r, view, err)
}

// ShowSlide handles PUT /api/v1/carousel/current
func (h *StorefrontHandler) ShowSlide(w http.ResponseWriter, r *http.Request) {
	var req SlideRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.ShowSlide(r.Context(), sessionIDFromContext(r.Context()), *req.Index)
	h.respond(w, r, view, err)
}

// --- helpers ---

func (h *StorefrontHandler) respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: data})
}

func (h *StorefrontHandler) respondLibrary(w http.ResponseWriter, r *http.Request, view service.LibraryView, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: libraryResponse{
		Filter:      view.Filter,
		SortOptions: h.service.SortOptions(),
		Books:       pagination.Paginate(view.Books, pagination.FromRequest(r)),
	}})
}

// decode reads and validates a JSON body, writing the error response itself
// when it fails.
func (h *StorefrontHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListingService is the listing use case as seen by the transport.
type ListingService interface {
	Categories() []domain.CategorySpec
	ValidateListing(category domain.Category, record domain.Record, uploads int) (domain.FieldErrors, error)
	CreateListing(ctx context.Context, actor usecase.Actor, category domain.Category, record domain.Record, uploads []usecase.Upload) (*domain.Listing, error)
	UpdateListing(ctx context.Context, actor usecase.Actor, category domain.Category, id string, record domain.Record, uploads []usecase.Upload) (*domain.Listing, error)
	DeleteListing(ctx context.Context, category domain.Category, id string) error
	GetListing(ctx context.Context, category domain.Category, id string) (*domain.Listing, error)
	FilterListings(ctx context.Context, category domain.Category, p domain.Predicates) ([]*domain.Listing, error)
}

type SearchService interface {
	Search(ctx context.Context, term string) ([]domain.SearchResult, error)
}

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

type Handler struct {
	listings       ListingService
	search         SearchService
	health         HealthFunc
	maxUploadBytes int64
	adminRole      string
	logger         *logger.Logger
}

func NewHandler(listings ListingService, search SearchService, health HealthFunc, maxUploadBytes int64, adminRole string, log *logger.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	if adminRole == "" {
		adminRole = defaultAdminRole
	}
	return &Handler{
		listings:       listings,
		search:         search,
		health:         health,
		maxUploadBytes: maxUploadBytes,
		adminRole:      adminRole,
		logger:         log.Named("rest"),
	}
}

// actor describes the authenticated caller, if any.
func (h *Handler) actor(r *http.Request) usecase.Actor {
	return usecase.Actor{
		UserID: userID(r.Context()),
		Admin:  strings.EqualFold(userRole(r.Context()), h.adminRole),
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorEnvelope(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	respondJSON(w, status, body)
}

func category(r *http.Request) (domain.Category, error) {
	return domain.ParseCategory(chi.URLParam(r, "category"))
}

// HandleList serves GET /listings/{category} with optional predicates.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := domain.ParsePredicates(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	listings, err := h.listings.FilterListings(r.Context(), c, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Success: true, Items: listingViews(listings)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	l, err := h.listings.GetListing(r.Context(), c, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Success: true, Item: listingView(l)})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	record, uploads, err := decodeSubmission(w, r, h.maxUploadBytes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	l, err := h.listings.CreateListing(r.Context(), h.actor(r), c, record, uploads)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, Envelope{Success: true, Message: "listing created", ID: l.ID, Item: listingView(l)})
}

// HandleUpdate replaces the whole listing.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	record, uploads, err := decodeSubmission(w, r, h.maxUploadBytes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	l, err := h.listings.UpdateListing(r.Context(), h.actor(r), c, chi.URLParam(r, "id"), record, uploads)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Listing replaced", zap.String("listing_id", l.ID), zap.String("user_id", userID(r.Context())))
	respondJSON(w, http.StatusOK, Envelope{Success: true, Message: "listing updated", ID: l.ID, Item: listingView(l)})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.listings.DeleteListing(r.Context(), c, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Listing deleted", zap.String("listing_id", id), zap.String("user_id", userID(r.Context())))
	respondMessage(w, http.StatusOK, "listing deleted")
}

// HandleValidate checks a submission without storing it.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	c, err := category(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	record, uploads, err := decodeSubmission(w, r, h.maxUploadBytes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fe, err := h.listings.ValidateListing(c, record, len(uploads))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := domain.NewValidationError(fe); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "valid")
}

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Envelope{Success: true, Items: h.listings.Categories()})
}

// HandleSearch serves GET /search?q=. A missing or blank q yields an empty list.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Success: true, Items: searchViews(results)})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			respondMessage(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	respondMessage(w, http.StatusOK, "ok")
}

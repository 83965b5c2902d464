package transport

import (
	"net/http"
	"strconv"
	"strings"

	"freshmind/internal/domain"
	"freshmind/internal/middleware"
	"freshmind/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductListResponse represents the product listing response
type ProductListResponse struct {
	Products []domain.ScoredProduct `json:"products"`
	Total    int                    `json:"total"`
}

// CategoryListResponse represents the category filter values
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// CatalogHandler handles HTTP requests for product browsing
type CatalogHandler struct {
	catalogService service.CatalogService
	profileService service.ProfileService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, profileService service.ProfileService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/categories", h.ListCategories)
}

// ListProducts handles the storefront listing. Query parameters mirror the
// UI state: category, q (search), sort, and ids (the chatbot's override
// list, comma-separated).
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := service.BrowseQuery{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
		Sort:     service.SortMode(r.URL.Query().Get("sort")),
	}

	if query.Sort == "" {
		query.Sort = service.SortPopularity
	}
	if !service.ValidSortMode(query.Sort) {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sort mode")
		return
	}

	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid ids parameter")
		return
	}
	query.RecommendedIDs = ids

	profile, userID := h.sessionContext(r)

	products := h.catalogService.Browse(query, profile, userID)

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// ListCategories handles the category filter listing
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, CategoryListResponse{
		Categories: h.catalogService.Categories(),
	})
}

// sessionContext loads the session's profile and resolves it to a demo
// account. Both degrade to the anonymous state on failure; browsing never
// breaks because personalization data is missing.
func (h *CatalogHandler) sessionContext(r *http.Request) (*domain.UserProfile, int) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		return nil, 0
	}

	profile, err := h.profileService.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Warn("Failed to load session profile", zap.Error(err))
		return nil, 0
	}
	if profile == nil {
		return nil, 0
	}

	userID, err := h.profileService.ResolveUserID(r.Context(), profile)
	if err != nil {
		h.logger.Warn("Failed to resolve profile to user", zap.Error(err))
		return profile, 0
	}

	return profile, userID
}

// parseIDList parses a comma-separated list of product IDs. Empty input
// yields nil; blank entries are skipped.
func parseIDList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

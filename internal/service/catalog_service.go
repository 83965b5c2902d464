package service

import (
	"sort"
	"strings"
	"time"

	"freshmind/internal/domain"
	"freshmind/internal/recommend"
	"freshmind/internal/store"
)

// SortMode selects the ranking applied by the browse pipeline.
type SortMode string

const (
	SortPopularity   SortMode = "popular"
	SortPriceLow     SortMode = "price-low"
	SortPriceHigh    SortMode = "price-high"
	SortReviews      SortMode = "reviews"
	SortRating       SortMode = "rating"
	SortPersonalized SortMode = "personalized"
)

// ValidSortMode reports whether the mode is one the pipeline understands.
func ValidSortMode(mode SortMode) bool {
	switch mode {
	case SortPopularity, SortPriceLow, SortPriceHigh, SortReviews, SortRating, SortPersonalized:
		return true
	}
	return false
}

const (
	hotDishesLimit = 30
	// Products the user bought within this window are hidden from the
	// "핫한 요리" view.
	hotDishesExclusionDays = 60
)

// BrowseQuery is the UI state the pipeline derives the displayed list from.
type BrowseQuery struct {
	Category string
	Search   string
	Sort     SortMode
	// RecommendedIDs is the chatbot's override list. When non-empty it
	// replaces all filtering: the output is exactly these products in
	// catalog order.
	RecommendedIDs []int
}

// CatalogService derives the displayed product list from the catalog and the
// current UI state. It is pure with respect to its inputs: the pipeline
// recomputes fully on every call and never mutates catalog records.
type CatalogService interface {
	Browse(query BrowseQuery, profile *domain.UserProfile, userID int) []domain.ScoredProduct
	Categories() []string
}

type catalogService struct {
	catalog *store.Catalog
	ledger  *store.Ledger
	now     func() time.Time
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(catalog *store.Catalog, ledger *store.Ledger) CatalogService {
	return &catalogService{
		catalog: catalog,
		ledger:  ledger,
		now:     time.Now,
	}
}

// Browse runs the pipeline: override list, then category selection, then
// free-text search, then the chosen sort. userID 0 means the profile did not
// resolve to a demo account, which is the zero-purchase-signal state.
func (s *catalogService) Browse(query BrowseQuery, profile *domain.UserProfile, userID int) []domain.ScoredProduct {
	if len(query.RecommendedIDs) > 0 {
		return s.overrideList(query.RecommendedIDs)
	}

	stats := recommend.BuildUserStats(s.catalog, s.ledger.ByUser(userID))
	scorer := recommend.NewScorer(stats, s.now())

	hot := query.Category == domain.CategoryHotDishes

	var items []domain.ScoredProduct
	if hot {
		items = s.hotDishes(stats)
	} else {
		items = s.byCategory(query.Category)
	}

	items = filterSearch(items, query.Search)
	s.sortItems(items, query.Sort, hot, scorer, profile)

	return items
}

// Categories returns the category filter values: the two synthetic entries
// first, then the catalog's categories in catalog order.
func (s *catalogService) Categories() []string {
	cats := s.catalog.Categories()
	out := make([]string, 0, len(cats)+2)
	out = append(out, domain.CategoryAll, domain.CategoryHotDishes)
	return append(out, cats...)
}

// overrideList restricts the output to exactly the given IDs, in catalog
// order. IDs unknown to the catalog are dropped.
func (s *catalogService) overrideList(ids []int) []domain.ScoredProduct {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	items := []domain.ScoredProduct{}
	for _, p := range s.catalog.Products() {
		if want[p.ID] {
			items = append(items, domain.ScoredProduct{Product: p})
		}
	}
	return items
}

func (s *catalogService) byCategory(category string) []domain.ScoredProduct {
	all := category == "" || category == domain.CategoryAll

	items := []domain.ScoredProduct{}
	for _, p := range s.catalog.Products() {
		if !all && p.Category != category {
			continue
		}
		items = append(items, domain.ScoredProduct{Product: p})
	}
	return items
}

// hotDishes trend-scores the catalog, hides products the user bought
// recently, and keeps the top window.
func (s *catalogService) hotDishes(stats *recommend.UserStats) []domain.ScoredProduct {
	now := s.now()

	items := []domain.ScoredProduct{}
	for _, p := range s.catalog.Products() {
		if stat, ok := stats.Stat(p.ID); ok {
			if now.Sub(stat.LastPurchase).Hours()/24 <= hotDishesExclusionDays {
				continue
			}
		}
		items = append(items, domain.ScoredProduct{
			Product:    p,
			TrendScore: recommend.TrendScore(p),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TrendScore > items[j].TrendScore
	})

	if len(items) > hotDishesLimit {
		items = items[:hotDishesLimit]
	}
	return items
}

// filterSearch keeps products whose name, category, usedIn entries, or tags
// contain the query, case-insensitively. An empty query passes everything.
func filterSearch(items []domain.ScoredProduct, search string) []domain.ScoredProduct {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return items
	}

	filtered := items[:0:0]
	for _, item := range items {
		if matchesSearch(item.Product, q) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matchesSearch(p domain.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Category), q) {
		return true
	}
	for _, use := range p.UsedIn {
		if strings.Contains(strings.ToLower(use), q) {
			return true
		}
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Blend weights for personalized sorting inside the "핫한 요리" view.
const (
	hotTrendWeight        = 0.3
	hotPersonalizedWeight = 0.7
)

func (s *catalogService) sortItems(items []domain.ScoredProduct, mode SortMode, hot bool, scorer *recommend.Scorer, profile *domain.UserProfile) {
	// Personalized ranking needs a profile; without one it falls back to
	// popularity.
	if mode == SortPersonalized && profile == nil {
		mode = SortPopularity
	}

	if mode == SortPersonalized {
		for i := range items {
			items[i].Score = scorer.PersonalizedScore(profile, items[i].Product)
		}
	}

	if hot && mode == SortPersonalized {
		for i := range items {
			items[i].Score = hotTrendWeight*items[i].TrendScore + hotPersonalizedWeight*items[i].Score
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Score > items[j].Score
		})
		return
	}

	primary := sortKey(mode)
	if hot {
		// Compound key: the chosen sort first, trend score as tiebreak.
		sort.SliceStable(items, func(i, j int) bool {
			a, b := primary(items[i]), primary(items[j])
			if a != b {
				return a > b
			}
			return items[i].TrendScore > items[j].TrendScore
		})
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return primary(items[i]) > primary(items[j])
	})
}

// sortKey returns the primary key for a mode as a descending-order score;
// ascending sorts (price-low) negate the value.
func sortKey(mode SortMode) func(domain.ScoredProduct) float64 {
	switch mode {
	case SortPriceLow:
		return func(p domain.ScoredProduct) float64 { return -float64(p.Price) }
	case SortPriceHigh:
		return func(p domain.ScoredProduct) float64 { return float64(p.Price) }
	case SortReviews:
		return func(p domain.ScoredProduct) float64 { return float64(p.Reviews) }
	case SortRating:
		return func(p domain.ScoredProduct) float64 { return p.Rating }
	case SortPersonalized:
		return func(p domain.ScoredProduct) float64 { return p.Score }
	default: // SortPopularity
		return func(p domain.ScoredProduct) float64 { return p.Popularity() }
	}
}

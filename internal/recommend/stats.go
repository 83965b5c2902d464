// Package recommend implements the ranking heuristics behind the storefront:
// purchase-history aggregation, the personalized affinity score, and the
// trend score used by the "핫한 요리" view. Everything here is pure arithmetic
// over the catalog and ledger snapshots.
package recommend

import (
	"sort"
	"time"

	"freshmind/internal/domain"
	"freshmind/internal/store"
)

// topCategoryCount is how many categories count as a user's "top" categories.
const topCategoryCount = 3

// ProductStat is the per-(user, product) purchase aggregate. Recomputed on
// demand from the ledger; never persisted.
type ProductStat struct {
	ProductID     int
	Category      string
	PurchaseCount int
	TotalQuantity int
	LastPurchase  time.Time
}

type categoryStat struct {
	count        int
	lastPurchase time.Time
	firstSeen    int // aggregation order, breaks ties in top-category ranking
}

// UserStats is one user's aggregated purchase history.
type UserStats struct {
	products   map[int]*ProductStat
	categories map[string]*categoryStat
	catOrder   []string
	total      int
}

// BuildUserStats aggregates a user's purchase events against the catalog.
// Events referencing a product the catalog does not know are skipped.
func BuildUserStats(catalog *store.Catalog, events []domain.PurchaseEvent) *UserStats {
	s := &UserStats{
		products:   make(map[int]*ProductStat),
		categories: make(map[string]*categoryStat),
	}

	for _, e := range events {
		product, ok := catalog.Get(e.ProductID)
		if !ok {
			continue
		}

		stat := s.products[e.ProductID]
		if stat == nil {
			stat = &ProductStat{ProductID: e.ProductID, Category: product.Category}
			s.products[e.ProductID] = stat
		}
		stat.PurchaseCount++
		stat.TotalQuantity += e.Quantity
		if e.PurchasedAt.After(stat.LastPurchase) {
			stat.LastPurchase = e.PurchasedAt
		}

		cat := s.categories[product.Category]
		if cat == nil {
			cat = &categoryStat{firstSeen: len(s.catOrder)}
			s.categories[product.Category] = cat
			s.catOrder = append(s.catOrder, product.Category)
		}
		cat.count++
		if e.PurchasedAt.After(cat.lastPurchase) {
			cat.lastPurchase = e.PurchasedAt
		}

		s.total++
	}

	return s
}

// Empty reports whether the user has any counted purchase history.
func (s *UserStats) Empty() bool {
	return s == nil || s.total == 0
}

// Stat returns the aggregate for one product.
func (s *UserStats) Stat(productID int) (ProductStat, bool) {
	if s == nil {
		return ProductStat{}, false
	}
	stat, ok := s.products[productID]
	if !ok {
		return ProductStat{}, false
	}
	return *stat, true
}

// RepeatProductIDs returns the products bought at least twice, in ascending
// product-ID order.
func (s *UserStats) RepeatProductIDs() []int {
	if s == nil {
		return nil
	}
	var ids []int
	for id, stat := range s.products {
		if stat.PurchaseCount >= 2 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// IsRepeat reports whether the user bought the product at least twice.
func (s *UserStats) IsRepeat(productID int) bool {
	stat, ok := s.Stat(productID)
	return ok && stat.PurchaseCount >= 2
}

// TopCategories returns at most three categories ordered by descending
// aggregate purchase count. Ties keep the category that appeared first in
// the aggregation.
func (s *UserStats) TopCategories() []string {
	if s == nil || len(s.catOrder) == 0 {
		return nil
	}

	ranked := make([]string, len(s.catOrder))
	copy(ranked, s.catOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return s.categories[ranked[i]].count > s.categories[ranked[j]].count
	})

	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}
	return ranked
}

// HasCategory reports whether the user bought anything in the category.
func (s *UserStats) HasCategory(category string) bool {
	if s == nil {
		return false
	}
	_, ok := s.categories[category]
	return ok
}

// CategoryLastPurchase returns when the user most recently bought anything in
// the category.
func (s *UserStats) CategoryLastPurchase(category string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	cat, ok := s.categories[category]
	if !ok {
		return time.Time{}, false
	}
	return cat.lastPurchase, true
}

package service

import (
	"context"
	"sort"
	"time"

	"freshmind/internal/domain"
	"freshmind/internal/repository"
	"freshmind/internal/store"
)

// Weighted-interest factors for the purchase summary. Recent, bulky, and
// repeated purchases all raise a product's weight.
const (
	timeWeightWeek    = 1.5 // within 7 days
	timeWeightMonth   = 1.2 // within 30 days
	timeWeightQuarter = 1.0 // within 90 days
	timeWeightOlder   = 0.7

	quantityWeightLarge  = 1.5 // 4 or more units in one purchase
	quantityWeightMedium = 1.2 // 2 or 3 units
	quantityWeightSingle = 1.0

	repeatBonusHeavy    = 2.0 // 6+ purchases
	repeatBonusFrequent = 1.5 // 4-5 purchases
	repeatBonusRepeat   = 1.3 // 2-3 purchases
	repeatBonusSingle   = 1.0

	topProductLimit      = 5
	repeatThreshold      = 3
	recentTrendWindow    = 7 // days
	defaultSummaryPeriod = 90
)

// ProductInsight is one product's weighted standing in the user's history.
type ProductInsight struct {
	ProductID     int     `json:"productId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PurchaseCount int     `json:"purchaseCount"`
	TotalQuantity int     `json:"totalQuantity"`
	Weight        float64 `json:"weight"`
}

// CategoryShare is a category's portion of the user's purchases in the period.
type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// PurchaseSummary is the analytics view of one user's history over a period.
type PurchaseSummary struct {
	UserID              int              `json:"userId"`
	PeriodDays          int              `json:"periodDays"`
	TotalPurchases      int              `json:"totalPurchases"`
	TotalQuantity       int              `json:"totalQuantity"`
	TopProducts         []ProductInsight `json:"topProducts"`
	RepeatPurchases     []ProductInsight `json:"repeatPurchases"`
	CategoryPreferences []CategoryShare  `json:"categoryPreferences"`
	RecentPurchases     []ProductInsight `json:"recentPurchases"`
}

// InsightsService summarizes a user's purchase history for display and for
// the chatbot's context block.
type InsightsService interface {
	Summary(ctx context.Context, userID, periodDays int) (*PurchaseSummary, error)
}

type insightsService struct {
	catalog   *store.Catalog
	users     repository.UserRepository
	purchases repository.PurchaseRepository
	now       func() time.Time
}

// NewInsightsService creates a new instance of InsightsService
func NewInsightsService(catalog *store.Catalog, users repository.UserRepository, purchases repository.PurchaseRepository) InsightsService {
	return &insightsService{
		catalog:   catalog,
		users:     users,
		purchases: purchases,
		now:       time.Now,
	}
}

// Summary aggregates the user's purchases within the period. periodDays <= 0
// uses the default 90-day window. A user with no purchases gets an empty
// summary, not an error.
func (s *insightsService) Summary(ctx context.Context, userID, periodDays int) (*PurchaseSummary, error) {
	if periodDays <= 0 {
		periodDays = defaultSummaryPeriod
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	events, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -periodDays)

	type agg struct {
		insight ProductInsight
		recent  int // purchases within the trend window
	}
	byProduct := map[int]*agg{}
	byCategory := map[string]int{}
	var order []int

	summary := &PurchaseSummary{
		UserID:              userID,
		PeriodDays:          periodDays,
		TopProducts:         []ProductInsight{},
		RepeatPurchases:     []ProductInsight{},
		CategoryPreferences: []CategoryShare{},
		RecentPurchases:     []ProductInsight{},
	}

	for _, e := range events {
		if e.PurchasedAt.Before(cutoff) {
			continue
		}
		product, ok := s.catalog.Get(e.ProductID)
		if !ok {
			continue
		}

		a := byProduct[e.ProductID]
		if a == nil {
			a = &agg{insight: ProductInsight{
				ProductID: product.ID,
				Name:      product.Name,
				Category:  product.Category,
			}}
			byProduct[e.ProductID] = a
			order = append(order, e.ProductID)
		}
		a.insight.PurchaseCount++
		a.insight.TotalQuantity += e.Quantity
		a.insight.Weight += eventWeight(now, e)
		if now.Sub(e.PurchasedAt).Hours()/24 <= recentTrendWindow {
			a.recent++
		}

		byCategory[product.Category]++
		summary.TotalPurchases++
		summary.TotalQuantity += e.Quantity
	}

	for _, id := range order {
		a := byProduct[id]
		a.insight.Weight *= repeatBonus(a.insight.PurchaseCount)

		summary.TopProducts = append(summary.TopProducts, a.insight)
		if a.insight.PurchaseCount >= repeatThreshold {
			summary.RepeatPurchases = append(summary.RepeatPurchases, a.insight)
		}
		if a.recent > 0 {
			summary.RecentPurchases = append(summary.RecentPurchases, a.insight)
		}
	}

	sort.SliceStable(summary.TopProducts, func(i, j int) bool {
		return summary.TopProducts[i].Weight > summary.TopProducts[j].Weight
	})
	if len(summary.TopProducts) > topProductLimit {
		summary.TopProducts = summary.TopProducts[:topProductLimit]
	}
	sort.SliceStable(summary.RepeatPurchases, func(i, j int) bool {
		return summary.RepeatPurchases[i].PurchaseCount > summary.RepeatPurchases[j].PurchaseCount
	})
	sort.SliceStable(summary.RecentPurchases, func(i, j int) bool {
		return summary.RecentPurchases[i].Weight > summary.RecentPurchases[j].Weight
	})

	for category, count := range byCategory {
		summary.CategoryPreferences = append(summary.CategoryPreferences, CategoryShare{
			Category: category,
			Count:    count,
			Share:    float64(count) / float64(summary.TotalPurchases),
		})
	}
	sort.SliceStable(summary.CategoryPreferences, func(i, j int) bool {
		a, b := summary.CategoryPreferences[i], summary.CategoryPreferences[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	return summary, nil
}

func eventWeight(now time.Time, e domain.PurchaseEvent) float64 {
	var tw float64
	switch d := now.Sub(e.PurchasedAt).Hours() / 24; {
	case d <= 7:
		tw = timeWeightWeek
	case d <= 30:
		tw = timeWeightMonth
	case d <= 90:
		tw = timeWeightQuarter
	default:
		tw = timeWeightOlder
	}

	var qw float64
	switch {
	case e.Quantity >= 4:
		qw = quantityWeightLarge
	case e.Quantity >= 2:
		qw = quantityWeightMedium
	default:
		qw = quantityWeightSingle
	}

	return tw * qw
}

func repeatBonus(count int) float64 {
	switch {
	case count >= 6:
		return repeatBonusHeavy
	case count >= 4:
		return repeatBonusFrequent
	case count >= 2:
		return repeatBonusRepeat
	default:
		return repeatBonusSingle
	}
}

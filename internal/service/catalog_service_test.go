package service

import (
	"fmt"
	"testing"
	"time"

	"freshmind/internal/domain"
	"freshmind/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var browseNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func browseCatalog() *store.Catalog {
	return store.NewCatalog([]domain.Product{
		{ID: 1, Name: "김치찌개 밀키트", Category: "간편식/밀키트", SubCategory: "밀키트", Price: 12900, Reviews: 6000, Rating: 4.8, Tags: []string{"매운맛"}},
		{ID: 2, Name: "삼겹살 500g", Category: "육류/계란", Price: 15900, Reviews: 100, Rating: 4.0, UsedIn: []string{"김치찌개", "구이"}},
		{ID: 3, Name: "양파 1kg", Category: "채소", Price: 2900, Reviews: 70, Rating: 3.5, UsedIn: []string{"김치찌개"}},
		{ID: 4, Name: "대파", Category: "채소", Price: 1900, Reviews: 70, Rating: 3.5},
		{ID: 5, Name: "우유 900ml", Category: "유제품", Price: 3200, Reviews: 4000, Rating: 4.6, Tags: []string{"Fresh"}},
		{ID: 6, Name: "냉동 만두", Category: "냉동식품", Price: 8900, Reviews: 3500, Rating: 4.5},
	})
}

func newTestCatalogService(catalog *store.Catalog, ledger *store.Ledger) *catalogService {
	svc := NewCatalogService(catalog, ledger).(*catalogService)
	svc.now = func() time.Time { return browseNow }
	return svc
}

func productIDs(items []domain.ScoredProduct) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func assertIDs(t *testing.T, items []domain.ScoredProduct, want []int) {
	t.Helper()
	got := productIDs(items)
	if len(got) != len(want) {
		t.Fatalf("got IDs %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got IDs %v, want %v", got, want)
		}
	}
}

func TestBrowseAllCategoryReturnsFullCatalog(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	for _, category := range []string{"", domain.CategoryAll} {
		items := svc.Browse(BrowseQuery{Category: category, Sort: SortPriceLow}, nil, 0)
		if len(items) != 6 {
			t.Errorf("category %q: got %d products, want 6", category, len(items))
		}
	}
}

func TestBrowseCategoryExactMatch(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	items := svc.Browse(BrowseQuery{Category: "채소", Sort: SortPopularity}, nil, 0)
	assertIDs(t, items, []int{3, 4})
}

func TestBrowseSearchMatchesAllFields(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	tests := []struct {
		name   string
		search string
		want   []int
	}{
		{"product name", "밀키트", []int{1}},
		{"category name", "유제품", []int{5}},
		{"usedIn entry", "김치찌개", []int{1, 2, 3}},
		{"tag", "매운맛", []int{1}},
		{"case-insensitive tag", "fresh", []int{5}},
		{"no match", "존재하지않는상품", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := svc.Browse(BrowseQuery{Search: tt.search, Sort: SortPriceLow}, nil, 0)
			got := productIDs(items)
			if len(got) != len(tt.want) {
				t.Fatalf("search %q: got %v, want %v", tt.search, got, tt.want)
			}
			seen := make(map[int]bool)
			for _, id := range got {
				seen[id] = true
			}
			for _, id := range tt.want {
				if !seen[id] {
					t.Errorf("search %q: missing product %d in %v", tt.search, id, got)
				}
			}
		})
	}
}

func TestBrowseSortModes(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	tests := []struct {
		sort SortMode
		want []int
	}{
		// Popularity: 1=28800, 5=18400, 6=15750, 2=400, 3=245, 4=245.
		{SortPopularity, []int{1, 5, 6, 2, 3, 4}},
		{SortPriceLow, []int{4, 3, 5, 6, 1, 2}},
		{SortPriceHigh, []int{2, 1, 6, 5, 3, 4}},
		{SortReviews, []int{1, 5, 6, 2, 3, 4}},
		// Rating ties (3, 4) keep catalog order.
		{SortRating, []int{1, 5, 6, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			items := svc.Browse(BrowseQuery{Sort: tt.sort}, nil, 0)
			assertIDs(t, items, tt.want)
		})
	}
}

func TestBrowsePopularityExample(t *testing.T) {
	catalog := store.NewCatalog([]domain.Product{
		{ID: 1, Name: "B", Category: "채소", Reviews: 70, Rating: 3.5},
		{ID: 2, Name: "A", Category: "채소", Reviews: 100, Rating: 4.0},
	})
	svc := newTestCatalogService(catalog, store.NewLedger(nil))

	// A at 400 outranks B at 245.
	items := svc.Browse(BrowseQuery{Sort: SortPopularity}, nil, 0)
	assertIDs(t, items, []int{2, 1})
}

func TestBrowsePersonalizedWithoutProfileFallsBackToPopularity(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	personalized := svc.Browse(BrowseQuery{Sort: SortPersonalized}, nil, 0)
	popular := svc.Browse(BrowseQuery{Sort: SortPopularity}, nil, 0)

	assertIDs(t, personalized, productIDs(popular))
}

func TestBrowsePersonalizedRanksByScore(t *testing.T) {
	catalog := browseCatalog()
	ledger := store.NewLedger([]domain.PurchaseEvent{
		{UserID: 1, ProductID: 3, Quantity: 1, PurchasedAt: browseNow.AddDate(0, 0, -20)},
		{UserID: 1, ProductID: 3, Quantity: 1, PurchasedAt: browseNow.AddDate(0, 0, -10)},
	})
	svc := newTestCatalogService(catalog, ledger)

	profile := &domain.UserProfile{
		Name: "김지은", BirthDate: "2004-03-15",
		Gender: domain.GenderFemale, AgeGroup: domain.AgeTwenties,
	}

	items := svc.Browse(BrowseQuery{Category: "채소", Sort: SortPersonalized}, profile, 1)
	// Product 3 is a recent repeat purchase; it must outrank product 4.
	assertIDs(t, items, []int{3, 4})
	if items[0].Score <= items[1].Score {
		t.Errorf("repeat purchase score %v should exceed %v", items[0].Score, items[1].Score)
	}
}

func TestBrowseHotDishesExcludesRecentPurchasesAndSortsByTrend(t *testing.T) {
	catalog := browseCatalog()
	ledger := store.NewLedger([]domain.PurchaseEvent{
		// Product 1 bought 30 days ago: hidden from the hot view.
		{UserID: 1, ProductID: 1, Quantity: 1, PurchasedAt: browseNow.AddDate(0, 0, -30)},
		// Product 6 bought 90 days ago: old enough to show again.
		{UserID: 1, ProductID: 6, Quantity: 1, PurchasedAt: browseNow.AddDate(0, 0, -90)},
	})
	svc := newTestCatalogService(catalog, ledger)

	items := svc.Browse(BrowseQuery{Category: domain.CategoryHotDishes, Sort: SortPopularity}, nil, 1)

	for _, item := range items {
		if item.ID == 1 {
			t.Error("product bought within 60 days should be excluded from hot dishes")
		}
		if item.TrendScore <= 0 {
			t.Errorf("product %d missing trend score", item.ID)
		}
	}

	found := false
	for _, item := range items {
		if item.ID == 6 {
			found = true
		}
	}
	if !found {
		t.Error("product bought more than 60 days ago should appear in hot dishes")
	}
}

func TestBrowseHotDishesTruncatesToLimit(t *testing.T) {
	products := make([]domain.Product, 40)
	for i := range products {
		products[i] = domain.Product{
			ID: i + 1, Name: fmt.Sprintf("상품 %d", i+1), Category: "냉동식품",
			Reviews: (i + 1) * 10, Rating: 4.0,
		}
	}
	svc := newTestCatalogService(store.NewCatalog(products), store.NewLedger(nil))

	items := svc.Browse(BrowseQuery{Category: domain.CategoryHotDishes, Sort: SortPopularity}, nil, 0)
	if len(items) != hotDishesLimit {
		t.Errorf("got %d products, want %d", len(items), hotDishesLimit)
	}

	// The truncation keeps the highest trend scores: the last-added products
	// have the most reviews here.
	for _, item := range items {
		if item.ID <= 10 {
			t.Errorf("product %d should have been truncated", item.ID)
		}
	}
}

func TestBrowseHotDishesPersonalizedBlend(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	profile := &domain.UserProfile{
		Gender: domain.GenderFemale, AgeGroup: domain.AgeTwenties,
	}

	items := svc.Browse(BrowseQuery{Category: domain.CategoryHotDishes, Sort: SortPersonalized}, profile, 0)
	if len(items) == 0 {
		t.Fatal("expected products in hot view")
	}

	for i := 1; i < len(items); i++ {
		if items[i-1].Score < items[i].Score {
			t.Errorf("blended scores out of order at %d: %v < %v", i, items[i-1].Score, items[i].Score)
		}
	}
}

func TestBrowseOverrideSkipsFiltersAndSorts(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	// Category, search, and sort are all ignored when an override is present.
	items := svc.Browse(BrowseQuery{
		Category:       "채소",
		Search:         "밀키트",
		Sort:           SortPriceHigh,
		RecommendedIDs: []int{5, 2},
	}, nil, 0)

	assertIDs(t, items, []int{2, 5})
}

func TestBrowseOverrideDropsUnknownIDs(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	items := svc.Browse(BrowseQuery{RecommendedIDs: []int{999, 3, 1000}}, nil, 0)
	assertIDs(t, items, []int{3})
}

func TestProperty_OverrideReturnsExactlyRequestedInCatalogOrder(t *testing.T) {
	properties := gopter.NewProperties(nil)

	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	properties.Property("override output is the requested IDs in catalog order", prop.ForAll(
		func(ids []int) bool {
			if len(ids) == 0 {
				return true
			}

			items := svc.Browse(BrowseQuery{RecommendedIDs: ids}, nil, 0)

			want := make(map[int]bool)
			for _, id := range ids {
				if svc.catalog.Contains(id) {
					want[id] = true
				}
			}
			if len(items) != len(want) {
				return false
			}

			// Catalog order is ascending ID in this fixture.
			prev := 0
			for _, item := range items {
				if !want[item.ID] || item.ID <= prev {
					return false
				}
				prev = item.ID
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 10)),
	))

	properties.TestingRun(t)
}

func TestCategoriesIncludeSyntheticEntriesFirst(t *testing.T) {
	svc := newTestCatalogService(browseCatalog(), store.NewLedger(nil))

	got := svc.Categories()
	if len(got) < 2 || got[0] != domain.CategoryAll || got[1] != domain.CategoryHotDishes {
		t.Fatalf("Categories() = %v, want synthetic entries first", got)
	}

	want := []string{"간편식/밀키트", "육류/계란", "채소", "유제품", "냉동식품"}
	rest := got[2:]
	if len(rest) != len(want) {
		t.Fatalf("catalog categories = %v, want %v", rest, want)
	}
	for i := range want {
		if rest[i] != want[i] {
			t.Errorf("catalog categories[%d] = %q, want %q", i, rest[i], want[i])
		}
	}
}

func TestValidSortMode(t *testing.T) {
	for _, mode := range []SortMode{SortPopularity, SortPriceLow, SortPriceHigh, SortReviews, SortRating, SortPersonalized} {
		if !ValidSortMode(mode) {
			t.Errorf("ValidSortMode(%q) = false, want true", mode)
		}
	}
	if ValidSortMode("newest") {
		t.Error(`ValidSortMode("newest") = true, want false`)
	}
}

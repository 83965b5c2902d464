package recommend

import (
	"strings"
	"time"

	"freshmind/internal/domain"
)

// Purchase-score constants. See the scoring rules on Scorer.PurchaseScore.
const (
	repeatBase          = 100.0
	repeatPerPurchase   = 10.0
	repeatRecent30Bonus = 20.0
	repeatRecent60Bonus = 10.0

	topCategoryBase        = 60.0
	topCategoryRecentBonus = 30.0

	knownCategoryBase          = 50.0
	knownCategoryRecent30Bonus = 25.0
	knownCategoryRecent60Bonus = 15.0

	topCategoryUnpurchasedBonus = 30.0
)

// Weighting for the combined personalized score.
const (
	purchaseSignalWeight = 0.8

	ageMatchReduced = 10.0
	ageMatchFull    = 25.0

	reviewBonusCap        = 2000
	reviewBonusMaxReduced = 5.0
	reviewBonusMaxFull    = 15.0
)

// Scorer computes ranking scores for one user's purchase history at a fixed
// point in time. A nil Scorer (or one with empty stats) yields zero purchase
// signal for every product.
type Scorer struct {
	stats *UserStats
	now   time.Time
}

// NewScorer wraps the user's aggregated stats with the reference time used
// for all recency windows.
func NewScorer(stats *UserStats, now time.Time) *Scorer {
	return &Scorer{stats: stats, now: now}
}

func (s *Scorer) daysSince(t time.Time) float64 {
	return s.now.Sub(t).Hours() / 24
}

// PurchaseScore is the purchase-history component of the personalized score.
//
// Rules, in order:
//   - repeat product (≥2 purchases): 100 + 10×count, plus a recency bonus
//     (+20 within 30 days, +10 within 60)
//   - else a top-3 category: 60, +30 if anything in the category was bought
//     within 30 days
//   - else a category the user has bought at all: 50, plus +25/+15 for a
//     same-category purchase within 30/60 days
//
// Independently of that chain, a product in a top category that was itself
// never purchased earns +30. The original applied this cumulatively with the
// top-category rule rather than exclusively; that behavior is preserved.
func (s *Scorer) PurchaseScore(p domain.Product) float64 {
	if s == nil || s.stats.Empty() {
		return 0
	}

	stat, purchased := s.stats.Stat(p.ID)
	top := false
	for _, c := range s.stats.TopCategories() {
		if c == p.Category {
			top = true
			break
		}
	}

	var score float64
	switch {
	case purchased && stat.PurchaseCount >= 2:
		score = repeatBase + repeatPerPurchase*float64(stat.PurchaseCount)
		switch d := s.daysSince(stat.LastPurchase); {
		case d <= 30:
			score += repeatRecent30Bonus
		case d <= 60:
			score += repeatRecent60Bonus
		}

	case top:
		score = topCategoryBase
		if last, ok := s.stats.CategoryLastPurchase(p.Category); ok && s.daysSince(last) <= 30 {
			score += topCategoryRecentBonus
		}

	case s.stats.HasCategory(p.Category):
		score = knownCategoryBase
		if last, ok := s.stats.CategoryLastPurchase(p.Category); ok {
			switch d := s.daysSince(last); {
			case d <= 30:
				score += knownCategoryRecent30Bonus
			case d <= 60:
				score += knownCategoryRecent60Bonus
			}
		}
	}

	if top && !purchased {
		score += topCategoryUnpurchasedBonus
	}

	return score
}

// PersonalizedScore blends purchase history with profile affinity. With a
// meaningful purchase signal the history dominates (0.8 weight) and the
// profile factors are reduced; with no signal the profile factors apply at
// full strength. A nil profile scores 0 for every product; the pipeline then
// falls back to popularity ranking.
func (s *Scorer) PersonalizedScore(profile *domain.UserProfile, p domain.Product) float64 {
	if profile == nil {
		return 0
	}

	purchase := s.PurchaseScore(p)
	if purchase > 0 {
		score := purchase * purchaseSignalWeight
		if p.TargetsAge(profile.AgeGroup) {
			score += ageMatchReduced
		}
		score += genderAffinity(profile.Gender, p.TargetGender, reducedGenderWeights)
		score += CategoryBonus(profile.AgeGroup, profile.Gender, p.Category) * reducedCategoryScale
		score += reviewBonus(p.Reviews, reviewBonusMaxReduced)
		return score
	}

	var score float64
	if p.TargetsAge(profile.AgeGroup) {
		score += ageMatchFull
	}
	score += genderAffinity(profile.Gender, p.TargetGender, fullGenderWeights)
	score += CategoryBonus(profile.AgeGroup, profile.Gender, p.Category)
	score += reviewBonus(p.Reviews, reviewBonusMaxFull)
	return score
}

// genderWeights maps the three affinity tiers to score contributions.
type genderWeights struct {
	exact    float64 // profile gender matches targetGender "male"/"female"
	oriented float64 // profile gender matches a "-oriented" target
	neutral  float64 // target is "all"
}

var (
	fullGenderWeights    = genderWeights{exact: 15, oriented: 20, neutral: 5}
	reducedGenderWeights = genderWeights{exact: 8, oriented: 6, neutral: 2}
)

func genderAffinity(g domain.Gender, target domain.TargetGender, w genderWeights) float64 {
	switch target {
	case domain.TargetMale:
		if g == domain.GenderMale {
			return w.exact
		}
	case domain.TargetFemale:
		if g == domain.GenderFemale {
			return w.exact
		}
	case domain.TargetMaleOriented:
		if g == domain.GenderMale {
			return w.oriented
		}
	case domain.TargetFemaleOriented:
		if g == domain.GenderFemale {
			return w.oriented
		}
	case domain.TargetAll:
		return w.neutral
	}
	return 0
}

// reviewBonus scales linearly with the review count, capped at 2000 reviews.
func reviewBonus(reviews int, max float64) float64 {
	if reviews < 0 {
		return 0
	}
	if reviews > reviewBonusCap {
		reviews = reviewBonusCap
	}
	return float64(reviews) / reviewBonusCap * max
}

// Trend-score constants for the "핫한 요리" view.
const (
	trendMealKitBase        = 100.0
	trendMealKitSubBonus    = 20.0
	trendInstantSubBonus    = 15.0
	trendFrozenSubBonus     = 10.0
	trendFrozenCategoryBase = 50.0
	trendProteinBase        = 30.0
	trendDefaultBase        = 10.0

	trendReviews5000Bonus = 20.0
	trendReviews3000Bonus = 10.0
	trendRating47Bonus    = 15.0
	trendRating45Bonus    = 10.0

	trendMealKitKeywordBonus     = 25.0
	trendConvenienceKeywordBonus = 20.0
	trendRetortKeywordBonus      = 25.0
)

// TrendScore ranks a product for the "핫한 요리" view independently of any
// profile. Deterministic for fixed product data and never negative.
func TrendScore(p domain.Product) float64 {
	score := trendCategoryBase(p)
	score += float64(p.Reviews) * p.Rating / 1000

	switch {
	case p.Reviews > 5000:
		score += trendReviews5000Bonus
	case p.Reviews > 3000:
		score += trendReviews3000Bonus
	}

	switch {
	case p.Rating >= 4.7:
		score += trendRating47Bonus
	case p.Rating >= 4.5:
		score += trendRating45Bonus
	}

	// Name keywords stack; a "간편 밀키트" earns both bonuses.
	if strings.Contains(p.Name, "밀키트") {
		score += trendMealKitKeywordBonus
	}
	if strings.Contains(p.Name, "간편") {
		score += trendConvenienceKeywordBonus
	}
	if strings.Contains(p.Name, "레토르트") {
		score += trendRetortKeywordBonus
	}

	return score
}

func trendCategoryBase(p domain.Product) float64 {
	switch p.Category {
	case "간편식/밀키트":
		base := trendMealKitBase
		switch {
		case strings.Contains(p.SubCategory, "밀키트"):
			base += trendMealKitSubBonus
		case strings.Contains(p.SubCategory, "인스턴트"):
			base += trendInstantSubBonus
		case strings.Contains(p.SubCategory, "냉동"):
			base += trendFrozenSubBonus
		}
		return base
	case "냉동식품":
		return trendFrozenCategoryBase
	case "해산물", "육류/계란":
		return trendProteinBase
	default:
		return trendDefaultBase
	}
}

package recommend

import "freshmind/internal/domain"

// Category-affinity bonus values. Favored categories for a demographic earn
// the full bonus, secondary ones a smaller bonus, everything else a floor.
const (
	categoryBonusFavored   = 30.0
	categoryBonusSecondary = 20.0
	categoryBonusOther     = 5.0

	// Scale applied when a purchase signal is present and profile factors
	// are reduced.
	reducedCategoryScale = 0.2
)

type demographic struct {
	age    domain.AgeGroup
	gender domain.Gender
}

type categoryPreference struct {
	favored   []string
	secondary []string
}

// categoryPreferences is the enumerated (ageGroup × gender) → category
// affinity table. Unspecified-gender rows share the age bracket's common
// denominator rather than skewing either way.
var categoryPreferences = map[demographic]categoryPreference{
	{domain.AgeTeens, domain.GenderMale}:   {favored: []string{"간편식/밀키트", "냉동식품"}, secondary: []string{"음료/차", "유제품"}},
	{domain.AgeTeens, domain.GenderFemale}: {favored: []string{"간편식/밀키트", "유제품"}, secondary: []string{"과일", "음료/차"}},
	{domain.AgeTeens, domain.GenderUnspecified}: {favored: []string{"간편식/밀키트"}, secondary: []string{"음료/차", "냉동식품"}},

	{domain.AgeTwenties, domain.GenderMale}:   {favored: []string{"간편식/밀키트", "냉동식품"}, secondary: []string{"육류/계란", "음료/차"}},
	{domain.AgeTwenties, domain.GenderFemale}: {favored: []string{"과일", "유제품"}, secondary: []string{"채소", "간편식/밀키트"}},
	{domain.AgeTwenties, domain.GenderUnspecified}: {favored: []string{"간편식/밀키트"}, secondary: []string{"과일", "음료/차"}},

	{domain.AgeThirties, domain.GenderMale}:   {favored: []string{"육류/계란", "간편식/밀키트"}, secondary: []string{"해산물", "양념/오일"}},
	{domain.AgeThirties, domain.GenderFemale}: {favored: []string{"채소", "유제품"}, secondary: []string{"과일", "간편식/밀키트"}},
	{domain.AgeThirties, domain.GenderUnspecified}: {favored: []string{"육류/계란", "채소"}, secondary: []string{"간편식/밀키트"}},

	{domain.AgeForties, domain.GenderMale}:   {favored: []string{"해산물", "육류/계란"}, secondary: []string{"채소", "쌀/면/곡물"}},
	{domain.AgeForties, domain.GenderFemale}: {favored: []string{"채소", "해산물"}, secondary: []string{"쌀/면/곡물", "양념/오일"}},
	{domain.AgeForties, domain.GenderUnspecified}: {favored: []string{"채소", "해산물"}, secondary: []string{"육류/계란"}},

	{domain.AgeFifties, domain.GenderMale}:   {favored: []string{"해산물", "채소"}, secondary: []string{"쌀/면/곡물", "과일"}},
	{domain.AgeFifties, domain.GenderFemale}: {favored: []string{"채소", "해산물"}, secondary: []string{"과일", "쌀/면/곡물"}},
	{domain.AgeFifties, domain.GenderUnspecified}: {favored: []string{"채소"}, secondary: []string{"해산물", "쌀/면/곡물"}},
}

// CategoryBonus returns the profile's affinity bonus for a product category:
// 30 for a favored category, 20 for a secondary one, 5 otherwise.
func CategoryBonus(age domain.AgeGroup, gender domain.Gender, category string) float64 {
	pref, ok := categoryPreferences[demographic{age, gender}]
	if !ok {
		return categoryBonusOther
	}
	for _, c := range pref.favored {
		if c == category {
			return categoryBonusFavored
		}
	}
	for _, c := range pref.secondary {
		if c == category {
			return categoryBonusSecondary
		}
	}
	return categoryBonusOther
}

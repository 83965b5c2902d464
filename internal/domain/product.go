package domain

// Pseudo-categories understood by the browse pipeline. The real category
// values ("채소", "간편식/밀키트", ...) come from the products table.
const (
	CategoryAll       = "전체"
	CategoryHotDishes = "핫한 요리"
)

// TargetGender is the audience a product is marketed to.
type TargetGender string

const (
	TargetAll            TargetGender = "all"
	TargetMale           TargetGender = "male"
	TargetFemale         TargetGender = "female"
	TargetMaleOriented   TargetGender = "male-oriented"
	TargetFemaleOriented TargetGender = "female-oriented"
)

// Product represents a product in the catalog. Catalog records are immutable
// for the process lifetime; the pipeline annotates copies, never the record.
type Product struct {
	ID            int          `json:"id" db:"product_id"`
	Name          string       `json:"name" db:"name"`
	Description   string       `json:"description" db:"description"`
	Category      string       `json:"category" db:"category"`
	SubCategory   string       `json:"subCategory,omitempty" db:"sub_category"`
	Price         int          `json:"price" db:"price"`
	OriginalPrice *int         `json:"originalPrice,omitempty" db:"original_price"`
	ImageURL      string       `json:"image" db:"image_url"`
	Rating        float64      `json:"rating" db:"rating"`
	Reviews       int          `json:"reviews" db:"review_count"`
	TargetGender  TargetGender `json:"targetGender" db:"target_gender"`
	TargetAge     []AgeGroup   `json:"targetAge" db:"target_age_groups"`
	UsedIn        []string     `json:"usedIn" db:"used_in"`
	Tags          []string     `json:"tags" db:"tags"`
	Stock         int          `json:"stock" db:"stock"`
	Badge         string       `json:"badge,omitempty" db:"badge"`
}

// Popularity is the default ranking key: review count times rating.
func (p Product) Popularity() float64 {
	return float64(p.Reviews) * p.Rating
}

// TargetsAge reports whether the product is marketed to the given age bracket.
func (p Product) TargetsAge(age AgeGroup) bool {
	for _, a := range p.TargetAge {
		if a == age {
			return true
		}
	}
	return false
}

// ScoredProduct is a pipeline output row: a catalog record plus the transient
// ranking scores computed for the current request.
type ScoredProduct struct {
	Product
	Score      float64 `json:"score"`
	TrendScore float64 `json:"trendScore,omitempty"`
}

package keywords

// SeedCategory buckets the query templates sent to the keyword-ideas API.
// Seeds are internal inputs, never shown to users.
type SeedCategory string

const (
	CategoryTransactional SeedCategory = "transactional"
	CategoryInformational SeedCategory = "informational"
	CategoryComparison    SeedCategory = "comparison"
	CategoryBranded       SeedCategory = "branded"
	CategoryLongTail      SeedCategory = "long_tail"
)

// AllCategories in generation order.
func AllCategories() []SeedCategory {
	return []SeedCategory{
		CategoryTransactional,
		CategoryInformational,
		CategoryComparison,
		CategoryBranded,
		CategoryLongTail,
	}
}

type Seed struct {
	Category SeedCategory `json:"category"`
	Text     string       `json:"text"`
}

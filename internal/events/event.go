package events

// Kind classifies a parsed event within the source hierarchy.
type Kind string

const (
	KindMainCategory Kind = "main_category"
	KindSubCategory  Kind = "sub_category"
	KindItem         Kind = "item"
	KindNestedItem   Kind = "nested_item"
)

// Event is one parsed unit of the day's event list. The hierarchy is
// implicit: MainCategory and SubCategory carry the text of the most recently
// seen category events, empty when none applies. Sibling order in the slice
// is document order.
type Event struct {
	Kind         Kind
	Text         string
	MainCategory string // empty for main-category events
	SubCategory  string // empty until a subcategory is seen, reset by each main category
	Links        []string
}

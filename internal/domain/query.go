package domain

// SortKey selects the ordering of the visible set.
type SortKey string

const (
	// SortRecency orders newest first by creation timestamp. Default.
	SortRecency SortKey = "recency"
	// SortDistance orders nearest first by great-circle distance from the
	// viewer. Ignored when the viewer location is unknown.
	SortDistance SortKey = "distance"
	// SortQuantity orders by the leading numeric token of the free-text
	// quantity, largest first. Unparsable quantities count as 0.
	SortQuantity SortKey = "quantity"
)

// Query carries the filter and sort parameters for the visible set.
// The zero value means "everything available, newest first".
type Query struct {
	// Search is matched case-insensitively against FoodName and Notes.
	Search string
	// Category filters to an exact category; empty is a wildcard.
	Category Category
	// Sort selects the ordering; empty falls back to SortRecency.
	Sort SortKey
}

package shared

// Filter represents query filter options shared by list operations
type Filter struct {
	Search   string
	Status   string
	OrderBy  string
	OrderDir string
	Limit    int
	Offset   int
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		OrderBy:  "created_at",
		OrderDir: "desc",
		Limit:    50,
	}
}

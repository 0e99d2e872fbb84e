package domain

// SearchFilters is the sparse filter criteria for the profile search.
// Zero values mean "no constraint" and are never transmitted upstream.
type SearchFilters struct {
	Gender   string `json:"gender,omitempty"`
	MinAge   int    `json:"minAge,omitempty"`
	MaxAge   int    `json:"maxAge,omitempty"`
	Location string `json:"location,omitempty"`
	Religion string `json:"religion,omitempty"`
}

// IsZero reports whether no filter is active.
func (f SearchFilters) IsZero() bool {
	return f == SearchFilters{}
}

// SearchPage is one page of search results with its pagination metadata,
// as returned by the upstream search endpoint.
type SearchPage struct {
	Results    []User `json:"results"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// AdminStats is the admin dashboard summary: aggregate counts plus the
// recently joined users, fetched in a single call.
type AdminStats struct {
	TotalUsers  int    `json:"totalUsers"`
	RecentUsers []User `json:"recentUsers"`
}

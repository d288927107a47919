package stats

import "context"

// UniversityStats aggregates approved reviews grouped by the free-text
// university reference; the slug/name/image columns are joined in when a
// catalog row matches.
type UniversityStats struct {
	University  string  `json:"university"`
	Slug        string  `json:"slug,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	ReviewCount int64   `json:"reviewCount"`
	AvgRating   float64 `json:"avgRating"`
}

type DormStats struct {
	University  string  `json:"university"`
	Dorm        string  `json:"dorm"`
	ReviewCount int64   `json:"reviewCount"`
	AvgRating   float64 `json:"avgRating"`
}

// Overview feeds the admin dashboard.
type Overview struct {
	TotalUniversities int64 `json:"totalUniversities"`
	TotalDorms        int64 `json:"totalDorms"`
	PendingDorms      int64 `json:"pendingDorms"`
	TotalReviews      int64 `json:"totalReviews"`
	PendingReviews    int64 `json:"pendingReviews"`
	ApprovedReviews   int64 `json:"approvedReviews"`
	PendingEdits      int64 `json:"pendingEdits"`
	TotalUsers        int64 `json:"totalUsers"`
}

// TopStats is the public homepage payload.
type TopStats struct {
	TopUniversities []UniversityStats `json:"topUniversities"`
	TopDorms        []DormStats       `json:"topDorms"`
	MostReviewed    []DormStats       `json:"mostReviewedDorms"`
}

type Store interface {
	TopUniversities(ctx context.Context, n int) ([]UniversityStats, error)
	TopDorms(ctx context.Context, n int) ([]DormStats, error)
	MostReviewedDorms(ctx context.Context, n int) ([]DormStats, error)
	GetOverview(ctx context.Context) (*Overview, error)
}

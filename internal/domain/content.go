package domain

import (
	"time"

	"github.com/google/uuid"
)

// PostKind separates news articles from game guides.
type PostKind string

const (
	PostNews  PostKind = "news"
	PostGuide PostKind = "guide"
)

// Post represents a posts row (news and guides content).
type Post struct {
	ID        uuid.UUID  `json:"id"`
	Kind      PostKind   `json:"kind"`
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CoverURL  *string    `json:"cover_url,omitempty"`
	Published bool       `json:"published"`
	AuthorID  uuid.UUID  `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ConversionRate represents a conversion_rates row. Rates are appended, the
// newest row wins; RatePKR is PKR per 1 ZC.
type ConversionRate struct {
	ID        uuid.UUID `json:"id"`
	RatePKR   float64   `json:"rate_pkr"`
	SetBy     uuid.UUID `json:"set_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GuardResult is returned by submission guards (rate limiter).
type GuardResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Guard   string `json:"guard,omitempty"`
}

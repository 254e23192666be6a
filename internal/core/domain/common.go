package domain

import "time"

// Timestamps holds the creation and last-modification times of a record.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PageRequest describes one page of a keyset-paginated listing.
type PageRequest struct {
	Limit     int
	NextToken *string
}

package domain

import "time"

// DefaultVideoLimit is the monthly quota granted to a freshly synced user.
const DefaultVideoLimit = 10

// User mirrors the identity provider's profile plus local usage accounting.
type User struct {
	ID         string
	ClerkID    string
	Email      string
	FirstName  string
	LastName   string
	VideoLimit int
	VideosUsed int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasRemainingQuota reports whether the user may start another generation.
func (u User) HasRemainingQuota() bool {
	return u.VideosUsed < u.VideoLimit
}

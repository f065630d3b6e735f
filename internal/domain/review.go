package domain

import "time"

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a user review of a property. PropertyTitle, AgentName
// and the reviewer fields are snapshots taken at creation time.
type Review struct {
	ID            string    `json:"id"`
	PropertyID    string    `json:"property_id"`
	PropertyTitle string    `json:"property_title"`
	AgentUID      string    `json:"agent_uid"`
	AgentName     string    `json:"agent_name"`
	ReviewerUID   string    `json:"reviewer_uid"`
	ReviewerName  string    `json:"reviewer_name"`
	ReviewerEmail string    `json:"reviewer_email"`
	Rating        int       `json:"rating"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsValidRating checks that a rating falls within the allowed bounds.
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

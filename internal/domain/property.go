package domain

import "time"

// Property verification status constants.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// Property lifecycle status constants. Status is orthogonal to the
// verification status: a verified property becomes sold without losing
// its verification.
const (
	PropertyStatusActive = "active"
	PropertyStatusSold   = "sold"
)

// Property represents a listed property.
//
// AgentName is a point-in-time snapshot taken when the listing is created;
// it is not updated if the agent later renames their account.
type Property struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Slug               string     `json:"slug"`
	Location           string     `json:"location"`
	Description        string     `json:"description,omitempty"`
	ImageURL           string     `json:"image_url,omitempty"`
	PriceMin           int64      `json:"price_min"`
	PriceMax           int64      `json:"price_max"`
	AgentUID           string     `json:"agent_uid"`
	AgentName          string     `json:"agent_name"`
	VerificationStatus string     `json:"verification_status"`
	IsAdvertised       bool       `json:"is_advertised"`
	Status             string     `json:"status"`
	SoldTo             string     `json:"sold_to,omitempty"`
	SoldAt             *time.Time `json:"sold_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ValidVerificationStatuses returns all valid verification statuses.
func ValidVerificationStatuses() []string {
	return []string{VerificationPending, VerificationVerified, VerificationRejected}
}

// IsValidVerificationStatus checks if a verification status string is valid.
func IsValidVerificationStatus(status string) bool {
	for _, s := range ValidVerificationStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// PriceInRange reports whether the given offer amount falls within the
// property's advertised price range, bounds inclusive.
func (p *Property) PriceInRange(amount int64) bool {
	return amount >= p.PriceMin && amount <= p.PriceMax
}

// IsSold reports whether the property has been sold.
func (p *Property) IsSold() bool {
	return p.Status == PropertyStatusSold
}

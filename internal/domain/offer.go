package domain

import "time"

// Offer status constants.
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
	OfferStatusBought   = "bought"
)

// Offer represents a buyer's offer on a property.
//
// PropertyTitle, PropertyLocation, AgentEmail, AgentName, BuyerEmail and
// BuyerName are point-in-time snapshots captured when the offer is created.
// They exist so offer listings render without joins and keep showing what
// the buyer saw, even if the property or accounts change afterwards.
type Offer struct {
	ID               string     `json:"id"`
	PropertyID       string     `json:"property_id"`
	PropertyTitle    string     `json:"property_title"`
	PropertyLocation string     `json:"property_location"`
	AgentUID         string     `json:"agent_uid"`
	AgentEmail       string     `json:"agent_email"`
	AgentName        string     `json:"agent_name"`
	BuyerUID         string     `json:"buyer_uid"`
	BuyerEmail       string     `json:"buyer_email"`
	BuyerName        string     `json:"buyer_name"`
	Amount           int64      `json:"amount"`
	ClosingDate      time.Time  `json:"closing_date"`
	Status           string     `json:"status"`
	TransactionID    string     `json:"transaction_id,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ValidOfferStatuses returns all valid offer statuses.
func ValidOfferStatuses() []string {
	return []string{OfferStatusPending, OfferStatusAccepted, OfferStatusRejected, OfferStatusBought}
}

// AllowedOfferTransitions defines which status transitions are valid.
// An accepted offer can only move to bought; rejected and bought are terminal.
func AllowedOfferTransitions() map[string][]string {
	return map[string][]string{
		OfferStatusPending:  {OfferStatusAccepted, OfferStatusRejected},
		OfferStatusAccepted: {OfferStatusBought},
		OfferStatusRejected: {},
		OfferStatusBought:   {},
	}
}

// CanTransitionTo checks if the offer can transition to the target status.
func (o *Offer) CanTransitionTo(target string) bool {
	allowed, ok := AllowedOfferTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// IsPending reports whether the offer is still awaiting an agent response.
func (o *Offer) IsPending() bool {
	return o.Status == OfferStatusPending
}

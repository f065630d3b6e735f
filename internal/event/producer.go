package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realtora/EstateHub/internal/domain"
	pkgkafka "github.com/realtora/EstateHub/pkg/kafka"
)

// Kafka topic constants for marketplace domain events.
const (
	TopicUserRegistered = "estatehub.user.registered"
	TopicOfferCreated   = "estatehub.offer.created"
	TopicOfferAccepted  = "estatehub.offer.accepted"
	TopicOfferRejected  = "estatehub.offer.rejected"
	TopicOfferBought    = "estatehub.offer.bought"
	TopicPropertySold   = "estatehub.property.sold"
	TopicReviewCreated  = "estatehub.review.created"
)

// Aggregate type constants.
const (
	AggregateTypeUser     = "user"
	AggregateTypeOffer    = "offer"
	AggregateTypeProperty = "property"
	AggregateTypeReview   = "review"
)

// Source identifier for events originating from this service.
const SourceAPI = "estatehub-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// OfferData is the payload for offer lifecycle events.
type OfferData struct {
	ID            string `json:"id"`
	PropertyID    string `json:"property_id"`
	PropertyTitle string `json:"property_title"`
	AgentEmail    string `json:"agent_email"`
	BuyerEmail    string `json:"buyer_email"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// PropertySoldData is the payload for a property.sold event.
type PropertySoldData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	AgentUID string `json:"agent_uid"`
	SoldTo   string `json:"sold_to"`
	Amount   int64  `json:"amount"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID          string `json:"id"`
	PropertyID  string `json:"property_id"`
	ReviewerUID string `json:"reviewer_uid"`
	Rating      int    `json:"rating"`
}

// Producer publishes marketplace domain events to Kafka. A nil inner kafka
// producer disables publishing, which keeps local setups without a broker
// working.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	if p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}
	return p.publish(ctx, TopicUserRegistered, user.UID, AggregateTypeUser, data)
}

// PublishOfferCreated publishes an offer.created event.
func (p *Producer) PublishOfferCreated(ctx context.Context, offer *domain.Offer) error {
	return p.publish(ctx, TopicOfferCreated, offer.ID, AggregateTypeOffer, offerData(offer))
}

// PublishOfferAccepted publishes an offer.accepted event.
func (p *Producer) PublishOfferAccepted(ctx context.Context, offer *domain.Offer) error {
	return p.publish(ctx, TopicOfferAccepted, offer.ID, AggregateTypeOffer, offerData(offer))
}

// PublishOfferRejected publishes an offer.rejected event.
func (p *Producer) PublishOfferRejected(ctx context.Context, offer *domain.Offer) error {
	return p.publish(ctx, TopicOfferRejected, offer.ID, AggregateTypeOffer, offerData(offer))
}

// PublishOfferBought publishes an offer.bought event.
func (p *Producer) PublishOfferBought(ctx context.Context, offer *domain.Offer) error {
	return p.publish(ctx, TopicOfferBought, offer.ID, AggregateTypeOffer, offerData(offer))
}

// PublishPropertySold publishes a property.sold event.
func (p *Producer) PublishPropertySold(ctx context.Context, property *domain.Property, amount int64) error {
	data := PropertySoldData{
		ID:       property.ID,
		Title:    property.Title,
		AgentUID: property.AgentUID,
		SoldTo:   property.SoldTo,
		Amount:   amount,
	}
	return p.publish(ctx, TopicPropertySold, property.ID, AggregateTypeProperty, data)
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:          review.ID,
		PropertyID:  review.PropertyID,
		ReviewerUID: review.ReviewerUID,
		Rating:      review.Rating,
	}
	return p.publish(ctx, TopicReviewCreated, review.ID, AggregateTypeReview, data)
}

func offerData(o *domain.Offer) OfferData {
	return OfferData{
		ID:            o.ID,
		PropertyID:    o.PropertyID,
		PropertyTitle: o.PropertyTitle,
		AgentEmail:    o.AgentEmail,
		BuyerEmail:    o.BuyerEmail,
		Amount:        o.Amount,
		Status:        o.Status,
		TransactionID: o.TransactionID,
	}
}

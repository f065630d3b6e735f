package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/pkg/database"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// OfferRepository implements repository.OfferRepository using PostgreSQL.
type OfferRepository struct {
	pool database.DBTX
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(pool database.DBTX) *OfferRepository {
	return &OfferRepository{pool: pool}
}

const offerColumns = `id, property_id, property_title, property_location, agent_uid, agent_email, agent_name,
	buyer_uid, buyer_email, buyer_name, amount, closing_date, status, transaction_id, paid_at, created_at, updated_at`

// Create inserts a new offer.
func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `
		INSERT INTO offers (id, property_id, property_title, property_location, agent_uid, agent_email, agent_name,
			buyer_uid, buyer_email, buyer_name, amount, closing_date, status, transaction_id, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		o.ID,
		o.PropertyID,
		o.PropertyTitle,
		o.PropertyLocation,
		o.AgentUID,
		o.AgentEmail,
		o.AgentName,
		o.BuyerUID,
		o.BuyerEmail,
		o.BuyerName,
		o.Amount,
		o.ClosingDate,
		o.Status,
		o.TransactionID,
		o.PaidAt,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer by its ID.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	var o domain.Offer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.PropertyID,
		&o.PropertyTitle,
		&o.PropertyLocation,
		&o.AgentUID,
		&o.AgentEmail,
		&o.AgentName,
		&o.BuyerUID,
		&o.BuyerEmail,
		&o.BuyerName,
		&o.Amount,
		&o.ClosingDate,
		&o.Status,
		&o.TransactionID,
		&o.PaidAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan offer: %w", err)
	}

	return &o, nil
}

// ListByBuyer returns all offers placed by the given buyer, newest first.
func (r *OfferRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE buyer_uid = $1 ORDER BY created_at DESC`
	return r.listOffers(ctx, query, buyerUID)
}

// ListByAgentEmail returns all offers on the given agent's properties, newest first.
func (r *OfferRepository) ListByAgentEmail(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE agent_email = $1 ORDER BY created_at DESC`
	return r.listOffers(ctx, query, agentEmail)
}

// ListSoldByAgent returns bought offers for the given agent, newest first.
func (r *OfferRepository) ListSoldByAgent(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE agent_email = $1 AND status = $2 ORDER BY paid_at DESC`
	return r.listOffers(ctx, query, agentEmail, domain.OfferStatusBought)
}

// TotalSoldByAgent returns the summed amount of the agent's bought offers.
func (r *OfferRepository) TotalSoldByAgent(ctx context.Context, agentEmail string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM offers WHERE agent_email = $1 AND status = $2`

	var total int64
	err := r.pool.QueryRow(ctx, query, agentEmail, domain.OfferStatusBought).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total sold by agent: %w", err)
	}

	return total, nil
}

// UpdateStatus changes the status of a single offer.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE offers SET status = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update offer status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("offer", id)
	}

	return nil
}

// Accept marks the offer accepted and rejects every other offer on the
// same property, whatever state those siblings are in. Both writes happen
// in one transaction so at most one offer per property can ever hold the
// accepted status.
func (r *OfferRepository) Accept(ctx context.Context, id, propertyID string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()

	ct, err := tx.Exec(ctx,
		`UPDATE offers SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		domain.OfferStatusAccepted, now, id, domain.OfferStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("accept offer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return 0, apperrors.StateConflict("offer already responded")
	}

	rejected, err := tx.Exec(ctx,
		`UPDATE offers SET status = $1, updated_at = $2 WHERE property_id = $3 AND id <> $4`,
		domain.OfferStatusRejected, now, propertyID, id,
	)
	if err != nil {
		return 0, fmt.Errorf("reject sibling offers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return int(rejected.RowsAffected()), nil
}

// MarkBought records a completed purchase on an accepted offer. The status
// guard makes a second confirmation a no-op that surfaces as a conflict.
func (r *OfferRepository) MarkBought(ctx context.Context, id, transactionID string, paidAt time.Time) error {
	query := `
		UPDATE offers
		SET status = $1, transaction_id = $2, paid_at = $3, updated_at = $4
		WHERE id = $5 AND status = $6`

	ct, err := r.pool.Exec(ctx, query,
		domain.OfferStatusBought, transactionID, paidAt, time.Now().UTC(), id, domain.OfferStatusAccepted,
	)
	if err != nil {
		return fmt.Errorf("mark offer bought: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.StateConflict("offer is not in accepted state")
	}

	return nil
}

// listOffers executes a query expected to return offer rows.
func (r *OfferRepository) listOffers(ctx context.Context, query string, args ...any) ([]domain.Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		var o domain.Offer
		if err := rows.Scan(
			&o.ID,
			&o.PropertyID,
			&o.PropertyTitle,
			&o.PropertyLocation,
			&o.AgentUID,
			&o.AgentEmail,
			&o.AgentName,
			&o.BuyerUID,
			&o.BuyerEmail,
			&o.BuyerName,
			&o.Amount,
			&o.ClosingDate,
			&o.Status,
			&o.TransactionID,
			&o.PaidAt,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer rows: %w", err)
	}

	return offers, nil
}

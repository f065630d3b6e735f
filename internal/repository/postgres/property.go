package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/internal/repository"
	"github.com/realtora/EstateHub/pkg/database"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// PropertyRepository implements repository.PropertyRepository using PostgreSQL.
type PropertyRepository struct {
	pool database.DBTX
}

// NewPropertyRepository creates a new PostgreSQL-backed property repository.
func NewPropertyRepository(pool database.DBTX) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

const propertyColumns = `id, title, slug, location, description, image_url, price_min, price_max,
	agent_uid, agent_name, verification_status, is_advertised, status, sold_to, sold_at, created_at, updated_at`

// Create inserts a new property listing.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `
		INSERT INTO properties (id, title, slug, location, description, image_url, price_min, price_max,
			agent_uid, agent_name, verification_status, is_advertised, status, sold_to, sold_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Location,
		p.Description,
		p.ImageURL,
		p.PriceMin,
		p.PriceMax,
		p.AgentUID,
		p.AgentName,
		p.VerificationStatus,
		p.IsAdvertised,
		p.Status,
		p.SoldTo,
		p.SoldAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	var p domain.Property
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Location,
		&p.Description,
		&p.ImageURL,
		&p.PriceMin,
		&p.PriceMax,
		&p.AgentUID,
		&p.AgentName,
		&p.VerificationStatus,
		&p.IsAdvertised,
		&p.Status,
		&p.SoldTo,
		&p.SoldAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan property: %w", err)
	}

	return &p, nil
}

// List returns properties matching the given filter with the total count.
func (r *PropertyRepository) List(ctx context.Context, filter repository.PropertyFilter) ([]domain.Property, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Location != nil {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.Location+"%")
		argIndex++
	}

	if filter.VerificationStatus != nil {
		conditions = append(conditions, fmt.Sprintf("verification_status = $%d", argIndex))
		args = append(args, *filter.VerificationStatus)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.AgentUID != nil {
		conditions = append(conditions, fmt.Sprintf("agent_uid = $%d", argIndex))
		args = append(args, *filter.AgentUID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := "ORDER BY created_at DESC"
	switch filter.Sort {
	case "price_asc":
		orderClause = "ORDER BY price_min ASC"
	case "price_desc":
		orderClause = "ORDER BY price_min DESC"
	}

	// count(*) OVER() yields the total in the same query.
	query := fmt.Sprintf(`
		SELECT `+propertyColumns+`, count(*) OVER() AS total_count
		FROM properties
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		whereClause, orderClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var totalCount int
	properties := make([]domain.Property, 0)

	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Slug,
			&p.Location,
			&p.Description,
			&p.ImageURL,
			&p.PriceMin,
			&p.PriceMax,
			&p.AgentUID,
			&p.AgentName,
			&p.VerificationStatus,
			&p.IsAdvertised,
			&p.Status,
			&p.SoldTo,
			&p.SoldAt,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate property rows: %w", err)
	}

	return properties, totalCount, nil
}

// ListAdvertised returns verified, unsold, advertised properties.
func (r *PropertyRepository) ListAdvertised(ctx context.Context, limit int) ([]domain.Property, error) {
	if limit <= 0 {
		limit = 4
	}

	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE is_advertised = true AND verification_status = 'verified' AND status = 'active'
		ORDER BY updated_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list advertised properties: %w", err)
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Slug,
			&p.Location,
			&p.Description,
			&p.ImageURL,
			&p.PriceMin,
			&p.PriceMax,
			&p.AgentUID,
			&p.AgentName,
			&p.VerificationStatus,
			&p.IsAdvertised,
			&p.Status,
			&p.SoldTo,
			&p.SoldAt,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan advertised property row: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advertised property rows: %w", err)
	}

	return properties, nil
}

// Update modifies an existing property.
func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE properties
		SET title = $1, slug = $2, location = $3, description = $4, image_url = $5,
		    price_min = $6, price_max = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		p.Title,
		p.Slug,
		p.Location,
		p.Description,
		p.ImageURL,
		p.PriceMin,
		p.PriceMax,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("property", p.ID)
	}

	return nil
}

// Delete removes a property from the database.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM properties WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("property", id)
	}

	return nil
}

// SetVerificationStatus updates the admin verification status.
func (r *PropertyRepository) SetVerificationStatus(ctx context.Context, id, status string) error {
	query := `UPDATE properties SET verification_status = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set property verification status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("property", id)
	}

	return nil
}

// SetAdvertised toggles the advertisement flag.
func (r *PropertyRepository) SetAdvertised(ctx context.Context, id string, advertised bool) error {
	query := `UPDATE properties SET is_advertised = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, advertised, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set property advertised flag: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("property", id)
	}

	return nil
}

// MarkSold transitions the property to sold, recording the buyer.
func (r *PropertyRepository) MarkSold(ctx context.Context, id, buyerUID string, soldAt time.Time) error {
	query := `
		UPDATE properties
		SET status = $1, sold_to = $2, sold_at = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.pool.Exec(ctx, query, domain.PropertyStatusSold, buyerUID, soldAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark property sold: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("property", id)
	}

	return nil
}

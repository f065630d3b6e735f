package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/realtora/EstateHub/internal/auth"
	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/internal/event"
	"github.com/realtora/EstateHub/internal/repository"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// IdentityService resolves verified identities to user accounts and
// implements the admin user-management operations.
type IdentityService struct {
	userRepo repository.UserRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(
	userRepo repository.UserRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		producer: producer,
		logger:   logger,
	}
}

// ResolveOrProvision maps a verified identity to its user account,
// creating the account with the default role on first sight and bumping
// the last-login timestamp otherwise.
func (s *IdentityService) ResolveOrProvision(ctx context.Context, identity *auth.Identity) (*domain.User, error) {
	if identity.Email == "" {
		return nil, apperrors.InvalidInput("identity token has no email")
	}

	now := time.Now().UTC()
	user := &domain.User{
		UID:         identity.UID,
		Email:       identity.Email,
		DisplayName: identity.Name,
		PhotoURL:    identity.Picture,
		Role:        domain.RoleUser,
		CreatedAt:   now,
		LastLoginAt: now,
	}

	stored, created, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}

	if stored.IsFraud {
		return nil, apperrors.Forbidden("account is suspended")
	}

	if created {
		if err := s.producer.PublishUserRegistered(ctx, stored); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.registered event",
				slog.String("uid", stored.UID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.InfoContext(ctx, "user provisioned",
			slog.String("uid", stored.UID),
			slog.String("email", stored.Email),
		)
	}

	return stored, nil
}

// GetUser retrieves a user by UID.
func (s *IdentityService) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users. Admin only; enforced at the router.
func (s *IdentityService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateRole changes a user's role.
func (s *IdentityService) UpdateRole(ctx context.Context, uid, role string) error {
	if !domain.IsValidRole(role) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid role %q", role))
	}

	if err := s.userRepo.UpdateRole(ctx, uid, role); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	s.logger.InfoContext(ctx, "user role updated",
		slog.String("uid", uid),
		slog.String("role", role),
	)

	return nil
}

// SetFraud flags or unflags a user as fraudulent. Flagged users cannot
// authenticate until the flag is lifted.
func (s *IdentityService) SetFraud(ctx context.Context, uid string, isFraud bool) error {
	if err := s.userRepo.SetFraud(ctx, uid, isFraud); err != nil {
		return fmt.Errorf("set user fraud flag: %w", err)
	}

	s.logger.InfoContext(ctx, "user fraud flag updated",
		slog.String("uid", uid),
		slog.Bool("is_fraud", isFraud),
	)

	return nil
}

// DeleteUser removes a user account.
func (s *IdentityService) DeleteUser(ctx context.Context, uid string) error {
	if err := s.userRepo.Delete(ctx, uid); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("uid", uid),
	)

	return nil
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/realtora/EstateHub/internal/cache"
	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/internal/event"
	"github.com/realtora/EstateHub/internal/repository"
	"github.com/realtora/EstateHub/internal/service"
	"github.com/realtora/EstateHub/pkg/httputil"
	"github.com/realtora/EstateHub/pkg/middleware"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Bool(1), args.Error(2)
}

func (m *mockUserRepo) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, uid, role string) error {
	args := m.Called(ctx, uid, role)
	return args.Error(0)
}

func (m *mockUserRepo) SetFraud(ctx context.Context, uid string, isFraud bool) error {
	args := m.Called(ctx, uid, isFraud)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

type mockPropertyRepo struct {
	mock.Mock
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *mockPropertyRepo) List(ctx context.Context, filter repository.PropertyFilter) ([]domain.Property, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Property), args.Int(1), args.Error(2)
}

func (m *mockPropertyRepo) ListAdvertised(ctx context.Context, limit int) ([]domain.Property, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPropertyRepo) SetVerificationStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockPropertyRepo) SetAdvertised(ctx context.Context, id string, advertised bool) error {
	args := m.Called(ctx, id, advertised)
	return args.Error(0)
}

func (m *mockPropertyRepo) MarkSold(ctx context.Context, id, buyerUID string, soldAt time.Time) error {
	args := m.Called(ctx, id, buyerUID, soldAt)
	return args.Error(0)
}

type mockOfferRepo struct {
	mock.Mock
}

func (m *mockOfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOfferRepo) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *mockOfferRepo) ListByBuyer(ctx context.Context, buyerUID string) ([]domain.Offer, error) {
	args := m.Called(ctx, buyerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *mockOfferRepo) ListByAgentEmail(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *mockOfferRepo) ListSoldByAgent(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *mockOfferRepo) TotalSoldByAgent(ctx context.Context, agentEmail string) (int64, error) {
	args := m.Called(ctx, agentEmail)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOfferRepo) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOfferRepo) Accept(ctx context.Context, id, propertyID string) (int, error) {
	args := m.Called(ctx, id, propertyID)
	return args.Int(0), args.Error(1)
}

func (m *mockOfferRepo) MarkBought(ctx context.Context, id, transactionID string, paidAt time.Time) error {
	args := m.Called(ctx, id, transactionID, paidAt)
	return args.Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, rev *domain.Review) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListLatest(ctx context.Context, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByReviewer(ctx context.Context, reviewerUID string) ([]domain.Review, error) {
	args := m.Called(ctx, reviewerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListAll(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ============================================================================
// Test Helpers
// ============================================================================

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func handlerTestProducer() *event.Producer {
	return event.NewProducer(nil, handlerTestLogger())
}

func handlerTestCache() *cache.PropertyCache {
	return cache.NewPropertyCache(nil, handlerTestLogger())
}

// fakeResolver returns a PrincipalResolver that accepts any token and
// resolves it to the given principal.
func fakeResolver(p *middleware.Principal) middleware.PrincipalResolver {
	return func(_ context.Context, _ string) (*middleware.Principal, error) {
		return p, nil
	}
}

func buyerPrincipal() *middleware.Principal {
	return &middleware.Principal{
		UID:   "uid-buyer",
		Email: "jane@example.com",
		Name:  "Jane Smith",
		Role:  domain.RoleUser,
	}
}

func agentPrincipal() *middleware.Principal {
	return &middleware.Principal{
		UID:   "uid-agent",
		Email: "mark@example.com",
		Name:  "Mark Agent",
		Role:  domain.RoleAgent,
	}
}

func adminPrincipal() *middleware.Principal {
	return &middleware.Principal{
		UID:   "uid-admin",
		Email: "root@example.com",
		Name:  "Root Admin",
		Role:  domain.RoleAdmin,
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

const (
	testPropertyID = "550e8400-e29b-41d4-a716-446655440001"
	testOfferID    = "550e8400-e29b-41d4-a716-446655440002"
	testReviewID   = "550e8400-e29b-41d4-a716-446655440003"
)

func sampleProperty() *domain.Property {
	now := time.Now().UTC()
	return &domain.Property{
		ID:                 testPropertyID,
		Title:              "Lakeview Villa",
		Slug:               "lakeview-villa",
		Location:           "Sarasota, FL",
		Description:        "Waterfront home with a private dock.",
		PriceMin:           500000,
		PriceMax:           600000,
		AgentUID:           "uid-agent",
		AgentName:          "Mark Agent",
		VerificationStatus: domain.VerificationVerified,
		Status:             domain.PropertyStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func sampleOffer() *domain.Offer {
	now := time.Now().UTC()
	return &domain.Offer{
		ID:               testOfferID,
		PropertyID:       testPropertyID,
		PropertyTitle:    "Lakeview Villa",
		PropertyLocation: "Sarasota, FL",
		AgentUID:         "uid-agent",
		AgentEmail:       "mark@example.com",
		AgentName:        "Mark Agent",
		BuyerUID:         "uid-buyer",
		BuyerEmail:       "jane@example.com",
		BuyerName:        "Jane Smith",
		Amount:           550000,
		ClosingDate:      now.AddDate(0, 1, 0),
		Status:           domain.OfferStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func sampleAgent() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		UID:         "uid-agent",
		Email:       "mark@example.com",
		DisplayName: "Mark Agent",
		Role:        domain.RoleAgent,
		CreatedAt:   now.Add(-24 * time.Hour),
		LastLoginAt: now,
	}
}

// ============================================================================
// Service Builders
// ============================================================================

func propertyTestHandler(propRepo *mockPropertyRepo) *PropertyHandler {
	svc := service.NewPropertyService(propRepo, handlerTestCache(), handlerTestLogger())
	return NewPropertyHandler(svc, handlerTestLogger())
}

func offerTestService(offerRepo *mockOfferRepo, propRepo *mockPropertyRepo, userRepo *mockUserRepo) *service.OfferService {
	return service.NewOfferService(offerRepo, propRepo, userRepo, handlerTestCache(), handlerTestProducer(), handlerTestLogger())
}

func offerTestHandler(offerRepo *mockOfferRepo, propRepo *mockPropertyRepo, userRepo *mockUserRepo) *OfferHandler {
	return NewOfferHandler(offerTestService(offerRepo, propRepo, userRepo), handlerTestLogger())
}

func reviewTestHandler(reviewRepo *mockReviewRepo, propRepo *mockPropertyRepo) *ReviewHandler {
	svc := service.NewReviewService(reviewRepo, propRepo, handlerTestProducer(), handlerTestLogger())
	return NewReviewHandler(svc, handlerTestLogger())
}

func userTestHandler(userRepo *mockUserRepo) *UserHandler {
	svc := service.NewIdentityService(userRepo, handlerTestProducer(), handlerTestLogger())
	return NewUserHandler(svc, handlerTestLogger())
}

package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/realtora/EstateHub/internal/cache"
	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/internal/event"
	"github.com/realtora/EstateHub/internal/provider"
	"github.com/realtora/EstateHub/internal/repository"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Bool(1), args.Error(2)
}

func (m *mockUserRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, uid, role string) error {
	args := m.Called(ctx, uid, role)
	return args.Error(0)
}

func (m *mockUserRepository) SetFraud(ctx context.Context, uid string, isFraud bool) error {
	args := m.Called(ctx, uid, isFraud)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// --- Mock Property Repository ---

type mockPropertyRepository struct {
	mock.Mock
}

func (m *mockPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *mockPropertyRepository) List(ctx context.Context, filter repository.PropertyFilter) ([]domain.Property, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Property), args.Int(1), args.Error(2)
}

func (m *mockPropertyRepository) ListAdvertised(ctx context.Context, limit int) ([]domain.Property, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *mockPropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPropertyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPropertyRepository) SetVerificationStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockPropertyRepository) SetAdvertised(ctx context.Context, id string, advertised bool) error {
	args := m.Called(ctx, id, advertised)
	return args.Error(0)
}

func (m *mockPropertyRepository) MarkSold(ctx context.Context, id, buyerUID string, soldAt time.Time) error {
	args := m.Called(ctx, id, buyerUID, soldAt)
	return args.Error(0)
}

// --- Mock Offer Repository ---

type mockOfferRepository struct {
	mock.Mock
}

func (m *mockOfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *mockOfferRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]domain.Offer, error) {
	args := m.Called(ctx, buyerUID)
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *mockOfferRepository) ListByAgentEmail(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	args := m.Called(ctx, agentEmail)
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *mockOfferRepository) ListSoldByAgent(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	args := m.Called(ctx, agentEmail)
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *mockOfferRepository) TotalSoldByAgent(ctx context.Context, agentEmail string) (int64, error) {
	args := m.Called(ctx, agentEmail)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOfferRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOfferRepository) Accept(ctx context.Context, id, propertyID string) (int, error) {
	args := m.Called(ctx, id, propertyID)
	return args.Int(0), args.Error(1)
}

func (m *mockOfferRepository) MarkBought(ctx context.Context, id, transactionID string, paidAt time.Time) error {
	args := m.Called(ctx, id, transactionID, paidAt)
	return args.Error(0)
}

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListLatest(ctx context.Context, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByReviewer(ctx context.Context, reviewerUID string) ([]domain.Review, error) {
	args := m.Called(ctx, reviewerUID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Payment Provider ---

type mockPaymentProvider struct {
	mock.Mock
}

func (m *mockPaymentProvider) Name() string {
	return "mock"
}

func (m *mockPaymentProvider) CreateIntent(ctx context.Context, input *provider.IntentInput) (*provider.Intent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Intent), args.Error(1)
}

func (m *mockPaymentProvider) RetrieveIntent(ctx context.Context, id string) (*provider.Intent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Intent), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestEventProducer returns a producer with publishing disabled.
func newTestEventProducer() *event.Producer {
	return event.NewProducer(nil, newTestLogger())
}

// newTestPropertyCache returns a cache with Redis disabled.
func newTestPropertyCache() *cache.PropertyCache {
	return cache.NewPropertyCache(nil, newTestLogger())
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

package service

//go:generate mockgen -destination=mocks/store.go -package=mocks refgate/internal/referral/store ReferralStore
//go:generate mockgen -destination=mocks/resolver.go -package=mocks refgate/internal/identity Resolver
//go:generate mockgen -destination=mocks/deeplink.go -package=mocks refgate/internal/deeplink Provider

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"refgate/internal/referral/models"
	"refgate/internal/referral/service/mocks"
	"refgate/internal/referral/validation"
	id "refgate/pkg/domain"
	"refgate/pkg/requestcontext"
)

// =============================================================================
// Referral Service Test Suite
// =============================================================================
// Justification for unit tests: the service owns the conversion pipeline
// ordering, the rejection-versus-error split, and the no-write-on-reject
// guarantee. Mocked collaborators make each path observable, including the
// paths where the store must never be written.

type ServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockStore    *mocks.MockReferralStore
	mockResolver *mocks.MockResolver
	mockLinks    *mocks.MockProvider
	service      *Service

	referrer models.User
	now      time.Time
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockReferralStore(s.ctrl)
	s.mockResolver = mocks.NewMockResolver(s.ctrl)
	s.mockLinks = mocks.NewMockProvider(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator, err := validation.New(s.mockStore, validation.WithLogger(logger))
	s.Require().NoError(err)

	s.service, err = New(
		s.mockStore,
		s.mockResolver,
		validator,
		s.mockLinks,
		WithLogger(logger),
	)
	s.Require().NoError(err)

	s.referrer = models.User{
		ID:           id.UserID(uuid.New()),
		PhoneNumber:  "+15550001111",
		ReferralCode: "REF123",
	}
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) newUser(phone string) models.User {
	return models.User{ID: id.UserID(uuid.New()), PhoneNumber: phone}
}

// completedReferrals fabricates n completed records inside the rolling
// window.
func (s *ServiceSuite) completedReferrals(n int) []models.Referral {
	out := make([]models.Referral, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Referral{
			ID:              id.NewReferralID(),
			ReferringUserID: s.referrer.ID,
			ConvertedAt:     s.now.Add(-time.Duration(i+1) * time.Minute),
			Status:          models.StatusCompleted,
		})
	}
	return out
}

func (s *ServiceSuite) TestNew() {
	validator, err := validation.New(s.mockStore)
	s.Require().NoError(err)

	s.Run("nil store returns error", func() {
		_, err := New(nil, s.mockResolver, validator, s.mockLinks)
		s.Error(err)
		s.Contains(err.Error(), "referral store is required")
	})

	s.Run("nil resolver returns error", func() {
		_, err := New(s.mockStore, nil, validator, s.mockLinks)
		s.Error(err)
		s.Contains(err.Error(), "identity resolver is required")
	})

	s.Run("nil validator returns error", func() {
		_, err := New(s.mockStore, s.mockResolver, nil, s.mockLinks)
		s.Error(err)
		s.Contains(err.Error(), "validator is required")
	})

	s.Run("nil link provider returns error", func() {
		_, err := New(s.mockStore, s.mockResolver, validator, nil)
		s.Error(err)
		s.Contains(err.Error(), "deeplink provider is required")
	})

	s.Run("valid collaborators return configured service", func() {
		svc, err := New(s.mockStore, s.mockResolver, validator, s.mockLinks)
		s.NoError(err)
		s.NotNil(svc)
	})
}

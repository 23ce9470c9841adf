package service

import (
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"refgate/internal/referral/models"
	"refgate/internal/referral/validation"
	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
)

// =============================================================================
// Listing and Overview Tests
// =============================================================================

func (s *ServiceSuite) TestListReferrals() {
	s.Run("returns the referrer's history", func() {
		records := s.completedReferrals(3)
		spec := &models.SortSpec{Field: models.SortByConvertedAt, Order: models.SortAsc}
		s.mockStore.EXPECT().
			ListByReferrer(gomock.Any(), s.referrer.ID, spec).
			Return(records, nil)

		results, err := s.service.ListReferrals(s.ctx, s.referrer.ID, spec)
		s.NoError(err)
		s.Equal(records, results)
	})

	s.Run("zero referrer id is a bad request", func() {
		_, err := s.service.ListReferrals(s.ctx, id.UserID{}, nil)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("store failure is unavailable", func() {
		s.mockStore.EXPECT().
			ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Nil()).
			Return(nil, errors.New("connection refused"))

		_, err := s.service.ListReferrals(s.ctx, s.referrer.ID, nil)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestGetOverview() {
	s.Run("summarizes totals and window usage", func() {
		recent := s.completedReferrals(2)
		aged := models.Referral{
			ID:              id.NewReferralID(),
			ReferringUserID: s.referrer.ID,
			ConvertedAt:     s.now.Add(-validation.RateLimitWindow - time.Hour),
			Status:          models.StatusCompleted,
		}
		records := append(recent, aged)

		s.mockResolver.EXPECT().
			UserByID(gomock.Any(), s.referrer.ID).
			Return(&s.referrer, nil)
		s.mockStore.EXPECT().
			ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
			Return(records, nil)

		overview, err := s.service.GetOverview(s.ctx, s.referrer.ID)
		s.NoError(err)
		s.Equal(s.referrer, overview.User)
		s.Equal(3, overview.TotalConversions)
		s.Equal(2, overview.RecentWindow)
		s.Len(overview.Referrals, 3)
	})

	s.Run("zero referrer id is a bad request", func() {
		_, err := s.service.GetOverview(s.ctx, id.UserID{})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("resolver failure is unavailable", func() {
		s.mockResolver.EXPECT().
			UserByID(gomock.Any(), s.referrer.ID).
			Return(nil, errors.New("dial tcp: connection refused"))
		s.mockStore.EXPECT().
			ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
			Return(nil, nil).
			AnyTimes()

		_, err := s.service.GetOverview(s.ctx, s.referrer.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("store failure is unavailable", func() {
		s.mockResolver.EXPECT().
			UserByID(gomock.Any(), s.referrer.ID).
			Return(&s.referrer, nil).
			AnyTimes()
		s.mockStore.EXPECT().
			ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
			Return(nil, errors.New("connection refused"))

		_, err := s.service.GetOverview(s.ctx, s.referrer.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

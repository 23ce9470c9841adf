package service

import (
	"errors"

	"go.uber.org/mock/gomock"

	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/platform/sentinel"
)

// =============================================================================
// Deep Link Issuance Tests
// =============================================================================

func (s *ServiceSuite) TestCreateLink() {
	s.Run("issues a link for the user's referral code", func() {
		s.mockResolver.EXPECT().
			UserByID(gomock.Any(), s.referrer.ID).
			Return(&s.referrer, nil)
		s.mockLinks.EXPECT().
			GenerateDeepLink(gomock.Any(), "REF123").
			Return("https://app.example.com/invite?ref=REF123", nil)

		link, err := s.service.CreateLink(s.ctx, s.referrer.ID)
		s.NoError(err)
		s.Equal("https://app.example.com/invite?ref=REF123", link)
	})

	s.Run("zero user id is a bad request", func() {
		_, err := s.service.CreateLink(s.ctx, id.UserID{})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown user is not found", func() {
		s.mockResolver.EXPECT().
			UserByID(gomock.Any(), s.referrer.ID).
			Return(nil, sentinel.ErrNotFound)

		_, err := s.service.CreateLink(s.ctx, s.referrer.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("user without a referral code conflicts", func() {
		bare := s.referrer
		bare.ReferralCode = ""
		s.mockResolver.EXPECT().
			UserByID(gomock.Any(), s.referrer.ID).
			Return(&bare, nil)

		_, err := s.service.CreateLink(s.ctx, s.referrer.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("provider failure is unavailable", func() {
		s.mockResolver.EXPECT().
			UserByID(gomock.Any(), s.referrer.ID).
			Return(&s.referrer, nil)
		s.mockLinks.EXPECT().
			GenerateDeepLink(gomock.Any(), "REF123").
			Return("", errors.New("provider timeout"))

		_, err := s.service.CreateLink(s.ctx, s.referrer.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

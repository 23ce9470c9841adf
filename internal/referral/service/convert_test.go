package service

import (
	"errors"

	"go.uber.org/mock/gomock"

	"refgate/internal/events"
	"refgate/internal/referral/models"
	"refgate/internal/referral/validation"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/platform/sentinel"
	"refgate/pkg/requestcontext"
)

// =============================================================================
// Conversion Pipeline Tests
// =============================================================================

func (s *ServiceSuite) TestConvertSuccess() {
	newUser := s.newUser("+15550009999")

	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(nil, nil)

	var created *models.Referral
	s.mockStore.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, referral *models.Referral) error {
			created = referral
			return nil
		})

	outcome, err := s.service.Convert(s.ctx, "REF123", newUser)
	s.NoError(err)
	s.True(outcome.Converted)
	s.Require().NotNil(outcome.Referral)
	s.Empty(outcome.Reason)

	s.Require().NotNil(created)
	s.False(created.ID.IsZero())
	s.Equal(s.referrer.ID, created.ReferringUserID)
	s.Equal(newUser.ID, created.ConvertedUser.ID)
	s.Equal(s.now, created.ConvertedAt)
	s.Equal(models.StatusCompleted, created.Status)
}

func (s *ServiceSuite) TestConvertEachSuccessAppendsFreshRecord() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil).
		Times(2)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(nil, nil).
		Times(2)

	var ids []string
	s.mockStore.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, referral *models.Referral) error {
			ids = append(ids, referral.ID.String())
			return nil
		}).
		Times(2)

	newUser := s.newUser("+15550009999")
	_, err := s.service.Convert(s.ctx, "REF123", newUser)
	s.NoError(err)
	_, err = s.service.Convert(s.ctx, "REF123", newUser)
	s.NoError(err)

	s.Require().Len(ids, 2)
	s.NotEqual(ids[0], ids[1])
}

func (s *ServiceSuite) TestConvertRecordsDeviceFingerprint() {
	ctx := requestcontext.WithDeviceFingerprint(s.ctx, "ab12cd34ef56ab12")

	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(nil, nil)

	var created *models.Referral
	s.mockStore.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, referral *models.Referral) error {
			created = referral
			return nil
		})

	_, err := s.service.Convert(ctx, "REF123", s.newUser("+15550009999"))
	s.NoError(err)
	s.Require().NotNil(created)
	s.Equal("ab12cd34ef56ab12", created.ConvertedDevice)
}

func (s *ServiceSuite) TestConvertUnknownCode() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "NOPE").
		Return(nil, sentinel.ErrNotFound)

	// No store expectations: an unknown code must write nothing.
	outcome, err := s.service.Convert(s.ctx, "NOPE", s.newUser("+15550009999"))
	s.NoError(err)
	s.False(outcome.Converted)
	s.Nil(outcome.Referral)
	s.Equal(models.ReasonReferralNotFound, outcome.Reason)
}

func (s *ServiceSuite) TestConvertPhoneCollision() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(nil, nil)

	outcome, err := s.service.Convert(s.ctx, "REF123", s.newUser(s.referrer.PhoneNumber))
	s.NoError(err)
	s.False(outcome.Converted)
	s.Equal(models.ReasonSamePhoneNumber, outcome.Reason)
}

func (s *ServiceSuite) TestConvertRateLimited() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(s.completedReferrals(10), nil)

	outcome, err := s.service.Convert(s.ctx, "REF123", s.newUser("+15550009999"))
	s.NoError(err)
	s.False(outcome.Converted)
	s.Equal(models.ReasonRateLimitExceeded, outcome.Reason)
}

func (s *ServiceSuite) TestConvertRateLimitWinsOverPhoneCollision() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(s.completedReferrals(10), nil)

	outcome, err := s.service.Convert(s.ctx, "REF123", s.newUser(s.referrer.PhoneNumber))
	s.NoError(err)
	s.Equal(models.ReasonRateLimitExceeded, outcome.Reason)
}

func (s *ServiceSuite) TestConvertResolverUnavailable() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(nil, errors.New("dial tcp: connection refused"))

	outcome, err := s.service.Convert(s.ctx, "REF123", s.newUser("+15550009999"))
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.False(outcome.Converted)
	s.Empty(outcome.Reason)
}

func (s *ServiceSuite) TestConvertStoreReadFailure() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := s.service.Convert(s.ctx, "REF123", s.newUser("+15550009999"))
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestConvertStoreWriteFailure() {
	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(nil, nil)
	s.mockStore.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))

	outcome, err := s.service.Convert(s.ctx, "REF123", s.newUser("+15550009999"))
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.False(outcome.Converted)
}

func (s *ServiceSuite) TestConvertEmitsEvent() {
	publisher := events.NewChannelPublisher(1, nil)
	defer publisher.Close()

	validator, err := validation.New(s.mockStore)
	s.Require().NoError(err)
	svc, err := New(
		s.mockStore,
		s.mockResolver,
		validator,
		s.mockLinks,
		WithLogger(s.service.logger),
		WithEventPublisher(publisher),
	)
	s.Require().NoError(err)

	s.mockResolver.EXPECT().
		UserByReferralCode(gomock.Any(), "REF123").
		Return(&s.referrer, nil)
	s.mockStore.EXPECT().
		ListByReferrer(gomock.Any(), s.referrer.ID, gomock.Any()).
		Return(nil, nil)
	s.mockStore.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil)

	outcome, err := svc.Convert(s.ctx, "REF123", s.newUser("+15550009999"))
	s.NoError(err)
	s.True(outcome.Converted)

	select {
	case event := <-publisher.Inbox():
		s.Equal(outcome.Referral.ID, event.ReferralID)
		s.Equal(s.referrer.ID, event.ReferringUserID)
	default:
		s.Fail("expected a conversion event")
	}
}

package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler-mocks.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"refgate/internal/referral/handler/mocks"
	"refgate/internal/referral/models"
	"refgate/internal/referral/service"
	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/testutil"
)

// =============================================================================
// Referral Handler Test Suite
// =============================================================================
// Justification for unit tests: the handler owns the wire contract. The
// envelope shape for conversions, the 200-on-rejection rule, and the
// error-to-status translation are all consumed by another service and must
// not drift.

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mock    *mocks.MockService
	handler *Handler
	userID  id.UserID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mock = mocks.NewMockService(s.ctrl)
	s.handler = New(s.mock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.userID = id.UserID(uuid.New())
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) convertBody(code string) *bytes.Reader {
	payload, err := json.Marshal(ConvertReferralRequest{
		ReferralCode: code,
		NewUser:      models.User{ID: id.UserID(uuid.New()), PhoneNumber: "+15550009999"},
	})
	s.Require().NoError(err)
	return bytes.NewReader(payload)
}

func (s *HandlerSuite) TestHandleConvert() {
	s.Run("converted referral ships a 200 with the record", func() {
		referral := &models.Referral{
			ID:          id.NewReferralID(),
			ConvertedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Status:      models.StatusCompleted,
		}
		s.mock.EXPECT().
			Convert(gomock.Any(), "REF123", gomock.Any()).
			Return(models.ConvertedOutcome(referral), nil)

		req := httptest.NewRequest(http.MethodPost, "/referrals/convert", s.convertBody("REF123"))
		w := httptest.NewRecorder()
		s.handler.HandleConvert(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp ConvertReferralResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.True(resp.Converted)
		s.Require().NotNil(resp.Referral)
		s.Equal(referral.ID, resp.Referral.ID)
		s.Empty(resp.Code)
	})

	s.Run("rejection ships a 200 with the code and no referral", func() {
		s.mock.EXPECT().
			Convert(gomock.Any(), "REF123", gomock.Any()).
			Return(models.RejectedOutcome(models.ReasonRateLimitExceeded), nil)

		req := httptest.NewRequest(http.MethodPost, "/referrals/convert", s.convertBody("REF123"))
		w := httptest.NewRecorder()
		s.handler.HandleConvert(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp ConvertReferralResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.False(resp.Converted)
		s.Nil(resp.Referral)
		s.Equal(models.ReasonRateLimitExceeded, resp.Code)
	})

	s.Run("infrastructure failure ships a 503 error envelope", func() {
		s.mock.EXPECT().
			Convert(gomock.Any(), "REF123", gomock.Any()).
			Return(models.ConversionOutcome{}, dErrors.New(dErrors.CodeUnavailable, "store down"))

		req := httptest.NewRequest(http.MethodPost, "/referrals/convert", s.convertBody("REF123"))
		w := httptest.NewRecorder()
		s.handler.HandleConvert(w, req)

		s.Equal(http.StatusServiceUnavailable, w.Code)
	})

	s.Run("malformed body is a 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/referrals/convert", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		s.handler.HandleConvert(w, req)

		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing referral code fails validation", func() {
		req := httptest.NewRequest(http.MethodPost, "/referrals/convert", s.convertBody(""))
		w := httptest.NewRecorder()
		s.handler.HandleConvert(w, req)

		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestHandleCreateLink() {
	s.Run("issues a link for the authenticated user", func() {
		s.mock.EXPECT().
			CreateLink(gomock.Any(), s.userID).
			Return("https://app.example.com/invite?ref=REF123", nil)

		req := httptest.NewRequest(http.MethodPost, "/referrals/link", nil)
		req = testutil.WithUserID(req, s.userID.String())
		w := httptest.NewRecorder()
		s.handler.HandleCreateLink(w, req)

		s.Equal(http.StatusCreated, w.Code)
		var resp CreateLinkResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("https://app.example.com/invite?ref=REF123", resp.DeepLink)
	})

	s.Run("unauthenticated request is a 401", func() {
		req := httptest.NewRequest(http.MethodPost, "/referrals/link", nil)
		w := httptest.NewRecorder()
		s.handler.HandleCreateLink(w, req)

		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *HandlerSuite) TestHandleListReferrals() {
	s.Run("lists the authenticated user's referrals", func() {
		records := []models.Referral{{ID: id.NewReferralID(), ReferringUserID: s.userID}}
		s.mock.EXPECT().
			ListReferrals(gomock.Any(), s.userID, gomock.Nil()).
			Return(records, nil)

		req := httptest.NewRequest(http.MethodGet, "/referrals", nil)
		req = testutil.WithUserID(req, s.userID.String())
		w := httptest.NewRecorder()
		s.handler.HandleListReferrals(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp ListReferralsResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Len(resp.Referrals, 1)
	})

	s.Run("passes sort parameters through", func() {
		s.mock.EXPECT().
			ListReferrals(gomock.Any(), s.userID, &models.SortSpec{
				Field: models.SortByConvertedAt,
				Order: models.SortDesc,
			}).
			Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/referrals?sort=convertedAt&order=desc", nil)
		req = testutil.WithUserID(req, s.userID.String())
		w := httptest.NewRecorder()
		s.handler.HandleListReferrals(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp ListReferralsResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.NotNil(resp.Referrals)
		s.Empty(resp.Referrals)
	})

	s.Run("invalid order is a 400", func() {
		req := httptest.NewRequest(http.MethodGet, "/referrals?sort=convertedAt&order=sideways", nil)
		req = testutil.WithUserID(req, s.userID.String())
		w := httptest.NewRecorder()
		s.handler.HandleListReferrals(w, req)

		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unauthenticated request is a 401", func() {
		req := httptest.NewRequest(http.MethodGet, "/referrals", nil)
		w := httptest.NewRecorder()
		s.handler.HandleListReferrals(w, req)

		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *HandlerSuite) TestHandleOverview() {
	s.Run("returns the referrer summary", func() {
		s.mock.EXPECT().
			GetOverview(gomock.Any(), s.userID).
			Return(&service.Overview{
				User:             models.User{ID: s.userID},
				TotalConversions: 4,
				RecentWindow:     2,
				Referrals:        []models.Referral{},
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/referrals/overview", nil)
		req = testutil.WithUserID(req, s.userID.String())
		w := httptest.NewRecorder()
		s.handler.HandleOverview(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(float64(4), resp["totalConversions"])
		s.Equal(float64(2), resp["conversionsLast24h"])
	})

	s.Run("service failure propagates as an error status", func() {
		s.mock.EXPECT().
			GetOverview(gomock.Any(), s.userID).
			Return(nil, dErrors.Wrap(errors.New("connection refused"), dErrors.CodeUnavailable, "list referrals"))

		req := httptest.NewRequest(http.MethodGet, "/referrals/overview", nil)
		req = testutil.WithUserID(req, s.userID.String())
		w := httptest.NewRecorder()
		s.handler.HandleOverview(w, req)

		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

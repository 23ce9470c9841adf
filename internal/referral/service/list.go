package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"refgate/internal/referral/models"
	"refgate/internal/referral/validation"
	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/requestcontext"
)

// ListReferrals returns the referrals credited to a referrer, optionally
// ordered.
func (s *Service) ListReferrals(ctx context.Context, referrerID id.UserID, sort *models.SortSpec) ([]models.Referral, error) {
	if referrerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "referrer id is required")
	}
	referrals, err := s.referrals.ListByReferrer(ctx, referrerID, sort)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list referrals")
	}
	return referrals, nil
}

// Overview summarizes a referrer's program standing.
type Overview struct {
	User             models.User       `json:"user"`
	TotalConversions int               `json:"totalConversions"`
	RecentWindow     int               `json:"conversionsLast24h"`
	Referrals        []models.Referral `json:"referrals"`
}

// GetOverview fetches the referrer's profile and conversion history
// concurrently and reports totals plus how much of the rolling rate-limit
// window is already used.
func (s *Service) GetOverview(ctx context.Context, referrerID id.UserID) (*Overview, error) {
	if referrerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "referrer id is required")
	}

	var (
		user      *models.User
		referrals []models.Referral
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resolved, err := s.resolver.UserByID(gctx, referrerID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "resolve referrer")
		}
		user = resolved
		return nil
	})
	g.Go(func() error {
		listed, err := s.referrals.ListByReferrer(gctx, referrerID, &models.SortSpec{
			Field: models.SortByConvertedAt,
			Order: models.SortDesc,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "list referrals")
		}
		referrals = listed
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cutoff := requestcontext.Now(ctx).Add(-validation.RateLimitWindow)
	recent := 0
	for _, referral := range referrals {
		if referral.Status == models.StatusCompleted && referral.ConvertedAt.After(cutoff) {
			recent++
		}
	}

	return &Overview{
		User:             *user,
		TotalConversions: len(referrals),
		RecentWindow:     recent,
		Referrals:        referrals,
	}, nil
}

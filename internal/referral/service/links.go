package service

import (
	"context"
	"errors"

	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/platform/sentinel"
)

// CreateLink issues a referral deep link for the given user: resolve the
// profile, read its referral code, and delegate URL construction to the
// link provider. Provider failures propagate unchanged.
func (s *Service) CreateLink(ctx context.Context, referringUserID id.UserID) (string, error) {
	if referringUserID.IsZero() {
		return "", dErrors.New(dErrors.CodeBadRequest, "referring user id is required")
	}

	user, err := s.resolver.UserByID(ctx, referringUserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Wrap(err, dErrors.CodeNotFound, "referring user not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "resolve referring user")
	}
	if user.ReferralCode == "" {
		return "", dErrors.New(dErrors.CodeConflict, "user has no referral code")
	}

	link, err := s.links.GenerateDeepLink(ctx, user.ReferralCode)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "generate deep link")
	}

	s.metrics.RecordLinkIssued()
	return link, nil
}

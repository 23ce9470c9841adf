// Package identity resolves user profiles from the external user service,
// the system of record for user data. The referral core only ever reads.
package identity

import (
	"context"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
)

// Resolver looks up users by ID or by referral code.
//
// A miss returns sentinel.ErrNotFound (possibly wrapped). Resolvers must
// never substitute a default user for a failed lookup: attributing a
// conversion to the wrong referrer is worse than rejecting it.
type Resolver interface {
	UserByID(ctx context.Context, userID id.UserID) (*models.User, error)
	UserByReferralCode(ctx context.Context, code string) (*models.User, error)
}

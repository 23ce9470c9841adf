// Package validation runs the fraud checks that gate a referral
// conversion. Checks are ordered cheapest-and-most-common-failure first
// and short-circuit: the first failing check decides the rejection reason.
package validation

import (
	"context"
	"log/slog"
	"time"

	"refgate/internal/referral/models"
	"refgate/internal/referral/store"
	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/requestcontext"
)

// RateLimitWindow is the rolling lookback over which conversions per
// referrer are capped.
const RateLimitWindow = 24 * time.Hour

// DefaultMaxConversions is the cap on completed conversions per referrer
// within the rolling window.
const DefaultMaxConversions = 10

// Result is the validator's verdict. Reason is set only when Valid is
// false.
type Result struct {
	Valid  bool
	Reason models.RejectionReason
}

// Validator evaluates a referrer/new-user pair against the abuse checks.
// It has no state beyond one read from the referral store and mutates
// nothing.
type Validator struct {
	referrals      store.ReferralStore
	maxConversions int
	logger         *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithMaxConversions overrides the per-referrer cap. Values below one are
// ignored.
func WithMaxConversions(limit int) Option {
	return func(v *Validator) {
		if limit >= 1 {
			v.maxConversions = limit
		}
	}
}

// New constructs a Validator backed by the given referral store.
func New(referrals store.ReferralStore, opts ...Option) (*Validator, error) {
	if referrals == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "referral store is required")
	}
	v := &Validator{
		referrals:      referrals,
		maxConversions: DefaultMaxConversions,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// ValidateConversion runs all checks in fixed order. A non-nil error means
// a check could not be evaluated (store failure); it is never a business
// rejection.
func (v *Validator) ValidateConversion(ctx context.Context, newUser, referrer models.User) (Result, error) {
	withinLimit, err := v.CheckRate(ctx, referrer.ID)
	if err != nil {
		return Result{}, err
	}
	if !withinLimit {
		v.logger.InfoContext(ctx, "conversion rejected",
			"reason", models.ReasonRateLimitExceeded,
			"referrer_id", referrer.ID,
		)
		return Result{Valid: false, Reason: models.ReasonRateLimitExceeded}, nil
	}

	if !PhoneNumbersDistinct(referrer.PhoneNumber, newUser.PhoneNumber) {
		v.logger.InfoContext(ctx, "conversion rejected",
			"reason", models.ReasonSamePhoneNumber,
			"referrer_id", referrer.ID,
		)
		return Result{Valid: false, Reason: models.ReasonSamePhoneNumber}, nil
	}

	return Result{Valid: true}, nil
}

// CheckRate reports whether the referrer is still under the rolling-window
// cap. It counts existing COMPLETED records with ConvertedAt strictly
// inside the trailing window measured from the request-scoped now; a
// record at exactly now-24h is excluded. The candidate conversion does not
// exist yet, so a count at the cap already means the attempt must fail.
func (v *Validator) CheckRate(ctx context.Context, referrerID id.UserID) (bool, error) {
	referrals, err := v.referrals.ListByReferrer(ctx, referrerID, &models.SortSpec{
		Field: models.SortByConvertedAt,
		Order: models.SortDesc,
	})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "rate limit check failed")
	}

	cutoff := requestcontext.Now(ctx).Add(-RateLimitWindow)
	recent := 0
	for _, referral := range referrals {
		if referral.Status != models.StatusCompleted || referral.ConvertedAt.IsZero() {
			continue
		}
		if referral.ConvertedAt.After(cutoff) {
			recent++
		}
	}
	return recent < v.maxConversions, nil
}

// PhoneNumbersDistinct reports whether two phone numbers differ by exact
// string comparison. Two empty strings match: a missing phone on both
// sides is indistinguishable from a collision, and we reject
// conservatively.
func PhoneNumbersDistinct(referrerPhone, newUserPhone string) bool {
	return referrerPhone != newUserPhone
}

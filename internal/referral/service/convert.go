package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"refgate/internal/events"
	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/platform/sentinel"
	"refgate/pkg/requestcontext"
)

// Convert runs the conversion pipeline: resolve the referrer from the
// referral code, run the abuse checks, and on success append exactly one
// COMPLETED referral record.
//
// Business rejections come back as a ConversionOutcome value, never as an
// error; the error return is reserved for infrastructure failures (store
// or resolver unreachable), which are never coerced into rejections.
// Repeating a rejected call with the same inputs yields the same rejection
// and writes nothing. Each successful call appends a new record; the
// contract makes no idempotency promise across retries.
func (s *Service) Convert(ctx context.Context, referralCode string, newUser models.User) (models.ConversionOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "referral.Convert")
	defer span.End()
	start := time.Now()

	referrer, err := s.resolver.UserByReferralCode(ctx, referralCode)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "conversion rejected",
				"reason", models.ReasonReferralNotFound,
				"request_id", requestcontext.RequestID(ctx),
			)
			s.metrics.RecordRejection(string(models.ReasonReferralNotFound), time.Since(start))
			return models.RejectedOutcome(models.ReasonReferralNotFound), nil
		}
		return models.ConversionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "resolve referrer")
	}
	span.SetAttributes(attribute.String("referrer.id", referrer.ID.String()))

	// Hold the per-referrer lock across check and insert so the rate-limit
	// read and the subsequent write are never interleaved for one
	// referrer. Different referrers proceed in parallel.
	lock := s.locks.lock(referrer.ID)
	defer lock.Unlock()

	verdict, err := s.validator.ValidateConversion(ctx, newUser, *referrer)
	if err != nil {
		return models.ConversionOutcome{}, err
	}
	if !verdict.Valid {
		s.metrics.RecordRejection(string(verdict.Reason), time.Since(start))
		return models.RejectedOutcome(verdict.Reason), nil
	}

	referral := &models.Referral{
		ID:              id.NewReferralID(),
		ReferringUserID: referrer.ID,
		ConvertedUser:   newUser,
		ConvertedAt:     requestcontext.Now(ctx),
		Status:          models.StatusCompleted,
		ConvertedDevice: requestcontext.DeviceFingerprint(ctx),
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return models.ConversionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "persist referral")
	}

	if s.publisher != nil {
		if err := s.publisher.Emit(ctx, events.FromReferral(referral)); err != nil {
			// Event fan-out is best-effort; the record is already durable.
			s.logger.ErrorContext(ctx, "conversion event emit failed",
				"referral_id", referral.ID,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "referral converted",
		"referral_id", referral.ID,
		"referrer_id", referrer.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.RecordConversion(time.Since(start))
	return models.ConvertedOutcome(referral), nil
}

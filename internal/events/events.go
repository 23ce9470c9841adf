// Package events fans out conversion events to downstream consumers
// (analytics, reward payout). Emission is best-effort: a conversion never
// fails because its event could not be delivered.
package events

import (
	"context"
	"time"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
)

// ConversionEvent is emitted after a referral record is persisted.
type ConversionEvent struct {
	ReferralID      id.ReferralID `json:"referralId"`
	ReferringUserID id.UserID     `json:"referringUserId"`
	ConvertedUserID id.UserID     `json:"convertedUserId"`
	ConvertedAt     time.Time     `json:"convertedAt"`
	Status          models.Status `json:"status"`
}

// Publisher accepts conversion events for asynchronous delivery.
type Publisher interface {
	Emit(ctx context.Context, event ConversionEvent) error
}

// Sink is the delivery target a worker drains events into.
type Sink interface {
	Deliver(ctx context.Context, event ConversionEvent) error
}

// FromReferral builds the event for a freshly persisted referral.
func FromReferral(referral *models.Referral) ConversionEvent {
	return ConversionEvent{
		ReferralID:      referral.ID,
		ReferringUserID: referral.ReferringUserID,
		ConvertedUserID: referral.ConvertedUser.ID,
		ConvertedAt:     referral.ConvertedAt,
		Status:          referral.Status,
	}
}

// Package models defines the referral domain types shared by the store,
// validation, and service layers.
package models

import (
	"time"

	id "refgate/pkg/domain"
)

// Status tracks a referral's lifecycle. The conversion pipeline only ever
// writes StatusCompleted; Pending and Failed are reserved for tracking
// non-converted attempts once we start flagging fraudulent accounts.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// RejectionReason is the stable code surfaced to callers when a conversion
// is rejected by a business rule.
type RejectionReason string

const (
	// ReasonReferralNotFound: the referral code resolves to no user.
	ReasonReferralNotFound RejectionReason = "REFERRAL_NOT_FOUND"
	// ReasonSamePhoneNumber: referrer and new user share a phone number.
	ReasonSamePhoneNumber RejectionReason = "SAME_PHONE_NUMBER_USED"
	// ReasonSimilarDevice is reserved; the device fingerprint is recorded
	// on conversions but not yet evaluated.
	ReasonSimilarDevice RejectionReason = "SIMILAR_DEVICE_USED"
	// ReasonRateLimitExceeded: the referrer hit the rolling 24h cap.
	ReasonRateLimitExceeded RejectionReason = "RATE_LIMIT_EXCEEDED"
	// ReasonUnknown covers rejections with no specific classification.
	ReasonUnknown RejectionReason = "UNKNOWN_ERROR"
)

// User is a read-only snapshot of a profile owned by the external user
// service. ReferralCode is the stable token that identifies the user as a
// potential referrer.
type User struct {
	ID           id.UserID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PhoneNumber  string    `json:"phoneNumber"`
	DOB          string    `json:"dob"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ReferralCode string    `json:"referralCode"`
}

// Referral is one realized conversion. Records are immutable once created;
// the store contract is append-only.
type Referral struct {
	ID              id.ReferralID `json:"id"`
	ReferringUserID id.UserID     `json:"referringUserId"`
	// ConvertedUser is a snapshot of the new user's profile at conversion
	// time, not a live reference.
	ConvertedUser User      `json:"convertedUser"`
	ConvertedAt   time.Time `json:"convertedAt"`
	Status        Status    `json:"status"`
	// ConvertedDevice is the fingerprint of the device the conversion came
	// from, when known. Input to the reserved similar-device check.
	ConvertedDevice string `json:"convertedDevice,omitempty"`
}

// SortField names a Referral attribute referrer-scoped queries can order by.
type SortField string

const (
	SortByConvertedAt SortField = "convertedAt"
	SortByStatus      SortField = "status"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec orders referrer-scoped queries. A field absent on some records
// compares equal rather than failing.
type SortSpec struct {
	Field SortField
	Order SortOrder
}

// ConversionOutcome is the tagged result of a conversion attempt: either a
// persisted referral, or a rejection reason with nothing written. Exactly
// one branch is set.
type ConversionOutcome struct {
	Converted bool
	Referral  *Referral
	Reason    RejectionReason
}

// ConvertedOutcome builds the success branch.
func ConvertedOutcome(r *Referral) ConversionOutcome {
	return ConversionOutcome{Converted: true, Referral: r}
}

// RejectedOutcome builds the rejection branch.
func RejectedOutcome(reason RejectionReason) ConversionOutcome {
	if reason == "" {
		reason = ReasonUnknown
	}
	return ConversionOutcome{Converted: false, Reason: reason}
}

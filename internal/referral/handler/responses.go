package handler

import "refgate/internal/referral/models"

// ConvertReferralResponse mirrors the wire contract consumed by the core
// registration service: converted plus either the referral or a rejection
// code. Rejections are expected outcomes and ship with a 200.
type ConvertReferralResponse struct {
	Converted bool                   `json:"converted"`
	Referral  *models.Referral       `json:"referral,omitempty"`
	Code      models.RejectionReason `json:"code,omitempty"`
}

// CreateLinkResponse carries the issued deep link.
type CreateLinkResponse struct {
	DeepLink string `json:"deepLink"`
}

// ListReferralsResponse wraps a referrer's conversion history.
type ListReferralsResponse struct {
	Referrals []models.Referral `json:"referrals"`
}

func outcomeResponse(outcome models.ConversionOutcome) ConvertReferralResponse {
	if outcome.Converted {
		return ConvertReferralResponse{Converted: true, Referral: outcome.Referral}
	}
	return ConvertReferralResponse{Converted: false, Code: outcome.Reason}
}

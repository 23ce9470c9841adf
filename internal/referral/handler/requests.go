package handler

import (
	"refgate/internal/referral/models"
	dErrors "refgate/pkg/domain-errors"
)

// ConvertReferralRequest is the server-to-server payload the core
// registration service sends after creating a user. The full user object
// rides along so we skip a duplicate call to the user service.
type ConvertReferralRequest struct {
	ReferralCode string      `json:"referralCode"`
	NewUser      models.User `json:"newUser"`
}

func (r ConvertReferralRequest) Validate() error {
	if r.ReferralCode == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "referralCode is required")
	}
	if r.NewUser.ID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "newUser.id is required")
	}
	return nil
}

// ListQuery captures optional sort parameters on the listing endpoint.
func parseSortSpec(field, order string) (*models.SortSpec, error) {
	if field == "" {
		return nil, nil
	}
	spec := models.SortSpec{Field: models.SortField(field), Order: models.SortAsc}
	switch order {
	case "", string(models.SortAsc):
	case string(models.SortDesc):
		spec.Order = models.SortDesc
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "order must be asc or desc")
	}
	return &spec, nil
}

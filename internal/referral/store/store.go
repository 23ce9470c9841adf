// Package store defines the referral persistence contract and its
// pluggable backings. The contract is append-only: records are never
// updated or deleted once created.
package store

import (
	"context"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
	"refgate/pkg/platform/sentinel"
)

// ErrNotFound is returned by FindByID when no record exists.
var ErrNotFound = sentinel.ErrNotFound

// ReferralStore holds conversion records.
//
// Implementations must be safe for concurrent use. The conversion service
// serializes validate+create per referrer, so a backing only needs plain
// atomicity per call; the postgres backing additionally takes a
// per-referrer advisory lock inside Create so multi-process deployments
// keep the same rate-limit guarantee.
type ReferralStore interface {
	// ListByReferrer returns all referrals credited to the given referrer,
	// optionally ordered by sort. A nil sort returns store order.
	ListByReferrer(ctx context.Context, referrerID id.UserID, sort *models.SortSpec) ([]models.Referral, error)
	// FindByID returns the referral or ErrNotFound.
	FindByID(ctx context.Context, referralID id.ReferralID) (*models.Referral, error)
	// Create appends a new referral record.
	Create(ctx context.Context, referral *models.Referral) error
}

// sortValue extracts the comparable string for a sort field. Records
// missing the field report ok=false and keep their existing order.
func sortValue(r models.Referral, field models.SortField) (string, bool) {
	switch field {
	case models.SortByConvertedAt:
		if r.ConvertedAt.IsZero() {
			return "", false
		}
		return r.ConvertedAt.UTC().Format("2006-01-02T15:04:05.000000000Z"), true
	case models.SortByStatus:
		return string(r.Status), true
	default:
		return "", false
	}
}

// compare returns -1, 0, or 1 for a sortable pair. Records missing the
// field on either side compare equal.
func compare(a, b models.Referral, spec models.SortSpec) int {
	av, aok := sortValue(a, spec.Field)
	bv, bok := sortValue(b, spec.Field)
	if !aok || !bok {
		return 0
	}
	var c int
	switch {
	case av < bv:
		c = -1
	case av > bv:
		c = 1
	}
	if spec.Order == models.SortDesc {
		c = -c
	}
	return c
}

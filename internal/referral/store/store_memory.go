package store

import (
	"context"
	"sort"
	"sync"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
	"refgate/pkg/platform/sentinel"
)

// InMemoryStore keeps referral records in process memory. Used by tests and
// local development; production deployments use the postgres or redis
// backing.
type InMemoryStore struct {
	mu         sync.RWMutex
	byID       map[id.ReferralID]models.Referral
	byReferrer map[id.UserID][]id.ReferralID
}

// NewInMemoryStore creates an empty in-memory referral store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:       make(map[id.ReferralID]models.Referral),
		byReferrer: make(map[id.UserID][]id.ReferralID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, referral *models.Referral) error {
	if referral == nil || referral.ID.IsZero() {
		return sentinel.ErrConflict
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[referral.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[referral.ID] = *referral
	s.byReferrer[referral.ReferringUserID] = append(s.byReferrer[referral.ReferringUserID], referral.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, referralID id.ReferralID) (*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[referralID]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *InMemoryStore) ListByReferrer(_ context.Context, referrerID id.UserID, sortSpec *models.SortSpec) ([]models.Referral, error) {
	s.mu.RLock()
	results := make([]models.Referral, 0, len(s.byReferrer[referrerID]))
	for _, rid := range s.byReferrer[referrerID] {
		results = append(results, s.byID[rid])
	}
	s.mu.RUnlock()

	if sortSpec != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return compare(results[i], results[j], *sortSpec) < 0
		})
	}
	return results, nil
}

// Len reports the total number of stored records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

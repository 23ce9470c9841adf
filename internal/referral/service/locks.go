package service

import (
	"sync"

	id "refgate/pkg/domain"
)

// referrerLocks serializes the validate-then-create sequence per referrer.
// The rate-limit check reads the existing record count before the insert,
// and nothing in the store contract joins those two steps; without this
// lock two concurrent conversions for the same referrer can both pass the
// read before either write lands. Conversions for different referrers
// never contend.
//
// Lock entries are never evicted. One mutex per referrer seen by this
// process is small, and eviction would need refcounting to stay correct.
type referrerLocks struct {
	mu    sync.Mutex
	locks map[id.UserID]*sync.Mutex
}

func (r *referrerLocks) lock(referrerID id.UserID) *sync.Mutex {
	r.mu.Lock()
	if r.locks == nil {
		r.locks = make(map[id.UserID]*sync.Mutex)
	}
	m, ok := r.locks[referrerID]
	if !ok {
		m = &sync.Mutex{}
		r.locks[referrerID] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m
}

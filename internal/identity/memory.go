package identity

import (
	"context"
	"sync"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
	"refgate/pkg/platform/sentinel"
)

// InMemoryDirectory is a Resolver over a fixed set of users. Used in tests
// and local development where the real user service is not running.
type InMemoryDirectory struct {
	mu     sync.RWMutex
	byID   map[id.UserID]models.User
	byCode map[string]models.User
}

// NewInMemoryDirectory builds a directory from the given users. Later
// entries win on duplicate IDs or referral codes.
func NewInMemoryDirectory(users ...models.User) *InMemoryDirectory {
	d := &InMemoryDirectory{
		byID:   make(map[id.UserID]models.User, len(users)),
		byCode: make(map[string]models.User, len(users)),
	}
	for _, user := range users {
		d.Add(user)
	}
	return d
}

// Add registers a user in the directory.
func (d *InMemoryDirectory) Add(user models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[user.ID] = user
	if user.ReferralCode != "" {
		d.byCode[user.ReferralCode] = user
	}
}

func (d *InMemoryDirectory) UserByID(_ context.Context, userID id.UserID) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

func (d *InMemoryDirectory) UserByReferralCode(_ context.Context, code string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

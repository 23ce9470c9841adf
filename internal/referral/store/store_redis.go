package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
)

// RedisStore persists referral records in Redis: one JSON value per record
// plus a per-referrer sorted set indexed by conversion time. Suited to
// deployments that already run Redis and can accept its durability
// trade-offs; the postgres backing is the default for production.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedis constructs a Redis-backed referral store.
func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func recordKey(referralID id.ReferralID) string {
	return "referral:" + referralID.String()
}

func referrerIndexKey(referrerID id.UserID) string {
	return "referrer:" + referrerID.String() + ":referrals"
}

func (s *RedisStore) Create(ctx context.Context, referral *models.Referral) error {
	if referral == nil {
		return fmt.Errorf("referral is required")
	}
	payload, err := json.Marshal(referral)
	if err != nil {
		return fmt.Errorf("encode referral: %w", err)
	}

	// SET and ZADD land atomically so the index never references a
	// missing record.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(referral.ID), payload, 0)
	pipe.ZAdd(ctx, referrerIndexKey(referral.ReferringUserID), redis.Z{
		Score:  float64(referral.ConvertedAt.UnixNano()),
		Member: referral.ID.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create referral: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, referralID id.ReferralID) (*models.Referral, error) {
	payload, err := s.client.Get(ctx, recordKey(referralID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find referral: %w", err)
	}
	var record models.Referral
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode referral: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) ListByReferrer(ctx context.Context, referrerID id.UserID, sortSpec *models.SortSpec) ([]models.Referral, error) {
	ids, err := s.client.ZRange(ctx, referrerIndexKey(referrerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list referrer index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		referralID, err := id.ParseReferralID(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt referrer index entry %q: %w", raw, err)
		}
		keys[i] = recordKey(referralID)
	}

	payloads, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load referrals: %w", err)
	}

	results := make([]models.Referral, 0, len(payloads))
	for _, payload := range payloads {
		raw, ok := payload.(string)
		if !ok {
			continue // index points at an evicted record
		}
		var record models.Referral
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("decode referral: %w", err)
		}
		results = append(results, record)
	}

	if sortSpec != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return compare(results[i], results[j], *sortSpec) < 0
		})
	}
	return results, nil
}

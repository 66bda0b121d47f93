// Package uniqueness keeps the cross-instance registry index: claimed
// document hashes and UPCs, plus each user's recent IPs and last device
// fingerprint.
package uniqueness

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"trustestate/internal/registry/models"
	"trustestate/internal/registry/security"
	id "trustestate/pkg/domain"
)

const (
	documentKeyPrefix    = "registry:doc:"
	upcKeyPrefix         = "registry:upc:"
	ipHistoryKeyPrefix   = "security:ips:"
	fingerprintKeyPrefix = "security:fp:"
)

// RedisIndex backs the index with SETNX claims and a per-user sorted set of
// IPs scored by last-seen time in milliseconds.
type RedisIndex struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisIndex {
	return &RedisIndex{client: client}
}

func (x *RedisIndex) ClaimDocumentHash(ctx context.Context, hash string, propertyID id.PropertyID) error {
	return x.claim(ctx, documentKeyPrefix+hash, propertyID, models.ErrDuplicateDocument)
}

func (x *RedisIndex) ClaimUPC(ctx context.Context, upc string, propertyID id.PropertyID) error {
	return x.claim(ctx, upcKeyPrefix+upc, propertyID, models.ErrDuplicateUPC)
}

func (x *RedisIndex) claim(ctx context.Context, key string, propertyID id.PropertyID, dup error) error {
	ok, err := x.client.SetNX(ctx, key, propertyID.String(), 0).Result()
	if err != nil {
		return fmt.Errorf("claim %s: %w", key, err)
	}
	if ok {
		return nil
	}
	holder, err := x.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read claim %s: %w", key, err)
	}
	if holder == propertyID.String() {
		return nil
	}
	return dup
}

// releaseScript deletes a claim only while propertyID still holds it.
var releaseScript = redis.NewScript(`
for i, key in ipairs(KEYS) do
  if redis.call("GET", key) == ARGV[1] then
    redis.call("DEL", key)
  end
end
return 0
`)

func (x *RedisIndex) Release(ctx context.Context, propertyID id.PropertyID, upc, hash string) error {
	keys := []string{upcKeyPrefix + upc, documentKeyPrefix + hash}
	if err := releaseScript.Run(ctx, x.client, keys, propertyID.String()).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release claims: %w", err)
	}
	return nil
}

// RecordAccess reads the newest IP inside the window and the last
// fingerprint, then records the current observation in the same MULTI.
func (x *RedisIndex) RecordAccess(ctx context.Context, userID id.UserID, obs security.Observation) (security.PriorAccess, error) {
	ipKey := ipHistoryKeyPrefix + userID.String()
	fpKey := fingerprintKeyPrefix + userID.String()
	cutoff := strconv.FormatInt(obs.At.Add(-security.IPWindow).UnixMilli(), 10)

	pipe := x.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, ipKey, "-inf", "("+cutoff)
	last := pipe.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{Key: ipKey, Start: 0, Stop: 0, Rev: true})
	prevFP := pipe.Get(ctx, fpKey)
	if obs.IP != "" {
		pipe.ZAdd(ctx, ipKey, redis.Z{Score: float64(obs.At.UnixMilli()), Member: obs.IP})
		pipe.Expire(ctx, ipKey, security.IPWindow)
	}
	if obs.Fingerprint != "" {
		pipe.Set(ctx, fpKey, obs.Fingerprint, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return security.PriorAccess{}, fmt.Errorf("record access: %w", err)
	}

	var prior security.PriorAccess
	if zs, err := last.Result(); err == nil && len(zs) == 1 {
		if ip, ok := zs[0].Member.(string); ok {
			prior.LastIP = ip
			prior.LastIPAt = msToTime(zs[0].Score)
		}
	}
	if fp, err := prevFP.Result(); err == nil {
		prior.LastFingerprint = fp
	}
	return prior, nil
}

func msToTime(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

//go:build integration

package uniqueness_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trustestate/internal/registry/models"
	"trustestate/internal/registry/security"
	"trustestate/internal/registry/store/uniqueness"
	id "trustestate/pkg/domain"
	"trustestate/pkg/testutil/containers"
)

type RedisIndexSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	index *uniqueness.RedisIndex
}

func TestRedisIndexSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIndexSuite))
}

func (s *RedisIndexSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.index = uniqueness.NewRedis(s.redis.Client.Client)
}

func (s *RedisIndexSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisIndexSuite) TestClaimAndRelease() {
	ctx := context.Background()
	first, second := id.NewPropertyID(), id.NewPropertyID()

	s.Require().NoError(s.index.ClaimDocumentHash(ctx, "hash-1", first))
	s.Require().NoError(s.index.ClaimDocumentHash(ctx, "hash-1", first))
	s.ErrorIs(s.index.ClaimDocumentHash(ctx, "hash-1", second), models.ErrDuplicateDocument)

	s.Require().NoError(s.index.ClaimUPC(ctx, "UPC-MAIN-0001", first))
	s.ErrorIs(s.index.ClaimUPC(ctx, "UPC-MAIN-0001", second), models.ErrDuplicateUPC)

	s.Require().NoError(s.index.Release(ctx, second, "UPC-MAIN-0001", "hash-1"))
	s.ErrorIs(s.index.ClaimUPC(ctx, "UPC-MAIN-0001", second), models.ErrDuplicateUPC)

	s.Require().NoError(s.index.Release(ctx, first, "UPC-MAIN-0001", "hash-1"))
	s.NoError(s.index.ClaimUPC(ctx, "UPC-MAIN-0001", second))
}

func (s *RedisIndexSuite) TestRecordAccess() {
	ctx := context.Background()
	user := id.NewUserID()
	t0 := time.Now().UTC().Truncate(time.Millisecond)

	prior, err := s.index.RecordAccess(ctx, user, security.Observation{IP: "102.89.4.1", Fingerprint: "fp-1", At: t0})
	s.Require().NoError(err)
	s.Equal(security.PriorAccess{}, prior)

	prior, err = s.index.RecordAccess(ctx, user, security.Observation{IP: "185.220.101.4", Fingerprint: "fp-2", At: t0.Add(time.Minute)})
	s.Require().NoError(err)
	s.Equal("102.89.4.1", prior.LastIP)
	s.True(prior.LastIPAt.Equal(t0))
	s.Equal("fp-1", prior.LastFingerprint)

	sigs := security.Analyze(prior, security.Observation{IP: "185.220.101.4", Fingerprint: "fp-2", At: t0.Add(time.Minute)})
	s.Len(sigs, 3)
}

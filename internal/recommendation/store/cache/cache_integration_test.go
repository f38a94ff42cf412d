//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"covera/internal/recommendation"
	"covera/internal/recommendation/store/cache"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
	"covera/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.New(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeRecord(userID id.UserID) recommendation.Record {
	return recommendation.Record{
		ID:     id.NewRecommendationID(),
		UserID: userID,
		Profile: recommendation.UserProfile{
			Age: 35, Income: 75_000, Dependents: 2, RiskTolerance: recommendation.RiskMedium,
		},
		Result: recommendation.Result{
			Policy: recommendation.Policy{
				Type:           recommendation.TermLife,
				Coverage:       1_350_000,
				TermYears:      20,
				MonthlyPremium: 1048,
			},
			Explanation:   "explanation text",
			Factors:       recommendation.Factors{IncomeMultiplier: 12, DependentsFactor: 1.5, RiskAdjustment: 1.0},
			PolicyVersion: "v1",
		},
		CreatedAt: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
	}
}

func (s *RedisCacheSuite) TestSetAndGetLatest() {
	ctx := context.Background()
	userID := id.NewUserID()
	record := makeRecord(userID)

	s.Require().NoError(s.cache.SetLatest(ctx, record))

	got, err := s.cache.GetLatest(ctx, userID)
	s.Require().NoError(err)
	s.Equal(record, got)
}

func (s *RedisCacheSuite) TestGetLatest_MissForUnknownUser() {
	_, err := s.cache.GetLatest(context.Background(), id.NewUserID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestSetLatest_ReplacesPreviousEntry() {
	ctx := context.Background()
	userID := id.NewUserID()

	first := makeRecord(userID)
	s.Require().NoError(s.cache.SetLatest(ctx, first))

	second := makeRecord(userID)
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	s.Require().NoError(s.cache.SetLatest(ctx, second))

	got, err := s.cache.GetLatest(ctx, userID)
	s.Require().NoError(err)
	s.Equal(second.ID, got.ID)
}

func (s *RedisCacheSuite) TestGetLatest_CorruptEntryBehavesLikeMiss() {
	ctx := context.Background()
	userID := id.NewUserID()

	key := "covera:recommendation:latest:" + userID.String()
	s.Require().NoError(s.redis.Client.Set(ctx, key, "not-json", time.Minute).Err())

	_, err := s.cache.GetLatest(ctx, userID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestEntriesAreScopedPerUser() {
	ctx := context.Background()
	alice, bob := id.NewUserID(), id.NewUserID()

	s.Require().NoError(s.cache.SetLatest(ctx, makeRecord(alice)))

	_, err := s.cache.GetLatest(ctx, bob)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

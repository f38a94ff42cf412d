//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"covera/internal/recommendation"
	"covera/internal/recommendation/store"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
	"covera/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "recommendations", "users"))
}

func (s *PostgresStoreSuite) createUser(userID id.UserID) {
	_, err := s.postgres.DB.ExecContext(context.Background(),
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, 'hash', now())`,
		userID.String(), userID.String()+"@example.com",
	)
	s.Require().NoError(err)
}

func makeRecord(userID id.UserID, createdAt time.Time) recommendation.Record {
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
		CreatedAt: createdAt,
	}
}

func (s *PostgresStoreSuite) TestSaveAndFindByID() {
	ctx := context.Background()
	userID := id.NewUserID()
	s.createUser(userID)

	record := makeRecord(userID, time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC))
	s.Require().NoError(s.store.Save(ctx, record))

	found, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.ID, found.ID)
	s.Equal(record.Profile, found.Profile)
	s.Equal(record.Result, found.Result)
	s.True(record.CreatedAt.Equal(found.CreatedAt))
}

func (s *PostgresStoreSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(context.Background(), id.NewRecommendationID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByUser_NewestFirstWithPagination() {
	ctx := context.Background()
	userID := id.NewUserID()
	s.createUser(userID)

	base := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	var newest recommendation.Record
	for i := range 5 {
		record := makeRecord(userID, base.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(s.store.Save(ctx, record))
		newest = record
	}

	page, err := s.store.ListByUser(ctx, userID, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(newest.ID, page[0].ID)

	rest, err := s.store.ListByUser(ctx, userID, 10, 2)
	s.Require().NoError(err)
	s.Len(rest, 3)

	count, err := s.store.CountByUser(ctx, userID)
	s.Require().NoError(err)
	s.Equal(5, count)
}

func (s *PostgresStoreSuite) TestFindLatestByUser() {
	ctx := context.Background()
	userID := id.NewUserID()
	s.createUser(userID)

	base := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(ctx, makeRecord(userID, base)))
	latest := makeRecord(userID, base.Add(time.Hour))
	s.Require().NoError(s.store.Save(ctx, latest))

	found, err := s.store.FindLatestByUser(ctx, userID)
	s.Require().NoError(err)
	s.Equal(latest.ID, found.ID)

	_, err = s.store.FindLatestByUser(ctx, id.NewUserID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByUser_ScopedToOwner() {
	ctx := context.Background()
	alice, bob := id.NewUserID(), id.NewUserID()
	s.createUser(alice)
	s.createUser(bob)

	now := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(ctx, makeRecord(alice, now)))

	records, err := s.store.ListByUser(ctx, bob, 10, 0)
	s.Require().NoError(err)
	s.Empty(records)
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covera/internal/recommendation"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

func newRecord(userID id.UserID, createdAt time.Time) recommendation.Record {
	return recommendation.Record{
		ID:     id.NewRecommendationID(),
		UserID: userID,
		Profile: recommendation.UserProfile{
			Age: 35, Income: 75_000, Dependents: 2, RiskTolerance: recommendation.RiskMedium,
		},
		Result: recommendation.Result{
			Policy: recommendation.Policy{
				Type: recommendation.TermLife, Coverage: 1_350_000, TermYears: 20, MonthlyPremium: 1048,
			},
			Explanation:   "stub",
			Factors:       recommendation.Factors{IncomeMultiplier: 12, DependentsFactor: 1.5, RiskAdjustment: 1},
			PolicyVersion: "v1",
		},
		CreatedAt: createdAt,
	}
}

func TestInMemoryStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	userID := id.NewUserID()
	record := newRecord(userID, time.Now())

	require.NoError(t, s.Save(ctx, record))

	found, err := s.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, found)

	_, err = s.FindByID(ctx, id.NewRecommendationID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_ListByUser(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	userID := id.NewUserID()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var saved []recommendation.Record
	for i := 0; i < 5; i++ {
		record := newRecord(userID, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.Save(ctx, record))
		saved = append(saved, record)
	}
	// Another user's record must not leak into the listing.
	require.NoError(t, s.Save(ctx, newRecord(id.NewUserID(), base)))

	t.Run("newest first", func(t *testing.T) {
		records, err := s.ListByUser(ctx, userID, 10, 0)
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, saved[4].ID, records[0].ID)
		assert.Equal(t, saved[0].ID, records[4].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		records, err := s.ListByUser(ctx, userID, 2, 1)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, saved[3].ID, records[0].ID)
		assert.Equal(t, saved[2].ID, records[1].ID)
	})

	t.Run("offset past the end", func(t *testing.T) {
		records, err := s.ListByUser(ctx, userID, 10, 99)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("count", func(t *testing.T) {
		count, err := s.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})
}

func TestInMemoryStore_FindLatestByUser(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	userID := id.NewUserID()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.FindLatestByUser(ctx, userID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	older := newRecord(userID, base)
	newer := newRecord(userID, base.Add(time.Hour))
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	latest, err := s.FindLatestByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

// Package cache keeps each user's most recent recommendation in Redis so the
// "latest" endpoint does not hit PostgreSQL on every dashboard load.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"covera/internal/recommendation"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// DefaultTTL bounds staleness if invalidation is ever missed. A computed
// recommendation only changes when the user asks for a new one, so a long
// TTL is safe.
const DefaultTTL = 24 * time.Hour

// RedisCache stores the latest recommendation per user as a JSON blob.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a Redis-backed latest-recommendation cache.
func New(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func key(userID id.UserID) string {
	return "covera:recommendation:latest:" + userID.String()
}

// GetLatest returns the cached latest recommendation for a user, or
// sentinel.ErrNotFound on a cache miss.
func (c *RedisCache) GetLatest(ctx context.Context, userID id.UserID) (recommendation.Record, error) {
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return recommendation.Record{}, sentinel.ErrNotFound
		}
		return recommendation.Record{}, fmt.Errorf("cache get: %w", err)
	}

	var entry cachedRecord
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt entry behaves like a miss; the store is authoritative.
		return recommendation.Record{}, sentinel.ErrNotFound
	}
	return entry.toRecord()
}

// SetLatest overwrites the cached latest recommendation for the record's user.
func (c *RedisCache) SetLatest(ctx context.Context, record recommendation.Record) error {
	raw, err := json.Marshal(fromRecord(record))
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, key(record.UserID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// cachedRecord is the wire form. Typed IDs serialize as UUID strings.
type cachedRecord struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Age              int       `json:"age"`
	Income           int64     `json:"income"`
	Dependents       int       `json:"dependents"`
	RiskTolerance    string    `json:"risk_tolerance"`
	PolicyType       string    `json:"policy_type"`
	Coverage         int64     `json:"coverage"`
	TermYears        int       `json:"term_years"`
	MonthlyPremium   int64     `json:"monthly_premium"`
	IncomeMultiplier float64   `json:"income_multiplier"`
	DependentsFactor float64   `json:"dependents_factor"`
	RiskAdjustment   float64   `json:"risk_adjustment"`
	Explanation      string    `json:"explanation"`
	PolicyVersion    string    `json:"policy_version"`
	CreatedAt        time.Time `json:"created_at"`
}

func fromRecord(r recommendation.Record) cachedRecord {
	return cachedRecord{
		ID:               r.ID.String(),
		UserID:           r.UserID.String(),
		Age:              r.Profile.Age,
		Income:           r.Profile.Income,
		Dependents:       r.Profile.Dependents,
		RiskTolerance:    string(r.Profile.RiskTolerance),
		PolicyType:       string(r.Result.Policy.Type),
		Coverage:         r.Result.Policy.Coverage,
		TermYears:        r.Result.Policy.TermYears,
		MonthlyPremium:   r.Result.Policy.MonthlyPremium,
		IncomeMultiplier: r.Result.Factors.IncomeMultiplier,
		DependentsFactor: r.Result.Factors.DependentsFactor,
		RiskAdjustment:   r.Result.Factors.RiskAdjustment,
		Explanation:      r.Result.Explanation,
		PolicyVersion:    r.Result.PolicyVersion,
		CreatedAt:        r.CreatedAt,
	}
}

func (c cachedRecord) toRecord() (recommendation.Record, error) {
	recID, err := id.ParseRecommendationID(c.ID)
	if err != nil {
		return recommendation.Record{}, err
	}
	userID, err := id.ParseUserID(c.UserID)
	if err != nil {
		return recommendation.Record{}, err
	}
	return recommendation.Record{
		ID:     recID,
		UserID: userID,
		Profile: recommendation.UserProfile{
			Age:           c.Age,
			Income:        c.Income,
			Dependents:    c.Dependents,
			RiskTolerance: recommendation.RiskTolerance(c.RiskTolerance),
		},
		Result: recommendation.Result{
			Policy: recommendation.Policy{
				Type:           recommendation.PolicyType(c.PolicyType),
				Coverage:       c.Coverage,
				TermYears:      c.TermYears,
				MonthlyPremium: c.MonthlyPremium,
			},
			Explanation: c.Explanation,
			Factors: recommendation.Factors{
				IncomeMultiplier: c.IncomeMultiplier,
				DependentsFactor: c.DependentsFactor,
				RiskAdjustment:   c.RiskAdjustment,
			},
			PolicyVersion: c.PolicyVersion,
		},
		CreatedAt: c.CreatedAt,
	}, nil
}

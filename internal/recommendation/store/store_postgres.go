package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"covera/internal/recommendation"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// PostgresStore persists recommendation records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed recommendation store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const insertRecord = `
INSERT INTO recommendations (
	id, user_id, age, income, dependents, risk_tolerance,
	policy_type, coverage, term_years, monthly_premium,
	income_multiplier, dependents_factor, risk_adjustment,
	explanation, policy_version, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

func (s *PostgresStore) Save(ctx context.Context, record recommendation.Record) error {
	_, err := s.db.ExecContext(ctx, insertRecord,
		uuid.UUID(record.ID), uuid.UUID(record.UserID),
		record.Profile.Age, record.Profile.Income, record.Profile.Dependents,
		string(record.Profile.RiskTolerance),
		string(record.Result.Policy.Type), record.Result.Policy.Coverage,
		record.Result.Policy.TermYears, record.Result.Policy.MonthlyPremium,
		record.Result.Factors.IncomeMultiplier, record.Result.Factors.DependentsFactor,
		record.Result.Factors.RiskAdjustment,
		record.Result.Explanation, record.Result.PolicyVersion, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}
	return nil
}

const selectRecord = `
SELECT id, user_id, age, income, dependents, risk_tolerance,
	policy_type, coverage, term_years, monthly_premium,
	income_multiplier, dependents_factor, risk_adjustment,
	explanation, policy_version, created_at
FROM recommendations`

func (s *PostgresStore) FindByID(ctx context.Context, recID id.RecommendationID) (recommendation.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+` WHERE id = $1`, uuid.UUID(recID))
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recommendation.Record{}, sentinel.ErrNotFound
		}
		return recommendation.Record{}, fmt.Errorf("find recommendation by id: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, limit, offset int) ([]recommendation.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		selectRecord+` WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		uuid.UUID(userID), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	records := []recommendation.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) CountByUser(ctx context.Context, userID id.UserID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recommendations WHERE user_id = $1`, uuid.UUID(userID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recommendations: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) FindLatestByUser(ctx context.Context, userID id.UserID) (recommendation.Record, error) {
	row := s.db.QueryRowContext(ctx,
		selectRecord+` WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		uuid.UUID(userID),
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recommendation.Record{}, sentinel.ErrNotFound
		}
		return recommendation.Record{}, fmt.Errorf("find latest recommendation: %w", err)
	}
	return record, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (recommendation.Record, error) {
	var (
		record        recommendation.Record
		recID, usrID  uuid.UUID
		riskTolerance string
		policyType    string
	)
	err := row.Scan(
		&recID, &usrID,
		&record.Profile.Age, &record.Profile.Income, &record.Profile.Dependents,
		&riskTolerance,
		&policyType, &record.Result.Policy.Coverage,
		&record.Result.Policy.TermYears, &record.Result.Policy.MonthlyPremium,
		&record.Result.Factors.IncomeMultiplier, &record.Result.Factors.DependentsFactor,
		&record.Result.Factors.RiskAdjustment,
		&record.Result.Explanation, &record.Result.PolicyVersion, &record.CreatedAt,
	)
	if err != nil {
		return recommendation.Record{}, err
	}
	record.ID = id.RecommendationID(recID)
	record.UserID = id.UserID(usrID)
	record.Profile.RiskTolerance = recommendation.RiskTolerance(riskTolerance)
	record.Result.Policy.Type = recommendation.PolicyType(policyType)
	return record, nil
}

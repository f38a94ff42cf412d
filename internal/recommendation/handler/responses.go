package handler

import (
	"time"

	"covera/internal/recommendation"
)

// RecommendationResponse is the HTTP shape of a computed recommendation.
type RecommendationResponse struct {
	ID             string          `json:"id"`
	Recommendation PolicyResponse  `json:"recommendation"`
	Explanation    string          `json:"explanation"`
	Factors        FactorsResponse `json:"factors"`
	PolicyVersion  string          `json:"policyVersion"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// PolicyResponse is the policy portion of the response.
type PolicyResponse struct {
	Type           string `json:"type"`
	Coverage       int64  `json:"coverage"`
	Term           int    `json:"term"`
	MonthlyPremium int64  `json:"monthlyPremium"`
}

// FactorsResponse exposes the sizing coefficients for auditability.
type FactorsResponse struct {
	IncomeMultiplier float64 `json:"incomeMultiplier"`
	DependentsFactor float64 `json:"dependentsFactor"`
	RiskAdjustment   float64 `json:"riskAdjustment"`
}

// HistoryResponse is one page of a user's recommendations.
type HistoryResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	Total           int                      `json:"total"`
	Limit           int                      `json:"limit"`
	Offset          int                      `json:"offset"`
}

// FromRecord converts a persisted recommendation to its HTTP response.
func FromRecord(record recommendation.Record) RecommendationResponse {
	return RecommendationResponse{
		ID: record.ID.String(),
		Recommendation: PolicyResponse{
			Type:           string(record.Result.Policy.Type),
			Coverage:       record.Result.Policy.Coverage,
			Term:           record.Result.Policy.TermYears,
			MonthlyPremium: record.Result.Policy.MonthlyPremium,
		},
		Explanation: record.Result.Explanation,
		Factors: FactorsResponse{
			IncomeMultiplier: record.Result.Factors.IncomeMultiplier,
			DependentsFactor: record.Result.Factors.DependentsFactor,
			RiskAdjustment:   record.Result.Factors.RiskAdjustment,
		},
		PolicyVersion: record.Result.PolicyVersion,
		CreatedAt:     record.CreatedAt,
	}
}

// FromRecords converts a page of records, never returning null JSON.
func FromRecords(records []recommendation.Record) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}

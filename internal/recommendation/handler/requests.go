package handler

import (
	"net/url"
	"strconv"

	"covera/internal/recommendation"
	dErrors "covera/pkg/domain-errors"
)

// ComputeRequest is the HTTP request body for POST /recommendations.
type ComputeRequest struct {
	Age           int    `json:"age"`
	Income        int64  `json:"income"`
	Dependents    int    `json:"dependents"`
	RiskTolerance string `json:"riskTolerance"`

	// Parsed values (populated by Validate).
	parsedProfile recommendation.UserProfile
}

// Validate validates and parses the request into a domain profile.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ComputeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.Age < recommendation.MinAge || r.Age > recommendation.MaxAge {
		return dErrors.Newf(dErrors.CodeValidation, "age must be between %d and %d",
			recommendation.MinAge, recommendation.MaxAge)
	}
	if r.Income < 0 {
		return dErrors.New(dErrors.CodeValidation, "income must not be negative")
	}
	if r.Dependents < 0 {
		return dErrors.New(dErrors.CodeValidation, "dependents must not be negative")
	}

	risk, err := recommendation.ParseRiskTolerance(r.RiskTolerance)
	if err != nil {
		return err
	}

	r.parsedProfile = recommendation.UserProfile{
		Age:           r.Age,
		Income:        r.Income,
		Dependents:    r.Dependents,
		RiskTolerance: risk,
	}
	return nil
}

// ParsedProfile returns the validated profile.
func (r *ComputeRequest) ParsedProfile() recommendation.UserProfile {
	return r.parsedProfile
}

// History pagination bounds.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// parsePagination reads limit/offset query parameters with defaults and
// bounds. Out-of-range values are rejected rather than clamped so clients
// notice their mistake.
func parsePagination(query url.Values) (limit, offset int, err error) {
	limit = defaultHistoryLimit
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxHistoryLimit {
			return 0, 0, dErrors.Newf(dErrors.CodeValidation, "limit must be an integer between 1 and %d", maxHistoryLimit)
		}
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, dErrors.New(dErrors.CodeValidation, "offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

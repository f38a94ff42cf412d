package recommendation

import (
	"time"

	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
)

// RiskTolerance is the client-declared preference used as a proxy for desired
// conservatism of coverage sizing, not actuarial risk.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// ParseRiskTolerance validates a risk tolerance string.
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	switch RiskTolerance(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskTolerance(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "risk_tolerance must be one of low, medium, high")
	}
}

// PolicyType classifies the recommended policy.
type PolicyType string

const (
	TermLife      PolicyType = "term_life"
	WholeLife     PolicyType = "whole_life"
	UniversalLife PolicyType = "universal_life"
)

// DisplayName returns the prose form used in explanations.
func (t PolicyType) DisplayName() string {
	switch t {
	case WholeLife:
		return "whole life"
	case UniversalLife:
		return "universal life"
	default:
		return "term life"
	}
}

// Profile domain bounds. The engine rejects anything outside them; the HTTP
// layer enforces the same bounds earlier with friendlier messages.
const (
	MinAge = 18
	MaxAge = 100
)

// UserProfile is the engine input. Immutable, carries no identity; the caller
// owns who asked.
type UserProfile struct {
	Age           int
	Income        int64
	Dependents    int
	RiskTolerance RiskTolerance
}

// Validate checks the profile against its domain constraints. The engine
// runs this on every Compute, so an unvalidated caller can never produce an
// out-of-domain recommendation.
func (p UserProfile) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return dErrors.Newf(dErrors.CodeInvalidProfile, "age must be between %d and %d", MinAge, MaxAge)
	}
	if p.Income < 0 {
		return dErrors.New(dErrors.CodeInvalidProfile, "income must not be negative")
	}
	if p.Dependents < 0 {
		return dErrors.New(dErrors.CodeInvalidProfile, "dependents must not be negative")
	}
	switch p.RiskTolerance {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return dErrors.New(dErrors.CodeInvalidProfile, "risk_tolerance must be one of low, medium, high")
	}
	return nil
}

// Factors are the intermediate coefficients used during coverage sizing,
// exposed for auditability.
type Factors struct {
	IncomeMultiplier float64
	DependentsFactor float64
	RiskAdjustment   float64
}

// Policy is the recommended policy: what to buy, how much, for how long, and
// at what estimated monthly cost.
type Policy struct {
	Type           PolicyType
	Coverage       int64
	TermYears      int
	MonthlyPremium int64
}

// Result is the full engine output: the policy, the prose explanation, and
// the audit factors. Constructed once per Compute, never mutated.
type Result struct {
	Policy        Policy
	Explanation   string
	Factors       Factors
	PolicyVersion string
}

// Record is a persisted recommendation: the result plus storage identity.
// The engine is unaware of it; the service attaches ID and timestamp.
type Record struct {
	ID        id.RecommendationID
	UserID    id.UserID
	Profile   UserProfile
	Result    Result
	CreatedAt time.Time
}

package recommendation

import "math"

// Engine turns a user profile into a policy recommendation. It is a pure,
// deterministic pipeline over the pricing policy: no I/O, no randomness, no
// state beyond the immutable policy, so it is safe to call concurrently.
type Engine struct {
	policy PricingPolicy
}

// NewEngine constructs an engine bound to a pricing policy.
func NewEngine(policy PricingPolicy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the pricing policy the engine was built with.
func (e *Engine) Policy() PricingPolicy {
	return e.policy
}

// Compute evaluates the full recommendation pipeline:
//
//  1. sizing factors (income multiplier, dependents factor, risk adjustment)
//  2. coverage sizing (snap, floor, cap - in that order)
//  3. term selection
//  4. policy-type classification
//  5. premium pricing
//  6. explanation assembly
//
// Identical profiles always yield identical results. Out-of-domain profiles
// are rejected with an invalid-profile error; there are no other error paths
// and never a partial result.
func (e *Engine) Compute(profile UserProfile) (Result, error) {
	if err := profile.Validate(); err != nil {
		return Result{}, err
	}

	p := e.policy
	factors := Factors{
		IncomeMultiplier: lookup(p.IncomeMultipliers, profile.Age),
		DependentsFactor: p.dependentsFactor(profile.Dependents),
		RiskAdjustment:   p.RiskAdjustments[profile.RiskTolerance],
	}

	coverage := p.sizeCoverage(profile.Income, factors)
	term := lookup(p.TermYears, profile.Age)
	policyType := p.classifyPolicyType(profile)
	premium := p.monthlyPremium(profile, coverage, term, policyType)

	policy := Policy{
		Type:           policyType,
		Coverage:       coverage,
		TermYears:      term,
		MonthlyPremium: premium,
	}

	return Result{
		Policy:        policy,
		Explanation:   buildExplanation(profile, policy, factors),
		Factors:       factors,
		PolicyVersion: p.Version,
	}, nil
}

func (p PricingPolicy) dependentsFactor(dependents int) float64 {
	return 1 + float64(dependents)*p.DependentsStep
}

// sizeCoverage computes raw coverage from income and factors, snaps it to the
// rounding unit, then applies the floor and finally the cap.
//
// The order is deliberate and part of the contract: when income × cap
// multiple falls below the floor (income under 3,334 at v1 rates), the cap
// clips the floored value and the result lands below the nominal floor. See
// DESIGN.md for why this regime is preserved rather than fixed.
func (p PricingPolicy) sizeCoverage(income int64, f Factors) int64 {
	raw := float64(income) * f.IncomeMultiplier * f.DependentsFactor * f.RiskAdjustment

	coverage := int64(math.Round(raw/float64(p.CoverageRounding))) * p.CoverageRounding
	if coverage < p.CoverageFloor {
		coverage = p.CoverageFloor
	}
	if capAmount := income * p.CoverageCapIncomes; coverage > capAmount {
		coverage = capAmount
	}
	return coverage
}

// classifyPolicyType applies the type rules in order, first match wins:
//
//  1. low risk tolerance with income above the whole-life threshold
//  2. medium risk tolerance, income above the universal threshold, and
//     younger than the universal age limit
//  3. term life for everyone else
func (p PricingPolicy) classifyPolicyType(profile UserProfile) PolicyType {
	if profile.RiskTolerance == p.WholeLifeRisk && profile.Income > p.WholeLifeMinIncome {
		return WholeLife
	}
	if profile.RiskTolerance == p.UniversalRisk &&
		profile.Income > p.UniversalMinIncome &&
		profile.Age < p.UniversalMaxAge {
		return UniversalLife
	}
	return TermLife
}

// monthlyPremium prices the policy per thousand of coverage with exponential
// age loading and flat term/type factors, then applies the risk-tolerance
// loading and rounds to a whole currency amount.
func (p PricingPolicy) monthlyPremium(profile UserProfile, coverage int64, term int, policyType PolicyType) int64 {
	units := float64(coverage) / 1000

	ageFactor := math.Pow(p.AgeLoadingBase, float64(profile.Age-p.AgeLoadingPivot))
	premium := units * p.BasePremiumRate * ageFactor *
		p.TermFactors[term] * p.TypeFactors[policyType] * p.HealthFactor

	switch profile.RiskTolerance {
	case RiskHigh:
		premium *= p.HighRiskDiscount
	case RiskLow:
		premium *= p.LowRiskLoading
	}

	return int64(math.Round(premium))
}

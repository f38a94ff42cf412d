package recommendation

// PricingPolicy is the versioned set of rate tables and thresholds that drive
// recommendations. Changing any value changes recommendations, so the whole
// set travels as one immutable value with a version string and persisted
// records carry the version they were computed under. That keeps historical
// recommendations reproducible if the formula ever changes.
type PricingPolicy struct {
	Version string

	// Coverage sizing.
	IncomeMultipliers  []ageBand[float64]
	DependentsStep     float64
	RiskAdjustments    map[RiskTolerance]float64
	CoverageRounding   int64
	CoverageFloor      int64
	CoverageCapIncomes int64 // cap = income × this

	// Term selection.
	TermYears []ageBand[int]

	// Policy-type classification thresholds.
	WholeLifeMinIncome     int64
	UniversalMinIncome     int64
	UniversalMaxAge        int
	WholeLifeRisk          RiskTolerance
	UniversalRisk          RiskTolerance

	// Premium pricing.
	BasePremiumRate  float64
	AgeLoadingBase   float64
	AgeLoadingPivot  int
	TermFactors      map[int]float64
	TypeFactors      map[PolicyType]float64
	HealthFactor     float64 // reserved, neutral today
	HighRiskDiscount float64
	LowRiskLoading   float64
}

// DefaultPricingPolicy returns pricing policy v1, the only version in
// production today.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		Version: "v1",

		IncomeMultipliers: []ageBand[float64]{
			{Below: 30, Value: 15},
			{Below: 40, Value: 12},
			{Below: 50, Value: 10},
			{Below: noUpperBound, Value: 8},
		},
		DependentsStep: 0.25,
		RiskAdjustments: map[RiskTolerance]float64{
			RiskLow:    1.2, // conservative profiles are sized up
			RiskMedium: 1.0,
			RiskHigh:   0.8,
		},
		CoverageRounding:   10_000,
		CoverageFloor:      100_000,
		CoverageCapIncomes: 30,

		TermYears: []ageBand[int]{
			{Below: 35, Value: 30},
			{Below: 45, Value: 20},
			{Below: 55, Value: 15},
			{Below: noUpperBound, Value: 10},
		},

		WholeLifeMinIncome: 150_000,
		UniversalMinIncome: 200_000,
		UniversalMaxAge:    50,
		WholeLifeRisk:      RiskLow,
		UniversalRisk:      RiskMedium,

		BasePremiumRate: 0.5,
		AgeLoadingBase:  1.045,
		AgeLoadingPivot: 25,
		TermFactors: map[int]float64{
			10: 1.2,
			15: 1.1,
			20: 1.0,
			30: 0.9,
		},
		TypeFactors: map[PolicyType]float64{
			TermLife:      1.0,
			WholeLife:     3.5,
			UniversalLife: 2.5,
		},
		HealthFactor:     1.0,
		HighRiskDiscount: 0.95,
		LowRiskLoading:   1.05,
	}
}

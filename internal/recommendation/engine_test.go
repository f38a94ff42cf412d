package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "covera/pkg/domain-errors"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultPricingPolicy())
}

func TestCompute_Scenarios(t *testing.T) {
	engine := newTestEngine()

	t.Run("mid-career family with medium risk", func(t *testing.T) {
		result, err := engine.Compute(UserProfile{
			Age: 35, Income: 75_000, Dependents: 2, RiskTolerance: RiskMedium,
		})
		require.NoError(t, err)

		assert.Equal(t, 12.0, result.Factors.IncomeMultiplier)
		assert.Equal(t, 1.5, result.Factors.DependentsFactor)
		assert.Equal(t, 1.0, result.Factors.RiskAdjustment)

		// 75,000 × 12 × 1.5 × 1.0 = 1,350,000; already a multiple of 10,000
		// and within the 2,250,000 cap.
		assert.Equal(t, int64(1_350_000), result.Policy.Coverage)
		// Age 35 falls in the 35–44 band, not under 35.
		assert.Equal(t, 20, result.Policy.TermYears)
		assert.Equal(t, TermLife, result.Policy.Type)
		// 1350 × 0.5 × 1.045^10 × 1.0 × 1.0 = 1048.25 → 1048.
		assert.Equal(t, int64(1048), result.Policy.MonthlyPremium)
		assert.Equal(t, "v1", result.PolicyVersion)
	})

	t.Run("zero income hits the floor-cap conflict", func(t *testing.T) {
		result, err := engine.Compute(UserProfile{
			Age: 25, Income: 0, Dependents: 0, RiskTolerance: RiskMedium,
		})
		require.NoError(t, err)

		// Floor raises coverage to 100,000, then the 0 × 30 cap clips it
		// back to zero. The cap wins in this regime; see DESIGN.md.
		assert.Equal(t, int64(0), result.Policy.Coverage)
		assert.Equal(t, 30, result.Policy.TermYears)
		assert.Equal(t, TermLife, result.Policy.Type)
		assert.Equal(t, int64(0), result.Policy.MonthlyPremium)
	})

	t.Run("older conservative high earner gets whole life", func(t *testing.T) {
		result, err := engine.Compute(UserProfile{
			Age: 60, Income: 300_000, Dependents: 0, RiskTolerance: RiskLow,
		})
		require.NoError(t, err)

		assert.Equal(t, WholeLife, result.Policy.Type)
		assert.Equal(t, 10, result.Policy.TermYears)
		// 300,000 × 8 × 1.0 × 1.2 = 2,880,000, within the 9,000,000 cap.
		assert.Equal(t, int64(2_880_000), result.Policy.Coverage)
		assert.Positive(t, result.Policy.MonthlyPremium)
	})

	t.Run("medium risk high earner under fifty gets universal life", func(t *testing.T) {
		result, err := engine.Compute(UserProfile{
			Age: 45, Income: 250_000, Dependents: 0, RiskTolerance: RiskMedium,
		})
		require.NoError(t, err)

		assert.Equal(t, UniversalLife, result.Policy.Type)
	})
}

func TestCompute_Determinism(t *testing.T) {
	engine := newTestEngine()
	profile := UserProfile{Age: 42, Income: 180_000, Dependents: 3, RiskTolerance: RiskLow}

	first, err := engine.Compute(profile)
	require.NoError(t, err)
	second, err := engine.Compute(profile)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical profiles must yield identical results")
	assert.Equal(t, first.Explanation, second.Explanation)
}

// profileGrid spans the interesting corners of the input domain: band
// boundaries, the floor-cap conflict regime, and every risk tolerance.
func profileGrid() []UserProfile {
	ages := []int{18, 24, 25, 29, 30, 34, 35, 39, 40, 44, 45, 49, 50, 54, 55, 70, 100}
	incomes := []int64{0, 1_000, 3_333, 3_334, 40_000, 75_000, 150_000, 150_001, 200_000, 200_001, 500_000}
	dependents := []int{0, 1, 2, 5}
	risks := []RiskTolerance{RiskLow, RiskMedium, RiskHigh}

	var grid []UserProfile
	for _, age := range ages {
		for _, income := range incomes {
			for _, dep := range dependents {
				for _, risk := range risks {
					grid = append(grid, UserProfile{Age: age, Income: income, Dependents: dep, RiskTolerance: risk})
				}
			}
		}
	}
	return grid
}

func TestCompute_Postconditions(t *testing.T) {
	engine := newTestEngine()
	policy := DefaultPricingPolicy()

	for _, profile := range profileGrid() {
		result, err := engine.Compute(profile)
		require.NoError(t, err, "profile %+v", profile)

		coverage := result.Policy.Coverage
		capAmount := profile.Income * policy.CoverageCapIncomes

		assert.LessOrEqual(t, coverage, capAmount, "profile %+v", profile)
		if coverage == capAmount {
			// Cap binds: income × 30 passes through unrounded, and below
			// the floor the cap wins outright (documented conflict).
		} else {
			assert.Zero(t, coverage%policy.CoverageRounding,
				"coverage %d must be a multiple of %d (profile %+v)", coverage, policy.CoverageRounding, profile)
			assert.GreaterOrEqual(t, coverage, policy.CoverageFloor, "profile %+v", profile)
		}

		assert.Contains(t, []int{10, 15, 20, 30}, result.Policy.TermYears)

		if profile.Income > 0 {
			assert.Positive(t, result.Policy.MonthlyPremium, "profile %+v", profile)
		}

		assert.Positive(t, result.Factors.IncomeMultiplier)
		assert.Positive(t, result.Factors.DependentsFactor)
		assert.Positive(t, result.Factors.RiskAdjustment)
		assert.NotEmpty(t, result.Explanation)
	}
}

func TestCompute_TermMonotonicity(t *testing.T) {
	engine := newTestEngine()

	lastTerm := int(^uint(0) >> 1)
	for age := MinAge; age <= MaxAge; age++ {
		result, err := engine.Compute(UserProfile{
			Age: age, Income: 50_000, Dependents: 0, RiskTolerance: RiskMedium,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Policy.TermYears, lastTerm,
			"term must not increase with age (age %d)", age)
		lastTerm = result.Policy.TermYears
	}
}

func TestCompute_PolicyTypePrecedence(t *testing.T) {
	engine := newTestEngine()

	// Low risk with income above both thresholds must match the whole-life
	// rule first, even though a hypothetical later rule could also apply.
	result, err := engine.Compute(UserProfile{
		Age: 40, Income: 200_000, Dependents: 0, RiskTolerance: RiskLow,
	})
	require.NoError(t, err)
	assert.Equal(t, WholeLife, result.Policy.Type)

	// The universal rule carries an age ceiling; at 50 it no longer applies.
	result, err = engine.Compute(UserProfile{
		Age: 50, Income: 250_000, Dependents: 0, RiskTolerance: RiskMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, TermLife, result.Policy.Type)
}

func TestCompute_RejectsInvalidProfiles(t *testing.T) {
	engine := newTestEngine()

	cases := []struct {
		name    string
		profile UserProfile
	}{
		{"under minimum age", UserProfile{Age: 17, Income: 50_000, RiskTolerance: RiskMedium}},
		{"over maximum age", UserProfile{Age: 101, Income: 50_000, RiskTolerance: RiskMedium}},
		{"negative income", UserProfile{Age: 30, Income: -1, RiskTolerance: RiskMedium}},
		{"negative dependents", UserProfile{Age: 30, Income: 50_000, Dependents: -1, RiskTolerance: RiskMedium}},
		{"unknown risk tolerance", UserProfile{Age: 30, Income: 50_000, RiskTolerance: "reckless"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Compute(tc.profile)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidProfile))
		})
	}
}

func TestCompute_AgeLoadingBelowPivot(t *testing.T) {
	engine := newTestEngine()

	// Under the pivot age the exponential loading is below 1, so a younger
	// applicant pays less than a pivot-age applicant on the same profile.
	young, err := engine.Compute(UserProfile{Age: 20, Income: 60_000, RiskTolerance: RiskMedium})
	require.NoError(t, err)
	pivot, err := engine.Compute(UserProfile{Age: 25, Income: 60_000, RiskTolerance: RiskMedium})
	require.NoError(t, err)

	assert.Less(t, young.Policy.MonthlyPremium, pivot.Policy.MonthlyPremium)
}

package recommendation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each rationale fragment has exactly one trigger condition, tested here in
// isolation from the engine orchestration.

func TestAgeRationale(t *testing.T) {
	cases := []struct {
		age  int
		want string
	}{
		{22, "early in your earning years"},
		{29, "early in your earning years"},
		{30, "peak earning years"},
		{39, "peak earning years"},
		{40, "fewer working years"},
		{49, "fewer working years"},
		{50, "shorter"},
		{85, "shorter"},
	}
	for _, tc := range cases {
		assert.Contains(t, ageRationale(tc.age, 10), tc.want, "age %d", tc.age)
	}

	// The multiplier renders without a trailing decimal.
	assert.Contains(t, ageRationale(35, 12), "12x your income")
}

func TestIncomeRationale(t *testing.T) {
	assert.Contains(t, incomeRationale(75_000), "$75,000")
	assert.Contains(t, incomeRationale(0), "minimum coverage floor")
}

func TestDependentsRationale(t *testing.T) {
	assert.Contains(t, dependentsRationale(0), "no dependents")
	assert.Contains(t, dependentsRationale(1), "1 dependent ")
	assert.Contains(t, dependentsRationale(4), "4 dependents")
}

func TestRiskRationale(t *testing.T) {
	assert.Contains(t, riskRationale(RiskLow), "conservative")
	assert.Contains(t, riskRationale(RiskMedium), "balanced")
	assert.Contains(t, riskRationale(RiskHigh), "higher risk tolerance")
}

func TestPolicyTypeRationale(t *testing.T) {
	assert.Contains(t, policyTypeRationale(TermLife), "term life")
	assert.Contains(t, policyTypeRationale(WholeLife), "whole life")
	assert.Contains(t, policyTypeRationale(UniversalLife), "universal life")
}

func TestClosingSummary(t *testing.T) {
	got := closingSummary(Policy{Type: TermLife, Coverage: 1_350_000, TermYears: 20, MonthlyPremium: 1048})
	assert.Contains(t, got, "term life")
	assert.Contains(t, got, "$1,350,000")
	assert.Contains(t, got, "20 years")
	assert.Contains(t, got, "$1,048 per month")
}

func TestBuildExplanation_ComposesAllSections(t *testing.T) {
	engine := newTestEngine()
	result, err := engine.Compute(UserProfile{
		Age: 35, Income: 75_000, Dependents: 2, RiskTolerance: RiskMedium,
	})
	require.NoError(t, err)

	// All six rationale sections appear, in order.
	explanation := result.Explanation
	sections := []string{
		"peak earning years",
		"$75,000",
		"2 dependents",
		"balanced risk tolerance",
		"term life policy",
		"In summary",
	}
	lastIdx := -1
	for _, section := range sections {
		idx := strings.Index(explanation, section)
		require.GreaterOrEqual(t, idx, 0, "missing section %q in %q", section, explanation)
		assert.Greater(t, idx, lastIdx, "section %q out of order", section)
		lastIdx = idx
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:         "$0",
		999:       "$999",
		1_000:     "$1,000",
		10_000:    "$10,000",
		100_000:   "$100,000",
		1_350_000: "$1,350,000",
		-5_000:    "-$5,000",
	}
	for amount, want := range cases {
		assert.Equal(t, want, formatAmount(amount))
	}
}

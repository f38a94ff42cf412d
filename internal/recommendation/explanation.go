package recommendation

import (
	"fmt"
	"strconv"
	"strings"
)

// Explanation assembly. Each rationale is its own function keyed to exactly
// one trigger condition (age band, dependents, risk tolerance, policy type)
// so every sentence can be verified in isolation. The composed text is a pure
// function of the input: same profile, same words.

func buildExplanation(profile UserProfile, policy Policy, factors Factors) string {
	sentences := []string{
		ageRationale(profile.Age, factors.IncomeMultiplier),
		incomeRationale(profile.Income),
		dependentsRationale(profile.Dependents),
		riskRationale(profile.RiskTolerance),
		policyTypeRationale(policy.Type),
		closingSummary(policy),
	}
	return strings.Join(sentences, " ")
}

func ageRationale(age int, multiplier float64) string {
	mult := strconv.FormatFloat(multiplier, 'f', -1, 64)
	switch {
	case age < 30:
		return fmt.Sprintf("At %d you are early in your earning years, so we size coverage at %sx your income to protect the decades of income still ahead.", age, mult)
	case age < 40:
		return fmt.Sprintf("At %d your peak earning years are ahead of you, so we size coverage at %sx your income.", age, mult)
	case age < 50:
		return fmt.Sprintf("At %d you likely have fewer working years to replace, so we size coverage at %sx your income.", age, mult)
	default:
		return fmt.Sprintf("At %d your remaining income-earning horizon is shorter, so we size coverage at %sx your income.", age, mult)
	}
}

func incomeRationale(income int64) string {
	if income == 0 {
		return "With no reported annual income, the minimum coverage floor anchors the recommendation."
	}
	return fmt.Sprintf("This is based on your reported annual income of %s.", formatAmount(income))
}

func dependentsRationale(dependents int) string {
	switch dependents {
	case 0:
		return "With no dependents, coverage is driven by income replacement alone."
	case 1:
		return "Having 1 dependent increases your recommended coverage to protect the person relying on your income."
	default:
		return fmt.Sprintf("Having %d dependents increases your recommended coverage to protect the people relying on your income.", dependents)
	}
}

func riskRationale(risk RiskTolerance) string {
	switch risk {
	case RiskLow:
		return "Your conservative risk tolerance points to more protection, so coverage is sized up accordingly."
	case RiskHigh:
		return "Your higher risk tolerance allows for leaner coverage in exchange for a lower premium."
	default:
		return "Your balanced risk tolerance keeps coverage at the standard sizing."
	}
}

func policyTypeRationale(policyType PolicyType) string {
	switch policyType {
	case WholeLife:
		return "A whole life policy fits your profile: permanent coverage that builds cash value over time."
	case UniversalLife:
		return "A universal life policy fits your profile: permanent coverage with flexible premiums and cash value."
	default:
		return "A term life policy fits your profile: straightforward, affordable protection for a fixed period."
	}
}

func closingSummary(policy Policy) string {
	return fmt.Sprintf("In summary, we recommend %s of %s coverage over %d years at an estimated %s per month.",
		policy.Type.DisplayName(), formatAmount(policy.Coverage), policy.TermYears, formatAmount(policy.MonthlyPremium))
}

// formatAmount renders a currency amount with thousands separators, e.g.
// 1350000 -> "$1,350,000".
func formatAmount(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

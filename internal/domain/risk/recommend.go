package risk

// recommendations keyed by domain, issued when that domain's ladder level
// reaches 3.
var domainRecommendations = map[string]string{
	FactorDepression:   "Psychiatric evaluation for depression management recommended",
	FactorAnxiety:      "Anxiety-focused intervention recommended (CBT, relaxation training)",
	FactorSubstanceUse: "Substance use disorder treatment referral recommended",
	FactorFunction:     "Trauma-focused therapy and functional support referral recommended",
}

func recommend(domains map[string]domainInput, level Level) []string {
	var out []string
	for _, factor := range factorOrder {
		d := domains[factor]
		if d.present && d.ladder >= 3 {
			out = append(out, domainRecommendations[factor])
		}
	}
	if level == High {
		out = append(out, "Immediate clinical review recommended")
	}
	if len(out) == 0 {
		out = append(out, "Continue current care plan with routine monitoring")
	}
	return out
}

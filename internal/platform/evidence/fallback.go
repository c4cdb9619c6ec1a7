package evidence

import "strings"

// fallbackSet is served whenever the similarity-search service cannot
// answer. Entries are tagged with the domain keywords they respond to; a
// query matching none gets the general-care entries.
var fallbackSet = []struct {
	keywords []string
	result   Result
}{
	{
		keywords: []string{"depression", "phq"},
		result: Result{
			Text:      "Behavioral activation and cognitive behavioral therapy are first-line treatments for moderate depression.",
			Relevance: 0.5,
			Source:    "builtin:depression-care",
		},
	},
	{
		keywords: []string{"anxiety", "gad"},
		result: Result{
			Text:      "CBT with exposure components shows strong evidence for generalized anxiety disorder.",
			Relevance: 0.5,
			Source:    "builtin:anxiety-care",
		},
	},
	{
		keywords: []string{"ptsd", "trauma"},
		result: Result{
			Text:      "Trauma-focused psychotherapies (CPT, PE, EMDR) are recommended first-line for PTSD.",
			Relevance: 0.5,
			Source:    "builtin:ptsd-care",
		},
	},
	{
		keywords: []string{"substance", "use"},
		result: Result{
			Text:      "Combined pharmacotherapy and behavioral treatment improves outcomes in substance use disorders.",
			Relevance: 0.5,
			Source:    "builtin:sud-care",
		},
	},
	{
		keywords: nil,
		result: Result{
			Text:      "Regular outcome monitoring with standardized instruments improves treatment response detection.",
			Relevance: 0.3,
			Source:    "builtin:measurement-based-care",
		},
	},
}

func fallbackResults(query string, limit int) []Result {
	q := strings.ToLower(query)
	var out []Result
	for _, entry := range fallbackSet {
		if len(entry.keywords) == 0 {
			out = append(out, entry.result)
			continue
		}
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				out = append(out, entry.result)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

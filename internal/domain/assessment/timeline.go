package assessment

import "sort"

// MergeTimelines folds every instrument's dated history into one
// chronology sorted ascending by date. The sort is stable and instruments
// are visited in canonical order, so same-day events keep a deterministic
// ordering.
func MergeTimelines(seriesByInstrument map[Instrument]DomainSeries) []TimelineEvent {
	var events []TimelineEvent
	for _, inst := range instrumentOrder {
		spec, ok := SpecFor(inst)
		if !ok {
			continue
		}
		for _, score := range seriesByInstrument[inst] {
			if score.Date == "" {
				continue
			}
			events = append(events, TimelineEvent{
				Date:        score.Date,
				Instrument:  inst,
				Score:       score.Total,
				DomainLabel: spec.DomainLabel,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
	return events
}

// EnsureTimeline merges all series and, when no dated history exists at
// all, synthesizes one event per instrument that has a non-zero current
// score, dated today. The synthetic points are mirrored back into the
// series map so trend and chart rendering stay non-empty for brand-new
// patients. This is a usability fallback, not a data-integrity guarantee;
// callers must surface the data-source flag alongside.
func EnsureTimeline(seriesByInstrument map[Instrument]DomainSeries, latest map[Instrument]*DomainScore, today string) []TimelineEvent {
	events := MergeTimelines(seriesByInstrument)
	if len(events) > 0 {
		return events
	}

	for _, inst := range instrumentOrder {
		score := latest[inst]
		if score == nil || score.Total == 0 {
			continue
		}
		spec, _ := SpecFor(inst)
		synthetic := *score
		synthetic.Date = today
		seriesByInstrument[inst] = append(seriesByInstrument[inst], synthetic)
		events = append(events, TimelineEvent{
			Date:        today,
			Instrument:  inst,
			Score:       synthetic.Total,
			DomainLabel: spec.DomainLabel,
		})
	}
	return events
}

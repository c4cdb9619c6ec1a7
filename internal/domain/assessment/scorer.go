package assessment

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/clinsight/clinsight/internal/config"
)

// Scorer turns raw per-item responses into standardized instrument totals.
// Severity cut-points come from the clinical protocol so they can be swapped
// without touching scoring logic.
type Scorer struct {
	protocol *config.Protocol
}

func NewScorer(p *config.Protocol) *Scorer {
	if p == nil {
		p = config.DefaultProtocol()
	}
	return &Scorer{protocol: p}
}

// Score computes the DomainScore for one raw response. It is pure and never
// fails: non-numeric or absent answers contribute zero. A partially filled
// instrument therefore still yields a usable, if optimistic, total; callers
// can inspect QuestionsAnswered to detect incomplete records.
func (s *Scorer) Score(r RawItemResponse) DomainScore {
	spec, ok := SpecFor(r.Instrument)
	if !ok {
		return DomainScore{PatientID: r.PatientID, Instrument: r.Instrument}
	}

	var sum float64
	answered := 0
	for _, key := range spec.ItemKeys {
		v := numeric(r.Answers[key])
		sum += v
		if v > 0 {
			answered++
		}
	}

	total := int(sum)
	if total < 0 {
		total = 0
	}
	if total > spec.Max {
		total = spec.Max
	}

	score := DomainScore{
		PatientID:         r.PatientID,
		Instrument:        r.Instrument,
		Date:              NormalizeDate(r.AssessmentDate),
		Total:             total,
		QuestionsAnswered: answered,
	}
	if spec.Scaled {
		score.ScaledTotal = total * spec.ScaleFactor
	}
	score.SeverityBand = s.severity(spec, score)
	return score
}

// BuildSeries scores a batch of responses for one instrument and returns the
// dated history sorted ascending, plus the latest score regardless of date.
// Undated responses are excluded from the series but still compete for
// latest so a brand-new patient has a current score.
func (s *Scorer) BuildSeries(responses []RawItemResponse) (DomainSeries, *DomainScore) {
	var series DomainSeries
	var latest *DomainScore
	for _, r := range responses {
		sc := s.Score(r)
		if sc.Date != "" {
			series = append(series, sc)
		}
		if latest == nil {
			c := sc
			latest = &c
		} else if sc.Date >= latest.Date {
			c := sc
			latest = &c
		}
	}
	sortSeries(series)
	if len(series) > 0 {
		c := series[len(series)-1]
		latest = &c
	}
	return series, latest
}

// severity assigns the band from the protocol cut-points. WHO-5 bands are
// defined on the scaled score.
func (s *Scorer) severity(spec Spec, score DomainScore) string {
	cuts := s.protocol.SeverityBands[string(spec.Code)]
	if len(cuts) == 0 {
		return ""
	}
	value := score.Total
	if spec.Scaled {
		value = score.ScaledTotal
	}
	for _, cut := range cuts {
		if value <= cut.UpTo {
			return cut.Band
		}
	}
	return cuts[len(cuts)-1].Band
}

// numeric coerces a provider answer value to a float. Nil, non-numeric
// strings and unknown types coerce to zero; this is the documented lossy
// policy for malformed input.
func numeric(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

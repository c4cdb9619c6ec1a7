package assessment

import "fmt"

// Instrument identifies one standardized questionnaire.
type Instrument string

const (
	PTSD Instrument = "ptsd" // PCL-5, 20 items, 0-80
	PHQ  Instrument = "phq"  // PHQ-9, 9 items, 0-27
	GAD  Instrument = "gad"  // GAD-7, 7 items, 0-21
	WHO  Instrument = "who"  // WHO-5, 5 items, 0-25 raw (x4 scaled to 0-100)
	DERS Instrument = "ders" // DERS, 36 items, 0-180
)

// Spec is the fixed scoring definition for one instrument: its ordered item
// keys (matching the upstream column naming), score ceiling, and display
// labels. The key lists are part of the wire contract with the data
// provider and must not be reordered.
type Spec struct {
	Code        Instrument
	DisplayName string
	DomainLabel string
	ItemKeys    []string
	Max         int
	// Scaled instruments report severity on a derived scale (WHO-5 raw x4).
	Scaled      bool
	ScaleFactor int
}

func itemKeys(prefix string, n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return keys
}

var specs = map[Instrument]Spec{
	PTSD: {
		Code:        PTSD,
		DisplayName: "PTSD (PCL-5)",
		DomainLabel: "PTSD",
		ItemKeys:    itemKeys("ptsd_q", 20),
		Max:         80,
	},
	PHQ: {
		Code:        PHQ,
		DisplayName: "PHQ-9 (Depression)",
		DomainLabel: "Depression",
		ItemKeys:    itemKeys("col_", 9),
		Max:         27,
	},
	GAD: {
		Code:        GAD,
		DisplayName: "GAD-7 (Anxiety)",
		DomainLabel: "Anxiety",
		ItemKeys:    itemKeys("col_", 7),
		Max:         21,
	},
	WHO: {
		Code:        WHO,
		DisplayName: "WHO-5 (Well-being)",
		DomainLabel: "Well-being",
		ItemKeys:    itemKeys("col_", 5),
		Max:         25,
		Scaled:      true,
		ScaleFactor: 4,
	},
	DERS: {
		Code:        DERS,
		DisplayName: "DERS (Emotion Regulation)",
		DomainLabel: "Emotion Regulation",
		ItemKeys:    itemKeys("ders_q", 36),
		Max:         180,
	},
}

// instrumentOrder fixes iteration order everywhere series are merged or
// reported, so tie-breaking and output ordering stay deterministic.
var instrumentOrder = []Instrument{PTSD, PHQ, GAD, WHO, DERS}

// All returns every instrument in canonical order.
func All() []Instrument {
	out := make([]Instrument, len(instrumentOrder))
	copy(out, instrumentOrder)
	return out
}

// SpecFor returns the scoring definition for an instrument.
func SpecFor(inst Instrument) (Spec, bool) {
	s, ok := specs[inst]
	return s, ok
}

// Valid reports whether the string names a known instrument.
func Valid(s string) bool {
	_, ok := specs[Instrument(s)]
	return ok
}

// ParseInstruments filters a list of candidate codes down to known
// instruments, defaulting to all of them when the list is empty.
func ParseInstruments(codes []string) []Instrument {
	if len(codes) == 0 {
		return All()
	}
	var out []Instrument
	seen := make(map[Instrument]bool)
	for _, c := range codes {
		inst := Instrument(c)
		if _, ok := specs[inst]; ok && !seen[inst] {
			out = append(out, inst)
			seen[inst] = true
		}
	}
	return out
}

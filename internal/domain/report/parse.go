package report

import (
	"encoding/json"
	"regexp"
	"strings"
)

var blockPatterns = map[string]*regexp.Regexp{}

func init() {
	// The optional leading blank line is the separator Assemble emits, so
	// stripping a block also strips its separator and the narrative survives
	// byte for byte.
	for _, tag := range tagOrder {
		blockPatterns[tag] = regexp.MustCompile(`(?s)(?:\n\n)?\[` + tag + `\](.*?)\[/` + tag + `\]`)
	}
}

// Parse is the inverse of Assemble: it extracts each sentinel block, decodes
// its JSON interior, and strips all tag spans from the narrative. A block
// whose interior fails to decode is returned absent; parsing never fails as
// a whole.
func Parse(serialized string) *Payload {
	p := &Payload{}
	narrative := serialized

	for _, tag := range tagOrder {
		m := blockPatterns[tag].FindStringSubmatch(serialized)
		if m == nil {
			continue
		}
		narrative = strings.Replace(narrative, m[0], "", 1)
		interior := m[1]
		switch tag {
		case TagTable:
			if err := json.Unmarshal([]byte(interior), &p.Table); err != nil {
				p.Table = nil
			}
		case TagChart:
			if err := json.Unmarshal([]byte(interior), &p.Chart); err != nil {
				p.Chart = nil
			}
		case TagTrend:
			if err := json.Unmarshal([]byte(interior), &p.Trends); err != nil {
				p.Trends = nil
			}
		case TagTimeline:
			if err := json.Unmarshal([]byte(interior), &p.Timeline); err != nil {
				p.Timeline = nil
			}
		}
	}

	p.Narrative = narrative
	return p
}

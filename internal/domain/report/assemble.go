package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/clinsight/clinsight/internal/config"
)

// Assemble serializes the payload: narrative first, then the four sentinel
// blocks in fixed order. When the result would exceed the configured cap it
// is reduced deterministically: the narrative is cut to make room and the
// truncation marker appended; if the blocks alone cannot fit, whole
// trailing blocks are dropped. A sentinel tag pair is never split.
func Assemble(p *Payload, limits config.ReportLimits) string {
	if limits.MaxChars <= 0 {
		limits = config.DefaultProtocol().Report
	}

	blocks := renderBlocks(p)
	narrative := p.Narrative

	total := len(narrative)
	for _, b := range blocks {
		total += len(b)
	}
	if total <= limits.MaxChars {
		return narrative + strings.Join(blocks, "")
	}

	budget := limits.TruncateTo

	// Drop whole trailing blocks until what remains can fit alongside the
	// marker.
	blockLen := 0
	for _, b := range blocks {
		blockLen += len(b)
	}
	for len(blocks) > 0 && blockLen+len(TruncationMarker) > budget {
		last := blocks[len(blocks)-1]
		blocks = blocks[:len(blocks)-1]
		blockLen -= len(last)
	}

	room := budget - blockLen - len(TruncationMarker)
	if room < 0 {
		room = 0
	}
	if len(narrative) > room {
		// Back off to the nearest rune boundary so the cut never leaves a
		// partial UTF-8 sequence behind.
		cut := room
		for cut > 0 && !utf8.RuneStart(narrative[cut]) {
			cut--
		}
		narrative = narrative[:cut]
	}
	return narrative + TruncationMarker + strings.Join(blocks, "")
}

func renderBlocks(p *Payload) []string {
	encode := func(v interface{}) string {
		data, err := json.Marshal(v)
		if err != nil {
			return "[]"
		}
		return string(data)
	}
	contents := map[string]string{
		TagTable:    encode(p.Table),
		TagChart:    encode(p.Chart),
		TagTrend:    encode(p.Trends),
		TagTimeline: encode(p.Timeline),
	}
	blocks := make([]string, 0, len(tagOrder))
	for _, tag := range tagOrder {
		blocks = append(blocks, fmt.Sprintf("\n\n[%s]%s[/%s]", tag, contents[tag], tag))
	}
	return blocks
}

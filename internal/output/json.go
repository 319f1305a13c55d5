package output

import (
	"encoding/json"
)

// JSONFormatter formats results as JSON Lines (one JSON object per match).
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonMatch is the JSON serialization format for a match line.
type jsonMatch struct {
	Type       string    `json:"type"`
	File       string    `json:"file,omitempty"`
	LineNum    int       `json:"line_number"`
	ByteOffset int64     `json:"byte_offset"`
	Text       string    `json:"text"`
	Matches    []jsonPos `json:"matches,omitempty"`
}

type jsonPos struct {
	Start   int   `json:"start"`
	End     int   `json:"end"`
	Payload int64 `json:"payload,omitempty"`
}

func (f *JSONFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	ms := &result.MatchSet
	if len(ms.Matches) == 0 {
		return buf
	}

	for i, m := range ms.Matches {
		if m.IsContext {
			continue
		}
		jm := jsonMatch{
			Type:       "match",
			File:       result.FilePath,
			LineNum:    m.LineNum,
			ByteOffset: m.ByteOffset,
			Text:       string(ms.LineBytes(i)),
		}
		positions := ms.MatchPositions(i)
		payloads := ms.MatchPayloads(i)
		if len(positions) > 0 {
			jm.Matches = make([]jsonPos, len(positions))
			for j, pos := range positions {
				jm.Matches[j] = jsonPos{Start: pos[0], End: pos[1], Payload: payloads[j]}
			}
		}
		data, _ := json.Marshal(jm)
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}
	return buf
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

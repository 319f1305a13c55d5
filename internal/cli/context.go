package cli

import (
	"bytes"

	"github.com/dl/ahogrep/internal/output"
)

// ContextMatcher wraps an output.Matcher and adds context lines (before/after).
type ContextMatcher struct {
	inner  output.Matcher
	before int
	after  int
}

// NewContextMatcher wraps an existing matcher to add context lines.
// If both before and after are 0, returns the inner matcher directly.
func NewContextMatcher(inner output.Matcher, before, after int) output.Matcher {
	if before == 0 && after == 0 {
		return inner
	}
	return &ContextMatcher{inner: inner, before: before, after: after}
}

func (m *ContextMatcher) MatchExists(data []byte) bool {
	return m.inner.MatchExists(data)
}

func (m *ContextMatcher) CountAll(data []byte) int {
	return m.inner.CountAll(data)
}

func (m *ContextMatcher) FindAll(data []byte) output.MatchSet {
	var lines [][]byte
	var offsets []int64
	var offset int64

	remaining := data
	for len(remaining) > 0 {
		idx := bytes.IndexByte(remaining, '\n')
		var line []byte
		if idx >= 0 {
			line = remaining[:idx]
			remaining = remaining[idx+1:]
		} else {
			line = remaining
			remaining = nil
		}
		lines = append(lines, line)
		offsets = append(offsets, offset)
		offset += int64(len(line)) + 1
	}

	matchedLines := make(map[int]output.MatchSet)
	for i, line := range lines {
		if ms, ok := m.inner.FindLine(line, i+1, offsets[i]); ok {
			matchedLines[i] = ms
		}
	}
	if len(matchedLines) == 0 {
		return output.MatchSet{}
	}

	include := make(map[int]bool)
	for idx := range matchedLines {
		for i := idx - m.before; i <= idx+m.after; i++ {
			if i >= 0 && i < len(lines) {
				include[i] = true
			}
		}
	}

	result := output.MatchSet{Data: data}
	lastIncluded := -2

	for i := 0; i < len(lines); i++ {
		if !include[i] {
			continue
		}

		if lastIncluded >= 0 && i > lastIncluded+1 && len(result.Matches) > 0 {
			result.Matches = append(result.Matches, output.Match{IsContext: true})
		}

		if ms, isMatch := matchedLines[i]; isMatch {
			hitMatch := ms.Matches[0]
			base := len(result.Positions)
			for j := 0; j < hitMatch.PosCount; j++ {
				pos := ms.Positions[hitMatch.PosIdx+j]
				result.Positions = append(result.Positions, pos)
				result.Payloads = append(result.Payloads, ms.Payloads[hitMatch.PosIdx+j])
			}
			hitMatch.LineStart = int(offsets[i])
			hitMatch.LineLen = len(lines[i])
			hitMatch.PosIdx = base
			result.Matches = append(result.Matches, hitMatch)
		} else {
			result.Matches = append(result.Matches, output.Match{
				LineNum:    i + 1,
				LineStart:  int(offsets[i]),
				LineLen:    len(lines[i]),
				ByteOffset: offsets[i],
				IsContext:  true,
			})
		}

		lastIncluded = i
	}

	return result
}

func (m *ContextMatcher) FindLine(line []byte, lineNum int, byteOffset int64) (output.MatchSet, bool) {
	return m.inner.FindLine(line, lineNum, byteOffset)
}

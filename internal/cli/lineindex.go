package cli

import (
	"bytes"

	"github.com/dl/ahogrep/internal/output"
)

// lineCursor tracks position while scanning forward through data for line
// boundaries. Matches must be processed in sorted (ascending) order by
// Start. For nearby advances it walks line-by-line; for large gaps it
// jumps directly to the target position using backward/forward scans plus
// newline counting.
type lineCursor struct {
	data      []byte
	lineNum   int // 1-based line number at lineStart
	lineStart int // byte offset of current line start
	lineEnd   int // byte offset of current line end (position of \n, or len(data))
}

var newlineByte = []byte{'\n'}

func newLineCursor(data []byte) lineCursor {
	end := len(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		end = i
	}
	return lineCursor{data: data, lineNum: 1, lineStart: 0, lineEnd: end}
}

// lineFromPos advances the cursor to the line containing pos and returns
// the line bytes, the line's byte offset, and its 1-based line number.
func (c *lineCursor) lineFromPos(pos int) ([]byte, int64, int) {
	if pos < c.lineEnd {
		return c.data[c.lineStart:c.lineEnd], int64(c.lineStart), c.lineNum
	}

	if pos-c.lineEnd <= 256 {
		for pos >= c.lineEnd && c.lineEnd < len(c.data) {
			c.lineStart = c.lineEnd + 1
			c.lineNum++
			if i := bytes.IndexByte(c.data[c.lineStart:], '\n'); i >= 0 {
				c.lineEnd = c.lineStart + i
			} else {
				c.lineEnd = len(c.data)
			}
		}
		return c.data[c.lineStart:c.lineEnd], int64(c.lineStart), c.lineNum
	}

	gapStart := c.lineEnd
	c.lineNum += bytes.Count(c.data[gapStart:pos], newlineByte)

	start := c.lineStart
	if pos > 0 {
		if i := bytes.LastIndexByte(c.data[gapStart:pos], '\n'); i >= 0 {
			start = gapStart + i + 1
		}
	}

	end := len(c.data)
	if i := bytes.IndexByte(c.data[pos:], '\n'); i >= 0 {
		end = pos + i
	}

	c.lineStart = start
	c.lineEnd = end
	return c.data[c.lineStart:c.lineEnd], int64(c.lineStart), c.lineNum
}

// groupMatchesByLine turns a list of byte-range matches, sorted ascending
// by Start, into a MatchSet with one output.Match per matching line.
// Multiple hits landing on the same line are folded into a single
// output.Match whose Positions/Payloads span multiple entries.
func groupMatchesByLine(data []byte, hits []searchHit) output.MatchSet {
	if len(hits) == 0 {
		return output.MatchSet{Data: data}
	}

	ms := output.MatchSet{Data: data}
	cur := newLineCursor(data)

	curLineNum := -1
	var curMatch *output.Match

	for _, h := range hits {
		line, lineStart, lineNum := cur.lineFromPos(h.Start)
		relStart := h.Start - int(lineStart)
		relEnd := h.End - int(lineStart)
		if relEnd > len(line) {
			relEnd = len(line)
		}

		if lineNum != curLineNum {
			ms.Matches = append(ms.Matches, output.Match{
				LineNum:    lineNum,
				LineStart:  int(lineStart),
				LineLen:    len(line),
				ByteOffset: lineStart,
				PosIdx:     len(ms.Positions),
			})
			curMatch = &ms.Matches[len(ms.Matches)-1]
			curLineNum = lineNum
		}

		ms.Positions = append(ms.Positions, [2]int{relStart, relEnd})
		ms.Payloads = append(ms.Payloads, h.Payload)
		curMatch.PosCount++
	}

	return ms
}

// searchHit is the engine-agnostic byte-range match the Aho-Corasick
// backends report, decoupled from the ahocorasick package so this file
// has a single, stable input shape regardless of which backend produced it.
type searchHit struct {
	Start, End int
	Payload    int64
}

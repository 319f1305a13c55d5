package cli

import (
	"github.com/dl/ahogrep"
	"github.com/dl/ahogrep/internal/output"
)

// automaton is the subset of ahocorasick.Trie/ahocorasick.Mapped that
// SearchEngine needs. Both backends satisfy it, so the CLI never has to
// care whether keywords were compiled in-process or loaded from a
// serialized index.
type automaton interface {
	FindAllShortest(data []byte) []ahocorasick.Match
	FindAllLongest(data []byte) []ahocorasick.Match
	FindAllAnchored(data []byte) []ahocorasick.Match
}

// SearchEngine adapts a compiled Aho-Corasick automaton to output.Matcher,
// applying the configured match policy and optional case folding.
type SearchEngine struct {
	eng        automaton
	policy     SearchPolicy
	ignoreCase bool
}

// NewSearchEngine builds a SearchEngine over the given automaton.
func NewSearchEngine(eng automaton, policy SearchPolicy, ignoreCase bool) *SearchEngine {
	return &SearchEngine{eng: eng, policy: policy, ignoreCase: ignoreCase}
}

func (e *SearchEngine) find(data []byte) []ahocorasick.Match {
	scan := data
	if e.ignoreCase {
		scan = asciiLower(data)
	}
	switch e.policy {
	case PolicyShortest:
		return e.eng.FindAllShortest(scan)
	case PolicyAnchored:
		return e.eng.FindAllAnchored(scan)
	default:
		return e.eng.FindAllLongest(scan)
	}
}

func toHits(raw []ahocorasick.Match) []searchHit {
	if len(raw) == 0 {
		return nil
	}
	hits := make([]searchHit, len(raw))
	for i, m := range raw {
		hits[i] = searchHit{Start: m.Start, End: m.End, Payload: m.Payload}
	}
	return hits
}

// FindAll implements output.Matcher.
func (e *SearchEngine) FindAll(data []byte) output.MatchSet {
	return groupMatchesByLine(data, toHits(e.find(data)))
}

// MatchExists implements output.Matcher.
func (e *SearchEngine) MatchExists(data []byte) bool {
	return len(e.find(data)) > 0
}

// CountAll implements output.Matcher, counting matching lines rather than
// raw hits (a line with three keyword hits still counts once).
func (e *SearchEngine) CountAll(data []byte) int {
	raw := e.find(data)
	if len(raw) == 0 {
		return 0
	}
	cur := newLineCursor(data)
	count := 0
	lastLine := -1
	for _, m := range raw {
		_, _, lineNum := cur.lineFromPos(m.Start)
		if lineNum != lastLine {
			count++
			lastLine = lineNum
		}
	}
	return count
}

// FindLine implements output.Matcher for a single already-split line.
func (e *SearchEngine) FindLine(line []byte, lineNum int, byteOffset int64) (output.MatchSet, bool) {
	raw := e.find(line)
	if len(raw) == 0 {
		return output.MatchSet{}, false
	}
	ms := output.MatchSet{Data: line}
	m := output.Match{
		LineNum:    lineNum,
		LineStart:  0,
		LineLen:    len(line),
		ByteOffset: byteOffset,
		PosIdx:     0,
		PosCount:   len(raw),
	}
	for _, r := range raw {
		ms.Positions = append(ms.Positions, [2]int{r.Start, r.End})
		ms.Payloads = append(ms.Payloads, r.Payload)
	}
	ms.Matches = []output.Match{m}
	return ms, true
}

// asciiLower returns a lowercased copy of data; only ASCII A-Z is folded,
// matching the byte-oriented nature of the automaton (keywords are
// lowercased the same way at build time when IgnoreCase is set).
func asciiLower(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out[i] = b
	}
	return out
}

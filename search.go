package ahocorasick

// anchorByte is the unit-separator byte (0x1F) used as a token boundary
// marker by FindAllAnchored. It is a caller convention, not something
// this package inserts automatically: callers that want whole-token
// matching wrap both their keywords and their haystack tokens in 0x1F.
const anchorByte byte = 0x1F

// Match describes one reported occurrence of a keyword in the haystack.
type Match struct {
	Start   int   // byte offset of the first matched byte
	End     int   // byte offset one past the last matched byte
	Payload int64 // payload attached to the matched keyword
}

// automaton abstracts over the two node storage backends that can back
// a Searcher: an in-memory slice built by Builder.Compile, or a
// mmap'd byte image opened by OpenMapped. Every search algorithm in
// this file is written once against this interface so Trie and Mapped
// share identical match semantics.
type automaton interface {
	nodeCount() int
	depth(id int32) int32
	fail(id int32) int32
	firstOutput(id int32) int32
	shortestOutput(id int32) int32
	lengthHint(id int32) int32
	payload(id int32) int64
	childLiteral(id int32, b byte) (int32, bool)
}

// step performs a full automaton transition from state on byte c,
// following failure links until a literal edge (or the root) is found.
// Amortized O(1) thanks to the compiled failure links.
func step(a automaton, state int32, c byte) int32 {
	for {
		if next, ok := a.childLiteral(state, c); ok {
			return next
		}
		if state == 0 {
			return 0
		}
		state = a.fail(state)
	}
}

func makeMatch(a automaton, node int32, end int) Match {
	return Match{
		Start:   end - int(a.depth(node)),
		End:     end,
		Payload: a.payload(node),
	}
}

// findShortest returns the first shortest-match occurrence at or after
// start, or ok=false if none exists. Scanning restarts from root at
// start; unlike findAllShortest it returns on the first hit rather than
// continuing to the end of data.
func findShortest(a automaton, data []byte, start int) (Match, bool) {
	state := int32(0)
	for p := start; p < len(data); p++ {
		state = step(a, state, data[p])
		if so := a.shortestOutput(state); so != noChild {
			return makeMatch(a, so, p+1), true
		}
	}
	return Match{}, false
}

// findLongest returns the first longest-match occurrence at or after
// start, or ok=false if none exists. Same commit rule as findAllLongest
// (longestCandidate's goto-only descent, committing to the best
// terminal actually reached), but stops at the first commit instead of
// continuing the scan.
func findLongest(a automaton, data []byte, start int) (Match, bool) {
	state := int32(0)
	n := len(data)
	for i := start; i < n; {
		state = step(a, state, data[i])
		i++
		if a.firstOutput(state) == noChild {
			continue
		}
		best, bestEnd := longestCandidate(a, data, state, i)
		return makeMatch(a, best, bestEnd), true
	}
	return Match{}, false
}

// findAllShortest reports the shortest keyword among those sharing an
// end position (per the failure-chain rule: the shallowest reportable
// state dominates), left to right and non-overlapping: after a hit
// ending at j, the automaton resets to root and the next search resumes
// at j, exactly like findShortest's own restart-at-j-with-state-root
// rule applied repeatedly.
func findAllShortest(a automaton, data []byte) []Match {
	var matches []Match
	state := int32(0)
	n := len(data)
	for i := 0; i < n; {
		state = step(a, state, data[i])
		i++
		so := a.shortestOutput(state)
		if so == noChild {
			continue
		}
		matches = append(matches, makeMatch(a, so, i))
		state = 0
	}
	return matches
}

// longestCandidate runs the shared candidate-then-goto-extension walk
// used by both findAllLongest and findAllAnchored: starting from the
// state reached after consuming data[pos-1], it greedily extends via
// literal edges only (never failure links) as long as lengthHint
// promises a longer completed keyword is still reachable, tracking the
// best (longest) terminal seen along the way. The walk itself may run
// past the committed match (chasing a longer keyword that never
// completes); callers resume scanning at the committed end, not at
// wherever this descent died, so only the winning node/end are
// returned.
func longestCandidate(a automaton, data []byte, startState int32, pos int) (node int32, end int) {
	best := a.firstOutput(startState)
	bestEnd := pos
	state := startState
	j := pos
	n := len(data)
	for j < n && a.lengthHint(state) > a.depth(best) {
		child, ok := a.childLiteral(state, data[j])
		if !ok {
			break
		}
		state = child
		j++
		if fo := a.firstOutput(state); fo != noChild && a.depth(fo) > a.depth(best) {
			best = fo
			bestEnd = j
		}
	}
	return best, bestEnd
}

// findAllLongest scans data once, reporting the longest keyword
// completed at each non-overlapping match region. When a keyword is a
// prefix of a longer one that continues to match literally (e.g.
// "cisco" inside "cisco systems australia"), only the longer keyword is
// reported; shorter keywords that happen to be substrings of the
// eventual match (e.g. "em" inside "systems") are suppressed in favor
// of the longest completed keyword.
//
// After a commit, scanning resumes at the matched end position with the
// automaton reset to root, not wherever longestCandidate's goto-only
// descent stopped. Those can differ: the descent keeps walking literal
// edges chasing a longer keyword that may never complete (e.g. "cisco
// systems" against keywords "cisco"/"em"/"cisco systems australia" —
// the descent runs to the end of the input without "cisco systems
// australia" ever completing), and resuming from the descent's dead end
// would skip over any shorter keyword (here "em" in "systems") whose
// start falls inside the abandoned region.
func findAllLongest(a automaton, data []byte) []Match {
	var matches []Match
	state := int32(0)
	n := len(data)
	for i := 0; i < n; {
		state = step(a, state, data[i])
		i++
		if a.firstOutput(state) == noChild {
			continue
		}
		best, bestEnd := longestCandidate(a, data, state, i)
		matches = append(matches, makeMatch(a, best, bestEnd))
		state = 0
		i = bestEnd
	}
	return matches
}

// findAllAnchored behaves like findAllLongest but additionally requires
// that the matched region be delimited by anchorByte (0x1F) on both
// sides, implementing whole-token matching over an AC automaton built
// from ordinary substring keywords. A candidate that fails the boundary
// check is discarded, the automaton resets to the root, and scanning
// resumes immediately after the candidate's start byte so a shorter
// anchored candidate beginning one byte later is not skipped. A
// candidate that passes the boundary check resumes at its end (root
// state), same as findAllLongest, for the same reason: the goto-only
// descent inside longestCandidate may have run past the committed match
// chasing a longer keyword that never completed.
func findAllAnchored(a automaton, data []byte) []Match {
	var matches []Match
	state := int32(0)
	n := len(data)
	for i := 0; i < n; {
		state = step(a, state, data[i])
		i++
		if a.firstOutput(state) == noChild {
			continue
		}
		best, bestEnd := longestCandidate(a, data, state, i)
		start := bestEnd - int(a.depth(best))
		boundaryOK := start > 0 && data[start-1] == anchorByte &&
			bestEnd < n && data[bestEnd] == anchorByte
		if boundaryOK {
			matches = append(matches, makeMatch(a, best, bestEnd))
			state = 0
			i = bestEnd
			continue
		}
		state = 0
		i = start + 1
	}
	return matches
}

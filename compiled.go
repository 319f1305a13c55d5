package ahocorasick

// inMemoryStore is the automaton backend produced by Builder.Compile:
// a plain Go slice of compiledNode, one per automaton state.
type inMemoryStore struct {
	nodes []compiledNode
}

func (s *inMemoryStore) nodeCount() int                  { return len(s.nodes) }
func (s *inMemoryStore) depth(id int32) int32            { return s.nodes[id].depth }
func (s *inMemoryStore) fail(id int32) int32             { return s.nodes[id].fail }
func (s *inMemoryStore) firstOutput(id int32) int32      { return s.nodes[id].firstOutput }
func (s *inMemoryStore) shortestOutput(id int32) int32   { return s.nodes[id].shortestOutput }
func (s *inMemoryStore) lengthHint(id int32) int32       { return s.nodes[id].lengthHint }
func (s *inMemoryStore) payload(id int32) int64          { return s.nodes[id].payload }
func (s *inMemoryStore) childLiteral(id int32, b byte) (int32, bool) {
	return s.nodes[id].childLiteral(b)
}

// Trie is an immutable, compiled Aho-Corasick automaton held entirely
// in process memory. The zero value is not usable; obtain one via
// Builder.Compile (Open returns a *Mapped instead). A *Trie is safe for
// unlimited concurrent readers.
type Trie struct {
	store *inMemoryStore
}

// NodesCount returns the number of automaton states.
func (t *Trie) NodesCount() int { return t.store.nodeCount() }

// ChildrenCount returns the total number of literal trie edges.
func (t *Trie) ChildrenCount() int {
	n := 0
	for i := range t.store.nodes {
		node := &t.store.nodes[i]
		if node.dense != nil {
			for _, c := range node.dense {
				if c != noChild {
					n++
				}
			}
		} else {
			n += len(node.sparse)
		}
	}
	return n
}

// FindShortest returns the first shortest-match occurrence at or after
// start, or ok=false if none exists. See findShortest for the exact
// rule.
func (t *Trie) FindShortest(data []byte, start int) (Match, bool) {
	return findShortest(t.store, data, start)
}

// FindLongest returns the first longest-match occurrence at or after
// start, or ok=false if none exists. See findLongest for the exact
// rule.
func (t *Trie) FindLongest(data []byte, start int) (Match, bool) {
	return findLongest(t.store, data, start)
}

// FindAllShortest scans left to right without overlap, reporting at each
// hit the shortest keyword among those ending there and resuming at that
// hit's end. See findAllShortest for the exact rule.
func (t *Trie) FindAllShortest(data []byte) []Match { return findAllShortest(t.store, data) }

// FindAllLongest reports the longest non-overlapping keyword completed
// at each match region. See findAllLongest for the exact rule.
func (t *Trie) FindAllLongest(data []byte) []Match { return findAllLongest(t.store, data) }

// FindAllAnchored behaves like FindAllLongest but only reports matches
// bounded on both sides by anchorByte (0x1F). See findAllAnchored.
func (t *Trie) FindAllAnchored(data []byte) []Match { return findAllAnchored(t.store, data) }

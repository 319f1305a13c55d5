package ahocorasick

import "fmt"

// Builder accumulates keywords and their integer payloads before a
// single Compile call produces an immutable, search-ready Trie.
// A Builder is not safe for concurrent use; Compile is meant to run
// once, single-threaded, ahead of any concurrent searching.
type Builder struct {
	nodes    []buildNode
	compiled bool
	count    int
}

// NewBuilder returns an empty Builder with just a root state.
func NewBuilder() *Builder {
	return &Builder{nodes: []buildNode{{}}}
}

// Add inserts keyword with the given payload. Re-adding an existing
// keyword overwrites its payload (dict-style "set"), matching Set.
// Returns ErrEmptyKeyword for a zero-length keyword and
// ErrAlreadyCompiled once Compile has run.
func (b *Builder) Add(keyword []byte, payload int64) error {
	if b.compiled {
		return ErrAlreadyCompiled
	}
	if len(keyword) == 0 {
		return ErrEmptyKeyword
	}
	cur := int32(0)
	for _, c := range keyword {
		next, ok := b.nodes[cur].find(c)
		if !ok {
			b.nodes = append(b.nodes, buildNode{})
			next = int32(len(b.nodes) - 1)
			b.nodes[cur].set(c, next)
		}
		cur = next
	}
	if !b.nodes[cur].terminal {
		b.count++
	}
	b.nodes[cur].terminal = true
	b.nodes[cur].length = int32(len(keyword))
	b.nodes[cur].payload = payload
	return nil
}

// Set is an alias for Add kept for callers that think in dict terms
// (keyword -> payload) rather than trie-insertion terms.
func (b *Builder) Set(keyword []byte, payload int64) error {
	return b.Add(keyword, payload)
}

// Get returns the payload for keyword and whether it has been added.
func (b *Builder) Get(keyword []byte) (int64, bool) {
	n, ok := b.walk(keyword)
	if !ok || !b.nodes[n].terminal {
		return 0, false
	}
	return b.nodes[n].payload, true
}

// Contains reports whether keyword was added.
func (b *Builder) Contains(keyword []byte) bool {
	n, ok := b.walk(keyword)
	return ok && b.nodes[n].terminal
}

func (b *Builder) walk(keyword []byte) (int32, bool) {
	cur := int32(0)
	for _, c := range keyword {
		next, ok := b.nodes[cur].find(c)
		if !ok {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// Len returns the number of distinct keywords added so far.
func (b *Builder) Len() int {
	return b.count
}

// NodesCount returns the number of trie states allocated so far
// (including the root), a diagnostic mirrored from the reference
// implementation's construction counters.
func (b *Builder) NodesCount() int {
	return len(b.nodes)
}

// ChildrenCount returns the total number of literal trie edges
// allocated so far.
func (b *Builder) ChildrenCount() int {
	n := 0
	for i := range b.nodes {
		n += len(b.nodes[i].edges)
	}
	return n
}

// Compile builds failure links, output links and length hints over the
// accumulated trie and returns an immutable Trie ready for concurrent
// searching. The Builder itself becomes unusable for further Add/Set
// calls; Compile must not be called more than once.
func (b *Builder) Compile() (*Trie, error) {
	if b.compiled {
		return nil, ErrAlreadyCompiled
	}
	b.compiled = true

	n := len(b.nodes)
	depth := make([]int32, n)
	fail := make([]int32, n)
	order := make([]int32, 0, n) // BFS order, root first

	// BFS assigns depth and fail links. Root's own fail is itself.
	queue := make([]int32, 0, n)
	queue = append(queue, 0)
	order = append(order, 0)
	for qi := 0; qi < len(queue); qi++ {
		cur := queue[qi]
		for _, e := range b.nodes[cur].edges {
			child := e.child
			depth[child] = depth[cur] + 1
			if cur == 0 {
				fail[child] = 0
			} else {
				f := fail[cur]
				for {
					if nf, ok := b.nodes[f].find(e.b); ok {
						fail[child] = nf
						break
					}
					if f == 0 {
						fail[child] = 0
						break
					}
					f = fail[f]
				}
			}
			queue = append(queue, child)
			order = append(order, child)
		}
	}

	firstOutput := make([]int32, n)
	shortestOutput := make([]int32, n)
	for _, v := range order {
		if v == 0 {
			firstOutput[v] = noChild
			shortestOutput[v] = noChild
			continue
		}
		if b.nodes[v].terminal {
			firstOutput[v] = v
		} else {
			firstOutput[v] = firstOutput[fail[v]]
		}
		if shortestOutput[fail[v]] != noChild {
			shortestOutput[v] = shortestOutput[fail[v]]
		} else if b.nodes[v].terminal {
			shortestOutput[v] = v
		} else {
			shortestOutput[v] = noChild
		}
	}

	lengthHint := make([]int32, n)
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		h := int32(0)
		if b.nodes[v].terminal {
			h = depth[v]
		}
		for _, e := range b.nodes[v].edges {
			if lengthHint[e.child] > h {
				h = lengthHint[e.child]
			}
		}
		lengthHint[v] = h
	}

	nodes := make([]compiledNode, n)
	for i := range b.nodes {
		bn := &b.nodes[i]
		cn := compiledNode{
			fail:           fail[i],
			depth:          depth[i],
			firstOutput:    firstOutput[i],
			shortestOutput: shortestOutput[i],
			lengthHint:     lengthHint[i],
			terminal:       bn.terminal,
			payload:        bn.payload,
		}
		if len(bn.edges) >= denseThreshold {
			dense := make([]int32, 256)
			for j := range dense {
				dense[j] = noChild
			}
			for _, e := range bn.edges {
				dense[e.b] = e.child
			}
			cn.dense = dense
		} else if len(bn.edges) > 0 {
			sparse := make([]edge, len(bn.edges))
			copy(sparse, bn.edges)
			insertionSortEdges(sparse)
			cn.sparse = sparse
		}
		nodes[i] = cn
	}

	return &Trie{store: &inMemoryStore{nodes: nodes}}, nil
}

func insertionSortEdges(e []edge) {
	for i := 1; i < len(e); i++ {
		for j := i; j > 0 && e[j-1].b > e[j].b; j-- {
			e[j-1], e[j] = e[j], e[j-1]
		}
	}
}

func (b *Builder) String() string {
	return fmt.Sprintf("ahocorasick.Builder{keywords: %d, nodes: %d}", b.count, len(b.nodes))
}

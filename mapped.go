package ahocorasick

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mappedStore decodes automaton state directly out of a byte image
// (either mmap'd or read fully into memory), without ever materializing
// a compiledNode slice. Every method does a handful of bounds-checked
// slice reads; there is no copy of node data beyond what the caller
// already holds in image.
type mappedStore struct {
	nodeTable  []byte
	childTable []byte
	count      int
}

func newMappedStore(buf []byte) (*mappedStore, error) {
	h, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	nodeTableEnd := headerSize + int(h.nodeCount)*nodeRecSize
	childTableEnd := nodeTableEnd + int(h.childTableLen)
	if len(buf) < childTableEnd {
		return nil, ErrInvalidImage
	}
	return &mappedStore{
		nodeTable:  buf[headerSize:nodeTableEnd],
		childTable: buf[nodeTableEnd:childTableEnd],
		count:      int(h.nodeCount),
	}, nil
}

func (s *mappedStore) record(id int32) nodeRecord {
	off := int(id) * nodeRecSize
	return decodeNodeRecord(s.nodeTable[off : off+nodeRecSize])
}

func (s *mappedStore) nodeCount() int                { return s.count }
func (s *mappedStore) depth(id int32) int32          { return s.record(id).depth }
func (s *mappedStore) fail(id int32) int32           { return s.record(id).fail }
func (s *mappedStore) firstOutput(id int32) int32    { return s.record(id).firstOutput }
func (s *mappedStore) shortestOutput(id int32) int32 { return s.record(id).shortestOutput }
func (s *mappedStore) lengthHint(id int32) int32     { return s.record(id).lengthHint }
func (s *mappedStore) payload(id int32) int64        { return s.record(id).payload }

func (s *mappedStore) childLiteral(id int32, b byte) (int32, bool) {
	rec := s.record(id)
	switch rec.childMode {
	case childModeDense:
		off := int(rec.childOffset) + 4*int(b)
		c := int32(binary.LittleEndian.Uint32(s.childTable[off : off+4]))
		if c == noChild {
			return noChild, false
		}
		return c, true
	case childModeSparse:
		lo, hi := 0, int(rec.childCount)
		base := int(rec.childOffset)
		for lo < hi {
			mid := (lo + hi) / 2
			eb := s.childTable[base+mid*sparseEdgeSize]
			if eb < b {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < int(rec.childCount) {
			eoff := base + lo*sparseEdgeSize
			if s.childTable[eoff] == b {
				return int32(binary.LittleEndian.Uint32(s.childTable[eoff+4 : eoff+8])), true
			}
		}
		return noChild, false
	default:
		return noChild, false
	}
}

// Mapped is a zero-copy view over a serialized automaton image, backed
// either by an mmap'd file (OpenMapped) or an in-memory byte slice.
// Like Trie, it is safe for unlimited concurrent readers once opened;
// Close is idempotent.
type Mapped struct {
	store  *mappedStore
	region []byte // non-nil only when backed by a real mmap, for munmap
	closed bool
}

// NodesCount returns the number of automaton states.
func (m *Mapped) NodesCount() int { return m.store.nodeCount() }

// FindShortest mirrors Trie.FindShortest over the mapped image.
func (m *Mapped) FindShortest(data []byte, start int) (Match, bool) {
	return findShortest(m.store, data, start)
}

// FindLongest mirrors Trie.FindLongest over the mapped image.
func (m *Mapped) FindLongest(data []byte, start int) (Match, bool) {
	return findLongest(m.store, data, start)
}

// FindAllShortest mirrors Trie.FindAllShortest over the mapped image.
func (m *Mapped) FindAllShortest(data []byte) []Match { return findAllShortest(m.store, data) }

// FindAllLongest mirrors Trie.FindAllLongest over the mapped image.
func (m *Mapped) FindAllLongest(data []byte) []Match { return findAllLongest(m.store, data) }

// FindAllAnchored mirrors Trie.FindAllAnchored over the mapped image.
func (m *Mapped) FindAllAnchored(data []byte) []Match { return findAllAnchored(m.store, data) }

// Close unmaps the backing region, if any. Calling Close more than
// once, or on a Mapped built from an in-memory byte slice, is a no-op.
func (m *Mapped) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.region != nil {
		return unix.Munmap(m.region)
	}
	return nil
}

// OpenMapped mmaps path and returns a zero-copy view over its
// automaton image. The header (magic, BOM) and the file's length
// against the declared node and child tables are checked before any
// node is reachable, and a file that fails them yields ErrInvalidImage.
// Child offsets and state ids inside the node records are not checked.
func OpenMapped(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ahocorasick: open mapped: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("ahocorasick: stat mapped: %w", err)
	}
	size := st.Size()
	if size < headerSize {
		return nil, ErrInvalidImage
	}

	region, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("ahocorasick: mmap: %w", err)
	}
	_ = unix.Madvise(region, unix.MADV_RANDOM)

	store, err := newMappedStore(region)
	if err != nil {
		_ = unix.Munmap(region)
		return nil, err
	}
	return &Mapped{store: store, region: region}, nil
}

// Open reads path fully into memory and returns a zero-copy view over
// that in-memory image, without mmap. Useful for small indexes or
// filesystems where mmap is unavailable; OpenMapped is preferred for
// large indexes shared across many processes.
func Open(path string) (*Mapped, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ahocorasick: open: %w", err)
	}
	if len(buf) < headerSize {
		return nil, ErrInvalidImage
	}
	store, err := newMappedStore(buf)
	if err != nil {
		return nil, err
	}
	return &Mapped{store: store}, nil
}

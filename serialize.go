package ahocorasick

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

const formatVersion = 1

// buildImage serializes t into the three on-disk regions described in
// format.go: header, node table, child table.
func (t *Trie) buildImage() (hdr, nodeTable, childTable []byte) {
	n := len(t.store.nodes)
	nodeTable = make([]byte, n*nodeRecSize)

	var childTableBuf []byte
	for i := range t.store.nodes {
		node := &t.store.nodes[i]
		rec := nodeRecord{
			fail:           node.fail,
			depth:          node.depth,
			firstOutput:    node.firstOutput,
			shortestOutput: node.shortestOutput,
			lengthHint:     node.lengthHint,
			payload:        node.payload,
			terminal:       node.terminal,
		}
		switch {
		case node.dense != nil:
			rec.childMode = childModeDense
			rec.childOffset = uint32(len(childTableBuf))
			rec.childCount = uint32(len(node.dense))
			tmp := make([]byte, 4*len(node.dense))
			for j, c := range node.dense {
				putInt32(tmp[j*4:], c)
			}
			childTableBuf = append(childTableBuf, tmp...)
		case len(node.sparse) > 0:
			rec.childMode = childModeSparse
			rec.childOffset = uint32(len(childTableBuf))
			rec.childCount = uint32(len(node.sparse))
			tmp := make([]byte, sparseEdgeSize*len(node.sparse))
			for j, e := range node.sparse {
				off := j * sparseEdgeSize
				tmp[off] = e.b
				putInt32(tmp[off+4:], e.child)
			}
			childTableBuf = append(childTableBuf, tmp...)
		default:
			rec.childMode = childModeEmpty
		}
		encodeNodeRecord(nodeTable[i*nodeRecSize:(i+1)*nodeRecSize], rec)
	}

	hdr = make([]byte, headerSize)
	encodeHeader(hdr, header{
		bom:           bom,
		version:       formatVersion,
		nodeCount:     uint32(n),
		childTableLen: uint32(len(childTableBuf)),
	})
	return hdr, nodeTable, childTableBuf
}

func putInt32(b []byte, v int32) {
	u := uint32(v)
	b[0] = byte(u)
	b[1] = byte(u >> 8)
	b[2] = byte(u >> 16)
	b[3] = byte(u >> 24)
}

// Write serializes the compiled automaton to w in the format OpenMapped
// and Open expect.
func (t *Trie) Write(w io.Writer) error {
	hdr, nodeTable, childTable := t.buildImage()
	for _, buf := range [][]byte{hdr, nodeTable, childTable} {
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("ahocorasick: write: %w", err)
		}
	}
	return nil
}

// WriteFile serializes the compiled automaton to path in a single
// vectored write syscall, avoiding an extra copy into one contiguous
// buffer for large tries.
func (t *Trie) WriteFile(path string) error {
	hdr, nodeTable, childTable := t.buildImage()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("ahocorasick: write file: %w", err)
	}
	defer f.Close()

	iovecs := make([][]byte, 0, 3)
	for _, buf := range [][]byte{hdr, nodeTable, childTable} {
		if len(buf) > 0 {
			iovecs = append(iovecs, buf)
		}
	}
	if _, err := unix.Writev(int(f.Fd()), iovecs); err != nil {
		return fmt.Errorf("ahocorasick: writev: %w", err)
	}
	return nil
}

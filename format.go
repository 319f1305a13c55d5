package ahocorasick

import "encoding/binary"

// On-disk layout:
//
//	header            headerSize bytes
//	node table        nodeCount * nodeRecordSize bytes
//	child table       variable, referenced by each node's childOffset
//
// All multi-byte integers are little-endian. The node table and child
// table are both addressed by byte offset so OpenMapped can overlay the
// mmap'd file directly without copying: every read below is a bounds
// checked slice + binary.LittleEndian decode against the mapped bytes.
const (
	magic       = "AHOCRSK1"
	bom         = uint16(0xFEFF)
	headerSize  = 24
	nodeRecSize = 40

	childModeEmpty  = 0
	childModeSparse = 1
	childModeDense  = 2

	sparseEdgeSize = 8 // 1 byte label + 3 pad + int32 child id
)

// header mirrors the fixed file preamble.
type header struct {
	bom           uint16
	version       uint16
	nodeCount     uint32
	childTableLen uint32
}

func encodeHeader(buf []byte, h header) {
	copy(buf[0:8], magic)
	binary.LittleEndian.PutUint16(buf[8:10], h.bom)
	binary.LittleEndian.PutUint16(buf[10:12], h.version)
	binary.LittleEndian.PutUint32(buf[12:16], h.nodeCount)
	binary.LittleEndian.PutUint32(buf[16:20], h.childTableLen)
	// buf[20:24] reserved, left zero.
}

func decodeHeader(buf []byte) (header, error) {
	if len(buf) < headerSize || string(buf[0:8]) != magic {
		return header{}, ErrInvalidImage
	}
	h := header{
		bom:           binary.LittleEndian.Uint16(buf[8:10]),
		version:       binary.LittleEndian.Uint16(buf[10:12]),
		nodeCount:     binary.LittleEndian.Uint32(buf[12:16]),
		childTableLen: binary.LittleEndian.Uint32(buf[16:20]),
	}
	if h.bom != bom {
		return header{}, ErrInvalidImage
	}
	return h, nil
}

// nodeRecord is the fixed-width on-disk shape of one compiledNode,
// everything except its edges (which live in the child table).
type nodeRecord struct {
	fail           int32
	depth          int32
	firstOutput    int32
	shortestOutput int32
	lengthHint     int32
	payload        int64
	terminal       bool
	childMode      byte
	childOffset    uint32
	childCount     uint32
}

func encodeNodeRecord(buf []byte, r nodeRecord) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.fail))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(r.depth))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(r.firstOutput))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(r.shortestOutput))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(r.lengthHint))
	binary.LittleEndian.PutUint64(buf[20:28], uint64(r.payload))
	if r.terminal {
		buf[28] = 1
	} else {
		buf[28] = 0
	}
	buf[29] = r.childMode
	// buf[30:32] padding.
	binary.LittleEndian.PutUint32(buf[32:36], r.childOffset)
	binary.LittleEndian.PutUint32(buf[36:40], r.childCount)
}

func decodeNodeRecord(buf []byte) nodeRecord {
	return nodeRecord{
		fail:           int32(binary.LittleEndian.Uint32(buf[0:4])),
		depth:          int32(binary.LittleEndian.Uint32(buf[4:8])),
		firstOutput:    int32(binary.LittleEndian.Uint32(buf[8:12])),
		shortestOutput: int32(binary.LittleEndian.Uint32(buf[12:16])),
		lengthHint:     int32(binary.LittleEndian.Uint32(buf[16:20])),
		payload:        int64(binary.LittleEndian.Uint64(buf[20:28])),
		terminal:       buf[28] != 0,
		childMode:      buf[29],
		childOffset:    binary.LittleEndian.Uint32(buf[32:36]),
		childCount:     binary.LittleEndian.Uint32(buf[36:40]),
	}
}

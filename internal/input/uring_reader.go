package input

import (
	"fmt"
	"sync"

	"github.com/dl/ahogrep/internal/uring"
)

// URingReader reads files via a single io_uring instance shared across
// calls, one file at a time: openat, statx, read and close are each
// submitted and waited on in their own io_uring_enter call, so a file
// costs four kernel entries and nothing is batched across files. The
// ring itself is not safe for concurrent submission, so calls are
// serialized; callers
// wanting worker-level parallelism should construct one URingReader per
// worker goroutine instead of sharing one.
type URingReader struct {
	mu   sync.Mutex
	ring *uring.Ring
}

// NewURingReader creates a URingReader backed by a fresh io_uring instance.
func NewURingReader() (*URingReader, error) {
	ring, err := uring.NewRing(16)
	if err != nil {
		return nil, fmt.Errorf("io_uring: %w", err)
	}
	return &URingReader{ring: ring}, nil
}

// Close releases the underlying ring.
func (r *URingReader) Close() {
	r.ring.Close()
}

func (r *URingReader) Read(path string) (ReadResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pathBytes := append([]byte(path), 0)

	openSQE := r.ring.GetSQE(0)
	openSQE.PrepOpenat(uring.ATFdCwd(), &pathBytes[0], 0 /*O_RDONLY*/, 0)
	openSQE.UserData = 0

	var openFd int32 = -1
	if err := r.ring.SubmitAndWait(1, func(cqe *uring.CQE) {
		openFd = int32(cqe.Res)
	}); err != nil {
		return ReadResult{}, err
	}
	if openFd < 0 {
		return ReadResult{}, fmt.Errorf("io_uring openat %s failed", path)
	}

	empty := []byte{0}
	var stat uring.Statx
	statSQE := r.ring.GetSQE(0)
	statSQE.PrepStatx(openFd, &empty[0], uring.ATEmptyPath(), uring.StatxSizeMask(), &stat)
	statSQE.UserData = 0

	var statRes int32
	if err := r.ring.SubmitAndWait(1, func(cqe *uring.CQE) {
		statRes = cqe.Res
	}); err != nil {
		r.closeFd(openFd)
		return ReadResult{}, err
	}
	if statRes < 0 {
		r.closeFd(openFd)
		return ReadResult{}, fmt.Errorf("io_uring statx %s failed", path)
	}

	size := stat.Size
	if size == 0 {
		r.closeFd(openFd)
		return ReadResult{Data: nil, Closer: noopCloser}, nil
	}

	buf := make([]byte, size)
	readSQE := r.ring.GetSQE(0)
	readSQE.PrepRead(openFd, &buf[0], uint32(size), 0)
	readSQE.UserData = 0

	var readRes int32
	if err := r.ring.SubmitAndWait(1, func(cqe *uring.CQE) {
		readRes = cqe.Res
	}); err != nil {
		r.closeFd(openFd)
		return ReadResult{}, err
	}
	r.closeFd(openFd)
	if readRes < 0 {
		return ReadResult{}, fmt.Errorf("io_uring read %s failed", path)
	}

	return ReadResult{Data: buf[:readRes], Closer: noopCloser}, nil
}

func (r *URingReader) closeFd(fd int32) {
	sqe := r.ring.GetSQE(0)
	sqe.PrepClose(fd)
	sqe.UserData = 0
	_ = r.ring.SubmitAndWait(1, func(*uring.CQE) {})
}

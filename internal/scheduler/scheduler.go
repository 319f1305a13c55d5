package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dl/ahogrep/internal/input"
	"github.com/dl/ahogrep/internal/output"
	"github.com/dl/ahogrep/internal/walker"
)

// Scheduler manages a pool of workers that search files concurrently.
type Scheduler struct {
	workers    int
	matcher    output.Matcher
	reader     input.Reader
	filesOnly  bool // when true, use MatchExists for faster -l mode
	countOnly  bool // when true, use CountAll for faster -c mode
	skipBinary bool // when true, files that look binary are skipped entirely
}

// New creates a Scheduler with the given number of workers.
// If workers is 0, defaults to NumCPU * 2.
func New(workers int, m output.Matcher, r input.Reader, filesOnly, countOnly, skipBinary bool) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &Scheduler{
		workers:    workers,
		matcher:    m,
		reader:     r,
		filesOnly:  filesOnly,
		countOnly:  countOnly,
		skipBinary: skipBinary,
	}
}

// Run processes files from the file channel and returns results on the result channel.
// Results include sequence numbers for ordered output.
func (s *Scheduler) Run(files <-chan walker.FileEntry) <-chan output.Result {
	resultCh := make(chan output.Result, s.workers*2)
	var seq atomic.Int64

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range files {
				seqNum := int(seq.Add(1))
				result := s.processFile(entry)
				result.SeqNum = seqNum
				resultCh <- result
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	return resultCh
}

func (s *Scheduler) processFile(entry walker.FileEntry) output.Result {
	result := output.Result{FilePath: entry.Path}

	readResult, err := s.reader.Read(entry.Path)
	if err != nil {
		result.Err = err
		return result
	}

	closeReader := func() {
		if readResult.Closer != nil {
			readResult.Closer()
		}
	}

	if readResult.Data == nil {
		closeReader()
		return result
	}

	// Binary detection: skip binary files entirely (like ripgrep), unless
	// the caller explicitly wants to search binary content too.
	if s.skipBinary && walker.IsBinary(readResult.Data) {
		closeReader()
		return result
	}

	switch {
	case s.filesOnly:
		if s.matcher.MatchExists(readResult.Data) {
			result.MatchCount = 1
		}
		closeReader()
	case s.countOnly:
		result.MatchCount = s.matcher.CountAll(readResult.Data)
		closeReader()
	default:
		result.MatchSet = s.matcher.FindAll(readResult.Data)
		if result.MatchSet.HasMatch() {
			result.Closer = closeReader
		} else {
			closeReader()
		}
	}
	return result
}

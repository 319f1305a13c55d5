package cli

import (
	"fmt"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/dl/ahogrep"
	"github.com/dl/ahogrep/internal/input"
	"github.com/dl/ahogrep/internal/logging"
	"github.com/dl/ahogrep/internal/output"
	"github.com/dl/ahogrep/internal/scheduler"
	"github.com/dl/ahogrep/internal/walker"
	"github.com/dl/ahogrep/internal/watch"
)

// searchMode determines the fast path in searchReader.
type searchMode int

const (
	searchFull      searchMode = iota // full match extraction
	searchFilesOnly                   // just check if any match exists
	searchCountOnly                   // count matching lines, skip line extraction
)

// Run executes the search with the given config.
// Returns exit code: 0 = match found, 1 = no match, 2 = error.
func Run(cfg Config) int {
	log := logging.New(false)

	if err := cfg.Validate(); err != nil {
		log.Warn("invalid configuration", "err", err)
		return 2
	}

	if cfg.SmartCase && !cfg.IgnoreCase {
		keywords := cfg.Keywords
		if all, err := collectKeywords(cfg); err == nil {
			keywords = all
		}
		cfg.IgnoreCase = allLowerKeywords(keywords)
	}

	if cfg.BuildIndex != "" {
		return buildIndex(cfg, log)
	}

	eng, err := loadAutomaton(cfg, log)
	if err != nil {
		log.Warn("failed to prepare automaton", "err", err)
		return 2
	}

	var m output.Matcher = NewSearchEngine(eng, cfg.Policy, cfg.IgnoreCase)
	if !cfg.WatchMode {
		m = NewContextMatcher(m, cfg.ContextBefore, cfg.ContextAfter)
	}

	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorNever:
		useColor = false
	case ColorAuto:
		useColor = output.StdoutIsTerminal()
	}

	maxCols := cfg.MaxColumns
	if maxCols == 0 {
		maxCols = 75
	}
	if maxCols < 0 {
		maxCols = 0
	}

	styles := output.NoStyles()
	if useColor {
		styles = output.NewStyles()
	}

	w := output.NewWriter()
	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter()
	} else {
		formatter = output.NewTextFormatter(styles, cfg.LineNumbers, cfg.CountOnly, cfg.FileNamesOnly, useColor, maxCols)
	}

	var reader input.Reader = input.NewAdaptiveReader(cfg.MmapThreshold)
	if cfg.UseIOUring {
		if ur, err := input.NewURingReader(); err != nil {
			log.Warn("io_uring unavailable, falling back to adaptive reader", "err", err)
		} else {
			reader = ur
		}
	}
	stdinReader := input.NewStdinReader()

	mode := searchFull
	switch {
	case cfg.FileNamesOnly:
		mode = searchFilesOnly
	case cfg.CountOnly:
		mode = searchCountOnly
	}

	paths := cfg.Paths
	readFromStdin := len(paths) == 0

	if cfg.WatchMode {
		return runWatch(paths, m, formatter, w, log)
	}

	if readFromStdin {
		return runStdin(stdinReader, m, formatter, w, cfg.SkipBinary)
	}

	if cfg.Recursive {
		return runRecursive(paths, m, reader, formatter, w, cfg, mode, log)
	}

	return runFiles(paths, m, reader, formatter, w, mode, cfg.SkipBinary, log)
}

// buildIndex compiles an automaton from the configured keywords and
// writes it to cfg.BuildIndex, without searching anything.
func buildIndex(cfg Config, log *logging.Logger) int {
	keywords, err := collectKeywords(cfg)
	if err != nil {
		log.Warn("failed to load keywords", "err", err)
		return 2
	}

	start := time.Now()
	b := ahocorasick.NewBuilder()
	for _, k := range keywords {
		text := k.Text
		if cfg.IgnoreCase {
			text = asciiLowerString(text)
		}
		if err := b.Add([]byte(text), k.Payload); err != nil {
			log.Warn("invalid keyword", "keyword", k.Text, "err", err)
			return 2
		}
	}
	trie, err := b.Compile()
	if err != nil {
		log.Warn("failed to compile automaton", "err", err)
		return 2
	}
	log.CompileStats(trie.NodesCount(), trie.ChildrenCount(), float64(time.Since(start).Microseconds())/1000)

	if err := trie.WriteFile(cfg.BuildIndex); err != nil {
		log.Warn("failed to write index", "path", cfg.BuildIndex, "err", err)
		return 2
	}
	return 0
}

// loadAutomaton builds a fresh automaton from inline keywords, or opens a
// serialized one from cfg.IndexPath.
func loadAutomaton(cfg Config, log *logging.Logger) (automaton, error) {
	if cfg.IndexPath != "" {
		mapped, err := ahocorasick.OpenMapped(cfg.IndexPath)
		if err != nil {
			return nil, fmt.Errorf("open index %s: %w", cfg.IndexPath, err)
		}
		return mapped, nil
	}

	keywords, err := collectKeywords(cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	b := ahocorasick.NewBuilder()
	for _, k := range keywords {
		text := k.Text
		if cfg.IgnoreCase {
			text = asciiLowerString(text)
		}
		if err := b.Add([]byte(text), k.Payload); err != nil {
			return nil, fmt.Errorf("invalid keyword %q: %w", k.Text, err)
		}
	}
	trie, err := b.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile automaton: %w", err)
	}
	log.CompileStats(trie.NodesCount(), trie.ChildrenCount(), float64(time.Since(start).Microseconds())/1000)
	return trie, nil
}

func collectKeywords(cfg Config) ([]Keyword, error) {
	var keywords []Keyword
	if cfg.KeywordFile != "" {
		fromFile, err := LoadKeywordFile(cfg.KeywordFile)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, fromFile...)
	}
	keywords = append(keywords, cfg.Keywords...)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords to compile")
	}
	return keywords, nil
}

func allLowerKeywords(keywords []Keyword) bool {
	for _, k := range keywords {
		for _, r := range k.Text {
			if unicode.IsUpper(r) {
				return false
			}
		}
	}
	return true
}

func asciiLowerString(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func runStdin(reader input.Reader, m output.Matcher, formatter output.Formatter, w *output.Writer, skipBinary bool) int {
	result := searchReader(reader, "", m, searchFull, skipBinary)
	if result.HasMatch() {
		buf := formatter.Format(nil, result, false)
		if result.Closer != nil {
			result.Closer()
		}
		w.Write(buf)
		return 0
	}
	if result.Closer != nil {
		result.Closer()
	}
	return 1
}

func runFiles(paths []string, m output.Matcher, reader input.Reader, formatter output.Formatter, w *output.Writer, mode searchMode, skipBinary bool, log *logging.Logger) int {
	multiFile := len(paths) > 1
	hasMatch := false
	var buf []byte

	for _, path := range paths {
		result := searchReader(reader, path, m, mode, skipBinary)
		if result.Err != nil {
			log.Warn("read failed", "path", path, "err", result.Err)
			continue
		}
		if result.HasMatch() {
			hasMatch = true
		}
		buf = formatter.Format(buf[:0], result, multiFile)
		if result.Closer != nil {
			result.Closer()
		}
		w.Write(buf)
	}

	if hasMatch {
		return 0
	}
	return 1
}

func runRecursive(paths []string, m output.Matcher, reader input.Reader, formatter output.Formatter, w *output.Writer, cfg Config, mode searchMode, log *logging.Logger) int {
	fileCh, errCh := walker.Walk(paths, walker.WalkOptions{
		Recursive:      true,
		NoIgnore:       cfg.NoIgnore,
		Hidden:         cfg.Hidden,
		FollowSymlinks: cfg.FollowSymlinks,
		Globs:          cfg.Globs,
	})

	go func() {
		for err := range errCh {
			log.Warn("walk error", "err", err)
		}
	}()

	sched := scheduler.New(cfg.Workers, m, reader, mode == searchFilesOnly, mode == searchCountOnly, cfg.SkipBinary)
	resultCh := sched.Run(fileCh)

	var hasMatch atomic.Bool
	ow := output.NewOrderedWriter(w, formatter, true)
	ow.WriteOrdered(resultCh, func() {
		hasMatch.Store(true)
	})

	if hasMatch.Load() {
		return 0
	}
	return 1
}

func runWatch(paths []string, m output.Matcher, formatter output.Formatter, w *output.Writer, log *logging.Logger) int {
	watcher, err := watch.New()
	if err != nil {
		log.Warn("failed to create watcher", "err", err)
		return 2
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			log.Warn("failed to watch path", "path", path, "err", err)
			return 2
		}
	}

	hasMatch := false
	events := watcher.Events()

	for evt := range events {
		if evt.Err != nil {
			log.Warn("watch error", "err", evt.Err)
			continue
		}

		switch evt.Type {
		case watch.EventModified:
			data, err := watcher.ReadNew(evt.Path)
			if err != nil {
				log.Warn("failed to read new data", "path", evt.Path, "err", err)
				continue
			}
			if len(data) == 0 {
				continue
			}

			ms := m.FindAll(data)
			if ms.HasMatch() {
				hasMatch = true
				result := output.Result{FilePath: evt.Path, MatchSet: ms}
				buf := formatter.Format(nil, result, true)
				w.Write(buf)
			}

		case watch.EventCreated:
			if err := watcher.Add(evt.Path); err != nil {
				log.Warn("failed to watch new path", "path", evt.Path, "err", err)
			}

		case watch.EventDeleted:
			log.Warn("watched file removed", "path", evt.Path)
		}
	}

	if hasMatch {
		return 0
	}
	return 1
}

func searchReader(r input.Reader, path string, m output.Matcher, mode searchMode, skipBinary bool) output.Result {
	result := output.Result{FilePath: path}

	readResult, err := r.Read(path)
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

	if skipBinary && walker.IsBinary(readResult.Data) {
		closeReader()
		return result
	}

	switch mode {
	case searchFilesOnly:
		if m.MatchExists(readResult.Data) {
			result.MatchCount = 1
		}
		closeReader()
	case searchCountOnly:
		result.MatchCount = m.CountAll(readResult.Data)
		closeReader()
	default:
		result.MatchSet = m.FindAll(readResult.Data)
		if result.MatchSet.HasMatch() {
			result.Closer = closeReader
		} else {
			closeReader()
		}
	}
	return result
}

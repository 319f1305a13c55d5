package cli

import "fmt"

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// SearchPolicy selects which Aho-Corasick match rule the search engine applies.
type SearchPolicy int

const (
	PolicyLongest  SearchPolicy = iota // longest match at each start position (default)
	PolicyShortest                     // shortest reportable match
	PolicyAnchored                     // longest match bounded by token separators on both sides
)

// Keyword is one entry parsed from -e/-f, carrying an optional payload.
type Keyword struct {
	Text    string
	Payload int64
}

// Config holds all configuration for an ahogrep search.
type Config struct {
	Keywords    []Keyword
	KeywordFile string

	IgnoreCase bool
	Policy     SearchPolicy

	Recursive      bool
	LineNumbers    bool
	CountOnly      bool
	FileNamesOnly  bool
	ContextBefore  int
	ContextAfter   int
	WatchMode      bool
	JSONOutput     bool
	Color          ColorMode
	Workers        int
	NoIgnore       bool
	Hidden         bool
	FollowSymlinks bool
	SmartCase      bool
	Globs          []string
	MaxColumns     int
	MmapThreshold  int64
	SkipBinary     bool
	UseIOUring     bool

	// IndexPath, when set, loads a serialized automaton instead of
	// compiling one from Keywords/KeywordFile.
	IndexPath string
	// BuildIndex, when set, compiles the automaton from
	// Keywords/KeywordFile, writes it to this path, and exits without
	// searching anything.
	BuildIndex string

	Paths []string
}

// Validate checks that the config is self-consistent and returns an error if not.
func (c *Config) Validate() error {
	haveInline := len(c.Keywords) > 0 || c.KeywordFile != ""
	haveIndex := c.IndexPath != ""
	buildingIndex := c.BuildIndex != ""

	switch {
	case buildingIndex && haveIndex:
		return fmt.Errorf("cannot use --build-index and --index together")
	case buildingIndex && !haveInline:
		return fmt.Errorf("--build-index requires -e or -f keywords")
	case !buildingIndex && !haveInline && !haveIndex:
		return fmt.Errorf("no keyword specified (use -e, -f, or --index)")
	case haveIndex && haveInline:
		return fmt.Errorf("cannot use --index together with -e/-f")
	}
	if c.ContextBefore < 0 {
		return fmt.Errorf("invalid context before: %d", c.ContextBefore)
	}
	if c.ContextAfter < 0 {
		return fmt.Errorf("invalid context after: %d", c.ContextAfter)
	}
	if c.CountOnly && c.FileNamesOnly {
		return fmt.Errorf("cannot use -c (count) and -l (files-with-matches) together")
	}
	return nil
}

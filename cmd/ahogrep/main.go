// Command ahogrep searches files for a set of fixed keywords using a
// compiled Aho-Corasick automaton, in a single linear pass regardless of
// how many keywords are given.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dl/ahogrep/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		keywords       []string
		keywordFile    string
		ignoreCase     bool
		smartCase      bool
		shortest       bool
		anchored       bool
		recursive      bool
		lineNumbers    bool
		countOnly      bool
		filesOnly      bool
		contextBefore  int
		contextAfter   int
		context        int
		watchMode      bool
		jsonOutput     bool
		color          string
		workers        int
		noIgnore       bool
		hidden         bool
		followSymlinks bool
		globs          []string
		maxColumns     int
		mmapThreshold  int64
		searchBinary   bool
		useIOUring     bool
		indexPath      string
		buildIndex     string
	)

	cmd := &cobra.Command{
		Use:   "ahogrep [flags] PATH...",
		Short: "Search files for fixed keywords with a compiled Aho-Corasick automaton",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cli.Config{
				KeywordFile:    keywordFile,
				IgnoreCase:     ignoreCase,
				SmartCase:      smartCase,
				Recursive:      recursive,
				LineNumbers:    lineNumbers,
				CountOnly:      countOnly,
				FileNamesOnly:  filesOnly,
				ContextBefore:  contextBefore,
				ContextAfter:   contextAfter,
				WatchMode:      watchMode,
				JSONOutput:     jsonOutput,
				Workers:        workers,
				NoIgnore:       noIgnore,
				Hidden:         hidden,
				FollowSymlinks: followSymlinks,
				Globs:          globs,
				MaxColumns:     maxColumns,
				MmapThreshold:  mmapThreshold,
				SkipBinary:     !searchBinary,
				UseIOUring:     useIOUring,
				IndexPath:      indexPath,
				BuildIndex:     buildIndex,
				Paths:          args,
			}

			if context > 0 {
				if !cmd.Flags().Changed("before-context") {
					cfg.ContextBefore = context
				}
				if !cmd.Flags().Changed("after-context") {
					cfg.ContextAfter = context
				}
			}

			if shortest {
				cfg.Policy = cli.PolicyShortest
			}
			if anchored {
				cfg.Policy = cli.PolicyAnchored
			}

			for _, k := range keywords {
				cfg.Keywords = append(cfg.Keywords, cli.Keyword{Text: k})
			}

			switch color {
			case "always":
				cfg.Color = cli.ColorAlways
			case "never":
				cfg.Color = cli.ColorNever
			case "auto", "":
				cfg.Color = cli.ColorAuto
			default:
				return fmt.Errorf("invalid --color value %q (want auto, always, or never)", color)
			}

			if len(cfg.Paths) == 0 && cfg.BuildIndex == "" && isatty.IsTerminal(os.Stdin.Fd()) {
				return fmt.Errorf("no PATH given and stdin is a terminal; pass a path or pipe input")
			}

			cmd.SilenceUsage = true
			os.Exit(cli.Run(cfg))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&keywords, "regexp", "e", nil, "keyword to search for (repeatable)")
	flags.StringVarP(&keywordFile, "file", "f", "", "read keywords from file, one per line (tab-separated payload optional)")
	flags.BoolVarP(&ignoreCase, "ignore-case", "i", false, "case-insensitive matching")
	flags.BoolVarP(&smartCase, "smart-case", "S", false, "case-insensitive unless a keyword has an uppercase letter")
	flags.BoolVar(&shortest, "shortest", false, "report the first keyword to complete (the shortest of those ending there) instead of the longest")
	flags.BoolVar(&anchored, "anchored", false, "require matches to be bounded on both sides by 0x1F (unit separator) bytes")
	flags.BoolVarP(&recursive, "recursive", "r", false, "search directories recursively")
	flags.BoolVarP(&lineNumbers, "line-number", "n", false, "show line numbers")
	flags.BoolVarP(&countOnly, "count", "c", false, "show only a count of matching lines per file")
	flags.BoolVarP(&filesOnly, "files-with-matches", "l", false, "show only names of files containing matches")
	flags.IntVarP(&contextBefore, "before-context", "B", 0, "show N lines of context before each match")
	flags.IntVarP(&contextAfter, "after-context", "A", 0, "show N lines of context after each match")
	flags.IntVarP(&context, "context", "C", 0, "show N lines of context before and after each match")
	flags.BoolVarP(&watchMode, "watch", "w", false, "watch paths for changes and re-search modified files")
	flags.BoolVar(&jsonOutput, "json", false, "emit one JSON object per matched line")
	flags.StringVar(&color, "color", "auto", "when to colorize output: auto, always, never")
	flags.IntVarP(&workers, "workers", "j", 0, "number of search workers for recursive mode (default: 2x CPUs)")
	flags.BoolVar(&noIgnore, "no-ignore", false, "don't respect .gitignore files")
	flags.BoolVar(&hidden, "hidden", false, "search hidden files and directories")
	flags.BoolVar(&followSymlinks, "follow", false, "follow symbolic links")
	flags.StringArrayVarP(&globs, "glob", "g", nil, "include/exclude glob (prefix with ! to exclude, repeatable)")
	flags.IntVarP(&maxColumns, "max-columns", "M", 0, "truncate long lines to N columns around the match (0 = default 75, negative = no limit)")
	flags.Int64Var(&mmapThreshold, "mmap-threshold", 1<<20, "files at or above this size (bytes) are read via mmap")
	flags.BoolVar(&searchBinary, "binary", false, "search files that look binary instead of skipping them")
	flags.BoolVar(&useIOUring, "io-uring", false, "use io_uring for file reads (falls back silently if unavailable)")
	flags.StringVar(&indexPath, "index", "", "load a prebuilt automaton instead of compiling keywords")
	flags.StringVar(&buildIndex, "build-index", "", "compile keywords into an automaton and write it to this path, then exit")
	flags.Lookup("context").NoOptDefVal = "2"

	cmd.SetArgs(append(cli.LoadConfigArgs(), os.Args[1:]...))

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ahogrep:", err)
		return 2
	}
	return 0
}

package input_test

import (
	"strings"
	"testing"

	"github.com/dl/ahogrep"
	"github.com/dl/ahogrep/internal/cli"
	"github.com/dl/ahogrep/internal/input"
	"github.com/dl/ahogrep/internal/output"
)

func TestStreamingReader_Lines(t *testing.T) {
	text := "line one\nline two\nline three\n"
	r := input.NewStreamingReader(strings.NewReader(text))
	lines := r.Lines()

	var collected []input.StreamLine
	for line := range lines {
		if line.Err != nil {
			t.Fatalf("unexpected error: %v", line.Err)
		}
		collected = append(collected, line)
	}

	if len(collected) != 3 {
		t.Fatalf("got %d lines, want 3", len(collected))
	}

	wantTexts := []string{"line one", "line two", "line three"}
	for i, want := range wantTexts {
		if string(collected[i].Data) != want {
			t.Errorf("line[%d] = %q, want %q", i, collected[i].Data, want)
		}
		if collected[i].LineNum != i+1 {
			t.Errorf("line[%d].LineNum = %d, want %d", i, collected[i].LineNum, i+1)
		}
	}
}

func TestStreamingReader_EmptyInput(t *testing.T) {
	r := input.NewStreamingReader(strings.NewReader(""))
	lines := r.Lines()

	count := 0
	for range lines {
		count++
	}
	if count != 0 {
		t.Errorf("got %d lines, want 0", count)
	}
}

func TestStreamingReader_NoTrailingNewline(t *testing.T) {
	r := input.NewStreamingReader(strings.NewReader("no newline"))
	lines := r.Lines()

	var collected []input.StreamLine
	for line := range lines {
		collected = append(collected, line)
	}

	if len(collected) != 1 {
		t.Fatalf("got %d lines, want 1", len(collected))
	}
	if string(collected[0].Data) != "no newline" {
		t.Errorf("got %q, want %q", collected[0].Data, "no newline")
	}
}

func newTestMatcher(t *testing.T, keywords ...string) output.Matcher {
	t.Helper()
	b := ahocorasick.NewBuilder()
	for _, k := range keywords {
		if err := b.Add([]byte(k), 0); err != nil {
			t.Fatalf("add keyword %q: %v", k, err)
		}
	}
	trie, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return cli.NewSearchEngine(trie, cli.PolicyLongest, false)
}

func TestSearchStream_BasicMatch(t *testing.T) {
	text := "hello world\ngoodbye world\nhello again\n"
	m := newTestMatcher(t, "hello")

	results := input.SearchStream(strings.NewReader(text), m, 0, 0)

	var collected []output.MatchSet
	for ms := range results {
		collected = append(collected, ms)
	}

	if len(collected) != 2 {
		t.Fatalf("got %d matches, want 2", len(collected))
	}
	if collected[0].Matches[0].LineNum != 1 {
		t.Errorf("match[0].LineNum = %d, want 1", collected[0].Matches[0].LineNum)
	}
	if collected[1].Matches[0].LineNum != 3 {
		t.Errorf("match[1].LineNum = %d, want 3", collected[1].Matches[0].LineNum)
	}
}

func TestSearchStream_NoMatch(t *testing.T) {
	text := "abc\ndef\n"
	m := newTestMatcher(t, "xyz")

	results := input.SearchStream(strings.NewReader(text), m, 0, 0)

	count := 0
	for range results {
		count++
	}
	if count != 0 {
		t.Errorf("got %d matches, want 0", count)
	}
}

func TestSearchStream_ContextAfter(t *testing.T) {
	text := "match\nafter1\nafter2\nno\n"
	m := newTestMatcher(t, "match")

	results := input.SearchStream(strings.NewReader(text), m, 0, 2)

	var collected []output.MatchSet
	for ms := range results {
		collected = append(collected, ms)
	}

	// match + 2 context after lines
	if len(collected) != 3 {
		t.Fatalf("got %d results, want 3", len(collected))
	}
	if collected[0].Matches[0].IsContext {
		t.Error("match[0] should not be context")
	}
	if !collected[1].Matches[0].IsContext {
		t.Error("match[1] should be context")
	}
	if !collected[2].Matches[0].IsContext {
		t.Error("match[2] should be context")
	}
}

func TestSearchStream_ContextBefore(t *testing.T) {
	text := "before1\nbefore2\nmatch\nno\n"
	m := newTestMatcher(t, "match")

	results := input.SearchStream(strings.NewReader(text), m, 2, 0)

	var collected []output.MatchSet
	for ms := range results {
		collected = append(collected, ms)
	}

	// 2 context before lines + match
	if len(collected) != 3 {
		t.Fatalf("got %d results, want 3", len(collected))
	}
	if !collected[0].Matches[0].IsContext {
		t.Error("match[0] should be context")
	}
	if !collected[1].Matches[0].IsContext {
		t.Error("match[1] should be context")
	}
	if collected[2].Matches[0].IsContext {
		t.Error("match[2] should not be context")
	}
}

func TestSearchStream_ContextBeforeAndAfter(t *testing.T) {
	text := "a\nb\nmatch\nd\ne\n"
	m := newTestMatcher(t, "match")

	results := input.SearchStream(strings.NewReader(text), m, 1, 1)

	var collected []output.MatchSet
	for ms := range results {
		collected = append(collected, ms)
	}

	// b(ctx) + match + d(ctx)
	if len(collected) != 3 {
		t.Fatalf("got %d results, want 3", len(collected))
	}
	lineBytes0 := collected[0].LineBytes(0)
	if string(lineBytes0) != "b" || !collected[0].Matches[0].IsContext {
		t.Errorf("collected[0] = %q (context=%v), want 'b' (context=true)", lineBytes0, collected[0].Matches[0].IsContext)
	}
	lineBytes1 := collected[1].LineBytes(0)
	if string(lineBytes1) != "match" || collected[1].Matches[0].IsContext {
		t.Errorf("collected[1] = %q (context=%v), want 'match' (context=false)", lineBytes1, collected[1].Matches[0].IsContext)
	}
	lineBytes2 := collected[2].LineBytes(0)
	if string(lineBytes2) != "d" || !collected[2].Matches[0].IsContext {
		t.Errorf("collected[2] = %q (context=%v), want 'd' (context=true)", lineBytes2, collected[2].Matches[0].IsContext)
	}
}

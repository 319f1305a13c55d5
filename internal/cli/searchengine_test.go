package cli

import (
	"testing"

	"github.com/dl/ahogrep"
)

func buildTrie(t *testing.T, keywords ...string) *ahocorasick.Trie {
	t.Helper()
	b := ahocorasick.NewBuilder()
	for i, k := range keywords {
		if err := b.Add([]byte(k), int64(i)); err != nil {
			t.Fatalf("add %q: %v", k, err)
		}
	}
	trie, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return trie
}

func TestSearchEngine_FindAll(t *testing.T) {
	trie := buildTrie(t, "cat", "dog")
	e := NewSearchEngine(trie, PolicyLongest, false)

	data := []byte("a cat and a dog\nanother dog\n")
	ms := e.FindAll(data)

	if ms.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ms.Len())
	}
	if string(ms.LineBytes(0)) != "a cat and a dog" {
		t.Errorf("line 0 = %q", ms.LineBytes(0))
	}
	if len(ms.MatchPositions(0)) != 2 {
		t.Errorf("got %d positions on line 0, want 2", len(ms.MatchPositions(0)))
	}
}

func TestSearchEngine_IgnoreCase(t *testing.T) {
	trie := buildTrie(t, "cat")
	e := NewSearchEngine(trie, PolicyLongest, true)

	if !e.MatchExists([]byte("a CAT sat")) {
		t.Error("expected case-insensitive match")
	}
}

func TestSearchEngine_MatchExists(t *testing.T) {
	trie := buildTrie(t, "needle")
	e := NewSearchEngine(trie, PolicyLongest, false)

	if e.MatchExists([]byte("haystack")) {
		t.Error("did not expect a match")
	}
	if !e.MatchExists([]byte("a needle in a haystack")) {
		t.Error("expected a match")
	}
}

func TestSearchEngine_CountAll_CountsLinesNotHits(t *testing.T) {
	trie := buildTrie(t, "a", "b")
	e := NewSearchEngine(trie, PolicyLongest, false)

	data := []byte("a b\nc\na\n")
	if got := e.CountAll(data); got != 2 {
		t.Errorf("CountAll() = %d, want 2", got)
	}
}

func TestSearchEngine_FindLine(t *testing.T) {
	trie := buildTrie(t, "err")
	e := NewSearchEngine(trie, PolicyLongest, false)

	ms, ok := e.FindLine([]byte("an err occurred"), 5, 100)
	if !ok {
		t.Fatal("expected match")
	}
	if ms.Matches[0].LineNum != 5 {
		t.Errorf("LineNum = %d, want 5", ms.Matches[0].LineNum)
	}
	if ms.Matches[0].ByteOffset != 100 {
		t.Errorf("ByteOffset = %d, want 100", ms.Matches[0].ByteOffset)
	}

	if _, ok := e.FindLine([]byte("nothing here"), 1, 0); ok {
		t.Error("expected no match")
	}
}

func TestSearchEngine_Policies(t *testing.T) {
	trie := buildTrie(t, "he", "hers", "she", "his")
	data := []byte("she")

	longest := NewSearchEngine(trie, PolicyLongest, false)
	lms := longest.FindAll(data)
	if lms.Len() == 0 {
		t.Fatal("expected a match under longest policy")
	}

	shortest := NewSearchEngine(trie, PolicyShortest, false)
	sms := shortest.FindAll(data)
	if sms.Len() == 0 {
		t.Fatal("expected a match under shortest policy")
	}
}

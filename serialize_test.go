package ahocorasick

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func buildSampleTrie(t *testing.T) *Trie {
	t.Helper()
	b := NewBuilder()
	mustAdd(t, b, "he", 10)
	mustAdd(t, b, "she", 20)
	mustAdd(t, b, "his", 30)
	mustAdd(t, b, "hers", 40)
	return mustCompile(t, b)
}

func TestWriteThenOpenRoundTrip(t *testing.T) {
	trie := buildSampleTrie(t)

	var buf bytes.Buffer
	if err := trie.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	mapped, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	text := []byte("ushers")
	want := trie.FindAllLongest(text)
	got := mapped.FindAllLongest(text)
	if len(got) != len(want) {
		t.Fatalf("FindAllLongest over mapped image = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWriteFileThenOpenMapped(t *testing.T) {
	trie := buildSampleTrie(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")
	if err := trie.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	mapped, err := OpenMapped(path)
	if err != nil {
		t.Fatalf("OpenMapped: %v", err)
	}
	defer mapped.Close()

	text := []byte("ushers")
	want := trie.FindAllLongest(text)
	got := mapped.FindAllLongest(text)
	if len(got) != len(want) {
		t.Fatalf("FindAllLongest over mmap'd image = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if err := mapped.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil (idempotent)", err)
	}
}

func TestOpenMappedRejectsBadImage(t *testing.T) {
	dir := t.TempDir()

	truncated := filepath.Join(dir, "truncated.bin")
	if err := os.WriteFile(truncated, []byte("short"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenMapped(truncated); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("OpenMapped(truncated) = %v, want ErrInvalidImage", err)
	}

	badMagic := filepath.Join(dir, "badmagic.bin")
	buf := make([]byte, headerSize+nodeRecSize)
	copy(buf, "NOTRIGHT")
	if err := os.WriteFile(badMagic, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenMapped(badMagic); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("OpenMapped(badMagic) = %v, want ErrInvalidImage", err)
	}
}

func TestEmptyTrieRoundTrip(t *testing.T) {
	b := NewBuilder()
	trie := mustCompile(t, b)

	var buf bytes.Buffer
	if err := trie.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "root-only.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	mapped, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := mapped.NodesCount(); got != trie.NodesCount() {
		t.Errorf("NodesCount() = %d, want %d", got, trie.NodesCount())
	}
}

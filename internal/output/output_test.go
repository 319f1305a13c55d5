package output

import (
	"strings"
	"testing"
)

func TestTextFormatter_SingleFile(t *testing.T) {
	f := NewTextFormatter(NoStyles(), true, false, false, false, 0)
	data := []byte("hello world\n???\nhello again\n")
	result := Result{
		FilePath: "test.txt",
		MatchSet: MatchSet{
			Data: data,
			Matches: []Match{
				{LineNum: 1, LineStart: 0, LineLen: 11, PosIdx: 0, PosCount: 1},
				{LineNum: 3, LineStart: 16, LineLen: 11, PosIdx: 1, PosCount: 1},
			},
			Positions: [][2]int{{0, 5}, {0, 5}},
			Payloads:  []int64{0, 0},
		},
	}

	got := string(f.Format(nil, result, false))
	want := "1:hello world\n3:hello again\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_MultiFile(t *testing.T) {
	f := NewTextFormatter(NoStyles(), true, false, false, false, 0)
	data := []byte("?????\n?????\n?????\n?????\nmatch line\n")
	result := Result{
		FilePath: "test.txt",
		MatchSet: MatchSet{
			Data: data,
			Matches: []Match{
				{LineNum: 5, LineStart: 24, LineLen: 10},
			},
		},
	}

	got := string(f.Format(nil, result, true))
	want := "test.txt:5:match line\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_CountOnly(t *testing.T) {
	f := NewTextFormatter(NoStyles(), false, true, false, false, 0)
	result := Result{
		FilePath: "test.txt",
		MatchSet: MatchSet{
			Matches: make([]Match, 3),
		},
	}

	got := string(f.Format(nil, result, false))
	if got != "3\n" {
		t.Errorf("count single: got %q, want %q", got, "3\n")
	}

	got = string(f.Format(nil, result, true))
	if got != "test.txt:3\n" {
		t.Errorf("count multi: got %q, want %q", got, "test.txt:3\n")
	}
}

func TestTextFormatter_FilesOnly(t *testing.T) {
	f := NewTextFormatter(NoStyles(), false, false, true, false, 0)

	result := Result{
		FilePath: "test.txt",
		MatchSet: MatchSet{
			Matches: make([]Match, 1),
		},
	}
	got := string(f.Format(nil, result, true))
	if got != "test.txt\n" {
		t.Errorf("got %q, want %q", got, "test.txt\n")
	}

	result.MatchSet.Matches = nil
	got = string(f.Format(nil, result, true))
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestTextFormatter_MaxColumns(t *testing.T) {
	f := NewTextFormatter(NoStyles(), true, false, false, false, 20)
	data := []byte("short\nthis is a very long line that exceeds the max columns limit\n")
	result := Result{
		FilePath: "test.txt",
		MatchSet: MatchSet{
			Data: data,
			Matches: []Match{
				{LineNum: 1, LineStart: 0, LineLen: 5, PosIdx: 0, PosCount: 1},
				{LineNum: 2, LineStart: 6, LineLen: 59, PosIdx: 1, PosCount: 1},
			},
			Positions: [][2]int{{0, 5}, {0, 4}},
			Payloads:  []int64{0, 0},
		},
	}

	got := string(f.Format(nil, result, false))
	line1, line2 := strings.Split(got, "\n")[0], strings.Split(got, "\n")[1]
	if line1 != "1:short" {
		t.Errorf("line1 = %q, want %q", line1, "1:short")
	}
	if len(strings.TrimPrefix(line2, "2:")) > 20 {
		t.Errorf("line2 content exceeds maxColumns: %q", line2)
	}
}

func TestTextFormatter_MaxColumnsClipsPositions(t *testing.T) {
	f := NewTextFormatter(NoStyles(), false, false, false, false, 10)
	data := []byte("hello world and more stuff\n")
	result := Result{
		FilePath: "test.txt",
		MatchSet: MatchSet{
			Data: data,
			Matches: []Match{
				{LineNum: 1, LineStart: 0, LineLen: 26, PosIdx: 0, PosCount: 1},
			},
			Positions: [][2]int{{6, 11}},
			Payloads:  []int64{0},
		},
	}

	got := string(f.Format(nil, result, false))
	line := strings.TrimSuffix(got, "\n")
	if len(line) > 10 {
		t.Errorf("output line length %d exceeds maxColumns 10: %q", len(line), line)
	}
	if !strings.Contains(line, "world") {
		t.Errorf("output %q does not contain expected substring", line)
	}
}

func TestTextFormatter_MaxColumnsCentered(t *testing.T) {
	f := NewTextFormatter(NoStyles(), false, false, false, false, 60)
	line := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa benchmark bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	data := []byte(line + "\n")
	result := Result{
		FilePath: "test.txt",
		MatchSet: MatchSet{
			Data: data,
			Matches: []Match{
				{LineNum: 1, LineStart: 0, LineLen: len(line), PosIdx: 0, PosCount: 1},
			},
			Positions: [][2]int{{43, 52}},
			Payloads:  []int64{0},
		},
	}

	got := string(f.Format(nil, result, false))
	if len(got) == 0 {
		t.Fatal("no output")
	}
	if !strings.Contains(got, "benchmark") {
		t.Errorf("output %q does not contain match word 'benchmark'", got)
	}
	line2 := strings.TrimSuffix(got, "\n")
	if len(line2) > 60 {
		t.Errorf("output line length %d exceeds maxColumns 60", len(line2))
	}
}

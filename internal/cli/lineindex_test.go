package cli

import "testing"

func TestLineCursor_SequentialAdvance(t *testing.T) {
	data := []byte("one\ntwo\nthree\nfour\n")
	cur := newLineCursor(data)

	line, start, num := cur.lineFromPos(0)
	if string(line) != "one" || start != 0 || num != 1 {
		t.Errorf("pos 0: line=%q start=%d num=%d", line, start, num)
	}

	line, start, num = cur.lineFromPos(5)
	if string(line) != "two" || num != 2 {
		t.Errorf("pos 5: line=%q start=%d num=%d", line, start, num)
	}

	line, _, num = cur.lineFromPos(14)
	if string(line) != "four" || num != 4 {
		t.Errorf("pos 14: line=%q num=%d", line, num)
	}
}

func TestLineCursor_LargeJump(t *testing.T) {
	var data []byte
	for i := 0; i < 2000; i++ {
		data = append(data, []byte("x\n")...)
	}
	cur := newLineCursor(data)

	_, _, num := cur.lineFromPos(1500)
	if num != 751 {
		t.Errorf("got line %d, want 751", num)
	}
}

func TestGroupMatchesByLine_MultipleHitsSameLine(t *testing.T) {
	data := []byte("cat dog cat\nfish\n")
	hits := []searchHit{
		{Start: 0, End: 3, Payload: 1},
		{Start: 4, End: 7, Payload: 2},
		{Start: 8, End: 11, Payload: 1},
	}

	ms := groupMatchesByLine(data, hits)
	if ms.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ms.Len())
	}
	if len(ms.MatchPositions(0)) != 3 {
		t.Fatalf("got %d positions, want 3", len(ms.MatchPositions(0)))
	}
	payloads := ms.MatchPayloads(0)
	if payloads[0] != 1 || payloads[1] != 2 || payloads[2] != 1 {
		t.Errorf("payloads = %v, want [1 2 1]", payloads)
	}
}

func TestGroupMatchesByLine_Empty(t *testing.T) {
	ms := groupMatchesByLine([]byte("nothing here"), nil)
	if ms.HasMatch() {
		t.Error("expected no matches")
	}
}

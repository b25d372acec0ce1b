package model

import "testing"

func TestParseSelectionCount(t *testing.T) {
	cases := []struct {
		expr    string
		wantOp  CountOp
		wantN   uint64
		wantErr bool
	}{
		{"<2", CountLess, 2, false},
		{"=1", CountEqual, 1, false},
		{">0", CountGreater, 0, false},
		{"", CountLess, 0, true},
		{"x1", CountLess, 0, true},
		{">", CountLess, 0, true},
	}
	for _, c := range cases {
		got, err := ParseSelectionCount(c.expr)
		if c.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", c.expr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.expr, err)
			continue
		}
		if got.Op != c.wantOp || got.Count != c.wantN {
			t.Errorf("%q: got %+v, want op=%v n=%d", c.expr, got, c.wantOp, c.wantN)
		}
	}
}

func TestParsedSelectionCountMatches(t *testing.T) {
	p, err := ParseSelectionCount(">1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Matches(1) {
		t.Errorf("1 should not satisfy >1")
	}
	if !p.Matches(2) {
		t.Errorf("2 should satisfy >1")
	}
}

func TestSplitCapability(t *testing.T) {
	name, neg := SplitCapability("!Local")
	if name != "Local" || !neg {
		t.Errorf("got (%q, %v)", name, neg)
	}
	name, neg = SplitCapability("Writable")
	if name != "Writable" || neg {
		t.Errorf("got (%q, %v)", name, neg)
	}
}

package core

import "testing"

func TestGridBoundsChecked(t *testing.T) {
	g := NewGrid(4, 3, -1)
	if !g.Set(3, 2, 7) {
		t.Fatal("expected in-bounds write to succeed")
	}
	if v, ok := g.Get(3, 2); !ok || v != 7 {
		t.Fatalf("Get(3,2) = %d,%v", v, ok)
	}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}} {
		if g.Set(p[0], p[1], 1) {
			t.Fatalf("Set%v should be rejected", p)
		}
		if _, ok := g.Get(p[0], p[1]); ok {
			t.Fatalf("Get%v should be rejected", p)
		}
	}
	if v, _ := g.Get(0, 0); v != -1 {
		t.Fatalf("expected fill value -1, got %d", v)
	}
}

func TestGridWrap(t *testing.T) {
	g := NewGrid(5, 4, 0)
	cases := []struct{ x, y, wx, wy int }{
		{-1, -1, 4, 3},
		{5, 4, 0, 0},
		{12, -9, 2, 3},
		{2, 1, 2, 1},
	}
	for _, c := range cases {
		x, y := g.Wrap(c.x, c.y)
		if x != c.wx || y != c.wy {
			t.Fatalf("Wrap(%d,%d) = (%d,%d), want (%d,%d)", c.x, c.y, x, y, c.wx, c.wy)
		}
	}
}

func TestGridClampsDegenerateSize(t *testing.T) {
	g := NewGrid(0, -3, uint8(0))
	if g.W != 1 || g.H != 1 {
		t.Fatalf("expected 1x1 grid, got %dx%d", g.W, g.H)
	}
	if len(g.Snapshot()) != 1 {
		t.Fatal("snapshot should hold exactly one cell")
	}
}

package hgpak

import "testing"

func TestBins(t *testing.T) {
	cases := []struct {
		n, b, want uint64
	}{
		{0, 16, 0},
		{1, 16, 1},
		{16, 16, 1},
		{17, 16, 2},
		{0x10000, 0x10000, 1},
		{0x10001, 0x10000, 2},
	}
	for _, c := range cases {
		if got := bins(c.n, c.b); got != c.want {
			t.Errorf("bins(%d, %d) = %d, want %d", c.n, c.b, got, c.want)
		}
	}
}

func TestChunkOnDisk(t *testing.T) {
	cases := []struct{ size, want uint64 }{
		{0, 0},
		{1, 16},
		{15, 16},
		{16, 16},
		{17, 32},
	}
	for _, c := range cases {
		if got := chunkOnDisk(c.size); got != c.want {
			t.Errorf("chunkOnDisk(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

func TestRoundup16(t *testing.T) {
	cases := []struct{ x, want uint64 }{
		{0, 0},
		{1, 16},
		{15, 16},
		{16, 16},
		{17, 32},
	}
	for _, c := range cases {
		if got := roundup16(c.x); got != c.want {
			t.Errorf("roundup16(%d) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestPad16(t *testing.T) {
	cases := []struct{ x, want uint64 }{
		{0, 0},
		{1, 15},
		{15, 1},
		{16, 0},
		{17, 15},
	}
	for _, c := range cases {
		if got := pad16(c.x); got != c.want {
			t.Errorf("pad16(%d) = %d, want %d", c.x, got, c.want)
		}
		if (c.x+got)%16 != 0 {
			t.Errorf("pad16(%d): %d + %d is not 16-aligned", c.x, c.x, got)
		}
	}
}

package mapping

import "testing"

func TestFL(t *testing.T) {
	tests := []struct {
		size uint32
		want int
	}{
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
		{64, 6},
		{127, 6},
		{128, 7},
		{255, 7},
		{256, 8},
		{1 << 31, 31},
	}
	for _, tt := range tests {
		if got := FL(tt.size); got != tt.want {
			t.Errorf("FL(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		size   uint32
		wantFL int
		wantSL int
	}{
		{64, 6, 0},
		{100, 6, 4},
		{128, 7, 0},
		{255, 7, 7},
		{256, 8, 0},
		{16, 4, 0},
		{24, 4, 4},
	}
	for _, tt := range tests {
		fl, sl := Insert(tt.size)
		if fl != tt.wantFL || sl != tt.wantSL {
			t.Errorf("Insert(%d) = (%d, %d), want (%d, %d)", tt.size, fl, sl, tt.wantFL, tt.wantSL)
		}
	}
}

// TestSearchExclusiveStart checks that Search only ever returns a bucket
// whose every member is guaranteed >= req, rejecting the inclusive
// variant spec.md explicitly calls out as wrong
// (original_source/src/tlsf.rs's early iterations used it).
func TestSearchExclusiveStart(t *testing.T) {
	var slBitmaps [FLCount]uint32
	// Populate bucket (6, 4): sizes in [64+4*8, 64+5*8) = [96, 104).
	flBM, slBM4 := Insert(uint32(96))
	slBitmaps[flBM] |= 1 << uint(slBM4)
	flBitmap := uint32(1) << uint(flBM)

	// A request of 100 falls in bucket (6, 4) too (96 <= 100 < 104), but
	// that bucket's blocks can be as small as 96 < 100: Search must NOT
	// return (6, 4) for req=100. No other bucket is populated, so it must
	// report OOM.
	if _, _, ok := Search(100, flBitmap, &slBitmaps); ok {
		t.Fatalf("Search(100) should not return bucket (6,4): its floor (96) is below the request")
	}

	// Now populate bucket (6, 5): sizes in [104, 112), which IS safe for
	// req=100.
	slBitmaps[6] |= 1 << 5
	flBitmap |= 1 << 6
	fl, sl, ok := Search(100, flBitmap, &slBitmaps)
	if !ok || fl != 6 || sl != 5 {
		t.Fatalf("Search(100) = (%d, %d, %v), want (6, 5, true)", fl, sl, ok)
	}
}

func TestSearchSpillsToHigherFL(t *testing.T) {
	var slBitmaps [FLCount]uint32
	slBitmaps[8] |= 1 << 0
	flBitmap := uint32(1) << 8

	fl, sl, ok := Search(200, flBitmap, &slBitmaps)
	if !ok || fl != 8 || sl != 0 {
		t.Fatalf("Search(200) = (%d, %d, %v), want (8, 0, true)", fl, sl, ok)
	}
}

func TestSearchOutOfMemory(t *testing.T) {
	var slBitmaps [FLCount]uint32
	if _, _, ok := Search(1024, 0, &slBitmaps); ok {
		t.Fatalf("Search on an empty index should report out of memory")
	}
}

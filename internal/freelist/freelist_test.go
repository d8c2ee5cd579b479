package freelist

import (
	"testing"

	"github.com/arenabyte/tlsf/internal/arenamem"
	"github.com/stretchr/testify/require"
)

func TestPushPopSingleBucket(t *testing.T) {
	a := arenamem.New(256)
	idx := New()

	a.SetTag(0, 64, arenamem.PrevUsed|arenamem.NextUsed)
	PushFront(a, idx, 0, 64)

	fl, sl := Bucket(64)
	require.Equal(t, uint32(0), idx.Head(fl, sl))
	require.NotZero(t, idx.FLBitmap())
	require.NotZero(t, idx.SLBitmap(fl))

	got := PopFront(a, idx, fl, sl)
	require.Equal(t, uint32(0), got)
	require.Equal(t, arenamem.Sentinel, idx.Head(fl, sl))
	require.Zero(t, idx.FLBitmap())
}

// TestLIFODiscipline checks spec.md §4.2's deliberate LIFO ordering: the
// most recently pushed block in a bucket is the next one popped.
func TestLIFODiscipline(t *testing.T) {
	a := arenamem.New(512)
	idx := New()

	offsets := []uint32{0, 80, 160}
	for _, off := range offsets {
		a.SetTag(off, 64, arenamem.PrevUsed|arenamem.NextUsed)
		PushFront(a, idx, off, 64)
	}

	fl, sl := Bucket(64)
	require.Equal(t, offsets[2], PopFront(a, idx, fl, sl))
	require.Equal(t, offsets[1], PopFront(a, idx, fl, sl))
	require.Equal(t, offsets[0], PopFront(a, idx, fl, sl))
	require.Equal(t, arenamem.Sentinel, idx.Head(fl, sl))
}

func TestRemoveFromMiddle(t *testing.T) {
	a := arenamem.New(512)
	idx := New()

	offsets := []uint32{0, 80, 160}
	for _, off := range offsets {
		a.SetTag(off, 64, arenamem.PrevUsed|arenamem.NextUsed)
		PushFront(a, idx, off, 64)
	}

	// List head-to-tail is [160, 80, 0]. Remove the middle element.
	Remove(a, idx, 80, 64)

	fl, sl := Bucket(64)
	require.Equal(t, uint32(160), PopFront(a, idx, fl, sl))
	require.Equal(t, uint32(0), PopFront(a, idx, fl, sl))
	require.Equal(t, arenamem.Sentinel, idx.Head(fl, sl))
}

func TestWalkVisitsEveryFreeBlock(t *testing.T) {
	a := arenamem.New(512)
	idx := New()

	offsets := map[uint32]bool{0: false, 80: false, 160: false}
	for off := range offsets {
		a.SetTag(off, 64, arenamem.PrevUsed|arenamem.NextUsed)
		PushFront(a, idx, off, 64)
	}

	count := 0
	Walk(a, idx, func(fl, sl int, offset uint32) {
		_, ok := offsets[offset]
		require.True(t, ok, "unexpected offset %d", offset)
		count++
	})
	require.Equal(t, len(offsets), count)
}

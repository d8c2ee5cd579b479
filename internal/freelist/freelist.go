// Package freelist is the two-level segregated free-list index: the FL
// bitmap, the per-FL SL bitmaps, and the (fl, sl) matrix of bucket heads.
// It supports O(1) insert (push to the head, LIFO), pop-head, and
// remove-arbitrary.
//
// The list is intrusive: the prev/next links of a free block live inside
// the block's own payload (internal/arenamem.ReadLinks/WriteLinks), exactly
// as the teacher's FreeBlockHeader.prev/next fields do, except addressed by
// offset instead of pointer. This package owns only the bitmap/matrix
// bookkeeping; internal/arenamem owns the link storage.
package freelist

import (
	"github.com/arenabyte/tlsf/internal/arenamem"
	"github.com/arenabyte/tlsf/internal/mapping"
)

// Index is the FL/SL bitmap-and-matrix structure of spec.md's Free-List
// Index data model.
type Index struct {
	flBitmap  uint32
	slBitmaps [mapping.FLCount]uint32
	heads     [mapping.FLCount][mapping.SLCount]uint32
}

// New returns an empty index: every bucket head is the sentinel offset.
func New() *Index {
	idx := &Index{}
	for fl := 0; fl < mapping.FLCount; fl++ {
		for sl := 0; sl < mapping.SLCount; sl++ {
			idx.heads[fl][sl] = arenamem.Sentinel
		}
	}
	return idx
}

// FLBitmap returns the first-level bitmap, exposed for integrity checks
// and diagnostics.
func (idx *Index) FLBitmap() uint32 { return idx.flBitmap }

// SLBitmap returns the second-level bitmap for the given FL class.
func (idx *Index) SLBitmap(fl int) uint32 { return idx.slBitmaps[fl] }

// Head returns the bucket head offset for (fl, sl), or arenamem.Sentinel
// if the bucket is empty.
func (idx *Index) Head(fl, sl int) uint32 { return idx.heads[fl][sl] }

// Bucket returns the (fl, sl) pair the given free-block size maps to.
func Bucket(size uint32) (fl, sl int) { return mapping.Insert(size) }

// Search finds the smallest bucket guaranteed to hold a block >= req.
func (idx *Index) Search(req uint32) (fl, sl int, ok bool) {
	return mapping.Search(req, idx.flBitmap, &idx.slBitmaps)
}

// setAvailable marks bucket (fl, sl) as non-empty in both bitmaps.
func (idx *Index) setAvailable(fl, sl int) {
	idx.slBitmaps[fl] |= 1 << uint(sl)
	idx.flBitmap |= 1 << uint(fl)
}

// clearIfEmpty clears the bitmaps for bucket (fl, sl) once its head has
// become the sentinel.
func (idx *Index) clearIfEmpty(fl, sl int) {
	if idx.heads[fl][sl] != arenamem.Sentinel {
		return
	}
	idx.slBitmaps[fl] &^= 1 << uint(sl)
	if idx.slBitmaps[fl] == 0 {
		idx.flBitmap &^= 1 << uint(fl)
	}
}

// PushFront inserts the free block at head (with the given payload size)
// at the head of its bucket's list. LIFO: this block will be the next one
// popped from the bucket, a deliberate cache-locality choice that is
// observable in the offsets allocate returns (spec.md §4.2).
func PushFront(a *arenamem.Arena, idx *Index, head, size uint32) {
	fl, sl := Bucket(size)
	old := idx.heads[fl][sl]
	a.WriteLinks(head, arenamem.Sentinel, old)
	if old != arenamem.Sentinel {
		_, oldNext := a.ReadLinks(old)
		a.WriteLinks(old, head, oldNext)
	}
	idx.heads[fl][sl] = head
	idx.setAvailable(fl, sl)
}

// PopFront removes and returns the head of bucket (fl, sl). The caller
// must ensure the bucket is non-empty.
func PopFront(a *arenamem.Arena, idx *Index, fl, sl int) uint32 {
	head := idx.heads[fl][sl]
	_, next := a.ReadLinks(head)
	idx.heads[fl][sl] = next
	if next != arenamem.Sentinel {
		_, nextNext := a.ReadLinks(next)
		a.WriteLinks(next, arenamem.Sentinel, nextNext)
	}
	idx.clearIfEmpty(fl, sl)
	return head
}

// Remove unlinks the free block at head (with the given payload size) from
// its bucket, wherever in the list it sits.
func Remove(a *arenamem.Arena, idx *Index, head, size uint32) {
	fl, sl := Bucket(size)
	prev, next := a.ReadLinks(head)

	if prev != arenamem.Sentinel {
		prevPrev, _ := a.ReadLinks(prev)
		a.WriteLinks(prev, prevPrev, next)
	}
	if next != arenamem.Sentinel {
		_, nextNext := a.ReadLinks(next)
		a.WriteLinks(next, prev, nextNext)
	}
	if idx.heads[fl][sl] == head {
		idx.heads[fl][sl] = next
	}
	idx.clearIfEmpty(fl, sl)
}

// Walk invokes fn for every free block offset reachable from every
// non-empty bucket, in (fl, sl, list-order). Used by the integrity walker
// (invariant I5) and by Allocator.Free's O(n) accounting.
func Walk(a *arenamem.Arena, idx *Index, fn func(fl, sl int, offset uint32)) {
	for fl := 0; fl < mapping.FLCount; fl++ {
		for sl := 0; sl < mapping.SLCount; sl++ {
			for off := idx.heads[fl][sl]; off != arenamem.Sentinel; {
				fn(fl, sl, off)
				_, next := a.ReadLinks(off)
				off = next
			}
		}
	}
}

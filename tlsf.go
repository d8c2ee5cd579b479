/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

// Package tlsf implements a two-level segregated-fit (TLSF) sub-allocator
// over a single, fixed-size, contiguous byte arena. It services
// Allocate(size) -> offset and Deallocate(offset) in O(1) worst case,
// returning byte offsets into the owned arena rather than raw pointers —
// suitable for sub-allocating GPU buffers, memory-mapped regions, network
// buffers, or any other externally-managed contiguous resource.
//
// IMPORTANT: this package is NOT goroutine-safe. The allocator is
// exclusively owned; callers must serialize their own access.
package tlsf

import (
	"github.com/arenabyte/tlsf/internal/arenamem"
	"github.com/arenabyte/tlsf/internal/freelist"
)

// Allocator is a TLSF sub-allocator over a single owned arena.
//
// WARNING: this type is NOT goroutine-safe.
type Allocator struct {
	arena *arenamem.Arena
	index *freelist.Index
	cfg   config
}

// New creates an Allocator managing an arena of the given capacity.
// capacity must be a nonzero multiple of 8 large enough to hold one
// minimal block (16 bytes); otherwise New returns ErrInvalidCapacity.
func New(capacity uint32, opts ...Option) (*Allocator, error) {
	if capacity == 0 || capacity%arenamem.Align != 0 || capacity < arenamem.MinBlock {
		return nil, ErrInvalidCapacity
	}

	a := &Allocator{
		arena: arenamem.New(capacity),
		index: freelist.New(),
	}
	for _, opt := range opts {
		opt(&a.cfg)
	}

	size := capacity - arenamem.MetaSize
	a.arena.SetTag(0, size, arenamem.PrevUsed|arenamem.NextUsed)
	freelist.PushFront(a.arena, a.index, 0, size)

	return a, nil
}

// Capacity returns the arena's total byte length.
func (a *Allocator) Capacity() uint32 { return a.arena.Capacity() }

// Free returns the sum of every free block's payload size, computed by
// walking the free lists (spec.md §6: "free()... walk of free lists").
func (a *Allocator) Free() uint32 {
	var total uint32
	freelist.Walk(a.arena, a.index, func(_, _ int, offset uint32) {
		total += arenamem.SizeOf(a.arena.HeadWord(offset))
	})
	return total
}

// Used returns the number of arena bytes currently committed to live
// allocations plus block-header overhead: Capacity() - Free().
func (a *Allocator) Used() uint32 { return a.Capacity() - a.Free() }

// Allocate reserves a block of at least size bytes and returns its byte
// offset into the arena. size must be > 0; Allocate panics otherwise, the
// same contract-violation-terminates-in-debug posture spec.md prescribes
// for precondition failures. ErrOutOfMemory is returned, not panicked,
// when no free-list bucket can satisfy the request — exhaustion is
// recoverable and must leave the allocator's state unchanged.
func (a *Allocator) Allocate(size uint32) (uint32, error) {
	if size == 0 {
		panic("tlsf: Allocate size must be > 0")
	}

	aligned := arenamem.AlignUp(size)
	if aligned < arenamem.MinPayload {
		aligned = arenamem.MinPayload
	}

	fl, sl, ok := a.index.Search(aligned)
	if !ok {
		return 0, ErrOutOfMemory
	}

	head := freelist.PopFront(a.arena, a.index, fl, sl)
	blockSize := arenamem.SizeOf(a.arena.HeadWord(head))
	leftover := blockSize - aligned

	if leftover >= arenamem.MinBlock {
		a.split(head, aligned, leftover)
	} else {
		a.absorb(head, blockSize)
	}

	if a.cfg.verifyAfterOp {
		a.mustVerify()
	}
	return head, nil
}

// absorb marks the whole popped block used, folding any leftover smaller
// than MinBlock into the allocation rather than splitting it off.
func (a *Allocator) absorb(head, blockSize uint32) {
	// A free block's own PREV_USED/NEXT_USED bits are already true: by
	// invariant 8, a free block's neighbors can never themselves be free,
	// so they must already be used (or a virtual wall). Only the
	// neighbors' tags, which still record this block as free, need
	// updating.
	a.arena.SetTag(head, blockSize, arenamem.Used|arenamem.PrevUsed|arenamem.NextUsed)
	a.arena.SetSuccessorFlag(head, blockSize, arenamem.PrevUsed)
	a.arena.SetPredecessorFlag(head, arenamem.NextUsed)
}

// split truncates the popped block to aligned bytes, marks it used, and
// reinserts the remaining leftover bytes as a new free block.
func (a *Allocator) split(head, aligned, leftoverTotal uint32) {
	a.arena.SetTag(head, aligned, arenamem.Used|arenamem.PrevUsed)

	leftoverHead := arenamem.NextHeadOffset(head, aligned)
	leftoverPayload := leftoverTotal - arenamem.MetaSize
	a.arena.SetTag(leftoverHead, leftoverPayload, arenamem.PrevUsed|arenamem.NextUsed)
	freelist.PushFront(a.arena, a.index, leftoverHead, leftoverPayload)

	a.arena.SetPredecessorFlag(head, arenamem.NextUsed)
}

// Deallocate returns the block at offset to the free list, coalescing it
// with any free neighbors. offset must have been returned by a prior
// Allocate call and not yet deallocated.
func (a *Allocator) Deallocate(offset uint32) error {
	if offset+arenamem.HeadSize > a.arena.Capacity() {
		return ErrInvalidOffset
	}

	word := a.arena.HeadWord(offset)
	if !arenamem.IsUsed(word) {
		return ErrDoubleFree
	}
	size := arenamem.SizeOf(word)

	coalescedTail := arenamem.TailOffset(offset, size)
	if !a.arena.IsLast(offset, size) {
		nextHead := arenamem.NextHeadOffset(offset, size)
		nextWord := a.arena.HeadWord(nextHead)
		if !arenamem.IsUsed(nextWord) {
			nextSize := arenamem.SizeOf(nextWord)
			freelist.Remove(a.arena, a.index, nextHead, nextSize)
			coalescedTail = arenamem.TailOffset(nextHead, nextSize)
		} else {
			a.arena.ClearSuccessorFlag(offset, size, arenamem.PrevUsed)
		}
	}

	coalescedHead := offset
	if !arenamem.IsFirst(offset) {
		prevTail := arenamem.PrevTailOffset(offset)
		prevTailWord := a.arena.TailWordAt(prevTail)
		if !arenamem.IsUsed(prevTailWord) {
			prevSize := arenamem.SizeOf(prevTailWord)
			prevHead := arenamem.PrevHeadOffset(prevTail, prevSize)
			freelist.Remove(a.arena, a.index, prevHead, prevSize)
			coalescedHead = prevHead
		} else {
			a.arena.ClearPredecessorFlag(offset, arenamem.NextUsed)
		}
	}

	coalescedSize := coalescedTail - coalescedHead - arenamem.HeadSize
	a.arena.SetTag(coalescedHead, coalescedSize, arenamem.PrevUsed|arenamem.NextUsed)
	freelist.PushFront(a.arena, a.index, coalescedHead, coalescedSize)

	if a.cfg.verifyAfterOp {
		a.mustVerify()
	}
	return nil
}

// Bytes exposes the raw arena for reading/writing a live allocation's
// payload. Callers must stay within [offset, offset+size) of an
// outstanding Allocate and must never touch bytes outside it.
func (a *Allocator) Bytes() []byte { return a.arena.Bytes() }

func (a *Allocator) mustVerify() {
	if err := a.Verify(); err != nil {
		panic(err)
	}
}

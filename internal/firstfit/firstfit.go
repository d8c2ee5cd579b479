// Package firstfit is a deliberately simple first-fit allocator used only
// as a reference oracle for the property test in ../../property_test.go
// (spec.md §8, law L3: oracle equivalence). It is not part of the public
// API — spec.md §1 explicitly scopes "alternate first-fit allocator
// variants" out of the core and treats them "purely as a reference oracle
// for property tests".
//
// It is a Go-idiomatic port of original_source/src/firstfit.rs's
// Malloc/MemBlock: search the free list for the first block big enough,
// partition off the leftover, and coalesce greedily on free. The Rust
// original indexes two capacity-sized arrays by byte address; this port
// keeps a small sorted slice of contiguous blocks instead; idiomatic Go,
// and equivalent in the property that matters here — whether a given
// allocate/deallocate sequence runs out of memory.
package firstfit

import "errors"

// ErrOutOfMemory is returned when no free block is large enough to satisfy
// a request.
var ErrOutOfMemory = errors.New("firstfit: out of memory")

// overhead is charged against every allocation to match the per-block
// bookkeeping cost (head + tail word) the TLSF allocator under test pays,
// so that OOM behavior is comparable between the two (see DESIGN.md).
const overhead = 8

// align matches the TLSF allocator's 8-byte payload granule.
const align = 8

type block struct {
	addr uint32
	size uint32 // total size, including overhead
	used bool
}

// Allocator is the first-fit oracle.
type Allocator struct {
	capacity uint32
	blocks   []block // sorted by addr; always tiles [0, capacity)
}

// New returns a first-fit allocator over an arena of the given capacity.
func New(capacity uint32) *Allocator {
	return &Allocator{capacity: capacity, blocks: []block{{addr: 0, size: capacity}}}
}

func alignUp(n uint32) uint32 { return (n + align - 1) &^ (align - 1) }

// Alloc returns the address of the first free block able to hold size
// bytes of payload, splitting off any leftover. It returns ErrOutOfMemory
// if none is found.
func (a *Allocator) Alloc(size uint32) (uint32, error) {
	need := alignUp(size) + overhead

	for i, b := range a.blocks {
		if b.used || b.size < need {
			continue
		}

		addr := b.addr
		if b.size == need {
			a.blocks[i].used = true
			return addr, nil
		}

		leftover := block{addr: addr + need, size: b.size - need}
		a.blocks[i] = block{addr: addr, size: need, used: true}
		tail := append([]block{leftover}, a.blocks[i+1:]...)
		a.blocks = append(a.blocks[:i+1], tail...)
		return addr, nil
	}
	return 0, ErrOutOfMemory
}

// Free returns the block at addr to the free list, coalescing with
// adjacent free neighbors.
func (a *Allocator) Free(addr uint32) error {
	idx := -1
	for i, b := range a.blocks {
		if b.addr == addr && b.used {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New("firstfit: invalid or already-free address")
	}

	a.blocks[idx].used = false

	if idx+1 < len(a.blocks) && !a.blocks[idx+1].used {
		a.blocks[idx].size += a.blocks[idx+1].size
		a.blocks = append(a.blocks[:idx+1], a.blocks[idx+2:]...)
	}
	if idx > 0 && !a.blocks[idx-1].used {
		a.blocks[idx-1].size += a.blocks[idx].size
		a.blocks = append(a.blocks[:idx], a.blocks[idx+1:]...)
	}
	return nil
}

// Available returns the total size of all free blocks, overhead included.
func (a *Allocator) Available() uint32 {
	var total uint32
	for _, b := range a.blocks {
		if !b.used {
			total += b.size
		}
	}
	return total
}

package tlsf

import (
	"fmt"

	"github.com/arenabyte/tlsf/internal/arenamem"
	"github.com/arenabyte/tlsf/internal/freelist"
)

// IntegrityError reports which invariant broke and where, grounded on
// cznic-exp/lldb's Allocator.Verify, which likewise walks a whole file and
// reports the first inconsistency it finds rather than just a bool.
type IntegrityError struct {
	Invariant string // e.g. "I1", "I2", ... per spec.md §8
	Offset    uint32
	Detail    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("tlsf: invariant %s violated at offset %d: %s", e.Invariant, e.Offset, e.Detail)
}

// Verify walks the arena head-to-tail re-deriving invariants I1-I6 from
// spec.md §8. It is O(n) in the number of blocks and is meant for tests and
// debugging (see WithIntegrityChecks), not the allocate/deallocate fast
// path.
func (a *Allocator) Verify() error {
	capacity := a.arena.Capacity()

	seen := make(map[uint32][2]int)
	freelist.Walk(a.arena, a.index, func(fl, sl int, offset uint32) {
		seen[offset] = [2]int{fl, sl}
	})

	var (
		offset       uint32
		blockCount   uint32
		payloadTotal uint32
		prevUsed     = true // virtual wall before the first block
	)

	for offset < capacity {
		if offset+arenamem.HeadSize > capacity {
			return &IntegrityError{"I1", offset, "head word runs past arena end"}
		}
		headWord := a.arena.HeadWord(offset)
		size := arenamem.SizeOf(headWord)
		tailOff := arenamem.TailOffset(offset, size)
		if tailOff+arenamem.TailSize > capacity {
			return &IntegrityError{"I1", offset, "tail word runs past arena end"}
		}
		tailWord := a.arena.TailWordAt(tailOff)

		if headWord != tailWord {
			return &IntegrityError{"I2", offset, "head/tail words differ"}
		}

		used := arenamem.IsUsed(headWord)
		if arenamem.IsPrevUsed(headWord) != prevUsed {
			return &IntegrityError{"I3", offset, "PREV_USED disagrees with previous block's USED"}
		}

		isLast := a.arena.IsLast(offset, size)
		if isLast && !arenamem.IsNextUsed(headWord) {
			return &IntegrityError{"I3", offset, "last block must have NEXT_USED (virtual wall)"}
		}
		if !isLast {
			nextHead := arenamem.NextHeadOffset(offset, size)
			if nextHead+arenamem.HeadSize > capacity {
				return &IntegrityError{"I1", offset, "next block head runs past arena end"}
			}
			nextUsed := arenamem.IsUsed(a.arena.HeadWord(nextHead))
			if arenamem.IsNextUsed(headWord) != nextUsed {
				return &IntegrityError{"I3", offset, "NEXT_USED disagrees with next block's USED"}
			}
			if !used && !nextUsed {
				return &IntegrityError{"I4", offset, "two adjacent free blocks"}
			}
		}

		if !used {
			fl, sl := freelist.Bucket(size)
			if a.index.Head(fl, sl) == arenamem.Sentinel {
				return &IntegrityError{"I5", offset, "free block's bucket head is empty"}
			}
			if bucket, ok := seen[offset]; !ok || bucket != [2]int{fl, sl} {
				return &IntegrityError{"I5", offset, "free block unreachable from its bucket"}
			}
		}

		payloadTotal += size
		blockCount++
		prevUsed = used
		offset = tailOff + arenamem.TailSize
	}

	if offset != capacity {
		return &IntegrityError{"I1", offset, "blocks do not tile the arena exactly"}
	}
	if payloadTotal+blockCount*arenamem.MetaSize != capacity {
		return &IntegrityError{"I6", 0, "sum of block sizes plus overhead does not equal capacity"}
	}

	return nil
}

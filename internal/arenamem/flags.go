package arenamem

// SetSuccessorFlag ORs flag into the HEAD+TAIL word of the block
// immediately following the one at head (payload size size), if one
// exists. Used by the allocate/deallocate engine to keep a neighbor's
// PREV_USED/NEXT_USED bit in sync with this block's own state transition
// (spec.md invariants 2 and 3).
func (a *Arena) SetSuccessorFlag(head, size, flag uint32) {
	if a.IsLast(head, size) {
		return
	}
	next := NextHeadOffset(head, size)
	word := a.HeadWord(next) | flag
	a.SetHeadWord(next, word)
	a.SetTailWordAt(TailOffset(next, SizeOf(word)), word)
}

// ClearSuccessorFlag is SetSuccessorFlag's inverse.
func (a *Arena) ClearSuccessorFlag(head, size, flag uint32) {
	if a.IsLast(head, size) {
		return
	}
	next := NextHeadOffset(head, size)
	word := a.HeadWord(next) &^ flag
	a.SetHeadWord(next, word)
	a.SetTailWordAt(TailOffset(next, SizeOf(word)), word)
}

// SetPredecessorFlag ORs flag into the HEAD+TAIL word of the block
// immediately preceding the one at head, if one exists.
func (a *Arena) SetPredecessorFlag(head, flag uint32) {
	if IsFirst(head) {
		return
	}
	prevTail := PrevTailOffset(head)
	prevSize := SizeOf(a.TailWordAt(prevTail))
	prevHead := PrevHeadOffset(prevTail, prevSize)
	word := a.HeadWord(prevHead) | flag
	a.SetHeadWord(prevHead, word)
	a.SetTailWordAt(prevTail, word)
}

// ClearPredecessorFlag is SetPredecessorFlag's inverse.
func (a *Arena) ClearPredecessorFlag(head, flag uint32) {
	if IsFirst(head) {
		return
	}
	prevTail := PrevTailOffset(head)
	prevSize := SizeOf(a.TailWordAt(prevTail))
	prevHead := PrevHeadOffset(prevTail, prevSize)
	word := a.HeadWord(prevHead) &^ flag
	a.SetHeadWord(prevHead, word)
	a.SetTailWordAt(prevTail, word)
}
